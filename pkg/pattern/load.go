package pattern

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// Catalog is a list of base patterns of a common side length.
type Catalog struct {
	Size     int
	Patterns [][]int
}

// NewCatalog infers the side length of patterns and checks that every
// pattern has the same number of cells.
func NewCatalog(patterns [][]int) (Catalog, error) {
	if len(patterns) == 0 {
		return Catalog{}, errors.New(errors.ErrCodeInvalidCatalog, "catalog is empty")
	}
	n, err := SideOf(len(patterns[0]))
	if err != nil {
		return Catalog{}, err
	}
	for i, p := range patterns {
		if len(p) != n*n {
			return Catalog{}, errors.New(errors.ErrCodeInvalidPattern,
				"pattern %d has %d cells, want %d", i, len(p), n*n)
		}
	}
	return Catalog{Size: n, Patterns: patterns}, nil
}

// Registry builds a [Registry] from the catalog.
func (c Catalog) Registry(opts ...Option) (*Registry, error) {
	return NewRegistry(c.Size, c.Patterns, opts...)
}

// ReadJSON decodes a catalog from r. The input is a JSON array of patterns,
// each an array of cell indices in traversal order:
//
//	[
//	  [0, 1, 6, 5, 10, ...],
//	  [0, 1, 2, 3, 8, ...]
//	]
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (Catalog, error) {
	var patterns [][]int
	if err := json.NewDecoder(r).Decode(&patterns); err != nil {
		return Catalog{}, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode JSON catalog")
	}
	return NewCatalog(patterns)
}

// yamlCatalog is the YAML document layout. The size is optional and, when
// present, must agree with the pattern length.
type yamlCatalog struct {
	Size     int     `yaml:"size,omitempty"`
	Patterns [][]int `yaml:"patterns"`
}

// ReadYAML decodes a catalog from r. The document is a mapping with a
// patterns list:
//
//	size: 5
//	patterns:
//	  - [0, 1, 6, 5, 10, ...]
func ReadYAML(r io.Reader) (Catalog, error) {
	var doc yamlCatalog
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Catalog{}, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode YAML catalog")
	}
	c, err := NewCatalog(doc.Patterns)
	if err != nil {
		return Catalog{}, err
	}
	if doc.Size != 0 && doc.Size != c.Size {
		return Catalog{}, errors.New(errors.ErrCodeInvalidCatalog,
			"catalog declares size %d but patterns have side %d", doc.Size, c.Size)
	}
	return c, nil
}

// Load reads a catalog file, choosing the decoder by extension.
func Load(path string) (Catalog, error) {
	if err := errors.ValidateCatalogPath(path); err != nil {
		return Catalog{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Catalog{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return Catalog{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadJSON(f)
	}
}

// WriteJSON writes the catalog as a JSON array with one pattern per line.
func WriteJSON(w io.Writer, c Catalog) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("[\n")
	for i, p := range c.Patterns {
		bw.WriteString("  [")
		for k, v := range p {
			if k > 0 {
				bw.WriteString(", ")
			}
			bw.WriteString(strconv.Itoa(v))
		}
		bw.WriteString("]")
		if i < len(c.Patterns)-1 {
			bw.WriteString(",")
		}
		bw.WriteString("\n")
	}
	bw.WriteString("]\n")
	return bw.Flush()
}

// WriteYAML writes the catalog as a YAML document readable by [ReadYAML].
// Patterns are emitted in flow style so each stays on one line.
func WriteYAML(w io.Writer, c Catalog) error {
	list := &yaml.Node{Kind: yaml.SequenceNode}
	for _, p := range c.Patterns {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, v := range p {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)})
		}
		list.Content = append(list.Content, seq)
	}
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "size"},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(c.Size)},
			{Kind: yaml.ScalarNode, Value: "patterns"},
			list,
		},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode YAML catalog: %w", err)
	}
	return enc.Close()
}
