// Package catalog embeds the default base pattern catalog.
//
// The catalog holds 114 Hamiltonian paths of the 5x5 grid, produced by
// pattern.Enumerate with six paths kept per start/end pair. Registered under
// every rotation and corner interpretation they yield 600 patterns, with the
// middle socket universal.
package catalog

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/pattern"
)

// Size is the side length of the embedded patterns.
const Size = 5

// PerPair is the number of paths kept per start/end pair when the embedded
// catalog was enumerated.
const PerPair = 6

//go:embed patterns.json
var patternsJSON []byte

var (
	once    sync.Once
	def     pattern.Catalog
	loadErr error
)

// Default returns the embedded catalog. The returned patterns are shared and
// must not be modified.
func Default() (pattern.Catalog, error) {
	once.Do(func() {
		def, loadErr = pattern.ReadJSON(bytes.NewReader(patternsJSON))
	})
	return def, loadErr
}

// JSON returns the raw embedded catalog file.
func JSON() []byte { return patternsJSON }

// NewRegistry builds a registry from the embedded catalog.
func NewRegistry(logger *log.Logger) (*pattern.Registry, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Registry(pattern.WithLogger(logger))
}
