package pattern_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/pattern"
	"github.com/matzehuels/labyrinth/pkg/pattern/catalog"
)

func TestReadJSON(t *testing.T) {
	c, err := pattern.ReadJSON(bytes.NewReader(catalog.JSON()))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if c.Size != 5 || len(c.Patterns) != 114 {
		t.Errorf("ReadJSON() = size %d, %d patterns; want 5, 114", c.Size, len(c.Patterns))
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"malformed", `[[0, 1`, errors.ErrCodeInvalidCatalog},
		{"empty", `[]`, errors.ErrCodeInvalidCatalog},
		{"not square", `[[0, 1, 2]]`, errors.ErrCodeInvalidPattern},
		{"mixed sizes", `[[0, 1, 2, 3], [0, 1, 2, 3, 4, 5, 6, 7, 8]]`, errors.ErrCodeInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pattern.ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON(%q) error = %v, want code %v", tt.input, err, tt.code)
			}
		})
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}

	var buf bytes.Buffer
	if err := pattern.WriteYAML(&buf, c); err != nil {
		t.Fatalf("WriteYAML() error: %v", err)
	}
	if out := buf.String(); !strings.HasPrefix(out, "size: 5\n") || !strings.Contains(out, "- [0, 1, 6, 5,") {
		t.Errorf("WriteYAML() output starts %q", out[:40])
	}

	got, err := pattern.ReadYAML(&buf)
	if err != nil {
		t.Fatalf("ReadYAML() error: %v", err)
	}
	if !reflect.DeepEqual(got, c) {
		t.Error("YAML round trip changed the catalog")
	}
}

func TestReadYAMLSizeMismatch(t *testing.T) {
	doc := "size: 7\npatterns:\n  - [0, 1, 2, 3, 4, 9, 14, 19, 24, 23, 18, 13, 8, 7, 6, 5, 10, 11, 16, 15, 20, 21, 22, 17, 12]\n"
	if _, err := pattern.ReadYAML(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeInvalidCatalog) {
		t.Errorf("ReadYAML() error = %v, want INVALID_CATALOG", err)
	}
}

func TestLoad(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "patterns.json")
	var buf bytes.Buffer
	if err := pattern.WriteJSON(&buf, c); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), catalog.JSON()) {
		t.Error("WriteJSON() output differs from the embedded file layout")
	}
	if err := os.WriteFile(jsonPath, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	yamlPath := filepath.Join(dir, "patterns.yml")
	buf.Reset()
	if err := pattern.WriteYAML(&buf, c); err != nil {
		t.Fatalf("WriteYAML() error: %v", err)
	}
	if err := os.WriteFile(yamlPath, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, yamlPath} {
		got, err := pattern.Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error: %v", path, err)
		}
		if !reflect.DeepEqual(got, c) {
			t.Errorf("Load(%s) differs from the source catalog", path)
		}
	}

	if _, err := pattern.Load(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := pattern.Load(filepath.Join(dir, "patterns.txt")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load(.txt) error = %v, want INVALID_FORMAT", err)
	}
}

func TestEnumerateReproducesEmbeddedCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("enumeration walks every Hamiltonian path of the 5x5 grid")
	}
	want, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}

	got, err := pattern.Enumerate(context.Background(), catalog.Size, catalog.PerPair)
	if err != nil {
		t.Fatalf("Enumerate() error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Enumerate() produced %d patterns, embedded catalog has %d", len(got.Patterns), len(want.Patterns))
	}
}

func TestEnumerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pattern.Enumerate(ctx, 7, 0); err == nil {
		t.Error("Enumerate() with a cancelled context should fail")
	}
}
