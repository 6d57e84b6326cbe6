package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// ViewDocument is the JSON form of a rendered view.
type ViewDocument struct {
	Viewport render.Viewport `json:"viewport"`
	Ready    bool            `json:"ready"`
	Pending  int             `json:"pending"`

	// Rows holds one string per glyph row, one rune per cell: a box glyph,
	// or the placeholder where the tile is missing.
	Rows    []string        `json:"rows"`
	Markers []render.Marker `json:"markers,omitempty"`
}

// encodeView renders f in the given format.
func encodeView(f render.Frame, format string, markers []render.Marker) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(f.Text(render.PlainStyles(), markers)), nil
	case FormatJSON:
		doc := ViewDocument{
			Viewport: f.Viewport,
			Ready:    f.Ready(),
			Pending:  f.Pending,
			Rows:     make([]string, len(f.Cells)),
			Markers:  markers,
		}
		for i, cells := range f.Cells {
			var b strings.Builder
			for _, c := range cells {
				if c.Ready {
					b.WriteRune(render.Glyph(c.Entry, c.Exit))
				} else {
					b.WriteRune(render.Placeholder)
				}
			}
			doc.Rows[i] = b.String()
		}
		return json.Marshal(doc)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "view format %q", format)
	}
}
