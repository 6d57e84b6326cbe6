// Package pipeline renders maze artifacts on demand, with caching.
//
// The engine never blocks: a query for a tile that is not generated yet
// returns "try again later" and queues the tile. This package is the
// blocking layer on top for callers that want a finished artifact, such as
// the CLI and the HTTP API. It drives [engine.Engine.Pump] until the
// requested view or tile is complete, renders it, and stores the result in
// a [cache.Cache].
//
// # Artifacts
//
//   - Views: a viewport of one maze, as plain text or JSON
//   - Tiles: the path through one tile, as Graphviz DOT or SVG
//
// Cache keys include the pattern catalog fingerprint, so an artifact is
// reused only with the catalog that produced it.
//
// # Usage
//
//	runner := pipeline.NewRunner(eng, c, nil, logger)
//	res, err := runner.RenderView(ctx, pipeline.ViewOptions{
//	    Viewport: render.Viewport{Seed: 17, Width: 40, Height: 20},
//	    Format:   pipeline.FormatText,
//	})
//	fmt.Print(string(res.Data))
package pipeline

import (
	"slices"
	"strings"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/fractal"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ViewFormats are the formats a view renders to.
var ViewFormats = []string{FormatText, FormatJSON}

// TileFormats are the formats a tile diagram renders to.
var TileFormats = []string{FormatDOT, FormatSVG}

// ViewOptions configures [Runner.RenderView].
type ViewOptions struct {
	Viewport render.Viewport `json:"viewport"`
	Format   string          `json:"format"`

	// Markers are drawn over the maze in text output and listed in JSON
	// output.
	Markers []render.Marker `json:"markers,omitempty"`

	// Partial returns the frame as soon as generation stalls instead of
	// failing. Partial frames are not cached.
	Partial bool `json:"partial,omitempty"`

	// Refresh skips the cache lookup. The result is still stored.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks the options and fills in the default format.
func (o *ViewOptions) Validate() error {
	if o.Format == "" {
		o.Format = FormatText
	}
	if err := ValidateFormat(o.Format, ViewFormats); err != nil {
		return err
	}
	return o.Viewport.Validate()
}

// TileOptions configures [Runner.RenderTile].
type TileOptions struct {
	Coord    fractal.Coord `json:"coord"`
	Format   string        `json:"format"`
	Detailed bool          `json:"detailed,omitempty"`
	Refresh  bool          `json:"refresh,omitempty"`
}

// Validate checks the options and fills in the default format.
func (o *TileOptions) Validate(space fractal.Space) error {
	if o.Format == "" {
		o.Format = FormatDOT
	}
	if err := ValidateFormat(o.Format, TileFormats); err != nil {
		return err
	}
	if err := space.Validate(o.Coord); err != nil {
		return err
	}
	if space.Scale(o.Coord) < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "%s is a cell, not a tile", o.Coord)
	}
	return nil
}

// ValidateFormat checks that format is one of valid.
func ValidateFormat(format string, valid []string) error {
	if !slices.Contains(valid, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "format must be one of %s, got %q",
			strings.Join(valid, ", "), format)
	}
	return nil
}
