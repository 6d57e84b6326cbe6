package render

import (
	"github.com/matzehuels/labyrinth/pkg/engine"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/fractal"
	"github.com/matzehuels/labyrinth/pkg/grid"
)

// Viewport selects the part of a maze to draw.
type Viewport struct {
	Seed   uint32     `json:"seed"`
	Center grid.Point `json:"center"` // absolute position shown in the middle
	Width  int        `json:"width"`  // glyph cells across
	Height int        `json:"height"` // glyph cells down
	Scale  int        `json:"scale"`  // each glyph cell shows a tile of N^Scale base cells
}

// Validate checks the viewport dimensions.
func (v Viewport) Validate() error {
	return errors.ValidateViewport(v.Width, v.Height, v.Scale)
}

// Cell is one glyph cell of a frame.
type Cell struct {
	Ready bool
	Entry grid.Orientation // side the path enters by
	Exit  grid.Orientation // side the path leaves by
}

// Connects reports whether the path crosses side o of the cell.
func (c Cell) Connects(o grid.Orientation) bool {
	return c.Ready && (c.Entry == o || c.Exit == o)
}

// Frame is a snapshot of a viewport. Cells are indexed [row][col].
type Frame struct {
	Viewport Viewport
	Cells    [][]Cell
	Pending  int // cells not drawn because their tiles are missing

	origin grid.Point // center of the tile at the middle cell
	extent int        // side of one glyph cell in base cells
}

// Ready reports whether every cell of the frame was drawn.
func (f Frame) Ready() bool { return f.Pending == 0 }

// Locate returns the glyph cell containing absolute position p.
func (f Frame) Locate(p grid.Point) (col, row int, ok bool) {
	half := f.extent / 2
	col = f.Viewport.Width/2 + floorDiv(p.X-f.origin.X+half, f.extent)
	row = f.Viewport.Height/2 + floorDiv(p.Y-f.origin.Y+half, f.extent)
	ok = col >= 0 && col < f.Viewport.Width && row >= 0 && row < f.Viewport.Height
	return col, row, ok
}

// Position returns the absolute center of glyph cell (col, row).
func (f Frame) Position(col, row int) grid.Point {
	return grid.Point{
		X: f.origin.X + (col-f.Viewport.Width/2)*f.extent,
		Y: f.origin.Y + (row-f.Viewport.Height/2)*f.extent,
	}
}

// Renderer builds frames from an engine.
type Renderer struct {
	Engine *engine.Engine
}

// NewRenderer returns a renderer for e.
func NewRenderer(e *engine.Engine) *Renderer { return &Renderer{Engine: e} }

// Frame draws v with whatever the engine has generated. Missing tiles are
// queued as a side effect.
func (r *Renderer) Frame(v Viewport) Frame {
	space := r.Engine.Space()
	f := Frame{
		Viewport: v,
		Cells:    make([][]Cell, v.Height),
		extent:   space.Pow(v.Scale),
	}
	f.origin = space.FractalToAbsolute(r.tile(v.Seed, v.Center, v.Scale))

	for row := range f.Cells {
		f.Cells[row] = make([]Cell, v.Width)
		for col := range f.Cells[row] {
			c := r.tile(v.Seed, f.Position(col, row), v.Scale)
			entry, ok1 := r.Engine.OrientationAt(c)
			exit, ok2 := r.Engine.ExitAt(c)
			if !ok1 || !ok2 {
				f.Pending++
				continue
			}
			f.Cells[row][col] = Cell{Ready: true, Entry: entry, Exit: exit}
		}
	}
	return f
}

func (r *Renderer) tile(seed uint32, p grid.Point, scale int) fractal.Coord {
	space := r.Engine.Space()
	return space.TileAt(space.AbsoluteToFractal(seed, p), scale)
}

// ScaleFor returns the smallest scale at which a viewport of the given
// width shows at least cellsAcross base cells.
func ScaleFor(cellsAcross float64, width, n int) int {
	if width < 1 {
		return 0
	}
	scale, span := 0, float64(width)
	for span < cellsAcross && scale < errors.MaxScale {
		span *= float64(n)
		scale++
	}
	return scale
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
