package fractal

import (
	"slices"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/lfsr"
)

// Space maps between absolute grid positions and fractal coordinates for
// one pattern size. It holds no state beyond the geometry and is safe for
// concurrent use.
type Space struct {
	geom grid.Geometry
}

// NewSpace returns the coordinate space for g.
func NewSpace(g grid.Geometry) Space { return Space{geom: g} }

// Geometry returns the pattern geometry.
func (s Space) Geometry() grid.Geometry { return s.geom }

// Pow returns N^k.
func (s Space) Pow(k int) int {
	v := 1
	for ; k > 0; k-- {
		v *= s.geom.Size
	}
	return v
}

// Validate checks that c is well formed: a height between 0 and
// [errors.MaxHeight], a non-empty trace no longer than Height+1, and every
// index inside the pattern.
func (s Space) Validate(c Coord) error {
	if err := errors.ValidateHeight(s.geom.Size, c.Height); err != nil {
		return err
	}
	if len(c.Trace) == 0 || len(c.Trace) > c.Height+1 {
		return errors.New(errors.ErrCodeMalformedCoordinate,
			"trace length %d invalid for height %d", len(c.Trace), c.Height)
	}
	for _, t := range c.Trace {
		if t < 0 || t >= s.geom.Cells() {
			return errors.New(errors.ErrCodeMalformedCoordinate, "trace index %d out of range", t)
		}
	}
	return nil
}

// Origin returns the absolute position of the center cell of every root
// tile of a maze. It is derived from the seed so that different mazes do not
// share the fixed point of their fractal structure.
func (s Space) Origin(seed uint32) grid.Point {
	a := lfsr.Next(seed)
	b := lfsr.Next(a)
	n := uint32(s.geom.Size)
	return grid.Point{X: int(a % n), Y: int(b % n)}
}

// AbsoluteToFractal returns the canonical coordinate of the base cell at p.
//
// The offset from the maze origin is written in balanced base N, with digits
// in [-N/2, N/2]. Each digit pair becomes one trace index, most significant
// first, so the height is the smallest one whose root tile covers p.
func (s Space) AbsoluteToFractal(seed uint32, p grid.Point) Coord {
	o := s.Origin(seed)
	dx := s.balancedDigits(p.X - o.X)
	dy := s.balancedDigits(p.Y - o.Y)

	n := max(len(dx), len(dy), 1)
	trace := make([]int, n)
	for k := 0; k < n; k++ {
		var x, y int
		if k < len(dx) {
			x = dx[k]
		}
		if k < len(dy) {
			y = dy[k]
		}
		trace[n-1-k] = s.geom.FromOffset(grid.Point{X: x, Y: y})
	}
	return Coord{Seed: seed, Height: n - 1, Trace: trace}
}

// balancedDigits returns the balanced base-N digits of v, least significant first.
func (s Space) balancedDigits(v int) []int {
	n, half := s.geom.Size, s.geom.Half()
	var digits []int
	for v != 0 {
		d := floorMod(v+half, n) - half
		digits = append(digits, d)
		v = (v - d) / n
	}
	return digits
}

// FractalToAbsolute returns the absolute position of c. For a tile this is
// its center cell.
func (s Space) FractalToAbsolute(c Coord) grid.Point {
	p := s.Origin(c.Seed)
	w := s.Pow(c.Height)
	for k := 0; k <= c.Height; k++ {
		idx := s.geom.Center()
		if k < len(c.Trace) {
			idx = c.Trace[k]
		}
		off := s.geom.Offset(idx)
		p.X += off.X * w
		p.Y += off.Y * w
		w /= s.geom.Size
	}
	return p
}

// Normalize strips leading center indices, lowering the height, until the
// coordinate is canonical. A root tile keeps its single trace index.
func (s Space) Normalize(c Coord) Coord {
	center := s.geom.Center()
	h, t := c.Height, c.Trace
	for h > 0 && len(t) > 1 && t[0] == center {
		t = t[1:]
		h--
	}
	return Coord{Seed: c.Seed, Height: h, Trace: t}
}

// Extend returns the equivalent coordinate one level taller.
func (s Space) Extend(c Coord) Coord {
	t := make([]int, 0, len(c.Trace)+1)
	t = append(t, s.geom.Center())
	t = append(t, c.Trace...)
	return Coord{Seed: c.Seed, Height: c.Height + 1, Trace: t}
}

// Equal reports whether a and b address the same cell or tile.
func (s Space) Equal(a, b Coord) bool {
	a, b = s.Normalize(a), s.Normalize(b)
	return a.Seed == b.Seed && a.Height == b.Height && slices.Equal(a.Trace, b.Trace)
}

// Scale returns the level of c: 0 for a base cell, and L for a tile whose
// side is N^L cells.
func (s Space) Scale(c Coord) int { return c.Height + 1 - len(c.Trace) }

// Extent returns the side length of c in base cells.
func (s Space) Extent(c Coord) int { return s.Pow(s.Scale(c)) }

// Root returns the coordinate of the root tile of the given height.
func (s Space) Root(seed uint32, height int) Coord {
	return Coord{Seed: seed, Height: height + 1, Trace: []int{s.geom.Center()}}
}

// Parent returns the tile directly containing c.
func (s Space) Parent(c Coord) Coord {
	if len(c.Trace) == 1 {
		c = s.Extend(c)
	}
	return Coord{Seed: c.Seed, Height: c.Height, Trace: c.Trace[:len(c.Trace)-1]}
}

// Child returns cell index i of tile c, normalized.
func (s Space) Child(c Coord, i int) Coord {
	t := make([]int, 0, len(c.Trace)+1)
	t = append(t, c.Trace...)
	t = append(t, i)
	return s.Normalize(Coord{Seed: c.Seed, Height: c.Height, Trace: t})
}

// TileAt returns the tile of the given scale containing c. It returns c
// itself if c is already at least that large.
func (s Space) TileAt(c Coord, scale int) Coord {
	for s.Scale(c) < scale {
		c = s.Parent(c)
	}
	return c
}

// Ancestor is the lowest tile containing two coordinates, together with the
// indices of the children of that tile that contain each of them.
type Ancestor struct {
	Tile Coord
	A, B int
}

// CommonAncestor finds the lowest tile containing both a and b. ok is false
// when the coordinates belong to different mazes or when one contains the
// other, including when they are equal.
func (s Space) CommonAncestor(a, b Coord) (anc Ancestor, ok bool) {
	if a.Seed != b.Seed {
		return Ancestor{}, false
	}
	h := max(a.Height, b.Height) + 1
	ta, tb := s.extendTo(a, h), s.extendTo(b, h)

	n := min(len(ta), len(tb))
	i := 0
	for i < n && ta[i] == tb[i] {
		i++
	}
	if i == n {
		return Ancestor{}, false
	}
	tile := Coord{Seed: a.Seed, Height: h, Trace: slices.Clone(ta[:i])}
	return Ancestor{Tile: tile, A: ta[i], B: tb[i]}, true
}

// extendTo returns the trace of c re-expressed at height h >= c.Height.
func (s Space) extendTo(c Coord, h int) []int {
	t := make([]int, 0, h-c.Height+len(c.Trace))
	for i := c.Height; i < h; i++ {
		t = append(t, s.geom.Center())
	}
	return append(t, c.Trace...)
}

// Descend returns the trace of c re-expressed below tile, which must
// contain c. The first element is the child of tile containing c.
func (s Space) Descend(tile, c Coord) []int {
	h := max(tile.Height, c.Height)
	t := s.extendTo(c, h)
	return t[len(s.extendTo(tile, h)):]
}

func floorMod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
