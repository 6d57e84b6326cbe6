package engine

import (
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/fractal"
	"github.com/matzehuels/labyrinth/pkg/grid"
)

// Every query below needs some tiles to be generated. When one is missing it
// is queued, and the query reports ok == false: try again after a Step.

// parent returns the bilayer of the tile directly containing c.
func (e *Engine) parent(c fractal.Coord) (fractal.Coord, int, bool) {
	p := e.space.Parent(c)
	l := e.Lookup(p)
	if !l.Ready() {
		return p, 0, false
	}
	return p, l.Bilayer.Pattern, true
}

// NextCell returns the cell following c along the maze path. c may also be
// a tile, in which case the result is the next tile of the same scale.
func (e *Engine) NextCell(c fractal.Coord) (fractal.Coord, bool) {
	return e.step(c, 1)
}

// PrevCell returns the cell preceding c along the maze path.
func (e *Engine) PrevCell(c fractal.Coord) (fractal.Coord, bool) {
	return e.step(c, -1)
}

func (e *Engine) step(c fractal.Coord, dir int) (fractal.Coord, bool) {
	e.checkCoord(c)
	parent, p, ok := e.parent(c)
	if !ok {
		return fractal.Coord{}, false
	}
	reg := e.gen.Registry
	k := reg.Indices(p)[c.Last()] + dir
	if k >= 0 && k < reg.Geometry().Cells() {
		return e.space.Child(parent, reg.Positions(p)[k]), true
	}

	// leaving the parent tile: the neighbor across its exit (or entrance)
	// edge, at the same scale
	edge := reg.Exit(p).Edge
	if dir < 0 {
		edge = reg.Entrance(p).Edge
	}
	scale := e.space.Scale(c)
	w := e.space.Pow(scale)
	v := edge.Vector()
	at := e.space.FractalToAbsolute(c)
	next := e.space.AbsoluteToFractal(c.Seed, grid.Point{X: at.X + v.X*w, Y: at.Y + v.Y*w})
	return e.space.TileAt(next, scale), true
}

// OrientationAt returns the side of c through which the path enters it.
func (e *Engine) OrientationAt(c fractal.Coord) (grid.Orientation, bool) {
	e.checkCoord(c)
	_, p, ok := e.parent(c)
	if !ok {
		return 0, false
	}
	reg := e.gen.Registry
	return reg.Orientations(p)[reg.Indices(p)[c.Last()]], true
}

// ExitAt returns the side of c through which the path leaves it.
func (e *Engine) ExitAt(c fractal.Coord) (grid.Orientation, bool) {
	e.checkCoord(c)
	_, p, ok := e.parent(c)
	if !ok {
		return 0, false
	}
	reg := e.gen.Registry
	return reg.ExitSides(p)[reg.Indices(p)[c.Last()]], true
}

// CommonAncestor returns the lowest tile containing both a and b. It needs
// no generated tiles.
func (e *Engine) CommonAncestor(a, b fractal.Coord) (fractal.Ancestor, bool) {
	return e.space.CommonAncestor(a, b)
}

// DistanceTo returns the number of steps along the path from cell a to cell
// b: positive when b lies ahead of a, negative when behind.
func (e *Engine) DistanceTo(a, b fractal.Coord) (int64, bool) {
	e.checkPair(a, b)
	if e.space.Equal(a, b) {
		return 0, true
	}
	anc, ok := e.space.CommonAncestor(a, b)
	if !ok {
		errors.Malformed("%v and %v are not distinct cells", a, b)
	}
	oa, ok := e.pathOrder(anc.Tile, e.space.Descend(anc.Tile, a))
	if !ok {
		return 0, false
	}
	ob, ok := e.pathOrder(anc.Tile, e.space.Descend(anc.Tile, b))
	if !ok {
		return 0, false
	}
	return ob - oa, true
}

// pathOrder returns the position along the path, counted in base cells, of the
// cell reached from tile by the child indices in rest.
func (e *Engine) pathOrder(tile fractal.Coord, rest []int) (int64, bool) {
	reg := e.gen.Registry
	cells := int64(reg.Geometry().Cells())
	weight := int64(1)
	for range rest[1:] {
		weight *= cells
	}

	var o int64
	cur := tile
	for _, idx := range rest {
		l := e.Lookup(cur)
		if !l.Ready() {
			return 0, false
		}
		o += int64(reg.Indices(l.Bilayer.Pattern)[idx]) * weight
		weight /= cells
		cur = e.space.Child(cur, idx)
	}
	return o, true
}

// DirectionTowards returns +1 when b lies ahead of a along the path, -1
// when it lies behind, and 0 when they are the same cell. Only the pattern
// of their common ancestor is needed.
func (e *Engine) DirectionTowards(a, b fractal.Coord) (int, bool) {
	e.checkPair(a, b)
	if e.space.Equal(a, b) {
		return 0, true
	}
	anc, ok := e.space.CommonAncestor(a, b)
	if !ok {
		errors.Malformed("%v and %v are not distinct cells", a, b)
	}
	l := e.Lookup(anc.Tile)
	if !l.Ready() {
		return 0, false
	}
	idx := e.gen.Registry.Indices(l.Bilayer.Pattern)
	if idx[anc.B] > idx[anc.A] {
		return 1, true
	}
	return -1, true
}

func (e *Engine) checkCoord(c fractal.Coord) {
	if err := e.space.Validate(c); err != nil {
		panic(err)
	}
}

func (e *Engine) checkPair(a, b fractal.Coord) {
	e.checkCoord(a)
	e.checkCoord(b)
	if a.Seed != b.Seed {
		panic(errors.New(errors.ErrCodeSeedMismatch, "cells of mazes %d and %d", a.Seed, b.Seed))
	}
	if !a.IsCell() || !b.IsCell() {
		errors.Malformed("distance needs two cells, got %v and %v", a, b)
	}
}
