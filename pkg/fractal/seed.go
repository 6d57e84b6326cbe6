package fractal

import (
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/lfsr"
)

// LocalSeed derives the seed of a tile or cell from its canonical
// coordinate: the maze seed advanced once per level of height, then mixed
// with every trace index in order.
func (s Space) LocalSeed(c Coord) uint32 {
	c = s.Normalize(c)
	v := lfsr.Advance(c.Seed, c.Height)
	for _, t := range c.Trace {
		v = lfsr.Mix(v, uint32(t))
	}
	return v
}

// EdgeMidpoint returns twice the absolute position of the midpoint of side e
// of tile c. Doubling keeps it integral. Both tiles sharing an edge compute
// the same midpoint.
func (s Space) EdgeMidpoint(c Coord, e grid.Orientation) grid.Point {
	w := s.Extent(c)
	center := s.FractalToAbsolute(c)
	v := e.Vector()
	return grid.Point{
		X: 2*center.X + 1 + v.X*w,
		Y: 2*center.Y + 1 + v.Y*w,
	}
}

// EdgeSeed derives the seed of side e of tile c from the maze seed, the
// tile scale and the edge midpoint. It depends only on the edge itself, so
// the two tiles on either side of it agree.
func (s Space) EdgeSeed(c Coord, e grid.Orientation) uint32 {
	m := s.EdgeMidpoint(c, e)
	v := lfsr.Next(c.Seed + uint32(s.Scale(c)))
	v = lfsr.Mix(v, uint32(m.X))
	return lfsr.Mix(v, uint32(m.Y))
}

// ExternalSocket returns the socket through which the maze path crosses
// side e of tile c.
func (s Space) ExternalSocket(c Coord, e grid.Orientation) int {
	return int(s.EdgeSeed(c, e) % uint32(s.geom.SocketCount()))
}
