// Package fractal implements the self-similar coordinate system of the maze
// and the deterministic seeds derived from it.
//
// # Coordinates
//
// The infinite grid is tiled by nested squares. A tile of scale L is an
// N^L x N^L block of base cells, split into N x N child tiles of scale L-1.
// Every maze has a fixed origin, derived from its seed, and a tower of root
// tiles centered on it; the root of height h has scale h+1 and holds the
// root of height h-1 as its center child.
//
// A [Coord] names a location by the root it starts from and the list of
// child indices leading down to it:
//
//	space := fractal.NewSpace(grid.Geometry{Size: 5})
//	c := space.AbsoluteToFractal(seed, grid.Point{X: 3, Y: 4})
//	// c.Height == 1, c.Trace == [17 4]
//	space.FractalToAbsolute(c)  // (3,4)
//
// Prefixing the center index and raising the height yields an equivalent
// coordinate. [Space.Normalize] removes such prefixes, so coordinates are
// compared with [Space.Equal] rather than field by field.
//
// # Seeds
//
// Every random choice made for a tile comes from one of two seeds:
//
//   - [Space.LocalSeed]: derived from the canonical coordinate of the tile,
//     used for the choices inside it
//   - [Space.EdgeSeed]: derived from the absolute midpoint of one side of a
//     tile and its scale, used for the socket through which the path crosses
//     that side
//
// Since an edge seed depends only on the edge, the tiles on both sides of it
// derive the same socket independently, and neighboring tiles always connect
// no matter in which order they are generated.
package fractal
