// Package bilayer generates the tiles of a fractal maze.
//
// A bilayer is one tile seen at two scales at once: the pattern its path
// follows across its N x N cells, and the sub-pattern chosen for each of
// those cells. Sub-patterns are chosen so that consecutive cells meet at the
// same socket on their shared edge, and so that the cells where the path
// enters and leaves the tile use the sockets derived from the tile's edges.
// Since those edge sockets come from seeds shared with the neighboring tile,
// any tile can be generated in isolation from its parent alone.
//
// Roots are the exception. The root of height 0 is chosen freely; every
// taller root is chosen among the patterns that pass through their center
// cell the way the previous root does, and embeds it there.
//
// [Generator] is pure: the same registry, coordinate and parent always yield
// the same bilayer. Caching and scheduling live in package engine.
package bilayer
