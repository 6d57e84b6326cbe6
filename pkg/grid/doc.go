// Package grid provides the geometry primitives shared by every layer of the
// maze engine.
//
// # Orientations
//
// [Orientation] names the four sides of a cell or pattern, in clockwise order
// North, East, South, West. Each maps to a unit [Point] step in absolute
// coordinates, where X grows eastward and Y grows southward:
//
//	grid.North.Vector()   // (0,-1)
//	grid.East.Opposite()  // west
//
// # Pattern Geometry
//
// A [Geometry] describes an N x N pattern grid with odd N. Cells are indexed
// row-major from the north-west corner. The boundary carries N/2+1 sockets per
// edge, one at every even offset, which is where a pattern's path enters and
// leaves:
//
//	g := grid.Geometry{Size: 5}
//	g.EdgeCell(grid.EdgeSocket{Edge: grid.East, Socket: 1})  // 14
//	g.EdgeSockets(0)  // [north:0 west:0], a corner
//
// Corner cells hold a socket on two edges at once. [Geometry.EdgeSockets]
// returns every interpretation so the pattern catalog can register each one.
//
// Out-of-range orientations, indices and sockets are programmer errors. They
// panic with an [errors.ErrCodeMalformedCoordinate] error rather than
// returning one.
package grid
