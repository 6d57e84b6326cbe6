package grid

import (
	"fmt"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// AnySocket is the wildcard socket in a [EdgeSocket] query.
const AnySocket = -1

// EdgeSocket names a connection point on the boundary of a pattern: an edge
// and a socket index along it. Sockets sit at even offsets along each edge,
// so a pattern of side N has N/2+1 sockets per edge.
type EdgeSocket struct {
	Edge   Orientation
	Socket int
}

// Any reports whether the socket is the wildcard.
func (es EdgeSocket) Any() bool { return es.Socket == AnySocket }

func (es EdgeSocket) String() string {
	if es.Any() {
		return es.Edge.String() + ":*"
	}
	return fmt.Sprintf("%s:%d", es.Edge, es.Socket)
}

// Geometry describes an N x N pattern grid. Cells are indexed row-major from
// the north-west corner, so index = row*N + col.
type Geometry struct {
	Size int
}

// NewGeometry validates size and returns its geometry.
func NewGeometry(size int) (Geometry, error) {
	if err := errors.ValidatePatternSize(size); err != nil {
		return Geometry{}, err
	}
	return Geometry{Size: size}, nil
}

// Cells returns N².
func (g Geometry) Cells() int { return g.Size * g.Size }

// Half returns N/2, the offset of the center row and column.
func (g Geometry) Half() int { return g.Size / 2 }

// Center returns the index of the center cell.
func (g Geometry) Center() int { return g.Cells() / 2 }

// SocketCount returns the number of sockets per edge.
func (g Geometry) SocketCount() int { return g.Size/2 + 1 }

// MaxSocket returns the highest socket index.
func (g Geometry) MaxSocket() int { return g.Size / 2 }

// Index converts a (row, col) pattern coordinate into a cell index.
func (g Geometry) Index(row, col int) int {
	if row < 0 || row >= g.Size || col < 0 || col >= g.Size {
		errors.Malformed("pattern coordinate (%d,%d) out of range for size %d", row, col, g.Size)
	}
	return row*g.Size + col
}

// Cell converts a cell index into its (row, col) pattern coordinate.
func (g Geometry) Cell(index int) (row, col int) {
	g.checkIndex(index)
	return index / g.Size, index % g.Size
}

// Offset returns the displacement of a cell from the center cell.
func (g Geometry) Offset(index int) Point {
	row, col := g.Cell(index)
	return Point{X: col - g.Half(), Y: row - g.Half()}
}

// FromOffset is the inverse of [Geometry.Offset].
func (g Geometry) FromOffset(p Point) int {
	return g.Index(p.Y+g.Half(), p.X+g.Half())
}

// Clockwise returns the index of the cell that index moves to when the whole
// pattern is rotated a quarter turn clockwise: (r, c) becomes (c, N-1-r).
func (g Geometry) Clockwise(index int) int {
	row, col := g.Cell(index)
	return g.Index(col, g.Size-1-row)
}

// EdgeCell returns the index of the boundary cell holding a socket.
func (g Geometry) EdgeCell(es EdgeSocket) int {
	es.Edge.check()
	if es.Socket < 0 || es.Socket > g.MaxSocket() {
		errors.Malformed("socket %d out of range for size %d", es.Socket, g.Size)
	}
	p := 2 * es.Socket
	switch es.Edge {
	case North:
		return g.Index(0, p)
	case East:
		return g.Index(p, g.Size-1)
	case South:
		return g.Index(g.Size-1, p)
	default:
		return g.Index(p, 0)
	}
}

// EdgeSockets returns every boundary interpretation of a cell. Corner cells
// hold a socket on two edges, other socket cells on one, and interior or
// odd-offset boundary cells on none.
func (g Geometry) EdgeSockets(index int) []EdgeSocket {
	row, col := g.Cell(index)
	last := g.Size - 1
	var out []EdgeSocket
	if row == 0 && col%2 == 0 {
		out = append(out, EdgeSocket{North, col / 2})
	}
	if col == last && row%2 == 0 {
		out = append(out, EdgeSocket{East, row / 2})
	}
	if row == last && col%2 == 0 {
		out = append(out, EdgeSocket{South, col / 2})
	}
	if col == 0 && row%2 == 0 {
		out = append(out, EdgeSocket{West, row / 2})
	}
	return out
}

// OnBoundary reports whether a cell lies on the pattern's outer ring.
func (g Geometry) OnBoundary(index int) bool {
	row, col := g.Cell(index)
	return row == 0 || col == 0 || row == g.Size-1 || col == g.Size-1
}

// Adjacent reports whether two cells share a side.
func (g Geometry) Adjacent(a, b int) bool {
	_, ok := g.side(a, b)
	return ok
}

// Side returns the side of cell from on which cell to lies. It panics if the
// two cells are not adjacent.
func (g Geometry) Side(from, to int) Orientation {
	o, ok := g.side(from, to)
	if !ok {
		errors.Malformed("cells %d and %d are not adjacent", from, to)
	}
	return o
}

func (g Geometry) side(from, to int) (Orientation, bool) {
	fr, fc := g.Cell(from)
	tr, tc := g.Cell(to)
	d := Point{X: tc - fc, Y: tr - fr}
	for _, o := range Orientations {
		if vectors[o] == d {
			return o, true
		}
	}
	return 0, false
}

// RotateSocket maps a socket through k clockwise quarter turns of the whole
// pattern. The edge turns with the pattern. Socket offsets are measured from
// the north or west end of an edge, so they flip whenever a turn carries an
// edge onto one measured from the opposite end.
func (g Geometry) RotateSocket(es EdgeSocket, k int) EdgeSocket {
	k = mod(k, 4)
	out := EdgeSocket{Edge: es.Edge.Rotate(k), Socket: es.Socket}
	if es.Any() {
		return out
	}
	var flip bool
	if es.Edge == North || es.Edge == South {
		flip = k > 1
	} else {
		flip = k == 1 || k == 2
	}
	if flip {
		out.Socket = g.MaxSocket() - es.Socket
	}
	return out
}

// SocketID packs an edge socket into a dense integer in [0, 4*SocketCount).
func (g Geometry) SocketID(es EdgeSocket) int {
	es.Edge.check()
	if es.Socket < 0 || es.Socket > g.MaxSocket() {
		errors.Malformed("socket %d out of range for size %d", es.Socket, g.Size)
	}
	return int(es.Edge)*g.SocketCount() + es.Socket
}

// SocketFromID is the inverse of [Geometry.SocketID].
func (g Geometry) SocketFromID(id int) EdgeSocket {
	if id < 0 || id >= 4*g.SocketCount() {
		errors.Malformed("socket id %d out of range for size %d", id, g.Size)
	}
	return EdgeSocket{Edge: Orientation(id / g.SocketCount()), Socket: id % g.SocketCount()}
}

func (g Geometry) checkIndex(index int) {
	if index < 0 || index >= g.Cells() {
		errors.Malformed("cell index %d out of range for size %d", index, g.Size)
	}
}
