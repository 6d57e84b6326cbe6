package bilayer

import (
	"github.com/matzehuels/labyrinth/pkg/fractal"
)

// Status is the generation state of a tile slot.
type Status uint8

const (
	// Absent means nobody has asked for the tile yet.
	Absent Status = iota
	// Pending means the tile is queued for generation, or its generation
	// failed and it will not be retried.
	Pending
	// Ready means the tile is generated and its bilayer can be read.
	Ready
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Slot holds one child of a bilayer. Bilayer is set only when Status is
// Ready.
type Slot struct {
	Status  Status
	Bilayer *Bilayer
}

// Bilayer is a generated tile: the pattern its path follows and, for tiles
// above the base layer, the pattern chosen for each of its cells.
//
// A bilayer whose cells are base cells has nil SubPatterns and Children;
// its pattern alone decides how the path crosses every cell. For the others
// the path through cell i of the tile follows SubPatterns[i], and sub-patterns
// of consecutive cells meet on the shared edge at the same socket.
type Bilayer struct {
	Coord       fractal.Coord // normalized
	LocalSeed   uint32
	Pattern     int
	SubPatterns []int  // by cell index
	Children    []Slot // by cell index, filled in by the engine
}

// IsBase reports whether the cells of b are base cells.
func (b *Bilayer) IsBase() bool { return b.SubPatterns == nil }
