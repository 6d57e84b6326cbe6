package fractal

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// Coord addresses a cell or tile of one maze.
//
// The trace lists child indices from the outermost tile inward: Trace[0] is
// a cell index within the root tile of the given Height, Trace[1] a cell
// index within that child, and so on. A trace of length Height+1 reaches a
// single base cell; shorter traces stop at a tile of side N^(Height+1-len).
//
// The same location has many coordinates, since prefixing the center index
// and incrementing Height changes nothing. [Space.Normalize] picks the
// canonical one; compare coordinates with [Space.Equal].
type Coord struct {
	Seed   uint32 `json:"seed"`
	Height int    `json:"height"`
	Trace  []int  `json:"trace"`
}

// Last returns the innermost trace index.
func (c Coord) Last() int { return c.Trace[len(c.Trace)-1] }

// IsCell reports whether c addresses a single base cell.
func (c Coord) IsCell() bool { return len(c.Trace) == c.Height+1 }

// Clone returns a copy of c that shares no memory with it.
func (c Coord) Clone() Coord {
	return Coord{Seed: c.Seed, Height: c.Height, Trace: slices.Clone(c.Trace)}
}

// String formats c as seed/height/t0.t1.t2, the form accepted by [ParseCoord].
func (c Coord) String() string {
	parts := make([]string, len(c.Trace))
	for i, t := range c.Trace {
		parts[i] = strconv.Itoa(t)
	}
	return fmt.Sprintf("%d/%d/%s", c.Seed, c.Height, strings.Join(parts, "."))
}

// ParseCoord parses the seed/height/t0.t1 form produced by [Coord.String].
// It checks syntax only; use [Space.Validate] to check ranges.
func ParseCoord(s string) (Coord, error) {
	fields := strings.Split(s, "/")
	if len(fields) != 3 {
		return Coord{}, errors.New(errors.ErrCodeInvalidInput, "coordinate %q is not seed/height/trace", s)
	}
	seed, err := errors.ParseSeed(fields[0])
	if err != nil {
		return Coord{}, err
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil {
		return Coord{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "coordinate height %q", fields[1])
	}
	var trace []int
	for _, f := range strings.Split(fields[2], ".") {
		t, err := strconv.Atoi(f)
		if err != nil {
			return Coord{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "coordinate trace element %q", f)
		}
		trace = append(trace, t)
	}
	return Coord{Seed: seed, Height: h, Trace: trace}, nil
}
