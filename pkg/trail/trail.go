// Package trail moves agents along maze paths toward a shared destination.
//
// A trail lives in its own maze, identified by seed, and remembers its last
// few positions. Every advance moves it one cell along its maze path, in
// whichever direction brings it closer to the destination, so several
// trails with different seeds wander toward the same point by different
// routes.
package trail

import (
	"github.com/google/uuid"

	"github.com/matzehuels/labyrinth/pkg/engine"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/fractal"
	"github.com/matzehuels/labyrinth/pkg/grid"
)

// DefaultLength is the number of positions a trail remembers.
const DefaultLength = 15

// DefaultSeeds are the maze seeds of the default set of trails.
var DefaultSeeds = []uint32{19283801, 74982018, 57319834}

// Trail is an agent walking the path of one maze.
type Trail struct {
	ID   uuid.UUID
	Seed uint32

	// Positions holds the most recent positions, newest first. It always
	// has the trail length; a fresh trail repeats its start position.
	Positions []grid.Point

	head fractal.Coord
}

// New returns a trail of the given length standing at start in the maze of
// seed.
func New(space fractal.Space, seed uint32, length int, start grid.Point) (*Trail, error) {
	if length < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "trail length must be positive, got %d", length)
	}
	t := &Trail{
		ID:        uuid.New(),
		Seed:      seed,
		Positions: make([]grid.Point, length),
		head:      space.AbsoluteToFractal(seed, start),
	}
	for i := range t.Positions {
		t.Positions[i] = start
	}
	return t, nil
}

// Defaults returns one trail per default seed, all starting at start.
func Defaults(space fractal.Space, start grid.Point) []*Trail {
	out := make([]*Trail, len(DefaultSeeds))
	for i, seed := range DefaultSeeds {
		out[i], _ = New(space, seed, DefaultLength, start)
	}
	return out
}

// Head returns the current position.
func (t *Trail) Head() grid.Point { return t.Positions[0] }

// Coord returns the current position as a coordinate of the trail's maze.
func (t *Trail) Coord() fractal.Coord { return t.head }

// Advance moves the trail one cell toward dest along its maze path. moved
// is false when the trail already stands on dest. ok is false when a tile
// the move depends on is not generated yet; the trail stays put and the
// tile is queued.
func (t *Trail) Advance(e *engine.Engine, dest grid.Point) (moved, ok bool) {
	target := e.Space().AbsoluteToFractal(t.Seed, dest)
	dir, ok := e.DirectionTowards(t.head, target)
	if !ok {
		return false, false
	}

	var next fractal.Coord
	switch {
	case dir > 0:
		next, ok = e.NextCell(t.head)
	case dir < 0:
		next, ok = e.PrevCell(t.head)
	default:
		return false, true
	}
	if !ok {
		return false, false
	}

	t.head = next
	copy(t.Positions[1:], t.Positions[:len(t.Positions)-1])
	t.Positions[0] = e.Space().FractalToAbsolute(next)
	return true, true
}

// Flock is a set of trails heading for one destination.
type Flock struct {
	Trails      []*Trail
	Destination grid.Point
}

// Advance moves every trail one step. It returns how many trails moved and
// how many are waiting for tiles.
func (f *Flock) Advance(e *engine.Engine) (moved, waiting int) {
	for _, t := range f.Trails {
		m, ok := t.Advance(e, f.Destination)
		if !ok {
			waiting++
		} else if m {
			moved++
		}
	}
	return moved, waiting
}

// Arrived reports whether every trail stands on the destination.
func (f *Flock) Arrived() bool {
	for _, t := range f.Trails {
		if t.Head() != f.Destination {
			return false
		}
	}
	return true
}

// Box returns the interest box of the flock.
func (f *Flock) Box() Box { return InterestBox(f.Destination, f.Trails) }
