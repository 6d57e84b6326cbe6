package grid

import (
	"fmt"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// Orientation is one of the four sides of a square cell or pattern.
type Orientation int

// The four orientations, in clockwise order.
const (
	North Orientation = iota
	East
	South
	West
)

// Orientations lists every orientation in clockwise order starting at North.
var Orientations = [4]Orientation{North, East, South, West}

var (
	vectors = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	names   = [4]string{"north", "east", "south", "west"}
)

// Valid reports whether o is one of the four orientations.
func (o Orientation) Valid() bool { return o >= North && o <= West }

func (o Orientation) check() {
	if !o.Valid() {
		errors.Malformed("orientation %d out of range", int(o))
	}
}

// Vector returns the unit step in absolute coordinates (y grows southward).
func (o Orientation) Vector() Point {
	o.check()
	return vectors[o]
}

// Opposite returns the orientation facing o.
func (o Orientation) Opposite() Orientation {
	o.check()
	return (o + 2) % 4
}

// Rotate turns o clockwise by k quarter turns.
func (o Orientation) Rotate(k int) Orientation {
	o.check()
	return Orientation((int(o) + mod(k, 4)) % 4)
}

// String returns the lowercase name of the orientation.
func (o Orientation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("orientation(%d)", int(o))
	}
	return names[o]
}

// ParseOrientation parses a name such as "north" or a single letter "n".
func ParseOrientation(s string) (Orientation, error) {
	for _, o := range Orientations {
		if s == o.String() || (len(s) == 1 && s[0] == o.String()[0]) {
			return o, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown orientation %q", s)
}

// Point is an absolute cell position. X grows eastward and Y southward.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Step returns the neighbor of p on side o.
func (p Point) Step(o Orientation) Point { return p.Add(o.Vector()) }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// mod is the non-negative remainder of a divided by n.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
