package pattern

import (
	"fmt"
	"math"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/grid"
)

// RotatePattern rotates a square pattern clockwise by k quarter turns. Every
// cell (r, c) of a single turn moves to (c, N-1-r). The side N is inferred
// from the pattern length, which must be a perfect square.
func RotatePattern(p []int, k int) []int {
	n, err := SideOf(len(p))
	if err != nil {
		panic(err)
	}
	return rotate(grid.Geometry{Size: n}, p, k)
}

func rotate(g grid.Geometry, p []int, k int) []int {
	k = ((k % 4) + 4) % 4
	out := make([]int, len(p))
	copy(out, p)
	for ; k > 0; k-- {
		for i, c := range out {
			out[i] = g.Clockwise(c)
		}
	}
	return out
}

// SideOf returns the side length of a square pattern with cells cells.
func SideOf(cells int) (int, error) {
	n := int(math.Round(math.Sqrt(float64(cells))))
	if cells <= 0 || n*n != cells {
		return 0, errors.New(errors.ErrCodeInvalidPattern, "pattern of %d cells is not square", cells)
	}
	return n, nil
}

// validatePath checks that p visits every cell of g exactly once and steps
// only between adjacent cells.
func validatePath(g grid.Geometry, p []int) error {
	if len(p) != g.Cells() {
		return fmt.Errorf("has %d cells, want %d", len(p), g.Cells())
	}
	seen := make([]bool, g.Cells())
	for k, c := range p {
		if c < 0 || c >= g.Cells() {
			return fmt.Errorf("cell %d out of range", c)
		}
		if seen[c] {
			return fmt.Errorf("cell %d visited twice", c)
		}
		seen[c] = true
		if k > 0 && !g.Adjacent(p[k-1], c) {
			return fmt.Errorf("step %d from cell %d to %d is not between neighbors", k, p[k-1], c)
		}
	}
	return nil
}
