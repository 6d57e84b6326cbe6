package trail

import (
	"time"

	"github.com/matzehuels/labyrinth/pkg/grid"
)

// MinScale is the narrowest view, in cells across, that the automatic zoom
// settles on when everything of interest is in one place.
const MinScale = 24

// ZoomSpeed is the fraction of the gap between the current and the ideal
// scale that the automatic zoom closes per second.
const ZoomSpeed = 0.6

// Box is an axis-aligned rectangle of cells, bounds inclusive.
type Box struct {
	Left, Right, Top, Bottom int
}

// Width returns the horizontal extent, Right-Left.
func (b Box) Width() int { return b.Right - b.Left }

// Height returns the vertical extent, Bottom-Top.
func (b Box) Height() int { return b.Bottom - b.Top }

// Center returns the middle cell, rounded toward negative infinity.
func (b Box) Center() grid.Point {
	return grid.Point{X: floorDiv(b.Left+b.Right, 2), Y: floorDiv(b.Top+b.Bottom, 2)}
}

// InterestBox returns the smallest box containing dest and every remembered
// position of every trail.
func InterestBox(dest grid.Point, trails []*Trail) Box {
	b := Box{Left: dest.X, Right: dest.X, Top: dest.Y, Bottom: dest.Y}
	for _, t := range trails {
		for _, p := range t.Positions {
			b.Left = min(b.Left, p.X)
			b.Right = max(b.Right, p.X)
			b.Top = min(b.Top, p.Y)
			b.Bottom = max(b.Bottom, p.Y)
		}
	}
	return b
}

// IdealScale returns the view width, in cells, that shows all of b in a
// view with the given width/height aspect ratio, and never less than
// minScale.
func IdealScale(b Box, aspect, minScale float64) float64 {
	return max(minScale, float64(b.Width()), float64(b.Height())*aspect)
}

// Zoom moves scale toward ideal by [ZoomSpeed] of the gap per second of
// elapsed time, never going below minScale.
func Zoom(scale, ideal, minScale float64, elapsed time.Duration) float64 {
	return max(minScale, scale+ZoomSpeed*(ideal-scale)*elapsed.Seconds())
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
