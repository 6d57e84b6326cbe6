package render

import (
	"strings"

	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/trail"
)

// Placeholder is drawn for cells whose tiles are not generated yet.
const Placeholder = '·'

// MarkerKind selects the style of a marker.
type MarkerKind uint8

const (
	MarkTrail MarkerKind = iota
	MarkDestination
)

// Marker is a glyph drawn over the maze at an absolute position.
type Marker struct {
	At    grid.Point
	Glyph rune
	Kind  MarkerKind
	Index int // trail number, for cycling trail styles
}

// TrailMarkers returns markers for the remembered positions of every trail,
// heads drawn last so they stay on top, followed by the destination.
func TrailMarkers(trails []*trail.Trail, dest grid.Point) []Marker {
	var out []Marker
	for i, t := range trails {
		for j := len(t.Positions) - 1; j >= 1; j-- {
			out = append(out, Marker{At: t.Positions[j], Glyph: '•', Kind: MarkTrail, Index: i})
		}
	}
	for i, t := range trails {
		out = append(out, Marker{At: t.Head(), Glyph: '●', Kind: MarkTrail, Index: i})
	}
	return append(out, Marker{At: dest, Glyph: '◎', Kind: MarkDestination})
}

// Glyph returns the box-drawing rune for a cell whose path joins the two
// given sides.
func Glyph(a, b grid.Orientation) rune {
	has := func(o grid.Orientation) bool { return a == o || b == o }
	switch {
	case has(grid.North) && has(grid.South):
		return '│'
	case has(grid.East) && has(grid.West):
		return '─'
	case has(grid.North) && has(grid.East):
		return '└'
	case has(grid.North) && has(grid.West):
		return '┘'
	case has(grid.South) && has(grid.East):
		return '┌'
	default:
		return '┐'
	}
}

// Text draws the frame as lines of text, two columns per cell so that
// horizontal runs stay connected. Markers outside the frame are skipped.
func (f Frame) Text(s Styles, markers []Marker) string {
	type overlay struct {
		glyph rune
		m     Marker
	}
	over := make(map[[2]int]overlay)
	for _, m := range markers {
		if col, row, ok := f.Locate(m.At); ok {
			over[[2]int{col, row}] = overlay{glyph: m.Glyph, m: m}
		}
	}

	var b strings.Builder
	for row, cells := range f.Cells {
		for col, c := range cells {
			if o, ok := over[[2]int{col, row}]; ok {
				style := s.Destination
				if o.m.Kind == MarkTrail {
					style = s.trail(o.m.Index)
				}
				b.WriteString(style.Render(string(o.glyph)))
				b.WriteString(s.Path.Render(string(joint(c))))
				continue
			}
			if !c.Ready {
				b.WriteString(s.Placeholder.Render(string(Placeholder) + " "))
				continue
			}
			b.WriteString(s.Path.Render(string([]rune{Glyph(c.Entry, c.Exit), joint(c)})))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// joint is the filler column right of a cell.
func joint(c Cell) rune {
	if c.Connects(grid.East) {
		return '─'
	}
	return ' '
}
