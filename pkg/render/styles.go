package render

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan    = lipgloss.Color("36")
	colorMagenta = lipgloss.Color("170")
	colorYellow  = lipgloss.Color("220")
	colorRed     = lipgloss.Color("167")
	colorGray    = lipgloss.Color("245")
	colorDim     = lipgloss.Color("240")
)

// Styles controls how a frame is colored.
type Styles struct {
	Path        lipgloss.Style
	Placeholder lipgloss.Style
	Destination lipgloss.Style
	Trails      []lipgloss.Style // cycled by marker index
}

// DefaultStyles returns the terminal palette.
func DefaultStyles() Styles {
	return Styles{
		Path:        lipgloss.NewStyle().Foreground(colorGray),
		Placeholder: lipgloss.NewStyle().Foreground(colorDim),
		Destination: lipgloss.NewStyle().Bold(true).Foreground(colorRed),
		Trails: []lipgloss.Style{
			lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
			lipgloss.NewStyle().Bold(true).Foreground(colorMagenta),
			lipgloss.NewStyle().Bold(true).Foreground(colorYellow),
		},
	}
}

// PlainStyles returns styles that add no escape sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Path: plain, Placeholder: plain, Destination: plain, Trails: []lipgloss.Style{plain}}
}

func (s Styles) trail(i int) lipgloss.Style {
	if len(s.Trails) == 0 {
		return s.Path
	}
	return s.Trails[i%len(s.Trails)]
}
