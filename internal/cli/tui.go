package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/engine"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/render"
	"github.com/matzehuels/labyrinth/pkg/trail"
)

// defaultExploreInterval is the time between two explorer frames. Trails
// advance one cell per frame.
const defaultExploreInterval = 60 * time.Millisecond

var (
	statusStyle = lipgloss.NewStyle().Foreground(colorGray)
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command, an interactive view of the
// configured trails walking toward a destination.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		interval time.Duration
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Watch trails wander through their mazes",
		Long: `Open a full-screen view of the configured trails, each following the path
of its own maze toward a shared destination. The view pans and zooms to
keep every trail and the destination in sight.

Click or use the arrow keys to move the destination.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := c.newEngine()
			if err != nil {
				return err
			}
			flock := &trail.Flock{}
			for _, t := range c.Config.Trails {
				tr, err := trail.New(eng.Space(), t.Seed, t.Length, grid.Point{})
				if err != nil {
					return err
				}
				flock.Trails = append(flock.Trails, tr)
			}

			styles := render.DefaultStyles()
			if plain {
				styles = render.PlainStyles()
			}
			m := newExploreModel(eng, flock, c.Config.Engine.StepBudget, interval, styles)

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", defaultExploreInterval, "time between frames")
	cmd.Flags().BoolVar(&plain, "plain", false, "draw without colors")
	return cmd
}

// =============================================================================
// exploreModel - bubbletea model of the explorer
// =============================================================================

type tickMsg time.Time

type exploreModel struct {
	engine   *engine.Engine
	renderer *render.Renderer
	flock    *trail.Flock
	styles   render.Styles
	budget   int
	interval time.Duration

	shown  int // index of the trail whose maze is drawn
	width  int // glyph cells across
	height int // glyph cells down
	cells  float64
	center grid.Point
	follow bool
	paused bool

	frame   render.Frame
	gen     engine.StepStats
	waiting int
	last    time.Time
}

func newExploreModel(e *engine.Engine, flock *trail.Flock, budget int, interval time.Duration, styles render.Styles) *exploreModel {
	return &exploreModel{
		engine:   e,
		renderer: render.NewRenderer(e),
		flock:    flock,
		styles:   styles,
		budget:   budget,
		interval: interval,
		width:    defaultWidth,
		height:   defaultHeight,
		cells:    trail.MinScale,
		follow:   true,
	}
}

func (m *exploreModel) Init() tea.Cmd {
	return m.nextTick()
}

func (m *exploreModel) nextTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.advance(time.Time(msg))
		return m, m.nextTick()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			m.setDestination(msg.X/2, msg.Y)
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width/2, 1)
		m.height = max(msg.Height-2, 1)
	}
	return m, nil
}

// advance runs one frame: a generation step, one move per trail, and the
// automatic pan and zoom.
func (m *exploreModel) advance(now time.Time) {
	var elapsed time.Duration
	if !m.last.IsZero() {
		elapsed = now.Sub(m.last)
	}
	m.last = now

	m.gen = m.engine.Step(m.budget)
	if !m.paused && len(m.flock.Trails) > 0 {
		_, m.waiting = m.flock.Advance(m.engine)
	}
	if m.follow {
		box := m.flock.Box()
		aspect := float64(m.width) / float64(m.height)
		m.cells = trail.Zoom(m.cells, trail.IdealScale(box, aspect, trail.MinScale), trail.MinScale, elapsed)
		m.center = box.Center()
	}
	m.frame = m.renderer.Frame(m.viewport())
}

func (m *exploreModel) viewport() render.Viewport {
	var seed uint32
	if len(m.flock.Trails) > 0 {
		seed = m.flock.Trails[m.shown].Seed
	}
	return render.Viewport{
		Seed:   seed,
		Center: m.center,
		Width:  m.width,
		Height: m.height,
		Scale:  render.ScaleFor(m.cells, m.width, m.engine.Registry().Size()),
	}
}

func (m *exploreModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	step := m.engine.Space().Pow(m.viewport().Scale)
	d := m.flock.Destination
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case " ":
		m.paused = !m.paused
	case "f":
		m.follow = true
	case "+", "=":
		m.follow = false
		m.cells = max(trail.MinScale, m.cells/2)
	case "-":
		m.follow = false
		m.cells *= 2
	case "tab":
		if len(m.flock.Trails) > 0 {
			m.shown = (m.shown + 1) % len(m.flock.Trails)
		}
	case "up", "k":
		m.flock.Destination = grid.Point{X: d.X, Y: d.Y - step}
	case "down", "j":
		m.flock.Destination = grid.Point{X: d.X, Y: d.Y + step}
	case "left", "h":
		m.flock.Destination = grid.Point{X: d.X - step, Y: d.Y}
	case "right", "l":
		m.flock.Destination = grid.Point{X: d.X + step, Y: d.Y}
	}
	return nil
}

// setDestination moves the destination to the cell drawn at (col, row).
func (m *exploreModel) setDestination(col, row int) {
	if m.frame.Cells == nil || col >= m.width || row >= m.height {
		return
	}
	m.flock.Destination = m.frame.Position(col, row)
}

func (m *exploreModel) View() string {
	var b strings.Builder
	if m.frame.Cells != nil {
		b.WriteString(m.frame.Text(m.styles, render.TrailMarkers(m.flock.Trails, m.flock.Destination)))
	}

	v := m.frame.Viewport
	status := fmt.Sprintf("seed %d · %.0f cells across · destination %s · queued %d",
		v.Seed, m.cells, m.flock.Destination, m.gen.Remaining)
	switch {
	case m.paused:
		status += " · paused"
	case m.flock.Arrived():
		status += " · arrived"
	case m.waiting > 0:
		status += fmt.Sprintf(" · %d waiting", m.waiting)
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("click/arrows destination  +/- zoom  f follow  tab maze  space pause  q quit"))
	return b.String()
}
