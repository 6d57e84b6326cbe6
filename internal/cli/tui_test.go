package cli

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/labyrinth/pkg/engine"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/pattern/catalog"
	"github.com/matzehuels/labyrinth/pkg/render"
	"github.com/matzehuels/labyrinth/pkg/trail"
)

func newTestModel(t *testing.T) *exploreModel {
	t.Helper()
	logger := newLogger(io.Discard, LogInfo)
	reg, err := catalog.NewRegistry(logger)
	if err != nil {
		t.Fatalf("catalog.NewRegistry() error: %v", err)
	}
	e := engine.New(reg, engine.WithLogger(logger))
	flock := &trail.Flock{Trails: trail.Defaults(e.Space(), grid.Point{})}
	m := newExploreModel(e, flock, 0, time.Millisecond, render.PlainStyles())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	return m
}

func tick(m *exploreModel, n int) {
	now := time.Now()
	for i := 0; i < n; i++ {
		now = now.Add(m.interval)
		m.Update(tickMsg(now))
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestExploreModelSize(t *testing.T) {
	m := newTestModel(t)
	if m.width != 20 || m.height != 10 {
		t.Errorf("size = %dx%d, want 20x10", m.width, m.height)
	}

	tick(m, 1)
	if len(m.frame.Cells) != 10 || len(m.frame.Cells[0]) != 20 {
		t.Errorf("frame = %d rows, want 10x20", len(m.frame.Cells))
	}
}

func TestExploreModelView(t *testing.T) {
	m := newTestModel(t)
	tick(m, 20)

	view := m.View()
	for _, want := range []string{"seed 19283801", "destination (0,0)", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q", want)
		}
	}
	if !strings.ContainsRune(view, '◎') {
		t.Error("view does not mark the destination")
	}
	if got := strings.Count(view, "\n"); got != m.height+1 {
		t.Errorf("view has %d lines, want %d", got+1, m.height+2)
	}
}

func TestExploreModelKeys(t *testing.T) {
	m := newTestModel(t)
	tick(m, 1)

	m.Update(key("+"))
	if m.follow || m.cells != trail.MinScale {
		t.Errorf("zoom in: follow %v, cells %v", m.follow, m.cells)
	}
	m.Update(key("-"))
	if m.cells != 2*trail.MinScale {
		t.Errorf("zoom out: cells = %v, want %v", m.cells, 2*trail.MinScale)
	}
	m.Update(key("f"))
	if !m.follow {
		t.Error("f should resume following")
	}

	for i := 1; i <= len(m.flock.Trails); i++ {
		m.Update(key("tab"))
		if want := i % len(m.flock.Trails); m.shown != want {
			t.Errorf("after %d tabs shown = %d, want %d", i, m.shown, want)
		}
	}

	step := m.engine.Space().Pow(m.viewport().Scale)
	m.Update(key("right"))
	if want := (grid.Point{X: step}); m.flock.Destination != want {
		t.Errorf("destination = %v, want %v", m.flock.Destination, want)
	}

	m.Update(key(" "))
	if !m.paused {
		t.Fatal("space should pause")
	}
	heads := make([]grid.Point, len(m.flock.Trails))
	for i, tr := range m.flock.Trails {
		heads[i] = tr.Head()
	}
	tick(m, 5)
	for i, tr := range m.flock.Trails {
		if tr.Head() != heads[i] {
			t.Errorf("trail %d moved while paused", i)
		}
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestExploreModelClick(t *testing.T) {
	m := newTestModel(t)

	m.Update(tea.MouseMsg{X: 10, Y: 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.flock.Destination != (grid.Point{}) {
		t.Error("click before the first frame should be ignored")
	}

	tick(m, 1)
	m.Update(tea.MouseMsg{X: 10, Y: 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if want := m.frame.Position(5, 3); m.flock.Destination != want {
		t.Errorf("destination = %v, want %v", m.flock.Destination, want)
	}

	before := m.flock.Destination
	m.Update(tea.MouseMsg{X: 100, Y: 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.flock.Destination != before {
		t.Error("click outside the frame should be ignored")
	}
}

func TestExploreModelTrailsArrive(t *testing.T) {
	m := newTestModel(t)
	tr, err := trail.New(m.engine.Space(), 17, trail.DefaultLength, grid.Point{X: 1, Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	m.flock.Trails = []*trail.Trail{tr}
	m.flock.Destination = grid.Point{X: 3, Y: 0}

	for i := 0; i < 200 && !m.flock.Arrived(); i++ {
		tick(m, 1)
	}
	if !m.flock.Arrived() {
		t.Fatalf("trail stopped at %v", tr.Head())
	}
	want := []grid.Point{{X: 3, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	for i, p := range want {
		if tr.Positions[i] != p {
			t.Errorf("Positions[%d] = %v, want %v", i, tr.Positions[i], p)
		}
	}
	if !strings.Contains(m.View(), "arrived") {
		t.Error("status should report arrival")
	}
}
