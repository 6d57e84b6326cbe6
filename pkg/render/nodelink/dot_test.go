package nodelink

import (
	"context"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/bilayer"
	"github.com/matzehuels/labyrinth/pkg/pattern/catalog"
)

func rootTiles(t *testing.T) (*bilayer.Generator, *bilayer.Bilayer, *bilayer.Bilayer) {
	t.Helper()
	logger := log.New(io.Discard)
	reg, err := catalog.NewRegistry(logger)
	if err != nil {
		t.Fatalf("catalog.NewRegistry() error: %v", err)
	}
	g := bilayer.NewGenerator(reg, logger)
	r0, err := g.Root(17, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	r1, err := g.Root(17, 1, r0)
	if err != nil {
		t.Fatal(err)
	}
	return g, r0, r1
}

func TestToDOT(t *testing.T) {
	g, r0, r1 := rootTiles(t)

	dot := ToDOT(r0, g.Registry, Options{})
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("ToDOT() does not start a digraph: %q", dot[:20])
	}
	if n := strings.Count(dot, " -> "); n != 24 {
		t.Errorf("ToDOT() has %d edges, want 24", n)
	}
	if n := strings.Count(dot, "pos=\""); n != 25 {
		t.Errorf("ToDOT() pins %d nodes, want 25", n)
	}
	if !strings.Contains(dot, "fillcolor=palegreen") || !strings.Contains(dot, "fillcolor=lightpink") {
		t.Error("ToDOT() does not mark the path ends")
	}

	pos := g.Registry.Positions(r0.Pattern)
	if want := "c" + strconv.Itoa(pos[0]) + " -> c" + strconv.Itoa(pos[1]) + ";"; !strings.Contains(dot, want) {
		t.Errorf("ToDOT() lacks the first path edge %q", want)
	}

	detailed := ToDOT(r1, g.Registry, Options{Detailed: true})
	if !strings.Contains(detailed, "→") {
		t.Error("detailed labels should show sub-pattern sockets")
	}
	if base := ToDOT(r0, g.Registry, Options{Detailed: true}); strings.Contains(base, "→") {
		t.Error("base tiles have no sub-patterns to show")
	}
}

func TestRenderSVG(t *testing.T) {
	g, r0, _ := rootTiles(t)
	svg, err := RenderSVG(context.Background(), ToDOT(r0, g.Registry, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="200"`) && !strings.Contains(out, `width="101" height="200"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("normalizeViewBox() changed an SVG without viewBox: %s", got)
	}
}

func TestPatternDOT(t *testing.T) {
	g, _, _ := rootTiles(t)

	dot := PatternDOT(g.Registry, 3)
	if !strings.Contains(dot, "label=\"pattern 3: ") {
		t.Errorf("PatternDOT() lacks the pattern label: %q", dot)
	}
	if n := strings.Count(dot, " -> "); n != 24 {
		t.Errorf("PatternDOT() has %d edges, want 24", n)
	}
}
