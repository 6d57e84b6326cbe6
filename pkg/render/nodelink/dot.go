package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/labyrinth/pkg/bilayer"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/pattern"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the sub-pattern and its sockets to every cell label.
	// When false, only the cell index is shown.
	Detailed bool
}

// ToDOT converts a tile to Graphviz DOT format. Cells become nodes pinned to
// their grid positions and the tile pattern becomes a chain of edges, so
// the drawing shows the path through the tile.
//
// The entrance and exit cells are filled to tell the two ends apart.
func ToDOT(b *bilayer.Bilayer, reg *pattern.Registry, opts Options) string {
	return writeDOT(reg.Geometry(), b.Coord.String(), reg.Positions(b.Pattern), func(cell int) string {
		return fmtLabel(b, reg, cell, opts.Detailed)
	})
}

// PatternDOT draws registered pattern p the same way as [ToDOT], labeled
// with its entrance and exit sockets.
func PatternDOT(reg *pattern.Registry, p int) string {
	label := fmt.Sprintf("pattern %d: %v → %v", p, reg.Entrance(p), reg.Exit(p))
	return writeDOT(reg.Geometry(), label, reg.Positions(p), strconv.Itoa)
}

func writeDOT(g grid.Geometry, title string, pos []int, label func(cell int) string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", title)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, width=0.9, height=0.9, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	for k, cell := range pos {
		row, col := g.Cell(cell)
		attrs := []string{
			fmt.Sprintf("label=%q", label(cell)),
			fmt.Sprintf("pos=\"%d,%d!\"", col, -row),
		}
		switch k {
		case 0:
			attrs = append(attrs, "fillcolor=palegreen")
		case len(pos) - 1:
			attrs = append(attrs, "fillcolor=lightpink")
		}
		fmt.Fprintf(&buf, "  c%d [%s];\n", cell, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for k := 0; k+1 < len(pos); k++ {
		fmt.Fprintf(&buf, "  c%d -> c%d;\n", pos[k], pos[k+1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(b *bilayer.Bilayer, reg *pattern.Registry, cell int, detailed bool) string {
	label := strconv.Itoa(cell)
	if !detailed || b.IsBase() {
		return label
	}
	sp := b.SubPatterns[cell]
	return fmt.Sprintf("%s\np%d\n%v→%v", label, sp, reg.Entrance(sp), reg.Exit(sp))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose size
// matches its viewBox, so the drawing scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
