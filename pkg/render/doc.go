// Package render draws mazes.
//
// # Overview
//
// This package turns the generated part of a maze into pictures. It provides:
//
//   - Terminal rendering of a rectangular viewport (this package)
//   - Node-link diagrams of a single tile (in [nodelink] subpackage)
//
// # Viewports
//
// A [Viewport] is a rectangle of glyph cells around an absolute position.
// At scale 0 every glyph cell is one base cell; at scale L it is a whole
// tile of N^L x N^L base cells, drawn with the sides its path enters and
// leaves by. Zooming out one level therefore shows the same maze at the
// resolution of its next pattern layer.
//
//	frame := render.NewRenderer(eng).Frame(render.Viewport{
//	    Seed: 17, Width: 40, Height: 20,
//	})
//	if !frame.Ready() {
//	    eng.Step(0) // and draw again
//	}
//	fmt.Print(frame.Text(render.DefaultStyles(), nil))
//
// Building a frame never blocks. Cells whose tiles are not generated yet
// are queued and drawn as a placeholder.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws the cells of one tile as Graphviz nodes
// pinned to their grid positions, joined along the path.
//
// [nodelink]: github.com/matzehuels/labyrinth/pkg/render/nodelink
package render
