// Package nodelink renders maze tiles as node-link diagrams.
//
// # Overview
//
// This package draws one generated tile with Graphviz: every cell is a box
// pinned to its grid position, and arrows follow the tile pattern from the
// entrance cell to the exit cell. It is a debugging view of the pattern
// catalog and the generator rather than a way to look at a whole maze.
//
// # Usage
//
// Convert a bilayer to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(b, reg, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// With Detailed set, every cell label also names its sub-pattern and the
// sockets that sub-pattern enters and leaves by.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering with the neato layout, which honors the pinned positions.
package nodelink
