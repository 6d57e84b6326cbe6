package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/render"
)

const (
	defaultWidth  = 40 // glyph cells across
	defaultHeight = 20 // glyph cells down
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	seed    seedFlag
	center  string   // "x,y"
	width   int      // glyph cells across
	height  int      // glyph cells down
	scale   int      // tile scale per glyph cell, -1 to derive it from cells
	cells   float64  // base cells across when scale is derived
	format  string   // text or json
	marks   []string // "x,y" positions drawn as markers
	output  string   // file path, stdout when empty
	partial bool
	noCache bool
	refresh bool
}

// renderCommand creates the render command, which prints a viewport of one
// maze.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		seed:   defaultSeed,
		center: "0,0",
		width:  defaultWidth,
		height: defaultHeight,
		scale:  -1,
		format: pipeline.FormatText,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render part of a maze as text or JSON",
		Example: `  labyrinth render --seed 17
  labyrinth render --seed 0x2a --center 100,-40 --cells 500
  labyrinth render --format json -o view.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, opts)
		},
	}

	cmd.Flags().Var(&opts.seed, "seed", "maze seed (decimal or 0x hex)")
	cmd.Flags().StringVar(&opts.center, "center", opts.center, "absolute position shown in the middle, as x,y")
	cmd.Flags().IntVarP(&opts.width, "width", "W", opts.width, "glyph cells across")
	cmd.Flags().IntVarP(&opts.height, "height", "H", opts.height, "glyph cells down")
	cmd.Flags().IntVar(&opts.scale, "scale", opts.scale, "tile scale per glyph cell (default: derived from --cells)")
	cmd.Flags().Float64Var(&opts.cells, "cells", 0, "base cells across the view")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text or json")
	cmd.Flags().StringArrayVar(&opts.marks, "mark", nil, "draw a marker at x,y (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.partial, "partial", false, "print what is ready instead of failing when generation stalls")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts renderOpts) error {
	ctx := cmd.Context()
	center, err := parsePoint(opts.center)
	if err != nil {
		return err
	}
	markers, err := parseMarks(opts.marks)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	scale := opts.scale
	if scale < 0 {
		scale = render.ScaleFor(opts.cells, opts.width, runner.Engine.Registry().Size())
	}

	res, err := runner.RenderView(ctx, pipeline.ViewOptions{
		Viewport: render.Viewport{
			Seed:   uint32(opts.seed),
			Center: center,
			Width:  opts.width,
			Height: opts.height,
			Scale:  scale,
		},
		Format:  opts.format,
		Markers: markers,
		Partial: opts.partial,
		Refresh: opts.refresh,
	})
	if err != nil {
		return err
	}

	if err := writeArtifact(cmd, opts.output, res); err != nil {
		return err
	}
	if res.Pending > 0 {
		c.Logger.Warn("view is incomplete", "pending", res.Pending)
	}
	return nil
}

// parseMarks turns "x,y" flag values into destination markers.
func parseMarks(marks []string) ([]render.Marker, error) {
	out := make([]render.Marker, 0, len(marks))
	for _, m := range marks {
		p, err := parsePoint(m)
		if err != nil {
			return nil, err
		}
		out = append(out, render.Marker{At: p, Glyph: '◎', Kind: render.MarkDestination})
	}
	return out, nil
}
