package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/fractal"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// tileOpts holds the flags of the tile command.
type tileOpts struct {
	seed     seedFlag
	at       string // "x,y", used when no coordinate argument is given
	scale    int
	format   string
	detailed bool
	output   string
	noCache  bool
	refresh  bool
}

// tileCommand creates the tile command, which draws the path through one
// tile as a Graphviz diagram.
func (c *CLI) tileCommand() *cobra.Command {
	opts := tileOpts{seed: defaultSeed, at: "0,0", scale: 1, format: pipeline.FormatDOT}

	cmd := &cobra.Command{
		Use:   "tile [seed/height/trace]",
		Short: "Draw the path through one tile as DOT or SVG",
		Long: `Draw the path through one tile as a Graphviz diagram.

The tile is given either as a coordinate such as 17/1/12.3, or as the tile
of --scale containing the position --at.`,
		Example: `  labyrinth tile 17/1/12
  labyrinth tile --seed 17 --at 40,-12 --scale 2 -f svg -o tile.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTile(cmd, args, opts)
		},
	}

	cmd.Flags().Var(&opts.seed, "seed", "maze seed (decimal or 0x hex)")
	cmd.Flags().StringVar(&opts.at, "at", opts.at, "position inside the tile, as x,y")
	cmd.Flags().IntVar(&opts.scale, "scale", opts.scale, "tile scale (1 is the smallest tile)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label cells with their sub-patterns")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

func (c *CLI) runTile(cmd *cobra.Command, args []string, opts tileOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var coord fractal.Coord
	if len(args) == 1 {
		if coord, err = fractal.ParseCoord(args[0]); err != nil {
			return err
		}
	} else {
		if opts.scale < 1 {
			return errors.New(errors.ErrCodeInvalidInput, "tile scale must be at least 1, got %d", opts.scale)
		}
		at, err := parsePoint(opts.at)
		if err != nil {
			return err
		}
		space := runner.Engine.Space()
		coord = space.TileAt(space.AbsoluteToFractal(uint32(opts.seed), at), opts.scale)
	}

	spin := newSpinner(ctx, "Generating "+coord.String())
	spin.Start()
	res, err := runner.RenderTile(ctx, pipeline.TileOptions{
		Coord:    coord,
		Format:   opts.format,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	return writeArtifact(cmd, opts.output, res)
}

// writeArtifact writes a rendered artifact to path, or to the command
// output when path is empty.
func writeArtifact(cmd *cobra.Command, path string, res *pipeline.Result) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(res.Data)
		return err
	}
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Wrote %s (%d bytes)", res.Format, len(res.Data))
	printFile(path)
	writeRenderStatus(cmd.OutOrStdout(), res.CacheHit, res.Pending)
	return nil
}
