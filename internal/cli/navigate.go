package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/labyrinth/pkg/engine"
	"github.com/matzehuels/labyrinth/pkg/fractal"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/trail"
)

// defaultWalkSteps bounds the walk command.
const defaultWalkSteps = 1000

// cellCommand creates the cell command, which describes the path through
// one cell.
func (c *CLI) cellCommand() *cobra.Command {
	seed := seedFlag(defaultSeed)

	cmd := &cobra.Command{
		Use:     "cell x,y",
		Short:   "Show where the maze path enters and leaves a cell",
		Example: `  labyrinth cell --seed 17 1,1
  labyrinth cell -- -3,4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(args[0])
			if err != nil {
				return err
			}
			eng, err := c.newEngine()
			if err != nil {
				return err
			}

			space := eng.Space()
			cell := space.AbsoluteToFractal(uint32(seed), p)
			var (
				entry, exit grid.Orientation
				next, prev  fractal.Coord
			)
			err = eng.Pump(cmd.Context(), c.Config.Engine.StepBudget, func() bool {
				var ok [4]bool
				entry, ok[0] = eng.OrientationAt(cell)
				exit, ok[1] = eng.ExitAt(cell)
				next, ok[2] = eng.NextCell(cell)
				prev, ok[3] = eng.PrevCell(cell)
				return ok == [4]bool{true, true, true, true}
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			writeKeyValue(w, "position", p.String())
			writeKeyValue(w, "coordinate", cell.String())
			writeKeyValue(w, "enters", entry.String())
			writeKeyValue(w, "leaves", exit.String())
			writeKeyValue(w, "previous", space.FractalToAbsolute(prev).String())
			writeKeyValue(w, "next", space.FractalToAbsolute(next).String())
			return nil
		},
	}

	cmd.Flags().Var(&seed, "seed", "maze seed (decimal or 0x hex)")
	return cmd
}

// distanceCommand creates the distance command.
func (c *CLI) distanceCommand() *cobra.Command {
	seed := seedFlag(defaultSeed)

	cmd := &cobra.Command{
		Use:   "distance x1,y1 x2,y2",
		Short: "Count the steps along the maze path between two cells",
		Long: `Count the steps along the maze path from the first cell to the second.
The result is negative when the second cell comes before the first.`,
		Example: `  labyrinth distance --seed 17 1,1 3,0
  labyrinth distance -- -5,2 40,-12`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parsePoint(args[0])
			if err != nil {
				return err
			}
			b, err := parsePoint(args[1])
			if err != nil {
				return err
			}
			eng, err := c.newEngine()
			if err != nil {
				return err
			}

			space := eng.Space()
			ca := space.AbsoluteToFractal(uint32(seed), a)
			cb := space.AbsoluteToFractal(uint32(seed), b)
			var d int64
			err = eng.Pump(cmd.Context(), c.Config.Engine.StepBudget, func() (ok bool) {
				d, ok = eng.DistanceTo(ca, cb)
				return ok
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	}

	cmd.Flags().Var(&seed, "seed", "maze seed (decimal or 0x hex)")
	return cmd
}

// walkOpts holds the flags of the walk command.
type walkOpts struct {
	seed  seedFlag
	from  string
	to    string
	steps int
}

// walkCommand creates the walk command. Without --to it lists the cells
// that follow --from along one maze; with --to it sends every configured
// trail toward that cell, each along its own maze, concurrently.
func (c *CLI) walkCommand() *cobra.Command {
	opts := walkOpts{seed: defaultSeed, from: "0,0", steps: defaultWalkSteps}

	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Follow the maze path, or race trails to a destination",
		Example: `  labyrinth walk --seed 17 --from 1,1 --steps 10
  labyrinth walk --from 0,0 --to 40,-25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePoint(opts.from)
			if err != nil {
				return err
			}
			eng, err := c.newEngine()
			if err != nil {
				return err
			}
			if opts.to == "" {
				return c.walkPath(cmd, eng, uint32(opts.seed), from, opts.steps)
			}
			to, err := parsePoint(opts.to)
			if err != nil {
				return err
			}
			return c.walkTrails(cmd, eng, from, to, opts.steps)
		},
	}

	cmd.Flags().Var(&opts.seed, "seed", "maze seed when listing the path")
	cmd.Flags().StringVar(&opts.from, "from", opts.from, "start position, as x,y")
	cmd.Flags().StringVar(&opts.to, "to", "", "destination of the configured trails, as x,y")
	cmd.Flags().IntVarP(&opts.steps, "steps", "n", opts.steps, "maximum number of steps")
	return cmd
}

// walkPath prints the cells following from along the path of one maze.
func (c *CLI) walkPath(cmd *cobra.Command, eng *engine.Engine, seed uint32, from grid.Point, steps int) error {
	space := eng.Space()
	cur := space.AbsoluteToFractal(seed, from)
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, from)
	for i := 0; i < steps; i++ {
		var next fractal.Coord
		err := eng.Pump(cmd.Context(), c.Config.Engine.StepBudget, func() (ok bool) {
			next, ok = eng.NextCell(cur)
			return ok
		})
		if err != nil {
			return err
		}
		cur = next
		fmt.Fprintln(w, space.FractalToAbsolute(cur))
	}
	return nil
}

// walkResult is the outcome of one trail.
type walkResult struct {
	seed    uint32
	steps   int
	arrived bool
	head    grid.Point
}

// walkTrails advances every configured trail toward to until it arrives or
// runs out of steps. The trails share the engine and pump it concurrently.
func (c *CLI) walkTrails(cmd *cobra.Command, eng *engine.Engine, from, to grid.Point, steps int) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	results := make([]walkResult, len(c.Config.Trails))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, cfg := range c.Config.Trails {
		t, err := trail.New(eng.Space(), cfg.Seed, cfg.Length, from)
		if err != nil {
			return err
		}
		g.Go(func() error {
			res, err := c.advanceTrail(ctx, eng, t, to, steps)
			results[i] = res
			logger.Debug("trail finished", "seed", t.Seed, "id", t.ID, "steps", res.steps, "arrived", res.arrived)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Walked %d trails", len(results)))

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{strconv.FormatUint(uint64(r.seed), 10), strconv.Itoa(r.steps), strconv.FormatBool(r.arrived), r.head.String()}
	}
	writeTable(cmd.OutOrStdout(), []string{"seed", "steps", "arrived", "position"}, rows)
	return nil
}

func (c *CLI) advanceTrail(ctx context.Context, eng *engine.Engine, t *trail.Trail, to grid.Point, steps int) (walkResult, error) {
	res := walkResult{seed: t.Seed}
	for res.steps < steps {
		var moved bool
		err := eng.Pump(ctx, c.Config.Engine.StepBudget, func() (ok bool) {
			moved, ok = t.Advance(eng, to)
			return ok
		})
		if err != nil {
			return res, err
		}
		if !moved {
			break
		}
		res.steps++
	}
	res.head = t.Head()
	res.arrived = res.head == to
	return res, nil
}
