package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/server"
	"github.com/matzehuels/labyrinth/pkg/trail"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		tick    time.Duration
		origins []string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve mazes over HTTP",
		Long: `Serve cells, views, tile diagrams and distances over HTTP, and stream
trails over websockets. Generation runs in the background on every tick.`,
		Example: `  labyrinth serve --addr :8080
  curl localhost:8080/v1/mazes/17/view?width=40&height=20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("tick") {
				tick = c.Config.Engine.Tick.Duration
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			length := trail.DefaultLength
			if len(c.Config.Trails) > 0 {
				length = c.Config.Trails[0].Length
			}
			srv := server.New(runner, server.Options{
				Tick:            tick,
				Budget:          c.Config.Engine.StepBudget,
				TrailLength:     length,
				ShutdownTimeout: c.Config.Server.ShutdownTimeout.Duration,
				OriginPatterns:  origins,
			})
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	cmd.Flags().DurationVar(&tick, "tick", server.DefaultTick, "generation cadence (default from config)")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "hosts allowed to open trail streams cross-origin")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
