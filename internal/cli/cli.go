// Package cli implements the labyrinth command-line interface.
package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/buildinfo"
	"github.com/matzehuels/labyrinth/pkg/cache"
	"github.com/matzehuels/labyrinth/pkg/config"
	"github.com/matzehuels/labyrinth/pkg/engine"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/observability"
	"github.com/matzehuels/labyrinth/pkg/pattern"
	"github.com/matzehuels/labyrinth/pkg/pattern/catalog"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// defaultSeed is the maze shown when no --seed is given.
const defaultSeed = 17

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs. Flags override it.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "labyrinth",
		Short: "Labyrinth explores infinite fractal mazes",
		Long: `Labyrinth generates a single path that visits every cell of the infinite
grid, built lazily from self-similar tiles. Every seed is a different maze.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/labyrinth/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cellCommand())
	root.AddCommand(c.walkCommand())
	root.AddCommand(c.distanceCommand())
	root.AddCommand(c.tileCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies the logging flags.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.Level()
	if c.verbose {
		level = log.DebugLevel
		hooks := &logHooks{logger: c.Logger}
		observability.SetGenerationHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Engine and Runner Factories
// =============================================================================

// newRegistry loads the configured catalog, or the embedded one.
func (c *CLI) newRegistry() (*pattern.Registry, error) {
	path := c.Config.Engine.Catalog
	if path == "" {
		if c.Config.Engine.PatternSize != catalog.Size {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"the embedded catalog has pattern size %d, config asks for %d; set engine.catalog",
				catalog.Size, c.Config.Engine.PatternSize)
		}
		return catalog.NewRegistry(c.Logger)
	}

	cat, err := pattern.Load(path)
	if err != nil {
		return nil, err
	}
	if cat.Size != c.Config.Engine.PatternSize {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"catalog %s has pattern size %d, config asks for %d", path, cat.Size, c.Config.Engine.PatternSize)
	}
	return cat.Registry(pattern.WithLogger(c.Logger))
}

// newEngine builds an engine from the configured catalog.
func (c *CLI) newEngine() (*engine.Engine, error) {
	reg, err := c.newRegistry()
	if err != nil {
		return nil, err
	}
	return engine.New(reg,
		engine.WithLogger(c.Logger),
		engine.WithIntegrityCheck(c.Config.Engine.IntegrityCheck),
	), nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	eng, err := c.newEngine()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(eng, store, nil, c.Logger)
	r.Budget = c.Config.Engine.StepBudget
	if ttl := c.Config.Cache.TTL.Duration; ttl > 0 {
		r.TileTTL = ttl
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	opts := c.Config.CacheOptions()
	if noCache {
		opts.Backend = cache.BackendNull
	}
	return cache.Open(ctx, opts)
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parsePoint parses an absolute position written as "x,y".
func parsePoint(s string) (grid.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Point{}, errors.New(errors.ErrCodeInvalidInput, "position %q is not x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return grid.Point{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "position %q", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return grid.Point{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "position %q", s)
	}
	if err := errors.ValidatePosition(x, y); err != nil {
		return grid.Point{}, err
	}
	return grid.Point{X: x, Y: y}, nil
}

// seedFlag is a cobra flag holding a maze seed, accepting the forms
// understood by errors.ParseSeed.
type seedFlag uint32

func (s *seedFlag) String() string { return strconv.FormatUint(uint64(*s), 10) }

func (s *seedFlag) Set(v string) error {
	seed, err := errors.ParseSeed(v)
	if err != nil {
		return err
	}
	*s = seedFlag(seed)
	return nil
}

func (s *seedFlag) Type() string { return "seed" }
