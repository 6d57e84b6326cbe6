package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/cache"
	"github.com/matzehuels/labyrinth/pkg/engine"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/observability"
	"github.com/matzehuels/labyrinth/pkg/render"
	"github.com/matzehuels/labyrinth/pkg/render/nodelink"
)

// Runner renders artifacts from one engine with caching. It is safe for
// concurrent use; several runners may share an engine.
type Runner struct {
	Engine *engine.Engine
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Budget is the step budget used while pumping the engine.
	Budget int

	// ViewTTL and TileTTL are the lifetimes of cached artifacts.
	ViewTTL time.Duration
	TileTTL time.Duration
}

// NewRunner creates a runner for e.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(e *engine.Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Engine:  e,
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Budget:  engine.DefaultStepBudget,
		ViewTTL: cache.TTLView,
		TileTTL: cache.TTLTile,
	}
}

// Result is a rendered artifact.
type Result struct {
	Data     []byte
	Format   string
	CacheHit bool

	// Pending counts the cells left undrawn in a partial view.
	Pending int
	Elapsed time.Duration
}

// RenderView renders a viewport, generating whatever it shows first.
//
// Generation stalls only when a tile cannot be generated; RenderView then
// fails with NOT_READY unless opts.Partial is set.
func (r *Runner) RenderView(ctx context.Context, opts ViewOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	v := opts.Viewport
	observability.Pipeline().OnRenderStart(ctx, v.Seed, opts.Format)

	res, err := r.renderView(ctx, opts)
	observability.Pipeline().OnRenderComplete(ctx, v.Seed, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)

	r.Logger.Debug("rendered view",
		"seed", v.Seed,
		"center", v.Center,
		"size", [2]int{v.Width, v.Height},
		"scale", v.Scale,
		"cached", res.CacheHit,
		"duration", res.Elapsed)
	return res, nil
}

func (r *Runner) renderView(ctx context.Context, opts ViewOptions) (*Result, error) {
	v := opts.Viewport
	key := r.Keyer.ViewKey(r.Engine.Registry().Fingerprint(), cache.ViewKeyOpts{
		Seed:    v.Seed,
		X:       v.Center.X,
		Y:       v.Center.Y,
		Width:   v.Width,
		Height:  v.Height,
		Scale:   v.Scale,
		Format:  opts.Format,
		Markers: markerHash(opts.Markers),
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return &Result{Data: data, Format: opts.Format, CacheHit: true}, nil
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "error", err)
		}
	}

	renderer := render.NewRenderer(r.Engine)
	var frame render.Frame
	err := r.Engine.Pump(ctx, r.Budget, func() bool {
		frame = renderer.Frame(v)
		return frame.Ready()
	})
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrCodeNotReady) && opts.Partial:
		r.Logger.Warn("rendering partial view", "seed", v.Seed, "pending", frame.Pending)
	case errors.Is(err, errors.ErrCodeNotReady):
		st := r.Engine.Stats(v.Seed)
		return nil, errors.Wrap(errors.ErrCodeNotReady, err, "%d cells cannot be drawn (%d failed tiles, last: %s)",
			frame.Pending, st.Failures, st.LastError)
	default:
		return nil, err
	}

	data, err := encodeView(frame, opts.Format, opts.Markers)
	if err != nil {
		return nil, err
	}
	if frame.Ready() {
		if err := r.Cache.Set(ctx, key, data, r.ViewTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return &Result{Data: data, Format: opts.Format, Pending: frame.Pending}, nil
}

// RenderTile renders the path through one tile as a node-link diagram.
func (r *Runner) RenderTile(ctx context.Context, opts TileOptions) (*Result, error) {
	if err := opts.Validate(r.Engine.Space()); err != nil {
		return nil, err
	}
	start := time.Now()
	c := opts.Coord
	observability.Pipeline().OnRenderStart(ctx, c.Seed, opts.Format)

	res, err := r.renderTile(ctx, opts)
	observability.Pipeline().OnRenderComplete(ctx, c.Seed, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)
	r.Logger.Debug("rendered tile", "coord", c, "format", opts.Format, "cached", res.CacheHit, "duration", res.Elapsed)
	return res, nil
}

func (r *Runner) renderTile(ctx context.Context, opts TileOptions) (*Result, error) {
	reg := r.Engine.Registry()
	coord := r.Engine.Space().Normalize(opts.Coord)
	key := r.Keyer.TileKey(reg.Fingerprint(), coord.String(), cache.TileKeyOpts{
		Format:   opts.Format,
		Detailed: opts.Detailed,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return &Result{Data: data, Format: opts.Format, CacheHit: true}, nil
		}
	}

	var l engine.Lookup
	err := r.Engine.Pump(ctx, r.Budget, func() bool {
		l = r.Engine.Lookup(coord)
		return l.Ready()
	})
	if err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(l.Bilayer, reg, nodelink.Options{Detailed: opts.Detailed})
	data := []byte(dot)
	if opts.Format == FormatSVG {
		if data, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", coord)
		}
	}

	if err := r.Cache.Set(ctx, key, data, r.TileTTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
	}
	return &Result{Data: data, Format: opts.Format}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func markerHash(markers []render.Marker) string {
	if len(markers) == 0 {
		return ""
	}
	data, _ := json.Marshal(markers)
	return cache.Hash(data)
}
