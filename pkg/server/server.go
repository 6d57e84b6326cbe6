// Package server exposes the maze engine over HTTP.
//
// # Endpoints
//
//	GET /healthz                                   liveness and build info
//	GET /v1/catalog                                pattern catalog statistics
//	GET /v1/mazes/{seed}/stats                     generation cache statistics
//	GET /v1/mazes/{seed}/cells/{x}/{y}             path through one cell
//	GET /v1/mazes/{seed}/view                      rendered viewport (text or JSON)
//	GET /v1/mazes/{seed}/tiles/{height}/{trace}    one tile as DOT or SVG
//	GET /v1/mazes/{seed}/distance                  path distance between two cells
//	GET /v1/mazes/{seed}/trail                     websocket stream of a walking trail
//
// Requests block until the tiles they need are generated. A background
// loop also steps the engine on a fixed cadence, so tiles queued by one
// request keep generating while the server is idle.
//
// Errors are JSON objects with a machine-readable code:
//
//	{"error": "INVALID_INPUT", "message": "invalid seed \"x\""}
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/labyrinth/pkg/engine"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/trail"
)

// Default values for [Options].
const (
	DefaultTick            = 16 * time.Millisecond
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Options configures a [Server].
type Options struct {
	// Tick is the cadence of the background generation loop.
	Tick time.Duration

	// Budget is the step budget per tick and per pump round.
	Budget int

	// TrailLength is the default length of streamed trails.
	TrailLength int

	// RequestTimeout bounds every request except trail streams.
	RequestTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// OriginPatterns lists the hosts allowed to open trail streams from
	// other origins.
	OriginPatterns []string
}

func (o *Options) setDefaults() {
	if o.Tick <= 0 {
		o.Tick = DefaultTick
	}
	if o.Budget <= 0 {
		o.Budget = engine.DefaultStepBudget
	}
	if o.TrailLength <= 0 {
		o.TrailLength = trail.DefaultLength
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Server serves one engine through a pipeline runner.
type Server struct {
	engine *engine.Engine
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New creates a server rendering through r.
func New(r *pipeline.Runner, opts Options) *Server {
	opts.setDefaults()
	s := &Server{
		engine: r.Engine,
		runner: r,
		logger: r.Logger,
		opts:   opts,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(deadline(s.opts.RequestTimeout))
			r.Get("/catalog", s.handleCatalog)
			r.Get("/mazes/{seed}/stats", s.handleStats)
			r.Get("/mazes/{seed}/cells/{x}/{y}", s.handleCell)
			r.Get("/mazes/{seed}/view", s.handleView)
			r.Get("/mazes/{seed}/tiles/{height}/{trace}", s.handleTile)
			r.Get("/mazes/{seed}/distance", s.handleDistance)
		})
		r.Get("/mazes/{seed}/trail", s.handleTrail)
	})
	return r
}

// Run listens on addr and serves until ctx ends, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends. It also drives the background
// generation loop.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.drive(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// drive steps the engine every tick until ctx ends.
func (s *Server) drive(ctx context.Context) error {
	t := time.NewTicker(s.opts.Tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			st := s.engine.Step(s.opts.Budget)
			if st.Generated > 0 || st.Failed > 0 {
				s.logger.Debug("generation step",
					"generated", st.Generated,
					"dropped", st.Dropped,
					"failed", st.Failed,
					"remaining", st.Remaining)
			}
		}
	}
}
