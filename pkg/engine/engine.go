package engine

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/bilayer"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/fractal"
	"github.com/matzehuels/labyrinth/pkg/observability"
	"github.com/matzehuels/labyrinth/pkg/pattern"
)

// Status is the generation state of a tile.
type Status = bilayer.Status

// Generation states of a tile.
const (
	// Absent tiles have never been requested.
	Absent = bilayer.Absent
	// Pending tiles are queued, or waiting for their parent.
	Pending = bilayer.Pending
	// Ready tiles are cached and can be read.
	Ready = bilayer.Ready
)

// DefaultStepBudget is the number of requests a single Step processes when
// no budget is configured.
const DefaultStepBudget = 1000

// Lookup is the result of a cache query. Bilayer is set only when Status is
// Ready.
type Lookup struct {
	Status  Status
	Bilayer *bilayer.Bilayer
}

// Ready reports whether the tile was found.
func (l Lookup) Ready() bool { return l.Status == Ready }

// Engine generates and caches the tiles of any number of mazes, one per
// seed, built from the same pattern registry.
//
// Queries never block on generation. A query for a tile that is not cached
// yet claims it, queues it, and reports it as pending; the tile is built by
// a later call to [Engine.Step]. Every maze has its own lock, so mazes never
// contend with each other. The cache is never pruned.
type Engine struct {
	gen    *bilayer.Generator
	space  fractal.Space
	logger *log.Logger

	mu    sync.Mutex
	mazes map[uint32]*maze
	order []uint32 // seeds in creation order, for round-robin stepping
	next  int

	processed atomic.Uint64 // requests processed over the engine lifetime
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for generation failures and dropped requests.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
			e.gen.Logger = l
		}
	}
}

// WithIntegrityCheck enables verification of every generated bilayer.
func WithIntegrityCheck(enabled bool) Option {
	return func(e *Engine) { e.gen.CheckIntegrity = enabled }
}

// New returns an engine generating mazes from reg.
func New(reg *pattern.Registry, opts ...Option) *Engine {
	e := &Engine{
		gen:    bilayer.NewGenerator(reg, log.Default()),
		logger: log.Default(),
		mazes:  make(map[uint32]*maze),
	}
	e.space = e.gen.Space
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the pattern registry.
func (e *Engine) Registry() *pattern.Registry { return e.gen.Registry }

// Space returns the coordinate space.
func (e *Engine) Space() fractal.Space { return e.space }

// Generator returns the bilayer generator.
func (e *Engine) Generator() *bilayer.Generator { return e.gen }

// Seeds returns the seeds of every maze queried so far, in ascending order.
func (e *Engine) Seeds() []uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := slices.Clone(e.order)
	slices.Sort(out)
	return out
}

func (e *Engine) maze(seed uint32) *maze {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.mazes[seed]
	if !ok {
		m = &maze{seed: seed}
		e.mazes[seed] = m
		e.order = append(e.order, seed)
	}
	return m
}

// =============================================================================
// Queries
// =============================================================================

// Lookup returns the bilayer of tile c. If the tile is not cached, the
// outermost missing tile on the way to it is queued and the result is
// Pending. A tile taller than every generated root queues the next root.
//
// c must be a tile, not a base cell.
func (e *Engine) Lookup(c fractal.Coord) Lookup {
	e.checkTile(c)
	m := e.maze(c.Seed)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolve(e, c, true)
}

// Peek is like Lookup but never queues anything. A tile nobody asked for
// reports Absent.
func (e *Engine) Peek(c fractal.Coord) Lookup {
	e.checkTile(c)
	m := e.maze(c.Seed)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolve(e, c, false)
}

// RequestCentralBilayer queues the next root of the maze, unless one is
// already pending.
func (e *Engine) RequestCentralBilayer(seed uint32) {
	m := e.maze(seed)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestRoot()
}

func (e *Engine) checkTile(c fractal.Coord) {
	if err := e.space.Validate(c); err != nil {
		panic(err)
	}
	if e.space.Scale(c) < 1 {
		errors.Malformed("%v is a base cell, not a tile", c)
	}
}

// =============================================================================
// Generation
// =============================================================================

// StepStats summarizes one call to Step.
type StepStats struct {
	Processed int // requests taken off the queues
	Generated int // tiles that became ready
	Dropped   int // requests whose parent was not ready
	Failed    int // tiles that could not be generated
	Remaining int // requests still queued across all mazes
}

// Step processes at most budget queued requests, taking one request from
// each maze in turn. A budget below one uses [DefaultStepBudget].
func (e *Engine) Step(budget int) StepStats {
	if budget < 1 {
		budget = DefaultStepBudget
	}

	e.mu.Lock()
	ms := make([]*maze, len(e.order))
	for i := range e.order {
		// start where the previous step stopped so no maze starves
		ms[i] = e.mazes[e.order[(e.next+i)%len(e.order)]]
	}
	if len(e.order) > 0 {
		e.next = (e.next + 1) % len(e.order)
	}
	e.mu.Unlock()

	var st StepStats
	for st.Processed < budget {
		progress := false
		for _, m := range ms {
			if st.Processed >= budget {
				break
			}
			if m.stepOne(e, &st) {
				progress = true
			}
		}
		if !progress {
			break
		}
	}
	for _, m := range ms {
		m.mu.Lock()
		st.Remaining += len(m.queue)
		m.mu.Unlock()
	}
	return st
}

// Pump calls Step with the given budget until ready reports true. It
// returns ctx.Err() when ctx ends first, and a NOT_READY error when ready is
// still false after a round in which no request was processed anywhere,
// which happens only after a generation failure.
//
// ready is expected to query the engine, so that whatever it is waiting for
// gets queued. Several goroutines may pump the same engine.
func (e *Engine) Pump(ctx context.Context, budget int, ready func() bool) error {
	for {
		mark := e.processed.Load()
		if ready() {
			return nil
		}
		if st := e.Step(budget); st.Processed == 0 {
			if ready() {
				return nil
			}
			if e.processed.Load() == mark {
				return errors.New(errors.ErrCodeNotReady, "nothing left to generate")
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// =============================================================================
// Statistics
// =============================================================================

// Stats describes the cache of one maze.
type Stats struct {
	Seed      uint32 `json:"seed"`
	Roots     int    `json:"roots"`    // ready roots
	Tiles     int    `json:"tiles"`    // generated tiles, roots included
	Pending   int    `json:"pending"`  // queued requests
	Failures  int    `json:"failures"` // tiles that could not be generated
	LastError string `json:"last_error,omitempty"`
}

// Stats returns cache statistics for the maze of seed.
func (e *Engine) Stats(seed uint32) Stats {
	m := e.maze(seed)
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{
		Seed:     seed,
		Roots:    m.maxReady() + 1,
		Tiles:    m.tiles,
		Pending:  len(m.queue),
		Failures: m.failures,
	}
	if m.lastErr != nil {
		s.LastError = m.lastErr.Error()
	}
	return s
}

// =============================================================================
// Per-seed cache
// =============================================================================

// request is a queued generation job: the next root, or one child tile.
type request struct {
	root   bool
	height int           // root height
	coord  fractal.Coord // child tile
}

type maze struct {
	seed uint32

	mu       sync.Mutex
	roots    []bilayer.Slot
	queue    []request
	tiles    int
	failures int
	lastErr  error
}

// maxReady returns the height of the tallest root whose whole tower is
// ready, or -1.
func (m *maze) maxReady() int {
	n := 0
	for n < len(m.roots) && m.roots[n].Status == Ready {
		n++
	}
	return n - 1
}

func (m *maze) requestRoot() {
	h := len(m.roots)
	if h > 0 && m.roots[h-1].Status != Ready {
		return
	}
	m.roots = append(m.roots, bilayer.Slot{Status: Pending})
	m.queue = append(m.queue, request{root: true, height: h})
}

// resolve walks from the tallest ready root down to c. With claim set, the
// first absent slot on the way is marked pending and queued.
func (m *maze) resolve(e *Engine, c fractal.Coord, claim bool) Lookup {
	space := e.space
	center := space.Geometry().Center()
	c = space.Normalize(c)

	need := c.Height
	if c.Height > 0 && len(c.Trace) == 1 && c.Trace[0] == center {
		need-- // c is itself a root
	}
	top := m.maxReady()
	if need > top {
		if claim {
			m.requestRoot()
			return Lookup{Status: Pending}
		}
		if top+1 < len(m.roots) {
			return Lookup{Status: Pending}
		}
		return Lookup{Status: Absent}
	}

	// c re-expressed under the root of height top
	trace := make([]int, 0, top+2-c.Height+len(c.Trace))
	for h := c.Height; h <= top; h++ {
		trace = append(trace, center)
	}
	trace = append(trace, c.Trace...)

	cur := space.Root(m.seed, top)
	node := m.roots[top].Bilayer
	for _, idx := range trace[1:] {
		cur = fractal.Coord{Seed: m.seed, Height: cur.Height, Trace: append(slices.Clip(cur.Trace), idx)}
		slot := &node.Children[idx]
		switch slot.Status {
		case Absent:
			if !claim {
				return Lookup{Status: Absent}
			}
			slot.Status = Pending
			m.queue = append(m.queue, request{coord: cur})
			return Lookup{Status: Pending}
		case Pending:
			return Lookup{Status: Pending}
		}
		node = slot.Bilayer
	}
	return Lookup{Status: Ready, Bilayer: node}
}

// stepOne processes the oldest queued request. It reports false when the
// queue is empty.
func (m *maze) stepOne(e *Engine, st *StepStats) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return false
	}
	req := m.queue[0]
	m.queue[0] = request{}
	m.queue = m.queue[1:]
	st.Processed++
	defer e.processed.Add(1)

	start := time.Now()
	if req.root {
		m.generateRoot(e, req.height, start, st)
	} else {
		m.generateChild(e, req.coord, start, st)
	}
	return true
}

func (m *maze) generateRoot(e *Engine, h int, start time.Time, st *StepStats) {
	var prev *bilayer.Bilayer
	if h > 0 {
		prev = m.roots[h-1].Bilayer
	}
	b, err := e.gen.Root(m.seed, h, prev)
	if err != nil {
		m.fail(e, e.space.Root(m.seed, h), err, st)
		return
	}
	m.roots[h] = bilayer.Slot{Status: Ready, Bilayer: b}
	m.tiles++
	st.Generated++
	observability.Generation().OnTileGenerated(m.seed, h+1, time.Since(start))
	e.logger.Debug("root ready", "seed", m.seed, "height", h, "pattern", b.Pattern)
}

func (m *maze) generateChild(e *Engine, c fractal.Coord, start time.Time, st *StepStats) {
	parentCoord := e.space.Parent(c)
	parent := m.resolve(e, parentCoord, false)
	if !parent.Ready() {
		// the slot lives in the missing parent; nothing to reset
		st.Dropped++
		observability.Generation().OnRequestDropped(m.seed, c.String())
		e.logger.Debug("dropped request", "seed", m.seed, "coord", c)
		return
	}

	idx := c.Last()
	slot := &parent.Bilayer.Children[idx]
	if slot.Status != Pending {
		return
	}
	b, err := e.gen.Child(parent.Bilayer, idx)
	if err != nil {
		m.fail(e, c, err, st)
		return
	}
	*slot = bilayer.Slot{Status: Ready, Bilayer: b}
	m.tiles++
	st.Generated++
	observability.Generation().OnTileGenerated(m.seed, e.space.Scale(c), time.Since(start))
}

// fail records a generation failure. The slot stays pending, so the tile is
// never retried and every lookup through it keeps reporting Pending.
func (m *maze) fail(e *Engine, c fractal.Coord, err error, st *StepStats) {
	m.failures++
	m.lastErr = err
	st.Failed++
	observability.Generation().OnGenerationFailed(m.seed, c.String(), err)
	e.logger.Error("tile generation failed", "seed", m.seed, "coord", c, "err", err)
}
