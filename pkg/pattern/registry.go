package pattern

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/grid"
)

// Exclusion records a base pattern, or one interpretation of it, that the
// registry refused to register.
type Exclusion struct {
	Index   int   // position in the base catalog
	Pattern []int // the base pattern
	Reason  string
}

// Registry holds every registered pattern together with the lookup tables
// the generator queries. A Registry is immutable after [NewRegistry] returns
// and safe for concurrent use.
//
// Patterns are identified by their registration index in [0, Len()).
type Registry struct {
	geom   grid.Geometry
	logger *log.Logger

	base         [][]int
	positions    [][]int
	indices      [][]int
	orientations [][]grid.Orientation
	exitSides    [][]grid.Orientation
	entrances    []grid.EdgeSocket
	exits        []grid.EdgeSocket

	lookup    [][][]int // [entrance socket id][exit socket id]
	central   [4][4][]int
	universal []int
	excluded  []Exclusion
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report excluded patterns.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry builds a registry from base patterns of side size.
//
// Every base pattern must enter through a socket on the West edge. Its exit
// is interpreted on every non-West edge its last cell touches, so a pattern
// ending in a corner registers once per corner interpretation. Each accepted
// interpretation is then registered under all four rotations.
//
// Structurally invalid patterns (wrong length, repeated cells, steps between
// non-adjacent cells) fail the whole build. Patterns that are valid paths but
// cannot be used (entrance off the West sockets, exit U-turning onto the West
// edge, exit off every socket) are logged and excluded.
func NewRegistry(size int, base [][]int, opts ...Option) (*Registry, error) {
	g, err := grid.NewGeometry(size)
	if err != nil {
		return nil, err
	}

	r := &Registry{geom: g, logger: log.Default()}
	for _, opt := range opts {
		opt(r)
	}

	ids := 4 * g.SocketCount()
	r.lookup = make([][][]int, ids)
	for i := range r.lookup {
		r.lookup[i] = make([][]int, ids)
	}

	for i, p := range base {
		if err := validatePath(g, p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "base pattern %d", i)
		}
		if reason, ok := r.register(p); !ok {
			r.exclude(i, p, reason)
			continue
		}
		r.base = append(r.base, p)
	}

	if len(r.positions) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "catalog has no usable patterns")
	}

	r.buildCentral()
	r.universal = r.findUniversal()
	if len(r.universal) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCatalog,
			"catalog has no universal socket: no socket connects to every other socket on every edge pair")
	}

	r.logger.Debug("built pattern registry",
		"size", size,
		"base", len(r.base),
		"registered", len(r.positions),
		"excluded", len(r.excluded),
		"universal", r.universal)
	return r, nil
}

func (r *Registry) exclude(i int, p []int, reason string) {
	r.excluded = append(r.excluded, Exclusion{Index: i, Pattern: p, Reason: reason})
	r.logger.Warn("excluding pattern", "index", i, "reason", reason)
}

// register adds all interpretations and rotations of a base pattern.
func (r *Registry) register(p []int) (string, bool) {
	g := r.geom
	first, last := p[0], p[len(p)-1]

	var entrance *grid.EdgeSocket
	for _, es := range g.EdgeSockets(first) {
		if es.Edge == grid.West {
			entrance = &es
			break
		}
	}
	if entrance == nil {
		return "entrance is not a west socket", false
	}

	candidates := g.EdgeSockets(last)
	if len(candidates) == 0 {
		return "exit is not a boundary socket", false
	}
	var exits []grid.EdgeSocket
	for _, es := range candidates {
		if es.Edge != grid.West {
			exits = append(exits, es)
		}
	}
	if len(exits) == 0 {
		return "exit returns to the entrance edge", false
	}

	for _, exit := range exits {
		for k := 0; k < 4; k++ {
			r.add(rotate(g, p, k), g.RotateSocket(*entrance, k), g.RotateSocket(exit, k))
		}
	}
	return "", true
}

func (r *Registry) add(pos []int, entrance, exit grid.EdgeSocket) {
	g := r.geom
	if g.EdgeCell(entrance) != pos[0] || g.EdgeCell(exit) != pos[len(pos)-1] {
		errors.Malformed("rotated sockets %v/%v do not match pattern ends %d/%d",
			entrance, exit, pos[0], pos[len(pos)-1])
	}

	id := len(r.positions)
	last := len(pos) - 1

	indices := make([]int, len(pos))
	orient := make([]grid.Orientation, len(pos))
	exitSides := make([]grid.Orientation, len(pos))
	for k, c := range pos {
		indices[c] = k
		if k == 0 {
			orient[k] = entrance.Edge
		} else {
			orient[k] = g.Side(c, pos[k-1])
		}
		if k == last {
			exitSides[k] = exit.Edge
		} else {
			exitSides[k] = g.Side(c, pos[k+1])
		}
	}

	r.positions = append(r.positions, pos)
	r.indices = append(r.indices, indices)
	r.orientations = append(r.orientations, orient)
	r.exitSides = append(r.exitSides, exitSides)
	r.entrances = append(r.entrances, entrance)
	r.exits = append(r.exits, exit)

	en, ex := g.SocketID(entrance), g.SocketID(exit)
	r.lookup[en][ex] = append(r.lookup[en][ex], id)
}

func (r *Registry) buildCentral() {
	center := r.geom.Center()
	for p := range r.positions {
		k := r.indices[p][center]
		entry := r.orientations[p][k]
		exit := r.exitSides[p][k]
		r.central[entry][exit] = append(r.central[entry][exit], p)
	}
}

// findUniversal returns the sockets s such that, for every ordered pair of
// distinct edges and every socket t, some pattern connects t to s and some
// pattern connects s to t.
func (r *Registry) findUniversal() []int {
	n := r.geom.SocketCount()
	var out []int
	for s := 0; s < n; s++ {
		if r.connectsEverywhere(s) {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) connectsEverywhere(s int) bool {
	n := r.geom.SocketCount()
	for _, e1 := range grid.Orientations {
		for _, e2 := range grid.Orientations {
			if e1 == e2 {
				continue
			}
			for t := 0; t < n; t++ {
				if len(r.Possibilities(grid.EdgeSocket{Edge: e1, Socket: t}, grid.EdgeSocket{Edge: e2, Socket: s})) == 0 ||
					len(r.Possibilities(grid.EdgeSocket{Edge: e1, Socket: s}, grid.EdgeSocket{Edge: e2, Socket: t})) == 0 {
					return false
				}
			}
		}
	}
	return true
}

// =============================================================================
// Queries
// =============================================================================

// Geometry returns the pattern geometry.
func (r *Registry) Geometry() grid.Geometry { return r.geom }

// Size returns the side length N.
func (r *Registry) Size() int { return r.geom.Size }

// Len returns the number of registered patterns.
func (r *Registry) Len() int { return len(r.positions) }

// Base returns the accepted base patterns in catalog order.
func (r *Registry) Base() [][]int { return r.base }

// Excluded returns the base patterns that were not registered.
func (r *Registry) Excluded() []Exclusion { return r.excluded }

// Positions returns the cells of pattern p in traversal order.
// The returned slice must not be modified.
func (r *Registry) Positions(p int) []int { return r.positions[r.check(p)] }

// Indices returns, for every cell, its position in the traversal of pattern p.
// The returned slice must not be modified.
func (r *Registry) Indices(p int) []int { return r.indices[r.check(p)] }

// Orientations returns, for every traversal step k of pattern p, the side of
// cell Positions(p)[k] through which the path enters it.
func (r *Registry) Orientations(p int) []grid.Orientation { return r.orientations[r.check(p)] }

// ExitSides returns, for every traversal step k of pattern p, the side of
// cell Positions(p)[k] through which the path leaves it.
func (r *Registry) ExitSides(p int) []grid.Orientation { return r.exitSides[r.check(p)] }

// Entrance returns the entrance edge and socket of pattern p.
func (r *Registry) Entrance(p int) grid.EdgeSocket { return r.entrances[r.check(p)] }

// Exit returns the exit edge and socket of pattern p.
func (r *Registry) Exit(p int) grid.EdgeSocket { return r.exits[r.check(p)] }

// UniversalSockets returns the sockets that connect to every socket on every
// pair of distinct edges. The generator uses them for internal boundaries it
// is free to choose.
func (r *Registry) UniversalSockets() []int { return r.universal }

// Possibilities returns the patterns entering at entrance and leaving at
// exit. A [grid.AnySocket] socket matches every socket on its edge. The
// entrance and exit edges must differ.
//
// For fully specified queries the returned slice is shared and must not be
// modified.
func (r *Registry) Possibilities(entrance, exit grid.EdgeSocket) []int {
	if entrance.Edge == exit.Edge {
		errors.Malformed("entrance and exit share edge %v", entrance.Edge)
	}
	g := r.geom
	if !entrance.Any() && !exit.Any() {
		return r.lookup[g.SocketID(entrance)][g.SocketID(exit)]
	}

	var out []int
	for _, en := range r.expand(entrance) {
		for _, ex := range r.expand(exit) {
			out = append(out, r.lookup[g.SocketID(en)][g.SocketID(ex)]...)
		}
	}
	return out
}

func (r *Registry) expand(es grid.EdgeSocket) []grid.EdgeSocket {
	if !es.Any() {
		return []grid.EdgeSocket{es}
	}
	out := make([]grid.EdgeSocket, r.geom.SocketCount())
	for s := range out {
		out[s] = grid.EdgeSocket{Edge: es.Edge, Socket: s}
	}
	return out
}

// CentralPossibilities returns the patterns whose path enters the center
// cell through side entry and leaves it through side exit. A new outer root
// uses one of these so that the previous root can sit at its center.
// The returned slice must not be modified.
func (r *Registry) CentralPossibilities(entry, exit grid.Orientation) []int {
	if !entry.Valid() || !exit.Valid() {
		errors.Malformed("central query %d/%d out of range", int(entry), int(exit))
	}
	return r.central[entry][exit]
}

func (r *Registry) check(p int) int {
	if p < 0 || p >= len(r.positions) {
		errors.Malformed("pattern %d out of range (%d registered)", p, len(r.positions))
	}
	return p
}

// =============================================================================
// Statistics
// =============================================================================

// Stats summarizes a registry for diagnostics.
type Stats struct {
	Size        int   `json:"size"`
	Base        int   `json:"base"`
	Registered  int   `json:"registered"`
	Excluded    int   `json:"excluded"`
	Universal   []int `json:"universal"`
	MinCentral  int   `json:"min_central"`  // fewest central candidates over all entry/exit pairs
	EmptyCombos int   `json:"empty_combos"` // fully specified socket pairs with no pattern
}

// Stats computes registry statistics.
func (r *Registry) Stats() Stats {
	s := Stats{
		Size:       r.geom.Size,
		Base:       len(r.base),
		Registered: len(r.positions),
		Excluded:   len(r.excluded),
		Universal:  r.universal,
		MinCentral: -1,
	}
	for _, a := range grid.Orientations {
		for _, b := range grid.Orientations {
			if a == b {
				continue
			}
			if n := len(r.central[a][b]); s.MinCentral < 0 || n < s.MinCentral {
				s.MinCentral = n
			}
		}
	}
	ids := 4 * r.geom.SocketCount()
	for en := 0; en < ids; en++ {
		for ex := 0; ex < ids; ex++ {
			if en/r.geom.SocketCount() == ex/r.geom.SocketCount() {
				continue
			}
			if len(r.lookup[en][ex]) == 0 {
				s.EmptyCombos++
			}
		}
	}
	return s
}

// Fingerprint identifies the registry contents: the pattern size and the
// base catalog it was built from. Registries with equal fingerprints produce
// identical mazes for every seed.
func (r *Registry) Fingerprint() string {
	data, _ := json.Marshal(struct {
		Size int     `json:"size"`
		Base [][]int `json:"base"`
	}{r.geom.Size, r.base})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
