package bilayer

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/fractal"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/lfsr"
	"github.com/matzehuels/labyrinth/pkg/pattern"
)

// Generator builds bilayers from a pattern registry. It keeps no state
// between calls and is safe for concurrent use.
type Generator struct {
	Registry *pattern.Registry
	Space    fractal.Space
	Logger   *log.Logger

	// CheckIntegrity verifies every generated bilayer and logs each
	// mismatch between consecutive sub-patterns.
	CheckIntegrity bool
}

// NewGenerator returns a generator for reg. A nil logger uses log.Default().
func NewGenerator(reg *pattern.Registry, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		Registry: reg,
		Space:    fractal.NewSpace(reg.Geometry()),
		Logger:   logger,
	}
}

// Root generates the root tile of the given height.
//
// The root of height 0 is a single tile of base cells. Its path enters on a
// random side, at the socket the edge seed dictates, and leaves on any other
// side. Every taller root embeds prev, the root one level below, as its
// center cell: its pattern passes through the center in the direction prev
// does, and its sub-patterns around the center agree with prev's sockets.
func (g *Generator) Root(seed uint32, height int, prev *Bilayer) (*Bilayer, error) {
	c := g.Space.Root(seed, height)
	local := g.Space.LocalSeed(c)
	src := lfsr.NewSource(local)
	reg := g.Registry

	if height == 0 {
		entry := grid.Orientation(src.Intn(4))
		others := make([]grid.Orientation, 0, 3)
		for _, e := range grid.Orientations {
			if e != entry {
				others = append(others, e)
			}
		}
		exit := others[src.Intn(len(others))]
		entrance := grid.EdgeSocket{Edge: entry, Socket: g.Space.ExternalSocket(c, entry)}

		p, ok := lfsr.Pick(src, reg.Possibilities(entrance, grid.EdgeSocket{Edge: exit, Socket: grid.AnySocket}))
		if !ok {
			return nil, g.impossible(c, "no pattern enters at %v and leaves %v", entrance, exit)
		}
		g.Logger.Debug("generated root", "seed", seed, "height", 0, "pattern", p)
		return &Bilayer{Coord: c, LocalSeed: local, Pattern: p}, nil
	}

	if prev == nil || prev.Coord.Height != height {
		return nil, errors.New(errors.ErrCodeInvalidInput, "root %d needs the root of height %d", height, height-1)
	}
	entry := reg.Entrance(prev.Pattern).Edge
	exit := reg.Exit(prev.Pattern).Edge
	p, ok := lfsr.Pick(src, reg.CentralPossibilities(entry, exit))
	if !ok {
		return nil, g.impossible(c, "no pattern crosses the center from %v to %v", entry, exit)
	}
	sub, err := g.fill(c, p, src, prev.Pattern)
	if err != nil {
		return nil, err
	}

	b := g.newBilayer(c, local, p, sub)
	b.Children[g.Space.Geometry().Center()] = Slot{Status: Ready, Bilayer: prev}
	g.Logger.Debug("generated root", "seed", seed, "height", height, "pattern", p)
	return b, nil
}

// Child generates cell index of parent. The pattern is the one parent
// assigned to that cell; tiles above the base layer also get sub-patterns.
func (g *Generator) Child(parent *Bilayer, index int) (*Bilayer, error) {
	if parent.IsBase() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tile %v has no child tiles", parent.Coord)
	}
	if index < 0 || index >= len(parent.SubPatterns) {
		errors.Malformed("child index %d out of range", index)
	}

	c := g.Space.Child(parent.Coord, index)
	local := g.Space.LocalSeed(c)
	p := parent.SubPatterns[index]
	if g.Space.Scale(c) < 2 {
		return &Bilayer{Coord: c, LocalSeed: local, Pattern: p}, nil
	}

	sub, err := g.fill(c, p, lfsr.NewSource(local), -1)
	if err != nil {
		return nil, err
	}
	return g.newBilayer(c, local, p, sub), nil
}

func (g *Generator) newBilayer(c fractal.Coord, local uint32, p int, sub []int) *Bilayer {
	b := &Bilayer{
		Coord:       c,
		LocalSeed:   local,
		Pattern:     p,
		SubPatterns: sub,
		Children:    make([]Slot, len(sub)),
	}
	if g.CheckIntegrity {
		for _, m := range g.Verify(b) {
			g.Logger.Error("bilayer integrity", "coord", c, "step", m.Step, "problem", m.Problem)
		}
	}
	return b
}

func (g *Generator) impossible(c fractal.Coord, format string, args ...any) error {
	err := errors.New(errors.ErrCodeImpossibleConfiguration, format, args...)
	g.Logger.Error("cannot generate tile", "coord", c, "err", err)
	return err
}

// =============================================================================
// Sub-pattern selection
// =============================================================================

// filler assigns a sub-pattern to every cell of a tile. Cells are addressed
// by their step k along the tile pattern.
type filler struct {
	g    *Generator
	tile fractal.Coord
	p    int
	pos  []int
	sub  []int // by cell index, -1 when unassigned
	src  *lfsr.Source
}

// fill chooses the sub-patterns of tile c, whose own pattern is p. When
// fixed is not negative the center cell is bound to it, and its two path
// neighbors are chosen first to match its sockets.
//
// The cells on the tile boundary where the path enters and leaves take their
// outer socket from the edge seed, shared with the neighboring tile. Every
// other edge between cells is chosen freely: a universal socket when both
// sides are still open, otherwise whatever the assigned side dictates.
func (g *Generator) fill(c fractal.Coord, p int, src *lfsr.Source, fixed int) ([]int, error) {
	reg := g.Registry
	f := &filler{
		g:    g,
		tile: c,
		p:    p,
		pos:  reg.Positions(p),
		sub:  make([]int, reg.Geometry().Cells()),
		src:  src,
	}
	for i := range f.sub {
		f.sub[i] = -1
	}
	last := len(f.pos) - 1

	if fixed >= 0 {
		center := reg.Geometry().Center()
		f.sub[center] = fixed
		k := reg.Indices(p)[center]
		if err := f.place(k-1, f.entranceSocket(k-1), reg.Entrance(fixed).Socket); err != nil {
			return nil, err
		}
		if err := f.place(k+1, reg.Exit(fixed).Socket, f.exitSocket(k+1, false)); err != nil {
			return nil, err
		}
	}
	for _, k := range []int{0, last} {
		if f.sub[f.pos[k]] < 0 {
			if err := f.place(k, f.entranceSocket(k), f.exitSocket(k, false)); err != nil {
				return nil, err
			}
		}
	}
	for k := 1; k < last; k++ {
		if f.sub[f.pos[k]] < 0 {
			if err := f.place(k, f.entranceSocket(k), f.exitSocket(k, true)); err != nil {
				return nil, err
			}
		}
	}
	return f.sub, nil
}

func (f *filler) place(k, entrance, exit int) error {
	reg := f.g.Registry
	en := grid.EdgeSocket{Edge: reg.Orientations(f.p)[k], Socket: entrance}
	ex := grid.EdgeSocket{Edge: reg.ExitSides(f.p)[k], Socket: exit}
	sp, ok := lfsr.Pick(f.src, reg.Possibilities(en, ex))
	if !ok {
		return f.g.impossible(f.tile, "no sub-pattern for cell %d (step %d) from %v to %v", f.pos[k], k, en, ex)
	}
	f.sub[f.pos[k]] = sp
	return nil
}

// child returns cell k of the tile. It is left unnormalized: only its
// position and scale matter for edge seeds.
func (f *filler) child(k int) fractal.Coord {
	t := make([]int, len(f.tile.Trace)+1)
	copy(t, f.tile.Trace)
	t[len(t)-1] = f.pos[k]
	return fractal.Coord{Seed: f.tile.Seed, Height: f.tile.Height, Trace: t}
}

func (f *filler) universal() int {
	s, _ := lfsr.Pick(f.src, f.g.Registry.UniversalSockets())
	return s
}

func (f *filler) entranceSocket(k int) int {
	reg := f.g.Registry
	if k == 0 {
		return f.g.Space.ExternalSocket(f.child(0), reg.Orientations(f.p)[0])
	}
	if prev := f.sub[f.pos[k-1]]; prev >= 0 {
		return reg.Exit(prev).Socket
	}
	return f.universal()
}

func (f *filler) exitSocket(k int, wildcard bool) int {
	reg := f.g.Registry
	last := len(f.pos) - 1
	if k == last {
		return f.g.Space.ExternalSocket(f.child(last), reg.ExitSides(f.p)[last])
	}
	if next := f.sub[f.pos[k+1]]; next >= 0 {
		return reg.Entrance(next).Socket
	}
	if wildcard {
		return grid.AnySocket
	}
	return f.universal()
}

// =============================================================================
// Integrity
// =============================================================================

// Mismatch describes one place where the path through a bilayer breaks.
// Step is the position along the tile pattern, or -1 for the tile edges.
type Mismatch struct {
	Step    int
	Problem string
}

// Verify checks that the sub-patterns of b form one continuous path: the
// first enters where the tile does, the last leaves where the tile does,
// and consecutive ones meet on their shared edge at the same socket.
func (g *Generator) Verify(b *Bilayer) []Mismatch {
	if b.IsBase() {
		return nil
	}
	reg := g.Registry
	pos := reg.Positions(b.Pattern)
	last := len(pos) - 1
	var out []Mismatch

	first, final := b.SubPatterns[pos[0]], b.SubPatterns[pos[last]]
	if reg.Entrance(first).Edge != reg.Entrance(b.Pattern).Edge {
		out = append(out, Mismatch{Step: -1, Problem: "first cell does not enter through the tile entrance edge"})
	}
	if reg.Exit(final).Edge != reg.Exit(b.Pattern).Edge {
		out = append(out, Mismatch{Step: -1, Problem: "last cell does not leave through the tile exit edge"})
	}

	geom := reg.Geometry()
	for k := 0; k < last; k++ {
		a, n := b.SubPatterns[pos[k]], b.SubPatterns[pos[k+1]]
		side := geom.Side(pos[k], pos[k+1])
		switch {
		case reg.Exit(a).Edge != side:
			out = append(out, Mismatch{Step: k, Problem: fmt.Sprintf("exit edge %v does not face the next cell", reg.Exit(a).Edge)})
		case reg.Entrance(n).Edge != side.Opposite():
			out = append(out, Mismatch{Step: k, Problem: fmt.Sprintf("next cell enters through %v", reg.Entrance(n).Edge)})
		case reg.Exit(a).Socket != reg.Entrance(n).Socket:
			out = append(out, Mismatch{Step: k, Problem: fmt.Sprintf("sockets %v and %v differ", reg.Exit(a), reg.Entrance(n))})
		}
	}
	return out
}
