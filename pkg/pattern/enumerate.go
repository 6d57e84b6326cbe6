package pattern

import (
	"context"
	"sort"

	"github.com/matzehuels/labyrinth/pkg/grid"
)

// Enumerate generates a base catalog by depth-first search over the
// Hamiltonian paths of a size x size grid that start on a West socket and
// end on a socket of another edge.
//
// Neighbors are explored in clockwise order starting at North, and at most
// perPair paths are kept for every (start cell, end cell) pair, in the order
// the search finds them. The result is ordered by start cell, then end cell.
// A non-positive perPair keeps every path.
//
// The search space grows very quickly with size; ctx cancels it.
func Enumerate(ctx context.Context, size, perPair int) (Catalog, error) {
	g, err := grid.NewGeometry(size)
	if err != nil {
		return Catalog{}, err
	}

	var ends []int
	for c := 0; c < g.Cells(); c++ {
		if endsOffWest(g, c) {
			ends = append(ends, c)
		}
	}

	var patterns [][]int
	for s := 0; s < g.SocketCount(); s++ {
		start := g.EdgeCell(grid.EdgeSocket{Edge: grid.West, Socket: s})
		e := &enumerator{
			ctx:     ctx,
			g:       g,
			perPair: perPair,
			found:   make(map[int][][]int),
			want:    len(ends),
		}
		for _, c := range ends {
			if c == start {
				e.want--
			}
		}
		e.search(start)
		if err := ctx.Err(); err != nil {
			return Catalog{}, err
		}

		keys := make([]int, 0, len(e.found))
		for end := range e.found {
			keys = append(keys, end)
		}
		sort.Ints(keys)
		for _, end := range keys {
			patterns = append(patterns, e.found[end]...)
		}
	}
	return NewCatalog(patterns)
}

func endsOffWest(g grid.Geometry, c int) bool {
	for _, es := range g.EdgeSockets(c) {
		if es.Edge != grid.West {
			return true
		}
	}
	return false
}

type enumerator struct {
	ctx     context.Context
	g       grid.Geometry
	perPair int
	found   map[int][][]int
	full    int // end cells holding perPair paths
	want    int // end cells that can be reached from the start
	path    []int
	seen    []bool
	visits  int

	cancelled bool
}

func (e *enumerator) done() bool {
	return e.cancelled || (e.perPair > 0 && e.full >= e.want)
}

func (e *enumerator) search(start int) {
	e.path = append(e.path[:0], start)
	e.seen = make([]bool, e.g.Cells())
	e.seen[start] = true
	e.dfs()
}

func (e *enumerator) dfs() {
	e.visits++
	if e.visits&0xFFFF == 0 && e.ctx.Err() != nil {
		e.cancelled = true
	}
	if e.done() {
		return
	}

	g := e.g
	cur := e.path[len(e.path)-1]
	if len(e.path) == g.Cells() {
		if endsOffWest(g, cur) {
			e.keep(cur)
		}
		return
	}

	row, col := g.Cell(cur)
	for _, o := range grid.Orientations {
		v := o.Vector()
		r, c := row+v.Y, col+v.X
		if r < 0 || r >= g.Size || c < 0 || c >= g.Size {
			continue
		}
		next := g.Index(r, c)
		if e.seen[next] {
			continue
		}
		e.seen[next] = true
		e.path = append(e.path, next)
		e.dfs()
		e.path = e.path[:len(e.path)-1]
		e.seen[next] = false
		if e.done() {
			return
		}
	}
}

func (e *enumerator) keep(end int) {
	have := e.found[end]
	if e.perPair > 0 && len(have) >= e.perPair {
		return
	}
	p := make([]int, len(e.path))
	copy(p, e.path)
	e.found[end] = append(have, p)
	if e.perPair > 0 && len(e.found[end]) == e.perPair {
		e.full++
	}
}
