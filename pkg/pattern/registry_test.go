package pattern_test

import (
	"io"
	"reflect"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/pattern"
	"github.com/matzehuels/labyrinth/pkg/pattern/catalog"
)

var (
	// enters West 0, leaves North 1
	straightExit = []int{0, 1, 6, 5, 10, 11, 12, 7, 8, 13, 18, 17, 16, 15, 20, 21, 22, 23, 24, 19, 14, 9, 4, 3, 2}
	// leaves through the north-east corner
	cornerExit = []int{0, 1, 2, 3, 8, 13, 18, 17, 12, 7, 6, 5, 10, 11, 16, 15, 20, 21, 22, 23, 24, 19, 14, 9, 4}
	// leaves back through the West edge
	uTurnExit = []int{0, 1, 2, 3, 4, 9, 14, 19, 24, 23, 18, 13, 8, 7, 12, 17, 22, 21, 20, 15, 16, 11, 6, 5, 10}
	// ends at the center cell
	centerExit = []int{0, 1, 2, 3, 4, 9, 14, 19, 24, 23, 18, 13, 8, 7, 6, 5, 10, 11, 16, 15, 20, 21, 22, 17, 12}
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func defaultRegistry(t *testing.T) *pattern.Registry {
	t.Helper()
	reg, err := catalog.NewRegistry(quietLogger())
	if err != nil {
		t.Fatalf("catalog.NewRegistry() error: %v", err)
	}
	return reg
}

func reversed(p []int) []int {
	out := make([]int, len(p))
	for i, c := range p {
		out[len(p)-1-i] = c
	}
	return out
}

// flipped mirrors p top to bottom in a size x size grid.
func flipped(p []int, size int) []int {
	out := make([]int, len(p))
	for i, c := range p {
		out[i] = (size-1-c/size)*size + c%size
	}
	return out
}

func TestRotatePattern(t *testing.T) {
	p := []int{24, 23, 22, 17, 18, 19, 14, 13, 8, 9, 4, 3, 2, 1, 0, 5, 6, 7, 12, 11, 10, 15, 16, 21, 20}
	want := []int{20, 15, 10, 11, 16, 21, 22, 17, 18, 23, 24, 19, 14, 9, 4, 3, 8, 13, 12, 7, 2, 1, 6, 5, 0}

	if got := pattern.RotatePattern(p, 1); !reflect.DeepEqual(got, want) {
		t.Errorf("RotatePattern(p, 1) = %v, want %v", got, want)
	}
	if got := pattern.RotatePattern(p, 4); !reflect.DeepEqual(got, p) {
		t.Errorf("RotatePattern(p, 4) = %v, want identity", got)
	}
	if got := pattern.RotatePattern(pattern.RotatePattern(p, 3), 1); !reflect.DeepEqual(got, p) {
		t.Errorf("RotatePattern(RotatePattern(p, 3), 1) = %v, want identity", got)
	}
}

func TestNewRegistryInterpretations(t *testing.T) {
	tests := []struct {
		name       string
		base       []int
		registered int
		excluded   int
	}{
		{"unambiguous exit", straightExit, 4, 0},
		{"corner exit", cornerExit, 8, 0},
		{"u-turn exit", uTurnExit, 0, 1},
		{"exit off boundary", centerExit, 0, 1},
		{"entrance not on west", reversed(straightExit), 0, 1},
	}

	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the default catalog keeps the registry buildable around the case
			base := append(append([][]int{}, c.Patterns...), tt.base)
			reg, err := pattern.NewRegistry(5, base, pattern.WithLogger(quietLogger()))
			if err != nil {
				t.Fatalf("NewRegistry() error: %v", err)
			}
			if got := reg.Len() - 600; got != tt.registered {
				t.Errorf("registered = %d, want %d", got, tt.registered)
			}
			if got := len(reg.Excluded()); got != tt.excluded {
				t.Errorf("excluded = %d, want %d", got, tt.excluded)
			}
			if tt.excluded > 0 && reg.Excluded()[0].Index != len(c.Patterns) {
				t.Errorf("excluded index = %d, want %d", reg.Excluded()[0].Index, len(c.Patterns))
			}
		})
	}
}

func TestPatternEndsHaveEvenParity(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}
	g := grid.Geometry{Size: c.Size}

	for i, p := range c.Patterns {
		for _, end := range []int{p[0], p[len(p)-1]} {
			row, col := g.Cell(end)
			if (row+col)%2 != 0 {
				t.Errorf("pattern %d ends at %d with odd parity", i, end)
			}
			if g.OnBoundary(end) && len(g.EdgeSockets(end)) == 0 {
				t.Errorf("pattern %d ends at boundary cell %d with no socket", i, end)
			}
		}
	}
}

func TestNewRegistryRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		base [][]int
		code errors.Code
	}{
		{"repeated cell", [][]int{append(append([]int{}, straightExit[:24]...), 0)}, errors.ErrCodeInvalidPattern},
		{"short", [][]int{straightExit[:20]}, errors.ErrCodeInvalidPattern},
		{"jump", [][]int{{0, 2, 1, 6, 5, 10, 11, 12, 7, 8, 13, 18, 17, 16, 15, 20, 21, 22, 23, 24, 19, 14, 9, 4, 3}}, errors.ErrCodeInvalidPattern},
		{"nothing usable", [][]int{uTurnExit}, errors.ErrCodeInvalidCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pattern.NewRegistry(5, tt.base, pattern.WithLogger(quietLogger()))
			if !errors.Is(err, tt.code) {
				t.Errorf("NewRegistry() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestDefaultCatalogStats(t *testing.T) {
	reg := defaultRegistry(t)
	s := reg.Stats()

	if s.Base != 114 || s.Registered != 600 || s.Excluded != 0 {
		t.Errorf("Stats() = %+v, want 114 base / 600 registered / 0 excluded", s)
	}
	if !reflect.DeepEqual(s.Universal, []int{1}) {
		t.Errorf("Universal = %v, want [1]", s.Universal)
	}
	// the only unsatisfiable pairs put entrance and exit on the same corner cell
	if s.EmptyCombos != 8 {
		t.Errorf("EmptyCombos = %d, want 8", s.EmptyCombos)
	}
	if s.MinCentral != 17 {
		t.Errorf("MinCentral = %d, want 17", s.MinCentral)
	}
}

func TestRegisteredPatternsAreConsistent(t *testing.T) {
	reg := defaultRegistry(t)
	g := reg.Geometry()

	for p := 0; p < reg.Len(); p++ {
		pos := reg.Positions(p)
		idx := reg.Indices(p)
		orient := reg.Orientations(p)
		exits := reg.ExitSides(p)

		if g.EdgeCell(reg.Entrance(p)) != pos[0] {
			t.Fatalf("pattern %d: entrance %v is not cell %d", p, reg.Entrance(p), pos[0])
		}
		if g.EdgeCell(reg.Exit(p)) != pos[len(pos)-1] {
			t.Fatalf("pattern %d: exit %v is not cell %d", p, reg.Exit(p), pos[len(pos)-1])
		}
		if orient[0] != reg.Entrance(p).Edge || exits[len(pos)-1] != reg.Exit(p).Edge {
			t.Fatalf("pattern %d: end orientations disagree with sockets", p)
		}
		for k, c := range pos {
			if idx[c] != k {
				t.Fatalf("pattern %d: Indices[%d] = %d, want %d", p, c, idx[c], k)
			}
			if k > 0 && orient[k] != exits[k-1].Opposite() {
				t.Fatalf("pattern %d step %d: enters %v after leaving %v", p, k, orient[k], exits[k-1])
			}
		}
	}
}

func TestPossibilitiesWildcard(t *testing.T) {
	reg := defaultRegistry(t)
	entrance := grid.EdgeSocket{Edge: grid.West, Socket: 1}

	var want []int
	for s := 0; s < reg.Geometry().SocketCount(); s++ {
		want = append(want, reg.Possibilities(entrance, grid.EdgeSocket{Edge: grid.North, Socket: s})...)
	}
	got := reg.Possibilities(entrance, grid.EdgeSocket{Edge: grid.North, Socket: grid.AnySocket})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wildcard exit = %v, want union %v", got, want)
	}

	for _, p := range got {
		if reg.Entrance(p) != entrance || reg.Exit(p).Edge != grid.North {
			t.Errorf("pattern %d connects %v to %v", p, reg.Entrance(p), reg.Exit(p))
		}
	}
}

func TestPossibilitiesSameEdgePanics(t *testing.T) {
	reg := defaultRegistry(t)
	defer func() {
		if recover() == nil {
			t.Error("Possibilities on a single edge should panic")
		}
	}()
	reg.Possibilities(grid.EdgeSocket{Edge: grid.East, Socket: 0}, grid.EdgeSocket{Edge: grid.East, Socket: 2})
}

func TestCentralPossibilities(t *testing.T) {
	reg := defaultRegistry(t)
	g := reg.Geometry()
	center := g.Center()

	total := 0
	for _, entry := range grid.Orientations {
		for _, exit := range grid.Orientations {
			list := reg.CentralPossibilities(entry, exit)
			total += len(list)
			if entry == exit && len(list) != 0 {
				t.Errorf("CentralPossibilities(%v, %v) should be empty", entry, exit)
			}
			for _, p := range list {
				k := reg.Indices(p)[center]
				if reg.Orientations(p)[k] != entry || reg.ExitSides(p)[k] != exit {
					t.Errorf("pattern %d does not cross the center %v to %v", p, entry, exit)
				}
			}
		}
	}
	if total != reg.Len() {
		t.Errorf("central lists cover %d patterns, want %d", total, reg.Len())
	}
}

func TestFingerprint(t *testing.T) {
	a := defaultRegistry(t)
	b := defaultRegistry(t)
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Fingerprint() differs between identical registries")
	}

	c, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}

	// any accepted pattern the catalog lacks must change the fingerprint;
	// flipping a pattern top to bottom keeps its West entrance
	var candidates [][]int
	for _, p := range c.Patterns {
		candidates = append(candidates, flipped(p, c.Size))
	}
	candidates = append(candidates, straightExit, cornerExit)

	for _, extra := range candidates {
		if slices.ContainsFunc(c.Patterns, func(p []int) bool { return slices.Equal(p, extra) }) {
			continue
		}
		base := append(slices.Clone(c.Patterns), extra)
		larger, err := pattern.NewRegistry(c.Size, base, pattern.WithLogger(quietLogger()))
		if err != nil || larger.Stats().Base != a.Stats().Base+1 {
			continue
		}
		if larger.Fingerprint() == a.Fingerprint() {
			t.Errorf("Fingerprint() ignores the added pattern %v", extra)
		}
		return
	}
	t.Fatal("no West-entering pattern outside the catalog was accepted")
}
