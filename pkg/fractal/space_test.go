package fractal

import (
	"reflect"
	"testing"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/grid"
)

var space = NewSpace(grid.Geometry{Size: 5})

func TestOrigin(t *testing.T) {
	tests := []struct {
		seed uint32
		want grid.Point
	}{
		{17, grid.Point{X: 1, Y: 1}},
		{19283801, grid.Point{X: 3, Y: 3}},
	}

	for _, tt := range tests {
		if got := space.Origin(tt.seed); got != tt.want {
			t.Errorf("Origin(%d) = %v, want %v", tt.seed, got, tt.want)
		}
	}
}

func TestAbsoluteToFractal(t *testing.T) {
	tests := []struct {
		p    grid.Point
		want Coord
	}{
		{grid.Point{X: 1, Y: 1}, Coord{Seed: 17, Height: 0, Trace: []int{12}}},
		{grid.Point{X: 0, Y: 0}, Coord{Seed: 17, Height: 0, Trace: []int{6}}},
		{grid.Point{X: 3, Y: 4}, Coord{Seed: 17, Height: 1, Trace: []int{17, 4}}},
		{grid.Point{X: -2, Y: -2}, Coord{Seed: 17, Height: 1, Trace: []int{6, 24}}},
		{grid.Point{X: 12, Y: 12}, Coord{Seed: 17, Height: 1, Trace: []int{24, 18}}},
		{grid.Point{X: 100, Y: -37}, Coord{Seed: 17, Height: 3, Trace: []int{13, 1, 22, 21}}},
	}

	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			got := space.AbsoluteToFractal(17, tt.p)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AbsoluteToFractal(%v) = %v, want %v", tt.p, got, tt.want)
			}
			if back := space.FractalToAbsolute(got); back != tt.p {
				t.Errorf("FractalToAbsolute(%v) = %v, want %v", got, back, tt.p)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, seed := range []uint32{0, 17, 19283801, 0xFFFFFFFF} {
		for y := -40; y <= 40; y += 3 {
			for x := -40; x <= 40; x += 3 {
				p := grid.Point{X: x * 37, Y: y * 11}
				c := space.AbsoluteToFractal(seed, p)
				if !c.IsCell() {
					t.Fatalf("AbsoluteToFractal(%v) = %v is not a cell", p, c)
				}
				if got := space.FractalToAbsolute(c); got != p {
					t.Fatalf("seed %d: round trip of %v gave %v via %v", seed, p, got, c)
				}
				if n := space.Normalize(c); !reflect.DeepEqual(n, c) {
					t.Fatalf("AbsoluteToFractal(%v) = %v is not normalized (%v)", p, c, n)
				}
				ext := space.Extend(space.Extend(c))
				if got := space.FractalToAbsolute(ext); got != p {
					t.Fatalf("extended %v maps to %v, want %v", ext, got, p)
				}
			}
		}
	}
}

func TestFractalToAbsoluteTileCenter(t *testing.T) {
	tests := []struct {
		c    Coord
		want grid.Point
	}{
		{Coord{Seed: 17, Height: 1, Trace: []int{12}}, grid.Point{X: 1, Y: 1}},
		{Coord{Seed: 17, Height: 2, Trace: []int{3}}, grid.Point{X: 26, Y: -49}},
	}

	for _, tt := range tests {
		if got := space.FractalToAbsolute(tt.c); got != tt.want {
			t.Errorf("FractalToAbsolute(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want Coord
	}{
		{Coord{Seed: 1, Height: 2, Trace: []int{12, 12, 3}}, Coord{Seed: 1, Height: 0, Trace: []int{3}}},
		{Coord{Seed: 1, Height: 2, Trace: []int{12, 4, 3}}, Coord{Seed: 1, Height: 1, Trace: []int{4, 3}}},
		{Coord{Seed: 1, Height: 3, Trace: []int{12}}, Coord{Seed: 1, Height: 3, Trace: []int{12}}},
		{Coord{Seed: 1, Height: 3, Trace: []int{12, 12}}, Coord{Seed: 1, Height: 2, Trace: []int{12}}},
		{Coord{Seed: 1, Height: 0, Trace: []int{12}}, Coord{Seed: 1, Height: 0, Trace: []int{12}}},
	}

	for _, tt := range tests {
		got := space.Normalize(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if again := space.Normalize(got); !reflect.DeepEqual(again, got) {
			t.Errorf("Normalize is not idempotent on %v: %v", got, again)
		}
		if !space.Equal(tt.in, space.Extend(tt.in)) {
			t.Errorf("Equal(%v, Extend) = false", tt.in)
		}
	}
}

func TestParentChild(t *testing.T) {
	c := Coord{Seed: 5, Height: 1, Trace: []int{17, 4}}
	parent := space.Parent(c)
	if !reflect.DeepEqual(parent, Coord{Seed: 5, Height: 1, Trace: []int{17}}) {
		t.Errorf("Parent(%v) = %v", c, parent)
	}
	if got := space.Child(parent, 4); !space.Equal(got, c) {
		t.Errorf("Child(Parent(c), 4) = %v, want %v", got, c)
	}

	root := Coord{Seed: 5, Height: 0, Trace: []int{8}}
	if got := space.Parent(root); !reflect.DeepEqual(got, space.Root(5, 0)) {
		t.Errorf("Parent(%v) = %v, want root %v", root, got, space.Root(5, 0))
	}
	if got := space.Scale(space.Root(5, 3)); got != 4 {
		t.Errorf("Scale(Root(h=3)) = %d, want 4", got)
	}
	if got := space.TileAt(c, 2); space.Scale(got) != 2 {
		t.Errorf("TileAt(c, 2) = %v has scale %d", got, space.Scale(got))
	}
}

func TestCommonAncestor(t *testing.T) {
	a := Coord{Seed: 17, Height: 0, Trace: []int{13}}
	b := Coord{Seed: 17, Height: 1, Trace: []int{13, 2}}

	got, ok := space.CommonAncestor(a, b)
	if !ok {
		t.Fatal("CommonAncestor() reported no ancestor")
	}
	want := Ancestor{Tile: Coord{Seed: 17, Height: 2, Trace: []int{12}}, A: 12, B: 13}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CommonAncestor() = %+v, want %+v", got, want)
	}

	if _, ok := space.CommonAncestor(a, a); ok {
		t.Error("CommonAncestor(a, a) should report !ok")
	}
	if _, ok := space.CommonAncestor(a, Coord{Seed: 18, Height: 0, Trace: []int{13}}); ok {
		t.Error("CommonAncestor across seeds should report !ok")
	}
	if _, ok := space.CommonAncestor(space.Parent(b), b); ok {
		t.Error("CommonAncestor of a tile and its own cell should report !ok")
	}
}

func TestDescend(t *testing.T) {
	tile := Coord{Seed: 17, Height: 2, Trace: []int{12}}
	c := Coord{Seed: 17, Height: 1, Trace: []int{13, 2}}
	if got := space.Descend(tile, c); !reflect.DeepEqual(got, []int{13, 2}) {
		t.Errorf("Descend() = %v, want [13 2]", got)
	}
}

func TestParseCoord(t *testing.T) {
	c := Coord{Seed: 19283801, Height: 3, Trace: []int{13, 1, 22}}
	got, err := ParseCoord(c.String())
	if err != nil {
		t.Fatalf("ParseCoord(%q) error: %v", c.String(), err)
	}
	if !reflect.DeepEqual(got, c) {
		t.Errorf("ParseCoord(%q) = %v", c.String(), got)
	}

	for _, bad := range []string{"", "1/2", "x/1/2", "1/h/2", "1/2/3.x"} {
		if _, err := ParseCoord(bad); err == nil {
			t.Errorf("ParseCoord(%q) should fail", bad)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		c       Coord
		wantErr bool
	}{
		{Coord{Seed: 1, Height: 1, Trace: []int{3, 4}}, false},
		{Coord{Seed: 1, Height: 1, Trace: []int{3}}, false},
		{Coord{Seed: 1, Height: -1, Trace: []int{3}}, true},
		{Coord{Seed: 1, Height: 0, Trace: nil}, true},
		{Coord{Seed: 1, Height: 0, Trace: []int{3, 4}}, true},
		{Coord{Seed: 1, Height: 0, Trace: []int{25}}, true},
		{Coord{Seed: 1, Height: 25, Trace: []int{3}}, false},
		{Coord{Seed: 1, Height: 26, Trace: []int{3}}, true},
		{Coord{Seed: 1, Height: 40, Trace: []int{3}}, true},
	}

	for _, tt := range tests {
		if err := space.Validate(tt.c); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.c, err, tt.wantErr)
		}
	}
}

func TestMaxHeightFits(t *testing.T) {
	h := errors.MaxHeight(space.Geometry().Size)
	if got := space.Pow(h + 2); got <= 0 || got/space.Geometry().Size != space.Pow(h+1) {
		t.Errorf("Pow(%d) = %d overflows", h+2, got)
	}

	for _, p := range []grid.Point{
		{X: errors.MaxPosition, Y: -errors.MaxPosition},
		{X: -errors.MaxPosition, Y: errors.MaxPosition},
	} {
		c := space.AbsoluteToFractal(17, p)
		if err := space.Validate(c); err != nil {
			t.Errorf("AbsoluteToFractal(%v) = %v invalid: %v", p, c, err)
		}
		if got := space.FractalToAbsolute(c); got != p {
			t.Errorf("round trip of %v = %v", p, got)
		}
	}
}
