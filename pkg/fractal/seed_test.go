package fractal

import (
	"testing"

	"github.com/matzehuels/labyrinth/pkg/grid"
)

func TestLocalSeed(t *testing.T) {
	tests := []struct {
		c    Coord
		want uint32
	}{
		{Coord{Seed: 17, Height: 0, Trace: []int{13}}, 2149580926},
		{Coord{Seed: 17, Height: 0, Trace: []int{3}}, 2149580832},
		{Coord{Seed: 17, Height: 2, Trace: []int{12, 12, 3}}, 2149580832},
		{Coord{Seed: 17, Height: 1, Trace: []int{3}}, 2153775124},
	}

	for _, tt := range tests {
		t.Run(tt.c.String(), func(t *testing.T) {
			if got := space.LocalSeed(tt.c); got != tt.want {
				t.Errorf("LocalSeed(%v) = %d, want %d", tt.c, got, tt.want)
			}
		})
	}
}

func TestEdgeSeedShared(t *testing.T) {
	a := Coord{Seed: 17, Height: 1, Trace: []int{3}}
	b := Coord{Seed: 17, Height: 1, Trace: []int{4}}

	ea, eb := space.EdgeSeed(a, grid.East), space.EdgeSeed(b, grid.West)
	if ea != 4276092172 || eb != 4276092172 {
		t.Errorf("EdgeSeed(east of %v) = %d, EdgeSeed(west of %v) = %d, want 4276092172", a, ea, b, eb)
	}
}

// Every tile must derive the same socket for a side as the neighbor that
// shares it, whatever coordinate either of them is addressed by.
func TestEdgeSeedNeighbors(t *testing.T) {
	for _, seed := range []uint32{17, 19283801} {
		for y := -30; y <= 30; y += 7 {
			for x := -30; x <= 30; x += 5 {
				cell := space.AbsoluteToFractal(seed, grid.Point{X: x, Y: y})
				for scale := 0; scale <= 3; scale++ {
					tile := space.TileAt(space.Extend(cell), scale)
					w := space.Extent(tile)
					center := space.FractalToAbsolute(tile)
					for _, e := range grid.Orientations {
						v := e.Vector()
						p := grid.Point{X: center.X + v.X*w, Y: center.Y + v.Y*w}
						neighbor := space.TileAt(space.AbsoluteToFractal(seed, p), scale)
						if space.Scale(neighbor) != scale {
							t.Fatalf("neighbor %v of %v has scale %d", neighbor, tile, space.Scale(neighbor))
						}
						if got, want := space.EdgeSeed(neighbor, e.Opposite()), space.EdgeSeed(tile, e); got != want {
							t.Fatalf("edge %v of %v: seed %d, neighbor %v sees %d", e, tile, want, neighbor, got)
						}
					}
				}
			}
		}
	}
}

func TestExternalSocketRange(t *testing.T) {
	n := space.Geometry().SocketCount()
	for i := 0; i < 25; i++ {
		c := Coord{Seed: 99, Height: 1, Trace: []int{i}}
		for _, e := range grid.Orientations {
			if s := space.ExternalSocket(c, e); s < 0 || s >= n {
				t.Errorf("ExternalSocket(%v, %v) = %d, out of [0,%d)", c, e, s, n)
			}
		}
	}
}
