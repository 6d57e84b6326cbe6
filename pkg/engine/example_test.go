package engine_test

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/engine"
	"github.com/matzehuels/labyrinth/pkg/fractal"
	"github.com/matzehuels/labyrinth/pkg/pattern/catalog"
)

func Example() {
	reg, err := catalog.NewRegistry(log.New(io.Discard))
	if err != nil {
		panic(err)
	}
	eng := engine.New(reg)
	space := eng.Space()
	ctx := context.Background()

	cur := space.AbsoluteToFractal(17, space.Origin(17))
	for i := 0; i < 4; i++ {
		var next fractal.Coord
		err := eng.Pump(ctx, 0, func() (ok bool) {
			next, ok = eng.NextCell(cur)
			return ok
		})
		if err != nil {
			panic(err)
		}
		fmt.Println(space.FractalToAbsolute(cur), "->", space.FractalToAbsolute(next))
		cur = next
	}
	// Output:
	// (1,1) -> (1,0)
	// (1,0) -> (2,0)
	// (2,0) -> (3,0)
	// (3,0) -> (3,-1)
}
