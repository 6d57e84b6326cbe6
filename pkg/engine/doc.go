// Package engine generates, caches and navigates fractal mazes.
//
// An [Engine] owns one lazily built tile cache per maze seed. Nothing is
// generated on a query: [Engine.Lookup] and the navigation methods report a
// missing tile as not ready and queue it, and [Engine.Step] later builds a
// bounded number of queued tiles. Callers that can afford to wait use
// [Engine.Pump]:
//
//	var next fractal.Coord
//	err := eng.Pump(ctx, 0, func() (ok bool) {
//	    next, ok = eng.NextCell(cur)
//	    return ok
//	})
//
// Interactive callers step the engine once per frame instead and render
// whatever is ready.
//
// # Cache layout
//
// Each maze keeps a tower of roots. Root h is the tile of side N^(h+1)
// centered on the maze origin, and holds root h-1 as its center child.
// Below the roots every generated tile stores one slot per cell, which is
// absent until someone asks for it, pending while queued, and ready once
// generated. Claiming a slot and queueing it happens under the maze lock,
// so every tile is generated at most once.
//
// A tile whose generation fails stays pending forever. The failure is
// logged and counted in [Stats].
//
// # Navigation
//
// The path through a maze visits every base cell exactly once and runs
// forever in both directions. [Engine.NextCell] and [Engine.PrevCell] walk
// it, [Engine.DistanceTo] counts the steps between two cells without
// walking, and [Engine.DirectionTowards] tells which way to go.
package engine
