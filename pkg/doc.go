// Package pkg provides the core libraries for Labyrinth infinite fractal mazes.
//
// # Overview
//
// A Labyrinth maze is a single path that visits every cell of the infinite
// grid exactly once. It is built from N x N patterns (Hamiltonian paths
// through a small grid) nested into one another: every cell of a pattern is
// itself a tile following another pattern, one scale down, forever. Tiles
// are generated lazily, on demand, so only the part of a maze that someone
// looks at ever exists in memory.
//
// The pkg directory is organized into these areas:
//
//  1. [grid], [lfsr] - Geometry of square grids and the seeded bit source
//  2. [pattern] - Pattern catalogs and the registry that indexes them
//  3. [fractal], [bilayer] - Coordinates of the tile tree and tile generation
//  4. [engine] - Lazy generation, caching and path navigation
//  5. [trail], [render] - Walkers following a maze, and pictures of it
//  6. [pipeline], [cache], [server] - Rendering with caching, and the HTTP API
//
// # Architecture
//
// The typical data flow through Labyrinth:
//
//	Pattern catalog (embedded or JSON/YAML file)
//	         ↓
//	    [pattern] registry (index by entrance and exit)
//	         ↓
//	    [engine] (queue, generate and cache tiles per seed)
//	         ↓
//	    [render] / [trail] (viewports, walkers)
//	         ↓
//	    Text/JSON/DOT/SVG output
//
// # Quick Start
//
// Follow the path of maze 17 from a cell:
//
//	import (
//	    "github.com/matzehuels/labyrinth/pkg/engine"
//	    "github.com/matzehuels/labyrinth/pkg/grid"
//	    "github.com/matzehuels/labyrinth/pkg/pattern/catalog"
//	)
//
//	reg, _ := catalog.NewRegistry(nil)
//	eng := engine.New(reg)
//
//	c := eng.Space().AbsoluteToFractal(17, grid.Point{X: 1, Y: 1})
//	var next fractal.Coord
//	_ = eng.Pump(ctx, 0, func() (ok bool) {
//	    next, ok = eng.NextCell(c)
//	    return ok
//	})
//
// Lookups never block: they return ok=false and queue the tiles they need.
// [engine.Engine.Pump] steps generation until a lookup succeeds.
//
// [grid]: github.com/matzehuels/labyrinth/pkg/grid
// [lfsr]: github.com/matzehuels/labyrinth/pkg/lfsr
// [pattern]: github.com/matzehuels/labyrinth/pkg/pattern
// [fractal]: github.com/matzehuels/labyrinth/pkg/fractal
// [bilayer]: github.com/matzehuels/labyrinth/pkg/bilayer
// [engine]: github.com/matzehuels/labyrinth/pkg/engine
// [engine.Engine.Pump]: github.com/matzehuels/labyrinth/pkg/engine#Engine.Pump
// [trail]: github.com/matzehuels/labyrinth/pkg/trail
// [render]: github.com/matzehuels/labyrinth/pkg/render
// [pipeline]: github.com/matzehuels/labyrinth/pkg/pipeline
// [cache]: github.com/matzehuels/labyrinth/pkg/cache
// [server]: github.com/matzehuels/labyrinth/pkg/server
package pkg
