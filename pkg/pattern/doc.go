// Package pattern provides the catalog of square edge-matching tile patterns
// that the maze is built from.
//
// # Overview
//
// A pattern is a Hamiltonian path through an N x N grid: a permutation of the
// N² cell indices, listed in traversal order, in which every step moves to a
// side neighbor. The path enters on one edge of the square through a socket
// and leaves on a different edge through another socket. Sockets sit at every
// even offset along an edge, see [grid.EdgeSocket].
//
// Because any pattern can be scaled up to become a single cell of a larger
// pattern, and any cell can be expanded into a whole pattern, the catalog is
// all the maze needs to describe a path at every scale.
//
// # Registry
//
// [NewRegistry] turns base patterns into a [Registry]:
//
//	c, err := pattern.Load("patterns.json")
//	if err != nil {
//	    return err
//	}
//	reg, err := c.Registry(pattern.WithLogger(logger))
//
// Every base pattern must enter on the West edge. A pattern whose last cell
// is a corner is registered once per non-West interpretation of that corner.
// Each interpretation is registered under four rotations, so a catalog of B
// unambiguous patterns yields 4B registered patterns.
//
// The registry answers two queries:
//
//   - [Registry.Possibilities]: the patterns connecting an entrance socket to
//     an exit socket, with [grid.AnySocket] as a wildcard on either end
//   - [Registry.CentralPossibilities]: the patterns whose path crosses the
//     center cell between two given sides
//
// It also identifies the universal sockets: sockets that connect to every
// socket on every pair of distinct edges. The generator uses them wherever it
// is free to choose an internal socket, which keeps every fill satisfiable.
//
// # Catalog Files
//
// Catalogs are JSON arrays of patterns ([ReadJSON]) or YAML documents
// ([ReadYAML]). [Enumerate] generates a catalog from scratch, and the
// catalog subpackage embeds the default 5x5 set.
package pattern
