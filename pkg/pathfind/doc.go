// Package pathfind implements the shortest-path engine of SPEC_FULL.md
// §4.6: Dijkstra-style single-source shortest paths over a reach.Graph,
// with stable first-discovered tie-breaking and an optional single-source
// cache keyed on (source room, generation counter).
//
// Grounded on two teacher sources combined: graph.Graph.GetReachable's
// BFS-over-adjacency-lists traversal order (stable iteration, because
// reach.Graph's adjacency values are append-ordered slices rather than
// re-sorted maps), generalized from BFS to a weighted Dijkstra using
// container/heap; and validation.Agent.FindPath's pattern of carrying a
// capability-state snapshot through the search, generalized into the
// admissibility view built once per sweep so the engine never touches
// solver internals directly.
package pathfind
