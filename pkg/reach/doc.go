// Package reach builds and queries the reach graph: a directed multigraph
// over rooms where each edge carries one or more reach records describing
// the conditions under which it may currently be traversed. It implements
// SPEC_FULL.md §4.5, grounded on the teacher's graph.Graph adjacency-list
// container (pkg/graph/graph.go), generalized so adjacency values are
// reach-record lists instead of bare neighbor ids, and on
// validation.Agent.CanTraverse's gate-check pattern, generalized from a
// single gate to the full need/before/after/leave rule set.
package reach
