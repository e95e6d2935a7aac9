// Package planner implements the task planner of SPEC_FULL.md §4.7: step
// synthesis, follow-chain wiring, the full declaration->precedence-edge
// table, UNSAFE propagation, cycle detection, and the five-phase solve
// loop that produces a walkthrough.
//
// Grounded on dungeon.DefaultGenerator.Generate's multi-stage pipeline
// shape (validate -> stage A -> stage B -> ... -> report) for the
// Setup/CheckCycles/Solve structure, and on
// validation.Agent/validation.SimulateExploration's BFS-with-capability-
// collection loop, generalized from "collect capabilities, expand
// frontier" to "update SORT keys, classify each undone step, execute the
// first SAFE one." Cycle detection generalizes graph.Graph.GetCycles's
// DFS-with-recursion-stack approach from "any cycle" to "every strongly
// connected component of size >1."
package planner
