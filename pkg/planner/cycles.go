package planner

import (
	"fmt"
	"strings"

	"github.com/ifm/ifm/pkg/diag"
)

// CheckCycles performs SPEC_FULL.md §4.7.2: topologically sort the step
// graph over DEPEND edges. If a sort exists it returns nil; otherwise it
// enumerates every strongly connected component of size greater than one
// (Tarjan's algorithm) and reports each as a chain of step descriptions.
//
// Grounded on graph.Graph.GetCycles's DFS-with-recursion-stack approach,
// generalized from "does any cycle exist" to "every SCC, reported by
// name" via Tarjan's algorithm for the SCC enumeration itself.
func CheckCycles(a *Arena, rep *diag.Reporter) error {
	if sorted := kahnSort(a); sorted {
		return nil
	}

	sccs := tarjanSCCs(a)
	var bad []string
	for _, scc := range sccs {
		if len(scc) <= 1 {
			continue
		}
		names := make([]string, len(scc))
		for i, id := range scc {
			names[i] = a.Steps[id].String()
		}
		bad = append(bad, strings.Join(names, " -> "))
	}
	if len(bad) == 0 {
		// Self-loop: a step depending directly on itself.
		for _, s := range a.Steps {
			for _, d := range s.Depend {
				if d == s.ID {
					bad = append(bad, s.String())
				}
			}
		}
	}
	return fmt.Errorf("precedence cycle(s) detected:\n  %s", strings.Join(bad, "\n  "))
}

// kahnSort reports whether the DEPEND graph has a valid topological
// order (i.e. is acyclic).
func kahnSort(a *Arena) bool {
	indeg := make([]int, len(a.Steps))
	for _, s := range a.Steps {
		indeg[s.ID] += len(s.Depend)
	}
	var queue []int
	for id, d := range indeg {
		if d == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	// Depend edges point from s to its predecessors; process by
	// consuming Allow edges (the reverse adjacency) once a predecessor's
	// indegree reaches zero is not symmetric here, so instead walk
	// Allow lists: s.Allow holds the IDs of steps that depend on s.
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, dependentID := range a.Steps[id].Allow {
			indeg[dependentID]--
			if indeg[dependentID] == 0 {
				queue = append(queue, dependentID)
			}
		}
	}
	return visited == len(a.Steps)
}

// tarjanSCCs computes strongly connected components of the DEPEND graph
// (edges s -> d for each d in s.Depend), returned as lists of step IDs.
func tarjanSCCs(a *Arena) [][]int {
	n := len(a.Steps)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	var sccs [][]int
	counter := 0

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range a.Steps[v].Depend {
			if index[w] == -1 {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if index[w] < low[v] {
					low[v] = index[w]
				}
			}
		}

		if low[v] == index[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}
	return sccs
}
