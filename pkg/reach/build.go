package reach

import (
	"github.com/ifm/ifm/pkg/diag"
	"github.com/ifm/ifm/pkg/worldmodel"
)

// Build constructs the reach graph for an already tag-resolved
// declaration: every room is registered as a node, and every link and
// join contributes one or two reach records (a link with no To room, an
// exit stub, contributes none).
func Build(decl *worldmodel.WorldDecl, rep *diag.Reporter) *Graph {
	g := NewGraph()
	for _, r := range decl.Rooms {
		g.AddRoom(r)
	}
	for _, l := range decl.Links {
		g.AddLink(l, rep)
	}
	for _, j := range decl.Joins {
		g.AddJoin(j, rep)
	}
	return g
}

// Edge returns the edge from -> to, if one exists.
func (g *Graph) Edge(from, to *worldmodel.Room) (*Edge, bool) {
	e, ok := g.edges[edgeKey{from, to}]
	return e, ok
}

// IsConnected reports whether to is reachable from from under the given
// admissibility view, ignoring traversal cost. Grounded on
// graph.Graph.IsConnected, generalized from unconditional BFS to a
// view-gated BFS.
func (g *Graph) IsConnected(from, to *worldmodel.Room, view AdmissibilityView) bool {
	if from == to {
		return true
	}
	visited := map[*worldmodel.Room]bool{from: true}
	queue := []*worldmodel.Room{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.adjacency[cur] {
			if visited[e.To] {
				continue
			}
			ok, _ := UseEdge(e, view)
			if !ok || !UseNode(e.To, view) {
				continue
			}
			if e.To == to {
				return true
			}
			visited[e.To] = true
			queue = append(queue, e.To)
		}
	}
	return false
}

// GetReachable returns every room reachable from from under the given
// admissibility view, in BFS discovery order (from excluded). Grounded on
// graph.Graph.GetReachable's adjacency-list BFS, generalized with the
// same view gating as IsConnected.
func (g *Graph) GetReachable(from *worldmodel.Room, view AdmissibilityView) []*worldmodel.Room {
	visited := map[*worldmodel.Room]bool{from: true}
	queue := []*worldmodel.Room{from}
	var out []*worldmodel.Room
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.adjacency[cur] {
			if visited[e.To] {
				continue
			}
			ok, _ := UseEdge(e, view)
			if !ok || !UseNode(e.To, view) {
				continue
			}
			visited[e.To] = true
			out = append(out, e.To)
			queue = append(queue, e.To)
		}
	}
	return out
}
