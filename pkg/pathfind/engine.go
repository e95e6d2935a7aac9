package pathfind

import (
	"container/heap"

	"github.com/ifm/ifm/pkg/reach"
	"github.com/ifm/ifm/pkg/worldmodel"
)

// Path is the result of a path_info query: the traversal cost, the room
// sequence from src to dst inclusive, and the reach record chosen for
// each hop (one fewer than the room count).
type Path struct {
	Length  int
	Rooms   []*worldmodel.Room
	Records []*reach.ReachRecord
}

// Engine is the shortest-path service over a single reach graph.
type Engine struct {
	g        *reach.Graph
	useCache bool
	generation int
	cache    *sweep
}

// NewEngine creates an engine bound to g. Caching starts disabled.
func NewEngine(g *reach.Graph) *Engine {
	return &Engine{g: g}
}

// UseCache toggles whether PathLength sweeps are snapshotted and reused
// across calls sharing the same source room and generation.
func (e *Engine) UseCache(on bool) {
	e.useCache = on
	if !on {
		e.cache = nil
	}
}

// BumpGeneration invalidates any cached sweep. Callers must do this
// whenever the player's location, taken-set, or any step's done/ignored
// flag changes — the cache coherence contract.
func (e *Engine) BumpGeneration() {
	e.generation++
}

// PathLength returns the shortest distance from src to dst under view, or
// ok=false if dst is unreachable. When caching is enabled and src/
// generation match the last sweep, the cached result is reused instead of
// re-running Dijkstra.
func (e *Engine) PathLength(src, dst *worldmodel.Room, view reach.AdmissibilityView) (int, bool) {
	s := e.sweepFor(src, view)
	d, ok := s.dist[dst]
	return d, ok
}

// PathInfo returns the full shortest route from src to dst under view, or
// nil if unreachable. It always runs a fresh, uncached sweep: callers
// that want the actual route (not just its cost) need the reach records
// chosen for the current admissibility state, not a possibly-stale cache.
func (e *Engine) PathInfo(src, dst *worldmodel.Room, view reach.AdmissibilityView) *Path {
	s := dijkstra(e.g, src, view)
	return s.pathTo(dst)
}

func (e *Engine) sweepFor(src *worldmodel.Room, view reach.AdmissibilityView) *sweep {
	if e.useCache && e.cache != nil && e.cache.source == src && e.cache.generation == e.generation {
		return e.cache
	}
	s := dijkstra(e.g, src, view)
	if e.useCache {
		s.source = src
		s.generation = e.generation
		e.cache = s
	}
	return s
}

// sweep is one completed single-source Dijkstra run.
type sweep struct {
	source     *worldmodel.Room
	generation int

	dist     map[*worldmodel.Room]int
	prevRoom map[*worldmodel.Room]*worldmodel.Room
	prevRec  map[*worldmodel.Room]*reach.ReachRecord
	from     *worldmodel.Room
}

func (s *sweep) pathTo(dst *worldmodel.Room) *Path {
	length, ok := s.dist[dst]
	if !ok {
		return nil
	}
	var rooms []*worldmodel.Room
	var records []*reach.ReachRecord
	cur := dst
	for cur != s.from {
		rooms = append([]*worldmodel.Room{cur}, rooms...)
		rec := s.prevRec[cur]
		records = append([]*reach.ReachRecord{rec}, records...)
		cur = s.prevRoom[cur]
	}
	rooms = append([]*worldmodel.Room{s.from}, rooms...)
	return &Path{Length: length, Rooms: rooms, Records: records}
}

// heapItem is one entry in the priority queue: a room at a tentative
// distance, tagged with the order it was pushed so that equal-distance
// entries pop in first-pushed order (the stable tie-break §4.6 requires).
type heapItem struct {
	room *worldmodel.Room
	dist int
	seq  int
}

type priorityQueue []*heapItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)   { *pq = append(*pq, x.(*heapItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// dijkstra runs a full single-source shortest-path sweep from src,
// honoring view's UseNode/UseEdge admissibility gates. Only strictly
// shorter distances ever overwrite a room's best-known predecessor, so
// among equal-length paths the one whose edge was relaxed first (i.e.
// discovered via the earliest adjacency-list entry) is kept — the
// first-discovered tie-break.
func dijkstra(g *reach.Graph, src *worldmodel.Room, view reach.AdmissibilityView) *sweep {
	s := &sweep{
		from:     src,
		dist:     map[*worldmodel.Room]int{src: 0},
		prevRoom: map[*worldmodel.Room]*worldmodel.Room{},
		prevRec:  map[*worldmodel.Room]*reach.ReachRecord{},
	}

	pq := &priorityQueue{{room: src, dist: 0, seq: 0}}
	heap.Init(pq)
	seq := 1
	visited := map[*worldmodel.Room]bool{}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*heapItem)
		if visited[item.room] {
			continue
		}
		if item.dist > s.dist[item.room] {
			continue
		}
		visited[item.room] = true

		for _, e := range g.Edges(item.room) {
			ok, rec := reach.UseEdge(e, view)
			if !ok || !reach.UseNode(e.To, view) {
				continue
			}
			nd := item.dist + reach.EdgeLength(e)
			cur, seen := s.dist[e.To]
			if !seen || nd < cur {
				s.dist[e.To] = nd
				s.prevRoom[e.To] = item.room
				s.prevRec[e.To] = rec
				heap.Push(pq, &heapItem{room: e.To, dist: nd, seq: seq})
				seq++
			}
		}
	}

	return s
}
