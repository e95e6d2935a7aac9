package reach

import (
	"github.com/ifm/ifm/pkg/diag"
	"github.com/ifm/ifm/pkg/worldmodel"
)

// ReachRecord is one directed, conditionally-usable connection between two
// rooms: the generalization of a Link or Join edge once it has been split
// into its forward and (if applicable) reverse direction.
type ReachRecord struct {
	From, To *worldmodel.Room

	Commands []string
	Length   int

	Need     []*worldmodel.Item
	Before   []*worldmodel.Task
	After    []*worldmodel.Task
	Leave    []*worldmodel.Item
	LeaveAll bool

	// SourceLink / SourceJoin identify the declared connection this
	// record was derived from; exactly one is non-nil.
	SourceLink *worldmodel.Link
	SourceJoin *worldmodel.Join
}

// Edge is the full set of reach records currently declared between an
// ordered pair of rooms. Per the data model, a reach-graph edge may carry
// more than one record (e.g. a Link and a Join both connecting the same
// two rooms); all such records must agree on Length.
type Edge struct {
	To      *worldmodel.Room
	Records []*ReachRecord
}

type edgeKey struct {
	from, to *worldmodel.Room
}

// Graph is the directed multigraph of rooms and reach records. Grounded on
// graph.Graph's map-of-adjacency-lists shape, generalized so adjacency
// values are reach records rather than bare neighbor ids.
type Graph struct {
	rooms     []*worldmodel.Room
	adjacency map[*worldmodel.Room][]*Edge
	edges     map[edgeKey]*Edge
}

// NewGraph creates an empty reach graph.
func NewGraph() *Graph {
	return &Graph{
		adjacency: make(map[*worldmodel.Room][]*Edge),
		edges:     make(map[edgeKey]*Edge),
	}
}

// AddRoom registers a room as a graph node, even if it has no edges yet
// (an isolated room must still be visible to reachability queries).
func (g *Graph) AddRoom(r *worldmodel.Room) {
	if _, ok := g.adjacency[r]; ok {
		return
	}
	g.rooms = append(g.rooms, r)
	g.adjacency[r] = nil
}

// Rooms returns every room registered with the graph, in the order added.
func (g *Graph) Rooms() []*worldmodel.Room {
	return append([]*worldmodel.Room(nil), g.rooms...)
}

// Edges returns the outgoing edges of r, in the order first created.
func (g *Graph) Edges(r *worldmodel.Room) []*Edge {
	return g.adjacency[r]
}

// AddLink derives one or two reach records from a resolved Link (forward
// always; reverse too unless OneWay) and adds them to the graph.
func (g *Graph) AddLink(l *worldmodel.Link, rep *diag.Reporter) {
	from, to := l.From.Get(), l.To.Get()
	if from != nil && to == nil {
		// An exit stub: the map builder records it on the From room, and
		// since it leads to no room it contributes no reach record.
		return
	}
	if from == nil || to == nil {
		rep.Errorf(0, "link %s: endpoints not resolved", l)
		return
	}
	g.AddRoom(from)
	g.AddRoom(to)

	fwd := &ReachRecord{
		From: from, To: to,
		Commands: l.CmdForward,
		Length:   l.EffectiveLength(),
		Need:     resolveItems(l.Need),
		Before:   resolveTasks(l.Before),
		After:    resolveTasks(l.After),
		Leave:    resolveItems(l.Leave),
		LeaveAll: l.LeaveAll,
		SourceLink: l,
	}
	g.addEdge(from, to, fwd, rep)

	if !l.OneWay {
		rev := &ReachRecord{
			From: to, To: from,
			Commands: l.ReverseCommands(),
			Length:   l.EffectiveLength(),
			Need:     resolveItems(l.Need),
			Before:   resolveTasks(l.Before),
			After:    resolveTasks(l.After),
			Leave:    resolveItems(l.Leave),
			LeaveAll: l.LeaveAll,
			SourceLink: l,
		}
		g.addEdge(to, from, rev, rep)
	}
}

// AddJoin derives reach records from a resolved Join exactly as AddLink
// does for a Link; joins carry no polyline but are otherwise identical.
func (g *Graph) AddJoin(j *worldmodel.Join, rep *diag.Reporter) {
	from, to := j.From.Get(), j.To.Get()
	if from == nil || to == nil {
		rep.Errorf(0, "join %s: endpoints not resolved", j)
		return
	}
	g.AddRoom(from)
	g.AddRoom(to)

	fwd := &ReachRecord{
		From: from, To: to,
		Commands: j.CmdForward,
		Length:   j.EffectiveLength(),
		Need:     resolveItems(j.Need),
		Before:   resolveTasks(j.Before),
		After:    resolveTasks(j.After),
		Leave:    resolveItems(j.Leave),
		LeaveAll: j.LeaveAll,
		SourceJoin: j,
	}
	g.addEdge(from, to, fwd, rep)

	if !j.OneWay {
		rev := &ReachRecord{
			From: to, To: from,
			Commands: j.ReverseCommands(),
			Length:   j.EffectiveLength(),
			Need:     resolveItems(j.Need),
			Before:   resolveTasks(j.Before),
			After:    resolveTasks(j.After),
			Leave:    resolveItems(j.Leave),
			LeaveAll: j.LeaveAll,
			SourceJoin: j,
		}
		g.addEdge(to, from, rev, rep)
	}
}

func (g *Graph) addEdge(from, to *worldmodel.Room, rec *ReachRecord, rep *diag.Reporter) {
	key := edgeKey{from, to}
	if e, ok := g.edges[key]; ok {
		if len(e.Records) > 0 && e.Records[0].Length != rec.Length {
			rep.Errorf(0, "reach edge %s -> %s: records disagree on length (%d vs %d)",
				from, to, e.Records[0].Length, rec.Length)
		}
		e.Records = append(e.Records, rec)
		return
	}
	e := &Edge{To: to, Records: []*ReachRecord{rec}}
	g.adjacency[from] = append(g.adjacency[from], e)
	g.edges[key] = e
}

func resolveItems(refs []worldmodel.Ref[worldmodel.Item]) []*worldmodel.Item {
	if len(refs) == 0 {
		return nil
	}
	out := make([]*worldmodel.Item, 0, len(refs))
	for _, r := range refs {
		if it := r.Get(); it != nil {
			out = append(out, it)
		}
	}
	return out
}

func resolveTasks(refs []worldmodel.Ref[worldmodel.Task]) []*worldmodel.Task {
	if len(refs) == 0 {
		return nil
	}
	out := make([]*worldmodel.Task, 0, len(refs))
	for _, r := range refs {
		if t := r.Get(); t != nil {
			out = append(out, t)
		}
	}
	return out
}
