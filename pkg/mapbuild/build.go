package mapbuild

import (
	"fmt"
	"sort"

	"github.com/ifm/ifm/pkg/diag"
	"github.com/ifm/ifm/pkg/direction"
	"github.com/ifm/ifm/pkg/worldmodel"
)

type placementEdge struct {
	fromIdx, toIdx int
	dx, dy         int
}

// Build places every room on an integer grid, groups connected rooms into
// sections, traces each link's polyline within its section, and
// normalizes section coordinates to a non-negative origin. Rooms and
// links are mutated in place (Room.X/Y/SectionID/Placed, Link.PolylineX/Y/
// InitialDir/FinalDir/Loop); Result groups the placed objects by section.
func Build(decl *worldmodel.WorldDecl, rep *diag.Reporter) *Result {
	idx := make(map[*worldmodel.Room]int, len(decl.Rooms))
	for i, r := range decl.Rooms {
		idx[r] = i
	}

	itemsByRoom := make(map[*worldmodel.Room][]*worldmodel.Item)
	for _, it := range decl.Items {
		if it.HeldAtStart {
			continue
		}
		if room := it.StartRoom.Get(); room != nil {
			itemsByRoom[room] = append(itemsByRoom[room], it)
		}
	}
	for _, r := range decl.Rooms {
		r.Items = itemsByRoom[r]
	}

	uf := newUnionFind(len(decl.Rooms))
	var edges []placementEdge

	for _, l := range decl.Links {
		from, to := l.From.Get(), l.To.Get()
		if from == nil || to == nil {
			continue
		}
		fromIdx, toIdx := idx[from], idx[to]
		dx, dy := sumOffsets(l.Directions)
		uf.union(fromIdx, toIdx)
		edges = append(edges, placementEdge{fromIdx, toIdx, dx, dy})
	}
	for _, r := range decl.Rooms {
		near := r.Near.Get()
		if near == nil {
			continue
		}
		roomIdx, nearIdx := idx[r], idx[near]
		dx, dy := 0, 0
		if r.NearDir != nil {
			dx, dy = r.NearDir.Offset()
		}
		uf.union(roomIdx, nearIdx)
		edges = append(edges, placementEdge{nearIdx, roomIdx, dx, dy})
	}

	// Adjacency per room index, both directions.
	adj := make(map[int][]placementEdge)
	for _, e := range edges {
		adj[e.fromIdx] = append(adj[e.fromIdx], e)
		adj[e.toIdx] = append(adj[e.toIdx], placementEdge{e.toIdx, e.fromIdx, -e.dx, -e.dy})
	}

	groups := groupByRoot(uf, len(decl.Rooms))

	linksByRoomIdx := make(map[int][]*worldmodel.Link)
	for _, l := range decl.Links {
		from := l.From.Get()
		if from == nil {
			continue
		}
		linksByRoomIdx[idx[from]] = append(linksByRoomIdx[idx[from]], l)
	}

	var sections []*Section
	for si, group := range groups {
		sec := &Section{ID: fmt.Sprintf("S%d", si)}
		placeRooms(decl, group, adj, sec, rep)
		traceLinks(decl, group, idx, sec, rep)
		normalize(sec)
		sec.Title = sectionTitle(sec, si)
		sections = append(sections, sec)
	}

	return &Result{Sections: sections}
}

// groupByRoot returns room-index groups, one per union-find component, in
// a stable order keyed by each component's smallest room index.
func groupByRoot(uf *unionFind, n int) [][]int {
	byRoot := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		byRoot[root] = append(byRoot[root], i)
	}
	roots := make([]int, 0, len(byRoot))
	for root := range byRoot {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		return minInt(byRoot[roots[i]]) < minInt(byRoot[roots[j]])
	})
	groups := make([][]int, 0, len(roots))
	for _, root := range roots {
		g := byRoot[root]
		sort.Ints(g)
		groups = append(groups, g)
	}
	return groups
}

func minInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func placeRooms(decl *worldmodel.WorldDecl, group []int, adj map[int][]placementEdge, sec *Section, rep *diag.Reporter) {
	rootIdx := group[0]
	coords := map[int][2]int{rootIdx: {0, 0}}
	queue := []int{rootIdx}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cx, cy := coords[cur][0], coords[cur][1]
		for _, e := range adj[cur] {
			if _, seen := coords[e.toIdx]; seen {
				continue
			}
			coords[e.toIdx] = [2]int{cx + e.dx, cy + e.dy}
			queue = append(queue, e.toIdx)
		}
	}
	// Any room not reached by a placement edge (an isolated room sharing
	// no link/near relation with the rest of its component, which cannot
	// happen given how groups are formed, but handled defensively) sits
	// at the origin.
	for _, i := range group {
		if _, ok := coords[i]; !ok {
			coords[i] = [2]int{0, 0}
		}
	}

	occupied := make(map[[2]int]*worldmodel.Room)
	for _, i := range group {
		r := decl.Rooms[i]
		pos := coords[i]
		r.X, r.Y = pos[0], pos[1]
		r.SectionID = sec.ID
		r.Placed = true
		sec.Rooms = append(sec.Rooms, r)
		if other, exists := occupied[pos]; exists {
			rep.Warnf(0, "rooms %s and %s overlap at (%d,%d) in section %s",
				roomLabel(other), roomLabel(r), pos[0], pos[1], sec.ID)
			continue
		}
		occupied[pos] = r
	}
}

// sectionTitle returns the section's display title: the first
// non-empty SectionTitle declared by one of its rooms, or "Map section
// N" if none was declared — grounded on the original solver's
// setup_sections, which defaults an untitled section's TITLE to
// "Map section %d".
func sectionTitle(sec *Section, index int) string {
	for _, r := range sec.Rooms {
		if r.SectionTitle != "" {
			return r.SectionTitle
		}
	}
	return fmt.Sprintf("Map section %d", index+1)
}

func traceLinks(decl *worldmodel.WorldDecl, group []int, idx map[*worldmodel.Room]int, sec *Section, rep *diag.Reporter) {
	inGroup := make(map[int]bool, len(group))
	for _, i := range group {
		inGroup[i] = true
	}

	roomAt := make(map[[2]int]*worldmodel.Room)
	for _, i := range group {
		r := decl.Rooms[i]
		roomAt[[2]int{r.X, r.Y}] = r
	}

	for _, l := range decl.Links {
		from, to := l.From.Get(), l.To.Get()
		if from == nil {
			continue
		}
		fromIdx, ok := idx[from]
		if !ok || !inGroup[fromIdx] {
			continue
		}
		if to == nil {
			addExitStub(from, l, rep)
			continue
		}

		if l.OneWay && from == to && len(l.Directions) == 1 {
			traceLoop(l, from)
			sec.Links = append(sec.Links, l)
			continue
		}

		xs := []int{from.X}
		ys := []int{from.Y}
		cx, cy := from.X, from.Y
		for _, d := range l.Directions {
			if !d.HasOffset() {
				continue
			}
			dx, dy := d.Offset()
			cx, cy = cx+dx, cy+dy
			xs = append(xs, cx)
			ys = append(ys, cy)
		}
		if cx != to.X || cy != to.Y {
			dx, dy := to.X-cx, to.Y-cy
			if dx != 0 && dy != 0 && abs(dx) != abs(dy) {
				rep.Warnf(0, "link %s: declared directions do not reach %s exactly; completing with a best-effort straight run",
					linkLabel(l), roomLabel(to))
			}
			for cx != to.X || cy != to.Y {
				cx += signOf(to.X - cx)
				cy += signOf(to.Y - cy)
				xs = append(xs, cx)
				ys = append(ys, cy)
			}
		}

		l.PolylineX, l.PolylineY = xs, ys
		l.InitialDir, _ = direction.DirectionOf(xs[1]-xs[0], ys[1]-ys[0])
		n := len(xs)
		l.FinalDir, _ = direction.DirectionOf(xs[n-1]-xs[n-2], ys[n-1]-ys[n-2])

		for i := 1; i < len(xs)-1; i++ {
			if crosser, ok := roomAt[[2]int{xs[i], ys[i]}]; ok {
				rep.Warnf(0, "room %s is crossed by link %s", roomLabel(crosser), linkLabel(l))
			}
		}

		sec.Links = append(sec.Links, l)
	}
}

// addExitStub records a declared one-way exit with no target room as a
// unit-offset stub on its source room (spec's "outgoing exit stubs").
func addExitStub(r *worldmodel.Room, l *worldmodel.Link, rep *diag.Reporter) {
	if len(l.Directions) == 0 {
		rep.Warnf(0, "link %s: exit stub declared with no direction", linkLabel(l))
		return
	}
	r.ExitStubs = append(r.ExitStubs, l.Directions[0])
}

// traceLoop canonicalizes a circular one-way link (same source and
// target, single declared direction) into a two-segment out-and-back
// polyline so renderers can draw it as a loop.
func traceLoop(l *worldmodel.Link, room *worldmodel.Room) {
	d := l.Directions[0]
	dx, dy := d.Offset()
	l.PolylineX = []int{room.X, room.X + dx, room.X}
	l.PolylineY = []int{room.Y, room.Y + dy, room.Y}
	l.InitialDir = d
	l.FinalDir, _ = d.Opposite()
	l.Loop = true
}

func normalize(sec *Section) {
	if len(sec.Rooms) == 0 {
		sec.XLen, sec.YLen = 0, 0
		return
	}
	minX, minY := sec.Rooms[0].X, sec.Rooms[0].Y
	maxX, maxY := minX, minY
	consider := func(x, y int) {
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	for _, r := range sec.Rooms {
		consider(r.X, r.Y)
	}
	for _, l := range sec.Links {
		for i := range l.PolylineX {
			consider(l.PolylineX[i], l.PolylineY[i])
		}
	}

	for _, r := range sec.Rooms {
		r.X -= minX
		r.Y -= minY
	}
	for _, l := range sec.Links {
		for i := range l.PolylineX {
			l.PolylineX[i] -= minX
			l.PolylineY[i] -= minY
		}
	}
	sec.XLen = maxX - minX + 1
	sec.YLen = maxY - minY + 1
}

func sumOffsets(dirs []direction.Direction) (int, int) {
	dx, dy := 0, 0
	for _, d := range dirs {
		ddx, ddy := d.Offset()
		dx += ddx
		dy += ddy
	}
	return dx, dy
}

func signOf(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func roomLabel(r *worldmodel.Room) string {
	if r.Tag != "" {
		return r.Tag
	}
	return fmt.Sprintf("#%d", r.ID)
}

func linkLabel(l *worldmodel.Link) string {
	if l.Tag != "" {
		return l.Tag
	}
	return fmt.Sprintf("#%d", l.ID)
}
