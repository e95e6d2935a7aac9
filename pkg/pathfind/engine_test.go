package pathfind_test

import (
	"fmt"
	"testing"

	"github.com/ifm/ifm/pkg/diag"
	"github.com/ifm/ifm/pkg/pathfind"
	"github.com/ifm/ifm/pkg/reach"
	"github.com/ifm/ifm/pkg/worldmodel"
	"pgregory.net/rapid"
)

type view struct{}

func (view) HasItem(*worldmodel.Item) bool            { return true }
func (view) TaskDone(*worldmodel.Task) bool            { return true }
func (view) ForcesBlockingLeave(*worldmodel.Room) bool { return false }

func link(id int, from, to *worldmodel.Room, length int, oneWay bool) *worldmodel.Link {
	l := &worldmodel.Link{ID: id, Length: length, OneWay: oneWay}
	l.From = worldmodel.NewRef[worldmodel.Room]("")
	l.From.Resolve(from)
	l.To = worldmodel.NewRef[worldmodel.Room]("")
	l.To.Resolve(to)
	return l
}

func TestPathLengthLinearCorridor(t *testing.T) {
	a := &worldmodel.Room{ID: 1, Description: "a"}
	b := &worldmodel.Room{ID: 2, Description: "b"}
	c := &worldmodel.Room{ID: 3, Description: "c"}
	decl := &worldmodel.WorldDecl{
		Rooms: []*worldmodel.Room{a, b, c},
		Links: []*worldmodel.Link{link(1, a, b, 1, false), link(2, b, c, 1, false)},
	}
	g := reach.Build(decl, diag.NewReporter(nil, 0, 0))
	e := pathfind.NewEngine(g)

	got, ok := e.PathLength(a, c, view{})
	if !ok || got != 2 {
		t.Fatalf("expected length 2, got %d ok=%v", got, ok)
	}
}

func TestPathLengthUnreachable(t *testing.T) {
	a := &worldmodel.Room{ID: 1, Description: "a"}
	b := &worldmodel.Room{ID: 2, Description: "b"}
	decl := &worldmodel.WorldDecl{Rooms: []*worldmodel.Room{a, b}}
	g := reach.Build(decl, diag.NewReporter(nil, 0, 0))
	e := pathfind.NewEngine(g)

	_, ok := e.PathLength(a, b, view{})
	if ok {
		t.Fatal("expected no path between disconnected rooms")
	}
}

func TestPathLengthBlocksOnRoomNeed(t *testing.T) {
	a := &worldmodel.Room{ID: 1, Description: "a"}
	b := &worldmodel.Room{ID: 2, Description: "vault"}
	key := &worldmodel.Item{ID: 1, Description: "key"}
	b.Need = []worldmodel.Ref[worldmodel.Item]{worldmodel.NewRef[worldmodel.Item]("")}
	b.Need[0].Resolve(key)
	decl := &worldmodel.WorldDecl{
		Rooms: []*worldmodel.Room{a, b},
		Links: []*worldmodel.Link{link(1, a, b, 1, false)},
	}
	g := reach.Build(decl, diag.NewReporter(nil, 0, 0))
	e := pathfind.NewEngine(g)

	if _, ok := e.PathLength(a, b, blockingView{}); ok {
		t.Fatal("expected the vault to be unreachable without the key it needs")
	}
	if got, ok := e.PathLength(a, b, view{}); !ok || got != 1 {
		t.Fatalf("expected length 1 once the room's own need is satisfied, got %d ok=%v", got, ok)
	}
}

func TestPathInfoPrefersShorterRoute(t *testing.T) {
	a := &worldmodel.Room{ID: 1, Description: "a"}
	b := &worldmodel.Room{ID: 2, Description: "b"}
	c := &worldmodel.Room{ID: 3, Description: "c"}
	d := &worldmodel.Room{ID: 4, Description: "d"}
	// a->d direct (length 5) versus a->b->c->d (length 3).
	decl := &worldmodel.WorldDecl{
		Rooms: []*worldmodel.Room{a, b, c, d},
		Links: []*worldmodel.Link{
			link(1, a, d, 5, true),
			link(2, a, b, 1, true),
			link(3, b, c, 1, true),
			link(4, c, d, 1, true),
		},
	}
	g := reach.Build(decl, diag.NewReporter(nil, 0, 0))
	e := pathfind.NewEngine(g)

	p := e.PathInfo(a, d, view{})
	if p == nil {
		t.Fatal("expected a path")
	}
	if p.Length != 3 {
		t.Fatalf("expected shortest length 3, got %d", p.Length)
	}
	if len(p.Rooms) != 4 || p.Rooms[0] != a || p.Rooms[3] != d {
		t.Fatalf("unexpected room sequence: %v", p.Rooms)
	}
}

func TestCacheServesSameSourceAndGeneration(t *testing.T) {
	a := &worldmodel.Room{ID: 1, Description: "a"}
	b := &worldmodel.Room{ID: 2, Description: "b"}
	l := link(1, a, b, 1, false)
	l.Need = []worldmodel.Ref[worldmodel.Item]{worldmodel.NewRef[worldmodel.Item]("")}
	l.Need[0].Resolve(&worldmodel.Item{ID: 1, Description: "key"})
	decl := &worldmodel.WorldDecl{
		Rooms: []*worldmodel.Room{a, b},
		Links: []*worldmodel.Link{l},
	}
	g := reach.Build(decl, diag.NewReporter(nil, 0, 0))
	e := pathfind.NewEngine(g)
	e.UseCache(true)

	first, _ := e.PathLength(a, b, view{})

	// The link needs a key that blockingView does not hold, so a fresh
	// sweep under blockingView would find no path; a second call with the
	// same source and generation must still return the cached value.
	second, ok := e.PathLength(a, b, blockingView{})
	if !ok || second != first {
		t.Fatalf("expected cached result %d to be served regardless of a new view, got %d", first, second)
	}
}

func TestBumpGenerationInvalidatesCache(t *testing.T) {
	a := &worldmodel.Room{ID: 1, Description: "a"}
	b := &worldmodel.Room{ID: 2, Description: "b"}
	needed := &worldmodel.Item{ID: 1, Description: "key"}
	l := link(1, a, b, 1, false)
	l.Need = []worldmodel.Ref[worldmodel.Item]{worldmodel.NewRef[worldmodel.Item]("")}
	l.Need[0].Resolve(needed)
	decl := &worldmodel.WorldDecl{
		Rooms: []*worldmodel.Room{a, b},
		Links: []*worldmodel.Link{l},
	}
	g := reach.Build(decl, diag.NewReporter(nil, 0, 0))
	e := pathfind.NewEngine(g)
	e.UseCache(true)

	if _, ok := e.PathLength(a, b, blockingView{}); ok {
		t.Fatal("expected no path without the key")
	}
	e.BumpGeneration()
	if _, ok := e.PathLength(a, b, view{}); !ok {
		t.Fatal("expected a path once the generation was bumped and the key is held")
	}
}

// TestCacheCoherenceMatchesUncached checks SPEC_FULL.md §8's cache
// coherence invariant over randomly generated linear chains: bumping the
// generation after every simulated state change makes a cached engine
// return exactly what an uncached engine would for the same query.
func TestCacheCoherenceMatchesUncached(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		roomCount := rapid.IntRange(2, 10).Draw(t, "roomCount")
		rooms := make([]*worldmodel.Room, roomCount)
		for i := range rooms {
			rooms[i] = &worldmodel.Room{ID: i, Description: fmt.Sprintf("room %d", i)}
		}
		needed := &worldmodel.Item{ID: 1, Description: "key"}

		var links []*worldmodel.Link
		for i := 1; i < roomCount; i++ {
			l := link(i-1, rooms[i-1], rooms[i], 1, true)
			if rapid.Bool().Draw(t, fmt.Sprintf("gated_%d", i)) {
				l.Need = []worldmodel.Ref[worldmodel.Item]{worldmodel.NewRef[worldmodel.Item]("")}
				l.Need[0].Resolve(needed)
			}
			links = append(links, l)
		}
		decl := &worldmodel.WorldDecl{Rooms: rooms, Links: links}
		g := reach.Build(decl, diag.NewReporter(nil, 0, 0))

		cached := pathfind.NewEngine(g)
		cached.UseCache(true)
		uncached := pathfind.NewEngine(g)

		steps := rapid.IntRange(1, 5).Draw(t, "steps")
		for s := 0; s < steps; s++ {
			hasKey := rapid.Bool().Draw(t, fmt.Sprintf("key_%d", s))
			var chosen reach.AdmissibilityView = keyView{held: hasKey}

			cached.BumpGeneration()
			got, gotOK := cached.PathLength(rooms[0], rooms[roomCount-1], chosen)
			want, wantOK := uncached.PathLength(rooms[0], rooms[roomCount-1], chosen)
			if gotOK != wantOK || got != want {
				t.Fatalf("cached result (%d,%v) disagrees with uncached (%d,%v) after a generation bump", got, gotOK, want, wantOK)
			}
		}
	})
}

type keyView struct{ held bool }

func (v keyView) HasItem(*worldmodel.Item) bool            { return v.held }
func (v keyView) TaskDone(*worldmodel.Task) bool            { return true }
func (v keyView) ForcesBlockingLeave(*worldmodel.Room) bool { return false }

type blockingView struct{}

func (blockingView) HasItem(*worldmodel.Item) bool            { return false }
func (blockingView) TaskDone(*worldmodel.Task) bool            { return false }
func (blockingView) ForcesBlockingLeave(*worldmodel.Room) bool { return false }
