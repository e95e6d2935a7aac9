package mapbuild_test

import (
	"fmt"
	"testing"

	"github.com/ifm/ifm/pkg/diag"
	"github.com/ifm/ifm/pkg/direction"
	"github.com/ifm/ifm/pkg/mapbuild"
	"github.com/ifm/ifm/pkg/worldmodel"
	"pgregory.net/rapid"
)

func linearCorridor() *worldmodel.WorldDecl {
	a := &worldmodel.Room{ID: 0, Tag: "a", Description: "room A"}
	b := &worldmodel.Room{ID: 1, Tag: "b", Description: "room B"}
	c := &worldmodel.Room{ID: 2, Tag: "c", Description: "room C"}

	ab := &worldmodel.Link{ID: 0, Tag: "ab", Directions: []direction.Direction{direction.E}}
	ab.From, ab.To = worldmodel.NewRef[worldmodel.Room]("a"), worldmodel.NewRef[worldmodel.Room]("b")
	ab.From.Resolve(a)
	ab.To.Resolve(b)

	bc := &worldmodel.Link{ID: 1, Tag: "bc", Directions: []direction.Direction{direction.E}}
	bc.From, bc.To = worldmodel.NewRef[worldmodel.Room]("b"), worldmodel.NewRef[worldmodel.Room]("c")
	bc.From.Resolve(b)
	bc.To.Resolve(c)

	return &worldmodel.WorldDecl{
		Rooms: []*worldmodel.Room{a, b, c},
		Links: []*worldmodel.Link{ab, bc},
	}
}

func TestBuildPlacesLinearCorridor(t *testing.T) {
	decl := linearCorridor()
	rep := diag.NewReporter(nil, 0, 0)
	result := mapbuild.Build(decl, rep)

	if len(result.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(result.Sections))
	}
	sec := result.Sections[0]

	a, b, c := decl.Rooms[0], decl.Rooms[1], decl.Rooms[2]
	if a.X != 0 || a.Y != 0 {
		t.Errorf("room a at (%d,%d), want (0,0)", a.X, a.Y)
	}
	if b.X != 1 || b.Y != 0 {
		t.Errorf("room b at (%d,%d), want (1,0)", b.X, b.Y)
	}
	if c.X != 2 || c.Y != 0 {
		t.Errorf("room c at (%d,%d), want (2,0)", c.X, c.Y)
	}
	if sec.XLen != 3 || sec.YLen != 1 {
		t.Errorf("section extents (%d,%d), want (3,1)", sec.XLen, sec.YLen)
	}
}

func TestBuildNormalizesToNonNegativeOrigin(t *testing.T) {
	a := &worldmodel.Room{ID: 0, Tag: "a", Description: "room A"}
	b := &worldmodel.Room{ID: 1, Tag: "b", Description: "room B"}
	ab := &worldmodel.Link{ID: 0, Directions: []direction.Direction{direction.W}}
	ab.From, ab.To = worldmodel.NewRef[worldmodel.Room]("a"), worldmodel.NewRef[worldmodel.Room]("b")
	ab.From.Resolve(a)
	ab.To.Resolve(b)

	decl := &worldmodel.WorldDecl{Rooms: []*worldmodel.Room{a, b}, Links: []*worldmodel.Link{ab}}
	rep := diag.NewReporter(nil, 0, 0)
	result := mapbuild.Build(decl, rep)
	sec := result.Sections[0]

	minX, minY := a.X, a.Y
	maxX, maxY := a.X, a.Y
	for _, r := range sec.Rooms {
		if r.X < minX {
			minX = r.X
		}
		if r.Y < minY {
			minY = r.Y
		}
		if r.X > maxX {
			maxX = r.X
		}
		if r.Y > maxY {
			maxY = r.Y
		}
	}
	if minX != 0 || minY != 0 {
		t.Fatalf("expected normalized origin (0,0), got (%d,%d)", minX, minY)
	}
	if maxX+1 != sec.XLen || maxY+1 != sec.YLen {
		t.Fatalf("XLen/YLen (%d,%d) do not match max+1 (%d,%d)", sec.XLen, sec.YLen, maxX+1, maxY+1)
	}
}

func TestBuildWarnsOnRoomOverlap(t *testing.T) {
	a := &worldmodel.Room{ID: 0, Tag: "a", Description: "room A"}
	b := &worldmodel.Room{ID: 1, Tag: "b", Description: "room B"}
	c := &worldmodel.Room{ID: 2, Tag: "c", Description: "room C"}

	ab := &worldmodel.Link{ID: 0, Directions: []direction.Direction{direction.E}}
	ab.From, ab.To = worldmodel.NewRef[worldmodel.Room]("a"), worldmodel.NewRef[worldmodel.Room]("b")
	ab.From.Resolve(a)
	ab.To.Resolve(b)

	// b sits east of a; c is placed west of b via near+dir, which is a's
	// position, forcing a coincident coordinate with room a.
	west := direction.W
	c.Near = worldmodel.NewRef[worldmodel.Room]("b")
	c.Near.Resolve(b)
	c.NearDir = &west

	decl := &worldmodel.WorldDecl{Rooms: []*worldmodel.Room{a, b, c}, Links: []*worldmodel.Link{ab}}
	rep := diag.NewReporter(nil, 0, 0)
	mapbuild.Build(decl, rep)

	if rep.ErrorCount() != 0 {
		t.Fatalf("overlap must be a warning, not an error; got %d errors", rep.ErrorCount())
	}
	if len(rep.Messages()) == 0 {
		t.Fatal("expected an overlap warning to be recorded")
	}
	if a.X != c.X || a.Y != c.Y {
		t.Fatalf("expected a and c to land on the same coordinate, got a=(%d,%d) c=(%d,%d)", a.X, a.Y, c.X, c.Y)
	}
}

func TestBuildTracesLinkPolylineToTarget(t *testing.T) {
	decl := linearCorridor()
	rep := diag.NewReporter(nil, 0, 0)
	mapbuild.Build(decl, rep)

	ab := decl.Links[0]
	n := len(ab.PolylineX)
	if ab.PolylineX[n-1] != decl.Rooms[1].X || ab.PolylineY[n-1] != decl.Rooms[1].Y {
		t.Fatalf("link polyline does not end at target room coordinates")
	}
}

func TestBuildCanonicalizesOneWayLoop(t *testing.T) {
	a := &worldmodel.Room{ID: 0, Tag: "a", Description: "room A"}
	loop := &worldmodel.Link{ID: 0, Tag: "loop", OneWay: true, Directions: []direction.Direction{direction.N}}
	loop.From, loop.To = worldmodel.NewRef[worldmodel.Room]("a"), worldmodel.NewRef[worldmodel.Room]("a")
	loop.From.Resolve(a)
	loop.To.Resolve(a)

	decl := &worldmodel.WorldDecl{Rooms: []*worldmodel.Room{a}, Links: []*worldmodel.Link{loop}}
	rep := diag.NewReporter(nil, 0, 0)
	mapbuild.Build(decl, rep)

	if !loop.Loop {
		t.Fatal("expected a circular one-way link to be canonicalized as a loop")
	}
	if len(loop.PolylineX) != 3 {
		t.Fatalf("expected a 3-point out-and-back polyline, got %d points", len(loop.PolylineX))
	}
}

func TestBuildRecordsExitStubForUnlinkedOneWayExit(t *testing.T) {
	a := &worldmodel.Room{ID: 0, Tag: "a", Description: "room A"}
	stub := &worldmodel.Link{ID: 0, OneWay: true, Directions: []direction.Direction{direction.N}}
	stub.From = worldmodel.NewRef[worldmodel.Room]("a")
	stub.From.Resolve(a)
	stub.To = worldmodel.NewRef[worldmodel.Room]("")

	decl := &worldmodel.WorldDecl{Rooms: []*worldmodel.Room{a}, Links: []*worldmodel.Link{stub}}
	rep := diag.NewReporter(nil, 0, 0)
	result := mapbuild.Build(decl, rep)

	if len(a.ExitStubs) != 1 || a.ExitStubs[0] != direction.N {
		t.Fatalf("expected one north exit stub on room a, got %v", a.ExitStubs)
	}
	if len(result.Sections) != 1 || len(result.Sections[0].Links) != 0 {
		t.Fatalf("expected the stub link to stay off the section's placed link list")
	}
}

func TestBuildPopulatesRoomItemsFromDeclaredStartRoom(t *testing.T) {
	a := &worldmodel.Room{ID: 0, Tag: "a", Description: "room A"}
	torch := &worldmodel.Item{ID: 0, Description: "torch"}
	torch.StartRoom = worldmodel.NewRef[worldmodel.Room]("a")
	torch.StartRoom.Resolve(a)
	carried := &worldmodel.Item{ID: 1, Description: "ring", HeldAtStart: true}
	carried.StartRoom = worldmodel.NewRef[worldmodel.Room]("a")
	carried.StartRoom.Resolve(a)

	decl := &worldmodel.WorldDecl{Rooms: []*worldmodel.Room{a}, Items: []*worldmodel.Item{torch, carried}}
	mapbuild.Build(decl, diag.NewReporter(nil, 0, 0))

	if len(a.Items) != 1 || a.Items[0] != torch {
		t.Fatalf("expected only the non-held item to be listed in room a, got %v", a.Items)
	}
}

func TestBuildDefaultsSectionTitleAndHonorsDeclared(t *testing.T) {
	decl := linearCorridor()
	result := mapbuild.Build(decl, diag.NewReporter(nil, 0, 0))
	if result.Sections[0].Title != "Map section 1" {
		t.Fatalf("expected default section title, got %q", result.Sections[0].Title)
	}

	a := &worldmodel.Room{ID: 0, Description: "vault", SectionTitle: "The Vault"}
	decl2 := &worldmodel.WorldDecl{Rooms: []*worldmodel.Room{a}}
	result2 := mapbuild.Build(decl2, diag.NewReporter(nil, 0, 0))
	if result2.Sections[0].Title != "The Vault" {
		t.Fatalf("expected declared section title to win, got %q", result2.Sections[0].Title)
	}
}

// gridDirections excludes U/D/IN/OUT, which carry no grid offset and so
// cannot feed a chain of placement edges.
var gridDirections = []direction.Direction{
	direction.N, direction.S, direction.E, direction.W,
	direction.NE, direction.NW, direction.SE, direction.SW,
}

// TestBuildNormalizesRandomChains checks the coordinate-normalization
// invariant — every section's minimum room/polyline coordinate is (0,0)
// and XLen/YLen equal max+1 — over randomly generated linear room
// chains, generalizing TestBuildNormalizesToNonNegativeOrigin beyond one
// fixed example.
func TestBuildNormalizesRandomChains(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		roomCount := rapid.IntRange(2, 12).Draw(t, "roomCount")
		rooms := make([]*worldmodel.Room, roomCount)
		for i := range rooms {
			rooms[i] = &worldmodel.Room{ID: i, Tag: fmt.Sprintf("r%d", i), Description: fmt.Sprintf("room %d", i)}
		}

		var links []*worldmodel.Link
		for i := 1; i < roomCount; i++ {
			d := rapid.SampledFrom(gridDirections).Draw(t, fmt.Sprintf("dir_%d", i))
			l := &worldmodel.Link{ID: i - 1, Directions: []direction.Direction{d}}
			l.From = worldmodel.NewRef[worldmodel.Room]("")
			l.From.Resolve(rooms[i-1])
			l.To = worldmodel.NewRef[worldmodel.Room]("")
			l.To.Resolve(rooms[i])
			links = append(links, l)
		}

		decl := &worldmodel.WorldDecl{Rooms: rooms, Links: links}
		rep := diag.NewReporter(nil, 0, 0)
		result := mapbuild.Build(decl, rep)

		for _, sec := range result.Sections {
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
			if minX != 0 || minY != 0 {
				t.Fatalf("section %s: min coordinate (%d,%d), want (0,0)", sec.ID, minX, minY)
			}
			if maxX+1 != sec.XLen || maxY+1 != sec.YLen {
				t.Fatalf("section %s: extents (%d,%d) do not match max+1 (%d,%d)", sec.ID, sec.XLen, sec.YLen, maxX+1, maxY+1)
			}
		}
	})
}
