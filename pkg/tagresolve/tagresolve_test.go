package tagresolve_test

import (
	"fmt"
	"testing"

	"github.com/ifm/ifm/pkg/diag"
	"github.com/ifm/ifm/pkg/tagresolve"
	"github.com/ifm/ifm/pkg/worldmodel"
	"pgregory.net/rapid"
)

func TestResolveFixesUpPointers(t *testing.T) {
	key := &worldmodel.Item{ID: 0, Tag: "key", Description: "a brass key"}
	door := &worldmodel.Room{ID: 0, Tag: "door", Description: "a locked door"}
	door.Need = []worldmodel.Ref[worldmodel.Item]{worldmodel.NewRef[worldmodel.Item]("key")}

	decl := &worldmodel.WorldDecl{
		Rooms: []*worldmodel.Room{door},
		Items: []*worldmodel.Item{key},
	}

	rep := diag.NewReporter(nil, 0, 0)
	tagresolve.Resolve(decl, rep)

	if rep.ErrorCount() != 0 {
		t.Fatalf("expected no errors, got %d", rep.ErrorCount())
	}
	if door.Need[0].Get() != key {
		t.Fatalf("door.Need[0] did not resolve to key")
	}
}

func TestResolveReportsUndefinedTagOnce(t *testing.T) {
	door := &worldmodel.Room{ID: 0, Tag: "door", Description: "a door"}
	door.Need = []worldmodel.Ref[worldmodel.Item]{
		worldmodel.NewRef[worldmodel.Item]("ghost"),
	}
	other := &worldmodel.Room{ID: 1, Tag: "other", Description: "another room"}
	other.Need = []worldmodel.Ref[worldmodel.Item]{
		worldmodel.NewRef[worldmodel.Item]("ghost"),
	}

	decl := &worldmodel.WorldDecl{Rooms: []*worldmodel.Room{door, other}}

	rep := diag.NewReporter(nil, 0, 0)
	tagresolve.Resolve(decl, rep)

	if rep.ErrorCount() != 1 {
		t.Fatalf("expected exactly one undefined-tag error, got %d", rep.ErrorCount())
	}
	if door.Need[0].Get() == nil {
		t.Fatal("expected a sentinel to be installed for the undefined tag")
	}
	if door.Need[0].Get() != other.Need[0].Get() {
		t.Fatal("expected both references to the same undefined tag to share the sentinel")
	}
}

func TestResolveReportsDuplicateTag(t *testing.T) {
	a := &worldmodel.Room{ID: 0, Tag: "dup", Description: "room a"}
	b := &worldmodel.Room{ID: 1, Tag: "dup", Description: "room b"}
	decl := &worldmodel.WorldDecl{Rooms: []*worldmodel.Room{a, b}}

	rep := diag.NewReporter(nil, 0, 0)
	tables := tagresolve.Resolve(decl, rep)

	if rep.ErrorCount() != 1 {
		t.Fatalf("expected exactly one duplicate-tag error, got %d", rep.ErrorCount())
	}
	if tables.Rooms["dup"] != a {
		t.Fatal("expected the first declaration to win")
	}
}

// TestDuplicateTagCountMatchesErrorCount generalizes
// TestResolveReportsDuplicateTag to the tag-resolution-injective
// invariant of SPEC_FULL.md §8: for any number of rooms sharing one
// tag, resolution reports exactly (count-1) duplicate errors and the
// first declaration always wins the table slot.
func TestDuplicateTagCountMatchesErrorCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 8).Draw(t, "n")
		rooms := make([]*worldmodel.Room, n)
		for i := range rooms {
			rooms[i] = &worldmodel.Room{ID: i, Tag: "dup", Description: fmt.Sprintf("room %d", i)}
		}
		decl := &worldmodel.WorldDecl{Rooms: rooms}

		rep := diag.NewReporter(nil, 0, 0)
		tables := tagresolve.Resolve(decl, rep)

		if rep.ErrorCount() != n-1 {
			t.Fatalf("expected %d duplicate-tag errors for %d declarations, got %d", n-1, n, rep.ErrorCount())
		}
		if tables.Rooms["dup"] != rooms[0] {
			t.Fatal("expected the first declaration to win regardless of how many duplicates follow")
		}
	})
}
