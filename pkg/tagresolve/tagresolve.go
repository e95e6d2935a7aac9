package tagresolve

import (
	"github.com/ifm/ifm/pkg/diag"
	"github.com/ifm/ifm/pkg/worldmodel"
)

// Tables holds the five tag->object maps populated during parsing and
// completed here with sentinels for undefined tags.
type Tables struct {
	Rooms map[string]*worldmodel.Room
	Items map[string]*worldmodel.Item
	Links map[string]*worldmodel.Link
	Joins map[string]*worldmodel.Join
	Tasks map[string]*worldmodel.Task
}

func newTables() *Tables {
	return &Tables{
		Rooms: make(map[string]*worldmodel.Room),
		Items: make(map[string]*worldmodel.Item),
		Links: make(map[string]*worldmodel.Link),
		Joins: make(map[string]*worldmodel.Join),
		Tasks: make(map[string]*worldmodel.Task),
	}
}

// Resolve builds the tag tables from decl and fixes up every Ref in the
// declaration to point at its target, reporting an error (and installing
// a suppressing sentinel) for each tag that is never declared, and for
// each tag declared more than once (first declaration wins, per
// SPEC_FULL.md §8's "tag resolution injective" property).
func Resolve(decl *worldmodel.WorldDecl, rep *diag.Reporter) *Tables {
	tables := buildTables(decl, rep)

	for _, r := range decl.Rooms {
		resolveRoom(r, tables, rep)
	}
	for _, it := range decl.Items {
		resolveItem(it, tables, rep)
	}
	for _, l := range decl.Links {
		resolveLink(l, tables, rep)
	}
	for _, j := range decl.Joins {
		resolveJoin(j, tables, rep)
	}
	for _, t := range decl.Tasks {
		resolveTask(t, tables, rep)
	}

	return tables
}

func buildTables(decl *worldmodel.WorldDecl, rep *diag.Reporter) *Tables {
	t := newTables()

	for _, r := range decl.Rooms {
		if r.Tag == "" {
			continue
		}
		if _, exists := t.Rooms[r.Tag]; exists {
			rep.Errorf(0, "room tag %q already defined", r.Tag)
			continue
		}
		t.Rooms[r.Tag] = r
	}
	for _, it := range decl.Items {
		if it.Tag == "" {
			continue
		}
		if _, exists := t.Items[it.Tag]; exists {
			rep.Errorf(0, "item tag %q already defined", it.Tag)
			continue
		}
		t.Items[it.Tag] = it
	}
	for _, l := range decl.Links {
		if l.Tag == "" {
			continue
		}
		if _, exists := t.Links[l.Tag]; exists {
			rep.Errorf(0, "link tag %q already defined", l.Tag)
			continue
		}
		t.Links[l.Tag] = l
	}
	for _, j := range decl.Joins {
		if j.Tag == "" {
			continue
		}
		if _, exists := t.Joins[j.Tag]; exists {
			rep.Errorf(0, "join tag %q already defined", j.Tag)
			continue
		}
		t.Joins[j.Tag] = j
	}
	for _, task := range decl.Tasks {
		if task.Tag == "" {
			continue
		}
		if _, exists := t.Tasks[task.Tag]; exists {
			rep.Errorf(0, "task tag %q already defined", task.Tag)
			continue
		}
		t.Tasks[task.Tag] = task
	}

	return t
}

// resolveOne fixes up a single reference against table, reporting an
// undefined-tag error and installing a sentinel on first occurrence so a
// second reference to the same bad tag resolves silently to the sentinel.
func resolveOne[T any](ref *worldmodel.Ref[T], table map[string]*T, kind string, rep *diag.Reporter) {
	if ref.Tag == "" {
		return
	}
	if obj, ok := table[ref.Tag]; ok {
		ref.Resolve(obj)
		return
	}
	rep.Errorf(0, "undefined %s tag %q", kind, ref.Tag)
	sentinel := new(T)
	table[ref.Tag] = sentinel
	ref.Resolve(sentinel)
}

func resolveMany[T any](refs []worldmodel.Ref[T], table map[string]*T, kind string, rep *diag.Reporter) {
	for i := range refs {
		resolveOne(&refs[i], table, kind, rep)
	}
}

func resolveRoom(r *worldmodel.Room, t *Tables, rep *diag.Reporter) {
	resolveOne(&r.Near, t.Rooms, "room", rep)
	resolveMany(r.Need, t.Items, "item", rep)
	resolveMany(r.Before, t.Tasks, "task", rep)
	resolveMany(r.After, t.Tasks, "task", rep)
	resolveMany(r.Leave, t.Items, "item", rep)
}

func resolveItem(it *worldmodel.Item, t *Tables, rep *diag.Reporter) {
	resolveOne(&it.StartRoom, t.Rooms, "room", rep)
	resolveMany(it.KeepWith, t.Items, "item", rep)
	resolveMany(it.KeepUntil, t.Tasks, "task", rep)
	resolveMany(it.Need, t.Items, "item", rep)
	resolveMany(it.Before, t.Tasks, "task", rep)
	resolveMany(it.After, t.Tasks, "task", rep)
}

func resolveLink(l *worldmodel.Link, t *Tables, rep *diag.Reporter) {
	resolveOne(&l.From, t.Rooms, "room", rep)
	resolveOne(&l.To, t.Rooms, "room", rep)
	resolveMany(l.Need, t.Items, "item", rep)
	resolveMany(l.Before, t.Tasks, "task", rep)
	resolveMany(l.After, t.Tasks, "task", rep)
	resolveMany(l.Leave, t.Items, "item", rep)
}

func resolveJoin(j *worldmodel.Join, t *Tables, rep *diag.Reporter) {
	resolveOne(&j.From, t.Rooms, "room", rep)
	resolveOne(&j.To, t.Rooms, "room", rep)
	resolveMany(j.Need, t.Items, "item", rep)
	resolveMany(j.Before, t.Tasks, "task", rep)
	resolveMany(j.After, t.Tasks, "task", rep)
	resolveMany(j.Leave, t.Items, "item", rep)
}

func resolveTask(task *worldmodel.Task, t *Tables, rep *diag.Reporter) {
	resolveOne(&task.Location, t.Rooms, "room", rep)
	resolveMany(task.After, t.Tasks, "task", rep)
	resolveMany(task.Need, t.Items, "item", rep)
	resolveMany(task.Get, t.Items, "item", rep)
	resolveMany(task.Give, t.Items, "item", rep)
	resolveMany(task.Lose, t.Items, "item", rep)
	resolveMany(task.Drop, t.Items, "item", rep)
	resolveMany(task.DropUntil, t.Tasks, "task", rep)
	resolveOne(&task.DropRoom, t.Rooms, "room", rep)
	resolveMany(task.Do, t.Tasks, "task", rep)
	resolveOne(&task.Goto, t.Rooms, "room", rep)
	resolveOne(&task.Follow, t.Tasks, "task", rep)
}
