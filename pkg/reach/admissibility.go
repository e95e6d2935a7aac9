package reach

import "github.com/ifm/ifm/pkg/worldmodel"

// AdmissibilityView answers the questions a path query needs about the
// solver's current live state without the reach graph ever touching that
// state directly (the "call-back-heavy graph engine" design noted for
// pkg/pathfind applies equally here). A view is built once per query and
// is treated as immutable for its lifetime.
//
// Grounded on validation.Agent.CanTraverse's gate-check, generalized from
// a single boolean Gate to the full need/before/after rule set.
type AdmissibilityView interface {
	// HasItem reports whether the item is currently in inventory.
	HasItem(it *worldmodel.Item) bool
	// TaskDone reports whether the task has already been executed.
	TaskDone(t *worldmodel.Task) bool
	// ForcesBlockingLeave reports whether entering room r would require
	// dropping an item the current query cannot afford to drop. The
	// default view always returns false, and so does pkg/planner's live
	// state, which never sets a blocking room.
	ForcesBlockingLeave(r *worldmodel.Room) bool
}

// UseNode reports whether a room may currently be entered: every Need
// item is held, no Before task is done, every After task is done, and
// the view's ForcesBlockingLeave does not report the room.
func UseNode(r *worldmodel.Room, view AdmissibilityView) bool {
	for _, ref := range r.Need {
		if it := ref.Get(); it != nil && !view.HasItem(it) {
			return false
		}
	}
	for _, ref := range r.Before {
		if t := ref.Get(); t != nil && view.TaskDone(t) {
			return false
		}
	}
	for _, ref := range r.After {
		if t := ref.Get(); t != nil && !view.TaskDone(t) {
			return false
		}
	}
	if view.ForcesBlockingLeave(r) {
		return false
	}
	return true
}

// UseEdge reports whether at least one reach record on the edge is
// currently usable, and returns the first such record (first-discovered
// tie-break, matching the reach graph's append order). Leave/LeaveAll are
// not admissibility conditions here — they are side effects the planner
// applies when it chooses to traverse, not a block on traversal itself.
func UseEdge(e *Edge, view AdmissibilityView) (bool, *ReachRecord) {
	for _, rec := range e.Records {
		if recordUsable(rec, view) {
			return true, rec
		}
	}
	return false, nil
}

func recordUsable(rec *ReachRecord, view AdmissibilityView) bool {
	for _, it := range rec.Need {
		if !view.HasItem(it) {
			return false
		}
	}
	for _, t := range rec.Before {
		if view.TaskDone(t) {
			return false
		}
	}
	for _, t := range rec.After {
		if !view.TaskDone(t) {
			return false
		}
	}
	return true
}

// EdgeLength returns the shared traversal cost of an edge's reach
// records. AddLink/AddJoin report records that disagree on length via
// the reporter (the record is still added), and the first record's
// length is the one used.
func EdgeLength(e *Edge) int {
	if len(e.Records) == 0 {
		return 0
	}
	return e.Records[0].Length
}

// AlwaysAdmissible is the trivial AdmissibilityView used to build the
// unconditional reach graph (ignoring items/tasks entirely) — useful for
// map-building-time connectivity checks that should not depend on solver
// progress.
type AlwaysAdmissible struct{}

func (AlwaysAdmissible) HasItem(*worldmodel.Item) bool         { return true }
func (AlwaysAdmissible) TaskDone(*worldmodel.Task) bool        { return true }
func (AlwaysAdmissible) ForcesBlockingLeave(*worldmodel.Room) bool { return false }
