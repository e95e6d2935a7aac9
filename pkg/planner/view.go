package planner

import "github.com/ifm/ifm/pkg/worldmodel"

// liveState is the solver's mutable state — player location, the taken
// set, and each task's done flag — and doubles as the reach.
// AdmissibilityView the path engine consults. It is the only place this
// package keeps state that changes during solving, kept off the static
// worldmodel structs per SPEC_FULL.md §9's live/derived split.
type liveState struct {
	location *worldmodel.Room
	taken    map[*worldmodel.Item]bool
	done     map[*worldmodel.Task]bool

	// blockRoom and blockItem are consulted by ForcesBlockingLeave. No
	// code in the solver sets them, so they stay nil and
	// ForcesBlockingLeave reports false for every room during solving.
	blockRoom *worldmodel.Room
	blockItem *worldmodel.Item
}

func newLiveState(start *worldmodel.Room) *liveState {
	return &liveState{
		location: start,
		taken:    map[*worldmodel.Item]bool{},
		done:     map[*worldmodel.Task]bool{},
	}
}

func (v *liveState) HasItem(it *worldmodel.Item) bool { return v.taken[it] }
func (v *liveState) TaskDone(t *worldmodel.Task) bool { return v.done[t] }

func (v *liveState) ForcesBlockingLeave(r *worldmodel.Room) bool {
	if v.blockRoom == nil || r != v.blockRoom {
		return false
	}
	if r.LeaveAll {
		for _, ref := range r.Leave {
			if ref.Get() == v.blockItem {
				return false // exempted
			}
		}
		return true
	}
	for _, ref := range r.Leave {
		if ref.Get() == v.blockItem {
			return true
		}
	}
	return false
}
