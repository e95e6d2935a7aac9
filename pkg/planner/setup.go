package planner

import (
	"github.com/ifm/ifm/pkg/diag"
	"github.com/ifm/ifm/pkg/worldmodel"
)

// Setup performs SPEC_FULL.md §4.7.1: synthesize one step per room/item/
// task, wire follow-chains, and translate every declared list attribute
// into DEPEND/ALLOW edges and UNSAFE annotations, finishing with fixed-
// point UNSAFE propagation along follow-chains and do-triggers.
//
// Grounded directly on ifm-task.c's setup_tasks: every room and item
// always gets a step object (so it can be referenced as a DEPEND target
// even when never independently scheduled), only scored/finish rooms and
// items start in the active/schedulable set, and order_tasks's "walk the
// PREV chain" behavior is reproduced by orderTasks below.
func Setup(decl *worldmodel.WorldDecl, rep *diag.Reporter) *Arena {
	a := newArena()
	active := map[*Step]bool{}
	order := 0

	for _, r := range decl.Rooms {
		s := a.add(&Step{Kind: Goto, Room: r, Score: r.Score, Finish: r.Finish, DeclOrder: order})
		order++
		a.gotoByRoom[r] = s
		if r.Score != 0 || r.Finish {
			active[s] = true
		}
	}
	for _, it := range decl.Items {
		s := a.add(&Step{Kind: Get, Item: it, Score: it.Score, Finish: it.FinishOnPickup, DeclOrder: order})
		order++
		a.getByItem[it] = s
		if it.Score != 0 || it.FinishOnPickup {
			active[s] = true
		}
	}
	for _, t := range decl.Tasks {
		s := a.add(&Step{Kind: User, Task: t, Score: t.Score, Finish: t.Finish, Ignore: t.Ignore, DeclOrder: order})
		order++
		a.userByTask[t] = s
		active[s] = true
	}

	orderTasks := func(before, after *Step) {
		active[before] = true
		active[after] = true
		if before == after {
			return
		}
		for step := after; step != nil; step = step.Previous {
			if step == before {
				continue
			}
			addDependOnce(step, before)
		}
	}

	// Follow-chain wiring: at most one task may follow a given anchor.
	followedBy := map[*worldmodel.Task]*worldmodel.Task{}
	for _, t := range decl.Tasks {
		anchor := t.Follow.Get()
		if anchor == nil {
			continue
		}
		if existing, ok := followedBy[anchor]; ok {
			rep.Errorf(0, "tasks %q and %q both follow %q", existing.Description, t.Description, anchor.Description)
			continue
		}
		followedBy[anchor] = t
		anchorStep, tStep := a.UserStep(anchor), a.UserStep(t)
		anchorStep.Next = tStep
		tStep.Previous = anchorStep
		orderTasks(anchorStep, tStep)
	}

	itemNeeded := map[*worldmodel.Item]bool{}
	itemTasks := map[*worldmodel.Item][]*Step{}

	// Rooms: need/before/after/leave.
	for _, r := range decl.Rooms {
		gotoStep := a.GotoStep(r)
		for _, ref := range r.Need {
			it := ref.Get()
			if it == nil {
				continue
			}
			itemNeeded[it] = true
			orderTasks(a.GetStep(it), gotoStep)
		}
		for _, ref := range r.Before {
			t := ref.Get()
			if t == nil {
				continue
			}
			setUnsafe(a.UserStep(t), "closes off room")
		}
		for _, ref := range r.After {
			t := ref.Get()
			if t == nil {
				continue
			}
			active[a.UserStep(t)] = true
		}
	}

	// Links and joins: need/before/after mirror the room rules, and feed
	// the admissibility view's reach records (pkg/reach) rather than the
	// step graph directly — but a NEED item still needs its GET step
	// made active and the task graph still needs to know it is used.
	for _, l := range decl.Links {
		markEdgeUses(l.Need, l.Before, l.After, itemNeeded, active, a)
	}
	for _, j := range decl.Joins {
		markEdgeUses(j.Need, j.Before, j.After, itemNeeded, active, a)
	}

	// Items: need/before/after.
	for _, it := range decl.Items {
		getStep := a.GetStep(it)
		for _, ref := range it.Need {
			need := ref.Get()
			if need == nil {
				continue
			}
			orderTasks(a.GetStep(need), getStep)
			itemTasks[need] = append(itemTasks[need], getStep)
		}
		for _, ref := range it.After {
			t := ref.Get()
			if t == nil {
				continue
			}
			orderTasks(a.UserStep(t), getStep)
		}
		for _, ref := range it.Before {
			t := ref.Get()
			if t == nil {
				continue
			}
			orderTasks(getStep, a.UserStep(t))
		}
	}

	// Tasks: need/get/give/after/lose/drop/do/goto.
	for _, t := range decl.Tasks {
		tStep := a.UserStep(t)
		first := tStep
		for first.Previous != nil {
			first = first.Previous
		}

		for _, ref := range t.Need {
			it := ref.Get()
			if it == nil {
				continue
			}
			itemNeeded[it] = true
			orderTasks(a.GetStep(it), first)
			itemTasks[it] = append(itemTasks[it], first)
		}
		for _, ref := range t.Get {
			it := ref.Get()
			if it == nil {
				continue
			}
			orderTasks(tStep, a.GetStep(it))
		}
		for _, ref := range t.Give {
			it := ref.Get()
			if it == nil {
				continue
			}
			orderTasks(tStep, a.GetStep(it))
		}
		for _, ref := range t.After {
			ot := ref.Get()
			if ot == nil {
				continue
			}
			orderTasks(a.UserStep(ot), tStep)
		}

		tStep.GetItems = resolveItemRefs(t.Get)
		tStep.GiveItems = resolveItemRefs(t.Give)
		tStep.LoseItems = resolveItemRefs(t.Lose)
		tStep.DropItems = resolveItemRefs(t.Drop)
		tStep.DropAll = t.DropAll
		tStep.DropUntil = resolveTaskRefs(t.DropUntil)
		tStep.DropRoom = t.DropRoom.Get()
		tStep.DoTasks = resolveTaskRefs(t.Do)
		tStep.GotoRoom = t.Goto.Get()
	}

	// Task 'lose': ordering plus UNSAFE when the lost item is needed.
	for _, t := range decl.Tasks {
		tStep := a.UserStep(t)
		for _, it := range tStep.LoseItems {
			if getStep := a.GetStep(it); getStep != nil {
				orderTasks(getStep, tStep)
			}
			if itemNeeded[it] {
				setUnsafe(tStep, "loses item needed for paths")
			}
		}
	}

	// Propagate UNSAFE along both follow-chains and do-triggers to a single
	// fixed point: either source can newly mark a step UNSAFE on any pass,
	// and a step marked UNSAFE by a do-trigger must still walk backward
	// through its own follow-chain predecessors, so the two rules cannot
	// run as separate one-shot passes.
	for changed := true; changed; {
		changed = false
		for _, t := range decl.Tasks {
			tStep := a.UserStep(t)
			if tStep.Previous != nil && tStep.Unsafe != "" && !t.Safe {
				for step := tStep.Previous; step != nil; step = step.Previous {
					if step.Unsafe == "" {
						setUnsafe(step, tStep.Unsafe)
						changed = true
					}
				}
			}
			if tStep.Unsafe != "" {
				continue
			}
			for _, ot := range tStep.DoTasks {
				if a.UserStep(ot).Unsafe != "" {
					setUnsafe(tStep, "does unsafe task")
					changed = true
					break
				}
			}
		}
	}

	a.itemNeeded = itemNeeded
	a.itemTasks = itemTasks
	for s := range active {
		s.Active = true
	}
	return a
}

func addDependOnce(from, to *Step) {
	for _, d := range from.Depend {
		if d == to.ID {
			return
		}
	}
	from.Depend = append(from.Depend, to.ID)
	to.Allow = append(to.Allow, from.ID)
}

func setUnsafe(s *Step, reason string) {
	if s.Unsafe == "" {
		s.Unsafe = reason
	}
}

func markEdgeUses(
	need []worldmodel.Ref[worldmodel.Item],
	before, after []worldmodel.Ref[worldmodel.Task],
	itemNeeded map[*worldmodel.Item]bool,
	active map[*Step]bool,
	a *Arena,
) {
	for _, ref := range need {
		if it := ref.Get(); it != nil {
			itemNeeded[it] = true
			if s := a.GetStep(it); s != nil {
				active[s] = true
			}
		}
	}
	for _, ref := range before {
		if t := ref.Get(); t != nil {
			setUnsafe(a.UserStep(t), "closes off link")
		}
	}
	for _, ref := range after {
		if t := ref.Get(); t != nil {
			active[a.UserStep(t)] = true
		}
	}
}

func resolveItemRefs(refs []worldmodel.Ref[worldmodel.Item]) []*worldmodel.Item {
	var out []*worldmodel.Item
	for _, r := range refs {
		if it := r.Get(); it != nil {
			out = append(out, it)
		}
	}
	return out
}

func resolveTaskRefs(refs []worldmodel.Ref[worldmodel.Task]) []*worldmodel.Task {
	var out []*worldmodel.Task
	for _, r := range refs {
		if t := r.Get(); t != nil {
			out = append(out, t)
		}
	}
	return out
}
