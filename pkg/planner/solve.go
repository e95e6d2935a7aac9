package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ifm/ifm/pkg/diag"
	"github.com/ifm/ifm/pkg/pathfind"
	"github.com/ifm/ifm/pkg/reach"
	"github.com/ifm/ifm/pkg/worldmodel"
)

// ExecutedStep is one line of the produced walkthrough: a MOVE, GET,
// DROP, GOTO, or USER action, with the command list a player would type,
// the room it happens in, its score contribution, and human-readable
// notes (per SPEC_FULL.md §6.2: "finishes the game", "gives X", and
// similar call-outs).
type ExecutedStep struct {
	Kind        Kind
	Description string
	Commands    []string
	Room        *worldmodel.Room
	ScoreDelta  int
	Notes       []string
}

// Result is the outcome of a solve: the walkthrough (if one was found),
// the total score, and failure details otherwise.
type Result struct {
	Walkthrough []*ExecutedStep
	Score       int
	Failed      bool
	FailReason  string
}

// Options configures a solve run.
type Options struct {
	// MaxIterations bounds the solve loop so a malformed world cannot
	// loop forever (the hard step budget of SPEC_FULL.md §5).
	MaxIterations int
	// AllSafe, when true, treats every non-invalid step as SAFE
	// (the "all-tasks-safe override" of §4.7.3).
	AllSafe bool
	// KeepUnusedItems, when true, suppresses the drop-unneeded phase
	// entirely: every picked-up item stays carried for the rest of the
	// walkthrough instead of being dropped once nothing still wants it.
	KeepUnusedItems bool
}

// Solve performs SPEC_FULL.md §4.7.3: the five-phase solve loop that
// walks the declaration's start room to completion, producing a
// deterministic walkthrough.
//
// Grounded on validation.SimulateExploration's BFS-with-capability-
// collection loop, generalized from "collect capabilities, expand
// frontier" to "update SORT keys, classify each undone step, execute the
// first SAFE one," and on ifm-task.c's solve_task/drop_item pair for the
// drop-and-recover mechanics.
func Solve(decl *worldmodel.WorldDecl, a *Arena, g *reach.Graph, rep *diag.Reporter, opts Options) (*Result, error) {
	start := decl.StartRoom()
	if start == nil {
		return nil, fmt.Errorf("no rooms declared")
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 10000
	}

	v := newLiveState(start)
	itemRoom := map[*worldmodel.Item]*worldmodel.Room{}
	for _, it := range decl.Items {
		if it.HeldAtStart || it.StartRoom.Get() == nil {
			v.taken[it] = true
			if s := a.GetStep(it); s != nil {
				s.Done = true
			}
		} else {
			itemRoom[it] = it.StartRoom.Get()
		}
	}

	engine := pathfind.NewEngine(g)
	engine.UseCache(true)

	result := &Result{}
	score := 0
	completed := false

	for iter := 0; iter < opts.MaxIterations; iter++ {
		engine.BumpGeneration()

		updateDistances(a, v, itemRoom, engine)
		if !opts.KeepUnusedItems {
			dropUnneeded(a, v, itemRoom, rep, &result.Walkthrough)
		}

		chosen := pickNext(a, v, itemRoom, engine, opts.AllSafe)
		if chosen == nil {
			if hasUndoneRequired(a) {
				result.Failed = true
				result.FailReason = describeFailure(a, v.location)
				result.Score = score
				return result, nil
			}
			completed = true
			break
		}

		finished := executeStep(a, chosen, v, itemRoom, engine, rep, &result.Walkthrough, &score)
		if finished {
			completed = true
			break
		}
	}

	if !completed {
		result.Failed = true
		result.FailReason = fmt.Sprintf("solver exceeded %d iterations; final location %s", opts.MaxIterations, v.location)
	}
	result.Score = score
	return result, nil
}

// stepRoom returns the room a step is defined relative to: the GOTO
// target, the current location of a not-yet-taken item, or a task's
// declared location (nil if the task is not tied to any room).
func stepRoom(s *Step, itemRoom map[*worldmodel.Item]*worldmodel.Room) *worldmodel.Room {
	switch s.Kind {
	case Goto:
		return s.Room
	case Get:
		return itemRoom[s.Item]
	case User:
		if s.Task.NoRoom {
			return nil
		}
		return s.Task.Location.Get()
	default:
		return nil
	}
}

func updateDistances(a *Arena, v *liveState, itemRoom map[*worldmodel.Item]*worldmodel.Room, engine *pathfind.Engine) {
	for _, s := range a.Steps {
		if !s.Active || s.Done || s.Ignore {
			continue
		}
		target := stepRoom(s, itemRoom)
		if target == nil || target == v.location {
			s.Dist = 0
		} else if d, ok := engine.PathLength(v.location, target, v); ok {
			s.Dist = d
		} else {
			s.Dist = -1
		}
		tie := 0
		if s.Kind == Get {
			tie = 1
		}
		if s.Dist < 0 {
			s.Sort = 1 << 30
		} else {
			s.Sort = 2*s.Dist + tie
		}
	}
}

func dependsDone(s *Step, a *Arena) bool {
	for _, d := range s.Depend {
		if !a.Steps[d].Done {
			return false
		}
	}
	return true
}

func sortedActiveSteps(a *Arena) []*Step {
	steps := append([]*Step(nil), a.Steps...)
	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].Sort != steps[j].Sort {
			return steps[i].Sort < steps[j].Sort
		}
		return steps[i].DeclOrder < steps[j].DeclOrder
	})
	return steps
}

// pickNext scans steps in current SORT order, classifying each as
// INVALID/IGNORED/SAFE/UNSAFE and returns the first SAFE step, or the
// first UNSAFE one as a fallback if no SAFE step exists.
func pickNext(a *Arena, v *liveState, itemRoom map[*worldmodel.Item]*worldmodel.Room, engine *pathfind.Engine, allSafe bool) *Step {
	var fallback *Step
	for _, s := range sortedActiveSteps(a) {
		if s.Done || s.Ignore || !s.Active {
			continue
		}
		if s.Optional && s.Kind == Get && !wanted(a, v, s.Item) {
			continue // optional recovery of an item nothing wants any more
		}
		if !dependsDone(s, a) {
			continue // INVALID: unmet precedence
		}
		if s.Dist < 0 {
			continue // INVALID: no path
		}

		target := stepRoom(s, itemRoom)
		returnOK := true
		if target != nil && target != v.location {
			_, returnOK = engine.PathLength(target, v.location, v)
		}
		if !returnOK {
			continue
		}

		if allSafe || s.Unsafe == "" {
			return s
		}
		if fallback == nil {
			fallback = s
		}
	}
	return fallback
}

func hasUndoneRequired(a *Arena) bool {
	for _, s := range a.Steps {
		if s.Active && !s.Done && !s.Ignore && !s.Optional {
			return true
		}
	}
	return false
}

func describeFailure(a *Arena, location *worldmodel.Room) string {
	var reasons []string
	for _, s := range a.Steps {
		if !s.Active || s.Done || s.Ignore || s.Optional {
			continue
		}
		reason := "unreachable"
		if !dependsDone(s, a) {
			reason = "unmet predecessor"
		} else if s.Dist < 0 {
			reason = "no path"
		}
		reasons = append(reasons, fmt.Sprintf("%s (%s)", s, reason))
	}
	return fmt.Sprintf("could not complete: %s; final location %s", strings.Join(reasons, "; "), location)
}

// wanted reports whether it should stay in inventory: needed for paths,
// unconditionally kept, kept alongside a still-held item, kept until an
// unfinished task, or still named by an undone step's NEED list.
func wanted(a *Arena, v *liveState, it *worldmodel.Item) bool {
	if a.ItemNeeded(it) {
		return true
	}
	if it.Keep {
		return true
	}
	for _, ref := range it.KeepWith {
		if kw := ref.Get(); kw != nil && v.taken[kw] {
			return true
		}
	}
	for _, ref := range it.KeepUntil {
		if t := ref.Get(); t != nil && !v.done[t] {
			return true
		}
	}
	for _, s := range a.ItemTasks(it) {
		if !s.Done {
			return true
		}
	}
	return false
}

func dropUnneeded(a *Arena, v *liveState, itemRoom map[*worldmodel.Item]*worldmodel.Room, rep *diag.Reporter, walkthrough *[]*ExecutedStep) {
	for _, s := range a.Steps {
		if s.Kind != Get {
			continue
		}
		it := s.Item
		if !v.taken[it] || wanted(a, v, it) {
			continue
		}
		dropItem(a, it, v.location, nil, v, itemRoom, rep, walkthrough)
	}
}

// dropItem drops it in room, recording the recovery GET step as
// reusable/optional and wiring DEPEND edges from any until tasks that
// must complete before the item may be recovered.
func dropItem(a *Arena, it *worldmodel.Item, room *worldmodel.Room, until []*worldmodel.Task, v *liveState, itemRoom map[*worldmodel.Item]*worldmodel.Room, rep *diag.Reporter, walkthrough *[]*ExecutedStep) {
	if !v.taken[it] {
		return
	}
	v.taken[it] = false
	itemRoom[it] = room
	rep.Debugf(3, "drop item: %s", it.Description)
	*walkthrough = append(*walkthrough, &ExecutedStep{
		Kind:        Drop,
		Description: fmt.Sprintf("drop %s", it.Description),
		Room:        room,
	})

	getStep := a.GetStep(it)
	if getStep == nil {
		return
	}
	getStep.Done = false
	getStep.Active = true
	getStep.Optional = true
	for _, t := range until {
		utStep := a.UserStep(t)
		if !utStep.Done {
			addDependOnce(getStep, utStep)
		}
	}
}

// dropByRoomRules applies a room's own leave/leaveall requirement on
// entry, dropping whichever carried items it names (or, under LEAVEALL,
// every carried item except the exemptions).
func dropByRoomRules(a *Arena, room *worldmodel.Room, v *liveState, itemRoom map[*worldmodel.Item]*worldmodel.Room, rep *diag.Reporter, walkthrough *[]*ExecutedStep) {
	if len(room.Leave) == 0 && !room.LeaveAll {
		return
	}
	for _, it := range dropSet(a, v, room.Leave, room.LeaveAll) {
		dropItem(a, it, room, nil, v, itemRoom, rep, walkthrough)
	}
}

func dropSetFromRecord(a *Arena, v *liveState, rec *reach.ReachRecord) []*worldmodel.Item {
	if len(rec.Leave) == 0 && !rec.LeaveAll {
		return nil
	}
	refs := append([]*worldmodel.Item(nil), rec.Leave...)
	return dropSetFromResolved(a, v, refs, rec.LeaveAll)
}

func dropSet(a *Arena, v *liveState, refs []worldmodel.Ref[worldmodel.Item], leaveAll bool) []*worldmodel.Item {
	var resolved []*worldmodel.Item
	for _, ref := range refs {
		if it := ref.Get(); it != nil {
			resolved = append(resolved, it)
		}
	}
	return dropSetFromResolved(a, v, resolved, leaveAll)
}

// dropSetFromResolved returns, in declaration order, the items that must
// be dropped: when leaveAll is set, every currently-held item except the
// ones named; otherwise exactly the named, currently-held items.
func dropSetFromResolved(a *Arena, v *liveState, named []*worldmodel.Item, leaveAll bool) []*worldmodel.Item {
	var out []*worldmodel.Item
	if !leaveAll {
		for _, it := range named {
			if v.taken[it] {
				out = append(out, it)
			}
		}
		return out
	}
	exempt := map[*worldmodel.Item]bool{}
	for _, it := range named {
		exempt[it] = true
	}
	for _, s := range a.Steps {
		if s.Kind != Get {
			continue
		}
		if v.taken[s.Item] && !exempt[s.Item] {
			out = append(out, s.Item)
		}
	}
	return out
}

func executeStep(a *Arena, chosen *Step, v *liveState, itemRoom map[*worldmodel.Item]*worldmodel.Room, engine *pathfind.Engine, rep *diag.Reporter, walkthrough *[]*ExecutedStep, score *int) bool {
	target := stepRoom(chosen, itemRoom)
	if target != nil && target != v.location {
		path := engine.PathInfo(v.location, target, v)
		if path != nil {
			for i := 1; i < len(path.Rooms); i++ {
				rec := path.Records[i-1]
				for _, it := range dropSetFromRecord(a, v, rec) {
					dropItem(a, it, v.location, nil, v, itemRoom, rep, walkthrough)
				}
				v.location = path.Rooms[i]
				engine.BumpGeneration()
				dropByRoomRules(a, v.location, v, itemRoom, rep, walkthrough)
				rep.Debugf(3, "move to: %s", v.location.Description)
				*walkthrough = append(*walkthrough, &ExecutedStep{
					Kind:        Move,
					Description: fmt.Sprintf("move to %s", v.location.Description),
					Commands:    rec.Commands,
					Room:        v.location,
				})
			}
		}
	}

	finished := false
	switch chosen.Kind {
	case Goto:
		chosen.Done = true
		*score += chosen.Room.Score
		rep.Debugf(2, "do task: go to %s", chosen.Room.Description)
		var notes []string
		if chosen.Room.Finish {
			finished = true
			notes = append(notes, "finishes the game")
		}
		*walkthrough = append(*walkthrough, &ExecutedStep{
			Kind:        Goto,
			Description: chosen.String(),
			Room:        chosen.Room,
			ScoreDelta:  chosen.Room.Score,
			Notes:       notes,
		})
	case Get:
		v.taken[chosen.Item] = true
		delete(itemRoom, chosen.Item)
		chosen.Done = true
		delta := 0
		if !chosen.Optional {
			delta = chosen.Item.Score
			*score += delta
		}
		rep.Debugf(2, "do task: get %s", chosen.Item.Description)
		var notes []string
		if chosen.Item.FinishOnPickup {
			finished = true
			notes = append(notes, "finishes the game")
		}
		*walkthrough = append(*walkthrough, &ExecutedStep{
			Kind:        Get,
			Description: chosen.String(),
			Room:        v.location,
			ScoreDelta:  delta,
			Notes:       notes,
		})
	case User:
		finished = executeUserTask(a, chosen, v, itemRoom, rep, walkthrough, score)
	}

	engine.BumpGeneration()
	if v.location != nil && v.location.Finish {
		finished = true
	}
	return finished
}

func executeUserTask(a *Arena, step *Step, v *liveState, itemRoom map[*worldmodel.Item]*worldmodel.Room, rep *diag.Reporter, walkthrough *[]*ExecutedStep, score *int) bool {
	if step.Done {
		return false
	}
	step.Done = true
	v.done[step.Task] = true
	*score += step.Score
	delta := step.Score

	var notes []string
	for _, it := range step.GiveItems {
		if !v.taken[it] {
			*score += it.Score
			delta += it.Score
		}
		v.taken[it] = true
		delete(itemRoom, it)
		notes = append(notes, fmt.Sprintf("gives %s", it.Description))
	}
	for _, it := range step.LoseItems {
		v.taken[it] = false
	}

	rep.Debugf(2, "do task: %s", step.Task.Description)

	if len(step.DropItems) > 0 || step.DropAll {
		room := step.DropRoom
		if room == nil {
			room = v.location
		}
		for _, it := range dropSetFromResolved(a, v, step.DropItems, step.DropAll) {
			dropItem(a, it, room, step.DropUntil, v, itemRoom, rep, walkthrough)
		}
	}

	finished := step.Finish
	if finished {
		notes = append(notes, "finishes the game")
	}
	for _, ot := range step.DoTasks {
		otStep := a.UserStep(ot)
		if otStep.Done {
			continue
		}
		if executeUserTask(a, otStep, v, itemRoom, rep, walkthrough, score) {
			finished = true
		}
	}

	if step.GotoRoom != nil {
		v.location = step.GotoRoom
		rep.Debugf(2, "goto room: %s", step.GotoRoom.Description)
		notes = append(notes, fmt.Sprintf("moves you to %s", step.GotoRoom.Description))
	}

	*walkthrough = append(*walkthrough, &ExecutedStep{
		Kind:        User,
		Description: step.Task.Description,
		Commands:    step.Task.Commands,
		Room:        stepRoom(step, itemRoom),
		ScoreDelta:  delta,
		Notes:       notes,
	})

	if finished {
		return true
	}
	if v.location != nil && v.location.Finish {
		return true
	}
	return false
}
