package planner

import (
	"fmt"

	"github.com/ifm/ifm/pkg/worldmodel"
)

// Kind identifies which of the five step variants a Step represents.
type Kind int

const (
	Goto Kind = iota
	Get
	User
	Move
	Drop
)

// String names the kind, used in step descriptions and diagnostics.
func (k Kind) String() string {
	switch k {
	case Goto:
		return "GOTO"
	case Get:
		return "GET"
	case User:
		return "USER"
	case Move:
		return "MOVE"
	case Drop:
		return "DROP"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Step is the planner's unit of work: one of {MOVE, GET, DROP, GOTO,
// USER}. DEPEND/ALLOW adjacency is stored as arena indices rather than
// pointers, per the step-arena design noted in SPEC_FULL.md §9, so the
// step graph stays a plain slice with no cycles in its Go representation
// even while the logical DEPEND graph may (invalidly) contain one.
type Step struct {
	ID   int
	Kind Kind

	Room *worldmodel.Room // GOTO target, MOVE destination
	Item *worldmodel.Item // GET/DROP subject
	Task *worldmodel.Task // USER subject

	Score  int
	Finish bool
	// Unsafe names the reason this step permanently closes something off
	// ("closes off room", "closes off link", "loses item needed for
	// paths"); empty means safe.
	Unsafe string
	Ignore bool // user-asserted: never schedule this step
	Optional bool
	// Active reports whether this step is in the schedulable set: every
	// room/item step object exists so it can be a DEPEND target, but
	// only scored/finish ones (or ones later referenced by an ordering
	// edge) are eligible for the solve loop to pick.
	Active bool

	// Next/Previous wire a follow-chain: Next.Previous == this step's
	// anchor relationship, set up during Setup.
	Next     *Step
	Previous *Step

	Depend []int // predecessor step IDs that must be Done first
	Allow  []int // steps this step's completion unblocks (walked by kahnSort)

	// USER-step side effects, resolved once during Setup.
	GetItems  []*worldmodel.Item
	GiveItems []*worldmodel.Item
	LoseItems []*worldmodel.Item
	DropItems []*worldmodel.Item
	DropAll   bool
	DropUntil []*worldmodel.Task
	DropRoom  *worldmodel.Room
	DoTasks   []*worldmodel.Task
	GotoRoom  *worldmodel.Room

	// DeclOrder is the stable tie-break key: steps are scanned in
	// (Sort, DeclOrder) order so identical world state always produces
	// the same walkthrough.
	DeclOrder int

	// Live solver fields, recomputed every solve iteration.
	Done bool
	Dist int
	Sort int
}

// String returns a human-readable description of the step, used both for
// diagnostics and as the walkthrough's per-step narration.
func (s *Step) String() string {
	switch s.Kind {
	case Goto:
		return fmt.Sprintf("go to %s", s.Room)
	case Get:
		return fmt.Sprintf("get %s", s.Item)
	case User:
		return s.Task.Description
	case Move:
		return fmt.Sprintf("move to %s", s.Room)
	case Drop:
		return fmt.Sprintf("drop %s", s.Item)
	default:
		return "?"
	}
}

// Arena owns every step created during Setup, indexed by ID, plus the
// lookup tables Setup and the solve loop use to find a room's GOTO step,
// an item's GET step, and a task's USER step.
type Arena struct {
	Steps []*Step

	gotoByRoom map[*worldmodel.Room]*Step
	getByItem  map[*worldmodel.Item]*Step
	userByTask map[*worldmodel.Task]*Step

	// itemNeeded records every item referenced by a room/link/join/task
	// NEED list: "needed for paths" in the WANTED computation of the
	// solve loop's drop-unneeded phase.
	itemNeeded map[*worldmodel.Item]bool

	// itemTasks records, for each item, the steps whose NEED list named
	// it (populated from item.need and task.need) — "needed for at
	// least one [undone] task" in the WANTED computation.
	itemTasks map[*worldmodel.Item][]*Step
}

func newArena() *Arena {
	return &Arena{
		gotoByRoom: map[*worldmodel.Room]*Step{},
		getByItem:  map[*worldmodel.Item]*Step{},
		userByTask: map[*worldmodel.Task]*Step{},
	}
}

func (a *Arena) add(s *Step) *Step {
	s.ID = len(a.Steps)
	a.Steps = append(a.Steps, s)
	return s
}

// GotoStep returns the synthesized GOTO step for r, if one exists.
func (a *Arena) GotoStep(r *worldmodel.Room) *Step { return a.gotoByRoom[r] }

// GetStep returns the synthesized GET step for it, if one exists.
func (a *Arena) GetStep(it *worldmodel.Item) *Step { return a.getByItem[it] }

// UserStep returns the USER step for t. Every declared task always gets
// one, so this is never nil for a task that belongs to the declaration.
func (a *Arena) UserStep(t *worldmodel.Task) *Step { return a.userByTask[t] }

// ItemNeeded reports whether it was ever referenced by a room, link,
// join, or task NEED list — "needed for paths" in the solve loop's
// WANTED computation.
func (a *Arena) ItemNeeded(it *worldmodel.Item) bool { return a.itemNeeded[it] }

// ItemTasks returns the steps whose NEED list named it.
func (a *Arena) ItemTasks(it *worldmodel.Item) []*Step { return a.itemTasks[it] }
