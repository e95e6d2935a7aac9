package world

import (
	"context"
	"fmt"

	"github.com/ifm/ifm/pkg/diag"
	"github.com/ifm/ifm/pkg/mapbuild"
	"github.com/ifm/ifm/pkg/packer"
	"github.com/ifm/ifm/pkg/planner"
	"github.com/ifm/ifm/pkg/reach"
	"github.com/ifm/ifm/pkg/tagresolve"
	"github.com/ifm/ifm/pkg/worldmodel"
)

// Default page bounds used when packing map sections: generous enough
// that realistic section counts merge onto a handful of roughly-square
// pages rather than one page per section; larger than the 20x20 and
// 50x50 bounds the packer's own tests use.
const (
	defaultPageWidth  = 200
	defaultPageHeight = 200
	defaultPageRatio  = 1.0
)

// Artifact is the complete output of a generation run: the map's
// sections, the pages they were packed onto, and the solved
// walkthrough — per SPEC_FULL.md §6.2, grounded on dungeon.Artifact's
// flat struct-of-stage-outputs shape.
type Artifact struct {
	Sections    []*mapbuild.Section
	Pages       []*packer.Page
	Walkthrough []*planner.ExecutedStep
	Score       int
}

// Generate runs the full pipeline — tag resolution, finish-tag overlay,
// map building, page packing, reach-graph construction, and planning —
// over a declaration, per the entry point signature required by
// SPEC_FULL.md §5 and grounded on dungeon.DefaultGenerator.Generate's
// per-stage cancellation pattern.
func Generate(ctx context.Context, decl *worldmodel.WorldDecl, vars *Variables) (*Artifact, error) {
	if decl == nil {
		return nil, fmt.Errorf("nil world declaration")
	}
	if vars == nil {
		vars = DefaultVariables()
	}
	if err := decl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid world declaration: %w", err)
	}
	if err := vars.Validate(); err != nil {
		return nil, fmt.Errorf("invalid variables: %w", err)
	}
	vars = FromDeclVariables(vars, decl.Variables)

	rep := diag.NewReporter(nil, vars.SolverMessages, 0)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	tables := tagresolve.Resolve(decl, rep)
	if rep.ErrorCount() > 0 {
		return nil, fmt.Errorf("tag resolution failed: %s", firstError(rep))
	}

	applyFinishTags(tables, vars)
	applyDisplayNames(decl, vars)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	mapResult := mapbuild.Build(decl, rep)
	if rep.ErrorCount() > 0 {
		return nil, fmt.Errorf("map build failed: %s", firstError(rep))
	}

	pages := packer.Pack(mapResult.Sections, vars.MapSectionSpacing, defaultPageWidth, defaultPageHeight, defaultPageRatio)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	graph := reach.Build(decl, rep)
	if rep.ErrorCount() > 0 {
		return nil, fmt.Errorf("reach graph build failed: %s", firstError(rep))
	}

	arena := planner.Setup(decl, rep)
	if rep.ErrorCount() > 0 {
		return nil, fmt.Errorf("planner setup failed: %s", firstError(rep))
	}
	if err := planner.CheckCycles(arena, rep); err != nil {
		return nil, fmt.Errorf("precedence check failed: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result, err := planner.Solve(decl, arena, graph, rep, planner.Options{
		MaxIterations:   vars.MaxSolverIterations,
		AllSafe:         vars.AllTasksSafe,
		KeepUnusedItems: vars.KeepUnusedItems,
	})
	if err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}
	if result.Failed {
		return nil, fmt.Errorf("no walkthrough found: %s", result.FailReason)
	}

	return &Artifact{
		Sections:    mapResult.Sections,
		Pages:       pages,
		Walkthrough: result.Walkthrough,
		Score:       result.Score,
	}, nil
}

// applyFinishTags sets the Finish flag on every room/item/task named by
// the finish-room/finish-item/finish-task variables — the "extra
// finishing event" feature supplemented from the original solver's
// mark_finishing logic, applied once after tag resolution so the tags
// name already-declared objects.
func applyFinishTags(tables *tagresolve.Tables, vars *Variables) {
	for _, tag := range vars.FinishRoomTags {
		if r, ok := tables.Rooms[tag]; ok {
			r.Finish = true
		}
	}
	for _, tag := range vars.FinishItemTags {
		if it, ok := tables.Items[tag]; ok {
			it.FinishOnPickup = true
		}
	}
	for _, tag := range vars.FinishTaskTags {
		if t, ok := tables.Tasks[tag]; ok {
			t.Finish = true
		}
	}
}

// applyDisplayNames computes each room's DisplayName: join markers
// (when ShowJoins) followed by a tag suffix (when ShowTags), grounded
// directly on the original solver's setup_room_names. Both endpoints of
// a given join receive the same marker; markers are assigned in
// declaration order as either sequential numbers ("(1)", "(2)", ...)
// or letters ("(A)", "(B)", ...) per JoinFormat.
func applyDisplayNames(decl *worldmodel.WorldDecl, vars *Variables) {
	if vars.ShowJoins {
		jnum := 0
		for _, j := range decl.Joins {
			from, to := j.From.Get(), j.To.Get()
			if from == nil || to == nil {
				continue
			}
			var tag string
			if vars.JoinFormat == "alpha" {
				tag = fmt.Sprintf(" (%c)", 'A'+jnum)
				jnum++
			} else {
				jnum++
				tag = fmt.Sprintf(" (%d)", jnum)
			}
			appendDisplayName(from, tag)
			appendDisplayName(to, tag)
		}
	}

	for _, r := range decl.Rooms {
		if r.DisplayName == "" {
			r.DisplayName = r.Description
		}
	}

	if vars.ShowTags {
		for _, r := range decl.Rooms {
			if r.Tag != "" {
				r.DisplayName = fmt.Sprintf("%s [%s]", r.DisplayName, r.Tag)
			}
		}
	}
}

func appendDisplayName(r *worldmodel.Room, suffix string) {
	base := r.DisplayName
	if base == "" {
		base = r.Description
	}
	r.DisplayName = base + suffix
}

func firstError(rep *diag.Reporter) string {
	for _, m := range rep.Messages() {
		if m.Severity >= diag.Error {
			return m.Text
		}
	}
	return "unknown error"
}
