// Package world carries the variable/config layer and the top-level
// orchestration entry point, the two ambient pieces SPEC_FULL.md §2 adds
// beyond the distilled eight components: a YAML-loadable settings object
// (grounded on dungeon.Config) and a Generate function that wires tag
// resolution, map building, section packing, reach-graph construction,
// and planning into one call (grounded on dungeon.DefaultGenerator.
// Generate's pipeline shape).
package world

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Variables is the boolean/integer/string settings object described by
// spec.md §6.3, loaded once at the top level and threaded through
// Generate — the explicit world context called for by SPEC_FULL.md §9
// in place of global state.
type Variables struct {
	// AllTasksSafe treats every non-invalid planner step as SAFE,
	// disabling the UNSAFE-fallback deferral (§4.7.3's override).
	AllTasksSafe bool `yaml:"allTasksSafe" json:"allTasksSafe"`
	// KeepUnusedItems suppresses the drop-unneeded phase entirely: every
	// picked-up item stays carried for the rest of the walkthrough.
	KeepUnusedItems bool `yaml:"keepUnusedItems" json:"keepUnusedItems"`
	// ShowTags and ShowJoins control whether Generate decorates each
	// room's DisplayName with a "[tag]" suffix and/or join markers (see
	// applyDisplayNames); JoinFormat below selects the join marker style.
	ShowTags  bool `yaml:"showTags" json:"showTags"`
	ShowJoins bool `yaml:"showJoins" json:"showJoins"`

	// SolverMessages is the diagnostic verbosity level passed to
	// diag.NewReporter.
	SolverMessages int `yaml:"solverMessages" json:"solverMessages"`
	// MapSectionSpacing is the padding, in grid units, packer.Pack
	// inserts between merged sections.
	MapSectionSpacing int `yaml:"mapSectionSpacing" json:"mapSectionSpacing"`
	// MaxSolverIterations bounds the solve loop (§5's hard step budget);
	// 0 means "use the planner's own default."
	MaxSolverIterations int `yaml:"maxSolverIterations" json:"maxSolverIterations"`

	// JoinFormat is either "numeric" or "alpha": the style of join marker
	// applyDisplayNames appends to a room's DisplayName when ShowJoins is
	// set ("(1)", "(2)", ... vs "(A)", "(B)", ...).
	JoinFormat string `yaml:"joinFormat" json:"joinFormat"`

	// FinishRoomTags, FinishItemTags, FinishTaskTags name already-declared
	// rooms/items/tasks whose Finish flag should be set after tag
	// resolution — mark_finishing's three independent "extra finishing
	// event" variables from the original solver, folded in here per
	// SPEC_FULL.md's supplemented-features section.
	FinishRoomTags []string `yaml:"finishRoomTags" json:"finishRoomTags"`
	FinishItemTags []string `yaml:"finishItemTags" json:"finishItemTags"`
	FinishTaskTags []string `yaml:"finishTaskTags" json:"finishTaskTags"`
}

// DefaultVariables returns the zero-value-safe defaults: nothing forced
// safe, items dropped when unneeded, no extra finish tags, numeric join
// display.
func DefaultVariables() *Variables {
	return &Variables{
		SolverMessages:      0,
		MapSectionSpacing:   1,
		MaxSolverIterations: 0,
		JoinFormat:          "numeric",
	}
}

// LoadVariables reads and validates a YAML variables file.
func LoadVariables(path string) (*Variables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading variables file: %w", err)
	}
	return LoadVariablesFromBytes(data)
}

// LoadVariablesFromBytes parses YAML variables from a byte slice, useful
// for tests and programmatic config generation.
func LoadVariablesFromBytes(data []byte) (*Variables, error) {
	v := DefaultVariables()
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return v, nil
}

// Validate checks the variable set for internally-consistent values.
func (v *Variables) Validate() error {
	if v.SolverMessages < 0 {
		return errors.New("solverMessages must be >= 0")
	}
	if v.MapSectionSpacing < 0 {
		return errors.New("mapSectionSpacing must be >= 0")
	}
	if v.MaxSolverIterations < 0 {
		return errors.New("maxSolverIterations must be >= 0")
	}
	switch v.JoinFormat {
	case "", "numeric", "alpha":
	default:
		return fmt.Errorf("joinFormat must be \"numeric\" or \"alpha\", got %q", v.JoinFormat)
	}
	return nil
}

// ToYAML serializes the variable set to YAML bytes.
func (v *Variables) ToYAML() ([]byte, error) {
	return yaml.Marshal(v)
}

// parseTagList splits a comma-separated tag list variable (spec.md §6.3's
// "comma-separated tag lists" encoding for finish-room/finish-item/
// finish-task) into trimmed, non-empty tags.
func parseTagList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseIntVar parses a decimal integer variable, returning def on a
// blank or malformed value.
func parseIntVar(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// parseBoolVar parses a boolean variable using Go's usual boolean
// spellings, returning def on a blank or malformed value.
func parseBoolVar(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

// FromDeclVariables overlays the raw string-keyed Variables map a parser
// attaches to a WorldDecl (worldmodel.WorldDecl.Variables) onto a base
// Variables value, following spec.md §6.3's boolean/integer/string
// variable list. Unrecognized keys are ignored.
func FromDeclVariables(base *Variables, raw map[string]string) *Variables {
	v := *base
	if s, ok := raw["all-tasks-safe"]; ok {
		v.AllTasksSafe = parseBoolVar(s, v.AllTasksSafe)
	}
	if s, ok := raw["keep-unused-items"]; ok {
		v.KeepUnusedItems = parseBoolVar(s, v.KeepUnusedItems)
	}
	if s, ok := raw["show-tags"]; ok {
		v.ShowTags = parseBoolVar(s, v.ShowTags)
	}
	if s, ok := raw["show-joins"]; ok {
		v.ShowJoins = parseBoolVar(s, v.ShowJoins)
	}
	if s, ok := raw["solver-messages"]; ok {
		v.SolverMessages = parseIntVar(s, v.SolverMessages)
	}
	if s, ok := raw["map-section-spacing"]; ok {
		v.MapSectionSpacing = parseIntVar(s, v.MapSectionSpacing)
	}
	if s, ok := raw["join-format"]; ok && s != "" {
		v.JoinFormat = s
	}
	if s, ok := raw["finish-room"]; ok {
		v.FinishRoomTags = parseTagList(s)
	}
	if s, ok := raw["finish-item"]; ok {
		v.FinishItemTags = parseTagList(s)
	}
	if s, ok := raw["finish-task"]; ok {
		v.FinishTaskTags = parseTagList(s)
	}
	return &v
}
