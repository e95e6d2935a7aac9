package worldmodel

import (
	"fmt"

	"github.com/ifm/ifm/pkg/direction"
)

// linkRequirements are the fields mirrored by Link, Join, and Reach edges:
// the declared preconditions and side effects of traversing a connection.
type linkRequirements struct {
	Need     []Ref[Item] `json:"-"`
	Before   []Ref[Task] `json:"-"`
	After    []Ref[Task] `json:"-"`
	Leave    []Ref[Item] `json:"-"`
	LeaveAll bool        `json:"-"`
}

// Link is a directional, grid-traceable connection between two rooms.
type Link struct {
	ID  int    `json:"id"`
	Tag string `json:"tag,omitempty"`

	From Ref[Room] `json:"-"`
	To   Ref[Room] `json:"-"`

	// OneWay means this link may only be traversed From->To; no reverse
	// reach record is generated for it.
	OneWay bool `json:"oneWay"`

	// Directions is the declared sequence of grid steps from From to To.
	Directions []direction.Direction `json:"-"`

	// CmdForward/CmdReverse are the player command strings for each
	// direction of travel. If a bidirectional link supplies CmdForward
	// but not CmdReverse, the reverse list copies CmdForward verbatim
	// (the Open Question pinned down in SPEC_FULL.md §9).
	CmdForward []string `json:"cmdForward,omitempty"`
	CmdReverse []string `json:"cmdReverse,omitempty"`

	// Length is the traversal cost; 0 means "unspecified", and callers
	// must treat it as 1 (EffectiveLength does this).
	Length int `json:"length"`

	linkRequirements

	// Styles names the style blocks applied to this link, carried
	// opaquely through map building for a renderer to interpret.
	Styles []string `json:"styles,omitempty"`

	// Derived fields, filled in by the map builder:
	PolylineX []int               `json:"-"`
	PolylineY []int               `json:"-"`
	InitialDir direction.Direction `json:"-"`
	FinalDir   direction.Direction `json:"-"`
	// Loop marks a canonicalized circular one-way link (same source and
	// target, single declared direction out and back).
	Loop bool `json:"-"`
}

// EffectiveLength returns the declared length, or 1 if unspecified.
func (l *Link) EffectiveLength() int {
	if l.Length <= 0 {
		return 1
	}
	return l.Length
}

// ReverseCommands returns the command list for the To->From direction,
// falling back to CmdForward when CmdReverse was not declared.
func (l *Link) ReverseCommands() []string {
	if len(l.CmdReverse) > 0 {
		return l.CmdReverse
	}
	return l.CmdForward
}

// Validate checks structural well-formedness of a declared link.
func (l *Link) Validate() error {
	if l.Length < 0 {
		return fmt.Errorf("link %d: length must be >= 0, got %d", l.ID, l.Length)
	}
	return nil
}

// String returns a human-readable representation of the link.
func (l *Link) String() string {
	arrow := "<->"
	if l.OneWay {
		arrow = "->"
	}
	tag := l.Tag
	if tag == "" {
		tag = fmt.Sprintf("#%d", l.ID)
	}
	return fmt.Sprintf("Link[%s: %s %s %s]", tag, l.From, arrow, l.To)
}

// Join connects two rooms, possibly in different sections, without a grid
// path. It is identical to Link in every respect the reach graph cares
// about, but carries no polyline and is never placed on the map.
type Join struct {
	ID  int    `json:"id"`
	Tag string `json:"tag,omitempty"`

	From Ref[Room] `json:"-"`
	To   Ref[Room] `json:"-"`

	OneWay bool `json:"oneWay"`

	CmdForward []string `json:"cmdForward,omitempty"`
	CmdReverse []string `json:"cmdReverse,omitempty"`

	Length int `json:"length"`

	linkRequirements
}

// EffectiveLength returns the declared length, or 1 if unspecified.
func (j *Join) EffectiveLength() int {
	if j.Length <= 0 {
		return 1
	}
	return j.Length
}

// ReverseCommands returns the command list for the To->From direction,
// falling back to CmdForward when CmdReverse was not declared.
func (j *Join) ReverseCommands() []string {
	if len(j.CmdReverse) > 0 {
		return j.CmdReverse
	}
	return j.CmdForward
}

// Validate checks structural well-formedness of a declared join.
func (j *Join) Validate() error {
	if j.Length < 0 {
		return fmt.Errorf("join %d: length must be >= 0, got %d", j.ID, j.Length)
	}
	return nil
}

// String returns a human-readable representation of the join.
func (j *Join) String() string {
	arrow := "<->"
	if j.OneWay {
		arrow = "->"
	}
	tag := j.Tag
	if tag == "" {
		tag = fmt.Sprintf("#%d", j.ID)
	}
	return fmt.Sprintf("Join[%s: %s %s %s]", tag, j.From, arrow, j.To)
}
