package worldmodel

import (
	"fmt"

	"github.com/ifm/ifm/pkg/direction"
)

// Room is a node of the world: a place the player can stand in.
type Room struct {
	ID          int    `json:"id"`
	Tag         string `json:"tag,omitempty"`
	Description string `json:"description"`

	// Near and NearDir place this room relative to an already-placed room:
	// "this room lies NearDir of Near." The first room of each cluster has
	// no Near and is placed at (0,0) by the map builder.
	Near    Ref[Room]          `json:"-"`
	NearDir *direction.Direction `json:"-"`

	// Need lists items that must be in inventory to enter this room.
	Need []Ref[Item] `json:"-"`
	// Before lists tasks that must NOT yet be done to enter this room;
	// doing one of them closes the room off (UNSAFE, per SPEC_FULL.md §4.7).
	Before []Ref[Task] `json:"-"`
	// After lists tasks that must already be done to enter this room.
	After []Ref[Task] `json:"-"`
	// Leave lists items that must be dropped before entering. When
	// LeaveAll is set, Leave instead names the items EXEMPT from the
	// leave-everything rule.
	Leave    []Ref[Item] `json:"-"`
	LeaveAll bool        `json:"-"`

	// Score is awarded once the room is first entered during solving; a
	// nonzero score (or Finish) is what makes a room worth a synthesized
	// GOTO step (mirrors the original ifm solver's room SCORE check,
	// carried into the distilled model as SPEC_FULL.md notes).
	Score int `json:"score,omitempty"`

	Start  bool `json:"start,omitempty"`
	Finish bool `json:"finish,omitempty"`

	// ExitStubs are unit-offset directions that lead out of this room to
	// no declared target room (one-way declared exits with no link).
	// Filled in by the map builder from any link declared with this room
	// as From and no To.
	ExitStubs []direction.Direction `json:"-"`

	// SectionTitle optionally titles the map section this room's
	// connected component belongs to; the first non-empty declaration
	// within a component wins. Mirrors the original solver's per-section
	// TITLE attribute, defaulting to "Map section N" if never declared.
	SectionTitle string `json:"sectionTitle,omitempty"`
	// Styles names the style blocks applied to this room, carried
	// opaquely through map building for a renderer to interpret.
	Styles []string `json:"styles,omitempty"`
	// DisplayName is Description decorated with join markers and/or a
	// tag suffix per the show-joins/show-tags/join-format variables,
	// computed once after tag resolution. Empty until then.
	DisplayName string `json:"displayName,omitempty"`
	// Items lists the items that start in this room (HeldAtStart items
	// excluded), filled in by the map builder for section output.
	Items []*Item `json:"-"`

	// SectionID, X, Y are filled in by the map builder once placement is
	// complete; they do not change afterward.
	SectionID string `json:"sectionId,omitempty"`
	X, Y      int    `json:"-"`
	Placed    bool   `json:"-"`
}

// Validate checks structural well-formedness of a declared room.
func (r *Room) Validate() error {
	if r.Description == "" {
		return fmt.Errorf("room %d: description must not be empty", r.ID)
	}
	return nil
}

// String returns a human-readable representation of the room.
func (r *Room) String() string {
	tag := r.Tag
	if tag == "" {
		tag = fmt.Sprintf("#%d", r.ID)
	}
	return fmt.Sprintf("Room[%s: %q]", tag, r.Description)
}
