package worldmodel

import "fmt"

// WorldDecl is the already-parsed world declaration that the core receives
// as input (SPEC_FULL.md §6.1). The parser that produces it, and the
// grammar it parses, are out of scope for this module.
type WorldDecl struct {
	Rooms []*Room `json:"rooms"`
	Items []*Item `json:"items"`
	Links []*Link `json:"links"`
	Joins []*Join `json:"joins"`
	Tasks []*Task `json:"tasks"`

	// Variables carries the raw string-keyed variable set a parser
	// attaches to the declaration (booleans/integers/strings coerced by
	// pkg/world.Variables).
	Variables map[string]string `json:"variables,omitempty"`
}

// Validate runs each object's own Validate method and reports the first
// failure found, in declaration order (rooms, then items, links, joins,
// tasks).
func (w *WorldDecl) Validate() error {
	for _, r := range w.Rooms {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("room: %w", err)
		}
	}
	for _, it := range w.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item: %w", err)
		}
	}
	for _, l := range w.Links {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("link: %w", err)
		}
	}
	for _, j := range w.Joins {
		if err := j.Validate(); err != nil {
			return fmt.Errorf("join: %w", err)
		}
	}
	for _, t := range w.Tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task: %w", err)
		}
	}
	return nil
}

// StartRoom returns the declared start room: the one with Start set, or
// the first declared room if none is marked.
func (w *WorldDecl) StartRoom() *Room {
	for _, r := range w.Rooms {
		if r.Start {
			return r
		}
	}
	if len(w.Rooms) > 0 {
		return w.Rooms[0]
	}
	return nil
}
