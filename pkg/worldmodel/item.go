package worldmodel

import "fmt"

// Item is an object the player may pick up, carry, and drop.
type Item struct {
	ID          int    `json:"id"`
	Tag         string `json:"tag,omitempty"`
	Description string `json:"description"`

	// StartRoom is where the item begins; HeldAtStart means the player
	// begins carrying it instead.
	StartRoom    Ref[Room] `json:"-"`
	HeldAtStart  bool      `json:"heldAtStart,omitempty"`

	Score          int  `json:"score"`
	FinishOnPickup bool `json:"finishOnPickup,omitempty"`
	Hidden         bool `json:"hidden,omitempty"`
	Lost           bool `json:"lost,omitempty"`
	Ignored        bool `json:"ignored,omitempty"`
	Keep           bool `json:"keep,omitempty"`

	KeepWith  []Ref[Item] `json:"-"`
	KeepUntil []Ref[Task] `json:"-"`

	Need   []Ref[Item] `json:"-"`
	Before []Ref[Task] `json:"-"`
	After  []Ref[Task] `json:"-"`
}

// Validate checks structural well-formedness of a declared item.
func (it *Item) Validate() error {
	if it.Description == "" {
		return fmt.Errorf("item %d: description must not be empty", it.ID)
	}
	return nil
}

// String returns a human-readable representation of the item.
func (it *Item) String() string {
	tag := it.Tag
	if tag == "" {
		tag = fmt.Sprintf("#%d", it.ID)
	}
	return fmt.Sprintf("Item[%s: %q]", tag, it.Description)
}
