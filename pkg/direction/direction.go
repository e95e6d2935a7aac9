package direction

import "fmt"

// Direction identifies one of the twelve compass/vertical/in-out directions
// a link or exit stub may point in.
type Direction int

const (
	N Direction = iota
	S
	E
	W
	NE
	NW
	SE
	SW
	U
	D
	In
	Out
)

// All lists every direction in declaration order. Iteration over this slice,
// rather than over a map, is what makes direction-dependent output (exit
// glyph order, polyline tracing) deterministic.
var All = []Direction{N, S, E, W, NE, NW, SE, SW, U, D, In, Out}

// entry is one row of the fixed direction table.
type entry struct {
	name   string
	abbrev string
	dx, dy int
}

var table = map[Direction]entry{
	N:   {"north", "N", 0, -1},
	S:   {"south", "S", 0, 1},
	E:   {"east", "E", 1, 0},
	W:   {"west", "W", -1, 0},
	NE:  {"northeast", "NE", 1, -1},
	NW:  {"northwest", "NW", -1, -1},
	SE:  {"southeast", "SE", 1, 1},
	SW:  {"southwest", "SW", -1, 1},
	U:   {"up", "U", 0, 0},
	D:   {"down", "D", 0, 0},
	In:  {"in", "IN", 0, 0},
	Out: {"out", "OUT", 0, 0},
}

var opposites = map[Direction]Direction{
	N: S, S: N,
	E: W, W: E,
	NE: SW, SW: NE,
	NW: SE, SE: NW,
	U: D, D: U,
	In: Out, Out: In,
}

// String returns the direction's full name, e.g. "north".
func (d Direction) String() string {
	if e, ok := table[d]; ok {
		return e.name
	}
	return fmt.Sprintf("Unknown(%d)", int(d))
}

// Abbrev returns the direction's short form, e.g. "N", "NE", "IN".
func (d Direction) Abbrev() string {
	if e, ok := table[d]; ok {
		return e.abbrev
	}
	return fmt.Sprintf("Unknown(%d)", int(d))
}

// Offset returns the unit (dx,dy) grid offset for the direction. U, D, IN,
// and OUT carry no grid offset and return (0,0).
func (d Direction) Offset() (int, int) {
	if e, ok := table[d]; ok {
		return e.dx, e.dy
	}
	return 0, 0
}

// HasOffset reports whether the direction moves the grid cursor. U, D, IN,
// and OUT are the four directions with no grid offset.
func (d Direction) HasOffset() bool {
	switch d {
	case U, D, In, Out:
		return false
	default:
		return true
	}
}

// Opposite returns the reciprocal direction: N<->S, E<->W, NE<->SW,
// NW<->SE, U<->D, IN<->OUT.
func (d Direction) Opposite() (Direction, error) {
	o, ok := opposites[d]
	if !ok {
		return 0, fmt.Errorf("direction %v has no opposite entry", d)
	}
	return o, nil
}

// ByAbbrev looks up a direction by its short form, case-sensitively.
func ByAbbrev(abbrev string) (Direction, bool) {
	for _, d := range All {
		if table[d].abbrev == abbrev {
			return d, true
		}
	}
	return 0, false
}

// DirectionOf returns the direction whose offset matches (dx,dy), or false
// if no cardinal/diagonal direction has that offset (e.g. (2,0) or (0,0)).
func DirectionOf(dx, dy int) (Direction, bool) {
	for _, d := range All {
		if !d.HasOffset() {
			continue
		}
		ddx, ddy := d.Offset()
		if ddx == dx && ddy == dy {
			return d, true
		}
	}
	return 0, false
}
