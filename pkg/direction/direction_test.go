package direction_test

import (
	"testing"

	"github.com/ifm/ifm/pkg/direction"
)

func TestOffsetsAreUnitVectors(t *testing.T) {
	for _, d := range direction.All {
		dx, dy := d.Offset()
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
			t.Errorf("%v: offset (%d,%d) is not a unit vector", d, dx, dy)
		}
	}
}

func TestVerticalAndInOutHaveNoOffset(t *testing.T) {
	for _, d := range []direction.Direction{direction.U, direction.D, direction.In, direction.Out} {
		dx, dy := d.Offset()
		if dx != 0 || dy != 0 {
			t.Errorf("%v: expected (0,0), got (%d,%d)", d, dx, dy)
		}
		if d.HasOffset() {
			t.Errorf("%v: HasOffset should be false", d)
		}
	}
}

func TestOppositeIsInvolution(t *testing.T) {
	for _, d := range direction.All {
		o, err := d.Opposite()
		if err != nil {
			t.Fatalf("%v: %v", d, err)
		}
		back, err := o.Opposite()
		if err != nil {
			t.Fatalf("%v: %v", o, err)
		}
		if back != d {
			t.Errorf("opposite(opposite(%v)) = %v, want %v", d, back, d)
		}
	}
}

func TestOppositePairs(t *testing.T) {
	pairs := map[direction.Direction]direction.Direction{
		direction.N:  direction.S,
		direction.E:  direction.W,
		direction.NE: direction.SW,
		direction.NW: direction.SE,
		direction.U:  direction.D,
		direction.In: direction.Out,
	}
	for d, want := range pairs {
		got, err := d.Opposite()
		if err != nil {
			t.Fatalf("%v: %v", d, err)
		}
		if got != want {
			t.Errorf("opposite(%v) = %v, want %v", d, got, want)
		}
	}
}

func TestDirectionOfRoundTrips(t *testing.T) {
	for _, d := range direction.All {
		if !d.HasOffset() {
			continue
		}
		dx, dy := d.Offset()
		got, ok := direction.DirectionOf(dx, dy)
		if !ok {
			t.Fatalf("DirectionOf(%d,%d) not found for %v", dx, dy, d)
		}
		if got != d {
			t.Errorf("DirectionOf(%d,%d) = %v, want %v", dx, dy, got, d)
		}
	}
}

func TestDirectionOfRejectsNonUnit(t *testing.T) {
	if _, ok := direction.DirectionOf(2, 0); ok {
		t.Error("DirectionOf(2,0) should not match any direction")
	}
	if _, ok := direction.DirectionOf(0, 0); ok {
		t.Error("DirectionOf(0,0) should not match any direction")
	}
}

func TestByAbbrev(t *testing.T) {
	d, ok := direction.ByAbbrev("NE")
	if !ok || d != direction.NE {
		t.Errorf("ByAbbrev(NE) = %v,%v want NE,true", d, ok)
	}
	if _, ok := direction.ByAbbrev("ZZ"); ok {
		t.Error("ByAbbrev(ZZ) should not match")
	}
}
