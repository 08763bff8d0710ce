package beacon

import (
	"fmt"

	"github.com/philipparndt/arboard/pkg/geometry"
)

// Phase is the placement step of the rectangle gesture
type Phase int

const (
	First  Phase = iota // Corner A
	Second              // Corner B, fixes the base edge
	Last                // Free point C, fixes the height
	Done                // Terminal
)

// Count is the number of beacons, one per non-terminal phase
const Count = int(Done)

func (p Phase) String() string {
	switch p {
	case First:
		return "First"
	case Second:
		return "Second"
	case Last:
		return "Last"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Index maps a phase to its beacon slot. The terminal phase has no slot.
func (p Phase) Index() (int, bool) {
	if p < First || p >= Done {
		return 0, false
	}
	return int(p), true
}

// outlineLen is the number of outline points shown while placing in phase p
func (p Phase) outlineLen() int {
	if p == Last {
		return 4
	}
	return int(p) + 1
}

// Beacon is a placed marker on the surface
type Beacon struct {
	Position geometry.Vector3
	Rotation geometry.Orientation
}

// placement is the value the phase geometry operates on
type placement struct {
	beacons [Count]Beacon
	outline [4]geometry.Vector3
	normal  geometry.Vector3
}

// step applies one phase's geometry for a new cursor point
type step func(pl placement, point geometry.Vector3) placement

// steps is the phase-keyed geometry lookup
var steps = [Count]step{
	First:  placeFirst,
	Second: placeSecond,
	Last:   placeLast,
}

// placeFirst puts corner A at the cursor
func placeFirst(pl placement, point geometry.Vector3) placement {
	pl.beacons[0].Position = point
	pl.outline[0] = point
	return pl
}

// placeSecond puts corner B at the cursor and turns A and B to face each
// other along the base edge
func placeSecond(pl placement, point geometry.Vector3) placement {
	pl.beacons[1].Position = point

	dir := point.Sub(pl.beacons[0].Position).Normalize()
	rot := geometry.LookRotation(dir, pl.normal)
	pl.beacons[0].Rotation = rot
	pl.beacons[1].Rotation = rot

	pl.outline[1] = point
	return pl
}

// placeLast puts the free point C at the cursor and completes the outline
// with the two corners offset from the base edge by the perpendicular to C
func placeLast(pl placement, point geometry.Vector3) placement {
	pl.beacons[2].Position = point

	rect := geometry.RectangleFromPoints(pl.outline[0], pl.outline[1], point)
	pl.outline = rect.Corners
	return pl
}
