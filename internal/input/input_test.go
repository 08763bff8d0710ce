package input

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/philipparndt/arboard/pkg/geometry"
	"github.com/philipparndt/arboard/pkg/viewer"
)

func TestTrackerFollowsEvents(t *testing.T) {
	var tr Tracker

	tr.Observe(Event{Kind: Press, Position: Point{X: 10, Y: 20}})
	assert.True(t, tr.Held())
	assert.Equal(t, Point{X: 10, Y: 20}, tr.Position())

	tr.Observe(Event{Kind: Drag, Position: Point{X: 15, Y: 25}})
	assert.True(t, tr.Held())
	assert.Equal(t, Point{X: 15, Y: 25}, tr.Position())

	tr.Observe(Event{Kind: Release, Position: Point{X: 15, Y: 25}})
	assert.False(t, tr.Held())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "press", Press.String())
	assert.Equal(t, "drag", Drag.String())
	assert.Equal(t, "release", Release.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func TestViewportRoundTrip(t *testing.T) {
	cam := viewer.NewLookAtCamera(geometry.NewVector3(0, 3, 4), geometry.NewVector3(0, 0, 0), math.Pi/3)
	vp := Viewport{Camera: cam, Width: 800, Height: 600}

	target := geometry.NewVector3(0.5, 0, -0.25)
	screen, ok := vp.WorldToScreen(target)
	assert.True(t, ok)

	ray := vp.ScreenPointToRay(screen)
	floor := geometry.NewPlane(geometry.Vector3{}, geometry.Up)
	hit, ok := floor.Intersect(ray)
	assert.True(t, ok)
	assert.InDelta(t, target.X, hit.X, 1e-6)
	assert.InDelta(t, target.Z, hit.Z, 1e-6)
}
