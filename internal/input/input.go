// Package input models the pointer events that drive surface selection and
// beacon placement, and the camera that turns pointer positions into rays.
package input

import (
	"fmt"

	"github.com/philipparndt/arboard/pkg/geometry"
	"github.com/philipparndt/arboard/pkg/viewer"
)

// Kind is the type of a pointer event
type Kind int

const (
	Press   Kind = iota // Click or touch started
	Drag                // Pointer moved while held
	Release             // Click or touch ended (or was cancelled)
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Drag:
		return "drag"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Point is a screen position in pixels, origin top-left
type Point struct {
	X, Y float64
}

// Event is a single pointer event
type Event struct {
	Kind     Kind
	Position Point
}

func (e Event) String() string {
	return fmt.Sprintf("%s@(%.1f, %.1f)", e.Kind, e.Position.X, e.Position.Y)
}

// Pointer reports the current pointer position
type Pointer interface {
	Position() Point
}

// Camera maps a screen position to a world-space ray
type Camera interface {
	ScreenPointToRay(p Point) geometry.Ray
}

// Tracker follows the pointer through the event stream and serves as the
// Pointer for components that query the position on demand
type Tracker struct {
	position Point
	held     bool
}

// Observe records an event. Call it before dispatching the event.
func (t *Tracker) Observe(ev Event) {
	t.position = ev.Position
	switch ev.Kind {
	case Press:
		t.held = true
	case Release:
		t.held = false
	}
}

// Position returns the last observed pointer position
func (t *Tracker) Position() Point {
	return t.position
}

// Held reports whether the pointer is currently pressed
func (t *Tracker) Held() bool {
	return t.held
}

// Viewport adapts a viewer camera with a fixed screen size to Camera
type Viewport struct {
	Camera *viewer.Camera
	Width  float64
	Height float64
}

// ScreenPointToRay unprojects the screen position through the camera
func (v Viewport) ScreenPointToRay(p Point) geometry.Ray {
	origin, dir := v.Camera.Unproject(p.X, p.Y, v.Width, v.Height)
	return geometry.Ray{Origin: origin, Direction: dir}
}

// WorldToScreen projects a world point to the screen. ok is false when the
// point lies behind the camera.
func (v Viewport) WorldToScreen(p geometry.Vector3) (Point, bool) {
	x, y, depth, visible := v.Camera.ProjectPoint(p, v.Width, v.Height)
	return Point{X: x, Y: y}, visible && depth > 0
}
