// Package surface selects one detected planar surface with a two-tap
// protocol: the first tap focuses a surface, a second tap on the same surface
// confirms it.
package surface

import (
	"github.com/philipparndt/arboard/pkg/geometry"
)

// ID identifies a tracked surface. The tracking subsystem owns the surface;
// the selector only holds its ID.
type ID string

// Highlight is the visual state of a surface
type Highlight int

const (
	HighlightDefault Highlight = iota
	HighlightFocused
)

func (h Highlight) String() string {
	if h == HighlightFocused {
		return "focused"
	}
	return "default"
}

// Surface is a value copy of a confirmed surface
type Surface struct {
	ID    ID
	Name  string
	Plane geometry.Plane
}

// Tracker is the surface tracking subsystem
type Tracker interface {
	// SetEnabled starts or stops surface detection
	SetEnabled(enabled bool)
	// Surfaces lists the currently tracked surfaces
	Surfaces() []ID
	// Plane returns the infinite plane a surface lies on
	Plane(id ID) (geometry.Plane, bool)
	// SetHighlight switches the appearance of a surface
	SetHighlight(id ID, h Highlight)
	// Destroy removes a surface
	Destroy(id ID)
}

// Namer is implemented by trackers that can name surfaces for logging
type Namer interface {
	Name(id ID) string
}

// HitTester casts rays against the visible surfaces only
type HitTester interface {
	// Raycast returns the nearest surface hit within maxDistance
	Raycast(ray geometry.Ray, maxDistance float64) (ID, bool)
}

// nameOf returns a printable name for a surface
func nameOf(t Tracker, id ID) string {
	if n, ok := t.(Namer); ok {
		if name := n.Name(id); name != "" {
			return name
		}
	}
	return string(id)
}
