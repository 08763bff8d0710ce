package viewer

import (
	"image/color"

	"github.com/philipparndt/arboard/pkg/geometry"
)

// Polygon is a filled convex polygon
type Polygon struct {
	Points []geometry.Vector3
	Fill   color.RGBA
}

// Polyline is a line strip, closed back to its first point when Closed
type Polyline struct {
	Points []geometry.Vector3
	Closed bool
	Color  color.RGBA
}

// Marker is a point drawn as a small square
type Marker struct {
	Position geometry.Vector3
	Color    color.RGBA
	Size     int // Edge length in pixels, 7 if zero
}

// Label is text anchored at a world point
type Label struct {
	Position geometry.Vector3
	Text     string
	Color    color.RGBA
}

// Scene is everything the viewer draws
type Scene struct {
	Polygons []Polygon
	Lines    []Polyline
	Markers  []Marker
	Labels   []Label
}

// Bounds returns the bounding box of all scene geometry
func (s Scene) Bounds() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, p := range s.Polygons {
		for _, v := range p.Points {
			bbox.Extend(v)
		}
	}
	for _, l := range s.Lines {
		for _, v := range l.Points {
			bbox.Extend(v)
		}
	}
	for _, m := range s.Markers {
		bbox.Extend(m.Position)
	}
	return bbox
}
