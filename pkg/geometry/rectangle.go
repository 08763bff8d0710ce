package geometry

import (
	"errors"
	"fmt"
)

// ErrDegenerate is returned when three points do not span a rectangle
var ErrDegenerate = errors.New("degenerate rectangle")

// PerpendicularFoot returns the foot of the perpendicular dropped from c onto
// the line through a and b. When a and b coincide the line is undefined and a
// itself is returned, so c - foot degrades to c - a.
func PerpendicularFoot(a, b, c Vector3) Vector3 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < Epsilon*Epsilon {
		return a
	}
	return a.Add(ab.Mul(ab.Dot(c.Sub(a)) / lenSq))
}

// Rectangle is a planar rectangle given by its corners in winding order.
// Corners[0]->Corners[1] is the base edge and Corners[0]->Corners[3] the side.
type Rectangle struct {
	Corners [4]Vector3
}

// RectangleFromPoints builds the rectangle whose base edge is a->b and whose
// opposite edge passes through c. It never fails; degenerate input yields a
// rectangle with zero length or height.
func RectangleFromPoints(a, b, c Vector3) Rectangle {
	offset := c.Sub(PerpendicularFoot(a, b, c))
	return Rectangle{Corners: [4]Vector3{a, b, b.Add(offset), a.Add(offset)}}
}

// NewRectangle is the strict variant of RectangleFromPoints: it rejects
// rectangles whose length or height is below minEdge.
func NewRectangle(a, b, c Vector3, minEdge float64) (Rectangle, error) {
	r := RectangleFromPoints(a, b, c)
	if l := r.Length(); l < minEdge {
		return Rectangle{}, fmt.Errorf("%w: base edge %.6f shorter than %.6f", ErrDegenerate, l, minEdge)
	}
	if h := r.Height(); h < minEdge {
		return Rectangle{}, fmt.Errorf("%w: height %.6f shorter than %.6f", ErrDegenerate, h, minEdge)
	}
	return r, nil
}

// Center returns the midpoint of the diagonal Corners[0]-Corners[2]
func (r Rectangle) Center() Vector3 {
	return r.Corners[0].Midpoint(r.Corners[2])
}

// Length returns the length of the base edge
func (r Rectangle) Length() float64 {
	return r.Corners[1].Distance(r.Corners[0])
}

// Height returns the length of the side edge
func (r Rectangle) Height() float64 {
	return r.Corners[3].Distance(r.Corners[0])
}

// Area returns length times height
func (r Rectangle) Area() float64 {
	return r.Length() * r.Height()
}

// Triangles splits the rectangle into two triangles sharing the diagonal
func (r Rectangle) Triangles() [2]Triangle {
	c := r.Corners
	return [2]Triangle{
		TriangleFromVertices(c[0], c[1], c[2]),
		TriangleFromVertices(c[0], c[2], c[3]),
	}
}
