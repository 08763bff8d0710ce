package geometry

import "math"

// Plane is an infinite plane through Point with unit Normal
type Plane struct {
	Point  Vector3
	Normal Vector3
}

// NewPlane creates a plane from a point and a (not necessarily unit) normal
func NewPlane(point, normal Vector3) Plane {
	return Plane{Point: point, Normal: normal.Normalize()}
}

// PlaneFromPoints creates the plane through three points, oriented by the
// winding a -> b -> c. ok is false when the points are collinear.
func PlaneFromPoints(a, b, c Vector3) (Plane, bool) {
	normal := b.Sub(a).Cross(c.Sub(a))
	if normal.IsZero() {
		return Plane{}, false
	}
	return NewPlane(a, normal), true
}

// SignedDistance returns the distance of p from the plane, positive on the
// side the normal points to
func (p Plane) SignedDistance(point Vector3) float64 {
	return point.Sub(p.Point).Dot(p.Normal)
}

// Project returns the orthogonal projection of point onto the plane
func (p Plane) Project(point Vector3) Vector3 {
	return point.Sub(p.Normal.Mul(p.SignedDistance(point)))
}

// Raycast intersects the ray with the plane and returns the distance along
// the ray. ok is false when the ray runs parallel to the plane or the
// intersection lies behind the ray origin.
func (p Plane) Raycast(ray Ray) (enter float64, ok bool) {
	denom := ray.Direction.Dot(p.Normal)
	if math.Abs(denom) < Epsilon {
		return 0, false
	}
	enter = p.Point.Sub(ray.Origin).Dot(p.Normal) / denom
	return enter, enter >= 0
}

// Intersect returns the point where the ray meets the plane
func (p Plane) Intersect(ray Ray) (Vector3, bool) {
	enter, ok := p.Raycast(ray)
	if !ok {
		return Vector3{}, false
	}
	return ray.At(enter), true
}
