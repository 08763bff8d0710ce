package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orientation is a rotation stored as an orthonormal basis. Right, Up and
// Forward are the world directions of the local X, Y and Z axes.
type Orientation struct {
	Right   Vector3
	Up      Vector3
	Forward Vector3
}

// Identity returns the orientation aligned with the world axes
func Identity() Orientation {
	return Orientation{Right: Right, Up: Up, Forward: Forward}
}

// LookRotation returns the orientation whose forward axis points along
// forward and whose up axis is as close to up as possible. A zero forward
// falls back to FromUp(up); a forward parallel to up picks an arbitrary
// right axis.
func LookRotation(forward, up Vector3) Orientation {
	f := forward.Normalize()
	if f.IsZero() {
		return FromUp(up)
	}

	r := up.Cross(f).Normalize()
	if r.IsZero() {
		// up is parallel to forward, any perpendicular axis will do
		r = perpendicular(f)
	}

	return Orientation{
		Right:   r,
		Up:      f.Cross(r),
		Forward: f,
	}
}

// FromUp returns the shortest rotation that turns the world up axis onto up
func FromUp(up Vector3) Orientation {
	n := up.Normalize()
	if n.IsZero() {
		return Identity()
	}

	axis := Up.Cross(n)
	cos := Up.Dot(n)
	if axis.IsZero() {
		if cos > 0 {
			return Identity()
		}
		// Upside down: half turn around X
		return Orientation{Right: Right, Up: Up.Neg(), Forward: Forward.Neg()}
	}

	sin := axis.Length()
	axis = axis.Normalize()
	return Orientation{
		Right:   rotate(Right, axis, cos, sin),
		Up:      n,
		Forward: rotate(Forward, axis, cos, sin),
	}
}

// Apply converts a vector from local to world space
func (o Orientation) Apply(local Vector3) Vector3 {
	return o.Right.Mul(local.X).Add(o.Up.Mul(local.Y)).Add(o.Forward.Mul(local.Z))
}

// ToLocal converts a world vector into local coordinates
func (o Orientation) ToLocal(world Vector3) Vector3 {
	return Vector3{
		X: world.Dot(o.Right),
		Y: world.Dot(o.Up),
		Z: world.Dot(o.Forward),
	}
}

// Matrix returns the rotation as a column-major 4x4 matrix
func (o Orientation) Matrix() mgl64.Mat4 {
	return mgl64.Mat4{
		o.Right.X, o.Right.Y, o.Right.Z, 0,
		o.Up.X, o.Up.Y, o.Up.Z, 0,
		o.Forward.X, o.Forward.Y, o.Forward.Z, 0,
		0, 0, 0, 1,
	}
}

// Quat returns the rotation as a unit quaternion
func (o Orientation) Quat() mgl64.Quat {
	return mgl64.Mat4ToQuat(o.Matrix()).Normalize()
}

// ApproxEqual compares two orientations axis by axis
func (o Orientation) ApproxEqual(other Orientation, tolerance float64) bool {
	return o.Right.ApproxEqual(other.Right, tolerance) &&
		o.Up.ApproxEqual(other.Up, tolerance) &&
		o.Forward.ApproxEqual(other.Forward, tolerance)
}

// rotate applies Rodrigues' rotation formula for a unit axis
func rotate(v, axis Vector3, cos, sin float64) Vector3 {
	return v.Mul(cos).
		Add(axis.Cross(v).Mul(sin)).
		Add(axis.Mul(axis.Dot(v) * (1 - cos)))
}

// perpendicular returns some unit vector perpendicular to v
func perpendicular(v Vector3) Vector3 {
	if math.Abs(v.X) < 0.9 {
		return Right.Cross(v).Normalize()
	}
	return Up.Cross(v).Normalize()
}
