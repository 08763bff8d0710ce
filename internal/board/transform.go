// Package board holds the placed board: its transform, the registry of the
// current board and the check whether a tracked image lies on it.
package board

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/philipparndt/arboard/pkg/geometry"
)

// NativeSize is the edge length of the unscaled board model
const NativeSize = 10.0

// Transform places the board model in the world
type Transform struct {
	Position geometry.Vector3
	Rotation geometry.Orientation
	Scale    geometry.Vector3 // Local scale; X spans the height, Z the length
}

// FromRectangle computes the board transform for a rectangle. The rotation
// is the orientation of the first corner, looking along the base edge.
// scaleFactor converts world units to local scale of the native board.
func FromRectangle(r geometry.Rectangle, rotation geometry.Orientation, scaleFactor float64) Transform {
	return Transform{
		Position: r.Center(),
		Rotation: rotation,
		Scale:    geometry.NewVector3(r.Height()*scaleFactor, 1, r.Length()*scaleFactor),
	}
}

// Matrix returns translation * rotation * scale
func (t Transform) Matrix() mgl64.Mat4 {
	translate := mgl64.Translate3D(t.Position.X, t.Position.Y, t.Position.Z)
	scale := mgl64.Scale3D(t.Scale.X, t.Scale.Y, t.Scale.Z)
	return translate.Mul4(t.Rotation.Matrix()).Mul4(scale)
}

// Apply maps a point in board model space to world space
func (t Transform) Apply(local geometry.Vector3) geometry.Vector3 {
	v := t.Matrix().Mul4x1(mgl64.Vec4{local.X, local.Y, local.Z, 1})
	return geometry.NewVector3(v.X(), v.Y(), v.Z())
}

// Corners returns the world corners of the scaled native board
func (t Transform) Corners() [4]geometry.Vector3 {
	h := NativeSize / 2
	return [4]geometry.Vector3{
		t.Apply(geometry.NewVector3(h, 0, -h)),
		t.Apply(geometry.NewVector3(h, 0, h)),
		t.Apply(geometry.NewVector3(-h, 0, h)),
		t.Apply(geometry.NewVector3(-h, 0, -h)),
	}
}

// Up returns the board normal
func (t Transform) Up() geometry.Vector3 {
	return t.Rotation.Up
}

func (t Transform) String() string {
	q := t.Rotation.Quat()
	return fmt.Sprintf("position %s rotation (w=%.3f, x=%.3f, y=%.3f, z=%.3f) scale %s",
		t.Position, q.W, q.V.X(), q.V.Y(), q.V.Z(), t.Scale)
}
