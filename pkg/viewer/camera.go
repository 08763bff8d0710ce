package viewer

import (
	"math"

	"github.com/philipparndt/arboard/pkg/geometry"
)

// Camera is a perspective camera orbiting a target point
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // Vertical field of view in radians
	Distance  float64
	RotationX float64 // Rotation around X axis (vertical)
	RotationY float64 // Rotation around Y axis (horizontal)
}

// NewCamera creates a camera positioned to view a bounding box
func NewCamera(bbox geometry.BoundingBox) *Camera {
	center := bbox.Center()
	size := bbox.Size()
	distance := math.Max(size.X, math.Max(size.Y, size.Z)) * 2.0
	if distance <= 0 {
		distance = 1
	}

	return NewLookAtCamera(center.Add(geometry.NewVector3(0, distance*0.6, distance*0.8)), center, math.Pi/4)
}

// NewLookAtCamera creates a camera at position looking at target
func NewLookAtCamera(position, target geometry.Vector3, fov float64) *Camera {
	rel := position.Sub(target)
	distance := rel.Length()

	c := &Camera{
		Position: position,
		Target:   target,
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      fov,
		Distance: distance,
	}
	if distance > 0 {
		c.RotationX = math.Asin(rel.Y / distance)
		c.RotationY = math.Atan2(rel.X, rel.Z)
		// Looking straight up or down: world up cannot orient the view
		if math.Abs(rel.Y/distance) > 0.999 {
			c.Up = geometry.NewVector3(0, 0, -1)
		}
	}
	return c
}

// UpdatePosition updates camera position based on rotation angles
func (c *Camera) UpdatePosition() {
	// Calculate position based on spherical coordinates
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate rotates the camera by the given angles
func (c *Camera) Rotate(deltaX, deltaY float64) {
	c.RotationX += deltaX
	c.RotationY += deltaY

	// Clamp X rotation to prevent gimbal lock
	maxAngle := math.Pi/2 - 0.1
	if c.RotationX > maxAngle {
		c.RotationX = maxAngle
	}
	if c.RotationX < -maxAngle {
		c.RotationX = -maxAngle
	}

	c.UpdatePosition()
}

// Zoom changes the camera distance
func (c *Camera) Zoom(delta float64) {
	c.Distance *= (1.0 + delta)
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.UpdatePosition()
}

// basis returns the camera's forward, right and up directions
func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Project projects a 3D point to 2D screen coordinates. Points behind the
// camera are clamped onto the near plane.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	x, y, z, _ := c.ProjectPoint(point, width, height)
	return x, y, z
}

// ProjectPoint projects a 3D point to screen coordinates and reports whether
// it lies in front of the camera
func (c *Camera) ProjectPoint(point geometry.Vector3, width, height float64) (sx, sy, depth float64, visible bool) {
	forward, right, up := c.basis()

	// Transform to camera space
	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	visible = z > 0.01
	if !visible {
		z = 0.01 // Prevent division by zero
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	sx = (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	sy = (-y/(z*fovScale))*(height/2) + (height / 2)

	return sx, sy, z, visible
}

// Unproject converts 2D screen coordinates back to 3D ray
func (c *Camera) Unproject(screenX, screenY, width, height float64) (origin, direction geometry.Vector3) {
	// Convert screen coordinates to normalized device coordinates (-1 to 1)
	ndcX := (2.0 * screenX / width) - 1.0
	ndcY := 1.0 - (2.0 * screenY / height)

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	forward, right, up := c.basis()

	// Calculate direction in world space
	rayDir := forward.Add(right.Mul(ndcX * fovScale * aspect)).Add(up.Mul(ndcY * fovScale))
	rayDir = rayDir.Normalize()

	return c.Position, rayDir
}
