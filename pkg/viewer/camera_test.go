package viewer

import (
	"math"
	"testing"

	"github.com/philipparndt/arboard/pkg/geometry"
)

func TestProjectUnprojectRoundTrip(t *testing.T) {
	cam := NewLookAtCamera(geometry.NewVector3(1, 2, 3), geometry.NewVector3(0, 0, 0), math.Pi/4)
	point := geometry.NewVector3(0.3, -0.2, 0.1)

	sx, sy, depth, visible := cam.ProjectPoint(point, 640, 480)
	if !visible {
		t.Fatal("ProjectPoint failed: point in front of the camera reported invisible")
	}

	origin, dir := cam.Unproject(sx, sy, 640, 480)
	toPoint := point.Sub(origin).Normalize()
	if !dir.ApproxEqual(toPoint, 1e-9) {
		t.Errorf("Unproject failed: expected direction %v, got %v (depth %v)", toPoint, dir, depth)
	}
}

func TestProjectCenter(t *testing.T) {
	cam := NewLookAtCamera(geometry.NewVector3(0, 0, 5), geometry.NewVector3(0, 0, 0), math.Pi/3)

	sx, sy, _ := cam.Project(geometry.NewVector3(0, 0, 0), 800, 600)
	if math.Abs(sx-400) > 1e-9 || math.Abs(sy-300) > 1e-9 {
		t.Errorf("Project failed: target should map to screen center, got (%v, %v)", sx, sy)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewLookAtCamera(geometry.NewVector3(0, 0, 5), geometry.NewVector3(0, 0, 0), math.Pi/3)

	if _, _, _, visible := cam.ProjectPoint(geometry.NewVector3(0, 0, 10), 800, 600); visible {
		t.Error("ProjectPoint failed: point behind the camera reported visible")
	}
}

func TestLookAtStraightDown(t *testing.T) {
	cam := NewLookAtCamera(geometry.NewVector3(0, 5, 0), geometry.NewVector3(0, 0, 0), math.Pi/3)

	_, dir := cam.Unproject(400, 300, 800, 600)
	if !dir.ApproxEqual(geometry.NewVector3(0, -1, 0), 1e-9) {
		t.Errorf("Unproject failed: expected straight down, got %v", dir)
	}
}

func TestRotateClampsPitch(t *testing.T) {
	cam := NewLookAtCamera(geometry.NewVector3(0, 0, 5), geometry.NewVector3(0, 0, 0), math.Pi/3)
	cam.Rotate(10, 0)

	if cam.RotationX > math.Pi/2 {
		t.Errorf("Rotate failed: pitch not clamped, got %v", cam.RotationX)
	}
	if math.Abs(cam.Position.Distance(cam.Target)-5) > 1e-9 {
		t.Errorf("Rotate failed: distance changed to %v", cam.Position.Distance(cam.Target))
	}
}
