package analysis

import (
	"math"
	"testing"

	"github.com/philipparndt/arboard/pkg/geometry"
	"github.com/philipparndt/arboard/pkg/stl"
)

func TestAnalyzeBoard(t *testing.T) {
	rect := geometry.RectangleFromPoints(
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(4, 0, 0),
		geometry.NewVector3(4, 3, 0),
	)

	r := AnalyzeBoard(rect)

	checks := []struct {
		name          string
		expected, got float64
	}{
		{"Length", 4, r.Length},
		{"Height", 3, r.Height},
		{"Area", 12, r.Area},
		{"Perimeter", 14, r.Perimeter},
		{"Diagonal", 5, r.Diagonal},
		{"AspectRatio", 4.0 / 3.0, r.AspectRatio},
	}
	for _, c := range checks {
		if math.Abs(c.expected-c.got) > 1e-10 {
			t.Errorf("AnalyzeBoard %s failed: expected %v, got %v", c.name, c.expected, c.got)
		}
	}

	if !r.Center.ApproxEqual(geometry.NewVector3(2, 1.5, 0), 1e-10) {
		t.Errorf("AnalyzeBoard Center failed: expected (2, 1.5, 0), got %v", r.Center)
	}
	if !r.Normal.ApproxEqual(geometry.NewVector3(0, 0, 1), 1e-10) {
		t.Errorf("AnalyzeBoard Normal failed: expected (0, 0, 1), got %v", r.Normal)
	}
	if r.Edges[2].Name != "top" || math.Abs(r.Edges[2].Length-4) > 1e-10 {
		t.Errorf("AnalyzeBoard Edges failed: unexpected top edge %+v", r.Edges[2])
	}
}

func TestAnalyzeBoardFlat(t *testing.T) {
	rect := geometry.RectangleFromPoints(
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(2, 0, 0),
		geometry.NewVector3(5, 0, 0),
	)

	r := AnalyzeBoard(rect)
	if r.AspectRatio != 0 {
		t.Errorf("AnalyzeBoard failed: expected aspect ratio 0 for zero height, got %v", r.AspectRatio)
	}
	if r.Area != 0 {
		t.Errorf("AnalyzeBoard failed: expected zero area, got %v", r.Area)
	}
}

func TestAnalyzeModel(t *testing.T) {
	corners := [4]geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(2, 0, 0),
		geometry.NewVector3(2, 0, 1),
		geometry.NewVector3(0, 0, 1),
	}
	m := stl.BoardModel("board", corners, geometry.Up, 0.5)

	r := AnalyzeModel(m)
	if r.TriangleCount != 12 {
		t.Errorf("AnalyzeModel failed: expected 12 triangles, got %d", r.TriangleCount)
	}
	if !r.Dimensions.ApproxEqual(geometry.NewVector3(2, 0.5, 1), 1e-10) {
		t.Errorf("AnalyzeModel failed: expected dimensions (2, 0.5, 1), got %v", r.Dimensions)
	}
	if math.Abs(r.MinEdgeLength-0.5) > 1e-10 {
		t.Errorf("AnalyzeModel failed: expected min edge 0.5, got %v", r.MinEdgeLength)
	}
	if math.Abs(r.MaxEdgeLength-math.Sqrt(5)) > 1e-10 {
		t.Errorf("AnalyzeModel failed: expected max edge %v, got %v", math.Sqrt(5), r.MaxEdgeLength)
	}

	empty := AnalyzeModel(stl.NewModel("empty"))
	if empty.MinEdgeLength != 0 || empty.TriangleCount != 0 {
		t.Errorf("AnalyzeModel failed: unexpected report for empty model %+v", empty)
	}
}

func TestFormat(t *testing.T) {
	if got := FormatMeasurement(1.5, ""); got != "1.500000 units" {
		t.Errorf("FormatMeasurement failed: got %q", got)
	}
	if got := FormatVector(geometry.NewVector3(1, 2, 3)); got != "(1.000000, 2.000000, 3.000000)" {
		t.Errorf("FormatVector failed: got %q", got)
	}
}
