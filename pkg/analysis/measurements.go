package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/arboard/pkg/geometry"
	"github.com/philipparndt/arboard/pkg/stl"
)

// EdgeInfo is one edge of a board or model
type EdgeInfo struct {
	Name   string
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
}

// BoardReport holds the measurements of a placed rectangle
type BoardReport struct {
	Corners     [4]geometry.Vector3
	Center      geometry.Vector3
	Normal      geometry.Vector3
	Length      float64 // Base edge, corner 0 to 1
	Height      float64 // Side edge, corner 0 to 3
	Area        float64
	Perimeter   float64
	Diagonal    float64
	AspectRatio float64 // Length / Height, 0 when the height is 0
	Edges       [4]EdgeInfo
}

var edgeNames = [4]string{"base", "right", "top", "left"}

// AnalyzeBoard measures a rectangle
func AnalyzeBoard(r geometry.Rectangle) *BoardReport {
	c := r.Corners
	report := &BoardReport{
		Corners:  c,
		Center:   r.Center(),
		Normal:   c[1].Sub(c[0]).Cross(c[3].Sub(c[0])).Normalize(),
		Length:   r.Length(),
		Height:   r.Height(),
		Area:     r.Area(),
		Diagonal: c[0].Distance(c[2]),
	}

	for i := range c {
		start, end := c[i], c[(i+1)%4]
		report.Edges[i] = EdgeInfo{Name: edgeNames[i], Start: start, End: end, Length: start.Distance(end)}
		report.Perimeter += report.Edges[i].Length
	}

	if report.Height > 0 {
		report.AspectRatio = report.Length / report.Height
	}
	return report
}

// ModelReport holds the measurements of an exported mesh
type ModelReport struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	TriangleCount int
	MinEdgeLength float64
	MaxEdgeLength float64
}

// AnalyzeModel measures an STL model
func AnalyzeModel(model *stl.Model) *ModelReport {
	report := &ModelReport{
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
		TriangleCount: model.TriangleCount(),
	}
	report.Dimensions = report.BoundingBox.Size()

	if len(model.Triangles) == 0 {
		return report
	}

	report.MinEdgeLength = math.MaxFloat64
	for _, t := range model.Triangles {
		for _, l := range t.EdgeLengths() {
			report.MinEdgeLength = math.Min(report.MinEdgeLength, l)
			report.MaxEdgeLength = math.Max(report.MaxEdgeLength, l)
		}
	}
	return report
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
