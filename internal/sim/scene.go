package sim

import (
	"image/color"

	"github.com/philipparndt/arboard/internal/surface"
	"github.com/philipparndt/arboard/pkg/geometry"
	"github.com/philipparndt/arboard/pkg/viewer"
)

// Scene colors
var (
	SurfaceColor = color.RGBA{90, 96, 110, 255}
	FocusedColor = color.RGBA{230, 190, 60, 255}
	BoardColor   = color.RGBA{60, 130, 220, 255}
	OutlineColor = color.RGBA{255, 230, 80, 255}
	ImageColor   = color.RGBA{220, 80, 220, 255}
	LabelColor   = color.RGBA{235, 235, 235, 255}

	beaconColors = []color.RGBA{
		{230, 60, 60, 255},  // A
		{60, 200, 90, 255},  // B
		{80, 140, 255, 255}, // C
	}
)

// boardLift keeps boards from z-fighting with the surface they lie on
const boardLift = 0.005

// Scene renders the current world state for the viewer
func (w *World) Scene() viewer.Scene {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var scene viewer.Scene

	for _, b := range w.boards {
		lift := b.Transform.Up().Mul(boardLift)
		corners := b.Transform.Corners()
		points := make([]geometry.Vector3, len(corners))
		for i, c := range corners {
			points[i] = c.Add(lift)
		}
		scene.Polygons = append(scene.Polygons, viewer.Polygon{Points: points, Fill: BoardColor})
		scene.Lines = append(scene.Lines, viewer.Polyline{Points: points, Closed: true, Color: LabelColor})
	}

	for _, id := range w.order {
		s, ok := w.surfaces[id]
		if !ok {
			continue
		}
		fill := SurfaceColor
		if s.Highlight == surface.HighlightFocused {
			fill = FocusedColor
		}
		scene.Polygons = append(scene.Polygons, viewer.Polygon{Points: s.Polygon, Fill: fill})
		scene.Labels = append(scene.Labels, viewer.Label{Position: centroid(s.Polygon), Text: s.Name, Color: LabelColor})
	}

	if len(w.outline) > 1 {
		scene.Lines = append(scene.Lines, viewer.Polyline{
			Points: append([]geometry.Vector3(nil), w.outline...),
			Closed: len(w.outline) == 4,
			Color:  OutlineColor,
		})
	}

	for i, b := range w.beacons {
		if b == nil {
			continue
		}
		scene.Markers = append(scene.Markers, viewer.Marker{Position: b.Position, Color: beaconColors[i%len(beaconColors)], Size: 9})
	}

	for _, img := range w.images {
		scene.Markers = append(scene.Markers, viewer.Marker{Position: img.Pose.Position, Color: ImageColor})
		scene.Labels = append(scene.Labels, viewer.Label{Position: img.Pose.Position, Text: img.Name, Color: ImageColor})
	}

	return scene
}

func centroid(points []geometry.Vector3) geometry.Vector3 {
	var sum geometry.Vector3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}
