package stl

import (
	"github.com/philipparndt/arboard/pkg/geometry"
)

// Model is a triangle mesh as stored in an STL file
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates an empty model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle appends a triangle
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox returns the bounds of all vertices
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, t := range m.Triangles {
		bbox.Extend(t.V1)
		bbox.Extend(t.V2)
		bbox.Extend(t.V3)
	}
	return bbox
}

// SurfaceArea returns the summed triangle area
func (m *Model) SurfaceArea() float64 {
	total := 0.0
	for _, t := range m.Triangles {
		total += t.Area()
	}
	return total
}

// BoardModel builds a closed slab over a rectangle. The slab rises from the
// rectangle along normal by thickness; all facet normals point outward.
func BoardModel(name string, corners [4]geometry.Vector3, normal geometry.Vector3, thickness float64) *Model {
	lift := normal.Normalize().Mul(thickness)

	var bottom, top [4]geometry.Vector3
	for i, c := range corners {
		bottom[i] = c
		top[i] = c.Add(lift)
	}

	center := geometry.BoundsOf(append(bottom[:], top[:]...)...).Center()
	model := NewModel(name)
	quad := func(a, b, c, d geometry.Vector3) {
		model.AddTriangle(outward(center, a, b, c))
		model.AddTriangle(outward(center, a, c, d))
	}

	quad(top[0], top[1], top[2], top[3])
	quad(bottom[0], bottom[3], bottom[2], bottom[1])
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		quad(bottom[i], bottom[j], top[j], top[i])
	}
	return model
}

// outward builds a triangle whose normal points away from center
func outward(center, a, b, c geometry.Vector3) geometry.Triangle {
	t := geometry.TriangleFromVertices(a, b, c)
	if t.Normal.Dot(t.Center().Sub(center)) < 0 {
		t = geometry.TriangleFromVertices(a, c, b)
	}
	return t
}
