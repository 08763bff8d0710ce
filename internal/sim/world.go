// Package sim is an in-memory AR environment: detected surfaces, tracked
// images, beacons and spawned boards. It stands in for the device tracking
// subsystem when running scenarios and in the desktop front-end.
package sim

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/philipparndt/arboard/internal/beacon"
	"github.com/philipparndt/arboard/internal/board"
	"github.com/philipparndt/arboard/internal/surface"
	"github.com/philipparndt/arboard/internal/tracking"
	"github.com/philipparndt/arboard/pkg/geometry"
)

// ErrUnknownSurface is returned when a surface name or ID is not tracked
var ErrUnknownSurface = errors.New("unknown surface")

// Surface is a detected planar surface
type Surface struct {
	ID        surface.ID
	Name      string
	Polygon   []geometry.Vector3
	Plane     geometry.Plane
	Highlight surface.Highlight
	triangles []geometry.Triangle
}

// Image is a tracked reference image
type Image struct {
	ID    string
	Name  string
	Pose  board.Pose
	State tracking.State
}

// SpawnedBoard is a board placed in the world
type SpawnedBoard struct {
	ID        string
	Transform board.Transform
}

// World holds the simulated scene. It is safe for concurrent use.
type World struct {
	mu sync.RWMutex

	surfaces map[surface.ID]*Surface
	order    []surface.ID
	enabled  bool

	images map[string]*Image

	beacons [beacon.Count]*beacon.Beacon
	outline []geometry.Vector3
	boards  []SpawnedBoard
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		surfaces: make(map[surface.ID]*Surface),
		images:   make(map[string]*Image),
	}
}

// AddSurface adds a convex polygonal surface. The normal follows the
// polygon winding.
func (w *World) AddSurface(name string, polygon []geometry.Vector3) (surface.ID, error) {
	if len(polygon) < 3 {
		return "", fmt.Errorf("surface %q: need at least 3 points, got %d", name, len(polygon))
	}

	plane, ok := planeOf(polygon)
	if !ok {
		return "", fmt.Errorf("surface %q: %w", name, geometry.ErrDegenerate)
	}

	s := &Surface{
		ID:      surface.ID(uuid.NewString()),
		Name:    name,
		Polygon: append([]geometry.Vector3(nil), polygon...),
		Plane:   plane,
	}
	for i := 1; i+1 < len(polygon); i++ {
		s.triangles = append(s.triangles, geometry.TriangleFromVertices(polygon[0], polygon[i], polygon[i+1]))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.surfaces[s.ID] = s
	w.order = append(w.order, s.ID)
	return s.ID, nil
}

// planeOf finds the first non-collinear corner triple
func planeOf(polygon []geometry.Vector3) (geometry.Plane, bool) {
	for i := 1; i+1 < len(polygon); i++ {
		if p, ok := geometry.PlaneFromPoints(polygon[0], polygon[i], polygon[i+1]); ok {
			return p, true
		}
	}
	return geometry.Plane{}, false
}

// FaceToward flips surface normals that point away from the viewpoint
func (w *World) FaceToward(viewpoint geometry.Vector3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.surfaces {
		if s.Plane.SignedDistance(viewpoint) < 0 {
			s.Plane.Normal = s.Plane.Normal.Neg()
		}
	}
}

// Lookup returns the ID of the surface with the given name
func (w *World) Lookup(name string) (surface.ID, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, id := range w.order {
		if w.surfaces[id].Name == name {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSurface, name)
}

// Surface returns a copy of a surface
func (w *World) Surface(id surface.ID) (Surface, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.surfaces[id]
	if !ok {
		return Surface{}, fmt.Errorf("%w: %s", ErrUnknownSurface, id)
	}
	return *s, nil
}

// SetEnabled starts or stops surface detection
func (w *World) SetEnabled(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enabled = enabled
}

// Enabled reports whether detection is on
func (w *World) Enabled() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.enabled
}

// Surfaces lists live surfaces in insertion order
func (w *World) Surfaces() []surface.ID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]surface.ID(nil), w.order...)
}

// Plane returns the infinite plane of a surface
func (w *World) Plane(id surface.ID) (geometry.Plane, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.surfaces[id]
	if !ok {
		return geometry.Plane{}, false
	}
	return s.Plane, true
}

// Name returns the name of a surface
func (w *World) Name(id surface.ID) string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if s, ok := w.surfaces[id]; ok {
		return s.Name
	}
	return ""
}

// SetHighlight switches a surface's appearance. Unknown IDs are ignored.
func (w *World) SetHighlight(id surface.ID, h surface.Highlight) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.surfaces[id]; ok {
		s.Highlight = h
	}
}

// Destroy removes a surface
func (w *World) Destroy(id surface.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.surfaces[id]; !ok {
		return
	}
	delete(w.surfaces, id)
	for i, other := range w.order {
		if other == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Raycast returns the nearest live surface hit within maxDistance
func (w *World) Raycast(ray geometry.Ray, maxDistance float64) (surface.ID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var (
		best    surface.ID
		bestHit = maxDistance
		found   bool
	)
	for _, id := range w.order {
		for _, tri := range w.surfaces[id].triangles {
			if d, ok := tri.IntersectRay(ray); ok && d <= bestHit {
				best, bestHit, found = id, d, true
			}
		}
	}
	return best, found
}

// ShowBeacon places or moves a beacon marker
func (w *World) ShowBeacon(index int, b beacon.Beacon) {
	if index < 0 || index >= beacon.Count {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.beacons[index] = &b
}

// HideBeacon removes a beacon marker
func (w *World) HideBeacon(index int) {
	if index < 0 || index >= beacon.Count {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.beacons[index] = nil
}

// ShowOutline replaces the rectangle outline
func (w *World) ShowOutline(points []geometry.Vector3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outline = append(w.outline[:0], points...)
}

// Beacons returns the visible beacons
func (w *World) Beacons() []beacon.Beacon {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []beacon.Beacon
	for _, b := range w.beacons {
		if b != nil {
			out = append(out, *b)
		}
	}
	return out
}

// Outline returns the rectangle outline
func (w *World) Outline() []geometry.Vector3 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]geometry.Vector3(nil), w.outline...)
}

// SpawnBoard places a board and returns its ID
func (w *World) SpawnBoard(t board.Transform) string {
	id := uuid.NewString()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.boards = append(w.boards, SpawnedBoard{ID: id, Transform: t})
	return id
}

// Boards returns the spawned boards
func (w *World) Boards() []SpawnedBoard {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]SpawnedBoard(nil), w.boards...)
}

// AddImage starts tracking an image and returns its ID
func (w *World) AddImage(name string, pose board.Pose, state tracking.State) string {
	id := uuid.NewString()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.images[id] = &Image{ID: id, Name: name, Pose: pose, State: state}
	return id
}

// MoveImage updates the pose and tracking state of an image
func (w *World) MoveImage(id string, pose board.Pose, state tracking.State) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	img, ok := w.images[id]
	if ok {
		img.Pose, img.State = pose, state
	}
	return ok
}

// Images returns the tracked images ordered by name
func (w *World) Images() []Image {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Image, 0, len(w.images))
	for _, img := range w.images {
		out = append(out, *img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ImagePose reports the current pose of an image
func (w *World) ImagePose(id string) (board.Pose, tracking.State, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	img, ok := w.images[id]
	if !ok {
		return board.Pose{}, tracking.None, false
	}
	return img.Pose, img.State, true
}
