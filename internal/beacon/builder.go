// Package beacon builds a rectangle on a confirmed surface from three
// press-drag-release gestures: corner A, corner B, then a free point that
// fixes the height.
package beacon

import (
	"github.com/philipparndt/arboard/internal/board"
	"github.com/philipparndt/arboard/internal/input"
	"github.com/philipparndt/arboard/internal/logging"
	"github.com/philipparndt/arboard/internal/surface"
	"github.com/philipparndt/arboard/pkg/geometry"
)

// DefaultScaleFactor converts metres to the local scale of the 10x10 board
const DefaultScaleFactor = 0.1

// Presenter renders beacons and the forming rectangle
type Presenter interface {
	ShowBeacon(index int, b Beacon)
	HideBeacon(index int)
	ShowOutline(points []geometry.Vector3)
}

// Options wires a Builder to its collaborators
type Options struct {
	Camera    input.Camera
	Pointer   input.Pointer
	Presenter Presenter // Optional

	ScaleFactor   float64 // World units to board local scale, DefaultScaleFactor if zero
	MinEdgeLength float64 // Edges shorter than this are refused
}

// Result describes the completed rectangle
type Result struct {
	Surface   surface.ID
	Rectangle geometry.Rectangle
	Transform board.Transform
}

// Builder drives the three-phase beacon placement. It is driven from a
// single goroutine.
type Builder struct {
	opts Options

	surface   surface.ID
	plane     geometry.Plane
	phase     Phase
	listening bool
	holding   bool

	state   placement
	placed  [Count]bool
	points  int // Number of outline points in use
	result  Result
	hasDone bool

	completed chan Result
}

// NewBuilder creates a builder. It does nothing until EnterSelectMode.
func NewBuilder(opts Options) *Builder {
	if opts.ScaleFactor == 0 {
		opts.ScaleFactor = DefaultScaleFactor
	}
	return &Builder{
		opts:      opts,
		completed: make(chan Result, 1),
	}
}

// EnterSelectMode starts placement on the surface's infinite plane
func (b *Builder) EnterSelectMode(s surface.Surface) {
	for i := range b.placed {
		if b.placed[i] {
			b.hide(i)
		}
	}

	b.surface = s.ID
	b.plane = s.Plane
	b.phase = First
	b.listening = true
	b.holding = false
	b.state = placement{normal: s.Plane.Normal}
	b.placed = [Count]bool{}
	b.points = 0
	b.result = Result{}
	b.hasDone = false
	b.present()

	logging.Logf("[Builder] select mode entered on %s", s.Name)
}

// Phase returns the current phase
func (b *Builder) Phase() Phase {
	return b.phase
}

// Listening reports whether pointer events are currently handled
func (b *Builder) Listening() bool {
	return b.listening
}

// Holding reports whether a beacon is being dragged
func (b *Builder) Holding() bool {
	return b.holding
}

// Beacon returns the beacon of a slot if it has been placed
func (b *Builder) Beacon(index int) (Beacon, bool) {
	if index < 0 || index >= Count || !b.placed[index] {
		return Beacon{}, false
	}
	return b.state.beacons[index], true
}

// Outline returns the outline points of the rectangle being formed: one
// point for corner A, two once B is placed, four while and after placing C
func (b *Builder) Outline() []geometry.Vector3 {
	out := make([]geometry.Vector3, b.points)
	copy(out, b.state.outline[:b.points])
	return out
}

// Result returns the rectangle once placement has completed
func (b *Builder) Result() (Result, bool) {
	return b.result, b.hasDone
}

// Completed delivers the result of each completed placement
func (b *Builder) Completed() <-chan Result {
	return b.completed
}

// HandleEvent routes a pointer event to press, drag or release handling
func (b *Builder) HandleEvent(ev input.Event) {
	if !b.listening {
		return
	}

	switch ev.Kind {
	case input.Press:
		b.press()
	case input.Drag:
		b.drag()
	case input.Release:
		b.release()
	}
}

// cursorPoint projects the pointer onto the surface plane
func (b *Builder) cursorPoint() (geometry.Vector3, bool) {
	ray := b.opts.Camera.ScreenPointToRay(b.opts.Pointer.Position())
	return b.plane.Intersect(ray)
}

func (b *Builder) press() {
	logging.Logf("[Builder] create beacon, phase: %s", b.phase)

	if b.holding {
		logging.Warnf("[Builder] pressed again before release")
		return
	}

	point, ok := b.cursorPoint()
	if !ok {
		return
	}
	i, _ := b.phase.Index()

	b.holding = true
	b.state.beacons[i] = Beacon{Position: point, Rotation: geometry.FromUp(b.plane.Normal)}
	b.placed[i] = true
	b.points = b.phase.outlineLen()
	b.apply(point)
}

func (b *Builder) drag() {
	if !b.holding {
		return
	}
	point, ok := b.cursorPoint()
	if !ok {
		return
	}
	b.apply(point)
}

// apply runs the current phase's geometry and refreshes the presentation
func (b *Builder) apply(point geometry.Vector3) {
	i, _ := b.phase.Index()
	b.state = steps[i](b.state, point)
	b.present()
}

func (b *Builder) release() {
	// A press that started before select mode was entered has no beacon
	if !b.holding {
		return
	}
	logging.Logf("[Builder] put beacon, phase: %s", b.phase)
	b.holding = false

	if b.degenerate() {
		b.discard()
		return
	}

	b.phase++
	logging.Logf("[Builder] phase: %s", b.phase)

	if b.phase == Done {
		b.complete()
	}
}

// degenerate reports whether the beacon just placed would collapse the
// rectangle
func (b *Builder) degenerate() bool {
	a, c := b.state.outline[0], b.state.outline[3]
	switch b.phase {
	case Second:
		if l := a.Distance(b.state.outline[1]); l < b.opts.MinEdgeLength {
			logging.Warnf("[Builder] base edge too short (%.4f), place the second corner again", l)
			return true
		}
	case Last:
		if h := a.Distance(c); h < b.opts.MinEdgeLength {
			logging.Warnf("[Builder] height too small (%.4f), place the last point again", h)
			return true
		}
	}
	return false
}

// discard removes the beacon of the current phase so the phase is retried
func (b *Builder) discard() {
	i, _ := b.phase.Index()
	b.placed[i] = false
	b.state.beacons[i] = Beacon{}
	b.points = (b.phase - 1).outlineLen()
	b.hide(i)
	b.present()
}

// complete stops listening and publishes the rectangle
func (b *Builder) complete() {
	b.listening = false

	rect := geometry.Rectangle{Corners: b.state.outline}
	b.result = Result{
		Surface:   b.surface,
		Rectangle: rect,
		Transform: board.FromRectangle(rect, b.state.beacons[0].Rotation, b.opts.ScaleFactor),
	}
	b.hasDone = true

	logging.Logf("[Builder] rectangle: center %s length %.3f height %.3f",
		rect.Center(), rect.Length(), rect.Height())

	select {
	case b.completed <- b.result:
	default:
		// Previous result was never read
		select {
		case <-b.completed:
		default:
		}
		b.completed <- b.result
	}
}

func (b *Builder) present() {
	if b.opts.Presenter == nil {
		return
	}
	for i := range b.placed {
		if b.placed[i] {
			b.opts.Presenter.ShowBeacon(i, b.state.beacons[i])
		}
	}
	b.opts.Presenter.ShowOutline(b.Outline())
}

func (b *Builder) hide(i int) {
	if b.opts.Presenter != nil {
		b.opts.Presenter.HideBeacon(i)
	}
}
