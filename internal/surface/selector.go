package surface

import (
	"github.com/philipparndt/arboard/internal/input"
	"github.com/philipparndt/arboard/internal/logging"
)

// DefaultMaxDistance is the default reach of the picking ray
const DefaultMaxDistance = 5.0

// Options wires a FocusSelector to its collaborators
type Options struct {
	Tracker     Tracker
	HitTester   HitTester
	Camera      input.Camera
	Pointer     input.Pointer
	MaxDistance float64 // Picking ray length, DefaultMaxDistance if zero
}

// FocusSelector implements tap-to-focus / tap-to-confirm surface selection.
// It is driven from a single goroutine.
type FocusSelector struct {
	opts Options

	listening   bool
	focused     ID
	hasFocus    bool
	confirmed   Surface
	isConfirmed bool

	done chan Surface
}

// NewFocusSelector creates a selector. It does nothing until EnterSelectMode.
func NewFocusSelector(opts Options) *FocusSelector {
	if opts.MaxDistance <= 0 {
		opts.MaxDistance = DefaultMaxDistance
	}
	return &FocusSelector{
		opts: opts,
		done: make(chan Surface, 1),
	}
}

// EnterSelectMode enables surface detection and starts reacting to taps
func (s *FocusSelector) EnterSelectMode() {
	s.opts.Tracker.SetEnabled(true)
	s.listening = true
	logging.Logf("[FocusSelector] select mode entered")
}

// CancelSelectMode disables detection and stops reacting to taps without
// confirming anything. A focused surface returns to its default appearance.
func (s *FocusSelector) CancelSelectMode() {
	s.opts.Tracker.SetEnabled(false)
	s.listening = false
	if s.hasFocus {
		s.opts.Tracker.SetHighlight(s.focused, HighlightDefault)
		s.focused, s.hasFocus = "", false
	}
	logging.Logf("[FocusSelector] select mode cancelled")
}

// Listening reports whether taps are currently handled
func (s *FocusSelector) Listening() bool {
	return s.listening
}

// Focused returns the currently focused surface
func (s *FocusSelector) Focused() (ID, bool) {
	return s.focused, s.hasFocus
}

// Confirmed returns the confirmed surface once selection has completed
func (s *FocusSelector) Confirmed() (Surface, bool) {
	return s.confirmed, s.isConfirmed
}

// Done delivers the confirmed surface exactly once
func (s *FocusSelector) Done() <-chan Surface {
	return s.done
}

// HandleEvent reacts to press events while in select mode. Drag and release
// events are ignored.
func (s *FocusSelector) HandleEvent(ev input.Event) {
	if !s.listening || ev.Kind != input.Press {
		return
	}

	ray := s.opts.Camera.ScreenPointToRay(s.opts.Pointer.Position())
	hit, ok := s.opts.HitTester.Raycast(ray, s.opts.MaxDistance)
	s.tap(hit, ok)
}

// tap confirms a re-tapped focused surface or moves the focus
func (s *FocusSelector) tap(hit ID, ok bool) {
	if ok && s.hasFocus && hit == s.focused {
		plane, known := s.opts.Tracker.Plane(hit)
		if !known {
			logging.Warnf("[FocusSelector] focused surface %s is no longer tracked", hit)
			s.focused, s.hasFocus = "", false
			return
		}
		s.confirmed = Surface{ID: hit, Name: nameOf(s.opts.Tracker, hit), Plane: plane}
		s.isConfirmed = true
		logging.Logf("[FocusSelector] confirmed: %s", s.confirmed.Name)
		s.complete()
		return
	}

	if s.hasFocus {
		s.opts.Tracker.SetHighlight(s.focused, HighlightDefault)
	}

	s.focused, s.hasFocus = hit, ok

	if s.hasFocus {
		s.opts.Tracker.SetHighlight(s.focused, HighlightFocused)
		logging.Logf("[FocusSelector] focused: %s", nameOf(s.opts.Tracker, hit))
	}
}

// complete tears down every other surface, stops detection and listening,
// then publishes the result
func (s *FocusSelector) complete() {
	for _, id := range s.opts.Tracker.Surfaces() {
		if id != s.confirmed.ID {
			s.opts.Tracker.Destroy(id)
		}
	}
	s.opts.Tracker.SetEnabled(false)
	logging.Logf("[FocusSelector] surfaces left after selection: %d", len(s.opts.Tracker.Surfaces()))

	s.listening = false
	s.done <- s.confirmed
}
