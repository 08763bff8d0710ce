// Package session sequences one authoring session: surface selection, then
// rectangle placement on the confirmed surface, then board instantiation.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/philipparndt/arboard/internal/beacon"
	"github.com/philipparndt/arboard/internal/board"
	"github.com/philipparndt/arboard/internal/config"
	"github.com/philipparndt/arboard/internal/input"
	"github.com/philipparndt/arboard/internal/logging"
	"github.com/philipparndt/arboard/internal/surface"
)

var (
	// ErrCancelled is returned when the context ends a running session
	ErrCancelled = errors.New("session cancelled")
	// ErrIncomplete is returned when the events run out before a board exists
	ErrIncomplete = errors.New("session incomplete")
)

// Stage is the step a session is in
type Stage int

const (
	Idle Stage = iota
	Selecting
	Building
	Complete
	Cancelled
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting surface"
	case Building:
		return "placing beacons"
	case Complete:
		return "complete"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// BoardSpawner instantiates the board model
type BoardSpawner interface {
	SpawnBoard(t board.Transform) string
}

// Options wires a session to the environment
type Options struct {
	Tracker   surface.Tracker
	HitTester surface.HitTester
	Camera    input.Camera
	Presenter beacon.Presenter // Optional
	Spawner   BoardSpawner     // Optional
	Boards    *board.Manager   // Optional, receives the placed board
	Config    *config.Config   // Defaults if nil
}

// Session runs selector and builder against one pointer stream. It is
// driven from a single goroutine.
type Session struct {
	pointer  *input.Tracker
	selector *surface.FocusSelector
	builder  *beacon.Builder
	spawner  BoardSpawner
	boards   *board.Manager

	stage  Stage
	result beacon.Result
	board  board.Board
}

// New creates a session. Call Start to begin surface selection.
func New(opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	pointer := &input.Tracker{}
	return &Session{
		pointer: pointer,
		selector: surface.NewFocusSelector(surface.Options{
			Tracker:     opts.Tracker,
			HitTester:   opts.HitTester,
			Camera:      opts.Camera,
			Pointer:     pointer,
			MaxDistance: cfg.RaycastDistance,
		}),
		builder: beacon.NewBuilder(beacon.Options{
			Camera:        opts.Camera,
			Pointer:       pointer,
			Presenter:     opts.Presenter,
			ScaleFactor:   cfg.ScaleFactor,
			MinEdgeLength: cfg.MinEdgeLength,
		}),
		spawner: opts.Spawner,
		boards:  opts.Boards,
	}
}

// Start enters surface selection
func (s *Session) Start() {
	s.setStage(Selecting)
	s.selector.EnterSelectMode()
}

// Cancel abandons the session. Surface selection is cancelled cooperatively;
// placement simply stops receiving events.
func (s *Session) Cancel() {
	if s.stage == Selecting {
		s.selector.CancelSelectMode()
	}
	if s.stage != Complete {
		s.setStage(Cancelled)
	}
}

// Dispatch routes one pointer event to the active component and advances the
// stage when that component finishes
func (s *Session) Dispatch(ev input.Event) {
	s.pointer.Observe(ev)

	switch s.stage {
	case Selecting:
		s.selector.HandleEvent(ev)
	case Building:
		s.builder.HandleEvent(ev)
	default:
		return
	}
	s.advance()
}

// advance consumes component results without blocking
func (s *Session) advance() {
	select {
	case sf := <-s.selector.Done():
		s.setStage(Building)
		s.builder.EnterSelectMode(sf)
	default:
	}

	select {
	case res := <-s.builder.Completed():
		s.result = res
		s.instantiate(res)
		s.setStage(Complete)
	default:
	}
}

// instantiate spawns the board and registers it for image checks
func (s *Session) instantiate(res beacon.Result) {
	b := board.Board{Transform: res.Transform, Rectangle: res.Rectangle}
	if s.spawner != nil {
		b.ID = s.spawner.SpawnBoard(res.Transform)
	}
	if s.boards != nil {
		s.boards.SetBoard(b)
	}
	s.board = b
	logging.Logf("[Session] board created: %s", res.Transform)
}

// Run starts the session and dispatches events until a board is placed.
// It fails with ErrCancelled when ctx ends first and with ErrIncomplete when
// events is closed first.
func (s *Session) Run(ctx context.Context, events <-chan input.Event) (board.Board, error) {
	if s.stage == Idle {
		s.Start()
	}

	for s.stage != Complete {
		select {
		case <-ctx.Done():
			s.Cancel()
			return board.Board{}, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())

		case ev, ok := <-events:
			if !ok {
				return board.Board{}, fmt.Errorf("%w: events ended while %s", ErrIncomplete, s.stage)
			}
			s.Dispatch(ev)
		}
	}
	return s.board, nil
}

func (s *Session) setStage(stage Stage) {
	s.stage = stage
	logging.Logf("[Session] stage: %s", stage)
}

// Stage returns the current stage
func (s *Session) Stage() Stage { return s.stage }

// Selector returns the surface selector
func (s *Session) Selector() *surface.FocusSelector { return s.selector }

// Builder returns the beacon builder
func (s *Session) Builder() *beacon.Builder { return s.builder }

// Pointer returns the pointer position tracker
func (s *Session) Pointer() *input.Tracker { return s.pointer }

// Surface returns the confirmed surface
func (s *Session) Surface() (surface.Surface, bool) {
	return s.selector.Confirmed()
}

// Result returns the completed rectangle
func (s *Session) Result() (beacon.Result, bool) {
	return s.result, s.stage == Complete
}

// Board returns the placed board
func (s *Session) Board() (board.Board, bool) {
	return s.board, s.stage == Complete
}
