package sim

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/philipparndt/arboard/internal/board"
	"github.com/philipparndt/arboard/internal/input"
	"github.com/philipparndt/arboard/internal/tracking"
	"github.com/philipparndt/arboard/pkg/geometry"
	"github.com/philipparndt/arboard/pkg/viewer"
)

// Scenario defaults
const (
	DefaultFOV    = 60.0 // degrees
	DefaultWidth  = 1280.0
	DefaultHeight = 720.0
)

// Vec is a point written as a YAML sequence [x, y, z]
type Vec [3]float64

// Vector converts to a geometry vector
func (v Vec) Vector() geometry.Vector3 {
	return geometry.NewVector3(v[0], v[1], v[2])
}

// CameraSpec places the simulated device camera
type CameraSpec struct {
	Position Vec     `yaml:"position"`
	Target   Vec     `yaml:"target"`
	FOV      float64 `yaml:"fov"` // Vertical field of view in degrees
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
}

// SurfaceSpec is a detected surface given as a convex polygon
type SurfaceSpec struct {
	Name    string `yaml:"name"`
	Polygon []Vec  `yaml:"polygon"`
}

// EventSpec is one pointer event. Aim is a world point projected to the
// screen, At a raw screen position. Without either the pointer stays put.
type EventSpec struct {
	Type string      `yaml:"type"`
	Aim  *Vec        `yaml:"aim,omitempty"`
	At   *[2]float64 `yaml:"at,omitempty"`
}

// ImageSpec is a tracked reference image
type ImageSpec struct {
	Name     string `yaml:"name"`
	Position Vec    `yaml:"position"`
	Up       Vec    `yaml:"up"`
	Tracking string `yaml:"tracking"`
}

// Scenario is a scripted authoring session
type Scenario struct {
	Camera   CameraSpec    `yaml:"camera"`
	Surfaces []SurfaceSpec `yaml:"surfaces"`
	Events   []EventSpec   `yaml:"events"`
	Images   []ImageSpec   `yaml:"images"`
}

// LoadScenario reads and validates a scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes and validates a scenario
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Camera.FOV == 0 {
		s.Camera.FOV = DefaultFOV
	}
	if s.Camera.Width == 0 {
		s.Camera.Width = DefaultWidth
	}
	if s.Camera.Height == 0 {
		s.Camera.Height = DefaultHeight
	}
	for i := range s.Images {
		if s.Images[i].Up == (Vec{}) {
			s.Images[i].Up = Vec{0, 1, 0}
		}
	}
}

// Validate checks the scenario for structural errors
func (s *Scenario) Validate() error {
	if s.Camera.Position == s.Camera.Target {
		return fmt.Errorf("camera position and target coincide")
	}
	if s.Camera.FOV <= 0 || s.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180) degrees, got %v", s.Camera.FOV)
	}
	if s.Camera.Width <= 0 || s.Camera.Height <= 0 {
		return fmt.Errorf("camera size must be positive, got %vx%v", s.Camera.Width, s.Camera.Height)
	}

	names := make(map[string]bool)
	for i, sf := range s.Surfaces {
		if sf.Name == "" {
			return fmt.Errorf("surface %d: missing name", i)
		}
		if names[sf.Name] {
			return fmt.Errorf("surface %q: duplicate name", sf.Name)
		}
		names[sf.Name] = true
		if len(sf.Polygon) < 3 {
			return fmt.Errorf("surface %q: need at least 3 points, got %d", sf.Name, len(sf.Polygon))
		}
	}

	for i, ev := range s.Events {
		if _, err := parseKind(ev.Type); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if ev.Aim != nil && ev.At != nil {
			return fmt.Errorf("event %d: aim and at are exclusive", i)
		}
	}

	for _, img := range s.Images {
		if img.Name == "" {
			return fmt.Errorf("image: missing name")
		}
		if _, err := tracking.ParseState(img.Tracking); err != nil {
			return fmt.Errorf("image %q: %w", img.Name, err)
		}
	}
	return nil
}

func parseKind(s string) (input.Kind, error) {
	switch s {
	case "press":
		return input.Press, nil
	case "drag":
		return input.Drag, nil
	case "release":
		return input.Release, nil
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// ViewerCamera returns the scenario camera
func (s *Scenario) ViewerCamera() *viewer.Camera {
	fov := s.Camera.FOV * math.Pi / 180
	return viewer.NewLookAtCamera(s.Camera.Position.Vector(), s.Camera.Target.Vector(), fov)
}

// Viewport returns the scenario camera with its screen size
func (s *Scenario) Viewport() input.Viewport {
	return input.Viewport{Camera: s.ViewerCamera(), Width: s.Camera.Width, Height: s.Camera.Height}
}

// Build creates the world with the scenario's surfaces and images. Surface
// normals face the camera.
func (s *Scenario) Build() (*World, error) {
	w := NewWorld()
	for _, sf := range s.Surfaces {
		polygon := make([]geometry.Vector3, len(sf.Polygon))
		for i, p := range sf.Polygon {
			polygon[i] = p.Vector()
		}
		if _, err := w.AddSurface(sf.Name, polygon); err != nil {
			return nil, err
		}
	}
	w.FaceToward(s.Camera.Position.Vector())

	for _, img := range s.Images {
		state, _ := tracking.ParseState(img.Tracking)
		pose := board.Pose{Position: img.Position.Vector(), Up: img.Up.Vector().Normalize()}
		w.AddImage(img.Name, pose, state)
	}
	return w, nil
}

// Player turns scenario events into pointer events
type Player struct {
	viewport input.Viewport
	events   []EventSpec
}

// NewPlayer creates a player for the scenario's events
func NewPlayer(s *Scenario) *Player {
	return &Player{viewport: s.Viewport(), events: s.Events}
}

// Events resolves every event to a screen position. The pointer starts at
// the screen center.
func (p *Player) Events() ([]input.Event, error) {
	pos := input.Point{X: p.viewport.Width / 2, Y: p.viewport.Height / 2}
	out := make([]input.Event, 0, len(p.events))

	for i, ev := range p.events {
		kind, err := parseKind(ev.Type)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		switch {
		case ev.Aim != nil:
			screen, ok := p.viewport.WorldToScreen(ev.Aim.Vector())
			if !ok {
				return nil, fmt.Errorf("event %d: aim %s is behind the camera", i, ev.Aim.Vector())
			}
			pos = screen
		case ev.At != nil:
			pos = input.Point{X: ev.At[0], Y: ev.At[1]}
		}
		out = append(out, input.Event{Kind: kind, Position: pos})
	}
	return out, nil
}

// Stream sends the events on a channel that is closed after the last one or
// when ctx is done
func (p *Player) Stream(ctx context.Context) (<-chan input.Event, error) {
	events, err := p.Events()
	if err != nil {
		return nil, err
	}

	ch := make(chan input.Event)
	go func() {
		defer close(ch)
		for _, ev := range events {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
