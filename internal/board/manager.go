package board

import (
	"sync"

	"github.com/philipparndt/arboard/internal/logging"
	"github.com/philipparndt/arboard/pkg/geometry"
)

// Board is a placed board
type Board struct {
	ID        string
	Transform Transform
	Rectangle geometry.Rectangle
}

// Pose is the world pose of a tracked image
type Pose struct {
	Position geometry.Vector3
	Up       geometry.Vector3
}

// Verdict is the outcome of an image-on-board check
type Verdict int

const (
	NoBoard      Verdict = iota // No board registered yet
	OutsideBoard                // Image is not above or below the board area
	Tilted                      // Image is inclined too far from the board
	OnBoard
)

func (v Verdict) String() string {
	switch v {
	case NoBoard:
		return "no board"
	case OutsideBoard:
		return "outside board"
	case Tilted:
		return "tilted"
	case OnBoard:
		return "on board"
	default:
		return "unknown"
	}
}

// OK reports whether the image is on the board
func (v Verdict) OK() bool {
	return v == OnBoard
}

// Manager holds the current board and answers image-on-board checks.
// It is safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	board *Board

	probeDistance float64
	tiltThreshold float64
}

// NewManager creates a manager. probeDistance is how far above and below the
// board an image may be; tiltThreshold is the minimum dot product between the
// image and board normals.
func NewManager(probeDistance, tiltThreshold float64) *Manager {
	return &Manager{probeDistance: probeDistance, tiltThreshold: tiltThreshold}
}

// SetBoard registers the board, replacing any previous one
func (m *Manager) SetBoard(b Board) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.board = &b
}

// Board returns the registered board
func (m *Manager) Board() (Board, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.board == nil {
		return Board{}, false
	}
	return *m.board, true
}

// ImageIsOnBoard checks whether an image lies within the board area and is
// oriented like the board
func (m *Manager) ImageIsOnBoard(p Pose) Verdict {
	b, ok := m.Board()
	if !ok {
		logging.Logf("[BoardManager] no board registered yet")
		return NoBoard
	}

	up := b.Transform.Up()
	probe := geometry.Ray{
		Origin:    p.Position.Add(up.Mul(m.probeDistance)),
		Direction: up.Neg(),
	}
	if !hitsRectangle(b.Rectangle, probe, 2*m.probeDistance) {
		logging.Logf("[BoardManager] image is outside the board area")
		return OutsideBoard
	}

	if p.Up.Normalize().Dot(up) < m.tiltThreshold {
		logging.Logf("[BoardManager] image tilt differs from the board: %s / %s", p.Up, up)
		return Tilted
	}

	return OnBoard
}

func hitsRectangle(r geometry.Rectangle, ray geometry.Ray, maxDistance float64) bool {
	for _, tri := range r.Triangles() {
		if d, ok := tri.IntersectRay(ray); ok && d <= maxDistance {
			return true
		}
	}
	return false
}
