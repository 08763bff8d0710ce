// Package tracking periodically reports whether tracked reference images lie
// on the placed board.
package tracking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/philipparndt/arboard/internal/board"
	"github.com/philipparndt/arboard/internal/logging"
)

// State is the tracking quality of an image
type State int

const (
	None     State = iota // Not tracked
	Limited               // Pose may be stale
	Tracking              // Actively tracked
)

func (s State) String() string {
	switch s {
	case None:
		return "None"
	case Limited:
		return "Limited"
	case Tracking:
		return "Tracking"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ParseState parses a tracking state name, case as printed by String or
// all lower case
func ParseState(s string) (State, error) {
	switch s {
	case "None", "none", "":
		return None, nil
	case "Limited", "limited":
		return Limited, nil
	case "Tracking", "tracking":
		return Tracking, nil
	}
	return None, fmt.Errorf("unknown tracking state %q", s)
}

// Image identifies a tracked reference image
type Image struct {
	ID   string
	Name string
}

// ChangeKind says whether an image appeared or disappeared
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
)

// Change is a tracked image set update
type Change struct {
	Kind  ChangeKind
	Image Image
}

// Source reports the current pose of tracked images
type Source interface {
	ImagePose(id string) (board.Pose, State, bool)
}

// Checker decides whether a pose lies on the board
type Checker interface {
	ImageIsOnBoard(p board.Pose) board.Verdict
}

// Report is the latest check of one image
type Report struct {
	Image   Image
	State   State
	Verdict board.Verdict
	At      time.Time
}

func (r Report) String() string {
	return fmt.Sprintf("image:%s | tracking:%s | on board:%t", r.Image.Name, r.State, r.Verdict.OK())
}

// Monitor polls every added image until it is removed or the monitor stops
type Monitor struct {
	source   Source
	checker  Checker
	interval time.Duration

	mu   sync.RWMutex
	last map[string]Report
}

// NewMonitor creates a monitor polling at the given interval
func NewMonitor(source Source, checker Checker, interval time.Duration) *Monitor {
	return &Monitor{
		source:   source,
		checker:  checker,
		interval: interval,
		last:     make(map[string]Report),
	}
}

// Run handles image changes until ctx is done. It returns after every
// polling loop has exited.
func (m *Monitor) Run(ctx context.Context, changes <-chan Change) error {
	var wg sync.WaitGroup
	loops := make(map[string]context.CancelFunc)
	defer func() {
		for _, cancel := range loops {
			cancel()
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ch, ok := <-changes:
			if !ok {
				// No more changes, keep polling what we have
				changes = nil
				continue
			}
			switch ch.Kind {
			case Added:
				if _, running := loops[ch.Image.ID]; running {
					continue
				}
				logging.Logf("[ImageMonitor] image detected: %s", ch.Image.Name)
				loopCtx, cancel := context.WithCancel(ctx)
				loops[ch.Image.ID] = cancel
				wg.Add(1)
				go func(img Image) {
					defer wg.Done()
					m.poll(loopCtx, img)
				}(ch.Image)

			case Removed:
				if cancel, running := loops[ch.Image.ID]; running {
					logging.Logf("[ImageMonitor] image lost: %s", ch.Image.Name)
					cancel()
					delete(loops, ch.Image.ID)
				}
			}
		}
	}
}

// poll checks the image immediately and then on every tick
func (m *Monitor) poll(ctx context.Context, img Image) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.check(img)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// check evaluates one image and records the report
func (m *Monitor) check(img Image) {
	pose, state, ok := m.source.ImagePose(img.ID)
	if !ok {
		return
	}

	r := Report{Image: img, State: state, Verdict: m.checker.ImageIsOnBoard(pose), At: time.Now()}
	logging.Logf("[ImageMonitor] %s", r)

	m.mu.Lock()
	m.last[img.ID] = r
	m.mu.Unlock()
}

// Snapshot returns the latest report per image, ordered by image name
func (m *Monitor) Snapshot() []Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reports := make([]Report, 0, len(m.last))
	for _, r := range m.last {
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Image.Name < reports[j].Image.Name
	})
	return reports
}
