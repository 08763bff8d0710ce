package tracking

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/arboard/internal/board"
	"github.com/philipparndt/arboard/internal/logging"
	"github.com/philipparndt/arboard/pkg/geometry"
)

func TestMain(m *testing.M) {
	logging.Mute()
	os.Exit(m.Run())
}

type fakeSource struct {
	mu     sync.Mutex
	poses  map[string]board.Pose
	states map[string]State
	calls  map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		poses:  make(map[string]board.Pose),
		states: make(map[string]State),
		calls:  make(map[string]int),
	}
}

func (s *fakeSource) set(id string, pose board.Pose, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poses[id] = pose
	s.states[id] = state
}

func (s *fakeSource) callCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[id]
}

func (s *fakeSource) ImagePose(id string) (board.Pose, State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[id]++
	p, ok := s.poses[id]
	return p, s.states[id], ok
}

// aboveOrigin accepts poses with non-negative X
type aboveOrigin struct {
	checks atomic.Int64
}

func (c *aboveOrigin) ImageIsOnBoard(p board.Pose) board.Verdict {
	c.checks.Add(1)
	if p.Position.X >= 0 {
		return board.OnBoard
	}
	return board.OutsideBoard
}

func TestParseState(t *testing.T) {
	for _, s := range []State{None, Limited, Tracking} {
		got, err := ParseState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseState("tracking")
	require.NoError(t, err)
	assert.Equal(t, Tracking, got)

	_, err = ParseState("lost")
	assert.Error(t, err)
}

func TestReportString(t *testing.T) {
	r := Report{Image: Image{Name: "marker"}, State: Tracking, Verdict: board.OnBoard}
	assert.Equal(t, "image:marker | tracking:Tracking | on board:true", r.String())
}

func TestMonitorReportsAddedImages(t *testing.T) {
	src := newFakeSource()
	src.set("a", board.Pose{Position: geometry.NewVector3(1, 0, 0), Up: geometry.Up}, Tracking)
	src.set("b", board.Pose{Position: geometry.NewVector3(-1, 0, 0), Up: geometry.Up}, Limited)

	m := NewMonitor(src, &aboveOrigin{}, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan Change)

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, changes) }()

	changes <- Change{Kind: Added, Image: Image{ID: "a", Name: "alpha"}}
	changes <- Change{Kind: Added, Image: Image{ID: "b", Name: "beta"}}

	require.Eventually(t, func() bool { return len(m.Snapshot()) == 2 }, time.Second, time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, "alpha", snap[0].Image.Name)
	assert.Equal(t, board.OnBoard, snap[0].Verdict)
	assert.Equal(t, Tracking, snap[0].State)
	assert.Equal(t, "beta", snap[1].Image.Name)
	assert.Equal(t, board.OutsideBoard, snap[1].Verdict)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMonitorStopsPollingRemovedImages(t *testing.T) {
	src := newFakeSource()
	src.set("a", board.Pose{Up: geometry.Up}, Tracking)

	m := NewMonitor(src, &aboveOrigin{}, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan Change)

	go func() { _ = m.Run(ctx, changes) }()

	img := Image{ID: "a", Name: "alpha"}
	changes <- Change{Kind: Added, Image: img}
	require.Eventually(t, func() bool { return src.callCount("a") >= 3 }, time.Second, time.Millisecond)

	changes <- Change{Kind: Removed, Image: img}
	// Let a tick that was already in flight finish
	time.Sleep(10 * time.Millisecond)
	n := src.callCount("a")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, src.callCount("a"))
}

func TestMonitorSkipsUnknownImages(t *testing.T) {
	checker := &aboveOrigin{}
	m := NewMonitor(newFakeSource(), checker, time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	changes := make(chan Change, 1)
	changes <- Change{Kind: Added, Image: Image{ID: "ghost", Name: "ghost"}}
	close(changes)

	err := m.Run(ctx, changes)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, m.Snapshot())
	assert.Zero(t, checker.checks.Load())
}
