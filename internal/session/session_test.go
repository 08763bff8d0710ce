package session

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/arboard/internal/board"
	"github.com/philipparndt/arboard/internal/config"
	"github.com/philipparndt/arboard/internal/input"
	"github.com/philipparndt/arboard/internal/logging"
	"github.com/philipparndt/arboard/internal/sim"
	"github.com/philipparndt/arboard/pkg/geometry"
)

const room = `
camera: {position: [0, 1.6, 2.5], target: [0, 0, 0]}
surfaces:
  - name: floor
    polygon: [[-2, 0, -2], [2, 0, -2], [2, 0, 2], [-2, 0, 2]]
  - name: table
    polygon: [[-0.5, 0.5, -1.5], [0.5, 0.5, -1.5], [0.5, 0.5, -0.5], [-0.5, 0.5, -0.5]]
  - name: shelf
    polygon: [[1, 1, -2], [1.5, 1, -2], [1.5, 1, -1.5], [1, 1, -1.5]]
events:
  # focus the table, move focus to the floor, confirm the floor
  - {type: press, aim: [0.1, 0.5, -1.2]}
  - {type: release}
  - {type: press, aim: [0.5, 0, 0.8]}
  - {type: release}
  - {type: press, aim: [0.5, 0, 0.8]}
  - {type: release}
  # corner A, dragged into place
  - {type: press, aim: [0, 0, 0]}
  - {type: drag, aim: [-0.5, 0, 0.2]}
  - {type: drag, aim: [-1, 0, 0]}
  - {type: release}
  # corner B
  - {type: press, aim: [1, 0, 0]}
  - {type: release}
  # free point C
  - {type: press, aim: [0.3, 0, 1]}
  - {type: release}
`

var approx = cmpopts.EquateApprox(0, 1e-6)

func TestMain(m *testing.M) {
	logging.Mute()
	os.Exit(m.Run())
}

type env struct {
	world    *sim.World
	boards   *board.Manager
	session  *Session
	events   []input.Event
	scenario *sim.Scenario
}

func setup(t *testing.T, yaml string) *env {
	t.Helper()

	scenario, err := sim.ParseScenario([]byte(yaml))
	require.NoError(t, err)
	world, err := scenario.Build()
	require.NoError(t, err)
	events, err := sim.NewPlayer(scenario).Events()
	require.NoError(t, err)

	cfg := config.Default()
	boards := board.NewManager(cfg.BoardProbeDistance, cfg.TiltThreshold)
	s := New(Options{
		Tracker:   world,
		HitTester: world,
		Camera:    scenario.Viewport(),
		Presenter: world,
		Spawner:   world,
		Boards:    boards,
		Config:    cfg,
	})
	return &env{world: world, boards: boards, session: s, events: events, scenario: scenario}
}

func TestFullSession(t *testing.T) {
	e := setup(t, room)
	e.session.Start()

	for i, ev := range e.events {
		e.session.Dispatch(ev)

		switch i {
		case 0:
			focused, ok := e.session.Selector().Focused()
			require.True(t, ok)
			assert.Equal(t, "table", e.world.Name(focused))
		case 3:
			assert.Equal(t, Selecting, e.session.Stage(), "focus moved but nothing confirmed")
		case 4:
			assert.Equal(t, Building, e.session.Stage())
		}
	}

	require.Equal(t, Complete, e.session.Stage())

	confirmed, ok := e.session.Surface()
	require.True(t, ok)
	assert.Equal(t, "floor", confirmed.Name)
	assert.Equal(t, []string{"floor"}, names(e.world))
	assert.False(t, e.world.Enabled())

	res, ok := e.session.Result()
	require.True(t, ok)
	want := [4]geometry.Vector3{
		geometry.NewVector3(-1, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(1, 0, 1),
		geometry.NewVector3(-1, 0, 1),
	}
	if diff := cmp.Diff(want, res.Rectangle.Corners, approx); diff != "" {
		t.Errorf("corners mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geometry.NewVector3(0.1, 1, 0.2), res.Transform.Scale, approx); diff != "" {
		t.Errorf("scale mismatch (-want +got):\n%s", diff)
	}

	b, ok := e.session.Board()
	require.True(t, ok)
	require.Len(t, e.world.Boards(), 1)
	assert.Equal(t, e.world.Boards()[0].ID, b.ID)

	registered, ok := e.boards.Board()
	require.True(t, ok)
	assert.Equal(t, b.ID, registered.ID)

	onBoard := board.Pose{Position: geometry.NewVector3(0, 0.01, 0.5), Up: geometry.Up}
	assert.Equal(t, board.OnBoard, e.boards.ImageIsOnBoard(onBoard))

	assert.Len(t, e.world.Beacons(), 3)
	assert.Len(t, e.world.Outline(), 4)
}

func names(w *sim.World) []string {
	var out []string
	for _, id := range w.Surfaces() {
		out = append(out, w.Name(id))
	}
	return out
}

func TestRun(t *testing.T) {
	e := setup(t, room)

	events, err := sim.NewPlayer(e.scenario).Stream(context.Background())
	require.NoError(t, err)

	b, err := e.session.Run(context.Background(), events)
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, Complete, e.session.Stage())
}

func TestRunIncomplete(t *testing.T) {
	e := setup(t, room)

	ch := make(chan input.Event, 4)
	for _, ev := range e.events[:4] {
		ch <- ev
	}
	close(ch)

	_, err := e.session.Run(context.Background(), ch)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, Selecting, e.session.Stage())
}

func TestRunCancelled(t *testing.T) {
	e := setup(t, room)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.session.Run(ctx, make(chan input.Event))
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Cancelled, e.session.Stage())
	assert.False(t, e.world.Enabled())
	assert.Len(t, e.world.Surfaces(), 3, "cancelling must not destroy surfaces")
}

func TestDispatchBeforeStart(t *testing.T) {
	e := setup(t, room)

	for _, ev := range e.events {
		e.session.Dispatch(ev)
	}
	assert.Equal(t, Idle, e.session.Stage())
	_, ok := e.session.Board()
	assert.False(t, ok)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "placing beacons", Building.String())
	assert.Equal(t, "Stage(42)", Stage(42).String())
}
