package board

import (
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/arboard/internal/logging"
	"github.com/philipparndt/arboard/pkg/geometry"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// floorBoard is the 4x3 rectangle A=(0,0,0) B=(4,0,0) C=(4,0,3) on the floor
func floorBoard() Board {
	rect := geometry.RectangleFromPoints(
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(4, 0, 0),
		geometry.NewVector3(4, 0, 3),
	)
	rotation := geometry.LookRotation(geometry.NewVector3(1, 0, 0), geometry.Up)
	return Board{ID: "floor-board", Transform: FromRectangle(rect, rotation, 0.1), Rectangle: rect}
}

func TestFromRectangle(t *testing.T) {
	b := floorBoard()

	want := geometry.NewVector3(2, 0, 1.5)
	if diff := cmp.Diff(want, b.Transform.Position, approx); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geometry.NewVector3(0.3, 1, 0.4), b.Transform.Scale, approx); diff != "" {
		t.Errorf("scale mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geometry.Up, b.Transform.Up(), approx); diff != "" {
		t.Errorf("up mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformCornersMatchRectangle(t *testing.T) {
	b := floorBoard()

	if diff := cmp.Diff(b.Rectangle.Corners, b.Transform.Corners(), approx); diff != "" {
		t.Errorf("corners mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformString(t *testing.T) {
	s := floorBoard().Transform.String()
	assert.Contains(t, s, "position (2.000, 0.000, 1.500)")
	assert.Contains(t, s, "scale (0.300, 1.000, 0.400)")
}

func TestImageIsOnBoard(t *testing.T) {
	logging.Mute()

	m := NewManager(0.1, 0.8)
	tilted := geometry.NewVector3(1, 1, 0)

	tests := []struct {
		name string
		pose Pose
		want Verdict
	}{
		{"centered", Pose{Position: geometry.NewVector3(2, 0.01, 1.5), Up: geometry.Up}, OnBoard},
		{"slightly below", Pose{Position: geometry.NewVector3(1, -0.05, 1), Up: geometry.Up}, OnBoard},
		{"beside", Pose{Position: geometry.NewVector3(5, 0, 1), Up: geometry.Up}, OutsideBoard},
		{"too high", Pose{Position: geometry.NewVector3(2, 0.5, 1.5), Up: geometry.Up}, OutsideBoard},
		{"tilted", Pose{Position: geometry.NewVector3(2, 0, 1.5), Up: tilted}, Tilted},
		{"upside down", Pose{Position: geometry.NewVector3(2, 0, 1.5), Up: geometry.Up.Neg()}, Tilted},
	}

	assert.Equal(t, NoBoard, m.ImageIsOnBoard(tests[0].pose))

	m.SetBoard(floorBoard())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ImageIsOnBoard(tt.pose)
			assert.Equal(t, tt.want, got, "verdict %s", got)
			assert.Equal(t, tt.want == OnBoard, got.OK())
		})
	}
}

func TestTiltThresholdBoundary(t *testing.T) {
	logging.Mute()

	m := NewManager(0.1, 0.8)
	m.SetBoard(floorBoard())

	// 30 degrees off the board normal: cos = 0.866
	angle := math.Pi / 6
	up := geometry.NewVector3(math.Sin(angle), math.Cos(angle), 0)
	assert.Equal(t, OnBoard, m.ImageIsOnBoard(Pose{Position: geometry.NewVector3(2, 0, 1.5), Up: up}))

	// 40 degrees: cos = 0.766
	angle = 40 * math.Pi / 180
	up = geometry.NewVector3(math.Sin(angle), math.Cos(angle), 0)
	assert.Equal(t, Tilted, m.ImageIsOnBoard(Pose{Position: geometry.NewVector3(2, 0, 1.5), Up: up}))
}

func TestManagerConcurrentReaders(t *testing.T) {
	logging.Mute()

	m := NewManager(0.1, 0.8)
	m.SetBoard(floorBoard())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.ImageIsOnBoard(Pose{Position: geometry.NewVector3(2, 0, 1.5), Up: geometry.Up})
			}
		}()
	}
	m.SetBoard(floorBoard())
	wg.Wait()

	b, ok := m.Board()
	require.True(t, ok)
	assert.Equal(t, "floor-board", b.ID)
}
