package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"intelliscissors/internal/grid"
	"intelliscissors/pkg/geometry"
)

func flatGrayGrid(t *testing.T, w, h int) *grid.Grid {
	t.Helper()
	m := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetUCharAt(y, x, uint8((x+y)%256))
		}
	}
	return grid.New(m)
}

func flatColorGrid(t *testing.T, w, h int) *grid.Grid {
	t.Helper()
	m := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetUCharAt(y, x*3+0, uint8((x+y)%256))
			m.SetUCharAt(y, x*3+1, uint8(x%256))
			m.SetUCharAt(y, x*3+2, uint8(y%256))
		}
	}
	return grid.New(m)
}

func drainUntilDone(t *testing.T, m *Scissors) {
	t.Helper()
	for m.State() == Processing {
		require.NoError(t, m.Drain())
	}
}

func TestScissorsAppendResolvesSegmentAndAdvances(t *testing.T) {
	g := flatGrayGrid(t, 20, 20)
	m, err := NewScissors("CrossGradMono", g)
	require.NoError(t, err)
	m.SetImage(20, 20)

	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	drainUntilDone(t, m)
	require.Equal(t, Selecting, m.State())

	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 10}))
	drainUntilDone(t, m)
	require.Equal(t, Selecting, m.State())
	require.Len(t, m.Points(), 2)
}

func TestScissorsCancelDuringAppendRollsBack(t *testing.T) {
	g := flatGrayGrid(t, 150, 150)
	m, err := NewScissors("CrossGradMono", g)
	require.NoError(t, err)
	m.SetImage(150, 150)

	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	drainUntilDone(t, m)
	require.Equal(t, Selecting, m.State())
	require.Len(t, m.Points(), 1)

	require.NoError(t, m.AddPoint(geometry.PointInt{X: 100, Y: 100}))
	require.Equal(t, Processing, m.State())
	m.CancelProcessing()

	for m.State() == Processing {
		require.NoError(t, m.Drain())
	}

	// Whether or not the cancellation beat the solve to completion, the
	// model must end up back in Selecting with a consistent point count.
	require.Equal(t, Selecting, m.State())
	if len(m.Points()) == 1 {
		// Rollback path: the just-appended point was undone.
		require.Equal(t, geometry.PointInt{X: 0, Y: 0}, m.Points()[0])
	} else {
		require.Len(t, m.Points(), 2)
	}
}

func TestScissorsWorkerFailurePropagatesAtApply(t *testing.T) {
	g := flatGrayGrid(t, 10, 10)
	m, err := NewScissors("CrossGradMono", g)
	require.NoError(t, err)
	m.SetImage(10, 10)

	// Drive the model into Processing with a known generation directly,
	// rather than through a real background solve, so the simulated
	// resultFailed below (standing in for a panic recovered inside
	// runWorker) is delivered deterministically.
	m.points = []geometry.PointInt{{X: 0, Y: 0}}
	m.state = Selecting
	m.previousState = Selecting
	m.state = Processing
	gen := m.generation.Add(1)

	err = m.apply(solveResult{workerID: gen, kind: resultFailed, err: fmt.Errorf("%w: boom", ErrWorkerFailure)})
	require.ErrorIs(t, err, ErrWorkerFailure)
	require.Equal(t, Selecting, m.State())
}

func TestScissorsUndoCancelsWhileProcessing(t *testing.T) {
	g := flatGrayGrid(t, 150, 150)
	m, err := NewScissors("CrossGradMono", g)
	require.NoError(t, err)
	m.SetImage(150, 150)

	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	drainUntilDone(t, m)

	require.NoError(t, m.AddPoint(geometry.PointInt{X: 100, Y: 100}))
	require.Equal(t, Processing, m.State())

	require.NoError(t, m.Undo())
	for m.State() == Processing {
		require.NoError(t, m.Drain())
	}
	require.Equal(t, Selecting, m.State())
}

func TestScissorsUndoPointRelaunchesSolve(t *testing.T) {
	g := flatGrayGrid(t, 20, 20)
	m, err := NewScissors("CrossGradMono", g)
	require.NoError(t, err)
	m.SetImage(20, 20)

	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	drainUntilDone(t, m)

	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 0}))
	drainUntilDone(t, m)
	require.Len(t, m.Points(), 2)

	require.NoError(t, m.UndoPoint())
	require.Equal(t, Processing, m.State())
	drainUntilDone(t, m)
	require.Equal(t, Selecting, m.State())
	require.Len(t, m.Points(), 1)

	// The relaunched solve is rooted at the surviving point, so a further
	// AddPoint resolves against it rather than the undone one.
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 5, Y: 5}))
	drainUntilDone(t, m)
	require.Len(t, m.Points(), 2)
}

func TestScissorsCloseReleasesClonedGrayscaleMat(t *testing.T) {
	g := flatColorGrid(t, 10, 10)
	m, err := NewScissors("CrossGradMono", g)
	require.NoError(t, err)
	m.SetImage(10, 10)

	require.NoError(t, m.Close())
}

func TestScissorsUnknownWeigherName(t *testing.T) {
	g := flatGrayGrid(t, 10, 10)
	_, err := NewScissors("nonexistent", g)
	require.ErrorIs(t, err, grid.ErrUnknownWeigher)
}

func TestScissorsFinishAndMovePoint(t *testing.T) {
	g := flatGrayGrid(t, 20, 20)
	m, err := NewScissors("CrossGradMono", g)
	require.NoError(t, err)
	m.SetImage(20, 20)

	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	drainUntilDone(t, m)

	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 0}))
	drainUntilDone(t, m)

	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 10}))
	drainUntilDone(t, m)

	require.NoError(t, m.FinishSelection())
	require.Equal(t, Selected, m.State())
	require.Len(t, m.Points(), 3)

	require.NoError(t, m.MovePoint(1, geometry.PointInt{X: 8, Y: 2}))
	require.Equal(t, Processing, m.State())
	drainUntilDone(t, m)
	require.Equal(t, Selected, m.State())
	require.Equal(t, geometry.PointInt{X: 8, Y: 2}, m.Points()[1])
}

func TestScissorsMovePointCancelLeavesPointUnmoved(t *testing.T) {
	g := flatGrayGrid(t, 150, 150)
	m, err := NewScissors("CrossGradMono", g)
	require.NoError(t, err)
	m.SetImage(150, 150)

	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	drainUntilDone(t, m)
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 100, Y: 0}))
	drainUntilDone(t, m)
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 100, Y: 100}))
	drainUntilDone(t, m)
	require.NoError(t, m.FinishSelection())

	before := m.Points()[1]
	require.NoError(t, m.MovePoint(1, geometry.PointInt{X: 50, Y: 50}))
	require.Equal(t, Processing, m.State())
	m.CancelProcessing()

	for m.State() == Processing {
		require.NoError(t, m.Drain())
	}
	require.Equal(t, Selected, m.State())
	require.Equal(t, before, m.Points()[1])
}

func TestScissorsLiveWireBeforeSolveIsIllegalState(t *testing.T) {
	g := flatGrayGrid(t, 10, 10)
	m, err := NewScissors("CrossGradMono", g)
	require.NoError(t, err)
	m.SetImage(10, 10)

	_, err = m.LiveWire(geometry.PointInt{X: 1, Y: 1})
	require.ErrorIs(t, err, ErrIllegalState)
}
