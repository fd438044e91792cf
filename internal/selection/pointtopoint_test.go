package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"intelliscissors/pkg/geometry"
)

func TestPointToPointSquareSelection(t *testing.T) {
	m := NewPointToPoint()
	m.SetImage(100, 100)

	require.NoError(t, m.StartSelection(geometry.PointInt{X: 10, Y: 10}))
	require.Equal(t, Selecting, m.State())

	require.NoError(t, m.AddPoint(geometry.PointInt{X: 50, Y: 10}))
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 50, Y: 50}))
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 50}))

	require.NoError(t, m.FinishSelection())
	require.Equal(t, Selected, m.State())

	poly, err := m.Polygon()
	require.NoError(t, err)
	require.NotEmpty(t, poly)

	require.True(t, geometry.PointInPolygonInt(geometry.PointInt{X: 30, Y: 30}, poly))
	require.False(t, geometry.PointInPolygonInt(geometry.PointInt{X: 90, Y: 90}, poly))
}

func TestPointToPointClosestPoint(t *testing.T) {
	m := NewPointToPoint()
	m.SetImage(100, 100)
	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 0}))
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 10}))

	idx, ok := m.ClosestPoint(geometry.PointInt{X: 11, Y: 11}, 9)
	require.True(t, ok)
	require.Equal(t, 2, idx)

	_, ok = m.ClosestPoint(geometry.PointInt{X: 50, Y: 50}, 9)
	require.False(t, ok)
}

func TestPointToPointIllegalStateTransitions(t *testing.T) {
	m := NewPointToPoint()
	m.SetImage(10, 10)

	err := m.AddPoint(geometry.PointInt{X: 1, Y: 1})
	require.ErrorIs(t, err, ErrIllegalState)

	err = m.FinishSelection()
	require.ErrorIs(t, err, ErrIllegalState)
}

func TestPointToPointUndoPoint(t *testing.T) {
	m := NewPointToPoint()
	m.SetImage(10, 10)
	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 5, Y: 5}))
	require.NoError(t, m.UndoPoint())
	require.Len(t, m.Points(), 1)

	err := m.UndoPoint()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestPointToPointUndoDelegatesToUndoPoint(t *testing.T) {
	m := NewPointToPoint()
	m.SetImage(10, 10)
	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 5, Y: 5}))

	require.NoError(t, m.Undo())
	require.Len(t, m.Points(), 1)
}

func TestPointToPointMovePoint(t *testing.T) {
	m := NewPointToPoint()
	m.SetImage(20, 20)
	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 0}))
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 10}))
	require.NoError(t, m.FinishSelection())
	require.Equal(t, Selected, m.State())

	require.NoError(t, m.MovePoint(1, geometry.PointInt{X: 8, Y: 2}))
	require.Equal(t, geometry.PointInt{X: 8, Y: 2}, m.Points()[1])
}

func TestPointToPointMovePointWraps(t *testing.T) {
	m := NewPointToPoint()
	m.SetImage(20, 20)
	require.NoError(t, m.StartSelection(geometry.PointInt{X: 0, Y: 0}))
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 0}))
	require.NoError(t, m.AddPoint(geometry.PointInt{X: 10, Y: 10}))
	require.NoError(t, m.FinishSelection())

	// Moving index 0 must re-resolve both the segment after it and the
	// closing segment that wraps around to it.
	require.NoError(t, m.MovePoint(0, geometry.PointInt{X: 1, Y: 1}))
	require.Equal(t, geometry.PointInt{X: 1, Y: 1}, m.Points()[0])

	poly, err := m.Polygon()
	require.NoError(t, err)
	require.Contains(t, poly, geometry.PointInt{X: 1, Y: 1})
}
