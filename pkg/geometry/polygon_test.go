package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointInPolygonSquare(t *testing.T) {
	square := []Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}
	require.True(t, PointInPolygon(Point2D{X: 5, Y: 5}, square))
	require.False(t, PointInPolygon(Point2D{X: 15, Y: 5}, square))
}

func TestPointInPolygonIntDelegates(t *testing.T) {
	square := []PointInt{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}
	require.True(t, PointInPolygonInt(PointInt{X: 5, Y: 5}, square))
	require.False(t, PointInPolygonInt(PointInt{X: 20, Y: 20}, square))
}

func TestBoundingBoxInt(t *testing.T) {
	box := BoundingBoxInt([]PointInt{{X: 2, Y: 3}, {X: -1, Y: 5}, {X: 4, Y: 1}})
	require.Equal(t, RectInt{X: -1, Y: 1, Width: 6, Height: 5}, box)
}
