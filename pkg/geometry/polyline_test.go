package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolylineRequiresTwoPoints(t *testing.T) {
	require.Panics(t, func() {
		NewPolyline([]PointInt{{X: 0, Y: 0}})
	})
}

func TestPolylineStartEndReversed(t *testing.T) {
	pl := NewPolyline([]PointInt{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}})
	require.Equal(t, PointInt{X: 0, Y: 0}, pl.Start())
	require.Equal(t, PointInt{X: 2, Y: 2}, pl.End())

	rev := pl.Reversed()
	require.Equal(t, PointInt{X: 2, Y: 2}, rev.Start())
	require.Equal(t, PointInt{X: 0, Y: 0}, rev.End())
}

func TestPolylineBufferDedupsConsecutiveOnly(t *testing.T) {
	buf := NewPolylineBuffer(4)
	buf.Append(PointInt{X: 0, Y: 0})
	buf.Append(PointInt{X: 0, Y: 0})
	buf.Append(PointInt{X: 1, Y: 0})
	buf.Append(PointInt{X: 0, Y: 0})

	pl := buf.ToPolyline()
	require.Equal(t, 3, pl.Len())
}

func TestPolylineBufferDegenerateSinglePoint(t *testing.T) {
	buf := NewPolylineBuffer(1)
	buf.Append(PointInt{X: 5, Y: 5})
	pl := buf.ToPolyline()
	require.Equal(t, 2, pl.Len())
	require.Equal(t, pl.Start(), pl.End())
}

func TestMakePolygonDedupsOnlyAtJoins(t *testing.T) {
	seg1 := NewPolyline([]PointInt{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}})
	seg2 := NewPolyline([]PointInt{{X: 1, Y: 0}, {X: 1, Y: 1}})

	poly := MakePolygon([]Polyline{seg1, seg2})

	// The interior duplicate inside seg1 survives; only the join between
	// seg1's end and seg2's start is deduplicated.
	require.Equal(t, []PointInt{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, poly)
}
