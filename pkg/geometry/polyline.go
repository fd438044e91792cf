package geometry

// Polyline is an immutable sequence of at least two connected points, such as
// a traced selection segment.
type Polyline struct {
	points []PointInt
}

// NewPolyline builds a Polyline from points. Requires len(points) >= 2.
func NewPolyline(points []PointInt) Polyline {
	if len(points) < 2 {
		panic("geometry: Polyline requires at least two points")
	}
	cp := make([]PointInt, len(points))
	copy(cp, points)
	return Polyline{points: cp}
}

// Len returns the number of points in the polyline.
func (pl Polyline) Len() int {
	return len(pl.points)
}

// Point returns the point at index i.
func (pl Polyline) Point(i int) PointInt {
	return pl.points[i]
}

// Points returns a copy of the polyline's points.
func (pl Polyline) Points() []PointInt {
	cp := make([]PointInt, len(pl.points))
	copy(cp, pl.points)
	return cp
}

// Start returns the polyline's first point.
func (pl Polyline) Start() PointInt {
	return pl.points[0]
}

// End returns the polyline's last point.
func (pl Polyline) End() PointInt {
	return pl.points[len(pl.points)-1]
}

// Reversed returns a new Polyline with the point order reversed.
func (pl Polyline) Reversed() Polyline {
	n := len(pl.points)
	rev := make([]PointInt, n)
	for i, p := range pl.points {
		rev[n-1-i] = p
	}
	return Polyline{points: rev}
}

// PolylineBuffer is a mutable builder for a Polyline. It dedups only
// consecutive identical points appended back to back, mirroring the way a
// traced path can repeat its current pixel across successive solves without
// letting genuine interior loops collapse.
type PolylineBuffer struct {
	points []PointInt
}

// NewPolylineBuffer creates an empty buffer with capacity hint cap.
func NewPolylineBuffer(cap int) *PolylineBuffer {
	return &PolylineBuffer{points: make([]PointInt, 0, cap)}
}

// Append adds p to the buffer, unless p is identical to the buffer's current
// last point.
func (b *PolylineBuffer) Append(p PointInt) {
	if n := len(b.points); n > 0 && b.points[n-1].Eq(p) {
		return
	}
	b.points = append(b.points, p)
}

// Len returns the number of points currently buffered.
func (b *PolylineBuffer) Len() int {
	return len(b.points)
}

// Reverse reverses the buffer's points in place.
func (b *PolylineBuffer) Reverse() {
	for i, j := 0, len(b.points)-1; i < j; i, j = i+1, j-1 {
		b.points[i], b.points[j] = b.points[j], b.points[i]
	}
}

// ToPolyline finalizes the buffer into a Polyline. A buffer containing a
// single point is degenerate and is promoted to a two-point polyline
// repeating that point, since Polyline requires at least two points.
func (b *PolylineBuffer) ToPolyline() Polyline {
	if len(b.points) == 0 {
		panic("geometry: ToPolyline on an empty buffer")
	}
	if len(b.points) == 1 {
		return Polyline{points: []PointInt{b.points[0], b.points[0]}}
	}
	return NewPolyline(b.points)
}

// MakePolygon concatenates segments into a closed polygon outline. Only the
// join between consecutive segments is deduplicated (a segment's end equal to
// the next segment's start is dropped); duplicate points occurring inside a
// single segment are preserved.
func MakePolygon(segments []Polyline) []PointInt {
	var out []PointInt
	for i, seg := range segments {
		pts := seg.Points()
		if i > 0 && len(out) > 0 && out[len(out)-1].Eq(pts[0]) {
			pts = pts[1:]
		}
		out = append(out, pts...)
	}
	if len(out) > 1 && out[0].Eq(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}
