package geometry

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// PointInPolygonInt is PointInPolygon specialized for integer pixel
// coordinates, used when testing whether a raster pixel lies inside a
// selection outline.
func PointInPolygonInt(p PointInt, polygon []PointInt) bool {
	if len(polygon) < 3 {
		return false
	}

	pf := p.ToFloat()
	fs := make([]Point2D, len(polygon))
	for i, v := range polygon {
		fs[i] = v.ToFloat()
	}
	return PointInPolygon(pf, fs)
}
