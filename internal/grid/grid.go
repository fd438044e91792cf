// Package grid provides a Graph over an image's pixels, connecting each
// pixel to its eight neighbors, plus the edge weighers ("cross-gradient"
// cost functions) the shortest-paths engine prices those edges with.
//
// Grounded on original_source/src/scissors/ImageGraph.java (the grid graph)
// and ScissorsWeights.java (the weighers), reworked over a gocv.Mat backing
// store the way the teacher's internal/trace/pathfind.go samples pixels.
package grid

import (
	"math"

	"gocv.io/x/gocv"

	"intelliscissors/pkg/geometry"
	"intelliscissors/pkg/shortestpath"
)

// Grid is a Graph whose vertices are the pixels of an image and whose edges
// connect each pixel to its eight neighbors (four axis-aligned, four
// diagonal). Vertex IDs are x + width*y.
//
// Direction codes, matching ImageVertex: 0 = right, 1 = upper-right,
// 2 = up, 3 = upper-left, 4 = left, 5 = lower-left, 6 = down,
// 7 = lower-right. Even directions are axis-aligned (length 1); odd
// directions are diagonal (length sqrt(2)).
type Grid struct {
	mat    gocv.Mat
	width  int
	height int
	bands  int
}

// New wraps mat as a pixel grid graph. mat must be a single-channel (gray)
// or three-channel (color) 8-bit Mat.
func New(mat gocv.Mat) *Grid {
	return &Grid{
		mat:    mat,
		width:  mat.Cols(),
		height: mat.Rows(),
		bands:  mat.Channels(),
	}
}

// Close releases the native buffer backing the grid's Mat. Only call this on
// a Grid that owns its Mat (such as a weigher's internally cloned grayscale
// grid) — a Grid wrapping a caller-supplied raster Mat must leave closing it
// to whoever loaded that raster.
func (g *Grid) Close() error {
	return g.mat.Close()
}

// Width returns the grid's width in pixels.
func (g *Grid) Width() int { return g.width }

// Height returns the grid's height in pixels.
func (g *Grid) Height() int { return g.height }

// NumBands returns the number of color bands (channels) in the backing
// raster.
func (g *Grid) NumBands() int { return g.bands }

// VertexCount implements shortestpath.Graph.
func (g *Grid) VertexCount() int {
	return g.width * g.height
}

// IDAt returns the vertex ID of the pixel at p. Requires p within bounds.
func (g *Grid) IDAt(p geometry.PointInt) int {
	return xyToID(p.X, p.Y, g.width)
}

// PointAt returns the pixel location of vertex id.
func (g *Grid) PointAt(id int) geometry.PointInt {
	y := id / g.width
	x := id - y*g.width
	return geometry.PointInt{X: x, Y: y}
}

func xyToID(x, y, width int) int {
	return x + width*y
}

// validDir reports whether the neighbor of (x, y) in direction dir lies
// within the grid's bounds.
func (g *Grid) validDir(x, y, dir int) bool {
	switch dir {
	case 0:
		return x+1 < g.width
	case 1:
		return x+1 < g.width && y > 0
	case 2:
		return y > 0
	case 3:
		return x > 0 && y > 0
	case 4:
		return x > 0
	case 5:
		return x > 0 && y+1 < g.height
	case 6:
		return y+1 < g.height
	case 7:
		return x+1 < g.width && y+1 < g.height
	default:
		return false
	}
}

// neighborID returns the vertex ID of (x, y)'s neighbor in direction dir.
// Requires validDir(x, y, dir).
func (g *Grid) neighborID(x, y, dir int) int {
	switch dir {
	case 0:
		return xyToID(x+1, y, g.width)
	case 1:
		return xyToID(x+1, y-1, g.width)
	case 2:
		return xyToID(x, y-1, g.width)
	case 3:
		return xyToID(x-1, y-1, g.width)
	case 4:
		return xyToID(x-1, y, g.width)
	case 5:
		return xyToID(x-1, y+1, g.width)
	case 6:
		return xyToID(x, y+1, g.width)
	case 7:
		return xyToID(x+1, y+1, g.width)
	default:
		panic("grid: invalid direction")
	}
}

// OutgoingEdges implements shortestpath.Graph.
func (g *Grid) OutgoingEdges(id int) []shortestpath.Edge {
	p := g.PointAt(id)
	var edges []shortestpath.Edge
	for dir := 0; dir < 8; dir++ {
		if !g.validDir(p.X, p.Y, dir) {
			continue
		}
		edges = append(edges, shortestpath.Edge{
			StartID: id,
			EndID:   g.neighborID(p.X, p.Y, dir),
			Dir:     dir,
		})
	}
	return edges
}

// EdgeLength returns the geometric length of an edge in direction dir:
// 1 for axis-aligned (even) directions, sqrt(2) for diagonal (odd)
// directions.
func EdgeLength(dir int) float64 {
	if dir%2 == 0 {
		return 1
	}
	return math.Sqrt2
}

// band returns the sample value of band b at pixel (x, y).
func (g *Grid) band(x, y, b int) int {
	if g.bands == 1 {
		return int(g.mat.GetUCharAt(y, x))
	}
	v := g.mat.GetVecbAt(y, x)
	return int(v[b])
}

// PathToPolyline converts a sequence of vertex IDs into a Polyline connecting
// the corresponding pixel centers.
func (g *Grid) PathToPolyline(path []int) geometry.Polyline {
	buf := geometry.NewPolylineBuffer(len(path))
	for _, id := range path {
		buf.Append(g.PointAt(id))
	}
	return buf.ToPolyline()
}
