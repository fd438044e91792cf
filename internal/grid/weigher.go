package grid

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"intelliscissors/pkg/shortestpath"
)

// grayClone is a single-channel gocv.Mat being built up pixel by pixel to
// hold a grayscale copy of a color Grid.
type grayClone struct {
	grid *Grid
	mat  gocv.Mat
}

func grayscaleClone(g *Grid) *grayClone {
	m := gocv.NewMatWithSize(g.height, g.width, gocv.MatTypeCV8UC1)
	return &grayClone{grid: New(m), mat: m}
}

func (gc *grayClone) setGray(x, y, v int) {
	gc.mat.SetUCharAt(y, x, uint8(v))
}

// WeightNames returns the names of weighers MakeWeigher recognizes.
func WeightNames() []string {
	return []string{"CrossGradMono", "ColoredWeight"}
}

// MakeWeigher builds the named Weigher over grid. Returns ErrUnknownWeigher
// if name is not among WeightNames().
func MakeWeigher(name string, g *Grid) (shortestpath.Weigher, error) {
	switch name {
	case "CrossGradMono":
		return newCrossGradMono(g), nil
	case "ColoredWeight":
		return &coloredWeight{grid: g}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeigher, name)
	}
}

// ErrUnknownWeigher is returned by MakeWeigher for an unrecognized name.
var ErrUnknownWeigher = errors.New("grid: unknown weigher")

// borderWeight is the fixed cost assigned to axis-aligned edges whose
// perpendicular neighbors would fall outside the image. Image boundaries are
// deliberately given a cost slightly less than the maximum achievable
// gradient reward, making it easier to select subjects cut off by the
// image's edge without the search trying too hard to cut into the subject
// instead. This constant (180 - 64 = 116) is load-bearing and must not be
// tuned away.
const borderWeight = 180 - 64

// crossGrad returns the magnitude of the image intensity slope in band b,
// perpendicular to direction dir, at pixel (x, y), scaled by the distance to
// the neighboring pixel in that direction.
//
// Directions follow Grid's convention: 0 = right, 1 = upper-right, 2 = up,
// 3 = upper-left, 4 = left, 5 = lower-left, 6 = down, 7 = lower-right.
func crossGrad(g *Grid, b, x, y, dir int) int {
	width, height := g.width, g.height
	s := func(px, py int) int { return g.band(px, py, b) }
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}

	switch dir {
	case 0:
		if y == 0 || y == height-1 {
			return borderWeight
		}
		return abs((s(x, y+1)+s(x+1, y+1))-(s(x, y-1)+s(x+1, y-1))) / 4
	case 1:
		return abs(s(x+1, y) - s(x, y-1))
	case 2:
		if x == 0 || x == width-1 {
			return borderWeight
		}
		return abs((s(x+1, y-1)+s(x+1, y))-(s(x-1, y-1)+s(x-1, y))) / 4
	case 3:
		return abs(s(x, y-1) - s(x-1, y))
	case 4:
		if y == 0 || y == height-1 {
			return borderWeight
		}
		return abs((s(x, y-1)+s(x-1, y-1))-(s(x, y+1)+s(x-1, y+1))) / 4
	case 5:
		return abs(s(x-1, y) - s(x, y+1))
	case 6:
		if x == 0 || x == width-1 {
			return borderWeight
		}
		return abs((s(x-1, y+1)+s(x-1, y))-(s(x+1, y+1)+s(x+1, y))) / 4
	case 7:
		return abs(s(x, y+1) - s(x+1, y))
	default:
		panic("grid: invalid direction")
	}
}

// gradMax returns an upper bound on crossGrad's result in direction dir,
// used to convert the gradient "reward" into a non-negative cost by
// subtraction.
func gradMax(dir int) int {
	if dir%2 == 0 {
		return 180
	}
	return 255
}

// crossGradMono weighs edges by the brightness gradient of a band-averaged
// (grayscale) copy of the grid's raster, precomputed once at construction.
type crossGradMono struct {
	grid *Grid
	gray *Grid
}

// newCrossGradMono builds a grayscale companion grid by averaging g's color
// bands with equal weights, using a gonum vector dot product per pixel the
// same way the original averages bands with a BandCombineOp matrix.
func newCrossGradMono(g *Grid) *crossGradMono {
	if g.bands == 1 {
		return &crossGradMono{grid: g, gray: g}
	}

	weights := make([]float64, g.bands)
	for i := range weights {
		weights[i] = 1.0 / float64(g.bands)
	}
	weightVec := mat.NewVecDense(g.bands, weights)

	grayMat := grayscaleClone(g)

	sampleVec := mat.NewVecDense(g.bands, nil)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			for b := 0; b < g.bands; b++ {
				sampleVec.SetVec(b, float64(g.band(x, y, b)))
			}
			avg := mat.Dot(weightVec, sampleVec)
			grayMat.setGray(x, y, int(avg))
		}
	}

	return &crossGradMono{grid: g, gray: grayMat.grid}
}

// Weight implements shortestpath.Weigher.
func (w *crossGradMono) Weight(e shortestpath.Edge) (int, error) {
	p := w.grid.PointAt(e.StartID)
	return gradMax(e.Dir) - crossGrad(w.gray, 0, p.X, p.Y, e.Dir), nil
}

// Close releases the native buffer backing the grayscale clone built for a
// multi-band grid. A no-op for a single-band grid, where gray aliases grid
// rather than owning a separate Mat. Implements io.Closer so a Scissors
// model holding this weigher can release it on Close.
func (w *crossGradMono) Close() error {
	if w.gray == w.grid {
		return nil
	}
	return w.gray.Close()
}

// coloredWeight weighs edges by the largest per-band brightness gradient,
// so a strong edge in any one color channel is enough to cheapen a cut even
// when overall luminance barely changes.
type coloredWeight struct {
	grid *Grid
}

// Weight implements shortestpath.Weigher.
func (w *coloredWeight) Weight(e shortestpath.Edge) (int, error) {
	p := w.grid.PointAt(e.StartID)
	maxGrad := 0
	for b := 0; b < w.grid.bands; b++ {
		if gr := crossGrad(w.grid, b, p.X, p.Y, e.Dir); gr > maxGrad {
			maxGrad = gr
		}
	}
	return gradMax(e.Dir) - maxGrad, nil
}
