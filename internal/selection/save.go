package selection

import (
	"errors"
	"fmt"
	goimage "image"
	"image/color"
	"image/png"
	"io"

	"intelliscissors/pkg/geometry"
)

// ErrIoError wraps a failure encoding or writing the saved selection.
var ErrIoError = errors.New("selection: io error saving selection")

// SaveSelection implements Model, encoding the region of src enclosed by the
// finished selection's polygon as a PNG cropped to the polygon's bounding
// box, written to w. Pixels inside the polygon copy src; pixels outside are
// fully transparent. Requires State() == Selected and an image set via
// SetImage, enforced here rather than left to caller discipline.
//
// Grounded on original_source/src/selector/SelectionModel.java#saveSelection
// (an AWT Graphics2D clip region), reexpressed with
// pkg/geometry.PointInPolygon and stdlib image/png the way the teacher's
// internal/image composites layers with stdlib image primitives.
func (b *base) SaveSelection(src goimage.Image, w io.Writer) error {
	if b.width == 0 || b.height == 0 {
		return fmt.Errorf("%w: SaveSelection requires an image", ErrIllegalState)
	}
	polygon, err := b.Polygon()
	if err != nil {
		return err
	}
	return savePolygonPNG(src, polygon, w)
}

// savePolygonPNG does the actual cropping and encoding once SaveSelection has
// validated state.
func savePolygonPNG(src goimage.Image, polygon []geometry.PointInt, w io.Writer) error {
	if len(polygon) < 3 {
		return fmt.Errorf("%w: polygon must have at least three points", ErrInvalidArgument)
	}

	box := geometry.BoundingBoxInt(polygon)
	out := goimage.NewRGBA(goimage.Rect(0, 0, box.Width, box.Height))

	srcBounds := src.Bounds()
	for y := 0; y < box.Height; y++ {
		for x := 0; x < box.Width; x++ {
			px := geometry.PointInt{X: box.X + x, Y: box.Y + y}
			if !geometry.PointInPolygonInt(px, polygon) {
				continue
			}
			sx, sy := srcBounds.Min.X+px.X, srcBounds.Min.Y+px.Y
			if sx < srcBounds.Min.X || sx >= srcBounds.Max.X || sy < srcBounds.Min.Y || sy >= srcBounds.Max.Y {
				continue
			}
			out.Set(x, y, color.RGBAModel.Convert(src.At(sx, sy)))
		}
	}

	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}
	return nil
}
