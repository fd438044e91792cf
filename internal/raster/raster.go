// Package raster loads images from disk into the gocv.Mat form the pixel
// grid graph and its edge weighers read from.
//
// Grounded on the teacher's internal/image/layer.go (decode via stdlib
// image plus golang.org/x/image/tiff for TIFF DPI support) and
// internal/trace/pathfind.go (gocv.Mat as the per-pixel numeric backing
// store).
package raster

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/tiff"
)

// Raster is a decoded image ready for grid-graph traversal, carrying both
// the gocv.Mat used for pixel sampling and the original image.Image used for
// PNG export of a finished selection.
type Raster struct {
	Mat    gocv.Mat
	Source image.Image
	Path   string
}

// Load decodes the image at path (PNG, JPEG, or TIFF) and converts it to a
// gocv.Mat.
func Load(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raster: opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("raster: decoding %s: %w", path, err)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("raster: converting %s to Mat: %w", path, err)
	}

	return &Raster{Mat: mat, Source: img, Path: path}, nil
}

// Close releases the Mat's underlying native buffer. Callers must call this
// once they are done with the Raster.
func (r *Raster) Close() error {
	return r.Mat.Close()
}

// Width returns the raster's width in pixels.
func (r *Raster) Width() int {
	return r.Mat.Cols()
}

// Height returns the raster's height in pixels.
func (r *Raster) Height() int {
	return r.Mat.Rows()
}
