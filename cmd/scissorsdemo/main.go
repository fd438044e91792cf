// Command scissorsdemo exercises the intelligent-scissors pipeline end to
// end: load an image, trace a selection between a handful of fixed points
// using least-cost paths, and save the selected region as a PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"intelliscissors/internal/grid"
	"intelliscissors/internal/raster"
	"intelliscissors/internal/selection"
	"intelliscissors/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to the source image (PNG, JPEG, or TIFF)")
	outPath := flag.String("out", "selection.png", "Path to write the selected region as a PNG")
	weigher := flag.String("weigher", "CrossGradMono", "Edge weigher: CrossGradMono or ColoredWeight")
	pointsFlag := flag.String("points", "", "Comma-separated x:y points tracing the selection, e.g. 10:10,100:10,100:100,10:100")
	flag.Parse()

	if *imagePath == "" || *pointsFlag == "" {
		fmt.Println("Usage: scissorsdemo -image <path> -points x:y,x:y,... [-out selection.png] [-weigher CrossGradMono|ColoredWeight]")
		os.Exit(1)
	}

	points, err := parsePoints(*pointsFlag)
	if err != nil {
		log.Fatalf("parsing -points: %v", err)
	}
	if len(points) < 2 {
		log.Fatalf("need at least two points to trace a selection, got %d", len(points))
	}

	r, err := raster.Load(*imagePath)
	if err != nil {
		log.Fatalf("loading image: %v", err)
	}
	defer r.Close()

	g := grid.New(r.Mat)
	model, err := selection.NewScissors(*weigher, g)
	if err != nil {
		log.Fatalf("creating scissors model: %v", err)
	}
	defer model.Close()
	model.SetImage(r.Width(), r.Height())

	if err := model.StartSelection(points[0]); err != nil {
		log.Fatalf("starting selection: %v", err)
	}
	for model.State() == selection.Processing {
		if err := model.Drain(); err != nil {
			log.Fatalf("background solve failed: %v", err)
		}
	}

	for _, p := range points[1:] {
		if err := model.AddPoint(p); err != nil {
			log.Fatalf("adding point %v: %v", p, err)
		}
		for model.State() == selection.Processing {
			if err := model.Drain(); err != nil {
				log.Fatalf("background solve failed: %v", err)
			}
		}
	}

	if err := model.FinishSelection(); err != nil {
		log.Fatalf("finishing selection: %v", err)
	}

	polygon, err := model.Polygon()
	if err != nil {
		log.Fatalf("reading polygon: %v", err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("creating output file: %v", err)
	}
	defer out.Close()

	if err := model.SaveSelection(r.Source, out); err != nil {
		log.Fatalf("saving selection: %v", err)
	}

	fmt.Printf("Saved %d-point selection to %s\n", len(polygon), *outPath)
}

func parsePoints(s string) ([]geometry.PointInt, error) {
	var points []geometry.PointInt
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xy := strings.SplitN(pair, ":", 2)
		if len(xy) != 2 {
			return nil, fmt.Errorf("invalid point %q, want x:y", pair)
		}
		x, err := strconv.Atoi(xy[0])
		if err != nil {
			return nil, fmt.Errorf("invalid x in %q: %w", pair, err)
		}
		y, err := strconv.Atoi(xy[1])
		if err != nil {
			return nil, fmt.Errorf("invalid y in %q: %w", pair, err)
		}
		points = append(points, geometry.PointInt{X: x, Y: y})
	}
	return points, nil
}
