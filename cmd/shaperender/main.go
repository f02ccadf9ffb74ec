// Command shaperender draws the shapes stored in a CSV file (columns
// x1,y1,x2,y2,...) into a PNG, one color per class when a class column exists.
//
// Usage: shaperender -in <csv> -out <png> [-class class] [-size 512] [-open]
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"shape-gpa/internal/dataset"
	"shape-gpa/internal/render"
	"shape-gpa/internal/shape"
	"shape-gpa/pkg/colorutil"
	"shape-gpa/pkg/geometry"
)

func main() {
	in := flag.String("in", "", "Path to shape CSV")
	out := flag.String("out", "", "Path to output PNG")
	classAttr := flag.String("class", "class", "Name of the class attribute used for coloring")
	size := flag.Int("size", 512, "Image width and height in pixels")
	open := flag.Bool("open", false, "Draw open polylines instead of closed outlines")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Println("Usage: shaperender -in <csv> -out <png> [-class class] [-size 512] [-open]")
		os.Exit(1)
	}

	ds, err := dataset.LoadCSV(*in, dataset.CSVOptions{ClassAttribute: *classAttr})
	if errors.Is(err, dataset.ErrUnknownAttribute) {
		ds, err = dataset.LoadCSV(*in, dataset.CSVOptions{})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *in, err)
		os.Exit(1)
	}

	codec, err := shape.NewCodec(ds.Names())
	if err != nil {
		fmt.Fprintf(os.Stderr, "No shapes in %s: %v\n", *in, err)
		os.Exit(1)
	}

	layers := buildLayers(ds, codec, !*open)

	opts := render.DefaultOptions()
	opts.Size = *size
	img, err := render.Draw(layers, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
	if err := render.SavePNG(*out, img); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Rendered %d shapes with %d points to %s\n", ds.NumRows(), codec.NumPoints(), *out)
}

// buildLayers groups rows by class, or puts every row in one layer when the
// dataset has no class attribute.
func buildLayers(ds *dataset.Dataset, codec *shape.Codec, closed bool) []render.Layer {
	numClasses := ds.NumClasses()
	if numClasses == 0 {
		shapes := make([]geometry.Shape, ds.NumRows())
		for r, row := range ds.Rows {
			shapes[r] = codec.Read(row)
		}
		return []render.Layer{{Shapes: shapes, Color: colorutil.Black, Closed: closed}}
	}

	layers := make([]render.Layer, numClasses)
	for c := range layers {
		layers[c] = render.Layer{Color: colorutil.ClassColor(c, numClasses), Closed: closed}
	}
	for r, row := range ds.Rows {
		c := ds.Label(r)
		layers[c].Shapes = append(layers[c].Shapes, codec.Read(row))
	}
	return layers
}
