package main

import (
	"shape-gpa/internal/dataset"
	"shape-gpa/internal/gpa"
	"shape-gpa/internal/render"
	"shape-gpa/internal/shape"
	"shape-gpa/internal/supervised"
	"shape-gpa/pkg/colorutil"
	"shape-gpa/pkg/geometry"
)

// renderResult draws the aligned training shapes and the reference shape of
// an unsupervised run, or the per-class reference shapes of a supervised run.
func renderResult(path string, a *gpa.Aligner, o *supervised.Orchestrator, alignedTrain *dataset.Dataset) error {
	var layers []render.Layer

	if o != nil {
		for c := 0; c < o.NumClasses(); c++ {
			layers = append(layers, render.Layer{
				Shapes: []geometry.Shape{o.Aligner(c).Reference()},
				Color:  colorutil.ClassColor(c, o.NumClasses()),
				Closed: true,
			})
		}
	} else {
		codec, err := shape.Bind(alignedTrain.Names(), a.NumPoints())
		if err != nil {
			return err
		}
		shapes := make([]geometry.Shape, alignedTrain.NumRows())
		for r, row := range alignedTrain.Rows {
			shapes[r] = codec.Read(row)
		}
		layers = append(layers,
			render.Layer{Shapes: shapes, Color: colorutil.Gray, Closed: true},
			render.Layer{Shapes: []geometry.Shape{a.Reference()}, Color: colorutil.Black, Closed: true},
		)
	}

	img, err := render.Draw(layers, render.DefaultOptions())
	if err != nil {
		return err
	}
	return render.SavePNG(path, img)
}
