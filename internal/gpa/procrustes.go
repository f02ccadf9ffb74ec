package gpa

import (
	"math"

	"shape-gpa/pkg/geometry"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Translate returns s moved so that its centroid is the origin. A shape whose
// points all coincide maps exactly onto the origin.
func Translate(s geometry.Shape) geometry.Shape {
	if s.Coincident() {
		return make(geometry.Shape, len(s))
	}
	xs, ys := s.XY()
	floats.AddConst(-stat.Mean(xs, nil), xs)
	floats.AddConst(-stat.Mean(ys, nil), ys)
	return geometry.ShapeFromXY(xs, ys)
}

// Degenerate reports whether s has no spread to normalise: its points all
// coincide, or its centred extent underflows to zero.
func Degenerate(s geometry.Shape) bool {
	return s.Coincident() || Translate(s).RMSExtent() == 0
}

// Scale returns s divided by its RMS extent sqrt(sum(x*x + y*y) / 2).
// s is expected to be centred already.
func Scale(s geometry.Shape) (geometry.Shape, error) {
	if Degenerate(s) {
		return nil, ErrDegenerateShape
	}
	extent := s.RMSExtent()
	xs, ys := s.XY()
	floats.Scale(1/extent, xs)
	floats.Scale(1/extent, ys)
	return geometry.ShapeFromXY(xs, ys), nil
}

// OptimalRotation returns the angle of the proper rotation that best maps p
// onto ref in the least-squares sense. Reflections are never considered.
func OptimalRotation(p, ref geometry.Shape) float64 {
	px, py := p.XY()
	rx, ry := ref.XY()
	num := floats.Dot(px, ry) - floats.Dot(py, rx)
	den := floats.Dot(px, rx) + floats.Dot(py, ry)
	return math.Atan2(num, den)
}

// Rotate returns p rotated by OptimalRotation(p, ref).
func Rotate(p, ref geometry.Shape) geometry.Shape {
	return p.Transform(geometry.Rotation(OptimalRotation(p, ref)))
}

// MeanShape returns the coordinate-wise mean of shapes, which must all have
// the same number of points.
func MeanShape(shapes []geometry.Shape) geometry.Shape {
	if len(shapes) == 0 {
		return nil
	}
	n := len(shapes[0])

	// One row per shape: x1 y1 x2 y2 ...
	m := mat.NewDense(len(shapes), 2*n, nil)
	for r, s := range shapes {
		for i, p := range s {
			m.Set(r, 2*i, p.X)
			m.Set(r, 2*i+1, p.Y)
		}
	}

	mean := make(geometry.Shape, n)
	col := make([]float64, len(shapes))
	for i := range mean {
		mean[i].X = stat.Mean(mat.Col(col, 2*i, m), nil)
		mean[i].Y = stat.Mean(mat.Col(col, 2*i+1, m), nil)
	}
	return mean
}

// SquaredError returns the summed squared distance between corresponding
// points of p and ref.
func SquaredError(p, ref geometry.Shape) float64 {
	d := p.Distance(ref)
	return d * d
}
