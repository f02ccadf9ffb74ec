package geometry

import "math"

// Shape is an ordered sequence of 2D points. Point i of one shape corresponds
// to point i of every other shape with the same length.
type Shape []Point2D

// Clone returns a copy of the shape that shares no storage with s.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Centroid returns the coordinate-wise mean of the shape's points.
func (s Shape) Centroid() Point2D {
	return Centroid(s)
}

// Transform returns a new shape with t applied to every point.
func (s Shape) Transform(t AffineTransform) Shape {
	out := make(Shape, len(s))
	for i, p := range s {
		out[i] = t.Apply(p)
	}
	return out
}

// SumSquares returns the sum of x*x + y*y over all points.
func (s Shape) SumSquares() float64 {
	var ss float64
	for _, p := range s {
		ss += p.X*p.X + p.Y*p.Y
	}
	return ss
}

// RMSExtent returns sqrt(SumSquares/2), the size measure used for scale
// normalisation. It is not the vector length of the shape.
func (s Shape) RMSExtent() float64 {
	return math.Sqrt(s.SumSquares() / 2)
}

// Distance returns the Procrustes distance to other: the square root of the
// summed squared distances between corresponding points.
// Both shapes must have the same number of points.
func (s Shape) Distance(other Shape) float64 {
	var ss float64
	for i, p := range s {
		dx := p.X - other[i].X
		dy := p.Y - other[i].Y
		ss += dx*dx + dy*dy
	}
	return math.Sqrt(ss)
}

// Coincident reports whether every point equals the first one, i.e. the shape
// has zero spread.
func (s Shape) Coincident() bool {
	if len(s) == 0 {
		return true
	}
	for _, p := range s[1:] {
		if p != s[0] {
			return false
		}
	}
	return true
}

// XY splits the shape into separate x and y coordinate slices.
func (s Shape) XY() (xs, ys []float64) {
	xs = make([]float64, len(s))
	ys = make([]float64, len(s))
	for i, p := range s {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

// ShapeFromXY builds a shape from parallel coordinate slices.
func ShapeFromXY(xs, ys []float64) Shape {
	out := make(Shape, len(xs))
	for i := range xs {
		out[i] = Point2D{X: xs[i], Y: ys[i]}
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the shape.
func (s Shape) Bounds() Rect {
	return BoundingBox(s)
}
