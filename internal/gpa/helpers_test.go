package gpa_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"shape-gpa/internal/dataset"
	"shape-gpa/internal/shape"
	"shape-gpa/pkg/geometry"
)

const tol = 1e-9

// rightTriangle is the unit right triangle (0,0) (1,0) (0,1).
var rightTriangle = geometry.Shape{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

// placed returns s scaled, rotated and moved.
func placed(s geometry.Shape, scale, angle, tx, ty float64) geometry.Shape {
	t := geometry.Translation(tx, ty).
		Compose(geometry.Rotation(angle)).
		Compose(geometry.UniformScale(scale))
	return s.Transform(t)
}

// randomShape returns a shape of n points with coordinates in [-5, 5).
func randomShape(rng *rand.Rand, n int) geometry.Shape {
	s := make(geometry.Shape, n)
	for i := range s {
		s[i] = geometry.Point2D{X: rng.Float64()*10 - 5, Y: rng.Float64()*10 - 5}
	}
	return s
}

// shapesDataset builds a dataset with an id column, point columns and,
// when labels is non-nil, a nominal class column.
func shapesDataset(t *testing.T, shapes []geometry.Shape, labels []int) *dataset.Dataset {
	t.Helper()
	n := len(shapes[0])
	attrs := []dataset.Attribute{{Name: "id"}}
	for i := 1; i <= n; i++ {
		attrs = append(attrs, dataset.Attribute{Name: shape.XName(i)}, dataset.Attribute{Name: shape.YName(i)})
	}
	classIndex := -1
	if labels != nil {
		classIndex = len(attrs)
		attrs = append(attrs, dataset.Attribute{Name: "class", Values: []string{"0", "1"}})
	}
	ds, err := dataset.New(attrs, classIndex)
	require.NoError(t, err)

	for r, s := range shapes {
		row := []float64{float64(r)}
		for _, p := range s {
			row = append(row, p.X, p.Y)
		}
		if labels != nil {
			row = append(row, float64(labels[r]))
		}
		require.NoError(t, ds.Add(row))
	}
	return ds
}

func readShapes(t *testing.T, ds *dataset.Dataset) []geometry.Shape {
	t.Helper()
	codec, err := shape.NewCodec(ds.Names())
	require.NoError(t, err)
	out := make([]geometry.Shape, ds.NumRows())
	for r, row := range ds.Rows {
		out[r] = codec.Read(row)
	}
	return out
}

func requireShapesClose(t *testing.T, want, got geometry.Shape, delta float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, want[i].X, got[i].X, delta, "point %d x", i+1)
		require.InDelta(t, want[i].Y, got[i].Y, delta, "point %d y", i+1)
	}
}

func normalizeAngle(a float64) float64 {
	return math.Atan2(math.Sin(a), math.Cos(a))
}
