package gpa_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"shape-gpa/internal/dataset"
	"shape-gpa/internal/gpa"
	"shape-gpa/internal/shape"
	"shape-gpa/pkg/geometry"
)

// AlignerSuite covers the Aligner lifecycle over a small noisy population.
type AlignerSuite struct {
	suite.Suite
	train []geometry.Shape
	test  []geometry.Shape
}

func (s *AlignerSuite) SetupTest() {
	rng := rand.New(rand.NewSource(7))
	base := geometry.Shape{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 1, Y: 3}, {X: 0, Y: 2}}
	jitter := func() geometry.Shape {
		out := base.Clone()
		for i := range out {
			out[i].X += rng.NormFloat64() * 0.05
			out[i].Y += rng.NormFloat64() * 0.05
		}
		return placed(out, 0.5+rng.Float64()*2, rng.Float64()*2*math.Pi, rng.Float64()*20-10, rng.Float64()*20-10)
	}
	s.train = nil
	for i := 0; i < 12; i++ {
		s.train = append(s.train, jitter())
	}
	s.test = []geometry.Shape{jitter(), jitter(), jitter()}
}

func (s *AlignerSuite) newAligner(cfg gpa.Config) *gpa.Aligner {
	a, err := gpa.NewAligner(cfg)
	s.Require().NoError(err)
	return a
}

func (s *AlignerSuite) TestEmptyBatchIsNoOp() {
	a := s.newAligner(gpa.DefaultConfig())
	empty := shapesDataset(s.T(), s.train, nil).EmptyCopy()

	out, err := a.Process(empty)
	s.Require().NoError(err)
	s.Same(empty, out)
	s.Equal(gpa.Untrained, a.State())
	s.Zero(a.NumPoints())
	s.Nil(a.Reference())
}

func (s *AlignerSuite) TestTrainingTransitionsOnce() {
	a := s.newAligner(gpa.DefaultConfig())
	ds := shapesDataset(s.T(), s.train, nil)

	out, err := a.Process(ds)
	s.Require().NoError(err)
	s.Same(ds, out)
	s.Equal(gpa.Trained, a.State())
	s.Equal(5, a.NumPoints())

	ref := a.Reference()
	_, err = a.Process(shapesDataset(s.T(), s.test, nil))
	s.Require().NoError(err)
	s.Equal(gpa.Trained, a.State())
	s.Equal(ref, a.Reference(), "inference must not move the reference")
}

func (s *AlignerSuite) TestReferenceIsMeanOfAlignedBatch() {
	a := s.newAligner(gpa.DefaultConfig())
	ds, err := a.Process(shapesDataset(s.T(), s.train, nil))
	s.Require().NoError(err)

	requireShapesClose(s.T(), gpa.MeanShape(readShapes(s.T(), ds)), a.Reference(), tol)
}

func (s *AlignerSuite) TestTrainingAlignsPopulation() {
	a := s.newAligner(gpa.DefaultConfig())
	ds, err := a.Process(shapesDataset(s.T(), s.train, nil))
	s.Require().NoError(err)

	mean, err := a.MeanDistance(ds)
	s.Require().NoError(err)
	s.Less(mean, 0.1, "jittered copies of one shape should collapse onto the reference")

	for _, sh := range readShapes(s.T(), ds) {
		c := sh.Centroid()
		s.InDelta(0, c.X, tol)
		s.InDelta(0, c.Y, tol)
		s.InDelta(1, sh.RMSExtent(), tol)
	}
}

func (s *AlignerSuite) TestInferenceIsIdempotent() {
	a := s.newAligner(gpa.DefaultConfig())
	_, err := a.Process(shapesDataset(s.T(), s.train, nil))
	s.Require().NoError(err)

	once, err := a.Process(shapesDataset(s.T(), s.test, nil))
	s.Require().NoError(err)
	first := readShapes(s.T(), once.Clone())

	twice, err := a.Process(once)
	s.Require().NoError(err)
	for i, sh := range readShapes(s.T(), twice) {
		requireShapesClose(s.T(), first[i], sh, tol)
	}
}

func (s *AlignerSuite) TestDeterminism() {
	run := func() *dataset.Dataset {
		a := s.newAligner(gpa.Config{Seed: 99, Iterations: 4, AllowScaling: true})
		_, err := a.Process(shapesDataset(s.T(), s.train, nil))
		s.Require().NoError(err)
		out, err := a.Process(shapesDataset(s.T(), s.test, nil))
		s.Require().NoError(err)
		return out
	}
	s.Equal(run().Rows, run().Rows)
}

func (s *AlignerSuite) TestRowOrderAndOtherAttributesPreserved() {
	labels := make([]int, len(s.train))
	for i := range labels {
		labels[i] = i % 2
	}
	a := s.newAligner(gpa.DefaultConfig())
	out, err := a.Process(shapesDataset(s.T(), s.train, labels))
	s.Require().NoError(err)

	for r := range out.Rows {
		id, err := out.Value(r, "id")
		s.Require().NoError(err)
		s.Equal(float64(r), id)
		s.Equal(labels[r], out.Label(r))
	}
}

func (s *AlignerSuite) TestWithoutScalingKeepsSize() {
	a := s.newAligner(gpa.Config{Seed: 1, Iterations: 3, AllowScaling: false})
	in := shapesDataset(s.T(), s.train, nil)
	before := readShapes(s.T(), in.Clone())

	out, err := a.Process(in)
	s.Require().NoError(err)
	for i, sh := range readShapes(s.T(), out) {
		s.InDelta(gpa.Translate(before[i]).RMSExtent(), sh.RMSExtent(), 1e-6)
	}
}

func (s *AlignerSuite) TestDegenerateShapeLeavesBatchUntouched() {
	shapes := append([]geometry.Shape{}, s.train...)
	shapes = append(shapes, geometry.Shape{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}})
	in := shapesDataset(s.T(), shapes, nil)
	before := in.Clone()

	a := s.newAligner(gpa.DefaultConfig())
	_, err := a.Process(in)
	s.Require().ErrorIs(err, gpa.ErrDegenerateShape)
	s.Equal(before.Rows, in.Rows)
	s.Equal(gpa.Untrained, a.State())
	s.Zero(a.NumPoints())
}

func (s *AlignerSuite) TestDegenerateShapeAllowedWithoutScaling() {
	shapes := []geometry.Shape{s.train[0], {{X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}}}
	a := s.newAligner(gpa.Config{Seed: 0, Iterations: 2})
	out, err := a.Process(shapesDataset(s.T(), shapes, nil))
	s.Require().NoError(err)
	for _, p := range readShapes(s.T(), out)[1] {
		s.False(math.IsNaN(p.X) || math.IsNaN(p.Y))
	}
}

func (s *AlignerSuite) TestInexactCoincidentRowRejected() {
	for _, p := range []geometry.Point2D{{X: 0.7, Y: 1.19}, {X: 0.1, Y: 0.1}} {
		bad := geometry.Shape{p, p, p}
		in := shapesDataset(s.T(), []geometry.Shape{rightTriangle, bad}, nil)
		before := in.Clone()

		a := s.newAligner(gpa.DefaultConfig())
		_, err := a.Process(in)
		s.Require().ErrorIs(err, gpa.ErrDegenerateShape, "%v", p)
		s.Contains(err.Error(), "row 1")
		s.Equal(before.Rows, in.Rows)
	}
}

func (s *AlignerSuite) TestFailedTrainingLeavesAlignerFresh() {
	p := geometry.Point2D{X: 0.1, Y: 0.1}
	a := s.newAligner(gpa.DefaultConfig())
	_, err := a.Process(shapesDataset(s.T(), append(s.train[:4:4], geometry.Shape{p, p, p, p, p}), nil))
	s.Require().ErrorIs(err, gpa.ErrDegenerateShape)

	s.Equal(gpa.Untrained, a.State())
	s.Zero(a.NumPoints())
	s.Nil(a.Reference())
	s.Require().NoError(a.SetConfig(gpa.Config{Seed: 9, Iterations: 3, AllowScaling: true}))

	// The next batch trains exactly as it would on a new aligner.
	fresh := s.newAligner(gpa.Config{Seed: 9, Iterations: 3, AllowScaling: true})
	got, err := a.Process(shapesDataset(s.T(), s.train, nil))
	s.Require().NoError(err)
	want, err := fresh.Process(shapesDataset(s.T(), s.train, nil))
	s.Require().NoError(err)
	s.Equal(want.Rows, got.Rows)
	s.Equal(fresh.Reference(), a.Reference())
}

func (s *AlignerSuite) TestFailedInferenceKeepsReference() {
	a := s.newAligner(gpa.DefaultConfig())
	_, err := a.Process(shapesDataset(s.T(), s.train, nil))
	s.Require().NoError(err)
	ref := a.Reference()

	p := geometry.Point2D{X: 0.7, Y: 1.19}
	_, err = a.Process(shapesDataset(s.T(), []geometry.Shape{s.test[0], {p, p, p, p, p}}, nil))
	s.Require().ErrorIs(err, gpa.ErrDegenerateShape)
	s.Equal(gpa.Trained, a.State())
	s.Equal(ref, a.Reference())
}

func (s *AlignerSuite) TestInexactCoincidentRowCentredWithoutScaling() {
	p := geometry.Point2D{X: 0.7, Y: 1.19}
	a := s.newAligner(gpa.Config{Seed: 0, Iterations: 2})
	out, err := a.Process(shapesDataset(s.T(), []geometry.Shape{s.train[0], {p, p, p, p, p}}, nil))
	s.Require().NoError(err)
	s.Equal(make(geometry.Shape, 5), readShapes(s.T(), out)[1])
}

func (s *AlignerSuite) TestReconfigurationRejectedAfterTraining() {
	a := s.newAligner(gpa.DefaultConfig())
	s.Require().NoError(a.SetConfig(gpa.Config{Seed: 3, Iterations: 2, AllowScaling: true}))
	s.Equal(int64(3), a.Config().Seed)

	_, err := a.Process(shapesDataset(s.T(), s.train, nil))
	s.Require().NoError(err)
	s.ErrorIs(a.SetConfig(gpa.DefaultConfig()), gpa.ErrConfiguration)
}

func (s *AlignerSuite) TestInferenceRequiresSamePointSchema() {
	a := s.newAligner(gpa.DefaultConfig())
	_, err := a.Process(shapesDataset(s.T(), s.train, nil))
	s.Require().NoError(err)

	_, err = a.Process(shapesDataset(s.T(), []geometry.Shape{rightTriangle}, nil))
	s.ErrorIs(err, shape.ErrMalformedSchema)
}

func (s *AlignerSuite) TestAlignShapeAndDistance() {
	a := s.newAligner(gpa.DefaultConfig())
	_, err := a.AlignShape(s.test[0])
	s.ErrorIs(err, gpa.ErrNoReference)
	_, err = a.Distance(s.test[0])
	s.ErrorIs(err, gpa.ErrNoReference)

	_, err = a.Process(shapesDataset(s.T(), s.train, nil))
	s.Require().NoError(err)

	aligned, err := a.AlignShape(s.test[0])
	s.Require().NoError(err)
	d, err := a.Distance(aligned)
	s.Require().NoError(err)
	s.Less(d, 0.2)

	_, err = a.AlignShape(rightTriangle)
	s.ErrorIs(err, shape.ErrMalformedSchema)
}

func TestAlignerSuite(t *testing.T) {
	suite.Run(t, new(AlignerSuite))
}

func TestNewAlignerValidatesIterations(t *testing.T) {
	_, err := gpa.NewAligner(gpa.Config{Iterations: 0})
	require.ErrorIs(t, err, gpa.ErrConfiguration)

	a, err := gpa.NewAligner(gpa.DefaultConfig())
	require.NoError(t, err)
	require.ErrorIs(t, a.SetConfig(gpa.Config{Iterations: -1}), gpa.ErrConfiguration)
	require.Equal(t, "untrained", a.State().String())
}

// Three unit right triangles at different poses, labels {0,1}, one test shape.
func TestRightTriangleScenario(t *testing.T) {
	train := []geometry.Shape{
		placed(rightTriangle, 1, 0.4, 3, -2),
		placed(rightTriangle, 1, 2.0, -5, 1),
		placed(rightTriangle, 1, -1.1, 0.5, 7),
	}
	labels := []int{0, 1, 0}
	ds := shapesDataset(t, train, labels)

	class0 := ds.Subset(func(row []float64) bool { return int(row[ds.ClassIndex]) == 0 })
	a, err := gpa.NewAligner(gpa.DefaultConfig())
	require.NoError(t, err)
	aligned, err := a.Process(class0)
	require.NoError(t, err)
	require.Equal(t, 2, aligned.NumRows())

	requireShapesClose(t, gpa.MeanShape(readShapes(t, aligned)), a.Reference(), tol)

	test := shapesDataset(t, []geometry.Shape{placed(rightTriangle, 1, 1.3, -2, -2)}, nil)
	out, err := a.Process(test)
	require.NoError(t, err)
	got := readShapes(t, out)[0]

	c := got.Centroid()
	require.InDelta(t, 0, c.X, tol)
	require.InDelta(t, 0, c.Y, tol)
	require.InDelta(t, 1, got.RMSExtent(), tol)
	require.InDelta(t, 0, gpa.OptimalRotation(got, a.Reference()), tol)
	requireShapesClose(t, a.Reference(), got, 1e-6)
}
