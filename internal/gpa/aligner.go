// Package gpa implements Generalized Procrustes Analysis for 2D shapes.
//
// An Aligner owns one reference shape. The first non-empty batch it processes
// trains it: every shape is translated to the origin, optionally scaled to
// unit RMS extent, and rotated onto the reference, after which the reference
// is replaced by the mean of the aligned batch. This repeats Iterations times.
// Once trained the reference is frozen and every later batch is aligned in a
// single pass.
//
// Aligner.Process mutates the rows of the batch it is given and returns the
// same dataset: an Aligner is the low-level stage that callers compose, and
// aligning in place avoids a copy per batch. Callers that need their input
// intact pass a clone, which is what the supervised package does for every
// class view.
package gpa

import (
	"fmt"
	"log"
	"math/rand"

	"shape-gpa/internal/dataset"
	"shape-gpa/internal/shape"
	"shape-gpa/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

// State is the training state of an Aligner.
type State int

const (
	// Untrained aligners train on the next non-empty batch.
	Untrained State = iota
	// Trained aligners use a frozen reference.
	Trained
)

func (s State) String() string {
	switch s {
	case Untrained:
		return "untrained"
	case Trained:
		return "trained"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Aligner performs GPA over batches of shapes.
type Aligner struct {
	cfg       Config
	numPoints int // 0 until trained
	reference geometry.Shape
	state     State
}

// NewAligner creates an untrained aligner.
func NewAligner(cfg Config) (*Aligner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aligner{cfg: cfg}, nil
}

// SetConfig replaces the configuration. It fails once the aligner has been
// trained.
func (a *Aligner) SetConfig(cfg Config) error {
	if a.state == Trained {
		return fmt.Errorf("reconfiguration after training: %w", ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// Config returns the current configuration.
func (a *Aligner) Config() Config { return a.cfg }

// State returns the training state.
func (a *Aligner) State() State { return a.state }

// NumPoints returns the number of points per shape, or 0 before training.
func (a *Aligner) NumPoints() int { return a.numPoints }

// Reference returns a copy of the current reference shape (nil before training).
func (a *Aligner) Reference() geometry.Shape { return a.reference.Clone() }

// Process aligns every row of batch in place and returns batch. An empty
// batch is returned unchanged. Row order and non-point attributes are
// preserved.
//
// On error neither the batch nor the aligner has been modified.
func (a *Aligner) Process(batch *dataset.Dataset) (*dataset.Dataset, error) {
	if batch.NumRows() == 0 {
		return batch, nil
	}

	codec, err := a.codec(batch)
	if err != nil {
		return nil, err
	}

	shapes := make([]geometry.Shape, batch.NumRows())
	for r, row := range batch.Rows {
		shapes[r] = codec.Read(row)
		if a.cfg.AllowScaling && Degenerate(shapes[r]) {
			return nil, fmt.Errorf("row %d: %w", r, ErrDegenerateShape)
		}
	}

	if a.state == Untrained {
		// Nothing is committed until every sweep has succeeded.
		ref, err := a.train(shapes, a.initialReference(codec.NumPoints(), shapes))
		if err != nil {
			return nil, err
		}
		a.numPoints, a.reference, a.state = codec.NumPoints(), ref, Trained
	} else {
		for i, s := range shapes {
			if shapes[i], err = a.align(s, a.reference); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
		}
	}

	for r, row := range batch.Rows {
		codec.Write(row, shapes[r])
	}
	return batch, nil
}

func (a *Aligner) codec(batch *dataset.Dataset) (*shape.Codec, error) {
	if a.numPoints == 0 {
		return shape.NewCodec(batch.Names())
	}
	return shape.Bind(batch.Names(), a.numPoints)
}

// initialReference picks the starting reference row at random.
func (a *Aligner) initialReference(numPoints int, shapes []geometry.Shape) geometry.Shape {
	rng := rand.New(rand.NewSource(a.cfg.Seed))
	pick := rng.Intn(len(shapes))
	if a.cfg.Debug {
		log.Printf("gpa: %d points per shape, reference row %d of %d", numPoints, pick, len(shapes))
	}
	return shapes[pick].Clone()
}

// train aligns shapes in place for the configured number of sweeps and
// returns the final mean shape.
func (a *Aligner) train(shapes []geometry.Shape, ref geometry.Shape) (geometry.Shape, error) {
	var err error
	for iter := 0; iter < a.cfg.Iterations; iter++ {
		for i, s := range shapes {
			if shapes[i], err = a.align(s, ref); err != nil {
				return nil, fmt.Errorf("iteration %d, row %d: %w", iter, i, err)
			}
		}
		ref = MeanShape(shapes)

		if a.cfg.Debug {
			log.Printf("gpa: iteration %d/%d, mean Procrustes distance %.6f",
				iter+1, a.cfg.Iterations, meanDistance(shapes, ref))
		}
	}
	return ref, nil
}

// align applies translate, optional scale and rotate against ref.
func (a *Aligner) align(s, ref geometry.Shape) (geometry.Shape, error) {
	s = Translate(s)
	if a.cfg.AllowScaling {
		var err error
		if s, err = Scale(s); err != nil {
			return nil, err
		}
	}
	return Rotate(s, ref), nil
}

// AlignShape aligns a single shape against the frozen reference without
// touching any dataset. The aligner must be trained.
func (a *Aligner) AlignShape(s geometry.Shape) (geometry.Shape, error) {
	if a.state != Trained {
		return nil, ErrNoReference
	}
	if len(s) != a.numPoints {
		return nil, fmt.Errorf("shape has %d points, want %d: %w", len(s), a.numPoints, shape.ErrMalformedSchema)
	}
	return a.align(s, a.reference)
}

// Distance returns the Procrustes distance between s and the reference.
func (a *Aligner) Distance(s geometry.Shape) (float64, error) {
	if a.reference == nil {
		return 0, ErrNoReference
	}
	if len(s) != a.numPoints {
		return 0, fmt.Errorf("shape has %d points, want %d: %w", len(s), a.numPoints, shape.ErrMalformedSchema)
	}
	return s.Distance(a.reference), nil
}

// MeanDistance returns the mean Procrustes distance between the rows of ds
// and the reference. The rows are read as they are; they are not aligned.
func (a *Aligner) MeanDistance(ds *dataset.Dataset) (float64, error) {
	if a.reference == nil {
		return 0, ErrNoReference
	}
	if ds.NumRows() == 0 {
		return 0, nil
	}
	codec, err := shape.Bind(ds.Names(), a.numPoints)
	if err != nil {
		return 0, err
	}
	shapes := make([]geometry.Shape, ds.NumRows())
	for r, row := range ds.Rows {
		shapes[r] = codec.Read(row)
	}
	return meanDistance(shapes, a.reference), nil
}

func meanDistance(shapes []geometry.Shape, ref geometry.Shape) float64 {
	d := make([]float64, len(shapes))
	for i, s := range shapes {
		d[i] = s.Distance(ref)
	}
	return stat.Mean(d, nil)
}
