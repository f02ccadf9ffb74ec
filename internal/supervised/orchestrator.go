// Package supervised trains one GPA aligner per class and fuses the aligned
// views of every row into one augmented dataset.
//
// For C classes and A attributes per row (label included) the output has
// C*A - (C-1) attributes: one class-qualified copy of every attribute per
// class, with a single label column taken from the last class's view.
//
// Ownership: the library aligns in place at the gpa.Aligner level and copies
// on input here. An Orchestrator feeds the same rows to every class aligner,
// so each aligner gets its own clone of the input and Process never modifies
// the dataset it is given. The fused result is a new dataset.
package supervised

import (
	"fmt"
	"log"

	"shape-gpa/internal/dataset"
	"shape-gpa/internal/fusion"
	"shape-gpa/internal/gpa"
)

// Orchestrator owns one Aligner per class.
type Orchestrator struct {
	cfg      gpa.Config
	aligners []*gpa.Aligner
}

// New creates an orchestrator. cfg.Seed is the master seed from which the
// per-class seeds are derived.
func New(cfg gpa.Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{cfg: cfg}, nil
}

// Config returns the orchestrator configuration.
func (o *Orchestrator) Config() gpa.Config { return o.cfg }

// Initialized reports whether the per-class aligners have been built.
func (o *Orchestrator) Initialized() bool { return o.aligners != nil }

// NumClasses returns the number of classes, or 0 before the first Process.
func (o *Orchestrator) NumClasses() int { return len(o.aligners) }

// Aligner returns the aligner of class c.
func (o *Orchestrator) Aligner(c int) *gpa.Aligner { return o.aligners[c] }

// Process returns the fused per-class views of ds. The first call also
// trains one aligner per class on the rows carrying that label.
//
// ds itself is never modified: each class view is aligned on a copy.
func (o *Orchestrator) Process(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if _, err := ds.ClassAttribute(); err != nil {
		return nil, err
	}

	if !o.Initialized() {
		if err := o.setup(ds); err != nil {
			return nil, err
		}
	} else if ds.NumClasses() != len(o.aligners) {
		return nil, fmt.Errorf("dataset has %d classes, trained on %d: %w",
			ds.NumClasses(), len(o.aligners), dataset.ErrNoClass)
	}

	views := make([]*dataset.Dataset, len(o.aligners))
	for c, a := range o.aligners {
		view, err := a.Process(ds.Clone())
		if err != nil {
			return nil, fmt.Errorf("class %d: %w", c, err)
		}
		if err := fusion.Rename(view, fusion.ClassPrefix(c)); err != nil {
			return nil, err
		}
		if c != len(o.aligners)-1 {
			if err := fusion.DropLabel(view); err != nil {
				return nil, err
			}
		}
		views[c] = view
	}

	return fusion.Merge(views)
}

func (o *Orchestrator) setup(ds *dataset.Dataset) error {
	numClasses := ds.NumClasses()
	if numClasses == 0 {
		return fmt.Errorf("empty class domain: %w", dataset.ErrNoClass)
	}

	seeds := DeriveSeeds(o.cfg.Seed, numClasses)
	aligners := make([]*gpa.Aligner, numClasses)
	for c := range aligners {
		cfg := o.cfg
		cfg.Seed = seeds[c]
		a, err := gpa.NewAligner(cfg)
		if err != nil {
			return err
		}

		class := c
		subset := ds.Subset(func(row []float64) bool {
			return int(row[ds.ClassIndex]) == class
		})
		if _, err := a.Process(subset); err != nil {
			return fmt.Errorf("train class %d: %w", c, err)
		}
		if o.cfg.Debug {
			log.Printf("supervised: class %d trained on %d rows (%s)", c, subset.NumRows(), a.State())
		}
		aligners[c] = a
	}

	o.aligners = aligners
	return nil
}

// OutputAttributes returns the attribute names Process produces for a
// dataset with ds's schema and class domain.
func OutputAttributes(ds *dataset.Dataset) ([]string, error) {
	if _, err := ds.ClassAttribute(); err != nil {
		return nil, err
	}
	numClasses := ds.NumClasses()
	var names []string
	for c := 0; c < numClasses; c++ {
		prefix := fusion.ClassPrefix(c)
		for i, a := range ds.Attributes {
			if i == ds.ClassIndex && c != numClasses-1 {
				continue
			}
			names = append(names, prefix+a.Name)
		}
	}
	return names, nil
}
