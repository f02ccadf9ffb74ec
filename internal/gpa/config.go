package gpa

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned for an invalid configuration, or for a
	// configuration change after the aligner has started training.
	ErrConfiguration = errors.New("gpa: invalid configuration")

	// ErrDegenerateShape is returned when scaling meets a shape whose points
	// all coincide.
	ErrDegenerateShape = errors.New("gpa: degenerate shape (zero spread)")

	// ErrNoReference is returned by the distance diagnostics before the
	// aligner has chosen a reference shape.
	ErrNoReference = errors.New("gpa: no reference shape yet")
)

// Config configures an Aligner.
type Config struct {
	Seed         int64 `json:"seed"`          // Selects the initial reference row
	Iterations   int   `json:"iterations"`    // Reference re-estimation rounds during training
	AllowScaling bool  `json:"allow_scaling"` // Normalise every shape to unit RMS extent
	Debug        bool  `json:"debug"`         // Log training progress
}

// DefaultConfig returns the default aligner configuration.
func DefaultConfig() Config {
	return Config{
		Seed:         42,
		Iterations:   5,
		AllowScaling: true,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1, got %d: %w", c.Iterations, ErrConfiguration)
	}
	return nil
}
