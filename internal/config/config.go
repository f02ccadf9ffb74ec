// Package config provides the JSON run configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"shape-gpa/internal/gpa"
)

const currentVersion = 1

// File is a shape-gpa run configuration.
type File struct {
	Version        int    `json:"version"`
	Seed           int64  `json:"seed"`
	Iterations     int    `json:"iterations"`
	AllowScaling   bool   `json:"allow_scaling"`
	Supervised     bool   `json:"supervised"`
	ClassAttribute string `json:"class_attribute,omitempty"`
	Debug          bool   `json:"debug"`
}

// Default returns the default configuration.
func Default() *File {
	d := gpa.DefaultConfig()
	return &File{
		Version:        currentVersion,
		Seed:           d.Seed,
		Iterations:     d.Iterations,
		AllowScaling:   d.AllowScaling,
		ClassAttribute: "class",
	}
}

// Load reads a configuration file. Fields missing from the file keep their
// default values.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the configuration.
func (f *File) Validate() error {
	if f.Version > currentVersion {
		return fmt.Errorf("config version %d is newer than supported version %d: %w",
			f.Version, currentVersion, gpa.ErrConfiguration)
	}
	if f.Supervised && f.ClassAttribute == "" {
		return fmt.Errorf("supervised mode needs a class attribute: %w", gpa.ErrConfiguration)
	}
	return f.Aligner().Validate()
}

// Aligner returns the aligner configuration.
func (f *File) Aligner() gpa.Config {
	return gpa.Config{
		Seed:         f.Seed,
		Iterations:   f.Iterations,
		AllowScaling: f.AllowScaling,
		Debug:        f.Debug,
	}
}
