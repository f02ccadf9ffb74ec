// Package main provides the entry point for the shape-gpa command.
//
// shape-gpa aligns the 2D shapes stored in a CSV file (columns x1,y1,x2,y2,...)
// with Generalized Procrustes Analysis. The training file trains the aligner
// (or, with -supervised, one aligner per class); the optional test file is then
// aligned against the frozen reference(s).
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"shape-gpa/internal/config"
	"shape-gpa/internal/dataset"
	"shape-gpa/internal/gpa"
	"shape-gpa/internal/supervised"
	"shape-gpa/internal/version"
)

const appName = "shape-gpa"

// shapeFilter is satisfied by both gpa.Aligner and supervised.Orchestrator.
type shapeFilter interface {
	Process(ds *dataset.Dataset) (*dataset.Dataset, error)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	trainPath := flag.String("train", "", "Path to training CSV")
	testPath := flag.String("test", "", "Path to test CSV (optional)")
	outPath := flag.String("out", "", "Output path for the aligned training CSV (default <train>_gpa.csv)")
	testOutPath := flag.String("test-out", "", "Output path for the aligned test CSV (default <test>_gpa.csv)")
	cfgPath := flag.String("config", "", "JSON configuration file")
	seed := flag.Int64("S", 42, "Random number seed for selecting the initial reference")
	iterations := flag.Int("I", 5, "Number of iterations with which to update the reference")
	scaling := flag.Bool("C", true, "Whether or not to allow scaling of shapes")
	supervisedMode := flag.Bool("supervised", false, "Train one aligner per class and fuse the per-class views")
	classAttr := flag.String("class", "class", "Name of the class attribute")
	pngPath := flag.String("png", "", "Render aligned shapes and reference(s) to this PNG file")
	verbose := flag.Bool("v", false, "Log training progress")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", appName, version.String())
		return
	}
	if *trainPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -train <csv> [-test <csv>] [-supervised] [-S seed] [-I iterations] [-C=bool]\n", appName)
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	// Flags given on the command line override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "S":
			cfg.Seed = *seed
		case "I":
			cfg.Iterations = *iterations
		case "C":
			cfg.AllowScaling = *scaling
		case "supervised":
			cfg.Supervised = *supervisedMode
		case "class":
			cfg.ClassAttribute = *classAttr
		case "v":
			cfg.Debug = *verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *trainPath, *testPath, *outPath, *testOutPath, *pngPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.File, trainPath, testPath, outPath, testOutPath, pngPath string) error {
	train, err := loadDataset(trainPath, cfg, nil)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d training rows from %s\n", train.NumRows(), trainPath)

	var (
		filter  shapeFilter
		aligner *gpa.Aligner
		orch    *supervised.Orchestrator
	)
	if cfg.Supervised {
		if orch, err = supervised.New(cfg.Aligner()); err != nil {
			return err
		}
		filter = orch
	} else {
		if aligner, err = gpa.NewAligner(cfg.Aligner()); err != nil {
			return err
		}
		filter = aligner
	}

	// The unsupervised aligner rewrites its input; keep the raw rows for the summary.
	rawTrain := train.Clone()
	alignedTrain, err := filter.Process(train)
	if err != nil {
		return fmt.Errorf("process %s: %w", trainPath, err)
	}
	if outPath == "" {
		outPath = defaultOutput(trainPath)
	}
	if err := alignedTrain.SaveCSV(outPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows x %d attributes to %s\n", alignedTrain.NumRows(), alignedTrain.NumAttributes(), outPath)

	var alignedTest *dataset.Dataset
	if testPath != "" {
		var classValues []string
		if class, err := train.ClassAttribute(); err == nil {
			classValues = class.Values
		}
		test, err := loadDataset(testPath, cfg, classValues)
		if err != nil {
			return err
		}
		if alignedTest, err = filter.Process(test); err != nil {
			return fmt.Errorf("process %s: %w", testPath, err)
		}
		if testOutPath == "" {
			testOutPath = defaultOutput(testPath)
		}
		if err := alignedTest.SaveCSV(testOutPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows x %d attributes to %s\n", alignedTest.NumRows(), alignedTest.NumAttributes(), testOutPath)
	}

	if orch != nil {
		if err := printSupervisedSummary(orch, rawTrain); err != nil {
			return err
		}
	} else {
		if err := printSummary(aligner, alignedTrain, alignedTest); err != nil {
			return err
		}
	}

	if pngPath != "" {
		if err := renderResult(pngPath, aligner, orch, alignedTrain); err != nil {
			return err
		}
		fmt.Printf("Rendered %s\n", pngPath)
	}
	return nil
}

// loadDataset reads a CSV. In unsupervised mode a missing class column is
// not an error.
func loadDataset(path string, cfg *config.File, classValues []string) (*dataset.Dataset, error) {
	opts := dataset.CSVOptions{ClassAttribute: cfg.ClassAttribute, ClassValues: classValues}
	ds, err := dataset.LoadCSV(path, opts)
	if err != nil && !cfg.Supervised && errors.Is(err, dataset.ErrUnknownAttribute) {
		return dataset.LoadCSV(path, dataset.CSVOptions{})
	}
	return ds, err
}

func defaultOutput(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_gpa" + ext
}
