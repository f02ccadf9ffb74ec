package main

import (
	"fmt"
	"os"

	"shape-gpa/internal/dataset"
	"shape-gpa/internal/gpa"
	"shape-gpa/internal/supervised"

	"github.com/jedib0t/go-pretty/v6/table"
)

func printSummary(a *gpa.Aligner, train, test *dataset.Dataset) error {
	cfg := a.Config()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("GPA Alignment")
	t.AppendRows([]table.Row{
		{"Points per shape", a.NumPoints()},
		{"Seed", cfg.Seed},
		{"Iterations", cfg.Iterations},
		{"Scaling", cfg.AllowScaling},
		{"Reference RMS extent", fmt.Sprintf("%.6f", a.Reference().RMSExtent())},
	})
	t.AppendSeparator()

	sets := []struct {
		name string
		ds   *dataset.Dataset
	}{{"Train", train}, {"Test", test}}
	for _, s := range sets {
		if s.ds == nil {
			continue
		}
		d, err := a.MeanDistance(s.ds)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{s.name + " rows", s.ds.NumRows()})
		t.AppendRow(table.Row{s.name + " mean Procrustes distance", fmt.Sprintf("%.6f", d)})
	}
	t.Render()
	return nil
}

func printSupervisedSummary(o *supervised.Orchestrator, rawTrain *dataset.Dataset) error {
	class, err := rawTrain.ClassAttribute()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Supervised GPA Alignment")
	t.AppendHeader(table.Row{"Class", "Seed", "Train rows", "State", "Reference RMS extent", "Mean Procrustes distance"})

	for c := 0; c < o.NumClasses(); c++ {
		a := o.Aligner(c)
		own := rawTrain.Subset(func(row []float64) bool { return int(row[rawTrain.ClassIndex]) == c })

		dist := "-"
		if own.NumRows() > 0 {
			aligned, err := a.Process(own)
			if err != nil {
				return fmt.Errorf("class %s: %w", class.Values[c], err)
			}
			d, err := a.MeanDistance(aligned)
			if err != nil {
				return err
			}
			dist = fmt.Sprintf("%.6f", d)
		}

		t.AppendRow(table.Row{
			class.Values[c],
			a.Config().Seed,
			own.NumRows(),
			a.State(),
			fmt.Sprintf("%.6f", a.Reference().RMSExtent()),
			dist,
		})
	}
	t.Render()
	return nil
}
