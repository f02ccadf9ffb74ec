package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// CSVOptions controls how a CSV file is mapped onto a Dataset.
type CSVOptions struct {
	// ClassAttribute names the nominal class column. Empty means no class.
	ClassAttribute string
	// ClassValues fixes the class domain (e.g. to the training set's domain).
	// When nil the domain is built from the labels in order of first appearance.
	ClassValues []string
}

// LoadCSV reads a dataset from a CSV file with a header row.
func LoadCSV(path string, opts CSVOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV reads a dataset from CSV. Every column except the class column
// must hold numbers.
func ReadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	attrs := make([]Attribute, len(header))
	classIndex := -1
	for i, name := range header {
		attrs[i] = Attribute{Name: name}
		if opts.ClassAttribute != "" && name == opts.ClassAttribute {
			classIndex = i
			attrs[i].Values = append([]string{}, opts.ClassValues...)
		}
	}
	if opts.ClassAttribute != "" && classIndex < 0 {
		return nil, fmt.Errorf("class %q: %w", opts.ClassAttribute, ErrUnknownAttribute)
	}

	ds, err := New(attrs, classIndex)
	if err != nil {
		return nil, err
	}
	fixedDomain := opts.ClassValues != nil

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := make([]float64, len(rec))
		for i, field := range rec {
			if i == classIndex {
				class := &ds.Attributes[i]
				idx := class.ValueIndex(field)
				if idx < 0 {
					if fixedDomain {
						return nil, fmt.Errorf("line %d: %q: %w", line, field, ErrUnknownClassValue)
					}
					class.Values = append(class.Values, field)
					idx = len(class.Values) - 1
				}
				row[i] = float64(idx)
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, header[i], err)
			}
			row[i] = v
		}
		if err := ds.Add(row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	// A class column with no rows still needs a non-nil domain to be nominal.
	if classIndex >= 0 && ds.Attributes[classIndex].Values == nil {
		ds.Attributes[classIndex].Values = []string{}
	}
	return ds, nil
}

// WriteCSV writes the dataset with a header row. Nominal values are written
// by name.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Names()); err != nil {
		return err
	}

	rec := make([]string, len(d.Attributes))
	for r, row := range d.Rows {
		for i, v := range row {
			a := d.Attributes[i]
			if a.IsNominal() {
				idx := int(v)
				if idx < 0 || idx >= len(a.Values) {
					return fmt.Errorf("row %d, column %q: %w", r, a.Name, ErrUnknownClassValue)
				}
				rec[i] = a.Values[idx]
				continue
			}
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the dataset to a CSV file.
func (d *Dataset) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
