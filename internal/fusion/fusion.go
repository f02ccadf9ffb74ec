// Package fusion merges per-class views of one dataset into a single
// dataset, column-wise and row by row.
package fusion

import (
	"errors"
	"fmt"

	"shape-gpa/internal/dataset"
)

// ErrRowAlignmentMismatch is returned when the views to merge do not have the
// same number of rows.
var ErrRowAlignmentMismatch = errors.New("fusion: views are not row aligned")

// ClassPrefix returns the attribute prefix of the view for class index c.
func ClassPrefix(c int) string {
	return fmt.Sprintf("class%d_", c)
}

// Rename prefixes every attribute name of view. Values are untouched.
func Rename(view *dataset.Dataset, prefix string) error {
	// Names are cleared first so a prefixed name never collides with an
	// original one (e.g. prefix "a" on "b" and "ab").
	names := view.Names()
	for i := range view.Attributes {
		view.Attributes[i].Name = ""
	}
	for i, name := range names {
		if err := view.RenameAttribute(i, prefix+name); err != nil {
			return err
		}
	}
	return nil
}

// DropLabel removes the class attribute from view. A view without a class
// attribute is left unchanged.
func DropLabel(view *dataset.Dataset) error {
	if view.ClassIndex < 0 {
		return nil
	}
	return view.DeleteAttribute(view.ClassIndex)
}

// Merge concatenates views column-wise in order. Every view must have the
// same row count. The class attribute of the result is the class attribute of
// the last view that has one.
func Merge(views []*dataset.Dataset) (*dataset.Dataset, error) {
	if len(views) == 0 {
		return nil, fmt.Errorf("no views: %w", ErrRowAlignmentMismatch)
	}
	rows := views[0].NumRows()
	for i, v := range views[1:] {
		if v.NumRows() != rows {
			return nil, fmt.Errorf("view %d has %d rows, view 0 has %d: %w", i+1, v.NumRows(), rows, ErrRowAlignmentMismatch)
		}
	}

	var (
		merged = views[0]
		class  string
		err    error
	)
	if views[0].ClassIndex >= 0 {
		class = views[0].Attributes[views[0].ClassIndex].Name
	}
	for _, v := range views[1:] {
		if merged, err = dataset.MergeColumns(merged, v); err != nil {
			return nil, err
		}
		if v.ClassIndex >= 0 {
			class = v.Attributes[v.ClassIndex].Name
		}
	}
	if len(views) == 1 {
		merged = views[0].Clone()
	}

	if class != "" {
		if err := merged.SetClass(class); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
