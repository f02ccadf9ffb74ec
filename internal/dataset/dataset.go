// Package dataset provides an in-memory tabular dataset: named attributes,
// ordered rows of float64 values and an optional nominal class attribute.
//
// Nominal values (including class labels) are stored as the float64 index of
// the value in the attribute's domain. Row order is significant and every
// operation here preserves it.
package dataset

import (
	"fmt"
)

// Attribute describes one column.
type Attribute struct {
	Name string `json:"name"`
	// Values is the nominal domain. Nil for numeric attributes.
	Values []string `json:"values,omitempty"`
}

// IsNominal reports whether the attribute has a nominal domain.
func (a Attribute) IsNominal() bool {
	return a.Values != nil
}

// ValueIndex returns the index of value in the nominal domain, or -1.
func (a Attribute) ValueIndex(value string) int {
	for i, v := range a.Values {
		if v == value {
			return i
		}
	}
	return -1
}

func (a Attribute) clone() Attribute {
	out := Attribute{Name: a.Name}
	if a.Values != nil {
		out.Values = append([]string{}, a.Values...)
	}
	return out
}

// Dataset is an ordered collection of rows sharing one schema.
type Dataset struct {
	Attributes []Attribute
	Rows       [][]float64
	// ClassIndex is the index of the class attribute, -1 when there is none.
	ClassIndex int
}

// New creates an empty dataset with the given schema. classIndex may be -1.
func New(attrs []Attribute, classIndex int) (*Dataset, error) {
	seen := make(map[string]bool, len(attrs))
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		if seen[a.Name] {
			return nil, fmt.Errorf("%q: %w", a.Name, ErrDuplicateAttribute)
		}
		seen[a.Name] = true
		out[i] = a.clone()
	}
	if classIndex < -1 || classIndex >= len(attrs) {
		return nil, fmt.Errorf("class index %d: %w", classIndex, ErrIndexOutOfRange)
	}
	return &Dataset{Attributes: out, ClassIndex: classIndex}, nil
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// NumAttributes returns the number of attributes (columns).
func (d *Dataset) NumAttributes() int {
	return len(d.Attributes)
}

// Names returns the attribute names in schema order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Attributes))
	for i, a := range d.Attributes {
		names[i] = a.Name
	}
	return names
}

// Index returns the column index of the named attribute, or -1.
func (d *Dataset) Index(name string) int {
	for i, a := range d.Attributes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Add appends a row. The row is stored as given, not copied.
func (d *Dataset) Add(row []float64) error {
	if len(row) != len(d.Attributes) {
		return fmt.Errorf("got %d values for %d attributes: %w", len(row), len(d.Attributes), ErrRowWidth)
	}
	d.Rows = append(d.Rows, row)
	return nil
}

// Value returns the value of the named attribute in row r.
func (d *Dataset) Value(r int, name string) (float64, error) {
	col, err := d.cell(r, name)
	if err != nil {
		return 0, err
	}
	return d.Rows[r][col], nil
}

func (d *Dataset) cell(r int, name string) (int, error) {
	if r < 0 || r >= len(d.Rows) {
		return 0, fmt.Errorf("row %d: %w", r, ErrIndexOutOfRange)
	}
	col := d.Index(name)
	if col < 0 {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownAttribute)
	}
	return col, nil
}

// ClassAttribute returns the nominal class attribute.
func (d *Dataset) ClassAttribute() (Attribute, error) {
	if d.ClassIndex < 0 || d.ClassIndex >= len(d.Attributes) || !d.Attributes[d.ClassIndex].IsNominal() {
		return Attribute{}, ErrNoClass
	}
	return d.Attributes[d.ClassIndex], nil
}

// NumClasses returns the size of the class domain, or 0 without a nominal class.
func (d *Dataset) NumClasses() int {
	a, err := d.ClassAttribute()
	if err != nil {
		return 0
	}
	return len(a.Values)
}

// Label returns the class index of row r. The dataset must have a class attribute.
func (d *Dataset) Label(r int) int {
	return int(d.Rows[r][d.ClassIndex])
}

// SetClass makes the named attribute the class attribute.
func (d *Dataset) SetClass(name string) error {
	i := d.Index(name)
	if i < 0 {
		return fmt.Errorf("class %q: %w", name, ErrUnknownAttribute)
	}
	d.ClassIndex = i
	return nil
}

// EmptyCopy returns a dataset with the same schema and no rows.
func (d *Dataset) EmptyCopy() *Dataset {
	attrs := make([]Attribute, len(d.Attributes))
	for i, a := range d.Attributes {
		attrs[i] = a.clone()
	}
	return &Dataset{Attributes: attrs, ClassIndex: d.ClassIndex}
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := d.EmptyCopy()
	out.Rows = make([][]float64, len(d.Rows))
	for i, row := range d.Rows {
		out.Rows[i] = append([]float64(nil), row...)
	}
	return out
}

// Subset returns a new dataset holding copies of the rows for which keep
// returns true, in their original order.
func (d *Dataset) Subset(keep func(row []float64) bool) *Dataset {
	out := d.EmptyCopy()
	for _, row := range d.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, append([]float64(nil), row...))
		}
	}
	return out
}

// RenameAttribute renames the attribute at column i. Values are unchanged.
func (d *Dataset) RenameAttribute(i int, name string) error {
	if i < 0 || i >= len(d.Attributes) {
		return fmt.Errorf("attribute %d: %w", i, ErrIndexOutOfRange)
	}
	if j := d.Index(name); j >= 0 && j != i {
		return fmt.Errorf("%q: %w", name, ErrDuplicateAttribute)
	}
	d.Attributes[i].Name = name
	return nil
}

// DeleteAttribute removes column i from the schema and every row.
// Deleting the class attribute leaves the dataset without a class.
func (d *Dataset) DeleteAttribute(i int) error {
	if i < 0 || i >= len(d.Attributes) {
		return fmt.Errorf("attribute %d: %w", i, ErrIndexOutOfRange)
	}
	d.Attributes = append(d.Attributes[:i], d.Attributes[i+1:]...)
	for r, row := range d.Rows {
		d.Rows[r] = append(row[:i], row[i+1:]...)
	}
	switch {
	case d.ClassIndex == i:
		d.ClassIndex = -1
	case d.ClassIndex > i:
		d.ClassIndex--
	}
	return nil
}

// MergeColumns concatenates a and b column-wise: row r of the result is row r
// of a followed by row r of b. The result has no class attribute set.
func MergeColumns(a, b *Dataset) (*Dataset, error) {
	if a.NumRows() != b.NumRows() {
		return nil, fmt.Errorf("%d vs %d rows: %w", a.NumRows(), b.NumRows(), ErrRowCountMismatch)
	}
	attrs := make([]Attribute, 0, len(a.Attributes)+len(b.Attributes))
	attrs = append(attrs, a.Attributes...)
	attrs = append(attrs, b.Attributes...)
	out, err := New(attrs, -1)
	if err != nil {
		return nil, err
	}
	out.Rows = make([][]float64, a.NumRows())
	for r := range a.Rows {
		row := make([]float64, 0, len(attrs))
		row = append(row, a.Rows[r]...)
		row = append(row, b.Rows[r]...)
		out.Rows[r] = row
	}
	return out, nil
}
