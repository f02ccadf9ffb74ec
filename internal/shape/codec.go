// Package shape maps dataset rows onto 2D shapes.
//
// Points are stored in attributes named x1,y1,x2,y2,... The point count is the
// number of complete consecutive pairs starting at index 1; discovery stops at
// the first index where either coordinate is missing.
package shape

import (
	"errors"
	"fmt"

	"shape-gpa/pkg/geometry"
)

// ErrMalformedSchema is returned when a schema holds no x1/y1 pair, or lacks
// a pair the codec was bound to.
var ErrMalformedSchema = errors.New("shape: malformed point schema")

// XName returns the attribute name of the x coordinate of point i (1-based).
func XName(i int) string { return fmt.Sprintf("x%d", i) }

// YName returns the attribute name of the y coordinate of point i (1-based).
func YName(i int) string { return fmt.Sprintf("y%d", i) }

// DiscoverPointCount returns the number of complete x{i}/y{i} pairs in names.
func DiscoverPointCount(names []string) (int, error) {
	index := indexNames(names)
	n := 0
	for {
		_, okX := index[XName(n+1)]
		_, okY := index[YName(n+1)]
		if !okX || !okY {
			break
		}
		n++
	}
	if n == 0 {
		return 0, fmt.Errorf("no x1/y1 attribute pair: %w", ErrMalformedSchema)
	}
	return n, nil
}

// Codec reads and writes the points of rows that share one schema.
type Codec struct {
	xCols []int
	yCols []int
}

// NewCodec discovers the point count from names and binds to that schema.
func NewCodec(names []string) (*Codec, error) {
	n, err := DiscoverPointCount(names)
	if err != nil {
		return nil, err
	}
	return Bind(names, n)
}

// Bind resolves the columns of points 1..n in names. Every pair must exist.
func Bind(names []string, n int) (*Codec, error) {
	if n < 1 {
		return nil, fmt.Errorf("point count %d: %w", n, ErrMalformedSchema)
	}
	index := indexNames(names)
	c := &Codec{xCols: make([]int, n), yCols: make([]int, n)}
	for i := 1; i <= n; i++ {
		x, okX := index[XName(i)]
		y, okY := index[YName(i)]
		if !okX || !okY {
			return nil, fmt.Errorf("point %d missing: %w", i, ErrMalformedSchema)
		}
		c.xCols[i-1] = x
		c.yCols[i-1] = y
	}
	return c, nil
}

func indexNames(names []string) map[string]int {
	index := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

// NumPoints returns N.
func (c *Codec) NumPoints() int {
	return len(c.xCols)
}

// ReadPoint returns point i (1-based) of row. Panics if i is outside [1,N].
func (c *Codec) ReadPoint(row []float64, i int) (x, y float64) {
	c.check(i)
	return row[c.xCols[i-1]], row[c.yCols[i-1]]
}

// WritePoint stores point i (1-based) into row. Panics if i is outside [1,N].
func (c *Codec) WritePoint(row []float64, i int, x, y float64) {
	c.check(i)
	row[c.xCols[i-1]] = x
	row[c.yCols[i-1]] = y
}

func (c *Codec) check(i int) {
	if i < 1 || i > len(c.xCols) {
		panic(fmt.Sprintf("shape: point index %d outside [1,%d]", i, len(c.xCols)))
	}
}

// Read returns all N points of row.
func (c *Codec) Read(row []float64) geometry.Shape {
	s := make(geometry.Shape, len(c.xCols))
	for i := range s {
		s[i] = geometry.Point2D{X: row[c.xCols[i]], Y: row[c.yCols[i]]}
	}
	return s
}

// Write overwrites the point attributes of row with s. len(s) must be N.
func (c *Codec) Write(row []float64, s geometry.Shape) {
	if len(s) != len(c.xCols) {
		panic(fmt.Sprintf("shape: writing %d points into a %d-point schema", len(s), len(c.xCols)))
	}
	for i, p := range s {
		row[c.xCols[i]] = p.X
		row[c.yCols[i]] = p.Y
	}
}
