// Package dataset provides the tabular data structure that regression models are fit against.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrLengthMismatch is returned when a column does not match the frame's row count.
	ErrLengthMismatch = errors.New("dataset: column length mismatch")
	// ErrDuplicateColumn is returned when a column name is already in use.
	ErrDuplicateColumn = errors.New("dataset: duplicate column")
	// ErrNoData is returned when a source contains no usable rows or columns.
	ErrNoData = errors.New("dataset: no data")
)

// Kind identifies how a column stores its values.
type Kind int

const (
	// Numeric columns hold float64 values; NaN marks a missing value.
	Numeric Kind = iota
	// Categorical columns hold string levels; "" marks a missing value.
	Categorical
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type column struct {
	kind    Kind
	numbers []float64
	levels  []string
}

// Frame is a set of equally long, named columns. Column order is insertion order.
type Frame struct {
	names   []string
	columns map[string]*column
	rows    int
}

// New creates an empty frame.
func New() *Frame {
	return &Frame{columns: make(map[string]*column)}
}

// FromColumns creates a frame from numeric columns added in the given name order.
func FromColumns(names []string, values [][]float64) (*Frame, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("%w: %d names for %d columns", ErrLengthMismatch, len(names), len(values))
	}
	f := New()
	for i, name := range names {
		if err := f.AddNumeric(name, values[i]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// Names returns the column names in insertion order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Has reports whether the frame contains a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Kind returns the kind of the named column.
func (f *Frame) Kind(name string) (Kind, bool) {
	c, ok := f.columns[name]
	if !ok {
		return 0, false
	}
	return c.kind, true
}

// AddNumeric appends a numeric column. The slice is copied.
func (f *Frame) AddNumeric(name string, values []float64) error {
	if err := f.checkNew(name, len(values)); err != nil {
		return err
	}
	v := make([]float64, len(values))
	copy(v, values)
	f.add(name, &column{kind: Numeric, numbers: v}, len(values))
	return nil
}

// AddCategorical appends a categorical column. The slice is copied.
func (f *Frame) AddCategorical(name string, levels []string) error {
	if err := f.checkNew(name, len(levels)); err != nil {
		return err
	}
	v := make([]string, len(levels))
	copy(v, levels)
	f.add(name, &column{kind: Categorical, levels: v}, len(levels))
	return nil
}

func (f *Frame) checkNew(name string, n int) error {
	if name == "" {
		return errors.New("dataset: empty column name")
	}
	if _, ok := f.columns[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if len(f.names) > 0 && n != f.rows {
		return fmt.Errorf("%w: column %q has %d rows, frame has %d", ErrLengthMismatch, name, n, f.rows)
	}
	return nil
}

func (f *Frame) add(name string, c *column, n int) {
	f.names = append(f.names, name)
	f.columns[name] = c
	f.rows = n
}

// Numeric returns the values of a numeric column. The returned slice must not be modified.
func (f *Frame) Numeric(name string) ([]float64, bool) {
	c, ok := f.columns[name]
	if !ok || c.kind != Numeric {
		return nil, false
	}
	return c.numbers, true
}

// Categorical returns the levels of a categorical column. The returned slice must not be modified.
func (f *Frame) Categorical(name string) ([]string, bool) {
	c, ok := f.columns[name]
	if !ok || c.kind != Categorical {
		return nil, false
	}
	return c.levels, true
}

// Levels returns the distinct non-missing levels of a categorical column, sorted.
func (f *Frame) Levels(name string) ([]string, bool) {
	values, ok := f.Categorical(name)
	if !ok {
		return nil, false
	}
	seen := make(map[string]struct{})
	var levels []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		levels = append(levels, v)
	}
	sort.Strings(levels)
	return levels, true
}

// Mean returns the mean of the non-missing values of a numeric column.
// It returns NaN for unknown, categorical or all-missing columns.
func (f *Frame) Mean(name string) float64 {
	v := f.present(name)
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}

// Std returns the sample standard deviation of the non-missing values of a numeric column.
func (f *Frame) Std(name string) float64 {
	v := f.present(name)
	if len(v) < 2 {
		return math.NaN()
	}
	return stat.StdDev(v, nil)
}

func (f *Frame) present(name string) []float64 {
	values, ok := f.Numeric(name)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Slice returns a new frame holding rows [start, end).
func (f *Frame) Slice(start, end int) *Frame {
	if start < 0 {
		start = 0
	}
	if end > f.rows {
		end = f.rows
	}
	if start > end {
		start = end
	}

	out := New()
	for _, name := range f.names {
		c := f.columns[name]
		switch c.kind {
		case Numeric:
			_ = out.AddNumeric(name, c.numbers[start:end])
		case Categorical:
			_ = out.AddCategorical(name, c.levels[start:end])
		}
	}
	out.rows = end - start
	return out
}
