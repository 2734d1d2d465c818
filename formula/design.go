package formula

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sartorproj/statextras/dataset"
)

// designColumn is one column of the design matrix before missing rows are dropped.
// NaN marks a missing value.
type designColumn struct {
	name   string
	values []float64
}

type factor interface {
	label() string
	build(f *dataset.Frame) ([]designColumn, error)
}

// variableFactor is a bare column name; categorical columns expand to dummies.
type variableFactor struct {
	name string
}

func (v variableFactor) label() string {
	return v.name
}

func (v variableFactor) build(f *dataset.Frame) ([]designColumn, error) {
	kind, ok := f.Kind(v.name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, v.name)
	}
	if kind == dataset.Categorical {
		levels, _ := f.Categorical(v.name)
		return treatment(v.name, levels), nil
	}
	values, _ := f.Numeric(v.name)
	out := make([]float64, len(values))
	copy(out, values)
	return []designColumn{{name: v.name, values: out}}, nil
}

// categoricalFactor is C(name); numeric columns are treated as levels too.
type categoricalFactor struct {
	name string
}

func (c categoricalFactor) label() string {
	return "C(" + c.name + ")"
}

func (c categoricalFactor) build(f *dataset.Frame) ([]designColumn, error) {
	kind, ok := f.Kind(c.name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c.name)
	}
	if kind == dataset.Categorical {
		levels, _ := f.Categorical(c.name)
		return treatment(c.label(), levels), nil
	}
	values, _ := f.Numeric(c.name)
	levels := make([]string, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			levels[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return treatmentOrdered(c.label(), levels, numericLevels(values)), nil
}

// valueFactor is a numeric transform such as I(x ** 2) or log(x).
type valueFactor struct {
	expr expr
	name string
}

func (v valueFactor) label() string {
	return v.name
}

func (v valueFactor) build(f *dataset.Frame) ([]designColumn, error) {
	values, err := v.expr.eval(f)
	if err != nil {
		return nil, err
	}
	return []designColumn{{name: v.name, values: values}}, nil
}

// treatment codes a categorical column as dummies against its first sorted level.
func treatment(label string, levels []string) []designColumn {
	seen := make(map[string]struct{})
	var distinct []string
	for _, l := range levels {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			distinct = append(distinct, l)
		}
	}
	sort.Strings(distinct)
	return treatmentOrdered(label, levels, distinct)
}

func treatmentOrdered(label string, levels, distinct []string) []designColumn {
	if len(distinct) < 2 {
		return nil
	}
	cols := make([]designColumn, 0, len(distinct)-1)
	for _, level := range distinct[1:] {
		values := make([]float64, len(levels))
		for i, l := range levels {
			switch l {
			case "":
				values[i] = math.NaN()
			case level:
				values[i] = 1
			}
		}
		cols = append(cols, designColumn{name: label + "[T." + level + "]", values: values})
	}
	return cols
}

func numericLevels(values []float64) []string {
	seen := make(map[float64]struct{})
	var distinct []float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			distinct = append(distinct, v)
		}
	}
	sort.Float64s(distinct)
	out := make([]string, len(distinct))
	for i, v := range distinct {
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}

// term is a product of factors. The empty term is the intercept.
type term struct {
	factors []factor
}

func (t term) label() string {
	labels := make([]string, len(t.factors))
	for i, f := range t.factors {
		labels[i] = f.label()
	}
	return strings.Join(labels, ":")
}

// key identifies a term regardless of factor order, so a:b equals b:a.
func (t term) key() string {
	labels := make([]string, len(t.factors))
	for i, f := range t.factors {
		labels[i] = f.label()
	}
	sort.Strings(labels)
	return strings.Join(labels, ":")
}

func (t term) join(o term) term {
	out := term{factors: append([]factor(nil), t.factors...)}
	for _, f := range o.factors {
		dup := false
		for _, g := range out.factors {
			if g.label() == f.label() {
				dup = true
				break
			}
		}
		if !dup {
			out.factors = append(out.factors, f)
		}
	}
	return out
}

// build expands the term into its columns: the row-wise products of every
// combination of its factors' columns.
func (t term) build(f *dataset.Frame) ([]designColumn, error) {
	ones := make([]float64, f.Len())
	for i := range ones {
		ones[i] = 1
	}
	cols := []designColumn{{values: ones}}
	for _, fac := range t.factors {
		fcols, err := fac.build(f)
		if err != nil {
			return nil, err
		}
		next := make([]designColumn, 0, len(cols)*len(fcols))
		for _, c := range cols {
			for _, fc := range fcols {
				name := fc.name
				if c.name != "" {
					name = c.name + ":" + fc.name
				}
				values := make([]float64, len(c.values))
				for i := range values {
					values[i] = c.values[i] * fc.values[i]
				}
				next = append(next, designColumn{name: name, values: values})
			}
		}
		cols = next
	}
	return cols, nil
}
