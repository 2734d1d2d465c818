// Package formula parses model specifications such as "y ~ x + log(z)" and
// builds the corresponding design matrix from a dataset.Frame.
package formula

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/statextras/dataset"
)

// InterceptName is the design column name of the constant term.
const InterceptName = "Intercept"

var (
	// ErrSyntax is returned for malformed formulas.
	ErrSyntax = errors.New("formula: syntax error")
	// ErrUnknownColumn is returned when a formula references a column the frame lacks.
	ErrUnknownColumn = errors.New("formula: unknown column")
	// ErrEmptyDesign is returned when a design has no columns or no complete rows.
	ErrEmptyDesign = errors.New("formula: empty design")
)

// Formula is a parsed model specification.
type Formula struct {
	source    string
	response  expr
	terms     []term
	intercept bool
}

// Parse parses a specification of the form "response ~ terms".
func Parse(spec string) (*Formula, error) {
	toks, err := lex(spec)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	response, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokOp, "~"); err != nil {
		return nil, err
	}
	rhs, err := p.parseRHS()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %s", ErrSyntax, t)
	}

	// Lower-order terms first, as in the usual formula conventions.
	terms := append([]term(nil), rhs.terms...)
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i].factors) < len(terms[j].factors)
	})

	return &Formula{
		source:    strings.TrimSpace(spec),
		response:  response,
		terms:     terms,
		intercept: rhs.intercept,
	}, nil
}

// String returns the specification the formula was parsed from.
func (f *Formula) String() string {
	return f.source
}

// Response returns the label of the left-hand side.
func (f *Formula) Response() string {
	return f.response.String()
}

// Terms returns the labels of the right-hand-side terms, excluding the intercept.
func (f *Formula) Terms() []string {
	out := make([]string, len(f.terms))
	for i, t := range f.terms {
		out[i] = t.label()
	}
	return out
}

// HasIntercept reports whether the design includes a constant column.
func (f *Formula) HasIntercept() bool {
	return f.intercept
}

// Design is a response vector and design matrix ready for fitting.
type Design struct {
	Response string
	Y        []float64
	X        *mat.Dense
	Names    []string
	// Rows holds the frame row index of each design row; incomplete rows are dropped.
	Rows      []int
	Intercept bool
}

// Design evaluates the formula against a frame. Rows where the response or any
// design column is missing or non-finite are dropped.
func (f *Formula) Design(data *dataset.Frame) (*Design, error) {
	if data == nil || data.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrEmptyDesign)
	}

	y, err := f.response.eval(data)
	if err != nil {
		return nil, err
	}

	var cols []designColumn
	if f.intercept {
		ones := make([]float64, data.Len())
		for i := range ones {
			ones[i] = 1
		}
		cols = append(cols, designColumn{name: InterceptName, values: ones})
	}
	for _, t := range f.terms {
		tc, err := t.build(data)
		if err != nil {
			return nil, err
		}
		cols = append(cols, tc...)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: formula %q has no regressors", ErrEmptyDesign, f.source)
	}

	var rows []int
	for i := 0; i < data.Len(); i++ {
		if !usable(y[i]) {
			continue
		}
		complete := true
		for _, c := range cols {
			if !usable(c.values[i]) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: formula %q leaves no complete rows", ErrEmptyDesign, f.source)
	}

	x := mat.NewDense(len(rows), len(cols), nil)
	yKept := make([]float64, len(rows))
	names := make([]string, len(cols))
	for j, c := range cols {
		names[j] = c.name
	}
	for r, i := range rows {
		yKept[r] = y[i]
		for j, c := range cols {
			x.Set(r, j, c.values[i])
		}
	}

	return &Design{
		Response:  f.Response(),
		Y:         yKept,
		X:         x,
		Names:     names,
		Rows:      rows,
		Intercept: f.intercept,
	}, nil
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
