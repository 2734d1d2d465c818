package formula

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/statextras/dataset"
)

// expr is an arithmetic expression evaluated row-wise against a frame.
type expr interface {
	eval(f *dataset.Frame) ([]float64, error)
	String() string
}

type numberExpr struct {
	value float64
}

func (e numberExpr) eval(f *dataset.Frame) ([]float64, error) {
	out := make([]float64, f.Len())
	for i := range out {
		out[i] = e.value
	}
	return out, nil
}

func (e numberExpr) String() string {
	return strconv.FormatFloat(e.value, 'g', -1, 64)
}

type refExpr struct {
	name string
}

func (e refExpr) eval(f *dataset.Frame) ([]float64, error) {
	values, ok := f.Numeric(e.name)
	if ok {
		out := make([]float64, len(values))
		copy(out, values)
		return out, nil
	}
	if f.Has(e.name) {
		return nil, fmt.Errorf("%w: %q is categorical and cannot be used in arithmetic", ErrSyntax, e.name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, e.name)
}

func (e refExpr) String() string {
	return e.name
}

type negExpr struct {
	arg expr
}

func (e negExpr) eval(f *dataset.Frame) ([]float64, error) {
	v, err := e.arg.eval(f)
	if err != nil {
		return nil, err
	}
	for i := range v {
		v[i] = -v[i]
	}
	return v, nil
}

func (e negExpr) String() string {
	return "-" + wrap(e.arg)
}

type binaryExpr struct {
	op          string
	left, right expr
}

func (e binaryExpr) eval(f *dataset.Frame) ([]float64, error) {
	l, err := e.left.eval(f)
	if err != nil {
		return nil, err
	}
	r, err := e.right.eval(f)
	if err != nil {
		return nil, err
	}
	for i := range l {
		switch e.op {
		case "+":
			l[i] += r[i]
		case "-":
			l[i] -= r[i]
		case "*":
			l[i] *= r[i]
		case "/":
			l[i] /= r[i]
		case "**":
			l[i] = math.Pow(l[i], r[i])
		}
	}
	return l, nil
}

func (e binaryExpr) String() string {
	return wrap(e.left) + " " + e.op + " " + wrap(e.right)
}

// wrap parenthesizes compound operands so labels stay unambiguous.
func wrap(e expr) string {
	switch e.(type) {
	case binaryExpr, negExpr:
		return "(" + e.String() + ")"
	default:
		return e.String()
	}
}

type callExpr struct {
	fn  string
	arg expr
}

var valueFuncs = map[string]func([]float64) []float64{
	"log":         elementwise(math.Log),
	"log2":        elementwise(math.Log2),
	"log10":       elementwise(math.Log10),
	"exp":         elementwise(math.Exp),
	"sqrt":        elementwise(math.Sqrt),
	"abs":         elementwise(math.Abs),
	"center":      center,
	"standardize": standardize,
}

// funcAliases maps the numpy-style spellings accepted in formulas.
var funcAliases = map[string]string{
	"np.log":   "log",
	"np.log2":  "log2",
	"np.log10": "log10",
	"np.exp":   "exp",
	"np.sqrt":  "sqrt",
	"np.abs":   "abs",
	"scale":    "standardize",
}

func lookupFunc(name string) (string, bool) {
	if alias, ok := funcAliases[name]; ok {
		name = alias
	}
	_, ok := valueFuncs[name]
	return name, ok
}

func (e callExpr) eval(f *dataset.Frame) ([]float64, error) {
	v, err := e.arg.eval(f)
	if err != nil {
		return nil, err
	}
	return valueFuncs[e.fn](v), nil
}

func (e callExpr) String() string {
	return e.fn + "(" + e.arg.String() + ")"
}

func elementwise(fn func(float64) float64) func([]float64) []float64 {
	return func(v []float64) []float64 {
		for i := range v {
			v[i] = fn(v[i])
		}
		return v
	}
}

func finite(v []float64) []float64 {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

func center(v []float64) []float64 {
	ok := finite(v)
	if len(ok) == 0 {
		return v
	}
	mean := stat.Mean(ok, nil)
	for i := range v {
		v[i] -= mean
	}
	return v
}

func standardize(v []float64) []float64 {
	ok := finite(v)
	if len(ok) < 2 {
		return v
	}
	mean, std := stat.MeanStdDev(ok, nil)
	if std == 0 {
		return center(v)
	}
	for i := range v {
		v[i] = (v[i] - mean) / std
	}
	return v
}
