package formula

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/statextras/dataset"
)

func testFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f := dataset.New()
	require.NoError(t, f.AddNumeric("y", []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, f.AddNumeric("x", []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, f.AddNumeric("z", []float64{2, 1, 2, 1, 2, 1}))
	require.NoError(t, f.AddCategorical("g", []string{"b", "a", "c", "a", "b", "c"}))
	return f
}

func TestParseTerms(t *testing.T) {
	tests := []struct {
		spec      string
		terms     []string
		intercept bool
	}{
		{"y ~ x", []string{"x"}, true},
		{"y ~ x + z", []string{"x", "z"}, true},
		{"y ~ x + z - 1", []string{"x", "z"}, false},
		{"y ~ 0 + x", []string{"x"}, false},
		{"y ~ -1 + x", []string{"x"}, false},
		{"y ~ x - 1 + 1", []string{"x"}, true},
		{"y ~ x*z", []string{"x", "z", "x:z"}, true},
		{"y ~ x:z + x", []string{"x", "x:z"}, true},
		{"y ~ x + x", []string{"x"}, true},
		{"y ~ x:z + z:x", []string{"x:z"}, true},
		{"y ~ (x + z):g", []string{"x:g", "z:g"}, true},
		{"y ~ x*z - x:z", []string{"x", "z"}, true},
		{"y ~ I(x**2)", []string{"I(x ** 2)"}, true},
		{"y ~ I(x^2) + log(z)", []string{"I(x ** 2)", "log(z)"}, true},
		{"y ~ np.log(x)", []string{"log(x)"}, true},
		{"y ~ C(g)", []string{"C(g)"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			f, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.terms, f.Terms())
			assert.Equal(t, tt.intercept, f.HasIntercept())
			assert.Equal(t, "y", f.Response())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, spec := range []string{
		"",
		"y",
		"y ~",
		"y ~ x +",
		"y ~ (x",
		"y ~ 2",
		"y ~ foo(x)",
		"y ~ x $ z",
		"y ~ x ~ z",
		"y ~ C(1)",
	} {
		_, err := Parse(spec)
		assert.True(t, errors.Is(err, ErrSyntax), "spec %q: got %v", spec, err)
	}
}

func TestDesignNumeric(t *testing.T) {
	f, err := Parse("y ~ x + I(x ** 2) + x:z")
	require.NoError(t, err)

	d, err := f.Design(testFrame(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Intercept", "x", "I(x ** 2)", "x:z"}, d.Names)
	rows, cols := d.X.Dims()
	assert.Equal(t, 6, rows)
	assert.Equal(t, 4, cols)

	assert.Equal(t, 1.0, d.X.At(2, 0))
	assert.Equal(t, 3.0, d.X.At(2, 1))
	assert.Equal(t, 9.0, d.X.At(2, 2))
	assert.Equal(t, 6.0, d.X.At(2, 3))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, d.Y)
	assert.True(t, d.Intercept)
}

func TestDesignCategorical(t *testing.T) {
	f, err := Parse("y ~ g + C(z)")
	require.NoError(t, err)

	d, err := f.Design(testFrame(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Intercept", "g[T.b]", "g[T.c]", "C(z)[T.2]"}, d.Names)
	// Row 0 is g=b, z=2.
	assert.Equal(t, []float64{1, 1, 0, 1}, mat64Row(d, 0))
	// Row 1 is g=a (reference), z=1 (reference).
	assert.Equal(t, []float64{1, 0, 0, 0}, mat64Row(d, 1))
}

func TestDesignDropsMissingRows(t *testing.T) {
	f := dataset.New()
	require.NoError(t, f.AddNumeric("y", []float64{1, math.NaN(), 3, 4}))
	require.NoError(t, f.AddNumeric("x", []float64{1, 2, 0, 4}))

	form, err := Parse("y ~ log(x)")
	require.NoError(t, err)

	d, err := form.Design(f)
	require.NoError(t, err)
	// Row 1 has a missing response, row 2 has log(0) = -Inf.
	assert.Equal(t, []int{0, 3}, d.Rows)
	assert.Equal(t, []float64{1, 4}, d.Y)
}

func TestDesignErrors(t *testing.T) {
	frame := testFrame(t)

	f, err := Parse("y ~ missing")
	require.NoError(t, err)
	_, err = f.Design(frame)
	assert.True(t, errors.Is(err, ErrUnknownColumn))

	f, err = Parse("y ~ I(g + 1)")
	require.NoError(t, err)
	_, err = f.Design(frame)
	assert.True(t, errors.Is(err, ErrSyntax), "categorical in arithmetic should fail")

	f, err = Parse("y ~ 0")
	require.NoError(t, err)
	_, err = f.Design(frame)
	assert.True(t, errors.Is(err, ErrEmptyDesign))

	f, err = Parse("y ~ x")
	require.NoError(t, err)
	_, err = f.Design(dataset.New())
	assert.True(t, errors.Is(err, ErrEmptyDesign))
}

func TestStandardize(t *testing.T) {
	f, err := Parse("y ~ standardize(x) + center(z)")
	require.NoError(t, err)

	d, err := f.Design(testFrame(t))
	require.NoError(t, err)

	sum := 0.0
	for i := 0; i < 6; i++ {
		sum += d.X.At(i, 1)
	}
	assert.InDelta(t, 0.0, sum, 1e-12)
	assert.InDelta(t, 0.5, d.X.At(0, 2), 1e-12)
}

func mat64Row(d *Design, i int) []float64 {
	_, c := d.X.Dims()
	out := make([]float64, c)
	for j := range out {
		out[j] = d.X.At(i, j)
	}
	return out
}
