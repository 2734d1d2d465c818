package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/statextras/dataset"
	"github.com/sartorproj/statextras/ols"
)

// fixedModel is a LikelihoodModel with preset values.
type fixedModel struct {
	n     int
	llf   float64
	k     int
	resid []float64
}

func (m fixedModel) NObs() int            { return m.n }
func (m fixedModel) LogLike() float64     { return m.llf }
func (m fixedModel) NumParams() int       { return m.k }
func (m fixedModel) Residuals() []float64 { return m.resid }

// disturbance alternates in sign so it is nearly orthogonal to smooth functions of the index.
func disturbance(i int) float64 {
	sign := 1.0
	if i%2 == 1 {
		sign = -1
	}
	return sign * (1 + 0.5*float64(i%3))
}

func syntheticFrame(t *testing.T, quadratic float64) *dataset.Frame {
	t.Helper()
	n := 100
	x := make([]float64, n)
	z := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i) / 10
		z[i] = float64((i*37)%23) / 4
		y[i] = 2 + 3*x[i] + quadratic*x[i]*x[i] + disturbance(i)
	}
	f, err := dataset.FromColumns([]string{"y", "x", "z"}, [][]float64{y, x, z})
	require.NoError(t, err)
	return f
}

func fit(t *testing.T, spec string, data *dataset.Frame) *ols.Results {
	t.Helper()
	m, err := ols.FromFormula(spec, data)
	require.NoError(t, err)
	res, err := m.Fit(ols.NonRobust)
	require.NoError(t, err)
	return res
}

func TestVuongKnownValues(t *testing.T) {
	a := fixedModel{n: 4, llf: 10, k: 2, resid: []float64{1, 2, 3, 4}}
	b := fixedModel{n: 4, llf: 8, k: 2, resid: []float64{1, 1, 1, 1}}

	v, err := Vuong(a, b)
	require.NoError(t, err)

	// ω = var(1, 2, 3, 4) = 5/3, Z = 2 / (5/3 * 2)
	assert.InDelta(t, 5.0/3.0, v.Omega, 1e-12)
	assert.InDelta(t, 0.6, v.Z, 1e-12)
	assert.InDelta(t, 0.2742531177500736, v.PValue, 1e-9)
	assert.Equal(t, 4, v.NObs)
}

func TestVuongParameterPenalty(t *testing.T) {
	a := fixedModel{n: 4, llf: 10, k: 3, resid: []float64{1, 2, 3, 4}}
	b := fixedModel{n: 4, llf: 8, k: 2, resid: []float64{1, 1, 1, 1}}

	v, err := Vuong(a, b)
	require.NoError(t, err)

	want := (2 - 0.5*math.Log(4)) / (5.0 / 3.0 * 2)
	assert.InDelta(t, want, v.Z, 1e-12)
}

func TestVuongDegenerate(t *testing.T) {
	data := syntheticFrame(t, 0)
	res := fit(t, "y ~ x", data)

	_, err := Vuong(res, res)
	assert.True(t, errors.Is(err, ErrDegenerateInput), "a model compared with itself has zero ratio variance")

	one := fixedModel{n: 1, resid: []float64{1}}
	_, err = Vuong(one, one)
	assert.True(t, errors.Is(err, ErrDegenerateInput))

	short := fixedModel{n: 3, resid: []float64{1, 2}}
	_, err = Vuong(short, fixedModel{n: 3, resid: []float64{1, 2, 3}})
	assert.True(t, errors.Is(err, ErrDegenerateInput))

	zero := fixedModel{n: 3, resid: []float64{1, 2, 3}}
	_, err = Vuong(zero, fixedModel{n: 3, resid: []float64{0, 1, 1}})
	assert.True(t, errors.Is(err, ErrDegenerateInput), "division by a zero residual")
}

func TestVuongFittedModels(t *testing.T) {
	data := syntheticFrame(t, 0)
	a := fit(t, "y ~ x", data)
	b := fit(t, "y ~ z", data)
	require.Greater(t, a.LogLike(), b.LogLike())

	v, err := Vuong(a, b)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v.PValue, 0.0)
	assert.LessOrEqual(t, v.PValue, 1.0)
	assert.Equal(t, 100, v.NObs)
}

func TestRamseyResetLinear(t *testing.T) {
	res := fit(t, "y ~ x", syntheticFrame(t, 0))

	ft, err := RamseyReset(res, DefaultResetPower)
	require.NoError(t, err)

	t.Logf("RESET on linear data: %s", ft)
	assert.Equal(t, 4, ft.DFNum)
	assert.Equal(t, 100-6, ft.DFDenom)
	assert.Greater(t, ft.PValue, 0.1, "linear data should not reject linearity")
}

func TestRamseyResetQuadratic(t *testing.T) {
	res := fit(t, "y ~ x", syntheticFrame(t, 0.8))

	ft, err := RamseyReset(res, DefaultResetPower)
	require.NoError(t, err)

	t.Logf("RESET on quadratic data: %s", ft)
	assert.Less(t, ft.PValue, 1e-6, "an omitted quadratic term should be detected")

	// Including the quadratic term removes the evidence.
	full := fit(t, "y ~ x + I(x ** 2)", syntheticFrame(t, 0.8))
	ft, err = RamseyReset(full, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, ft.DFNum)
	assert.Greater(t, ft.PValue, 0.1)
}

func TestRamseyResetErrors(t *testing.T) {
	res := fit(t, "y ~ x", syntheticFrame(t, 0))

	_, err := RamseyReset(res, 1)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	small := syntheticFrame(t, 0).Slice(0, 6)
	_, err = RamseyReset(fit(t, "y ~ x", small), 5)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestRamseyResetTwoLevelFit(t *testing.T) {
	n := 30
	d := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = float64(i % 2)
		y[i] = 1 + 2*d[i] + 0.1*disturbance(i)
	}
	data, err := dataset.FromColumns([]string{"y", "d"}, [][]float64{y, d})
	require.NoError(t, err)

	// Fitted values take one or two distinct values, so their powers are
	// collinear with the original regressors.
	for _, spec := range []string{"y ~ d", "y ~ 1"} {
		_, err := RamseyReset(fit(t, spec, data), DefaultResetPower)
		require.Error(t, err, spec)
		assert.True(t, errors.Is(err, ErrInsufficientData), "%s: %v", spec, err)
		assert.Contains(t, err.Error(), "fitted^", spec)
	}
}

func TestLjungBoxAndBoxPierce(t *testing.T) {
	alternating := make([]float64, 50)
	for i := range alternating {
		alternating[i] = disturbance(i)
	}

	lb, err := LjungBox(alternating, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, lb.DOF)
	assert.Less(t, lb.PValue, 0.01, "alternating residuals are autocorrelated")

	bp, err := BoxPierce(alternating, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, bp.DOF)
	assert.Less(t, bp.Statistic, lb.Statistic)

	_, err = LjungBox(alternating[:5], 5, 0)
	assert.True(t, errors.Is(err, ErrInsufficientData))
	_, err = LjungBox(alternating, 0, 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = BoxPierce(make([]float64, 20), 3, 0)
	assert.True(t, errors.Is(err, ErrDegenerateInput))
}

func TestACF(t *testing.T) {
	x := []float64{1, -1, 1, -1, 1, -1, 1, -1}
	acf := ACF(x, 3)
	require.Len(t, acf, 4)
	assert.InDelta(t, 1.0, acf[0], 1e-12)
	assert.Less(t, acf[1], 0.0)
	assert.Greater(t, acf[2], 0.0)

	assert.Nil(t, ACF([]float64{2, 2, 2}, 1))
}

func TestDurbinWatson(t *testing.T) {
	alternating := []float64{1, -1, 1, -1, 1, -1}
	dw, err := DurbinWatson(alternating)
	require.NoError(t, err)
	// 5 differences of size 2 over a sum of squares of 6.
	assert.InDelta(t, 20.0/6.0, dw.Statistic, 1e-12)

	_, err = DurbinWatson([]float64{1})
	assert.True(t, errors.Is(err, ErrInsufficientData))
	_, err = DurbinWatson([]float64{0, 0, 0})
	assert.True(t, errors.Is(err, ErrDegenerateInput))
}

func TestJarqueBera(t *testing.T) {
	uniform := make([]float64, 101)
	for i := range uniform {
		uniform[i] = float64(i-50) / 50
	}

	jb, err := JarqueBera(uniform)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, jb.Skew, 1e-12)
	assert.InDelta(t, 1.8, jb.Kurtosis, 0.01)
	assert.Greater(t, jb.Statistic, 0.0)
	assert.Greater(t, jb.PValue, 0.0)
	assert.Less(t, jb.PValue, 1.0)

	_, err = JarqueBera([]float64{1, 2})
	assert.True(t, errors.Is(err, ErrInsufficientData))
	_, err = JarqueBera([]float64{3, 3, 3})
	assert.True(t, errors.Is(err, ErrDegenerateInput))
}
