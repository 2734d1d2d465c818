package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/statextras/ols"
)

// DefaultResetPower is the highest power of the fitted values added by RamseyReset.
const DefaultResetPower = 5

// RegressionModel is a fitted linear model that exposes its data and
// predictions. *ols.Results satisfies it.
type RegressionModel interface {
	Endog() []float64
	Exog() mat.Matrix
	FittedValues() []float64
}

// RamseyReset performs Ramsey's RESET specification test.
//
// The design matrix is augmented with powers 2 through maxPower of the
// fitted values and refit by OLS; the F-test is that the added coefficients
// are jointly zero. A small p-value suggests neglected non-linearity.
func RamseyReset(m RegressionModel, maxPower int) (*ols.FTestResult, error) {
	if maxPower < 2 {
		return nil, fmt.Errorf("%w: maxPower %d, need at least 2", ErrInvalidInput, maxPower)
	}

	y := m.Endog()
	x := m.Exog()
	fitted := m.FittedValues()
	n, k := x.Dims()
	extra := maxPower - 1

	if len(y) != n || len(fitted) != n {
		return nil, fmt.Errorf("%w: %d responses and %d fitted values for %d design rows",
			ErrInvalidInput, len(y), len(fitted), n)
	}
	if n-(k+extra) < 1 {
		return nil, fmt.Errorf("%w: %d observations for %d parameters", ErrInsufficientData, n, k+extra)
	}

	// Scaling a column leaves the F statistic unchanged and keeps high
	// powers representable.
	scale := 0.0
	for _, f := range fitted {
		scale = math.Max(scale, math.Abs(f))
	}
	if scale == 0 {
		return nil, fmt.Errorf("%w: fitted values are all zero", ErrDegenerateInput)
	}

	aux := mat.NewDense(n, k+extra, nil)
	aux.Slice(0, n, 0, k).(*mat.Dense).Copy(x)
	for i, f := range fitted {
		z := f / scale
		for p := 2; p <= maxPower; p++ {
			aux.Set(i, k+p-2, math.Pow(z, float64(p)))
		}
	}

	names := make([]string, k+extra)
	for j := 0; j < k; j++ {
		names[j] = fmt.Sprintf("x%d", j)
	}
	for p := 2; p <= maxPower; p++ {
		names[k+p-2] = fmt.Sprintf("fitted^%d", p)
	}

	model, err := ols.New(y, aux, names)
	if err != nil {
		return nil, err
	}
	fit, err := model.Fit(ols.NonRobust)
	if errors.Is(err, ols.ErrSingular) {
		// Fitted values with few distinct levels, e.g. from an intercept-only
		// or single-dummy model, make the powers linearly dependent.
		return nil, fmt.Errorf("%w: powers 2..%d of the fitted values are not identified: %w",
			ErrInsufficientData, maxPower, err)
	}
	if err != nil {
		return nil, fmt.Errorf("stats: RESET auxiliary regression: %w", err)
	}

	restriction := mat.NewDense(extra, k+extra, nil)
	for i := 0; i < extra; i++ {
		restriction.Set(i, k+i, 1)
	}
	return fit.FTest(restriction, nil)
}
