// Package ols fits linear regression models by ordinary least squares.
package ols

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/statextras/dataset"
	"github.com/sartorproj/statextras/formula"
)

var (
	// ErrDimension is returned when inputs have inconsistent shapes.
	ErrDimension = errors.New("ols: dimension mismatch")
	// ErrInsufficientData is returned when there are no residual degrees of freedom.
	ErrInsufficientData = errors.New("ols: insufficient data")
	// ErrSingular is returned for rank-deficient designs.
	ErrSingular = errors.New("ols: singular design matrix")
	// ErrUnknownCovType is returned for an unsupported covariance estimator name.
	ErrUnknownCovType = errors.New("ols: unknown covariance type")
)

// CovType names a covariance estimator for the coefficient estimates.
type CovType string

const (
	NonRobust CovType = "nonrobust"
	HC0       CovType = "HC0" // White
	HC1       CovType = "HC1" // HC0 scaled by n/(n-k)
	HC2       CovType = "HC2" // leverage-adjusted
	HC3       CovType = "HC3" // jackknife approximation
)

// ParseCovType converts a case-insensitive name into a CovType. The empty
// string means NonRobust.
func ParseCovType(s string) (CovType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nonrobust":
		return NonRobust, nil
	case "hc0":
		return HC0, nil
	case "hc1":
		return HC1, nil
	case "hc2":
		return HC2, nil
	case "hc3":
		return HC3, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCovType, s)
}

// Model is an unfitted linear regression of endog on exog.
type Model struct {
	endog    []float64
	exog     *mat.Dense
	names    []string
	constant int
	formula  string
}

// New creates a model from a response vector and a design matrix whose
// columns are named by names. If names is nil, columns are named x0, x1, ...
func New(y []float64, x *mat.Dense, names []string) (*Model, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: nil design matrix", ErrDimension)
	}
	n, k := x.Dims()
	if len(y) != n {
		return nil, fmt.Errorf("%w: %d responses for %d design rows", ErrDimension, len(y), n)
	}
	if names == nil {
		names = make([]string, k)
		for j := range names {
			names[j] = fmt.Sprintf("x%d", j)
		}
	}
	if len(names) != k {
		return nil, fmt.Errorf("%w: %d names for %d columns", ErrDimension, len(names), k)
	}

	endog := make([]float64, n)
	copy(endog, y)
	var exog mat.Dense
	exog.CloneFrom(x)

	return &Model{
		endog:    endog,
		exog:     &exog,
		names:    append([]string(nil), names...),
		constant: constantColumns(&exog),
	}, nil
}

// FromFormula builds a model from a specification such as "y ~ x + z".
func FromFormula(spec string, data *dataset.Frame) (*Model, error) {
	f, err := formula.Parse(spec)
	if err != nil {
		return nil, err
	}
	d, err := f.Design(data)
	if err != nil {
		return nil, err
	}
	m, err := New(d.Y, d.X, d.Names)
	if err != nil {
		return nil, err
	}
	m.formula = f.String()
	return m, nil
}

// Formula returns the specification the model was built from, if any.
func (m *Model) Formula() string {
	return m.formula
}

// constantColumns reports 1 when some column is a non-zero constant.
func constantColumns(x *mat.Dense) int {
	n, k := x.Dims()
	if n == 0 {
		return 0
	}
	for j := 0; j < k; j++ {
		first := x.At(0, j)
		if first == 0 {
			continue
		}
		constant := true
		for i := 1; i < n; i++ {
			if x.At(i, j) != first {
				constant = false
				break
			}
		}
		if constant {
			return 1
		}
	}
	return 0
}

// rankTol is the smallest |R_jj| relative to the largest that still counts as full rank.
const rankTol = 1e-10

// Fit estimates the coefficients and their covariance.
func (m *Model) Fit(cov CovType) (*Results, error) {
	switch cov {
	case "":
		cov = NonRobust
	case NonRobust, HC0, HC1, HC2, HC3:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCovType, cov)
	}

	n, k := m.exog.Dims()
	if k == 0 {
		return nil, fmt.Errorf("%w: no regressors", ErrDimension)
	}
	if n <= k {
		return nil, fmt.Errorf("%w: %d observations for %d parameters", ErrInsufficientData, n, k)
	}

	var qr mat.QR
	qr.Factorize(m.exog)

	var r mat.Dense
	qr.RTo(&r)
	rk := mat.DenseCopyOf(r.Slice(0, k, 0, k))
	maxDiag := 0.0
	for j := 0; j < k; j++ {
		maxDiag = math.Max(maxDiag, math.Abs(rk.At(j, j)))
	}
	for j := 0; j < k; j++ {
		if math.Abs(rk.At(j, j)) <= rankTol*maxDiag {
			return nil, fmt.Errorf("%w: column %q is collinear with earlier columns", ErrSingular, m.names[j])
		}
	}

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(n, m.endog)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	// (X'X)^-1 = R^-1 R^-T
	var rinv mat.Dense
	if err := rinv.Inverse(rk); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	var xtxInv mat.Dense
	xtxInv.Mul(&rinv, rinv.T())

	var fitted mat.VecDense
	fitted.MulVec(m.exog, &beta)

	res := &Results{
		model:   m,
		params:  make([]float64, k),
		fitted:  make([]float64, n),
		resid:   make([]float64, n),
		covType: cov,
		nobs:    n,
		dfResid: n - k,
		dfModel: k - m.constant,
	}
	for j := 0; j < k; j++ {
		res.params[j] = beta.AtVec(j)
	}
	for i := 0; i < n; i++ {
		res.fitted[i] = fitted.AtVec(i)
		res.resid[i] = m.endog[i] - res.fitted[i]
	}

	res.computeFitStatistics()
	res.cov = covariance(cov, m.exog, &xtxInv, res.resid, res.Scale())
	res.computeInference()

	return res, nil
}
