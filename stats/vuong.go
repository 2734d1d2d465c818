package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrDegenerateInput is returned when a statistic is undefined for the given data.
	ErrDegenerateInput = errors.New("stats: degenerate input")
	// ErrInsufficientData is returned when there are too few observations for a test.
	ErrInsufficientData = errors.New("stats: insufficient data")
	// ErrInvalidInput is returned for out-of-range arguments.
	ErrInvalidInput = errors.New("stats: invalid input")
)

// LikelihoodModel is a fitted model that exposes what the Vuong test needs.
// *ols.Results satisfies it.
type LikelihoodModel interface {
	NObs() int
	LogLike() float64
	NumParams() int
	Residuals() []float64
}

// VuongResult represents the result of a Vuong closeness test.
type VuongResult struct {
	Z      float64 // Test statistic
	PValue float64 // One-sided upper-tail p-value, 1 - Φ(Z)
	Omega  float64 // Sample variance of the residual ratio
	NObs   int
}

// Vuong performs Vuong's closeness test for two non-nested linear models fit
// to the same response and data. The caller asserts that a has the higher
// likelihood; a small p-value favours a over b.
//
// The statistic is
//
//	Z = ((llf_a - llf_b) - (k_a - k_b)/2 * ln n) / (ω √n)
//
// where ω is the sample variance of resid_a / resid_b.
func Vuong(a, b LikelihoodModel) (*VuongResult, error) {
	n := a.NObs()
	if n <= 1 {
		return nil, fmt.Errorf("%w: %d observations", ErrDegenerateInput, n)
	}

	ra, rb := a.Residuals(), b.Residuals()
	if len(ra) != len(rb) || len(ra) != n {
		return nil, fmt.Errorf("%w: residual lengths %d and %d for %d observations",
			ErrDegenerateInput, len(ra), len(rb), n)
	}

	ratio := make([]float64, n)
	for i := range ratio {
		ratio[i] = ra[i] / rb[i]
	}
	omega := stat.Variance(ratio, nil)
	if omega == 0 || math.IsNaN(omega) || math.IsInf(omega, 0) {
		return nil, fmt.Errorf("%w: residual ratio variance is %v", ErrDegenerateInput, omega)
	}

	nf := float64(n)
	numerator := (a.LogLike() - b.LogLike()) - float64(a.NumParams()-b.NumParams())/2*math.Log(nf)
	z := numerator / (omega * math.Sqrt(nf))

	normal := distuv.Normal{Mu: 0, Sigma: 1}

	return &VuongResult{
		Z:      z,
		PValue: 1 - normal.CDF(z),
		Omega:  omega,
		NObs:   n,
	}, nil
}
