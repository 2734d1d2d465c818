package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int // Degrees of freedom
}

// LjungBox performs the Ljung-Box test for autocorrelation in residuals.
// The null hypothesis is that there is no autocorrelation up to lag h.
// fitdf is the number of estimated parameters subtracted from the degrees of freedom.
func LjungBox(resid []float64, lags, fitdf int) (*LjungBoxResult, error) {
	n, lags, acf, err := prepareQ(resid, lags)
	if err != nil {
		return nil, err
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := max(lags-fitdf, 1)

	return &LjungBoxResult{
		Statistic: q,
		PValue:    chiSquaredSurvival(q, dof),
		Lags:      lags,
		DOF:       dof,
	}, nil
}

// BoxPierceResult represents the result of a Box-Pierce test.
type BoxPierceResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// BoxPierce performs the Box-Pierce test for autocorrelation.
// Similar to Ljung-Box but without the small-sample weighting.
func BoxPierce(resid []float64, lags, fitdf int) (*BoxPierceResult, error) {
	n, lags, acf, err := prepareQ(resid, lags)
	if err != nil {
		return nil, err
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k]
	}
	q *= float64(n)

	dof := max(lags-fitdf, 1)

	return &BoxPierceResult{
		Statistic: q,
		PValue:    chiSquaredSurvival(q, dof),
		Lags:      lags,
		DOF:       dof,
	}, nil
}

func prepareQ(resid []float64, lags int) (int, int, []float64, error) {
	n := len(resid)
	if n < 10 {
		return 0, 0, nil, fmt.Errorf("%w: %d residuals, need at least 10", ErrInsufficientData, n)
	}
	if lags < 1 {
		return 0, 0, nil, fmt.Errorf("%w: lags %d", ErrInvalidInput, lags)
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(resid, lags)
	if acf == nil {
		return 0, 0, nil, fmt.Errorf("%w: residuals have no variance", ErrDegenerateInput)
	}
	return n, lags, acf, nil
}

func chiSquaredSurvival(x float64, k int) float64 {
	if x < 0 {
		return 1
	}
	return distuv.ChiSquared{K: float64(k)}.Survival(x)
}

// DurbinWatsonResult represents the result of a Durbin-Watson test.
type DurbinWatsonResult struct {
	Statistic float64
	// d ≈ 2: no autocorrelation
	// d < 2: positive autocorrelation
	// d > 2: negative autocorrelation
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order autocorrelation.
func DurbinWatson(resid []float64) (*DurbinWatsonResult, error) {
	n := len(resid)
	if n < 2 {
		return nil, fmt.Errorf("%w: %d residuals", ErrInsufficientData, n)
	}

	numerator := 0.0
	denominator := 0.0

	for i := 1; i < n; i++ {
		diff := resid[i] - resid[i-1]
		numerator += diff * diff
	}

	for _, r := range resid {
		denominator += r * r
	}

	if denominator == 0 {
		return nil, fmt.Errorf("%w: residuals are all zero", ErrDegenerateInput)
	}

	return &DurbinWatsonResult{
		Statistic: numerator / denominator,
	}, nil
}

// JarqueBeraResult represents the result of a Jarque-Bera normality test.
type JarqueBeraResult struct {
	Statistic float64
	PValue    float64
	Skew      float64
	Kurtosis  float64 // Not excess; 3 for a normal distribution
}

// JarqueBera tests whether residuals have the skewness and kurtosis of a
// normal distribution. Moments are the biased (population) estimates.
func JarqueBera(resid []float64) (*JarqueBeraResult, error) {
	n := len(resid)
	if n < 3 {
		return nil, fmt.Errorf("%w: %d residuals", ErrInsufficientData, n)
	}

	m2 := stat.Moment(2, resid, nil)
	if m2 == 0 {
		return nil, fmt.Errorf("%w: residuals have no variance", ErrDegenerateInput)
	}
	skew := stat.Moment(3, resid, nil) / math.Pow(m2, 1.5)
	kurt := stat.Moment(4, resid, nil) / (m2 * m2)

	jb := float64(n) / 6 * (skew*skew + (kurt-3)*(kurt-3)/4)

	return &JarqueBeraResult{
		Statistic: jb,
		PValue:    chiSquaredSurvival(jb, 2),
		Skew:      skew,
		Kurtosis:  kurt,
	}, nil
}
