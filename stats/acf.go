package stats

import (
	"gonum.org/v1/gonum/stat"
)

// ACF calculates the sample autocorrelation function of x.
// Returns ACF values for lags 0 to maxLag, or nil when x has no variance.
func ACF(x []float64, maxLag int) []float64 {
	n := len(x)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(x, nil)
	variance := 0.0
	for _, v := range x {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (x[i] - mean) * (x[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf
}
