// Package stats provides hypothesis tests and residual diagnostics for
// fitted linear regression models.
//
// # Model Comparison
//
// Vuong's closeness test compares two non-nested models fit to the same
// response and data. The first model should be the one with the higher
// likelihood:
//
//	a, _ := ols.FromFormula("y ~ x", data)
//	b, _ := ols.FromFormula("y ~ z", data)
//	ra, _ := a.Fit(ols.NonRobust)
//	rb, _ := b.Fit(ols.NonRobust)
//	v, err := stats.Vuong(ra, rb)
//	// v.Z, v.PValue
//
// # Specification Tests
//
// Ramsey's RESET test looks for neglected non-linearity by adding powers of
// the fitted values to the regression:
//
//	ft, err := stats.RamseyReset(ra, stats.DefaultResetPower)
//	if ft.PValue < 0.05 {
//	    // the linear specification is probably missing something
//	}
//
// # Residual Diagnostics
//
// Test residuals for autocorrelation and normality:
//
//	lb, err := stats.LjungBox(res.Residuals(), 10, 0)
//	bp, err := stats.BoxPierce(res.Residuals(), 10, 0)
//	dw, err := stats.DurbinWatson(res.Residuals())
//	jb, err := stats.JarqueBera(res.Residuals())
//
// All functions return an error wrapping ErrInsufficientData,
// ErrDegenerateInput or ErrInvalidInput when the statistic is undefined.
package stats
