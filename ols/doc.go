// Package ols implements ordinary least squares regression with
// heteroskedasticity-consistent standard errors.
//
// Fit a model from a formula:
//
//	m, err := ols.FromFormula("wage ~ educ + exper", frame)
//	res, err := m.Fit(ols.HC3)
//	fmt.Println(res.Summary())
//
// Or from a design matrix:
//
//	m, err := ols.New(y, x, []string{"Intercept", "x"})
//	res, err := m.Fit(ols.NonRobust)
//
// Results expose coefficients by name, standard errors, t and p values,
// residuals, fitted values and the usual summary statistics. Summary
// statistics are also reachable by name through Results.Statistic, which
// the reporting tables use:
//
//	aic, _ := res.Statistic("aic")
//	r2, _ := res.Statistic("rsquared_adj")
//
// Linear restrictions are tested with a Wald F-test:
//
//	R := mat.NewDense(1, 3, []float64{0, 1, -1}) // x1 == x2
//	ft, err := res.FTest(R, nil)
package ols
