// Package formula implements a small model-specification language in the
// style of R and patsy formulas.
//
//	y ~ x + z           main effects with an intercept
//	y ~ x + z - 1       no intercept (also "0 + x + z")
//	y ~ x:z             interaction only
//	y ~ x*z             x + z + x:z
//	y ~ I(x ** 2)       arithmetic inside I(): + - * / ** ^ and parentheses
//	log(y) ~ log(x)     log, log2, log10, exp, sqrt, abs, center, standardize
//	y ~ C(region)       treatment-coded dummies, C(region)[T.level]
//
// Columns holding categorical data expand to dummies automatically; the first
// level in sorted order is the reference. Design columns are named after the
// term that produced them, with ":" joining the factors of an interaction and
// "Intercept" for the constant.
//
// Usage:
//
//	f, err := formula.Parse("wage ~ educ + exper + I(exper ** 2)")
//	d, err := f.Design(frame)
//	// d.Y, d.X, d.Names
package formula
