// Package statextras provides regression reporting helpers built on gonum.
//
// It fits linear models by ordinary least squares from R-style formulas,
// compares them side by side, and tests their specification.
//
// # Features
//
//   - Formula parsing with categorical treatment coding (formula)
//   - OLS with nonrobust and HC0-HC3 covariance, Wald F-tests (ols)
//   - Vuong's closeness test for non-nested models (stats)
//   - Ramsey's RESET test for neglected non-linearity (stats)
//   - Residual diagnostics: Ljung-Box, Box-Pierce, Durbin-Watson, Jarque-Bera (stats)
//   - Coefficient comparison tables rendered as text, CSV or XLSX (table)
//   - CSV loading into a typed data frame (dataset)
//
// # Quick Start
//
// Compare two specifications:
//
//	data, err := dataset.LoadCSV("wages.csv", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	t, err := table.BuildFromSpecs([]table.Spec{
//	    {Name: "A", Formula: "wage ~ educ"},
//	    {Name: "B", Formula: "wage ~ educ + exper + C(region)"},
//	}, data, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(t)
//
// Test a fitted model:
//
//	model, _ := ols.FromFormula("wage ~ educ", data)
//	res, _ := model.Fit(ols.HC3)
//	reset, err := stats.RamseyReset(res, stats.DefaultResetPower)
//
// The cmd/regtable command drives the same steps from a YAML file.
package statextras
