package table

import "github.com/sartorproj/statextras/ols"

// DefaultDecimalPlaces is the rounding applied when Options is nil.
const DefaultDecimalPlaces = 3

// StatisticRow maps a row label to the statistic read from each model.
type StatisticRow struct {
	Label string `yaml:"label" validate:"required"`
	Name  string `yaml:"name" validate:"required"`
}

// DefaultStatistics returns the summary rows used when Options.Statistics is nil.
func DefaultStatistics() []StatisticRow {
	return []StatisticRow{
		{Label: "AIC", Name: "aic"},
		{Label: "R-squared", Name: "rsquared"},
		{Label: "Adj R-squared", Name: "rsquared_adj"},
		{Label: "F-stat", Name: "fvalue"},
		{Label: "F-stat p-value", Name: "f_pvalue"},
	}
}

// Options controls row selection and formatting.
type Options struct {
	// Coefficients lists coefficient rows in order. When empty, the union of
	// all coefficient names is used, sorted, with the intercept first.
	Coefficients []string

	// Statistics lists summary rows appended after the coefficients.
	// nil means DefaultStatistics; an empty non-nil slice means none.
	Statistics []StatisticRow

	// DecimalPlaces is the rounding for every numeric cell. Ties round half
	// away from zero (2.5 becomes 3), not half to even as numpy's round does.
	DecimalPlaces int

	// CovType is the covariance estimator used by BuildFromSpecs.
	// Empty means ols.HC3.
	CovType ols.CovType
}

// DefaultOptions returns the options used when nil is passed to Build.
func DefaultOptions() *Options {
	return &Options{
		DecimalPlaces: DefaultDecimalPlaces,
		CovType:       ols.HC3,
	}
}

// Spec names a model formula for BuildFromSpecs.
type Spec struct {
	Name    string `yaml:"name" validate:"required"`
	Formula string `yaml:"formula" validate:"required"`
}
