package table

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/sartorproj/statextras/dataset"
	"github.com/sartorproj/statextras/formula"
	"github.com/sartorproj/statextras/ols"
)

var (
	// ErrInvalidInput is returned for empty model sets, empty specs, empty data
	// and malformed options.
	ErrInvalidInput = errors.New("table: invalid input")
	// ErrStatisticNotFound is returned when a statistic row names an accessor
	// that a model does not provide.
	ErrStatisticNotFound = errors.New("table: statistic not found")
	// ErrModelFit is returned when a model specification cannot be fit.
	ErrModelFit = errors.New("table: model fit failed")
)

// Build formats the models in set side by side. A nil opts means DefaultOptions.
func Build(set *ModelSet, opts *Options) (*Table, error) {
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: no models", ErrInvalidInput)
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.DecimalPlaces < 0 {
		return nil, fmt.Errorf("%w: decimal places %d", ErrInvalidInput, opts.DecimalPlaces)
	}

	coefs := opts.Coefficients
	if len(coefs) == 0 {
		coefs = defaultCoefficients(set)
	}
	stats := opts.Statistics
	if stats == nil {
		stats = DefaultStatistics()
	}
	if err := checkRows(coefs, stats); err != nil {
		return nil, err
	}

	t := newTable(coefs, stats, set.Names())
	for j, col := range t.columns {
		m, _ := set.Get(col)

		for i, name := range coefs {
			t.cells[i][j] = coefficientCell(m, name, opts.DecimalPlaces)
		}

		for i, row := range stats {
			v, ok := m.Statistic(row.Name)
			if !ok {
				return nil, fmt.Errorf("%w: row %q reads %q, not available on model %q",
					ErrStatisticNotFound, row.Label, row.Name, col)
			}
			v = round(v, opts.DecimalPlaces)
			t.cells[len(coefs)+i][j] = Cell{
				Kind:  StatisticCell,
				Text:  formatNumber(v),
				Value: v,
			}
		}
	}

	return t, nil
}

// BuildFromSpecs fits each formula against data by OLS and delegates to Build.
// Columns follow the order of specs.
func BuildFromSpecs(specs []Spec, data *dataset.Frame, opts *Options) (*Table, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no model specifications", ErrInvalidInput)
	}
	if data == nil || data.Len() == 0 {
		return nil, fmt.Errorf("%w: dataset has no rows", ErrInvalidInput)
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	cov := opts.CovType
	if cov == "" {
		cov = ols.HC3
	}
	cov, err := ols.ParseCovType(string(cov))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	set := NewModelSet()
	for _, spec := range specs {
		if _, dup := set.Get(spec.Name); dup || spec.Name == "" {
			return nil, fmt.Errorf("%w: model name %q is empty or repeated", ErrInvalidInput, spec.Name)
		}

		model, err := ols.FromFormula(spec.Formula, data)
		if err != nil {
			return nil, fmt.Errorf("%w: model %q: %w", ErrModelFit, spec.Name, err)
		}
		res, err := model.Fit(cov)
		if err != nil {
			return nil, fmt.Errorf("%w: model %q: %w", ErrModelFit, spec.Name, err)
		}
		if err := set.Add(spec.Name, res); err != nil {
			return nil, err
		}
	}

	return Build(set, opts)
}

// defaultCoefficients is the sorted union of all coefficient names with the
// intercept first.
func defaultCoefficients(set *ModelSet) []string {
	seen := make(map[string]struct{})
	var names []string
	intercept := false
	for _, col := range set.Names() {
		m, _ := set.Get(col)
		for _, name := range m.ParamNames() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			if name == formula.InterceptName {
				intercept = true
				continue
			}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if intercept {
		names = append([]string{formula.InterceptName}, names...)
	}
	return names
}

// checkRows rejects repeated row labels, which would make cells ambiguous.
func checkRows(coefs []string, stats []StatisticRow) error {
	seen := make(map[string]struct{}, len(coefs)+len(stats))
	check := func(label string) error {
		if _, ok := seen[label]; ok {
			return fmt.Errorf("%w: row %q appears more than once", ErrInvalidInput, label)
		}
		seen[label] = struct{}{}
		return nil
	}
	for _, c := range coefs {
		if err := check(c); err != nil {
			return err
		}
	}
	for _, s := range stats {
		if s.Label == "" || s.Name == "" {
			return fmt.Errorf("%w: statistic row needs a label and a name", ErrInvalidInput)
		}
		if err := check(s.Label); err != nil {
			return err
		}
	}
	return nil
}

func coefficientCell(m Model, name string, dp int) Cell {
	v, ok := m.Param(name)
	if !ok {
		return Cell{Kind: EmptyCell}
	}
	p, ok := m.PValue(name)
	if !ok {
		p = math.NaN()
	}
	v = round(v, dp)
	marker := Significance(p)
	return Cell{
		Kind:   CoefficientCell,
		Text:   formatNumber(v) + marker,
		Value:  v,
		PValue: p,
		Marker: marker,
	}
}

// Significance returns the star marker for a p-value: "***" below 0.001,
// "**" below 0.01, "*" below 0.05 and "" otherwise.
func Significance(p float64) string {
	switch {
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	}
	return ""
}

// round rounds half away from zero to dp decimal places.
func round(v float64, dp int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(dp))
	if math.IsInf(v*scale, 0) {
		return v
	}
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0 // drop the sign of -0
	}
	return r
}

// formatNumber prints the shortest representation, so 0.5 rather than 0.500.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
