package ols

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Results holds a fitted OLS model.
type Results struct {
	model   *Model
	params  []float64
	fitted  []float64
	resid   []float64
	cov     *mat.SymDense
	covType CovType

	stdErr  []float64
	tvalues []float64
	pvalues []float64

	nobs    int
	dfModel int
	dfResid int

	ssr         float64
	centeredTSS float64
	uncentTSS   float64
	llf         float64
	fvalue      float64
	fpvalue     float64
}

func (r *Results) computeFitStatistics() {
	n := float64(r.nobs)

	r.ssr = floats.Dot(r.resid, r.resid)

	mean := stat.Mean(r.model.endog, nil)
	for _, y := range r.model.endog {
		d := y - mean
		r.centeredTSS += d * d
		r.uncentTSS += y * y
	}

	r.llf = -n/2*math.Log(2*math.Pi) - n/2*math.Log(r.ssr/n) - n/2
}

func (r *Results) computeInference() {
	k := len(r.params)
	r.stdErr = make([]float64, k)
	r.tvalues = make([]float64, k)
	r.pvalues = make([]float64, k)

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(r.dfResid)}
	for j := 0; j < k; j++ {
		r.stdErr[j] = math.Sqrt(r.cov.At(j, j))
		r.tvalues[j] = r.params[j] / r.stdErr[j]
		r.pvalues[j] = 2 * t.Survival(math.Abs(r.tvalues[j]))
	}

	r.fvalue, r.fpvalue = math.NaN(), math.NaN()
	if r.dfModel == 0 {
		return
	}
	restriction := mat.NewDense(r.dfModel, k, nil)
	row := 0
	for j := 0; j < k && row < r.dfModel; j++ {
		if r.model.constant == 1 && r.isConstantColumn(j) {
			continue
		}
		restriction.Set(row, j, 1)
		row++
	}
	if ft, err := r.FTest(restriction, nil); err == nil {
		r.fvalue, r.fpvalue = ft.FValue, ft.PValue
	}
}

func (r *Results) isConstantColumn(j int) bool {
	n, _ := r.model.exog.Dims()
	first := r.model.exog.At(0, j)
	if first == 0 {
		return false
	}
	for i := 1; i < n; i++ {
		if r.model.exog.At(i, j) != first {
			return false
		}
	}
	return true
}

// Names returns the coefficient names in design order.
func (r *Results) Names() []string {
	return append([]string(nil), r.model.names...)
}

// ParamNames returns the coefficient names in design order.
func (r *Results) ParamNames() []string {
	return r.Names()
}

// Params returns the estimated coefficients.
func (r *Results) Params() []float64 {
	return append([]float64(nil), r.params...)
}

// StdErr returns the coefficient standard errors under the fitted covariance type.
func (r *Results) StdErr() []float64 {
	return append([]float64(nil), r.stdErr...)
}

// TValues returns the coefficient t statistics.
func (r *Results) TValues() []float64 {
	return append([]float64(nil), r.tvalues...)
}

// PValues returns the two-sided coefficient p-values from the t distribution.
func (r *Results) PValues() []float64 {
	return append([]float64(nil), r.pvalues...)
}

// Cov returns a copy of the coefficient covariance matrix.
func (r *Results) Cov() *mat.SymDense {
	k := len(r.params)
	out := mat.NewSymDense(k, nil)
	out.CopySym(r.cov)
	return out
}

// CovType returns the covariance estimator used.
func (r *Results) CovType() CovType {
	return r.covType
}

func (r *Results) index(name string) int {
	for j, n := range r.model.names {
		if n == name {
			return j
		}
	}
	return -1
}

// Param returns the coefficient with the given name.
func (r *Results) Param(name string) (float64, bool) {
	j := r.index(name)
	if j < 0 {
		return 0, false
	}
	return r.params[j], true
}

// PValue returns the p-value of the coefficient with the given name.
func (r *Results) PValue(name string) (float64, bool) {
	j := r.index(name)
	if j < 0 {
		return 0, false
	}
	return r.pvalues[j], true
}

// Residuals returns endog minus the fitted values.
func (r *Results) Residuals() []float64 {
	return append([]float64(nil), r.resid...)
}

// FittedValues returns the in-sample predictions.
func (r *Results) FittedValues() []float64 {
	return append([]float64(nil), r.fitted...)
}

// Endog returns the response vector the model was fit on.
func (r *Results) Endog() []float64 {
	return append([]float64(nil), r.model.endog...)
}

// Exog returns the design matrix the model was fit on.
func (r *Results) Exog() mat.Matrix {
	return mat.DenseCopyOf(r.model.exog)
}

// Model returns the model that produced these results.
func (r *Results) Model() *Model {
	return r.model
}

func (r *Results) NObs() int      { return r.nobs }
func (r *Results) DFModel() int   { return r.dfModel }
func (r *Results) DFResid() int   { return r.dfResid }
func (r *Results) NumParams() int { return len(r.params) }

// HasConstant reports whether the design includes a constant column.
func (r *Results) HasConstant() bool {
	return r.model.constant == 1
}

// LogLike returns the Gaussian log-likelihood at the estimates.
func (r *Results) LogLike() float64 {
	return r.llf
}

// AIC returns the Akaike information criterion.
func (r *Results) AIC() float64 {
	return -2*r.llf + 2*float64(r.NumParams())
}

// BIC returns the Bayesian information criterion.
func (r *Results) BIC() float64 {
	return -2*r.llf + math.Log(float64(r.nobs))*float64(r.NumParams())
}

// SSR returns the sum of squared residuals.
func (r *Results) SSR() float64 {
	return r.ssr
}

// CenteredTSS returns the total sum of squares about the mean.
func (r *Results) CenteredTSS() float64 {
	return r.centeredTSS
}

// ESS returns the explained sum of squares. It is uncentered when the
// design has no constant.
func (r *Results) ESS() float64 {
	if r.HasConstant() {
		return r.centeredTSS - r.ssr
	}
	return r.uncentTSS - r.ssr
}

// RSquared returns the coefficient of determination, uncentered when the
// design has no constant.
func (r *Results) RSquared() float64 {
	if r.HasConstant() {
		return 1 - r.ssr/r.centeredTSS
	}
	return 1 - r.ssr/r.uncentTSS
}

// RSquaredAdj returns R-squared adjusted for the residual degrees of freedom.
func (r *Results) RSquaredAdj() float64 {
	return 1 - float64(r.nobs-r.model.constant)/float64(r.dfResid)*(1-r.RSquared())
}

// Scale returns the residual variance estimate SSR/(n-k).
func (r *Results) Scale() float64 {
	return r.ssr / float64(r.dfResid)
}

// MSEModel returns ESS divided by the model degrees of freedom.
func (r *Results) MSEModel() float64 {
	return r.ESS() / float64(r.dfModel)
}

// MSEResid returns SSR divided by the residual degrees of freedom.
func (r *Results) MSEResid() float64 {
	return r.Scale()
}

// FValue returns the F statistic for the hypothesis that all non-constant
// coefficients are zero, computed with the fitted covariance type. It is NaN
// for a constant-only model.
func (r *Results) FValue() float64 {
	return r.fvalue
}

// FPValue returns the p-value of FValue.
func (r *Results) FPValue() float64 {
	return r.fpvalue
}

// ConditionNumber returns the 2-norm condition number of the design matrix.
func (r *Results) ConditionNumber() float64 {
	return mat.Cond(r.model.exog, 2)
}

// Summary returns a plain-text coefficient table with the main fit statistics.
func (r *Results) Summary() string {
	var b strings.Builder

	title := "OLS Regression Results"
	if r.model.formula != "" {
		title += ": " + r.model.formula
	}
	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b, strings.Repeat("=", 72))
	fmt.Fprintf(&b, "No. Observations: %-10d R-squared:      %10.4f\n", r.nobs, r.RSquared())
	fmt.Fprintf(&b, "Df Residuals:     %-10d Adj. R-squared: %10.4f\n", r.dfResid, r.RSquaredAdj())
	fmt.Fprintf(&b, "Df Model:         %-10d F-statistic:    %10.4f\n", r.dfModel, r.fvalue)
	fmt.Fprintf(&b, "Covariance Type:  %-10s Prob (F-stat):  %10.4g\n", r.covType, r.fpvalue)
	fmt.Fprintf(&b, "Log-Likelihood:   %-10.3f AIC:            %10.4f\n", r.llf, r.AIC())
	fmt.Fprintln(&b, strings.Repeat("-", 72))

	width := 10
	for _, n := range r.model.names {
		width = max(width, len(n))
	}
	fmt.Fprintf(&b, "%-*s %12s %12s %10s %10s\n", width, "", "coef", "std err", "t", "P>|t|")
	for j, n := range r.model.names {
		fmt.Fprintf(&b, "%-*s %12.4f %12.4f %10.3f %10.3f\n",
			width, n, r.params[j], r.stdErr[j], r.tvalues[j], r.pvalues[j])
	}
	fmt.Fprintln(&b, strings.Repeat("=", 72))

	return b.String()
}

// statistics maps summary-statistic names to typed accessors.
var statistics = map[string]func(*Results) float64{
	"aic":              (*Results).AIC,
	"bic":              (*Results).BIC,
	"llf":              (*Results).LogLike,
	"rsquared":         (*Results).RSquared,
	"rsquared_adj":     (*Results).RSquaredAdj,
	"fvalue":           (*Results).FValue,
	"f_pvalue":         (*Results).FPValue,
	"ssr":              (*Results).SSR,
	"ess":              (*Results).ESS,
	"centered_tss":     (*Results).CenteredTSS,
	"mse_model":        (*Results).MSEModel,
	"mse_resid":        (*Results).MSEResid,
	"scale":            (*Results).Scale,
	"condition_number": (*Results).ConditionNumber,
	"nobs":             func(r *Results) float64 { return float64(r.nobs) },
	"df_model":         func(r *Results) float64 { return float64(r.dfModel) },
	"df_resid":         func(r *Results) float64 { return float64(r.dfResid) },
}

// Statistic returns the named summary statistic, for example "aic",
// "rsquared_adj" or "f_pvalue". See StatisticNames for the full list.
func (r *Results) Statistic(name string) (float64, bool) {
	fn, ok := statistics[name]
	if !ok {
		return 0, false
	}
	return fn(r), true
}

// StatisticNames returns the names accepted by Results.Statistic, sorted.
func StatisticNames() []string {
	names := make([]string, 0, len(statistics))
	for n := range statistics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
