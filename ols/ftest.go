package ols

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// FTestResult is the outcome of a Wald F-test of linear restrictions.
type FTestResult struct {
	FValue  float64
	PValue  float64
	DFNum   int // Number of restrictions
	DFDenom int // Residual degrees of freedom
}

// String returns a one-line summary in the usual "F=..., p=..., df_denom=..., df_num=..." form.
func (f *FTestResult) String() string {
	return fmt.Sprintf("<F test: F=%.6g, p=%.6g, df_denom=%d, df_num=%d>", f.FValue, f.PValue, f.DFDenom, f.DFNum)
}

// FTest tests the joint hypothesis R·params = q using the fitted covariance.
// R has one row per restriction and one column per coefficient; q defaults
// to zero when nil.
func (r *Results) FTest(restriction *mat.Dense, q []float64) (*FTestResult, error) {
	if restriction == nil {
		return nil, fmt.Errorf("%w: nil restriction matrix", ErrDimension)
	}
	rows, cols := restriction.Dims()
	k := len(r.params)
	if cols != k {
		return nil, fmt.Errorf("%w: restriction has %d columns, model has %d parameters", ErrDimension, cols, k)
	}
	if q != nil && len(q) != rows {
		return nil, fmt.Errorf("%w: %d restriction values for %d restrictions", ErrDimension, len(q), rows)
	}

	var diff mat.VecDense
	diff.MulVec(restriction, mat.NewVecDense(k, r.params))
	if q != nil {
		diff.SubVec(&diff, mat.NewVecDense(rows, q))
	}

	// V = R Cov R'
	var tmp, v mat.Dense
	tmp.Mul(restriction, r.cov)
	v.Mul(&tmp, restriction.T())

	var z mat.VecDense
	if err := z.SolveVec(&v, &diff); err != nil {
		return nil, fmt.Errorf("%w: restriction covariance: %v", ErrSingular, err)
	}

	fvalue := mat.Dot(&diff, &z) / float64(rows)
	dist := distuv.F{D1: float64(rows), D2: float64(r.dfResid)}

	return &FTestResult{
		FValue:  fvalue,
		PValue:  dist.Survival(fvalue),
		DFNum:   rows,
		DFDenom: r.dfResid,
	}, nil
}
