package ols

import (
	"gonum.org/v1/gonum/mat"
)

// covariance returns the coefficient covariance matrix for the given estimator.
// The heteroskedasticity-consistent forms use the sandwich
// (X'X)^-1 X' diag(w) X (X'X)^-1 with w derived from the squared residuals.
func covariance(cov CovType, x *mat.Dense, xtxInv *mat.Dense, resid []float64, scale float64) *mat.SymDense {
	n, k := x.Dims()

	if cov == NonRobust {
		out := mat.NewSymDense(k, nil)
		for i := 0; i < k; i++ {
			for j := i; j < k; j++ {
				out.SetSym(i, j, scale*xtxInv.At(i, j))
			}
		}
		return out
	}

	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		e2 := resid[i] * resid[i]
		switch cov {
		case HC0, HC1:
			weights[i] = e2
		case HC2:
			weights[i] = e2 / (1 - leverage(x, xtxInv, i))
		case HC3:
			h := 1 - leverage(x, xtxInv, i)
			weights[i] = e2 / (h * h)
		}
	}

	// meat = X' diag(w) X
	var wx mat.Dense
	wx.Apply(func(i, _ int, v float64) float64 { return v * weights[i] }, x)
	var meat mat.Dense
	meat.Mul(x.T(), &wx)

	var tmp, sandwich mat.Dense
	tmp.Mul(xtxInv, &meat)
	sandwich.Mul(&tmp, xtxInv)

	adjust := 1.0
	if cov == HC1 {
		adjust = float64(n) / float64(n-k)
	}

	out := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			// Average the two triangles to remove rounding asymmetry.
			out.SetSym(i, j, adjust*(sandwich.At(i, j)+sandwich.At(j, i))/2)
		}
	}
	return out
}

// leverage returns the i-th diagonal element of the hat matrix X (X'X)^-1 X'.
func leverage(x *mat.Dense, xtxInv *mat.Dense, i int) float64 {
	row := x.RowView(i)
	return mat.Inner(row, xtxInv, row)
}
