package gpr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Report summarizes the quality of a set of predictions against
// reference values.
type Report struct {
	RMSE        float64 // root mean squared prediction error
	SDSum       float64 // root mean posterior variance (predicted spread)
	RChiSq      float64 // reduced chi-square: mean of err^2 / var
	Mahalanobis float64 // (1/n) err . cov^{-1} err
}

// Diagnostics compares predictions yp and their posterior covariance
// against reference values ya. The Mahalanobis distance uses the full
// covariance and so requires one extra factorization; the other
// figures use only the diagonal. Diagonal entries below eps (small
// negative rounding artifacts included) are clamped to eps.
func Diagnostics(yp []float64, cov blas64.Symmetric, ya []float64, eps float64) (Report, error) {
	n := len(yp)
	if len(ya) != n {
		return Report{}, fmt.Errorf("gpr: diagnostics: %w: %d predictions for %d references",
			ErrShapeMismatch, n, len(ya))
	}
	if cov.N != n {
		return Report{}, fmt.Errorf("gpr: diagnostics: %w: covariance is %d-by-%d for %d predictions",
			ErrShapeMismatch, cov.N, cov.N, n)
	}

	var r Report
	err := make([]float64, n)
	sumSq, sumVar, chi := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		err[i] = yp[i] - ya[i]
		v := cov.Data[i*cov.Stride+i]
		if v < eps {
			v = eps
		}
		sumSq += err[i] * err[i]
		sumVar += v
		chi += err[i] * err[i] / v
	}
	fn := float64(n)
	r.RMSE = math.Sqrt(sumSq / fn)
	r.SDSum = math.Sqrt(sumVar / fn)
	r.RChiSq = chi / fn

	// sol = cov^{-1} err via the same jittered solve as the core.
	covGen := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if cov.Uplo == blas.Lower && j > i {
				covGen.Data[i*n+j] = cov.Data[j*cov.Stride+i]
			} else if cov.Uplo == blas.Upper && j < i {
				covGen.Data[i*n+j] = cov.Data[j*cov.Stride+i]
			} else {
				covGen.Data[i*n+j] = cov.Data[i*cov.Stride+j]
			}
		}
	}
	sol, _, serr := SolveWeights(covGen, err, eps)
	if serr != nil {
		return Report{}, fmt.Errorf("gpr: diagnostics: %w", serr)
	}
	r.Mahalanobis = blas64.Dot(vec(err), vec(sol)) / fn
	return r, nil
}
