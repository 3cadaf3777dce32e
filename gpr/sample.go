package gpr

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// NoiseSource fills a buffer with independent standard-normal
// variates. Implementations seeded with a fixed value must be
// deterministic so that sample draws are reproducible.
type NoiseSource interface {
	FillNormal(dst []float64)
}

// Sample draws one path from a Gaussian process with the given mean
// and covariance: the covariance is copied, jittered and factorized,
// standard-normal noise from src is transformed through the lower
// Cholesky factor, and the mean is added if non-nil.
//
//	y = L z + mean,  L L^T = cov + eps*I,  z ~ N(0, I)
func Sample(mean []float64, cov blas64.Symmetric, eps float64, src NoiseSource) ([]float64, error) {
	ns := cov.N
	if mean != nil && len(mean) != ns {
		return nil, fmt.Errorf("gpr: sample: %w: mean has %d entries for a %d-by-%d covariance",
			ErrShapeMismatch, len(mean), ns, ns)
	}

	// Copy and jitter, pulling entries from whichever triangle the
	// caller's container populates.
	chol := blas64.Symmetric{N: ns, Stride: ns, Data: make([]float64, ns*ns), Uplo: blas.Lower}
	for i := 0; i < ns; i++ {
		for j := 0; j <= i; j++ {
			if cov.Uplo == blas.Lower {
				chol.Data[i*ns+j] = cov.Data[i*cov.Stride+j]
			} else {
				chol.Data[i*ns+j] = cov.Data[j*cov.Stride+i]
			}
		}
		chol.Data[i*ns+i] += eps
	}
	factor, ok := lapack64.Potrf(chol)
	if !ok {
		return nil, fmt.Errorf("gpr: sample: %w", ErrNotPositiveDefinite)
	}

	y := make([]float64, ns)
	src.FillNormal(y)
	blas64.Trmv(blas.NoTrans, factor, vec(y))
	if mean != nil {
		blas64.Axpy(1.0, vec(mean), vec(y))
	}
	return y, nil
}
