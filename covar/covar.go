// Package covar provides covariance (kernel) functions for Gaussian
// process regression. A kernel fills dense matrices of pairwise
// covariances between two point sets; the gpr package consumes these
// matrices but never evaluates kernels itself.
package covar

import (
	"gonum.org/v1/gonum/blas/blas64"
)

// Covar evaluates a covariance function over two point sets. Point
// sets are flat row-major buffers of count*dim values.
type Covar interface {
	// Number of hyperparameters for points of the given dimension.
	NumParams(dim int) int

	// Kernel fills dst (na-by-nb) with :math:`k(xa_i, xb_j)`.
	// dst must be sized by the caller; hyperparameters p must have
	// length NumParams(dim).
	Kernel(dst blas64.General, p, xa []float64, na int, xb []float64, nb, dim int)
}

// GradCovar is implemented by kernels that can also produce the
// derivative of the same-set covariance matrix with respect to each
// hyperparameter, enabling gradient-based likelihood optimization.
type GradCovar interface {
	Covar

	// KernelAndGrad fills krn (n-by-n) with k(x_i, x_j) and each
	// dkrn[k] (n-by-n) with :math:`dk(x_i, x_j)/dp_k`. len(dkrn)
	// must equal NumParams(dim).
	KernelAndGrad(krn blas64.General, dkrn []blas64.General, p, x []float64, n, dim int)
}

// AsymmCovar evaluates a covariance function over point sets that
// carry one auxiliary coordinate per point in a separate buffer.
type AsymmCovar interface {
	NumParams(dim int) int

	// KernelAsymm fills dst (na-by-nb) with the covariance between
	// points (xa_i, axa_i) and (xb_j, axb_j).
	KernelAsymm(dst blas64.General, p, xa, axa []float64, na int, xb, axb []float64, nb, dim int)
}
