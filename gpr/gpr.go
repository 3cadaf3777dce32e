// Package gpr implements the dense linear algebra of Gaussian process
// regression: Cholesky-based weight solves, predictive means,
// posterior covariances, the marginal log-likelihood, sampling from a
// GP, and interpolation drivers composing them with external kernel
// evaluators and hyperparameter optimizers.
//
// All matrices are dense row-major buffers carried in blas64
// containers. Functions write into caller-supplied output buffers and
// never retain references to their inputs.
package gpr

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

var (
	// ErrNotPositiveDefinite reports a Cholesky factorization failure:
	// the kernel matrix is not positive definite even after jitter.
	// This indicates a malformed input (bad hyperparameters,
	// duplicate or degenerate points) and is never retried.
	ErrNotPositiveDefinite = errors.New("matrix not positive definite after jitter")

	// ErrShapeMismatch reports buffers whose dimensions do not agree.
	ErrShapeMismatch = errors.New("dimension mismatch")
)

// DefaultJitter is the regularization added to every diagonal entry
// of a kernel matrix before factorization. Kernel matrices are
// frequently near-singular; the jitter trades a small, fixed bias for
// numerical stability. It is applied to a private copy exactly once
// per factorization, never cumulatively.
const DefaultJitter = 1e-7

func vec(s []float64) blas64.Vector {
	return blas64.Vector{N: len(s), Inc: 1, Data: s}
}

// SymmetricFromBuffer wraps an n-by-n row-major buffer with fully
// populated, mirrored triangles (such as the variance output of the
// interpolation drivers) in a symmetric container. The container
// shares the buffer; no copy is made.
func SymmetricFromBuffer(data []float64, n int) blas64.Symmetric {
	return blas64.Symmetric{N: n, Stride: n, Data: data, Uplo: blas.Lower}
}

// jitteredSym copies the n-by-n matrix a into a fresh lower-triangle
// symmetric container and adds eps to the diagonal. The caller's
// buffer is left untouched.
func jitteredSym(a blas64.General, eps float64) blas64.Symmetric {
	n := a.Rows
	s := blas64.Symmetric{
		N:      n,
		Stride: n,
		Data:   make([]float64, n*n),
		Uplo:   blas.Lower,
	}
	for i := 0; i < n; i++ {
		copy(s.Data[i*n:i*n+n], a.Data[i*a.Stride:i*a.Stride+n])
		s.Data[i*n+i] += eps
	}
	return s
}

// mirrorLower copies the lower triangle of s into the upper one so
// the raw data slice is exactly symmetric.
func mirrorLower(s blas64.Symmetric) {
	for i := 0; i < s.N; i++ {
		for j := i + 1; j < s.N; j++ {
			s.Data[i*s.Stride+j] = s.Data[j*s.Stride+i]
		}
	}
}

func checkSquare(a blas64.General, n int) error {
	if a.Rows != n || a.Cols != n {
		return fmt.Errorf("%w: want %d-by-%d matrix, have %d-by-%d", ErrShapeMismatch, n, n, a.Rows, a.Cols)
	}
	return nil
}

// SolveWeights computes the dual regression coefficients wt solving
// (krn + eps*I) wt = y, together with the lower Cholesky factor of
// the jittered kernel matrix. The factor owns its buffer and may be
// reused for posterior covariances, likelihoods and sampling; it must
// not be mutated by callers.
func SolveWeights(krn blas64.General, y []float64, eps float64) (wt []float64, factor blas64.Triangular, err error) {
	ns := len(y)
	if err := checkSquare(krn, ns); err != nil {
		return nil, blas64.Triangular{}, fmt.Errorf("gpr: solve weights: %w", err)
	}

	chol := jitteredSym(krn, eps)
	factor, ok := lapack64.Potrf(chol)
	if !ok {
		return nil, blas64.Triangular{}, fmt.Errorf("gpr: solve weights: %w", ErrNotPositiveDefinite)
	}

	// wt = (L L^T)^{-1} y
	wt = make([]float64, ns)
	copy(wt, y)
	lapack64.Potrs(factor, blas64.General{Rows: ns, Cols: 1, Stride: 1, Data: wt})
	return wt, factor, nil
}

// PredictMean overwrites yp with the posterior mean at the query
// points: yp = krpx . wt, where row i of krpx holds the covariances
// between query point i and every training point.
func PredictMean(yp, wt []float64, krpx blas64.General) error {
	if krpx.Rows != len(yp) || krpx.Cols != len(wt) {
		return fmt.Errorf("gpr: predict mean: %w: cross kernel is %d-by-%d, outputs %d, weights %d",
			ErrShapeMismatch, krpx.Rows, krpx.Cols, len(yp), len(wt))
	}
	blas64.Gemv(blas.NoTrans, 1.0, krpx, vec(wt), 0.0, vec(yp))
	return nil
}

// PosteriorCov computes the posterior covariance at the query points
// from the raw training kernel:
//
//	var = krpp - krpx (krn + eps*I)^{-1} krpx^T
//
// via a full positive-definite solve with one right-hand side per
// query point. The result is explicitly symmetrized. Prefer
// PosteriorCovChol when the Cholesky factor is already available.
func PosteriorCov(krpp, krpx, krn blas64.General, eps float64) (blas64.Symmetric, error) {
	np, ns := krpx.Rows, krpx.Cols
	if err := checkSquare(krpp, np); err != nil {
		return blas64.Symmetric{}, fmt.Errorf("gpr: posterior covariance: query kernel: %w", err)
	}
	if err := checkSquare(krn, ns); err != nil {
		return blas64.Symmetric{}, fmt.Errorf("gpr: posterior covariance: training kernel: %w", err)
	}

	chol := jitteredSym(krn, eps)
	factor, ok := lapack64.Potrf(chol)
	if !ok {
		return blas64.Symmetric{}, fmt.Errorf("gpr: posterior covariance: %w", ErrNotPositiveDefinite)
	}

	// V = (krn + eps*I)^{-1} krpx^T
	v := blas64.General{Rows: ns, Cols: np, Stride: np, Data: make([]float64, ns*np)}
	for i := 0; i < np; i++ {
		for j := 0; j < ns; j++ {
			v.Data[j*np+i] = krpx.Data[i*krpx.Stride+j]
		}
	}
	lapack64.Potrs(factor, v)

	// var = krpp - krpx V
	out := blas64.General{Rows: np, Cols: np, Stride: np, Data: make([]float64, np*np)}
	for i := 0; i < np; i++ {
		copy(out.Data[i*np:i*np+np], krpp.Data[i*krpp.Stride:i*krpp.Stride+np])
	}
	blas64.Gemm(blas.NoTrans, blas.NoTrans, -1.0, krpx, v, 1.0, out)

	// Average the triangles: the solve leaves the result symmetric
	// only up to rounding.
	sym := blas64.Symmetric{N: np, Stride: np, Data: out.Data, Uplo: blas.Lower}
	for i := 0; i < np; i++ {
		for j := i + 1; j < np; j++ {
			m := 0.5 * (out.Data[i*np+j] + out.Data[j*np+i])
			out.Data[i*np+j] = m
			out.Data[j*np+i] = m
		}
	}
	return sym, nil
}

// PosteriorCovChol computes the posterior covariance at the query
// points from a precomputed Cholesky factor of the jittered training
// kernel:
//
//	var = krpp - X X^T  with  X L^T = krpx
//
// using a triangular solve and a symmetric rank-k update. This is the
// cheaper path when the factor from SolveWeights is at hand. The
// rank update fills only the lower triangle; the result is mirrored
// into the upper one before returning.
func PosteriorCovChol(krpp, krpx blas64.General, factor blas64.Triangular) (blas64.Symmetric, error) {
	np, ns := krpx.Rows, krpx.Cols
	if err := checkSquare(krpp, np); err != nil {
		return blas64.Symmetric{}, fmt.Errorf("gpr: posterior covariance: query kernel: %w", err)
	}
	if factor.N != ns {
		return blas64.Symmetric{}, fmt.Errorf("gpr: posterior covariance: %w: factor is %d-by-%d, cross kernel has %d training columns",
			ErrShapeMismatch, factor.N, factor.N, ns)
	}

	// X = krpx L^{-T}
	x := blas64.General{Rows: np, Cols: ns, Stride: ns, Data: make([]float64, np*ns)}
	for i := 0; i < np; i++ {
		copy(x.Data[i*ns:i*ns+ns], krpx.Data[i*krpx.Stride:i*krpx.Stride+ns])
	}
	blas64.Trsm(blas.Right, blas.Trans, 1.0, factor, x)

	// var = krpp - X X^T, lower triangle only.
	sym := blas64.Symmetric{N: np, Stride: np, Data: make([]float64, np*np), Uplo: blas.Lower}
	for i := 0; i < np; i++ {
		copy(sym.Data[i*np:i*np+np], krpp.Data[i*krpp.Stride:i*krpp.Stride+np])
	}
	blas64.Syrk(blas.NoTrans, -1.0, x, 1.0, sym)
	mirrorLower(sym)
	return sym, nil
}
