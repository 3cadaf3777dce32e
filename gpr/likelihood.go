package gpr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// LogLikelihood computes the marginal log-likelihood of the training
// targets y under the GP model whose weights and Cholesky factor were
// produced by SolveWeights:
//
//	llhd = -0.5 y.wt - 0.5 logdet(K) - 0.5 ns log(2 pi)
//
// with logdet(K) = 2 sum(log(diag(L))).
func LogLikelihood(wt, y []float64, factor blas64.Triangular) (float64, error) {
	llhd, _, err := LogLikelihoodTerms(wt, y, factor)
	return llhd, err
}

// LogLikelihoodTerms is LogLikelihood reporting the three additive
// terms separately for diagnostics: the data-fit term -0.5*y.wt, the
// complexity term -logdet(K), and the normalization constant
// -0.5*ns*log(2 pi). Note the complexity term is reported unhalved
// while the returned score halves it; consumers combining the terms
// themselves must apply the 0.5 scaling.
func LogLikelihoodTerms(wt, y []float64, factor blas64.Triangular) (float64, [3]float64, error) {
	ns := len(y)
	if len(wt) != ns {
		return 0, [3]float64{}, fmt.Errorf("gpr: log-likelihood: %w: %d weights for %d targets",
			ErrShapeMismatch, len(wt), ns)
	}
	if factor.N != ns {
		return 0, [3]float64{}, fmt.Errorf("gpr: log-likelihood: %w: factor is %d-by-%d for %d targets",
			ErrShapeMismatch, factor.N, factor.N, ns)
	}

	ywt := blas64.Dot(vec(y), vec(wt))

	// logdet(K) = 2 sum(log(diag(L))); diag(L) > 0 after a
	// successful factorization.
	logDet := 0.0
	for i := 0; i < ns; i++ {
		logDet += 2.0 * math.Log(factor.Data[i*factor.Stride+i])
	}

	norm := -0.5 * float64(ns) * math.Log(2.0*math.Pi)
	llhd := -0.5*ywt - 0.5*logDet + norm
	terms := [3]float64{-0.5 * ywt, -logDet, norm}
	return llhd, terms, nil
}

// LogLikelihoodGrad overwrites grad with the derivative of the
// marginal log-likelihood with respect to each hyperparameter, given
// the per-parameter kernel derivative matrices dkrn:
//
//	dllhd/dp_k = 0.5 (wt . dK_k wt - tr(K^{-1} dK_k))
//
// wt and factor come from SolveWeights on the same kernel the
// derivatives were evaluated at. len(grad) must equal len(dkrn).
func LogLikelihoodGrad(grad, wt []float64, factor blas64.Triangular, dkrn []blas64.General) error {
	ns := len(wt)
	if len(grad) != len(dkrn) {
		return fmt.Errorf("gpr: log-likelihood gradient: %w: %d outputs for %d derivative matrices",
			ErrShapeMismatch, len(grad), len(dkrn))
	}
	if factor.N != ns {
		return fmt.Errorf("gpr: log-likelihood gradient: %w: factor is %d-by-%d for %d weights",
			ErrShapeMismatch, factor.N, factor.N, ns)
	}

	tmp := make([]float64, ns)
	kinvdk := blas64.General{Rows: ns, Cols: ns, Stride: ns, Data: make([]float64, ns*ns)}
	for k, dk := range dkrn {
		if err := checkSquare(dk, ns); err != nil {
			return fmt.Errorf("gpr: log-likelihood gradient: %w", err)
		}
		// tr1 = wt . dK wt
		blas64.Gemv(blas.NoTrans, 1.0, dk, vec(wt), 0.0, vec(tmp))
		tr1 := blas64.Dot(vec(wt), vec(tmp))

		// tr2 = tr(K^{-1} dK)
		for i := 0; i < ns; i++ {
			copy(kinvdk.Data[i*ns:i*ns+ns], dk.Data[i*dk.Stride:i*dk.Stride+ns])
		}
		lapack64.Potrs(factor, kinvdk)
		tr2 := 0.0
		for i := 0; i < ns; i++ {
			tr2 += kinvdk.Data[i*ns+i]
		}

		grad[k] = 0.5 * (tr1 - tr2)
	}
	return nil
}
