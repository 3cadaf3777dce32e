// Package hyperopt selects kernel hyperparameters by maximizing the
// marginal log-likelihood of the training data, driving
// gonum/optimize with the gpr likelihood as the objective.
package hyperopt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/optimize"

	"github.com/srinix007/gogpr/covar"
	"github.com/srinix007/gogpr/gpr"
)

var (
	mle      *MLE
	mleAsymm *MLEAsymm
	_        gpr.Optimizer      = mle
	_        gpr.AsymmOptimizer = mleAsymm
)

// MLE refines hyperparameters of a symmetric kernel in place. When
// the kernel implements covar.GradCovar the analytic likelihood
// gradient is supplied to the optimizer; otherwise the search is
// gradient-free (Nelder-Mead).
type MLE struct {
	Cov covar.Covar

	// Method and Settings are passed through to optimize.Minimize.
	// Both may be nil, in which case gonum picks defaults based on
	// gradient availability.
	Method   optimize.Method
	Settings *optimize.Settings
}

func (m *MLE) Optimize(p, x, y []float64, ns, dim int) error {
	// Negative marginal log-likelihood as the cost.
	cost := func(hp []float64) float64 {
		krn := blas64.General{Rows: ns, Cols: ns, Stride: ns, Data: make([]float64, ns*ns)}
		m.Cov.Kernel(krn, hp, x, ns, x, ns, dim)
		wt, factor, err := gpr.SolveWeights(krn, y, gpr.DefaultJitter)
		if err != nil {
			return math.Inf(1)
		}
		llhd, err := gpr.LogLikelihood(wt, y, factor)
		if err != nil {
			return math.Inf(1)
		}
		return -llhd
	}
	problem := optimize.Problem{Func: cost}

	if gc, ok := m.Cov.(covar.GradCovar); ok {
		npar := m.Cov.NumParams(dim)
		problem.Grad = func(grad, hp []float64) {
			krn := blas64.General{Rows: ns, Cols: ns, Stride: ns, Data: make([]float64, ns*ns)}
			dkrn := make([]blas64.General, npar)
			for k := range dkrn {
				dkrn[k] = blas64.General{Rows: ns, Cols: ns, Stride: ns, Data: make([]float64, ns*ns)}
			}
			gc.KernelAndGrad(krn, dkrn, hp, x, ns, dim)
			wt, factor, err := gpr.SolveWeights(krn, y, gpr.DefaultJitter)
			if err != nil {
				for k := range grad {
					grad[k] = math.Inf(1)
				}
				return
			}
			if err := gpr.LogLikelihoodGrad(grad, wt, factor, dkrn); err != nil {
				for k := range grad {
					grad[k] = math.Inf(1)
				}
				return
			}
			// Cost is the negative log-likelihood.
			for k := range grad {
				grad[k] = -grad[k]
			}
		}
	}

	res, err := optimize.Minimize(problem, p, m.Settings, m.Method)
	if err != nil && !usable(res) {
		return fmt.Errorf("hyperopt: %w", err)
	}
	copy(p, res.X)
	return nil
}

// usable reports whether a minimization that stopped with an error
// (for example a stalled line search) still produced a finite best
// point worth keeping.
func usable(res *optimize.Result) bool {
	if res == nil || math.IsNaN(res.F) || math.IsInf(res.F, 0) {
		return false
	}
	for _, v := range res.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MLEAsymm refines hyperparameters of an auxiliary-coordinate kernel
// in place, using a gradient-free search.
type MLEAsymm struct {
	Cov covar.AsymmCovar

	Method   optimize.Method
	Settings *optimize.Settings
}

func (m *MLEAsymm) OptimizeAsymm(p, x, ax, y []float64, ns, dim int) error {
	cost := func(hp []float64) float64 {
		krn := blas64.General{Rows: ns, Cols: ns, Stride: ns, Data: make([]float64, ns*ns)}
		m.Cov.KernelAsymm(krn, hp, x, ax, ns, x, ax, ns, dim)
		wt, factor, err := gpr.SolveWeights(krn, y, gpr.DefaultJitter)
		if err != nil {
			return math.Inf(1)
		}
		llhd, err := gpr.LogLikelihood(wt, y, factor)
		if err != nil {
			return math.Inf(1)
		}
		return -llhd
	}
	res, err := optimize.Minimize(optimize.Problem{Func: cost}, p, m.Settings, m.Method)
	if err != nil && !usable(res) {
		return fmt.Errorf("hyperopt: %w", err)
	}
	copy(p, res.X)
	return nil
}
