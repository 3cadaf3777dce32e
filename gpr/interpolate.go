package gpr

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"

	"github.com/srinix007/gogpr/covar"
)

// Optimizer refines a kernel hyperparameter vector in place against
// training data, typically by maximizing the marginal log-likelihood.
type Optimizer interface {
	Optimize(p, x, y []float64, ns, dim int) error
}

// AsymmOptimizer is Optimizer for kernels over points with an
// auxiliary coordinate per point.
type AsymmOptimizer interface {
	OptimizeAsymm(p, x, ax, y []float64, ns, dim int) error
}

func checkInterpolate(xp, x, y, p, yp, varYp []float64, dim, npar int) (np, ns int, err error) {
	ns = len(y)
	np = len(yp)
	if len(x) != ns*dim {
		return 0, 0, fmt.Errorf("%w: training points have %d values for %d targets of dimension %d",
			ErrShapeMismatch, len(x), ns, dim)
	}
	if len(xp) != np*dim {
		return 0, 0, fmt.Errorf("%w: query points have %d values for %d outputs of dimension %d",
			ErrShapeMismatch, len(xp), np, dim)
	}
	if len(p) != npar {
		return 0, 0, fmt.Errorf("%w: %d hyperparameters, kernel wants %d",
			ErrShapeMismatch, len(p), npar)
	}
	if varYp != nil && len(varYp) != np*np {
		return 0, 0, fmt.Errorf("%w: variance buffer has %d entries, want %d",
			ErrShapeMismatch, len(varYp), np*np)
	}
	return np, ns, nil
}

// Interpolate predicts values yp at the query points xp from the
// noisy observations y at the training points x, under the kernel cov
// with hyperparameters p. If opt is non-nil the hyperparameters are
// refined in place first. If varYp is non-nil it receives the full
// np-by-np posterior covariance, row-major. yp and varYp are
// overwritten; all other scratch is local to the call.
func Interpolate(cov covar.Covar, opt Optimizer, xp, x, y []float64, dim int, p, yp, varYp []float64) error {
	np, ns, err := checkInterpolate(xp, x, y, p, yp, varYp, dim, cov.NumParams(dim))
	if err != nil {
		return fmt.Errorf("gpr: interpolate: %w", err)
	}

	if opt != nil {
		if err := opt.Optimize(p, x, y, ns, dim); err != nil {
			return fmt.Errorf("gpr: interpolate: %w", err)
		}
	}

	krn := blas64.General{Rows: ns, Cols: ns, Stride: ns, Data: make([]float64, ns*ns)}
	cov.Kernel(krn, p, x, ns, x, ns, dim)

	wt, factor, err := SolveWeights(krn, y, DefaultJitter)
	if err != nil {
		return err
	}

	krpx := blas64.General{Rows: np, Cols: ns, Stride: ns, Data: make([]float64, np*ns)}
	cov.Kernel(krpx, p, xp, np, x, ns, dim)
	if err := PredictMean(yp, wt, krpx); err != nil {
		return err
	}

	if varYp != nil {
		krpp := blas64.General{Rows: np, Cols: np, Stride: np, Data: make([]float64, np*np)}
		cov.Kernel(krpp, p, xp, np, xp, np, dim)
		v, err := PosteriorCovChol(krpp, krpx, factor)
		if err != nil {
			return err
		}
		copy(varYp, v.Data)
	}
	return nil
}

// InterpolateAsymm is Interpolate for kernels over points carrying an
// auxiliary coordinate: ax and axp hold one extra value per training
// and query point respectively.
func InterpolateAsymm(cov covar.AsymmCovar, opt AsymmOptimizer, xp, axp, x, ax, y []float64, dim int, p, yp, varYp []float64) error {
	np, ns, err := checkInterpolate(xp, x, y, p, yp, varYp, dim, cov.NumParams(dim))
	if err != nil {
		return fmt.Errorf("gpr: interpolate asymm: %w", err)
	}
	if len(ax) != ns || len(axp) != np {
		return fmt.Errorf("gpr: interpolate asymm: %w: auxiliary coordinates have %d/%d entries for %d/%d points",
			ErrShapeMismatch, len(ax), len(axp), ns, np)
	}

	if opt != nil {
		if err := opt.OptimizeAsymm(p, x, ax, y, ns, dim); err != nil {
			return fmt.Errorf("gpr: interpolate asymm: %w", err)
		}
	}

	krn := blas64.General{Rows: ns, Cols: ns, Stride: ns, Data: make([]float64, ns*ns)}
	cov.KernelAsymm(krn, p, x, ax, ns, x, ax, ns, dim)

	wt, factor, err := SolveWeights(krn, y, DefaultJitter)
	if err != nil {
		return err
	}

	krpx := blas64.General{Rows: np, Cols: ns, Stride: ns, Data: make([]float64, np*ns)}
	cov.KernelAsymm(krpx, p, xp, axp, np, x, ax, ns, dim)
	if err := PredictMean(yp, wt, krpx); err != nil {
		return err
	}

	if varYp != nil {
		krpp := blas64.General{Rows: np, Cols: np, Stride: np, Data: make([]float64, np*np)}
		cov.KernelAsymm(krpp, p, xp, axp, np, xp, axp, np, dim)
		v, err := PosteriorCovChol(krpp, krpx, factor)
		if err != nil {
			return err
		}
		copy(varYp, v.Data)
	}
	return nil
}

// InterpolateMean is Interpolate for GP models with a non-zero prior
// mean: yMn holds the prior mean at the training points and ypMn at
// the query points. The training mean is subtracted before solving
// and the query mean added back onto the prediction.
func InterpolateMean(cov covar.Covar, opt Optimizer, xp, x, y, yMn, ypMn []float64, dim int, p, yp, varYp []float64) error {
	np, ns, err := checkInterpolate(xp, x, y, p, yp, varYp, dim, cov.NumParams(dim))
	if err != nil {
		return fmt.Errorf("gpr: interpolate mean: %w", err)
	}
	if len(yMn) != ns || len(ypMn) != np {
		return fmt.Errorf("gpr: interpolate mean: %w: prior means have %d/%d entries for %d/%d points",
			ErrShapeMismatch, len(yMn), len(ypMn), ns, np)
	}

	// yRes = y - yMn
	yRes := make([]float64, ns)
	copy(yRes, y)
	blas64.Axpy(-1.0, vec(yMn), vec(yRes))

	if opt != nil {
		if err := opt.Optimize(p, x, yRes, ns, dim); err != nil {
			return fmt.Errorf("gpr: interpolate mean: %w", err)
		}
	}

	krn := blas64.General{Rows: ns, Cols: ns, Stride: ns, Data: make([]float64, ns*ns)}
	cov.Kernel(krn, p, x, ns, x, ns, dim)

	wt, factor, err := SolveWeights(krn, yRes, DefaultJitter)
	if err != nil {
		return err
	}

	krpx := blas64.General{Rows: np, Cols: ns, Stride: ns, Data: make([]float64, np*ns)}
	cov.Kernel(krpx, p, xp, np, x, ns, dim)
	if err := PredictMean(yp, wt, krpx); err != nil {
		return err
	}
	// yp += ypMn
	blas64.Axpy(1.0, vec(ypMn), vec(yp))

	if varYp != nil {
		krpp := blas64.General{Rows: np, Cols: np, Stride: np, Data: make([]float64, np*np)}
		cov.Kernel(krpp, p, xp, np, xp, np, dim)
		v, err := PosteriorCovChol(krpp, krpx, factor)
		if err != nil {
			return err
		}
		copy(varYp, v.Data)
	}
	return nil
}
