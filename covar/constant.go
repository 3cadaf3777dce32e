package covar

import (
	"gonum.org/v1/gonum/blas/blas64"
)

var (
	constant *Constant
	_        GradCovar = constant // Check that Constant respects the GradCovar interface.
)

// Constant is the constant covariance k(x, x') = p[0]^2, modelling a
// shared offset across all points. Mostly useful inside a Compose.
type Constant struct{}

func NewConstant() *Constant {
	return &Constant{}
}

func (k *Constant) NumParams(dim int) int {
	return 1
}

func (k *Constant) Kernel(dst blas64.General, p, xa []float64, na int, xb []float64, nb, dim int) {
	sig2 := p[0] * p[0]
	for i := 0; i < na; i++ {
		row := dst.Data[i*dst.Stride:]
		for j := 0; j < nb; j++ {
			row[j] = sig2
		}
	}
}

func (k *Constant) KernelAndGrad(krn blas64.General, dkrn []blas64.General, p, x []float64, n, dim int) {
	k.Kernel(krn, p, x, n, x, n, dim)
	d := 2.0 * p[0]
	for i := 0; i < n; i++ {
		row := dkrn[0].Data[i*dkrn[0].Stride:]
		for j := 0; j < n; j++ {
			row[j] = d
		}
	}
}
