package covar

import (
	"gonum.org/v1/gonum/blas/blas64"
)

var (
	compose *Compose
	_       GradCovar = compose // Check that Compose respects the GradCovar interface.
)

// Compose sums covariance kernels to form a new one. The combined
// hyperparameter vector is the concatenation of the parts' vectors,
// split in declaration order.
type Compose struct {
	parts []GradCovar
}

func NewCompose(first, second GradCovar) *Compose {
	parts := make([]GradCovar, 0, 2)
	switch first := first.(type) {
	case *Compose:
		parts = append(parts, first.parts...)
	default:
		parts = append(parts, first)
	}
	switch second := second.(type) {
	case *Compose:
		parts = append(parts, second.parts...)
	default:
		parts = append(parts, second)
	}
	return &Compose{parts: parts}
}

func (k *Compose) NumParams(dim int) int {
	n := 0
	for _, part := range k.parts {
		n += part.NumParams(dim)
	}
	return n
}

func (k *Compose) Kernel(dst blas64.General, p, xa []float64, na int, xb []float64, nb, dim int) {
	tmp := blas64.General{
		Rows:   na,
		Cols:   nb,
		Stride: nb,
		Data:   make([]float64, na*nb),
	}
	offset := 0
	for pi, part := range k.parts {
		npar := part.NumParams(dim)
		if pi == 0 {
			part.Kernel(dst, p[offset:offset+npar], xa, na, xb, nb, dim)
		} else {
			part.Kernel(tmp, p[offset:offset+npar], xa, na, xb, nb, dim)
			for i := 0; i < na; i++ {
				for j := 0; j < nb; j++ {
					dst.Data[i*dst.Stride+j] += tmp.Data[i*nb+j]
				}
			}
		}
		offset += npar
	}
}

func (k *Compose) KernelAndGrad(krn blas64.General, dkrn []blas64.General, p, x []float64, n, dim int) {
	tmp := blas64.General{
		Rows:   n,
		Cols:   n,
		Stride: n,
		Data:   make([]float64, n*n),
	}
	offset := 0
	for pi, part := range k.parts {
		npar := part.NumParams(dim)
		if pi == 0 {
			part.KernelAndGrad(krn, dkrn[offset:offset+npar], p[offset:offset+npar], x, n, dim)
		} else {
			part.KernelAndGrad(tmp, dkrn[offset:offset+npar], p[offset:offset+npar], x, n, dim)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					krn.Data[i*krn.Stride+j] += tmp.Data[i*n+j]
				}
			}
		}
		offset += npar
	}
}
