package covar

import (
	"math"

	"gonum.org/v1/gonum/blas/blas64"
)

var (
	sqExp      *SqExpARD
	sqExpAsymm *SqExpARDAsymm
	_          GradCovar  = sqExp      // Check that SqExpARD respects the GradCovar interface.
	_          AsymmCovar = sqExpAsymm // Check that SqExpARDAsymm respects the AsymmCovar interface.
)

// SqExpARD is the squared-exponential kernel with automatic relevance
// determination:
//
//	k(x, x') = p[0]^2 * exp(-sum_k p[1+k]^2 * (x_k - x'_k)^2)
//
// p[0] is the signal amplitude and p[1:1+dim] are per-dimension
// inverse length scales.
type SqExpARD struct{}

func NewSqExpARD() *SqExpARD {
	return &SqExpARD{}
}

func (k *SqExpARD) NumParams(dim int) int {
	return dim + 1
}

// DefaultParams returns a reasonable starting hyperparameter vector:
// unit amplitude and unit inverse length scales.
func (k *SqExpARD) DefaultParams(dim int) []float64 {
	p := make([]float64, k.NumParams(dim))
	for i := range p {
		p[i] = 1.0
	}
	return p
}

func (k *SqExpARD) Kernel(dst blas64.General, p, xa []float64, na int, xb []float64, nb, dim int) {
	sig2 := p[0] * p[0]
	ls := p[1 : 1+dim]
	for i := 0; i < na; i++ {
		row := dst.Data[i*dst.Stride:]
		ai := xa[i*dim : (i+1)*dim]
		for j := 0; j < nb; j++ {
			bj := xb[j*dim : (j+1)*dim]
			// sqd = |(x - x') . ls|^2
			sqd := 0.0
			for d := 0; d < dim; d++ {
				diff := ls[d] * (ai[d] - bj[d])
				sqd += diff * diff
			}
			row[j] = sig2 * math.Exp(-sqd)
		}
	}
}

func (k *SqExpARD) KernelAndGrad(krn blas64.General, dkrn []blas64.General, p, x []float64, n, dim int) {
	k.Kernel(krn, p, x, n, x, n, dim)
	ls := p[1 : 1+dim]
	for i := 0; i < n; i++ {
		ai := x[i*dim : (i+1)*dim]
		for j := 0; j < n; j++ {
			bj := x[j*dim : (j+1)*dim]
			v := krn.Data[i*krn.Stride+j]
			// dk/dsig = 2 k / sig
			dkrn[0].Data[i*dkrn[0].Stride+j] = 2.0 * v / p[0]
			// dk/dls_d = -2 ls_d (x_d - x'_d)^2 k
			for d := 0; d < dim; d++ {
				diff := ai[d] - bj[d]
				dkrn[1+d].Data[i*dkrn[1+d].Stride+j] = -2.0 * ls[d] * diff * diff * v
			}
		}
	}
}

// SqExpARDAsymm extends SqExpARD with one auxiliary coordinate per
// point, carrying its own inverse length scale in p[1+dim]. The
// auxiliary coordinate enters the exponent like an extra dimension.
type SqExpARDAsymm struct{}

func NewSqExpARDAsymm() *SqExpARDAsymm {
	return &SqExpARDAsymm{}
}

func (k *SqExpARDAsymm) NumParams(dim int) int {
	return dim + 2
}

func (k *SqExpARDAsymm) DefaultParams(dim int) []float64 {
	p := make([]float64, k.NumParams(dim))
	for i := range p {
		p[i] = 1.0
	}
	return p
}

func (k *SqExpARDAsymm) KernelAsymm(dst blas64.General, p, xa, axa []float64, na int, xb, axb []float64, nb, dim int) {
	sig2 := p[0] * p[0]
	ls := p[1 : 1+dim]
	lsAux := p[1+dim]
	for i := 0; i < na; i++ {
		row := dst.Data[i*dst.Stride:]
		ai := xa[i*dim : (i+1)*dim]
		for j := 0; j < nb; j++ {
			bj := xb[j*dim : (j+1)*dim]
			sqd := 0.0
			for d := 0; d < dim; d++ {
				diff := ls[d] * (ai[d] - bj[d])
				sqd += diff * diff
			}
			diff := lsAux * (axa[i] - axb[j])
			sqd += diff * diff
			row[j] = sig2 * math.Exp(-sqd)
		}
	}
}
