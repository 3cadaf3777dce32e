package covar_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/srinix007/gogpr/covar"
)

func general(rows, cols int) blas64.General {
	return blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: make([]float64, rows*cols)}
}

func TestSqExpARDKnownValues(t *testing.T) {
	k := covar.NewSqExpARD()
	require.Equal(t, 2, k.NumParams(1))
	require.Equal(t, 4, k.NumParams(3))

	// k(x, x) = sig^2, k(0, 1) = sig^2 exp(-ls^2).
	p := []float64{2, 3}
	x := []float64{0, 1}
	dst := general(2, 2)
	k.Kernel(dst, p, x, 2, x, 2, 1)

	require.InDelta(t, 4, dst.Data[0], 1e-15)
	require.InDelta(t, 4, dst.Data[3], 1e-15)
	require.InDelta(t, 4*math.Exp(-9), dst.Data[1], 1e-15)
	require.Equal(t, dst.Data[1], dst.Data[2])
}

func TestSqExpARDCrossSet(t *testing.T) {
	k := covar.NewSqExpARD()
	p := []float64{1, 0.5, 2}
	xa := []float64{0, 0, 1, 1} // two 2-D points
	xb := []float64{0, 0, 2, 2, 0, 1}

	dst := general(2, 3)
	k.Kernel(dst, p, xa, 2, xb, 3, 2)

	// Entry (i, j) must match the scalar formula.
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			d0 := 0.5 * (xa[i*2] - xb[j*2])
			d1 := 2.0 * (xa[i*2+1] - xb[j*2+1])
			want := math.Exp(-(d0*d0 + d1*d1))
			require.InDelta(t, want, dst.Data[i*3+j], 1e-15)
		}
	}
}

func TestSqExpARDGradMatchesFiniteDifferences(t *testing.T) {
	k := covar.NewSqExpARD()
	p := []float64{1.3, 0.7, 1.1}
	x := []float64{0, 0, 1, 0.5, 0.2, 2} // three 2-D points
	const n, dim = 3, 2
	npar := k.NumParams(dim)

	krn := general(n, n)
	dkrn := make([]blas64.General, npar)
	for i := range dkrn {
		dkrn[i] = general(n, n)
	}
	k.KernelAndGrad(krn, dkrn, p, x, n, dim)

	// The kernel itself matches a plain evaluation.
	plain := general(n, n)
	k.Kernel(plain, p, x, n, x, n, dim)
	require.Equal(t, plain.Data, krn.Data)

	const h = 1e-7
	for pi := 0; pi < npar; pi++ {
		hi := append([]float64(nil), p...)
		lo := append([]float64(nil), p...)
		hi[pi] += h
		lo[pi] -= h
		khi := general(n, n)
		klo := general(n, n)
		k.Kernel(khi, hi, x, n, x, n, dim)
		k.Kernel(klo, lo, x, n, x, n, dim)
		for i := 0; i < n*n; i++ {
			fd := (khi.Data[i] - klo.Data[i]) / (2 * h)
			require.InDelta(t, fd, dkrn[pi].Data[i], 1e-6)
		}
	}
}

func TestSqExpARDAsymmReducesToPlain(t *testing.T) {
	plain := covar.NewSqExpARD()
	asymm := covar.NewSqExpARDAsymm()
	require.Equal(t, plain.NumParams(2)+1, asymm.NumParams(2))

	x := []float64{0, 1, 2}
	ax := []float64{0, 0, 0}
	a := general(3, 3)
	b := general(3, 3)
	plain.Kernel(a, []float64{1.5, 0.8}, x, 3, x, 3, 1)
	asymm.KernelAsymm(b, []float64{1.5, 0.8, 2.0}, x, ax, 3, x, ax, 3, 1)
	require.Equal(t, a.Data, b.Data)
}

func TestSqExpARDAsymmAuxDistance(t *testing.T) {
	asymm := covar.NewSqExpARDAsymm()
	dst := general(1, 1)
	// Same location, auxiliary coordinates 0 and 1, aux scale 2:
	// k = exp(-4).
	asymm.KernelAsymm(dst, []float64{1, 1, 2}, []float64{5}, []float64{0}, 1, []float64{5}, []float64{1}, 1, 1)
	require.InDelta(t, math.Exp(-4), dst.Data[0], 1e-15)
}

func TestConstantKernel(t *testing.T) {
	k := covar.NewConstant()
	require.Equal(t, 1, k.NumParams(3))

	dst := general(2, 2)
	k.Kernel(dst, []float64{3}, []float64{0, 1}, 2, []float64{0, 1}, 2, 1)
	for _, v := range dst.Data {
		require.Equal(t, 9.0, v)
	}

	dkrn := []blas64.General{general(2, 2)}
	k.KernelAndGrad(dst, dkrn, []float64{3}, []float64{0, 1}, 2, 1)
	for _, v := range dkrn[0].Data {
		require.Equal(t, 6.0, v)
	}
}

func TestComposeSumsPartsAndSplitsParams(t *testing.T) {
	sq := covar.NewSqExpARD()
	c := covar.NewConstant()
	sum := covar.NewCompose(sq, c)
	require.Equal(t, sq.NumParams(1)+c.NumParams(1), sum.NumParams(1))

	x := []float64{0, 1, 3}
	p := []float64{1.2, 0.9, 0.5} // sqexp: sig, ls; constant: sig

	got := general(3, 3)
	sum.Kernel(got, p, x, 3, x, 3, 1)

	a := general(3, 3)
	b := general(3, 3)
	sq.Kernel(a, p[:2], x, 3, x, 3, 1)
	c.Kernel(b, p[2:], x, 3, x, 3, 1)
	for i := range got.Data {
		require.InDelta(t, a.Data[i]+b.Data[i], got.Data[i], 1e-15)
	}
}

func TestComposeFlattensNestedParts(t *testing.T) {
	inner := covar.NewCompose(covar.NewSqExpARD(), covar.NewConstant())
	outer := covar.NewCompose(inner, covar.NewConstant())
	require.Equal(t, 4, outer.NumParams(1))

	x := []float64{0, 2}
	p := []float64{1, 1, 0.5, 0.25}
	got := general(2, 2)
	outer.Kernel(got, p, x, 2, x, 2, 1)

	// Diagonal: sig^2 + 0.5^2 + 0.25^2.
	require.InDelta(t, 1+0.25+0.0625, got.Data[0], 1e-15)
}

func TestComposeGrad(t *testing.T) {
	sum := covar.NewCompose(covar.NewSqExpARD(), covar.NewConstant())
	x := []float64{0, 1}
	p := []float64{1.1, 0.9, 0.4}
	const n, dim = 2, 1
	npar := sum.NumParams(dim)

	krn := general(n, n)
	dkrn := make([]blas64.General, npar)
	for i := range dkrn {
		dkrn[i] = general(n, n)
	}
	sum.KernelAndGrad(krn, dkrn, p, x, n, dim)

	const h = 1e-7
	for pi := 0; pi < npar; pi++ {
		hi := append([]float64(nil), p...)
		lo := append([]float64(nil), p...)
		hi[pi] += h
		lo[pi] -= h
		khi := general(n, n)
		klo := general(n, n)
		sum.Kernel(khi, hi, x, n, x, n, dim)
		sum.Kernel(klo, lo, x, n, x, n, dim)
		for i := 0; i < n*n; i++ {
			fd := (khi.Data[i] - klo.Data[i]) / (2 * h)
			require.InDelta(t, fd, dkrn[pi].Data[i], 1e-6)
		}
	}
}
