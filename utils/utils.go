package utils

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// Identity matrix.
func Eye(n int) blas64.General {
	out := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		out.Data[i*n+i] = 1
	}
	return out
}

// DenseFrom copies a blas64 container into a mat.Dense.
func DenseFrom(a blas64.General) *mat.Dense {
	out := mat.NewDense(a.Rows, a.Cols, nil)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Set(i, j, a.Data[i*a.Stride+j])
		}
	}
	return out
}

// SymDenseFrom copies a blas64 symmetric container into a
// mat.SymDense, reading whichever triangle the container populates.
func SymDenseFrom(s blas64.Symmetric) *mat.SymDense {
	out := mat.NewSymDense(s.N, nil)
	for i := 0; i < s.N; i++ {
		for j := i; j < s.N; j++ {
			if s.Uplo == blas.Upper {
				out.SetSym(i, j, s.Data[i*s.Stride+j])
			} else {
				out.SetSym(i, j, s.Data[j*s.Stride+i])
			}
		}
	}
	return out
}

// GeneralFrom copies any mat.Matrix into a fresh blas64 container.
func GeneralFrom(m mat.Matrix) blas64.General {
	r, c := m.Dims()
	out := blas64.General{Rows: r, Cols: c, Stride: c, Data: make([]float64, r*c)}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Data[i*c+j] = m.At(i, j)
		}
	}
	return out
}
