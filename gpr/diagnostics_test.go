package gpr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srinix007/gogpr/gpr"
)

func TestDiagnosticsExactPredictions(t *testing.T) {
	yp := []float64{1, 2, 3}
	ya := []float64{1, 2, 3}
	cov := gpr.SymmetricFromBuffer([]float64{
		0.5, 0, 0,
		0, 0.5, 0,
		0, 0, 0.5,
	}, 3)

	r, err := gpr.Diagnostics(yp, cov, ya, gpr.DefaultJitter)
	require.NoError(t, err)
	require.Zero(t, r.RMSE)
	require.Zero(t, r.RChiSq)
	require.Zero(t, r.Mahalanobis)
	require.InDelta(t, 0.7071, r.SDSum, 1e-4)
}

func TestDiagnosticsUnitCovariance(t *testing.T) {
	yp := []float64{1, 0}
	ya := []float64{0, 0}
	cov := gpr.SymmetricFromBuffer([]float64{
		1, 0,
		0, 1,
	}, 2)

	r, err := gpr.Diagnostics(yp, cov, ya, 0)
	require.NoError(t, err)
	// err = (1, 0): RMSE = sqrt(1/2), chi = 1/2, Mahalanobis = 1/2.
	require.InDelta(t, 0.70710678, r.RMSE, 1e-8)
	require.InDelta(t, 0.5, r.RChiSq, 1e-12)
	require.InDelta(t, 0.5, r.Mahalanobis, 1e-12)
	require.InDelta(t, 1.0, r.SDSum, 1e-12)
}

func TestDiagnosticsShapeMismatch(t *testing.T) {
	cov := gpr.SymmetricFromBuffer([]float64{1, 0, 0, 1}, 2)
	_, err := gpr.Diagnostics([]float64{1, 2}, cov, []float64{1}, gpr.DefaultJitter)
	require.ErrorIs(t, err, gpr.ErrShapeMismatch)
}
