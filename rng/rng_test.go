package rng_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srinix007/gogpr/rng"
)

func TestNormalDeterministic(t *testing.T) {
	a := make([]float64, 100)
	b := make([]float64, 100)
	rng.New(42).FillNormal(a)
	rng.New(42).FillNormal(b)
	require.Equal(t, a, b)

	c := make([]float64, 100)
	rng.New(43).FillNormal(c)
	require.NotEqual(t, a, c)
}

func TestNormalMoments(t *testing.T) {
	const n = 20000
	buf := make([]float64, n)
	rng.New(1).FillNormal(buf)

	mean := 0.0
	for _, v := range buf {
		mean += v
	}
	mean /= n

	variance := 0.0
	for _, v := range buf {
		variance += (v - mean) * (v - mean)
	}
	variance /= n - 1

	require.InDelta(t, 0, mean, 0.05)
	require.InDelta(t, 1, variance, 0.05)
	require.False(t, math.IsNaN(mean))
}
