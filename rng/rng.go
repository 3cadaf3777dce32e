// Package rng provides deterministic standard-normal noise sources
// for GP sampling.
package rng

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Normal fills buffers with independent N(0, 1) variates. Two sources
// built with the same seed produce identical streams.
type Normal struct {
	dist distuv.Normal
}

func New(seed uint64) *Normal {
	return &Normal{
		dist: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.NewSource(seed),
		},
	}
}

func (n *Normal) FillNormal(dst []float64) {
	for i := range dst {
		dst[i] = n.dist.Rand()
	}
}
