// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package prefmodel

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distmv"
)

// sampleDirichlet draws an n-dimensional symmetric Dirichlet(alpha) vector
// from rng. A non-positive alpha or a degenerate draw yields the uniform
// vector.
func sampleDirichlet(rng *rand.Rand, alpha float64, n int) []float64 {
	if n == 0 {
		return []float64{}
	}
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return uniform(n)
	}

	alphas := make([]float64, n)
	for i := range alphas {
		alphas[i] = alpha
	}
	out := distmv.NewDirichlet(alphas, rng).Rand(nil)

	sum := 0.0
	for _, v := range out {
		sum += v
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return uniform(n)
	}
	return out
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}
