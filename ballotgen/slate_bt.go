// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballotgen

import (
	"math"
	"math/rand/v2"

	"github.com/danielhkuo/votekit-sim/ballot"
	"github.com/danielhkuo/votekit-sim/prefmodel"
)

// DefaultMaxEnumerated is the largest number of ballot types SlateBT samples
// from exactly.
const DefaultMaxEnumerated = 5000

// SlateBT is the slate Bradley-Terry model: a ballot type is drawn with
// probability proportional to the product, over every ordered pair of
// positions from different slates, of c_a / (c_a + c_b) where a is ranked
// above b and c is the bloc's cohesion.
type SlateBT struct {
	// MaxEnumerated caps exact enumeration of ballot types. Larger type
	// spaces are sampled with a Metropolis chain over adjacent swaps.
	// Zero means DefaultMaxEnumerated.
	MaxEnumerated int

	// ChainSteps is the number of proposals per chain draw. Zero means n*n
	// for n ranking positions.
	ChainSteps int
}

func (g SlateBT) Generate(cfg *prefmodel.Config, rng *rand.Rand) (*ballot.Profile, error) {
	slates := cfg.Slates()
	sizes := slateSizes(cfg)

	limit := g.MaxEnumerated
	if limit <= 0 {
		limit = DefaultMaxEnumerated
	}
	exact := arrangementCount(sizes) <= float64(limit)

	var types [][]string
	if exact {
		types = enumerateTypes(slates, sizes)
	}

	return generate(cfg, rng, func(bloc string) (typeSampler, error) {
		cohesion := cfg.CohesionMapping[bloc]

		if !exact {
			return func(rng *rand.Rand) []string {
				return btChain(rng, slates, sizes, cohesion, g.ChainSteps)
			}, nil
		}

		weights := make([]float64, len(types))
		for i, t := range types {
			weights[i] = btWeight(t, cohesion)
		}
		return func(rng *rand.Rand) []string {
			return types[weightedIndex(rng, len(types), func(i int) float64 { return weights[i] })]
		}, nil
	})
}

// btPair is the probability that a slate-a candidate beats a slate-b candidate.
func btPair(a, b string, cohesion map[string]float64) float64 {
	if a == b {
		return 1
	}
	ca, cb := cohesion[a], cohesion[b]
	if ca+cb <= 0 {
		return 0.5
	}
	return ca / (ca + cb)
}

func btWeight(t []string, cohesion map[string]float64) float64 {
	w := 1.0
	for i := 0; i < len(t); i++ {
		for j := i + 1; j < len(t); j++ {
			w *= btPair(t[i], t[j], cohesion)
		}
	}
	return w
}

// btChain runs a Metropolis chain from a slate-PL draw. Swapping adjacent
// positions a, b only changes that pair's factor, so the acceptance ratio is
// btPair(b, a) / btPair(a, b).
func btChain(rng *rand.Rand, slates []string, sizes map[string]int, cohesion map[string]float64, steps int) []string {
	t := slatePLType(rng, slates, sizes, cohesion)
	n := len(t)
	if n < 2 {
		return t
	}
	if steps <= 0 {
		steps = n * n
	}

	for k := 0; k < steps; k++ {
		i := rng.IntN(n - 1)
		a, b := t[i], t[i+1]
		if a == b {
			continue
		}
		cur := btPair(a, b, cohesion)
		if cur == 0 || rng.Float64() < btPair(b, a, cohesion)/cur {
			t[i], t[i+1] = b, a
		}
	}
	return t
}

// arrangementCount is the multinomial n! / prod(k_i!) computed in log space.
func arrangementCount(sizes map[string]int) float64 {
	n := totalPositions(sizes)
	lg, _ := math.Lgamma(float64(n + 1))
	for _, k := range sizes {
		lk, _ := math.Lgamma(float64(k + 1))
		lg -= lk
	}
	return math.Exp(lg)
}

// enumerateTypes lists every distinct arrangement of slate labels.
func enumerateTypes(slates []string, sizes map[string]int) [][]string {
	remaining := make(map[string]int, len(sizes))
	for s, k := range sizes {
		remaining[s] = k
	}
	n := totalPositions(sizes)

	var out [][]string
	cur := make([]string, 0, n)
	var walk func()
	walk = func() {
		if len(cur) == n {
			out = append(out, append([]string(nil), cur...))
			return
		}
		for _, s := range slates {
			if remaining[s] == 0 {
				continue
			}
			remaining[s]--
			cur = append(cur, s)
			walk()
			cur = cur[:len(cur)-1]
			remaining[s]++
		}
	}
	walk()
	return out
}
