// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballotgen

import (
	"math/rand/v2"

	"github.com/danielhkuo/votekit-sim/ballot"
	"github.com/danielhkuo/votekit-sim/prefmodel"
)

// SlatePL is the slate Plackett-Luce model: each ranking position takes a
// slate with probability proportional to the bloc's cohesion among slates
// that still have candidates to place.
type SlatePL struct{}

func (SlatePL) Generate(cfg *prefmodel.Config, rng *rand.Rand) (*ballot.Profile, error) {
	slates := cfg.Slates()
	sizes := slateSizes(cfg)

	return generate(cfg, rng, func(bloc string) (typeSampler, error) {
		cohesion := cfg.CohesionMapping[bloc]
		return func(rng *rand.Rand) []string {
			return slatePLType(rng, slates, sizes, cohesion)
		}, nil
	})
}

func slatePLType(rng *rand.Rand, slates []string, sizes map[string]int, cohesion map[string]float64) []string {
	remaining := make(map[string]int, len(sizes))
	for s, k := range sizes {
		remaining[s] = k
	}

	n := totalPositions(sizes)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s := pickSlate(rng, openSlates(slates, remaining), cohesion)
		remaining[s]--
		out = append(out, s)
	}
	return out
}
