// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballotgen

import (
	"math/rand/v2"

	"github.com/danielhkuo/votekit-sim/ballot"
	"github.com/danielhkuo/votekit-sim/prefmodel"
)

// Cambridge draws ballot types as runs of slates. The first position takes a
// slate by cohesion; each later position repeats the previous slate with
// probability equal to the bloc's cohesion toward it and otherwise switches
// to another open slate, again weighted by cohesion.
//
// It stands in for the Cambridge ballot-type tables, which expect exactly two
// slates whose names match the two blocs.
type Cambridge struct{}

func (Cambridge) Generate(cfg *prefmodel.Config, rng *rand.Rand) (*ballot.Profile, error) {
	slates := cfg.Slates()
	sizes := slateSizes(cfg)

	return generate(cfg, rng, func(bloc string) (typeSampler, error) {
		cohesion := cfg.CohesionMapping[bloc]
		return func(rng *rand.Rand) []string {
			return cambridgeType(rng, slates, sizes, cohesion)
		}, nil
	})
}

func cambridgeType(rng *rand.Rand, slates []string, sizes map[string]int, cohesion map[string]float64) []string {
	remaining := make(map[string]int, len(sizes))
	for s, k := range sizes {
		remaining[s] = k
	}

	n := totalPositions(sizes)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		open := openSlates(slates, remaining)

		var s string
		switch {
		case i == 0:
			s = pickSlate(rng, open, cohesion)
		case remaining[out[i-1]] > 0 && rng.Float64() < cohesion[out[i-1]]:
			s = out[i-1]
		default:
			s = pickSlate(rng, switchTargets(open, out[i-1]), cohesion)
		}

		remaining[s]--
		out = append(out, s)
	}
	return out
}

// switchTargets drops prev from open unless nothing else is left.
func switchTargets(open []string, prev string) []string {
	others := make([]string, 0, len(open))
	for _, s := range open {
		if s != prev {
			others = append(others, s)
		}
	}
	if len(others) == 0 {
		return open
	}
	return others
}
