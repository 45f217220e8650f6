// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballotgen

import (
	"errors"
	"math/rand/v2"

	"github.com/danielhkuo/votekit-sim/ballot"
	"github.com/danielhkuo/votekit-sim/prefmodel"
)

var ErrNoPreferenceState = errors.New("preference state has not been sampled")

// Generator produces a ranked profile from a preference model. The returned
// profile's total weight equals the model's voter count.
type Generator interface {
	Generate(cfg *prefmodel.Config, rng *rand.Rand) (*ballot.Profile, error)
}

// typeSampler draws a ballot type: the slate of each ranking position.
type typeSampler func(rng *rand.Rand) []string

// generate runs the shared per-voter loop. newSampler is called once per bloc
// and returns the ballot-type sampler for that bloc's voters. Candidates within
// a slate are ordered by Plackett-Luce on the bloc's sampled support.
func generate(cfg *prefmodel.Config, rng *rand.Rand, newSampler func(bloc string) (typeSampler, error)) (*ballot.Profile, error) {
	state := cfg.State()
	if state == nil {
		return nil, ErrNoPreferenceState
	}

	slates := cfg.Slates()
	counts := cfg.BlocVoterCounts()
	b := ballot.NewBuilder(cfg.Candidates())

	for _, bloc := range cfg.Blocs() {
		n := counts[bloc]
		if n == 0 {
			continue
		}
		sample, err := newSampler(bloc)
		if err != nil {
			return nil, err
		}

		for v := 0; v < n; v++ {
			orders := make(map[string][]string, len(slates))
			for _, s := range slates {
				orders[s] = plackettLuce(rng, cfg.SlateToCandidates[s], state[bloc][s])
			}
			b.Add(fillRanking(sample(rng), orders), 1)
		}
	}

	return b.Profile(), nil
}

// plackettLuce orders candidates by repeatedly drawing the next one with
// probability proportional to its weight among those left.
func plackettLuce(rng *rand.Rand, candidates []string, weights map[string]float64) []string {
	left := append([]string(nil), candidates...)
	out := make([]string, 0, len(candidates))
	for len(left) > 0 {
		i := weightedIndex(rng, len(left), func(i int) float64 { return weights[left[i]] })
		out = append(out, left[i])
		left = append(left[:i], left[i+1:]...)
	}
	return out
}

// fillRanking replaces each slate label in the ballot type with that slate's
// next candidate.
func fillRanking(ballotType []string, orders map[string][]string) []string {
	ranking := make([]string, 0, len(ballotType))
	next := make(map[string]int, len(orders))
	for _, s := range ballotType {
		ranking = append(ranking, orders[s][next[s]])
		next[s]++
	}
	return ranking
}

// openSlates lists the slates that still have positions to fill.
func openSlates(slates []string, remaining map[string]int) []string {
	open := make([]string, 0, len(slates))
	for _, s := range slates {
		if remaining[s] > 0 {
			open = append(open, s)
		}
	}
	return open
}

// pickSlate draws one of open weighted by cohesion.
func pickSlate(rng *rand.Rand, open []string, cohesion map[string]float64) string {
	return open[weightedIndex(rng, len(open), func(i int) float64 { return cohesion[open[i]] })]
}

// weightedIndex draws i in [0, n) with probability proportional to weight(i).
// When every weight is zero the draw is uniform.
func weightedIndex(rng *rand.Rand, n int, weight func(int) float64) int {
	total := 0.0
	for i := 0; i < n; i++ {
		if w := weight(i); w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.IntN(n)
	}

	r := rng.Float64() * total
	for i := 0; i < n; i++ {
		w := weight(i)
		if w <= 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
	}
	// floating point residue lands on the last positive weight
	for i := n - 1; i >= 0; i-- {
		if weight(i) > 0 {
			return i
		}
	}
	return n - 1
}

func slateSizes(cfg *prefmodel.Config) map[string]int {
	sizes := make(map[string]int, len(cfg.SlateToCandidates))
	for s, cands := range cfg.SlateToCandidates {
		sizes[s] = len(cands)
	}
	return sizes
}

func totalPositions(sizes map[string]int) int {
	n := 0
	for _, k := range sizes {
		n += k
	}
	return n
}
