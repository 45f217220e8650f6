// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/danielhkuo/votekit-sim/ballot"
)

// Scoring elects the seats candidates with the highest weighted score totals.
// Candidates tied across the cut are ordered by the tie-break policy.
func Scoring(p *ballot.ScoreProfile, seats int, tb TieBreak, rng *rand.Rand) (Result, error) {
	if err := checkSeats(p.Candidates, seats); err != nil {
		return Result{}, err
	}

	totals := make(map[string]float64, len(p.Candidates))
	order := slices.Clone(p.Candidates)
	for _, c := range p.Candidates {
		totals[c] = 0
	}
	for _, b := range p.Ballots {
		for c, s := range b.Scores {
			if _, known := totals[c]; !known {
				order = append(order, c)
			}
			totals[c] += s * b.Weight
		}
	}

	sort.Strings(order)
	switch tb {
	case RandomTieBreak:
		if rng != nil {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
	case LexicographicTieBreak:
	default:
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownPolicy, tb)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})

	return Result{Elected: slices.Clone(order[:seats])}, nil
}
