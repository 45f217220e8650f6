// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/danielhkuo/votekit-sim/ballot"
)

const epsilon = 1e-9

// STV runs a multi-winner single transferable vote count with the Droop quota
// and fractional (Gregory) surplus transfer. Each round either elects the
// leading candidate if they reach quota, or eliminates the trailing one. Ties
// are broken with rng; a nil rng falls back to candidate order.
func STV(p *ballot.Profile, seats int, rng *rand.Rand) (Result, error) {
	if err := checkSeats(p.Candidates, seats); err != nil {
		return Result{}, err
	}

	quota := math.Floor(p.TotalWeight()/float64(seats+1)) + 1

	weights := make([]float64, len(p.Ballots))
	for i, b := range p.Ballots {
		weights[i] = b.Weight
	}

	hopeful := make(map[string]bool, len(p.Candidates))
	for _, c := range p.Candidates {
		hopeful[c] = true
	}

	var elected []string
	for len(elected) < seats {
		tally, tops := count(p, weights, hopeful)
		remaining := hopefulInOrder(p.Candidates, hopeful)

		if len(remaining) <= seats-len(elected) {
			for len(remaining) > 0 {
				c := extreme(rng, remaining, tally, true)
				elected = append(elected, c)
				remaining = slices.DeleteFunc(remaining, func(s string) bool { return s == c })
			}
			break
		}

		leader := extreme(rng, remaining, tally, true)
		if tally[leader] >= quota-epsilon {
			elected = append(elected, leader)
			delete(hopeful, leader)

			factor := (tally[leader] - quota) / tally[leader]
			for i, top := range tops {
				if top == leader {
					weights[i] *= factor
				}
			}
			continue
		}

		delete(hopeful, extreme(rng, remaining, tally, false))
	}

	return Result{Elected: elected}, nil
}

// count tallies each ballot's highest-ranked hopeful candidate. tops[i] is
// that candidate for ballot i, or "" once the ballot is exhausted.
func count(p *ballot.Profile, weights []float64, hopeful map[string]bool) (map[string]float64, []string) {
	tally := make(map[string]float64, len(hopeful))
	for c := range hopeful {
		tally[c] = 0
	}

	tops := make([]string, len(p.Ballots))
	for i, b := range p.Ballots {
		for _, c := range b.Ranking {
			if hopeful[c] {
				tops[i] = c
				tally[c] += weights[i]
				break
			}
		}
	}
	return tally, tops
}

func hopefulInOrder(candidates []string, hopeful map[string]bool) []string {
	out := make([]string, 0, len(hopeful))
	for _, c := range candidates {
		if hopeful[c] {
			out = append(out, c)
		}
	}
	return out
}

// extreme returns the candidate with the highest (or lowest) tally, breaking
// ties with rng.
func extreme(rng *rand.Rand, candidates []string, tally map[string]float64, highest bool) string {
	best := tally[candidates[0]]
	for _, c := range candidates[1:] {
		v := tally[c]
		if (highest && v > best) || (!highest && v < best) {
			best = v
		}
	}

	var tied []string
	for _, c := range candidates {
		if math.Abs(tally[c]-best) <= epsilon {
			tied = append(tied, c)
		}
	}
	return pick(rng, tied)
}
