// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"errors"
	"math/rand/v2"
)

var (
	ErrNoSeats       = errors.New("number of seats must be positive")
	ErrTooManySeats  = errors.New("more seats than candidates")
	ErrNoCandidates  = errors.New("profile has no candidates")
	ErrUnknownPolicy = errors.New("unknown tie-break policy")
)

// Result is the outcome of a tabulation.
type Result struct {
	Elected []string
}

// TieBreak selects how equal totals are ordered.
type TieBreak int

const (
	// RandomTieBreak orders tied candidates uniformly at random.
	RandomTieBreak TieBreak = iota
	// LexicographicTieBreak orders tied candidates by identifier.
	LexicographicTieBreak
)

func (t TieBreak) String() string {
	switch t {
	case RandomTieBreak:
		return "random"
	case LexicographicTieBreak:
		return "lexicographic"
	default:
		return "unknown"
	}
}

func checkSeats(candidates []string, seats int) error {
	if len(candidates) == 0 {
		return ErrNoCandidates
	}
	if seats <= 0 {
		return ErrNoSeats
	}
	if seats > len(candidates) {
		return ErrTooManySeats
	}
	return nil
}

// pick returns one of tied at random, or the first when rng is nil.
func pick(rng *rand.Rand, tied []string) string {
	if rng == nil || len(tied) == 1 {
		return tied[0]
	}
	return tied[rng.IntN(len(tied))]
}
