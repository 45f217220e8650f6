// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package simulation

import (
	"fmt"
	"math/rand/v2"

	"github.com/danielhkuo/votekit-sim/ballot"
	"github.com/danielhkuo/votekit-sim/ballotgen"
	"github.com/danielhkuo/votekit-sim/prefmodel"
	"github.com/danielhkuo/votekit-sim/tabulate"
)

// Collaborators are the ballot generators and tabulators a run calls into.
type Collaborators struct {
	SlateBT   ballotgen.Generator
	SlatePL   ballotgen.Generator
	Cambridge ballotgen.Generator

	STV     func(p *ballot.Profile, seats int, rng *rand.Rand) (tabulate.Result, error)
	Scoring func(p *ballot.ScoreProfile, seats int, tb tabulate.TieBreak, rng *rand.Rand) (tabulate.Result, error)
}

// DefaultCollaborators wires the built-in generators and tabulators.
func DefaultCollaborators() Collaborators {
	return Collaborators{
		SlateBT:   ballotgen.SlateBT{},
		SlatePL:   ballotgen.SlatePL{},
		Cambridge: ballotgen.Cambridge{},
		STV:       tabulate.STV,
		Scoring:   tabulate.Scoring,
	}
}

// GenerateProfile draws a profile with the given strategy from the config's
// current preference state, then truncates it to maxRankingLength positions.
func (c Collaborators) GenerateProfile(cfg *prefmodel.Config, strategy Strategy, maxRankingLength int, rng *rand.Rand) (*ballot.Profile, error) {
	var gen ballotgen.Generator
	switch strategy {
	case SlateBradleyTerry:
		gen = c.SlateBT
	case SlatePlackettLuce:
		gen = c.SlatePL
	case CambridgeSampler:
		gen = c.Cambridge
	default:
		return nil, fmt.Errorf("%w: ballot generator %v", ErrInvalidArgument, strategy)
	}

	profile, err := gen.Generate(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("generate %v profile: %w", strategy, err)
	}
	return profile.Truncate(maxRankingLength), nil
}

// RunElection tabulates one profile and counts the seats each slate won.
func (c Collaborators) RunElection(p *ballot.Profile, spec ElectionSpec, slateToCandidates map[string][]string, rng *rand.Rand) (Outcome, error) {
	var (
		res tabulate.Result
		err error
	)
	switch spec.System {
	case RankedChoiceMultiwinner:
		res, err = c.STV(p, spec.Seats, rng)
	case BlocScoring:
		scored := ballot.ScoreRanked(p, ballot.TopK(spec.Seats))
		res, err = c.Scoring(scored, spec.Seats, tabulate.RandomTieBreak, rng)
	default:
		return nil, fmt.Errorf("%w: election system %v", ErrInvalidArgument, spec.System)
	}
	if err != nil {
		return nil, fmt.Errorf("tabulate %v: %w", spec.System, err)
	}

	return seatsBySlate(res.Elected, slateToCandidates), nil
}

// GenerateProfile uses the built-in generators.
func GenerateProfile(cfg *prefmodel.Config, strategy Strategy, maxRankingLength int, rng *rand.Rand) (*ballot.Profile, error) {
	return DefaultCollaborators().GenerateProfile(cfg, strategy, maxRankingLength, rng)
}

// RunElection uses the built-in tabulators.
func RunElection(p *ballot.Profile, spec ElectionSpec, slateToCandidates map[string][]string, rng *rand.Rand) (Outcome, error) {
	return DefaultCollaborators().RunElection(p, spec, slateToCandidates, rng)
}

// seatsBySlate counts elected candidates per slate. Every slate appears,
// including those that won nothing.
func seatsBySlate(elected []string, slateToCandidates map[string][]string) Outcome {
	owner := make(map[string]string)
	out := make(Outcome, len(slateToCandidates))
	for slate, candidates := range slateToCandidates {
		out[slate] = 0
		for _, c := range candidates {
			owner[c] = slate
		}
	}
	for _, c := range elected {
		if slate, ok := owner[c]; ok {
			out[slate]++
		}
	}
	return out
}
