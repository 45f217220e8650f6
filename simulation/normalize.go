// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/danielhkuo/votekit-sim/models"
	"github.com/danielhkuo/votekit-sim/prefmodel"
)

// minCambridgeCohesion is the least cohesion a bloc may have toward its
// namesake slate under the Cambridge sampler.
const minCambridgeCohesion = 0.5

// Request size limits. Memory and run time grow with each of them, so
// anything larger is rejected as an invalid config.
const (
	MaxVoters     = 1_000_000
	MaxTrials     = 100_000
	MaxCandidates = 200 // across all slates
)

// Normalize turns a shape-valid request into a Scenario. Candidate ids are
// "{slate}_{i}" for i in [0, numCandidates). The returned config has its
// concentration parameters set; no preference state is drawn yet.
// Semantic problems are reported as a *prefmodel.ConfigError.
func Normalize(req models.SimulationRequest, rng *rand.Rand) (Scenario, error) {
	var p problems

	voters := 0
	if v, ok := req.Voters(); ok {
		voters = wholeNumber(&p, "numVoters", v, 1, MaxVoters)
	} else {
		p.addf("numVoters is required")
	}
	trials := wholeNumber(&p, "trials", req.Trials, 0, MaxTrials)
	seats := wholeNumber(&p, "election.numSeats", req.Election.NumSeats, 1, MaxCandidates)
	maxLen := wholeNumber(&p, "election.maxBallotLength", req.Election.MaxBallotLength, 1, math.MaxInt32)

	system, err := ParseSystem(req.Election.System)
	if err != nil {
		p.addf("election.system %q is not supported", req.Election.System)
	}
	strategy, err := ParseStrategy(req.BallotGenerator)
	if err != nil {
		p.addf("ballotGenerator %q is not supported", req.BallotGenerator)
	}

	slateNames := make([]string, 0, len(req.Slates))
	for name := range req.Slates {
		slateNames = append(slateNames, name)
	}
	sort.Strings(slateNames)

	slateToCandidates := make(map[string][]string, len(req.Slates))
	totalCandidates := 0
	for _, name := range slateNames {
		n := wholeNumber(&p, fmt.Sprintf("slates.%s.numCandidates", name), req.Slates[name].NumCandidates, 1, MaxCandidates)
		candidates := make([]string, n)
		for i := range candidates {
			candidates[i] = fmt.Sprintf("%s_%d", name, i)
		}
		slateToCandidates[name] = candidates
		totalCandidates += n
	}
	if totalCandidates > MaxCandidates {
		p.addf("slates have %d candidates in total, at most %d are allowed", totalCandidates, MaxCandidates)
	}
	if seats > 0 && totalCandidates > 0 && seats > totalCandidates {
		p.addf("election.numSeats (%d) exceeds the number of candidates (%d)", seats, totalCandidates)
	}

	if err := p.err(); err != nil {
		return Scenario{}, err
	}

	proportions := make(map[string]float64, len(req.VoterBlocs))
	cohesion := make(map[string]map[string]float64, len(req.VoterBlocs))
	levels := make(map[string]map[string]prefmodel.Level, len(req.VoterBlocs))
	for bloc, vb := range req.VoterBlocs {
		proportions[bloc] = vb.Proportion
		cohesion[bloc] = make(map[string]float64, len(vb.Cohesion))
		for slate, v := range vb.Cohesion {
			cohesion[bloc][slate] = v
		}
		levels[bloc] = make(map[string]prefmodel.Level, len(vb.Preference))
		for slate, level := range vb.Preference {
			levels[bloc][slate] = prefmodel.Level(level)
		}
	}

	cfg, err := prefmodel.New(voters, slateToCandidates, proportions, cohesion, rng)
	if err != nil {
		return Scenario{}, err
	}
	if err := cfg.SetConcentrationParameters(levels); err != nil {
		return Scenario{}, err
	}
	if strategy == CambridgeSampler {
		if err := cambridgeProblems(cfg).err(); err != nil {
			return Scenario{}, err
		}
	}

	return Scenario{
		Config: cfg,
		Election: ElectionSpec{
			System:          system,
			Seats:           seats,
			MaxBallotLength: maxLen,
		},
		Strategy: strategy,
		Trials:   trials,
	}, nil
}

// wholeNumber converts a JSON number to an int, recording a problem when it
// is fractional or outside [min, max].
func wholeNumber(p *problems, field string, v float64, min, max int) int {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v):
		p.addf("%s must be a whole number, got %v", field, v)
		return 0
	case v > float64(max):
		p.addf("%s must be at most %d, got %v", field, max, v)
		return 0
	case v < float64(min):
		p.addf("%s must be at least %d, got %v", field, min, v)
		return 0
	}
	return int(v)
}

// cambridgeProblems checks the shape the Cambridge sampler expects: two
// slates, two blocs named after them, and each bloc at least half cohesive
// toward its own slate.
func cambridgeProblems(cfg *prefmodel.Config) problems {
	var p problems
	slates, blocs := cfg.Slates(), cfg.Blocs()

	if len(slates) != 2 || len(blocs) != 2 {
		p.addf("Cambridge sampler requires exactly 2 slates and 2 voter blocs")
		return p
	}
	if slates[0] != blocs[0] || slates[1] != blocs[1] {
		p.addf("for the Cambridge sampler, voter blocs must have the same names as the slates")
		return p
	}
	for _, bloc := range blocs {
		if c := cfg.CohesionMapping[bloc][bloc]; c < minCambridgeCohesion {
			p.addf("voter bloc %q must have cohesion >= 50%% for slate %q, got %v", bloc, bloc, c)
		}
	}
	return p
}
