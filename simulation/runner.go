// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package simulation

import (
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/votekit-sim/models"
	"github.com/danielhkuo/votekit-sim/prefmodel"
)

// StreamConfig is the random stream reserved for a request's preference model.
const StreamConfig = 1 << 63

// Runner repeats trials of a scenario and aggregates their outcomes.
type Runner struct {
	Collaborators Collaborators

	// Seed fixes every random stream the runner hands out. Zero means each
	// stream is seeded randomly.
	Seed uint64

	// Workers above one runs trials in parallel, each worker on its own
	// snapshot of the preference model.
	Workers int
}

func NewRunner(seed uint64, workers int) *Runner {
	return &Runner{
		Collaborators: DefaultCollaborators(),
		Seed:          seed,
		Workers:       workers,
	}
}

// Source returns the random stream with the given index.
func (r *Runner) Source(stream uint64) *rand.Rand {
	if r.Seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(r.Seed, stream))
}

// trialResult is one trial slot. A slot counts only when done and err is nil.
type trialResult struct {
	outcome Outcome
	err     error
	done    bool
}

// Run executes sc.Trials trials and returns a per-slate histogram of seats
// won. Every trial must succeed; otherwise Run returns a *SimulationError and
// no histogram. Cancellation is observed between trials.
func (r *Runner) Run(ctx context.Context, sc Scenario) (models.Histogram, error) {
	if r.Workers > 1 && sc.Trials > 1 {
		return r.runParallel(ctx, sc)
	}

	results := make([]trialResult, sc.Trials)
	rng := r.Source(0)
	cfg := sc.Config
	if cfg.State() == nil && sc.Trials > 0 {
		cfg.ResamplePreferenceState()
	}

	for i := range results {
		if err := ctx.Err(); err != nil {
			results[i] = trialResult{err: err}
			break
		}
		results[i] = r.trial(cfg, sc, rng)
		if results[i].err != nil {
			break
		}
		cfg.ResamplePreferenceState()
	}

	return aggregate(cfg.Slates(), results)
}

// runParallel deals trials round-robin to workers. Worker w owns streams
// 2w+1 (preference model) and 2w+2 (ballots and tie-breaks), so a fixed seed
// and worker count reproduce the same histogram.
func (r *Runner) runParallel(ctx context.Context, sc Scenario) (models.Histogram, error) {
	results := make([]trialResult, sc.Trials)
	workers := min(r.Workers, sc.Trials)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			cfg := sc.Config.Snapshot(r.Source(uint64(2*w + 1)))
			rng := r.Source(uint64(2*w + 2))
			cfg.ResamplePreferenceState()

			for i := w; i < sc.Trials; i += workers {
				if err := gctx.Err(); err != nil {
					// a sibling's failure is reported from its own slot
					if cause := ctx.Err(); cause != nil {
						results[i] = trialResult{err: cause}
					}
					return err
				}
				results[i] = r.trial(cfg, sc, rng)
				if results[i].err != nil {
					return results[i].err
				}
				cfg.ResamplePreferenceState()
			}
			return nil
		})
	}
	// the failing slot carries the cause; aggregate reports it
	_ = g.Wait()

	return aggregate(sc.Config.Slates(), results)
}

func (r *Runner) trial(cfg *prefmodel.Config, sc Scenario, rng *rand.Rand) trialResult {
	profile, err := r.Collaborators.GenerateProfile(cfg, sc.Strategy, sc.Election.MaxBallotLength, rng)
	if err != nil {
		return trialResult{err: err}
	}
	outcome, err := r.Collaborators.RunElection(profile, sc.Election, cfg.SlateToCandidates, rng)
	if err != nil {
		return trialResult{err: err}
	}
	return trialResult{outcome: outcome, done: true}
}

// aggregate builds the histogram, refusing unless every slot is a completed
// success. Failures take precedence over slots that never ran.
func aggregate(slates []string, results []trialResult) (models.Histogram, error) {
	for i, res := range results {
		if res.err != nil {
			return nil, &SimulationError{Trial: i, Err: res.err}
		}
	}
	for i, res := range results {
		if !res.done {
			return nil, &SimulationError{Trial: i, Err: errTrialNotRun}
		}
	}

	hist := make(models.Histogram, len(slates))
	for _, s := range slates {
		hist[s] = make(map[int]int)
	}
	for _, res := range results {
		for slate, seats := range res.outcome {
			hist[slate][seats]++
		}
	}
	return hist, nil
}
