// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package simulation runs repeated election trials and aggregates seats won.

# Normalization

Normalize converts a shape-valid request into a Scenario: a preference
model (prefmodel.Config) with concentration parameters set, an
ElectionSpec, a ballot generation Strategy and a trial count. Candidate ids
are synthesised as "{slate}_{i}". Every semantic problem is collected into
one *prefmodel.ConfigError.

	sc, err := simulation.Normalize(req, runner.Source(simulation.StreamConfig))

# Trials

A trial generates a ballot profile with the scenario's strategy, truncates
rankings to MaxBallotLength, tabulates it with the scenario's system, and
counts elected candidates per slate:

	profile, err := simulation.GenerateProfile(cfg, strategy, maxLen, rng)
	outcome, err := simulation.RunElection(profile, spec, cfg.SlateToCandidates, rng)

Unknown strategies or systems fail with ErrInvalidArgument.

# The Loop

Runner.Run executes the trials. The first trial uses the model's current
preference state (drawn first if there is none); the state is resampled
after every trial, so each trial sees an independent draw.

	hist, err := simulation.NewRunner(seed, workers).Run(ctx, sc)

The histogram maps every slate to seats won → trial count, and each
slate's counts sum to the number of trials. If any trial fails, Run returns
a *SimulationError naming the trial and no histogram at all. Cancellation
is checked between trials.

With Workers > 1, trials are dealt round-robin to workers, each holding its
own snapshot of the preference model. The same seed and worker count give
the same histogram.

# Random Streams

Runner hands out math/rand/v2 PCG sources keyed by stream index:
StreamConfig for the preference model of a request, 0 for the sequential
loop, and 2w+1, 2w+2 for parallel worker w. Seed 0 seeds every stream
randomly.
*/
package simulation
