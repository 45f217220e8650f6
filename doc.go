// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the votekit-sim command.

votekit-sim estimates, by repeated simulation, how many seats each slate of
candidates wins under a chosen electoral rule, given a statistical model of
how voter blocs rank the slates. Each trial resamples bloc preferences,
generates a full ballot profile, tabulates it, and counts seats per slate;
the output is a per-slate histogram of seats won across trials.

# Commands

	votekit-sim serve [flags]         HTTP server (POST /invoke, GET /runs/{id})
	votekit-sim run SCENARIO          run a JSON or YAML scenario, print the envelope
	votekit-sim validate SCENARIO     shape and config checks only
	votekit-sim keygen [CLIENT_ID]    print an invoker key

# Starting the Server

Configuration comes from flags, then environment variables (a .env file is
loaded if present), then defaults:

	RESULTS_OUTPUT=local RESULTS_DIR=./output votekit-sim serve

Or with flags:

	votekit-sim serve -p 3318 -o sql -t postgres -d "postgres://..."

# Configuration

  - PORT (-p): Server port (default: 3318)
  - RESULTS_OUTPUT (-o): none, local, s3 or sql (default: none)
  - RESULTS_DIR (-output-dir): Directory for local results (default: /output)
  - RESULTS_S3_BUCKET (-bucket): Bucket for s3 results
  - DATABASE_URL (-d), DATABASE_TYPE (-t): Database for sql results
  - INVOKER_KEY_SALT (-invoker-salt): Require invoker keys on /invoke
  - SIM_SEED (-seed), SIM_WORKERS (-workers): Reproducibility and parallelism
  - LOG_LEVEL (-log-level): debug, info, warn or error

# Architecture

  - prefmodel: Preference model, validation, Dirichlet resampling
  - ballot: Ranked and scored ballot profiles
  - ballotgen: Slate Plackett-Luce, slate Bradley-Terry, Cambridge sampler
  - tabulate: STV and scoring tabulation
  - simulation: Request normalization, dispatch, trial loop, summaries
  - schema: Embedded JSON Schema for events
  - handlers: Envelope state machine and HTTP handlers
  - sink: Local, S3 and SQL result storage
  - router, middleware: HTTP routes, logging, CORS
  - models: Request/response types
  - auth: Invoker keys
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
