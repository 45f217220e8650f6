// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[2:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - ResultsOutput: Result sink, one of none, local, s3, sql (default: none)
  - OutputDir: Directory for the local sink (default: /output)
  - S3Bucket: Bucket for the s3 sink
  - DatabaseURL, DatabaseType: Database for the sql sink (type default: sqlite)
  - InvokerKeySalt: Secret for invoker key HMAC (optional)
  - Seed: Random seed, 0 for a random one
  - Workers: Parallel trial workers (default: 1)
  - LogLevel: slog level name (default: info)

# CLI Flags

	-p            Server port
	-o            Results output
	-output-dir   Local results directory
	-bucket       S3 bucket
	-d            Database URL
	-t            Database type
	-invoker-salt Invoker key salt
	-seed         Random seed
	-workers      Parallel trial workers
	-log-level    Log level
	-env-file     Environment file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	RESULTS_OUTPUT    → -o
	RESULTS_DIR       → -output-dir
	RESULTS_S3_BUCKET → -bucket
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	INVOKER_KEY_SALT  → -invoker-salt
	SIM_SEED          → -seed
	SIM_WORKERS       → -workers
	LOG_LEVEL         → -log-level

CLI flags take precedence over environment variables. The env file is
loaded first with godotenv and never overrides variables already set.

# Validation

ParseFlags returns an error when:

  - the results output is not one of the four sinks
  - s3 output has no bucket
  - sql output has no database URL
  - workers is below 1, or the port or log level is invalid
*/
package cliparse
