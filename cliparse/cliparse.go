package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Result sink selections for ResultsOutput.
const (
	OutputNone  = "none"
	OutputLocal = "local"
	OutputS3    = "s3"
	OutputSQL   = "sql"
)

type Config struct {
	Port int

	// Result storage
	ResultsOutput string
	OutputDir     string
	S3Bucket      string
	DatabaseURL   string
	DatabaseType  string

	// Empty disables invoker keys on /invoke
	InvokerKeySalt string

	// Simulation
	Seed    uint64
	Workers int

	LogLevel string
}

// ParseFlags reads flags, then the environment (after loading .env), then
// defaults, and validates the combination.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("votekit-sim", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")

	// Result storage
	fs.StringVar(&cfg.ResultsOutput, "o", "", "Results output (none, local, s3 or sql)")
	fs.StringVar(&cfg.OutputDir, "output-dir", "", "Directory for local results")
	fs.StringVar(&cfg.S3Bucket, "bucket", "", "S3 bucket for results")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.InvokerKeySalt, "invoker-salt", "", "Invoker key salt (prefer env)")

	fs.Uint64Var(&cfg.Seed, "seed", 0, "Random seed (0 = random)")
	fs.IntVar(&cfg.Workers, "workers", 0, "Parallel trial workers")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&envFile, "env-file", ".env", "Environment file to load if present")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// .env never overrides variables already set
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	cfg.ResultsOutput = firstNonEmpty(cfg.ResultsOutput, os.Getenv("RESULTS_OUTPUT"), OutputNone)
	cfg.OutputDir = firstNonEmpty(cfg.OutputDir, os.Getenv("RESULTS_DIR"), "/output")
	cfg.S3Bucket = firstNonEmpty(cfg.S3Bucket, os.Getenv("RESULTS_S3_BUCKET"))
	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), "sqlite")
	cfg.InvokerKeySalt = firstNonEmpty(cfg.InvokerKeySalt, os.Getenv("INVOKER_KEY_SALT"))
	cfg.LogLevel = firstNonEmpty(cfg.LogLevel, os.Getenv("LOG_LEVEL"), "info")

	if cfg.Seed == 0 {
		if seedStr := os.Getenv("SIM_SEED"); seedStr != "" {
			seed, err := strconv.ParseUint(seedStr, 10, 64)
			if err != nil {
				return Config{}, errors.New("invalid SIM_SEED env variable")
			}
			cfg.Seed = seed
		}
	}
	if cfg.Workers == 0 {
		if workersStr := os.Getenv("SIM_WORKERS"); workersStr != "" {
			workers, err := strconv.Atoi(workersStr)
			if err != nil {
				return Config{}, errors.New("invalid SIM_WORKERS env variable")
			}
			cfg.Workers = workers
		} else {
			cfg.Workers = 1
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.ResultsOutput {
	case OutputNone, OutputLocal:
	case OutputS3:
		if c.S3Bucket == "" {
			return errors.New("S3 bucket required for s3 output (use --bucket or RESULTS_S3_BUCKET env)")
		}
	case OutputSQL:
		if c.DatabaseURL == "" {
			return errors.New("database URL required for sql output (use -d or DATABASE_URL env)")
		}
	default:
		return fmt.Errorf("unknown results output %q (use none, local, s3 or sql)", c.ResultsOutput)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
