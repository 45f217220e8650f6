package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/votekit-sim/cliparse"
	"github.com/danielhkuo/votekit-sim/middleware"
	"github.com/danielhkuo/votekit-sim/router"
	"github.com/danielhkuo/votekit-sim/sink"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "votekit-sim",
		Short: "Monte Carlo seat simulations for slate elections",
		Long: `votekit-sim estimates how many seats each candidate slate wins under STV
or bloc plurality, by repeatedly sampling voter preferences and ballots.

Run it as an HTTP server (serve) or directly on a scenario file (run).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			levelName, _ := cmd.Flags().GetString("log-level")
			level, err := cliparse.Config{LogLevel: levelName}.SlogLevel()
			if err != nil {
				return err
			}
			setupLogging(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCmd(),
		newRunCmd(),
		newValidateCmd(),
		newKeygenCmd(),
	)
	return rootCmd
}

// setupLogging installs the default logger on stderr: text for terminals,
// JSON otherwise.
func setupLogging(level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [flags]",
		Short: "Run the HTTP simulation server",
		Long: `Serve POST /invoke, GET /runs/{id} and GET /health.

Flags (each falls back to an environment variable, then a default):
  -p             PORT               (3318)
  -o             RESULTS_OUTPUT     none, local, s3 or sql (none)
  -output-dir    RESULTS_DIR        (/output)
  -bucket        RESULTS_S3_BUCKET
  -d             DATABASE_URL
  -t             DATABASE_TYPE      sqlite or postgres (sqlite)
  -invoker-salt  INVOKER_KEY_SALT
  -seed          SIM_SEED           (0 = random)
  -workers       SIM_WORKERS        (1)
  -log-level     LOG_LEVEL          (info)
  -env-file                         (.env)`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.ParseFlags(args)
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("error parsing flags: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg cliparse.Config) error {
	level, _ := cfg.SlogLevel()
	setupLogging(level)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sink.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("results sink: %w", err)
	}
	defer store.Close()
	slog.Info("Results sink ready", "output", cfg.ResultsOutput)
	if cfg.InvokerKeySalt == "" {
		slog.Warn("INVOKER_KEY_SALT not set; /invoke is open to any client")
	}

	// Create router
	mux := router.NewRouter(store, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "workers", cfg.Workers)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		return err
	}
	slog.Info("Server closed")
	return nil
}
