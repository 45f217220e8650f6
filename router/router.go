// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/votekit-sim/cliparse"
	"github.com/danielhkuo/votekit-sim/handlers"
	"github.com/danielhkuo/votekit-sim/middleware"
	"github.com/danielhkuo/votekit-sim/simulation"
	"github.com/danielhkuo/votekit-sim/sink"
)

func NewRouter(store sink.Sink, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sim := handlers.NewSimulator(simulation.NewRunner(cfg.Seed, cfg.Workers))
	invokeHandler := handlers.NewInvokeHandler(sim, store, cfg)
	runsHandler := handlers.NewRunsHandler(store)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Simulation (requires invoker key when a salt is configured)
	mux.HandleFunc("POST /invoke", middleware.WithLogging(invokeHandler.Invoke))

	// Stored results
	mux.HandleFunc("GET /runs/{id}", middleware.WithLogging(runsHandler.GetRun))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{
			"message": "votekit simulation server running",
		})
	})

	return mux
}
