// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the votekit simulation server.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

The simulation runner is built from cfg.Seed and cfg.Workers; store
receives every outcome and serves stored runs.

# Endpoints

Health:

	GET /health

Simulation (requires X-Client-ID and X-Invoker-Key when
INVOKER_KEY_SALT is set):

	POST /invoke     - Run a simulation event, respond with the envelope body

Stored results:

	GET  /runs/{id}  - Stored record plus per-slate summary

Root:

	GET  /           - Liveness message

# Middleware

Invoke and run lookups are wrapped with middleware.WithLogging. CORS is
applied at the server level in main:

	server := http.Server{Handler: middleware.CORS(mux)}

# Routing

Uses Go 1.22+ method and wildcard patterns; "/{$}" matches only the root,
so unknown paths are 404.
*/
package router
