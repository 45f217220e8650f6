// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers turns simulation events into responses.

# Simulator

Simulator.Handle is the request handler proper. It takes the raw event
payload and always produces either an envelope or an error:

	sim := handlers.NewSimulator(simulation.NewRunner(seed, workers))
	env, err := sim.Handle(ctx, payload)

The steps run in a fixed order:

 1. Shape validation against the embedded JSON Schema. Failure is a 400
    envelope with message "Invalid event".
 2. Normalization into a preference model plus election settings, then
    config validation. Failure is a 400 envelope with message
    "Invalid config".
 3. The simulation loop. Success is a 200 envelope with message
    "Simulation complete" and the per-slate histogram under "results".

A failed trial, a tabulator error or an unknown strategy reaching the loop
is not a client error: Handle returns it as err and no envelope. Envelopes
always carry the header Content-Type: application/json, and the body is a
JSON string, as a function-style invocation expects.

# HTTP Handlers

Each handler is a struct with its dependencies, built by a constructor:

	invokeHandler := handlers.NewInvokeHandler(sim, store, cfg)
	runsHandler := handlers.NewRunsHandler(store)

	POST /invoke     → Invoke (status and body from the envelope)
	GET  /runs/{id}  → GetRun (stored record plus per-slate summary)

Invoke writes every outcome with a usable id to the result sink: results
and the original event for 200, the error text for 400 and for failures
(which answer 500). Sink write failures are logged and do not change the
response.

When cfg.InvokerKeySalt is set, Invoke requires X-Client-ID and a matching
X-Invoker-Key (see package auth) and answers 401 otherwise.
*/
package handlers
