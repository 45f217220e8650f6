// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/votekit-sim/auth"
	"github.com/danielhkuo/votekit-sim/cliparse"
	"github.com/danielhkuo/votekit-sim/middleware"
	"github.com/danielhkuo/votekit-sim/sink"
)

type InvokeHandler struct {
	sim   *Simulator
	store sink.Sink
	cfg   cliparse.Config
}

func NewInvokeHandler(sim *Simulator, store sink.Sink, cfg cliparse.Config) *InvokeHandler {
	return &InvokeHandler{sim: sim, store: store, cfg: cfg}
}

// Invoke handles POST /invoke
// The body is the event; the response status and body come from the envelope.
// Requires X-Client-ID and X-Invoker-Key when an invoker salt is configured.
func (h *InvokeHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	if h.cfg.InvokerKeySalt != "" {
		clientID := r.Header.Get("X-Client-ID")
		if err := auth.ValidateInvokerKey(clientID, r.Header.Get("X-Invoker-Key"), h.cfg.InvokerKeySalt); err != nil {
			slog.Warn("invoke rejected", "client_id", clientID, "error", err)
			middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}
	}

	payload, err := middleware.ReadBody(w, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// a client that goes away still gets its outcome recorded
	storeCtx := context.WithoutCancel(r.Context())

	start := time.Now()
	inv, err := h.sim.invoke(r.Context(), payload)
	if err != nil {
		slog.Error("simulation failed",
			"id", inv.id,
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		h.storeError(storeCtx, inv.id, err.Error())
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch {
	case inv.results != nil:
		slog.Info("simulation complete",
			"id", inv.id,
			"trials", humanize.Comma(int64(inv.trials)),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
		if err := h.store.WriteSuccess(storeCtx, inv.id, inv.results, payload); err != nil {
			slog.Error("failed to store results", "id", inv.id, "error", err)
		}
	default:
		slog.Info("simulation rejected", "id", inv.id, "status", inv.envelope.StatusCode, "errors", inv.failure)
		h.storeError(storeCtx, inv.id, inv.failure)
	}

	for k, v := range inv.envelope.Headers {
		w.Header().Set(k, v)
	}
	middleware.JSONResponse(w, inv.envelope.StatusCode, json.RawMessage(inv.envelope.Body))
}

// storeError records a failure when the request carried a usable id.
func (h *InvokeHandler) storeError(ctx context.Context, id, message string) {
	if id == "" {
		return
	}
	if err := h.store.WriteError(ctx, id, message); err != nil {
		slog.Error("failed to store error", "id", id, "error", err)
	}
}
