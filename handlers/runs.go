// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/votekit-sim/middleware"
	"github.com/danielhkuo/votekit-sim/models"
	"github.com/danielhkuo/votekit-sim/simulation"
	"github.com/danielhkuo/votekit-sim/sink"
)

type RunsHandler struct {
	store sink.Sink
}

func NewRunsHandler(store sink.Sink) *RunsHandler {
	return &RunsHandler{store: store}
}

// GetRun handles GET /runs/{id}
// Returns the stored record and, for successful runs, per-slate summaries.
func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, err := h.store.Read(r.Context(), id)
	switch {
	case errors.Is(err, sink.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Run not found")
		return
	case errors.Is(err, sink.ErrInvalidID):
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid run id")
		return
	case err != nil:
		slog.Error("failed to read run", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	resp := models.RunResponse{ID: id, Record: rec}
	if rec.Status == models.StatusSuccess {
		resp.Summary = simulation.Summarize(rec.Results)
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
