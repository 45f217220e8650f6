// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielhkuo/votekit-sim/models"
	"github.com/danielhkuo/votekit-sim/prefmodel"
	"github.com/danielhkuo/votekit-sim/schema"
	"github.com/danielhkuo/votekit-sim/simulation"
)

// Simulator turns an event payload into a response envelope.
type Simulator struct {
	runner *simulation.Runner
}

func NewSimulator(runner *simulation.Runner) *Simulator {
	return &Simulator{runner: runner}
}

// invocation is everything one Handle call learned, for callers that also
// store the outcome.
type invocation struct {
	envelope models.Envelope
	id       string
	trials   int
	results  models.Histogram
	failure  string
}

// Handle validates the event, runs the simulation and builds the envelope.
// Shape and config problems become 400 envelopes; any other failure,
// including a failed trial, is returned as an error.
func (s *Simulator) Handle(ctx context.Context, payload []byte) (models.Envelope, error) {
	inv, err := s.invoke(ctx, payload)
	return inv.envelope, err
}

func (s *Simulator) invoke(ctx context.Context, payload []byte) (invocation, error) {
	inv := invocation{id: peekID(payload)}

	req, err := schema.Validate(payload)
	var invalid *schema.ValidationError
	if errors.As(err, &invalid) {
		return inv.fail(models.MessageInvalidEvent, invalid)
	}
	if err != nil {
		return inv, err
	}

	sc, err := simulation.Normalize(req, s.runner.Source(simulation.StreamConfig))
	if err == nil {
		err = sc.Config.Validate()
	}
	var badConfig *prefmodel.ConfigError
	if errors.As(err, &badConfig) {
		return inv.fail(models.MessageInvalidConfig, badConfig)
	}
	if err != nil {
		return inv, err
	}

	inv.trials = sc.Trials
	results, err := s.runner.Run(ctx, sc)
	if err != nil {
		return inv, err
	}

	inv.results = results
	inv.envelope, err = envelope(http.StatusOK, models.SuccessBody{
		Message: models.MessageComplete,
		Results: results,
	})
	return inv, err
}

func (inv invocation) fail(message string, cause error) (invocation, error) {
	inv.failure = cause.Error()
	var err error
	inv.envelope, err = envelope(http.StatusBadRequest, models.FailureBody{
		Message: message,
		Errors:  inv.failure,
	})
	return inv, err
}

func envelope(status int, body any) (models.Envelope, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return models.Envelope{}, fmt.Errorf("failed to encode response body: %w", err)
	}
	return models.Envelope{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}, nil
}

// peekID reads the request id from a payload that may not be a valid event.
func peekID(payload []byte) string {
	var probe struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(payload, &probe) != nil {
		return ""
	}
	return probe.ID
}
