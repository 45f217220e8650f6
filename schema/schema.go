// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/danielhkuo/votekit-sim/models"
)

//go:embed event.schema.json
var eventSchemaJSON []byte

// ValidationError reports a payload that does not match the event schema.
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return "invalid event: " + e.Details
}

var eventSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal(eventSchemaJSON, &s); err != nil {
		return nil, fmt.Errorf("failed to parse event schema: %w", err)
	}
	return s.Resolve(nil)
})

// Raw returns the embedded event schema document.
func Raw() []byte {
	return eventSchemaJSON
}

// Validate checks payload against the event schema and decodes it.
// Shape problems are returned as *ValidationError; any other error means the
// schema itself could not be loaded.
func Validate(payload []byte) (models.SimulationRequest, error) {
	rs, err := eventSchema()
	if err != nil {
		return models.SimulationRequest{}, err
	}

	var instance any
	if err := json.Unmarshal(payload, &instance); err != nil {
		return models.SimulationRequest{}, &ValidationError{Details: fmt.Sprintf("body is not valid JSON: %v", err)}
	}
	if err := rs.Validate(instance); err != nil {
		return models.SimulationRequest{}, &ValidationError{Details: err.Error()}
	}

	var req models.SimulationRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return models.SimulationRequest{}, &ValidationError{Details: err.Error()}
	}
	return req, nil
}
