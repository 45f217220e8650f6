// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/votekit-sim/cliparse"
	"github.com/danielhkuo/votekit-sim/db"
	"github.com/danielhkuo/votekit-sim/models"
	"github.com/danielhkuo/votekit-sim/sink"
)

// TestSeed makes simulations in tests reproducible.
const TestSeed = 20251015

// SetupTestSink returns a SQL sink on a fresh in-memory sqlite database.
func SetupTestSink(t *testing.T) *sink.SQL {
	t.Helper()

	conn, err := db.Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	store, err := sink.NewSQL(conn)
	if err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		ResultsOutput: cliparse.OutputSQL,
		DatabaseType:  "sqlite",
		DatabaseURL:   ":memory:",
		Seed:          TestSeed,
		Workers:       1,
		LogLevel:      "info",
	}
}

func float(v float64) *float64 { return &v }

// TwoBlocTwoSlate is the web app's two bloc, two slate sample scenario.
func TwoBlocTwoSlate() models.SimulationRequest {
	return models.SimulationRequest{
		ID:        "test-123",
		Name:      "Test Run",
		NumVoters: float(100),
		VoterBlocs: map[string]models.VoterBloc{
			"bloc1": {
				Proportion: 0.5,
				Preference: map[string]string{"slate1": "all_bets_off", "slate2": "strong"},
				Cohesion:   map[string]float64{"slate1": 0.7, "slate2": 0.3},
			},
			"bloc2": {
				Proportion: 0.5,
				Preference: map[string]string{"slate1": "all_bets_off", "slate2": "strong"},
				Cohesion:   map[string]float64{"slate1": 0.6, "slate2": 0.4},
			},
		},
		Slates: map[string]models.Slate{
			"slate1": {NumCandidates: 3},
			"slate2": {NumCandidates: 3},
		},
		Election: models.Election{
			System:          models.SystemSTV,
			NumSeats:        5,
			MaxBallotLength: 6,
		},
		BallotGenerator: models.GeneratorSlatePL,
		Trials:          100,
		CreatedAt:       "1700000000000",
	}
}

// CambridgeScenario has blocs named after their slates, as the Cambridge
// sampler requires.
func CambridgeScenario() models.SimulationRequest {
	req := TwoBlocTwoSlate()
	req.ID = "test-cs"
	req.VoterBlocs = map[string]models.VoterBloc{
		"A": {
			Proportion: 0.6,
			Preference: map[string]string{"A": "strong", "B": "unif"},
			Cohesion:   map[string]float64{"A": 0.8, "B": 0.2},
		},
		"B": {
			Proportion: 0.4,
			Preference: map[string]string{"A": "unif", "B": "strong"},
			Cohesion:   map[string]float64{"A": 0.3, "B": 0.7},
		},
	}
	req.Slates = map[string]models.Slate{
		"A": {NumCandidates: 3},
		"B": {NumCandidates: 2},
	}
	req.Election = models.Election{System: models.SystemBlocPlurality, NumSeats: 3, MaxBallotLength: 5}
	req.BallotGenerator = models.GeneratorCambridge
	req.Trials = 20
	return req
}

// Payload encodes a request as an event body.
func Payload(t *testing.T, req models.SimulationRequest) []byte {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to encode request: %v", err)
	}
	return data
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case []byte:
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// SlateTotals sums each slate's histogram buckets.
func SlateTotals(h models.Histogram) map[string]int {
	out := make(map[string]int, len(h))
	for slate, buckets := range h {
		for _, n := range buckets {
			out[slate] += n
		}
	}
	return out
}
