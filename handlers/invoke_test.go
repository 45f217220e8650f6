// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/votekit-sim/auth"
	"github.com/danielhkuo/votekit-sim/ballot"
	"github.com/danielhkuo/votekit-sim/models"
	"github.com/danielhkuo/votekit-sim/simulation"
	"github.com/danielhkuo/votekit-sim/sink"
	"github.com/danielhkuo/votekit-sim/tabulate"
	"github.com/danielhkuo/votekit-sim/testutil"
)

func TestInvoke(t *testing.T) {
	cfg := testutil.GetTestConfig()

	tests := []struct {
		name           string
		payload        func(t *testing.T) []byte
		expectedStatus int
		expectedRecord string
		checkResponse  func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name: "valid event",
			payload: func(t *testing.T) []byte {
				req := testutil.TwoBlocTwoSlate()
				req.Trials = 5
				return testutil.Payload(t, req)
			},
			expectedStatus: http.StatusOK,
			expectedRecord: models.StatusSuccess,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var body models.SuccessBody
				testutil.AssertJSON(t, w, &body)
				if body.Message != models.MessageComplete {
					t.Errorf("Expected message %q, got %q", models.MessageComplete, body.Message)
				}
				for slate, total := range testutil.SlateTotals(body.Results) {
					if total != 5 {
						t.Errorf("slate %s: buckets sum to %d, want 5", slate, total)
					}
				}
			},
		},
		{
			name: "invalid event",
			payload: func(t *testing.T) []byte {
				return []byte(`{"id":"test-123","name":"missing everything"}`)
			},
			expectedStatus: http.StatusBadRequest,
			expectedRecord: models.StatusError,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var body models.FailureBody
				testutil.AssertJSON(t, w, &body)
				if body.Message != models.MessageInvalidEvent {
					t.Errorf("Expected message %q, got %q", models.MessageInvalidEvent, body.Message)
				}
			},
		},
		{
			name: "invalid config",
			payload: func(t *testing.T) []byte {
				req := testutil.TwoBlocTwoSlate()
				req.Election.NumSeats = 10
				return testutil.Payload(t, req)
			},
			expectedStatus: http.StatusBadRequest,
			expectedRecord: models.StatusError,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var body models.FailureBody
				testutil.AssertJSON(t, w, &body)
				if body.Message != models.MessageInvalidConfig {
					t.Errorf("Expected message %q, got %q", models.MessageInvalidConfig, body.Message)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.SetupTestSink(t)
			handler := NewInvokeHandler(newTestSimulator(), store, cfg)

			w := httptest.NewRecorder()
			handler.Invoke(w, testutil.MakeRequest("POST", "/invoke", tt.payload(t), nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %q", ct)
			}
			tt.checkResponse(t, w)

			rec, err := store.Read(context.Background(), "test-123")
			if err != nil {
				t.Fatalf("Expected a stored record: %v", err)
			}
			if rec.Status != tt.expectedRecord {
				t.Errorf("Expected stored status %q, got %q", tt.expectedRecord, rec.Status)
			}
		})
	}
}

func TestInvoke_StoresRequestAsConfig(t *testing.T) {
	store := testutil.SetupTestSink(t)
	handler := NewInvokeHandler(newTestSimulator(), store, testutil.GetTestConfig())

	req := testutil.TwoBlocTwoSlate()
	req.Trials = 2
	w := httptest.NewRecorder()
	handler.Invoke(w, testutil.MakeRequest("POST", "/invoke", testutil.Payload(t, req), nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	rec, err := store.Read(context.Background(), req.ID)
	if err != nil {
		t.Fatal(err)
	}
	var stored models.SimulationRequest
	if err := json.Unmarshal(rec.Config, &stored); err != nil {
		t.Fatalf("stored config is not the request: %v", err)
	}
	if stored.Name != req.Name || stored.Trials != req.Trials {
		t.Errorf("stored config %+v does not match request", stored)
	}
}

func TestInvoke_UnparseableBodyIsNotStored(t *testing.T) {
	store := testutil.SetupTestSink(t)
	handler := NewInvokeHandler(newTestSimulator(), store, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	handler.Invoke(w, testutil.MakeRequest("POST", "/invoke", []byte("not json"), nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	if _, err := store.Read(context.Background(), "test-123"); !errors.Is(err, sink.ErrNotFound) {
		t.Errorf("Expected nothing stored, got %v", err)
	}
}

func TestInvoke_SimulationFailure(t *testing.T) {
	store := testutil.SetupTestSink(t)
	runner := simulation.NewRunner(testutil.TestSeed, 1)
	runner.Collaborators.STV = func(*ballot.Profile, int, *rand.Rand) (tabulate.Result, error) {
		return tabulate.Result{}, errors.New("tabulator exploded")
	}
	handler := NewInvokeHandler(NewSimulator(runner), store, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	handler.Invoke(w, testutil.MakeRequest("POST", "/invoke", testutil.Payload(t, testutil.TwoBlocTwoSlate()), nil))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Error != "Internal Server Error" {
		t.Errorf("Expected error 'Internal Server Error', got %q", resp.Error)
	}

	rec, err := store.Read(context.Background(), "test-123")
	if err != nil {
		t.Fatalf("Expected an error record: %v", err)
	}
	if rec.Status != models.StatusError || rec.Error == "" {
		t.Errorf("Expected error record with message, got %+v", rec)
	}
	if rec.Results != nil {
		t.Errorf("Expected no partial results, got %v", rec.Results)
	}
}

func TestInvoke_InvokerKey(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.InvokerKeySalt = "test-invoker-salt"
	validKey := auth.GenerateInvokerKey("web-app", cfg.InvokerKeySalt)

	req := testutil.TwoBlocTwoSlate()
	req.Trials = 1

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{"valid key", map[string]string{"X-Client-ID": "web-app", "X-Invoker-Key": validKey}, http.StatusOK},
		{"missing headers", nil, http.StatusUnauthorized},
		{"missing client id", map[string]string{"X-Invoker-Key": validKey}, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-Client-ID": "web-app", "X-Invoker-Key": "guess"}, http.StatusUnauthorized},
		{"key for another client", map[string]string{"X-Client-ID": "intruder", "X-Invoker-Key": validKey}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.SetupTestSink(t)
			handler := NewInvokeHandler(newTestSimulator(), store, cfg)

			w := httptest.NewRecorder()
			handler.Invoke(w, testutil.MakeRequest("POST", "/invoke", testutil.Payload(t, req), tt.headers))

			testutil.AssertStatus(t, w, tt.expectedStatus)

			_, err := store.Read(context.Background(), req.ID)
			stored := err == nil
			if stored != (tt.expectedStatus == http.StatusOK) {
				t.Errorf("stored = %v for status %d", stored, tt.expectedStatus)
			}
		})
	}
}
