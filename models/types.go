package models

import "encoding/json"

// Election system names as they appear in requests
const (
	SystemSTV           = "STV"
	SystemBlocPlurality = "blocPlurality"
)

// Ballot generator names
const (
	GeneratorSlateBT   = "sBT"
	GeneratorSlatePL   = "sPL"
	GeneratorCambridge = "CS"
)

// Stored run status constants
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Handler response messages
const (
	MessageInvalidEvent  = "Invalid event"
	MessageInvalidConfig = "Invalid config"
	MessageComplete      = "Simulation complete"
)

// Request types

// SimulationRequest is the event submitted by the web app or CLI.
// Numbers arrive as JSON numbers and are checked for integrality later.
type SimulationRequest struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	NumVoters       *float64             `json:"numVoters,omitempty"`
	NVoters         *float64             `json:"n_voters,omitempty"`
	VoterBlocs      map[string]VoterBloc `json:"voterBlocs"`
	Slates          map[string]Slate     `json:"slates"`
	Election        Election             `json:"election"`
	BallotGenerator string               `json:"ballotGenerator"`
	Trials          float64              `json:"trials"`
	CreatedAt       string               `json:"createdAt"`
	Meta            *Meta                `json:"meta,omitempty"`
}

// Voters returns the electorate size from whichever field was supplied.
func (r SimulationRequest) Voters() (float64, bool) {
	if r.NumVoters != nil {
		return *r.NumVoters, true
	}
	if r.NVoters != nil {
		return *r.NVoters, true
	}
	return 0, false
}

type VoterBloc struct {
	Proportion float64            `json:"proportion"`
	Preference map[string]string  `json:"preference"`
	Cohesion   map[string]float64 `json:"cohesion"`
}

type Slate struct {
	NumCandidates float64 `json:"numCandidates"`
}

type Election struct {
	System          string  `json:"system"`
	NumSeats        float64 `json:"numSeats"`
	MaxBallotLength float64 `json:"maxBallotLength"`
}

// Meta carries display hints for the web app; the simulator ignores it.
type Meta struct {
	SlateColors map[string]string `json:"slateColors"`
	BlocColors  map[string]string `json:"blocColors"`
}

// Response types

// Envelope is the function-style response: a status code, headers, and a
// JSON-encoded body string.
type Envelope struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

type SuccessBody struct {
	Message string    `json:"message"`
	Results Histogram `json:"results"`
}

type FailureBody struct {
	Message string `json:"message"`
	Errors  string `json:"errors"`
}

// Domain types

// Histogram maps slate -> seats won -> number of trials.
type Histogram map[string]map[int]int

// SlateSummary condenses one slate's histogram.
type SlateSummary struct {
	Trials int     `json:"trials"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P10    float64 `json:"p10"`
	P90    float64 `json:"p90"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// RunRecord is the document a result sink stores under the request id.
type RunRecord struct {
	Status  string          `json:"status"`
	Results Histogram       `json:"results,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type RunResponse struct {
	ID      string                  `json:"id"`
	Record  RunRecord               `json:"record"`
	Summary map[string]SlateSummary `json:"summary,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
