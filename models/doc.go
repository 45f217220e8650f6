// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response and stored record types.

# Request Types

SimulationRequest is the event a client submits:

	{
	  "id": "test-123",
	  "name": "Test Run",
	  "numVoters": 100,
	  "voterBlocs": {
	    "bloc1": {
	      "proportion": 0.5,
	      "preference": {"slate1": "all_bets_off", "slate2": "strong"},
	      "cohesion": {"slate1": 0.7, "slate2": 0.3}
	    }
	  },
	  "slates": {"slate1": {"numCandidates": 3}},
	  "election": {"system": "STV", "numSeats": 5, "maxBallotLength": 6},
	  "ballotGenerator": "sPL",
	  "trials": 100,
	  "createdAt": "1700000000000"
	}

The voter count may be sent as numVoters or n_voters; Voters returns
whichever is present. Numbers are float64 because they arrive as JSON
numbers; whole-number checks happen during normalization. Meta holds
display colours for the web app and is ignored by the simulator.

# Response Types

Envelope is the function-style response: statusCode, headers, and body as
a JSON string. The body decodes to SuccessBody or FailureBody.

Histogram maps slate → seats won → number of trials. JSON object keys are
strings, so seat counts appear as "0", "1", ...

# Stored Records

RunRecord is what a result sink stores under the request id, with status
"success" (results and the original event as config) or "error" (error
text). RunResponse adds per-slate SlateSummary values for GET /runs/{id}.

# Constants

Election systems: SystemSTV, SystemBlocPlurality

Ballot generators: GeneratorSlateBT, GeneratorSlatePL, GeneratorCambridge

Response messages: MessageInvalidEvent, MessageInvalidConfig,
MessageComplete
*/
package models
