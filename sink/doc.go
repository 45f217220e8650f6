// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sink stores simulation outcomes keyed by request id.
//
// Every backend writes the same record:
//
//	{"status":"success","results":{...},"config":{...}}
//	{"status":"error","error":"..."}
//
// Open picks the backend from cliparse.Config.ResultsOutput: none (Nop),
// local ({dir}/{id}.json), s3 ({bucket}/{id}.json) or sql (simulation_run
// table). Ids must be a single path segment.
package sink
