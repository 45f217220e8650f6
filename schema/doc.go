// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package schema validates simulation events against an embedded JSON
// Schema (draft 2020-12).
package schema
