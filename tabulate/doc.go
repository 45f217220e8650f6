// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tabulate elects candidates from ballot profiles: STV with
// fractional surplus transfer, and scoring with a tie-break policy.
package tabulate
