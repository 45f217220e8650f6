// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package prefmodel holds the preference model of a simulation: voter count,
// slates and candidates, bloc proportions, bloc cohesion toward slates, and
// per-(bloc, slate) Dirichlet concentration parameters.
//
// Preference levels map to concentration parameters:
//
//	all_bets_off  1.0
//	strong        0.5
//	unif          2.0
//
// ResamplePreferenceState draws a fresh preference state (bloc → slate →
// candidate → support) from those parameters. Structural problems are
// reported as a *ConfigError listing every violation.
package prefmodel
