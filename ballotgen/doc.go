// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ballotgen generates ranked ballot profiles from a preference model.
//
// Each voter's ballot is built in two steps: a ballot type (which slate fills
// each ranking position) drawn by the generator, then candidates within each
// slate ordered by Plackett-Luce on the bloc's sampled support. Generators
// differ only in how they draw the ballot type:
//
//   - SlatePL picks each next slate in proportion to the bloc's cohesion.
//   - SlateBT weights whole arrangements by a Bradley-Terry product of
//     cohesion ratios.
//   - Cambridge repeats the previous slate with probability equal to its
//     cohesion and otherwise switches.
package ballotgen
