// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"slices"
	"strings"
)

// Ballot is one ranking shared by Weight voters. Ranking[0] is the first
// preference.
type Ballot struct {
	Ranking []string
	Weight  float64
}

// Profile is a set of weighted ranked ballots over a fixed candidate list.
// A Profile is treated as immutable once built.
type Profile struct {
	Candidates []string
	Ballots    []Ballot

	maxRankingLength int
}

// NewProfile builds a profile and records its maximum ranking length.
func NewProfile(candidates []string, ballots []Ballot) *Profile {
	p := &Profile{Candidates: candidates, Ballots: ballots}
	for _, b := range ballots {
		if len(b.Ranking) > p.maxRankingLength {
			p.maxRankingLength = len(b.Ranking)
		}
	}
	return p
}

// MaxRankingLength is the number of ranking positions the profile represents.
func (p *Profile) MaxRankingLength() int {
	return p.maxRankingLength
}

// TotalWeight sums ballot weights.
func (p *Profile) TotalWeight() float64 {
	total := 0.0
	for _, b := range p.Ballots {
		total += b.Weight
	}
	return total
}

// Truncate drops ranking positions beyond n. When n covers every position the
// receiver itself is returned. Otherwise a new profile is built; ballots keep
// their weights and order, and the receiver is left untouched.
func (p *Profile) Truncate(n int) *Profile {
	if n >= p.maxRankingLength {
		return p
	}
	if n < 0 {
		n = 0
	}

	ballots := make([]Ballot, len(p.Ballots))
	for i, b := range p.Ballots {
		ranking := b.Ranking
		if len(ranking) > n {
			ranking = ranking[:n]
		}
		ballots[i] = Ballot{Ranking: slices.Clone(ranking), Weight: b.Weight}
	}

	return &Profile{
		Candidates:       slices.Clone(p.Candidates),
		Ballots:          ballots,
		maxRankingLength: n,
	}
}

// Builder accumulates ballots, merging identical rankings into one weighted
// ballot. Ballots keep the order in which each ranking was first seen.
type Builder struct {
	candidates []string
	index      map[string]int
	ballots    []Ballot
}

func NewBuilder(candidates []string) *Builder {
	return &Builder{
		candidates: candidates,
		index:      make(map[string]int),
	}
}

// Add records weight voters casting ranking. The ranking slice is copied.
func (b *Builder) Add(ranking []string, weight float64) {
	key := strings.Join(ranking, "\x1f")
	if i, ok := b.index[key]; ok {
		b.ballots[i].Weight += weight
		return
	}
	b.index[key] = len(b.ballots)
	b.ballots = append(b.ballots, Ballot{Ranking: slices.Clone(ranking), Weight: weight})
}

// Profile returns the accumulated profile.
func (b *Builder) Profile() *Profile {
	return NewProfile(slices.Clone(b.candidates), b.ballots)
}
