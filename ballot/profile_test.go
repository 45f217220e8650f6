// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleProfile() *Profile {
	return NewProfile(
		[]string{"A_0", "A_1", "B_0", "B_1"},
		[]Ballot{
			{Ranking: []string{"A_0", "B_0", "A_1", "B_1"}, Weight: 3},
			{Ranking: []string{"B_1", "B_0"}, Weight: 2},
			{Ranking: []string{"A_1"}, Weight: 1.5},
		},
	)
}

func TestNewProfile(t *testing.T) {
	p := sampleProfile()
	if got := p.MaxRankingLength(); got != 4 {
		t.Errorf("MaxRankingLength() = %d, want 4", got)
	}
	if got := p.TotalWeight(); got != 6.5 {
		t.Errorf("TotalWeight() = %v, want 6.5", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want [][]string
	}{
		{"two positions", 2, [][]string{{"A_0", "B_0"}, {"B_1", "B_0"}, {"A_1"}}},
		{"one position", 1, [][]string{{"A_0"}, {"B_1"}, {"A_1"}}},
		{"negative", -1, [][]string{{}, {}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProfile()
			got := p.Truncate(tt.n)

			if got == p {
				t.Fatal("Truncate() returned the receiver")
			}
			var rankings [][]string
			for _, b := range got.Ballots {
				rankings = append(rankings, b.Ranking)
			}
			if diff := cmp.Diff(tt.want, rankings); diff != "" {
				t.Errorf("rankings mismatch (-want +got):\n%s", diff)
			}
			if len(got.Ballots) != len(p.Ballots) {
				t.Errorf("ballot count = %d, want %d", len(got.Ballots), len(p.Ballots))
			}
			if got.TotalWeight() != p.TotalWeight() {
				t.Errorf("TotalWeight() = %v, want %v", got.TotalWeight(), p.TotalWeight())
			}
			if p.MaxRankingLength() != 4 || len(p.Ballots[0].Ranking) != 4 {
				t.Error("Truncate() modified the receiver")
			}
		})
	}
}

func TestTruncate_NoOp(t *testing.T) {
	p := sampleProfile()
	for _, n := range []int{4, 5, 100} {
		if got := p.Truncate(n); got != p {
			t.Errorf("Truncate(%d) built a new profile, want the receiver", n)
		}
	}
}

func TestBuilder_MergesIdenticalRankings(t *testing.T) {
	b := NewBuilder([]string{"x", "y", "z"})
	ranking := []string{"x", "y"}
	b.Add(ranking, 1)
	b.Add([]string{"y", "x"}, 1)
	b.Add([]string{"x", "y"}, 2)
	b.Add([]string{"x"}, 1)
	ranking[0] = "z"

	p := b.Profile()
	want := []Ballot{
		{Ranking: []string{"x", "y"}, Weight: 3},
		{Ranking: []string{"y", "x"}, Weight: 1},
		{Ranking: []string{"x"}, Weight: 1},
	}
	if diff := cmp.Diff(want, p.Ballots); diff != "" {
		t.Errorf("Ballots mismatch (-want +got):\n%s", diff)
	}
	if p.TotalWeight() != 5 {
		t.Errorf("TotalWeight() = %v, want 5", p.TotalWeight())
	}
	if p.MaxRankingLength() != 2 {
		t.Errorf("MaxRankingLength() = %d, want 2", p.MaxRankingLength())
	}
}

func TestTopK(t *testing.T) {
	if diff := cmp.Diff([]float64{1, 1, 1}, TopK(3)); diff != "" {
		t.Errorf("TopK(3) mismatch (-want +got):\n%s", diff)
	}
	if got := TopK(-2); len(got) != 0 {
		t.Errorf("TopK(-2) = %v, want empty", got)
	}
}

func TestScoreRanked(t *testing.T) {
	p := sampleProfile()
	scored := ScoreRanked(p, []float64{2, 1, 0})

	want := []ScoreBallot{
		{Scores: map[string]float64{"A_0": 2, "B_0": 1}, Weight: 3},
		{Scores: map[string]float64{"B_1": 2, "B_0": 1}, Weight: 2},
		{Scores: map[string]float64{"A_1": 2}, Weight: 1.5},
	}
	if diff := cmp.Diff(want, scored.Ballots); diff != "" {
		t.Errorf("Ballots mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p.Candidates, scored.Candidates); diff != "" {
		t.Errorf("Candidates mismatch (-want +got):\n%s", diff)
	}
}
