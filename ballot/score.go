// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

// ScoreBallot assigns a score to each candidate it mentions.
type ScoreBallot struct {
	Scores map[string]float64
	Weight float64
}

// ScoreProfile is a set of weighted score ballots.
type ScoreProfile struct {
	Candidates []string
	Ballots    []ScoreBallot
}

// TopK returns a scoring vector awarding one point to each of the first k
// ranking positions.
func TopK(k int) []float64 {
	if k < 0 {
		k = 0
	}
	v := make([]float64, k)
	for i := range v {
		v[i] = 1
	}
	return v
}

// ScoreRanked converts a ranked profile into a scored profile. The candidate
// at position i receives vector[i]; positions past the vector score zero and
// are omitted.
func ScoreRanked(p *Profile, vector []float64) *ScoreProfile {
	out := &ScoreProfile{
		Candidates: p.Candidates,
		Ballots:    make([]ScoreBallot, 0, len(p.Ballots)),
	}
	for _, b := range p.Ballots {
		scores := make(map[string]float64, len(vector))
		for i, cand := range b.Ranking {
			if i >= len(vector) {
				break
			}
			if vector[i] != 0 {
				scores[cand] += vector[i]
			}
		}
		out.Ballots = append(out.Ballots, ScoreBallot{Scores: scores, Weight: b.Weight})
	}
	return out
}
