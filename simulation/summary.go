// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package simulation

import (
	"sort"

	"github.com/danielhkuo/votekit-sim/models"
)

// Summarize computes per-slate statistics over a histogram.
func Summarize(h models.Histogram) map[string]models.SlateSummary {
	out := make(map[string]models.SlateSummary, len(h))
	for slate, buckets := range h {
		out[slate] = summarizeSlate(buckets)
	}
	return out
}

// distribution is a sorted run-length view of a slate's seat buckets.
// cum[i] is the number of trials with seats[0..i].
type distribution struct {
	seats []int
	cum   []int
}

func newDistribution(buckets map[int]int) distribution {
	var d distribution
	for s, n := range buckets {
		if n > 0 {
			d.seats = append(d.seats, s)
		}
	}
	sort.Ints(d.seats)

	d.cum = make([]int, len(d.seats))
	total := 0
	for i, s := range d.seats {
		total += buckets[s]
		d.cum[i] = total
	}
	return d
}

func (d distribution) trials() int {
	if len(d.cum) == 0 {
		return 0
	}
	return d.cum[len(d.cum)-1]
}

// at returns the seat count of the k-th trial in sorted order.
func (d distribution) at(k int) float64 {
	i := sort.SearchInts(d.cum, k+1)
	return float64(d.seats[i])
}

func summarizeSlate(buckets map[int]int) models.SlateSummary {
	d := newDistribution(buckets)
	n := d.trials()
	if n == 0 {
		return models.SlateSummary{}
	}

	return models.SlateSummary{
		Trials: n,
		Mean:   mean(d, buckets),
		Median: percentile(d, 0.5),
		P10:    percentile(d, 0.1),
		P90:    percentile(d, 0.9),
		Min:    d.seats[0],
		Max:    d.seats[len(d.seats)-1],
	}
}

// percentile calculates the p-th percentile of the distribution
// p should be in range [0, 1]
func percentile(d distribution, p float64) float64 {
	n := d.trials()
	if n == 0 {
		return 0.0
	}
	if n == 1 {
		return d.at(0)
	}

	// Linear interpolation between closest ranks
	rank := p * float64(n-1)
	lower := int(rank)
	upper := lower + 1

	if upper >= n {
		return d.at(n - 1)
	}

	weight := rank - float64(lower)
	return d.at(lower)*(1-weight) + d.at(upper)*weight
}

// mean calculates the arithmetic mean
func mean(d distribution, buckets map[int]int) float64 {
	n := d.trials()
	if n == 0 {
		return 0.0
	}

	sum := 0.0
	for _, s := range d.seats {
		sum += float64(s) * float64(buckets[s])
	}
	return sum / float64(n)
}
