// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package prefmodel

import (
	"math"
	"math/rand/v2"
	"slices"
	"sort"
)

// Level is a symbolic preference strength a bloc holds toward a slate.
type Level string

const (
	LevelAllBetsOff Level = "all_bets_off"
	LevelStrong     Level = "strong"
	LevelUniform    Level = "unif"
)

// concentration maps each level to the Dirichlet concentration used to draw
// within-slate support. Lower values concentrate support on fewer candidates.
var concentration = map[Level]float64{
	LevelAllBetsOff: 1.0,
	LevelStrong:     0.5,
	LevelUniform:    2.0,
}

// Concentration returns the concentration parameter for a level.
func Concentration(l Level) (float64, bool) {
	v, ok := concentration[l]
	return v, ok
}

// State is a sampled preference state: bloc -> slate -> candidate -> support.
// Supports for one (bloc, slate) pair sum to 1.
type State map[string]map[string]map[string]float64

// Config is the preference model for one simulation request.
// It is owned by a single goroutine; use Snapshot to hand a copy to another.
type Config struct {
	VoterCount              int
	SlateToCandidates       map[string][]string
	BlocProportions         map[string]float64
	CohesionMapping         map[string]map[string]float64
	ConcentrationParameters map[string]map[string]float64

	state State
	rng   *rand.Rand
}

// New builds a preference model and checks its structure.
// A nil rng gets a randomly seeded PCG source.
func New(voterCount int, slateToCandidates map[string][]string, blocProportions map[string]float64, cohesion map[string]map[string]float64, rng *rand.Rand) (*Config, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	cfg := &Config{
		VoterCount:        voterCount,
		SlateToCandidates: slateToCandidates,
		BlocProportions:   blocProportions,
		CohesionMapping:   cohesion,
		rng:               rng,
	}

	var p problems
	if voterCount <= 0 {
		p.addf("voter count must be positive, got %d", voterCount)
	}
	if len(slateToCandidates) == 0 {
		p.addf("at least one slate is required")
	}
	if len(blocProportions) == 0 {
		p.addf("at least one voter bloc is required")
	}

	seen := make(map[string]string)
	for _, slate := range cfg.Slates() {
		candidates := slateToCandidates[slate]
		if len(candidates) == 0 {
			p.addf("slate %q has no candidates", slate)
		}
		for _, c := range candidates {
			if other, dup := seen[c]; dup {
				p.addf("candidate %q appears in slates %q and %q", c, other, slate)
				continue
			}
			seen[c] = slate
		}
	}

	p = append(p, cfg.keyProblems()...)
	if err := p.err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Blocs returns bloc names in sorted order.
func (c *Config) Blocs() []string {
	return sortedKeys(c.BlocProportions)
}

// Slates returns slate names in sorted order.
func (c *Config) Slates() []string {
	return sortedKeys(c.SlateToCandidates)
}

// Candidates returns every candidate, grouped by slate in slate order.
func (c *Config) Candidates() []string {
	var out []string
	for _, s := range c.Slates() {
		out = append(out, c.SlateToCandidates[s]...)
	}
	return out
}

// SetConcentrationParameters converts symbolic preference levels into
// concentration parameters. Every (bloc, slate) pair must be covered.
func (c *Config) SetConcentrationParameters(levels map[string]map[string]Level) error {
	var p problems
	params := make(map[string]map[string]float64, len(c.BlocProportions))

	for _, bloc := range c.Blocs() {
		params[bloc] = make(map[string]float64, len(c.SlateToCandidates))
		for _, slate := range c.Slates() {
			level, ok := levels[bloc][slate]
			if !ok {
				p.addf("bloc %q has no preference level for slate %q", bloc, slate)
				continue
			}
			alpha, ok := Concentration(level)
			if !ok {
				p.addf("bloc %q has unknown preference level %q for slate %q", bloc, level, slate)
				continue
			}
			params[bloc][slate] = alpha
		}
	}

	for _, bloc := range sortedKeys(levels) {
		if _, ok := c.BlocProportions[bloc]; !ok {
			p.addf("preference levels reference unknown bloc %q", bloc)
			continue
		}
		for _, slate := range sortedKeys(levels[bloc]) {
			if _, ok := c.SlateToCandidates[slate]; !ok {
				p.addf("bloc %q has a preference level for unknown slate %q", bloc, slate)
			}
		}
	}

	if err := p.err(); err != nil {
		return err
	}
	c.ConcentrationParameters = params
	return nil
}

// Validate checks the structural invariants and returns a *ConfigError
// describing every violation.
func (c *Config) Validate() error {
	var p problems
	if c.VoterCount <= 0 {
		p.addf("voter count must be positive, got %d", c.VoterCount)
	}
	p = append(p, c.keyProblems()...)

	propTotal := 0.0
	for _, bloc := range c.Blocs() {
		prop := c.BlocProportions[bloc]
		if !(prop > 0) || math.IsInf(prop, 0) {
			p.addf("bloc %q proportion must be a positive number, got %v", bloc, prop)
		} else {
			propTotal += prop
		}
		for _, slate := range sortedKeys(c.CohesionMapping[bloc]) {
			v := c.CohesionMapping[bloc][slate]
			if !(v >= 0 && v <= 1) {
				p.addf("bloc %q cohesion toward slate %q must be within [0, 1], got %v", bloc, slate, v)
			}
		}
	}
	if math.IsInf(propTotal, 0) {
		p.addf("bloc proportions must sum to a finite number")
	}

	if c.ConcentrationParameters == nil {
		p.addf("concentration parameters are not set")
	} else {
		for _, bloc := range c.Blocs() {
			for _, slate := range c.Slates() {
				alpha, ok := c.ConcentrationParameters[bloc][slate]
				if !ok {
					p.addf("bloc %q has no concentration parameter for slate %q", bloc, slate)
					continue
				}
				if !(alpha > 0) || math.IsInf(alpha, 0) {
					p.addf("bloc %q concentration for slate %q must be positive, got %v", bloc, slate, alpha)
				}
			}
		}
	}

	return p.err()
}

// IsValid reports whether Validate passes.
func (c *Config) IsValid() bool {
	return c.Validate() == nil
}

// keyProblems compares the bloc and slate key sets of the proportion and
// cohesion maps against each other and against the slate list.
func (c *Config) keyProblems() problems {
	var p problems
	for _, bloc := range c.Blocs() {
		if _, ok := c.CohesionMapping[bloc]; !ok {
			p.addf("bloc %q has no cohesion mapping", bloc)
		}
	}
	for _, bloc := range sortedKeys(c.CohesionMapping) {
		if _, ok := c.BlocProportions[bloc]; !ok {
			p.addf("cohesion mapping references unknown bloc %q", bloc)
		}
		for _, slate := range c.Slates() {
			if _, ok := c.CohesionMapping[bloc][slate]; !ok {
				p.addf("bloc %q has no cohesion for slate %q", bloc, slate)
			}
		}
		for _, slate := range sortedKeys(c.CohesionMapping[bloc]) {
			if _, ok := c.SlateToCandidates[slate]; !ok {
				p.addf("bloc %q has cohesion for unknown slate %q", bloc, slate)
			}
		}
	}
	return p
}

// ResamplePreferenceState replaces the sampled state with a fresh draw.
// The draw depends only on the concentration parameters and the config's
// random source, never on the previous state.
func (c *Config) ResamplePreferenceState() {
	c.state = Sample(c.ConcentrationParameters, c.SlateToCandidates, c.rng)
}

// State returns the current sampled state, or nil before the first draw.
func (c *Config) State() State {
	return c.state
}

// Snapshot deep-copies the model parameters into a new Config with its own
// random source and no sampled state.
func (c *Config) Snapshot(rng *rand.Rand) *Config {
	out := &Config{
		VoterCount:        c.VoterCount,
		SlateToCandidates: make(map[string][]string, len(c.SlateToCandidates)),
		BlocProportions:   make(map[string]float64, len(c.BlocProportions)),
		CohesionMapping:   copyNested(c.CohesionMapping),
		rng:               rng,
	}
	for s, cands := range c.SlateToCandidates {
		out.SlateToCandidates[s] = slices.Clone(cands)
	}
	for b, v := range c.BlocProportions {
		out.BlocProportions[b] = v
	}
	if c.ConcentrationParameters != nil {
		out.ConcentrationParameters = copyNested(c.ConcentrationParameters)
	}
	return out
}

// BlocVoterCounts splits VoterCount across blocs in proportion to their
// weights. Largest remainders absorb rounding so the counts sum to VoterCount.
func (c *Config) BlocVoterCounts() map[string]int {
	blocs := c.Blocs()
	counts := make(map[string]int, len(blocs))

	// weights are scaled by the largest so the sum stays finite
	largest := 0.0
	for _, b := range blocs {
		if w := c.BlocProportions[b]; w > largest && !math.IsInf(w, 0) {
			largest = w
		}
	}
	if largest <= 0 {
		return counts
	}
	weights := make(map[string]float64, len(blocs))
	total := 0.0
	for _, b := range blocs {
		if w := c.BlocProportions[b]; w > 0 && !math.IsInf(w, 0) {
			weights[b] = w / largest
			total += weights[b]
		}
	}

	type share struct {
		bloc string
		rem  float64
	}
	shares := make([]share, 0, len(blocs))
	assigned := 0
	for _, b := range blocs {
		exact := float64(c.VoterCount) * (weights[b] / total)
		whole := int(math.Floor(exact))
		counts[b] = whole
		assigned += whole
		shares = append(shares, share{bloc: b, rem: exact - float64(whole)})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].rem > shares[j].rem
	})
	for i := 0; assigned < c.VoterCount; i++ {
		counts[shares[i%len(shares)].bloc]++
		assigned++
	}
	return counts
}

// Sample draws a preference state from concentration parameters. Each
// (bloc, slate) support vector is a symmetric Dirichlet draw over the
// slate's candidates.
func Sample(params map[string]map[string]float64, slateToCandidates map[string][]string, rng *rand.Rand) State {
	state := make(State, len(params))
	for _, bloc := range sortedKeys(params) {
		state[bloc] = make(map[string]map[string]float64, len(slateToCandidates))
		for _, slate := range sortedKeys(slateToCandidates) {
			candidates := slateToCandidates[slate]
			draw := sampleDirichlet(rng, params[bloc][slate], len(candidates))
			support := make(map[string]float64, len(candidates))
			for i, cand := range candidates {
				support[cand] = draw[i]
			}
			state[bloc][slate] = support
		}
	}
	return state
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyNested(m map[string]map[string]float64) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(m))
	for k, inner := range m {
		cp := make(map[string]float64, len(inner))
		for ik, v := range inner {
			cp[ik] = v
		}
		out[k] = cp
	}
	return out
}
