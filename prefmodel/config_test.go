// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package prefmodel

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func twoSlateConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := New(
		100,
		map[string][]string{
			"A": {"A_0", "A_1", "A_2"},
			"B": {"B_0", "B_1"},
		},
		map[string]float64{"x": 0.6, "y": 0.4},
		map[string]map[string]float64{
			"x": {"A": 0.8, "B": 0.2},
			"y": {"A": 0.3, "B": 0.7},
		},
		testRand(),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = cfg.SetConcentrationParameters(map[string]map[string]Level{
		"x": {"A": LevelStrong, "B": LevelUniform},
		"y": {"A": LevelAllBetsOff, "B": LevelStrong},
	})
	if err != nil {
		t.Fatalf("SetConcentrationParameters() error = %v", err)
	}
	return cfg
}

func TestNew(t *testing.T) {
	slates := map[string][]string{"A": {"A_0"}, "B": {"B_0"}}
	props := map[string]float64{"x": 1}
	cohesion := map[string]map[string]float64{"x": {"A": 0.5, "B": 0.5}}

	tests := []struct {
		name     string
		voters   int
		slates   map[string][]string
		props    map[string]float64
		cohesion map[string]map[string]float64
		wantErr  string
	}{
		{"valid", 10, slates, props, cohesion, ""},
		{"zero voters", 0, slates, props, cohesion, "voter count must be positive"},
		{"no slates", 10, map[string][]string{}, props, map[string]map[string]float64{"x": {}}, "at least one slate"},
		{"no blocs", 10, slates, map[string]float64{}, map[string]map[string]float64{}, "at least one voter bloc"},
		{"empty slate", 10, map[string][]string{"A": {"A_0"}, "B": {}}, props, cohesion, `slate "B" has no candidates`},
		{"shared candidate", 10, map[string][]string{"A": {"c"}, "B": {"c"}}, props, cohesion, `candidate "c" appears in slates`},
		{"missing cohesion bloc", 10, slates, props, map[string]map[string]float64{}, `bloc "x" has no cohesion mapping`},
		{"missing cohesion slate", 10, slates, props, map[string]map[string]float64{"x": {"A": 1}}, `bloc "x" has no cohesion for slate "B"`},
		{"unknown cohesion slate", 10, slates, props, map[string]map[string]float64{"x": {"A": 0.5, "B": 0.3, "C": 0.2}}, `unknown slate "C"`},
		{"unknown cohesion bloc", 10, slates, props, map[string]map[string]float64{"x": {"A": 0.5, "B": 0.5}, "z": {"A": 1, "B": 0}}, `unknown bloc "z"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := New(tt.voters, tt.slates, tt.props, tt.cohesion, testRand())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}
				if cfg.State() != nil {
					t.Error("New() drew a preference state")
				}
				return
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("New() error = %v, want *ConfigError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNew_NilRand(t *testing.T) {
	cfg, err := New(5, map[string][]string{"A": {"A_0", "A_1"}}, map[string]float64{"x": 1},
		map[string]map[string]float64{"x": {"A": 1}}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := cfg.SetConcentrationParameters(map[string]map[string]Level{"x": {"A": LevelUniform}}); err != nil {
		t.Fatalf("SetConcentrationParameters() error = %v", err)
	}
	cfg.ResamplePreferenceState()
	if cfg.State() == nil {
		t.Error("ResamplePreferenceState() left state nil")
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Problems: []string{"first", "second"}}
	if got, want := err.Error(), "invalid config: first; second"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSetConcentrationParameters(t *testing.T) {
	cfg := twoSlateConfig(t)

	want := map[string]map[string]float64{
		"x": {"A": 0.5, "B": 2.0},
		"y": {"A": 1.0, "B": 0.5},
	}
	if diff := cmp.Diff(want, cfg.ConcentrationParameters); diff != "" {
		t.Errorf("ConcentrationParameters mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name    string
		levels  map[string]map[string]Level
		wantErr string
	}{
		{"missing pair", map[string]map[string]Level{
			"x": {"A": LevelStrong, "B": LevelStrong},
			"y": {"A": LevelStrong},
		}, `bloc "y" has no preference level for slate "B"`},
		{"unknown level", map[string]map[string]Level{
			"x": {"A": LevelStrong, "B": "lukewarm"},
			"y": {"A": LevelStrong, "B": LevelStrong},
		}, `unknown preference level "lukewarm"`},
		{"unknown bloc", map[string]map[string]Level{
			"x": {"A": LevelStrong, "B": LevelStrong},
			"y": {"A": LevelStrong, "B": LevelStrong},
			"z": {"A": LevelStrong, "B": LevelStrong},
		}, `unknown bloc "z"`},
		{"unknown slate", map[string]map[string]Level{
			"x": {"A": LevelStrong, "B": LevelStrong, "C": LevelStrong},
			"y": {"A": LevelStrong, "B": LevelStrong},
		}, `unknown slate "C"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := twoSlateConfig(t)
			before := cfg.ConcentrationParameters

			err := cfg.SetConcentrationParameters(tt.levels)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("SetConcentrationParameters() error = %v, want %q", err, tt.wantErr)
			}
			if !cmp.Equal(before, cfg.ConcentrationParameters) {
				t.Error("failed SetConcentrationParameters() changed the parameters")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"cohesion for unknown slate", func(c *Config) {
			c.CohesionMapping["x"]["C"] = 0.1
		}, `unknown slate "C"`},
		{"cohesion out of range", func(c *Config) {
			c.CohesionMapping["y"]["A"] = 1.5
		}, "must be within [0, 1]"},
		{"negative proportion", func(c *Config) {
			c.BlocProportions["x"] = -1
		}, "proportion must be a positive number"},
		{"proportions overflow", func(c *Config) {
			c.BlocProportions["x"] = 1e308
			c.BlocProportions["y"] = 1e308
		}, "bloc proportions must sum to a finite number"},
		{"infinite proportion", func(c *Config) {
			c.BlocProportions["x"] = math.Inf(1)
		}, "proportion must be a positive number"},
		{"zero voters", func(c *Config) {
			c.VoterCount = 0
		}, "voter count must be positive"},
		{"parameters unset", func(c *Config) {
			c.ConcentrationParameters = nil
		}, "concentration parameters are not set"},
		{"parameter missing", func(c *Config) {
			delete(c.ConcentrationParameters["x"], "B")
		}, `no concentration parameter for slate "B"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := twoSlateConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				if !cfg.IsValid() {
					t.Error("IsValid() = false, want true")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
			if cfg.IsValid() {
				t.Error("IsValid() = true, want false")
			}
		})
	}
}

func TestResamplePreferenceState(t *testing.T) {
	cfg := twoSlateConfig(t)
	cfg.ResamplePreferenceState()
	state := cfg.State()

	for _, bloc := range cfg.Blocs() {
		for _, slate := range cfg.Slates() {
			support := state[bloc][slate]
			if len(support) != len(cfg.SlateToCandidates[slate]) {
				t.Fatalf("state[%s][%s] has %d entries, want %d", bloc, slate, len(support), len(cfg.SlateToCandidates[slate]))
			}
			sum := 0.0
			for cand, v := range support {
				if !strings.HasPrefix(cand, slate+"_") {
					t.Errorf("state[%s][%s] holds foreign candidate %q", bloc, slate, cand)
				}
				if v < 0 {
					t.Errorf("support for %s = %v, want non-negative", cand, v)
				}
				sum += v
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("state[%s][%s] sums to %v, want 1", bloc, slate, sum)
			}
		}
	}

	cfg.ResamplePreferenceState()
	if cmp.Equal(state, cfg.State()) {
		t.Error("ResamplePreferenceState() produced an identical state")
	}
}

func TestSnapshot(t *testing.T) {
	cfg := twoSlateConfig(t)
	cfg.ResamplePreferenceState()

	snap := cfg.Snapshot(rand.New(rand.NewPCG(9, 9)))
	if snap.State() != nil {
		t.Error("Snapshot() copied the sampled state")
	}
	if diff := cmp.Diff(cfg.ConcentrationParameters, snap.ConcentrationParameters); diff != "" {
		t.Errorf("Snapshot() parameters mismatch (-want +got):\n%s", diff)
	}

	snap.CohesionMapping["x"]["A"] = 0
	snap.SlateToCandidates["A"][0] = "changed"
	snap.ConcentrationParameters["y"]["B"] = 99
	if cfg.CohesionMapping["x"]["A"] != 0.8 {
		t.Error("Snapshot() shares cohesion with the original")
	}
	if cfg.SlateToCandidates["A"][0] != "A_0" {
		t.Error("Snapshot() shares candidate slices with the original")
	}
	if cfg.ConcentrationParameters["y"]["B"] != 0.5 {
		t.Error("Snapshot() shares concentration parameters with the original")
	}
}

func TestSnapshot_SameSeedSameDraws(t *testing.T) {
	cfg := twoSlateConfig(t)
	a := cfg.Snapshot(rand.New(rand.NewPCG(3, 4)))
	b := cfg.Snapshot(rand.New(rand.NewPCG(3, 4)))

	for i := 0; i < 3; i++ {
		a.ResamplePreferenceState()
		b.ResamplePreferenceState()
		if diff := cmp.Diff(a.State(), b.State()); diff != "" {
			t.Fatalf("draw %d differs (-a +b):\n%s", i, diff)
		}
	}
}

func TestBlocVoterCounts(t *testing.T) {
	tests := []struct {
		name   string
		voters int
		props  map[string]float64
		want   map[string]int
	}{
		{"even split", 100, map[string]float64{"x": 0.5, "y": 0.5}, map[string]int{"x": 50, "y": 50}},
		{"remainder to largest fraction", 7, map[string]float64{"x": 1, "y": 2}, map[string]int{"x": 2, "y": 5}},
		{"tied remainders in bloc order", 7, map[string]float64{"x": 1, "y": 1}, map[string]int{"x": 4, "y": 3}},
		{"thirds", 100, map[string]float64{"x": 1, "y": 1, "z": 1}, map[string]int{"x": 34, "y": 33, "z": 33}},
		{"unnormalised weights", 9, map[string]float64{"x": 2, "y": 1}, map[string]int{"x": 6, "y": 3}},
		{"weights near the float limit", 100, map[string]float64{"x": 1e308, "y": 1e308}, map[string]int{"x": 50, "y": 50}},
		{"one weight near the float limit", 10, map[string]float64{"x": 1e308, "y": 1}, map[string]int{"x": 10, "y": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cohesion := make(map[string]map[string]float64)
			for b := range tt.props {
				cohesion[b] = map[string]float64{"A": 1}
			}
			cfg, err := New(tt.voters, map[string][]string{"A": {"A_0"}}, tt.props, cohesion, testRand())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			got := cfg.BlocVoterCounts()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BlocVoterCounts() mismatch (-want +got):\n%s", diff)
			}
			total := 0
			for b, n := range got {
				if n < 0 {
					t.Errorf("bloc %s has %d voters", b, n)
				}
				total += n
			}
			if total != tt.voters {
				t.Errorf("BlocVoterCounts() sums to %d, want %d", total, tt.voters)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	cfg := twoSlateConfig(t)
	want := []string{"A_0", "A_1", "A_2", "B_0", "B_1"}
	if diff := cmp.Diff(want, cfg.Candidates()); diff != "" {
		t.Errorf("Candidates() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, cfg.Blocs()); diff != "" {
		t.Errorf("Blocs() mismatch (-want +got):\n%s", diff)
	}
}

func TestSampleDirichlet(t *testing.T) {
	rng := testRand()
	for _, alpha := range []float64{0.5, 1, 2, 0.01} {
		for n := 1; n <= 5; n++ {
			draw := sampleDirichlet(rng, alpha, n)
			if len(draw) != n {
				t.Fatalf("sampleDirichlet(%v, %d) length = %d", alpha, n, len(draw))
			}
			sum := 0.0
			for _, v := range draw {
				if v < 0 || math.IsNaN(v) {
					t.Fatalf("sampleDirichlet(%v, %d) component = %v", alpha, n, v)
				}
				sum += v
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("sampleDirichlet(%v, %d) sums to %v", alpha, n, sum)
			}
		}
	}

	if got := sampleDirichlet(rng, 0, 4); !cmp.Equal(got, []float64{0.25, 0.25, 0.25, 0.25}) {
		t.Errorf("sampleDirichlet(0, 4) = %v, want uniform", got)
	}
	if got := sampleDirichlet(rng, 1, 0); len(got) != 0 {
		t.Errorf("sampleDirichlet(1, 0) = %v, want empty", got)
	}
}

func TestSampleDirichlet_Mean(t *testing.T) {
	rng := testRand()
	const draws = 5000
	for _, alpha := range []float64{0.5, 2} {
		sums := make([]float64, 4)
		for i := 0; i < draws; i++ {
			for j, v := range sampleDirichlet(rng, alpha, len(sums)) {
				sums[j] += v
			}
		}
		for j, sum := range sums {
			if mean := sum / draws; math.Abs(mean-0.25) > 0.02 {
				t.Errorf("sampleDirichlet(%v, 4) component %d mean = %v, want about 0.25", alpha, j, mean)
			}
		}
	}
}

func TestSampleDirichlet_SameSeedSameDraw(t *testing.T) {
	a := sampleDirichlet(testRand(), 0.5, 6)
	b := sampleDirichlet(testRand(), 0.5, 6)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different draws (-a +b):\n%s", diff)
	}
}
