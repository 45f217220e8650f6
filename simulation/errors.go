// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package simulation

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/votekit-sim/prefmodel"
)

// ErrInvalidArgument marks an unrecognised generation strategy or election
// system reaching the harness directly.
var ErrInvalidArgument = errors.New("invalid argument")

var errTrialNotRun = errors.New("trial did not run")

// SimulationError reports that a run produced no histogram because a trial
// failed. Partial results are discarded.
type SimulationError struct {
	Trial int
	Err   error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation failed at trial %d: %v", e.Trial, e.Err)
}

func (e *SimulationError) Unwrap() error {
	return e.Err
}

type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &prefmodel.ConfigError{Problems: p}
}
