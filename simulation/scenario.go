// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package simulation

import (
	"fmt"

	"github.com/danielhkuo/votekit-sim/models"
	"github.com/danielhkuo/votekit-sim/prefmodel"
)

// System is an electoral rule.
type System int

const (
	RankedChoiceMultiwinner System = iota + 1
	BlocScoring
)

func (s System) String() string {
	switch s {
	case RankedChoiceMultiwinner:
		return models.SystemSTV
	case BlocScoring:
		return models.SystemBlocPlurality
	default:
		return fmt.Sprintf("System(%d)", int(s))
	}
}

// ParseSystem maps a request's election system name to a System.
func ParseSystem(name string) (System, error) {
	switch name {
	case models.SystemSTV:
		return RankedChoiceMultiwinner, nil
	case models.SystemBlocPlurality:
		return BlocScoring, nil
	default:
		return 0, fmt.Errorf("%w: unknown election system %q", ErrInvalidArgument, name)
	}
}

// Strategy is a ballot generation model.
type Strategy int

const (
	SlateBradleyTerry Strategy = iota + 1
	SlatePlackettLuce
	CambridgeSampler
)

func (s Strategy) String() string {
	switch s {
	case SlateBradleyTerry:
		return models.GeneratorSlateBT
	case SlatePlackettLuce:
		return models.GeneratorSlatePL
	case CambridgeSampler:
		return models.GeneratorCambridge
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps a request's ballot generator name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case models.GeneratorSlateBT:
		return SlateBradleyTerry, nil
	case models.GeneratorSlatePL:
		return SlatePlackettLuce, nil
	case models.GeneratorCambridge:
		return CambridgeSampler, nil
	default:
		return 0, fmt.Errorf("%w: unknown ballot generator %q", ErrInvalidArgument, name)
	}
}

// ElectionSpec describes the election each trial runs.
type ElectionSpec struct {
	System          System
	Seats           int
	MaxBallotLength int
}

// Scenario is a normalised request, ready to simulate.
type Scenario struct {
	Config   *prefmodel.Config
	Election ElectionSpec
	Strategy Strategy
	Trials   int
}

// Outcome is the number of seats each slate won in one trial.
type Outcome map[string]int
