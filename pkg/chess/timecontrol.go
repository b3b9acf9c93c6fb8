package chess

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidArgument is returned for negative times or period counts
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState is returned when reading rule-set specific detail
	// under a different rule set
	ErrInvalidState = errors.New("invalid state")
)

// RuleSet defines how time is credited back after a move
type RuleSet int

// All the supported rule sets
const (
	SuddenDeath RuleSet = iota
	Fischer
	Bronstein
	Hourglass
	ByoYomi
)

var ruleSetNames = [...]string{
	SuddenDeath: "sudden-death",
	Fischer:     "fischer",
	Bronstein:   "bronstein",
	Hourglass:   "hourglass",
	ByoYomi:     "byo-yomi",
}

func (r RuleSet) String() string {
	if r < 0 || int(r) >= len(ruleSetNames) {
		return fmt.Sprintf("RuleSet(%d)", int(r))
	}

	return ruleSetNames[r]
}

// ParseRuleSet converts a rule set name back into a RuleSet. Underscores,
// spaces and case are ignored so "Byo Yomi" and "byo_yomi" both work.
func ParseRuleSet(v string) (RuleSet, error) {
	norm := strings.ToLower(strings.TrimSpace(v))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)

	switch norm {
	case "byoyomi":
		return ByoYomi, nil
	case "suddendeath":
		return SuddenDeath, nil
	}

	for i, name := range ruleSetNames {
		if name == norm {
			return RuleSet(i), nil
		}
	}

	return SuddenDeath, fmt.Errorf("unknown rule set %q: %w", v, ErrInvalidArgument)
}

// TimeControl defines the time settings of both sides. It is a value type;
// DualClock keeps its own copy.
type TimeControl struct {
	RuleSet RuleSet

	mainTime   [2]time.Duration
	increment  [2]time.Duration
	byoPeriods [2]int
}

// NewTimeControl creates a time control with the same settings on both sides
func NewTimeControl(rule RuleSet, mainTime, increment time.Duration, byoPeriods int) (TimeControl, error) {
	tc := TimeControl{RuleSet: rule}

	for _, side := range Sides {
		if err := tc.SetMainTime(side, mainTime); err != nil {
			return TimeControl{}, err
		}
		if err := tc.SetIncrement(side, increment); err != nil {
			return TimeControl{}, err
		}
		if err := tc.SetByoPeriods(side, byoPeriods); err != nil {
			return TimeControl{}, err
		}
	}

	return tc, nil
}

// SetMainTime sets the base allotment for side
func (tc *TimeControl) SetMainTime(side Side, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("main time %s for %s side: %w", d, side, ErrInvalidArgument)
	}

	tc.mainTime[side] = d
	return nil
}

// SetIncrement sets the per-move increment (or byo-yomi period length) for side
func (tc *TimeControl) SetIncrement(side Side, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("increment %s for %s side: %w", d, side, ErrInvalidArgument)
	}

	tc.increment[side] = d
	return nil
}

// SetByoPeriods sets the number of byo-yomi periods for side
func (tc *TimeControl) SetByoPeriods(side Side, n int) error {
	if n < 0 {
		return fmt.Errorf("byo-yomi periods %d for %s side: %w", n, side, ErrInvalidArgument)
	}

	tc.byoPeriods[side] = n
	return nil
}

// MainTime returns the base allotment for side
func (tc TimeControl) MainTime(side Side) time.Duration { return tc.mainTime[side] }

// Increment returns the per-move increment for side
func (tc TimeControl) Increment(side Side) time.Duration { return tc.increment[side] }

// ByoPeriods returns the number of byo-yomi periods for side
func (tc TimeControl) ByoPeriods(side Side) int { return tc.byoPeriods[side] }

// InitialTime returns the time side's clock holds right after a reset.
// Fischer and Bronstein pre-credit the first increment, byo-yomi pre-credits
// every period.
func (tc TimeControl) InitialTime(side Side) time.Duration {
	switch tc.RuleSet {
	case Fischer, Bronstein:
		return tc.mainTime[side] + tc.increment[side]
	case ByoYomi:
		return tc.mainTime[side] + tc.increment[side]*time.Duration(tc.byoPeriods[side])
	default:
		return tc.mainTime[side]
	}
}

// Symmetric reports whether both sides play with the same settings. Only the
// fields the current rule set reads are compared.
func (tc TimeControl) Symmetric() bool {
	if tc.mainTime[Left] != tc.mainTime[Right] {
		return false
	}

	switch tc.RuleSet {
	case Fischer, Bronstein:
		return tc.increment[Left] == tc.increment[Right]
	case ByoYomi:
		return tc.increment[Left] == tc.increment[Right] &&
			tc.byoPeriods[Left] == tc.byoPeriods[Right]
	default:
		return true
	}
}

// Validate checks the exported RuleSet field. The per-side fields can only
// be written through the setters and are always valid.
func (tc TimeControl) Validate() error {
	if tc.RuleSet < SuddenDeath || tc.RuleSet > ByoYomi {
		return fmt.Errorf("rule set %d: %w", int(tc.RuleSet), ErrInvalidArgument)
	}

	return nil
}
