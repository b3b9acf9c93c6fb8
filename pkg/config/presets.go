package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tecu23/chessclock/pkg/chess"
)

type preset struct {
	rule      chess.RuleSet
	mainTime  time.Duration
	increment time.Duration
	periods   int
}

var presets = map[string]preset{
	"bullet":    {chess.SuddenDeath, time.Minute, 0, 0},
	"blitz":     {chess.Fischer, 5 * time.Minute, 3 * time.Second, 0},
	"rapid":     {chess.Fischer, 15 * time.Minute, 10 * time.Second, 0},
	"bronstein": {chess.Bronstein, 5 * time.Minute, 3 * time.Second, 0},
	"hourglass": {chess.Hourglass, time.Minute, 0, 0},
	"byoyomi":   {chess.ByoYomi, 10 * time.Minute, 30 * time.Second, 5},
}

// Preset returns a built-in time control by name
func Preset(name string) (chess.TimeControl, error) {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return chess.TimeControl{}, fmt.Errorf("unknown preset %q (have %v): %w", name, PresetNames(), chess.ErrInvalidArgument)
	}

	return chess.NewTimeControl(p.rule, p.mainTime, p.increment, p.periods)
}

// PresetNames lists the built-in presets in alphabetical order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
