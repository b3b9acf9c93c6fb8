// Package config resolves the application settings from flags, environment
// variables (optionally loaded from a .env file) and HCL policy files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/tecu23/chessclock/pkg/chess"
)

// Environment variables read by Load. Flags take precedence.
const (
	EnvDebug    = "CHESSCLOCK_DEBUG"
	EnvLogFile  = "CHESSCLOCK_LOG_FILE"
	EnvPolicy   = "CHESSCLOCK_POLICY"
	EnvPreset   = "CHESSCLOCK_PRESET"
	EnvTick     = "CHESSCLOCK_TICK"
	EnvHeadless = "CHESSCLOCK_HEADLESS"
)

// DefaultPreset is used when neither a policy file nor a preset is given
const DefaultPreset = "blitz"

// Config holds the application settings
type Config struct {
	Debug    bool
	LogFile  string
	Headless bool

	PolicyFile string
	Preset     string

	// SavePolicy, when set, names a file the resolved time control is
	// written to instead of starting a session
	SavePolicy string

	TickInterval time.Duration
}

// Load reads envFiles (".env" when none are given; a missing file is not an
// error) and parses args on top of the environment
func Load(args []string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading env: %w", err)
	}

	debug, err := envBool(EnvDebug)
	if err != nil {
		return nil, err
	}
	headless, err := envBool(EnvHeadless)
	if err != nil {
		return nil, err
	}

	tick := 100 * time.Millisecond
	if v := os.Getenv(EnvTick); v != "" {
		tick, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTick, err)
		}
	}

	preset := os.Getenv(EnvPreset)
	if preset == "" {
		preset = DefaultPreset
	}

	cfg := &Config{}

	fs := flag.NewFlagSet("chessclock", flag.ContinueOnError)
	fs.BoolVar(&cfg.Debug, "debug", debug, "enable debug logging")
	fs.StringVar(&cfg.LogFile, "log-file", os.Getenv(EnvLogFile), "write logs to this file")
	fs.BoolVar(&cfg.Headless, "headless", headless, "read JSON commands from stdin instead of starting the terminal UI")
	fs.StringVar(&cfg.PolicyFile, "policy", os.Getenv(EnvPolicy), "HCL time control file")
	fs.StringVar(&cfg.Preset, "preset", preset, fmt.Sprintf("built-in time control %v", PresetNames()))
	fs.StringVar(&cfg.SavePolicy, "save-policy", "", "write the resolved time control to this HCL file and exit")
	fs.DurationVar(&cfg.TickInterval, "tick", tick, "display refresh interval")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("tick interval %s must be positive", cfg.TickInterval)
	}

	return cfg, nil
}

// TimeControl resolves the configured time control: the policy file when
// set, the preset otherwise
func (c *Config) TimeControl() (chess.TimeControl, error) {
	if c.PolicyFile != "" {
		return LoadTimeControl(c.PolicyFile)
	}

	return Preset(c.Preset)
}

func envBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}

	return b, nil
}
