package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecu23/chessclock/pkg/chess"
)

// clearEnv unsets every variable Load reads and restores them after the test
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{EnvDebug, EnvLogFile, EnvPolicy, EnvPreset, EnvTick, EnvHeadless} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil, missingEnvFile(t))
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Headless)
	assert.Equal(t, DefaultPreset, cfg.Preset)
	assert.Empty(t, cfg.PolicyFile)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
}

func TestLoad_Flags(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"-debug", "-preset", "rapid", "-tick", "250ms", "-headless", "-save-policy", "out.hcl"}, missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "out.hcl", cfg.SavePolicy)

	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "rapid", cfg.Preset)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDebug, "true")
	t.Setenv(EnvPreset, "bullet")
	t.Setenv(EnvTick, "50ms")

	cfg, err := Load(nil, missingEnvFile(t))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "bullet", cfg.Preset)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)

	// flags win over the environment
	cfg, err = Load([]string{"-preset", "hourglass"}, missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "hourglass", cfg.Preset)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHESSCLOCK_PRESET=bronstein\nCHESSCLOCK_LOG_FILE=/tmp/clock.log\n"), 0o644))

	cfg, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, "bronstein", cfg.Preset)
	assert.Equal(t, "/tmp/clock.log", cfg.LogFile)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDebug, "maybe")

	_, err := Load(nil, missingEnvFile(t))
	assert.Error(t, err)

	clearEnv(t)
	_, err = Load([]string{"-tick", "0s"}, missingEnvFile(t))
	assert.Error(t, err)

	_, err = Load([]string{"-no-such-flag"}, missingEnvFile(t))
	assert.Error(t, err)
}

func TestConfig_TimeControl(t *testing.T) {
	cfg := &Config{Preset: "hourglass"}
	tc, err := cfg.TimeControl()
	require.NoError(t, err)
	assert.Equal(t, chess.Hourglass, tc.RuleSet)

	path := filepath.Join(t.TempDir(), "policy.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`rule_set = "sudden-death"
main_time = "3m"
`), 0o644))

	cfg.PolicyFile = path
	tc, err = cfg.TimeControl()
	require.NoError(t, err)
	assert.Equal(t, chess.SuddenDeath, tc.RuleSet)
	assert.Equal(t, 3*time.Minute, tc.InitialTime(chess.Right))
}
