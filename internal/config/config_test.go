package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Replay.Enabled)
	assert.Equal(t, 3, cfg.Game.Levels)
	assert.Equal(t, 20, cfg.Game.StartingHealth)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: ":9000"
  read_timeout: 30s
game:
  levels: 2
  base_radius: 5
  turn_limit: 60
logging:
  level: debug
  format: console
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 2, cfg.Game.Levels)
	assert.Equal(t, 5, cfg.Game.BaseRadius)
	assert.Equal(t, 60, cfg.Game.TurnLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)

	rules := cfg.Game.Rules()
	assert.Equal(t, 2, rules.Levels)
	assert.Equal(t, 60, rules.TurnLimit)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"zero levels", "game:\n  levels: 0\n"},
		{"radius too small", "game:\n  levels: 5\n  base_radius: 3\n"},
		{"bad log level", "logging:\n  level: verbose\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.yaml), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("ASCENT_SERVER_ADDRESS", ":7777")
	t.Setenv("ASCENT_LOGGING_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
}
