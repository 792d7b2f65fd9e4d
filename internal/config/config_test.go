package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Equal(t, "classic", cfg.Game.DefaultMode)
	assert.False(t, cfg.Game.WeightedAllocation)
	assert.True(t, cfg.Game.HintsEnabled)
	assert.Equal(t, int64(0), cfg.Game.Seed)
	assert.Equal(t, time.Second, cfg.Clock.SweepInterval)
	assert.False(t, cfg.Seats.Required)
	assert.Empty(t, cfg.Seats.Secret)
	assert.Equal(t, "info", cfg.Development.LogLevel)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9090
game:
  default_mode: chaos
  weighted_allocation: true
  seed: 42
clock:
  sweep_interval: 250ms
seats:
  required: true
  secret: s3cret
development:
  debug: true
  log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host, "unset keys keep defaults")
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "chaos", cfg.Game.DefaultMode)
	assert.True(t, cfg.Game.WeightedAllocation)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.Clock.SweepInterval)
	assert.True(t, cfg.Seats.Required)
	assert.Equal(t, "s3cret", cfg.Seats.Secret)
	assert.True(t, cfg.Development.Debug)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RANDCHESS_SERVER_PORT", "7070")
	t.Setenv("RANDCHESS_GAME_HINTS_ENABLED", "false")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.False(t, cfg.Game.HintsEnabled)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o644))

	_, err := LoadFrom(dir)
	assert.Error(t, err)
}
