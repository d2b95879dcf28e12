package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridbattle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesAndPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	path := writeFile(t, `
server:
  address: ":7000"
simulation:
  seed: 42
  fps: 30
  min_units: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, 30, cfg.Simulation.FPS)
	assert.Equal(t, 2, cfg.Simulation.MinUnits)
	assert.Equal(t, 20, cfg.Simulation.MaxUnits)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PORT", "")
	tests := []struct {
		name string
		body string
	}{
		{"zero fps", "simulation: {fps: 0}"},
		{"no units", "simulation: {min_units: 0}"},
		{"inverted bounds", "simulation: {min_units: 12, max_units: 4}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Load(writeFile(t, "simulation: [oops"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}
