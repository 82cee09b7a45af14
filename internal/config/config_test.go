package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("INPUT_CSV", "data/oxcgrt.csv")
	t.Setenv("POPULATION_CSV", "data/population.csv")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/oxcgrt.csv", cfg.InputPath)
	assert.Equal(t, "data/population.csv", cfg.PopulationPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Zero(t, cfg.Workers)
}

func TestLoad_CustomEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("WORKERS", "16")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 16, cfg.Workers)
}

func TestLoad_MissingInputs(t *testing.T) {
	t.Run("input csv", func(t *testing.T) {
		t.Setenv("INPUT_CSV", "")
		t.Setenv("POPULATION_CSV", "data/population.csv")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INPUT_CSV")
	})

	t.Run("population csv", func(t *testing.T) {
		t.Setenv("INPUT_CSV", "data/oxcgrt.csv")
		t.Setenv("POPULATION_CSV", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POPULATION_CSV")
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-5s"},
		{"bad workers", "WORKERS", "many"},
		{"negative workers", "WORKERS", "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
