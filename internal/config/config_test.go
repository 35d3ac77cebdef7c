package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "GBP", cfg.DefaultCurrency)
	assert.Equal(t, 3, cfg.Duplicate.WindowDays)
	assert.InDelta(t, 0.8, cfg.Duplicate.Threshold, 0.0001)
	assert.Equal(t, 5, cfg.Duplicate.MaxMatches)
	assert.InDelta(t, 0.6, cfg.Duplicate.Weights.Amount, 0.0001)
	assert.Equal(t, 100, cfg.Categorizer.HistoryLimit)
	assert.InDelta(t, 0.3, cfg.Enricher.MinConfidence, 0.0001)
	assert.Equal(t, 4, cfg.Batch.Workers)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LEDGERFLOW_DUPLICATE_THRESHOLD", "0.9")
	t.Setenv("LEDGERFLOW_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.9, cfg.Duplicate.Threshold, 0.0001)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		chdir(t, t.TempDir())
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	t.Run("zero window rejected", func(t *testing.T) {
		cfg := valid(t)
		cfg.Duplicate.WindowDays = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("threshold above one rejected", func(t *testing.T) {
		cfg := valid(t)
		cfg.Duplicate.Threshold = 1.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative rate rejected", func(t *testing.T) {
		cfg := valid(t)
		cfg.Enricher.RatePerSecond = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero workers rejected", func(t *testing.T) {
		cfg := valid(t)
		cfg.Batch.Workers = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestDuplicateOptions(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	opts := cfg.DuplicateOptions()
	assert.Equal(t, 3, opts.WindowDays)
	assert.InDelta(t, 0.8, opts.Threshold, 0.0001)
	assert.Equal(t, 5, opts.MaxMatches)
	assert.InDelta(t, 0.3, opts.Weights.Date, 0.0001)
}
