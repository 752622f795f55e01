package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SWGOH_USERNAME", "user")
	t.Setenv("SWGOH_PASSWORD", "pass")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "https://api.swgoh.help", cfg.SwgohBaseURL)
	assert.Equal(t, 4*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 4*time.Hour, cfg.StaleAfter)
	assert.Equal(t, 5, cfg.BatchInitialSize)
	assert.Equal(t, 5, cfg.BatchMaxWorkers)
	assert.Equal(t, 5, cfg.BatchMaxErrors)
	assert.Equal(t, "affiliation_separatist", cfg.FactionACategory)
	assert.Equal(t, "affiliation_republic", cfg.FactionBCategory)
	assert.Empty(t, cfg.TrackedAllyCodes)
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("SWGOH_USERNAME", "")
	t.Setenv("SWGOH_PASSWORD", "")

	_, err := Load(zerolog.Nop())
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SWGOH_USERNAME", "user")
	t.Setenv("SWGOH_PASSWORD", "pass")
	t.Setenv("TRACKED_ALLY_CODES", "116-235-559, 343174317")
	t.Setenv("REFRESH_INTERVAL", "30m")
	t.Setenv("BATCH_MAX_WORKERS", "3")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, []int{116235559, 343174317}, cfg.TrackedAllyCodes)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 3, cfg.BatchMaxWorkers)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "STALE_AFTER", "soon"},
		{"bad int", "BATCH_INITIAL_SIZE", "five"},
		{"zero workers", "BATCH_MAX_WORKERS", "0"},
		{"bad ally code", "TRACKED_ALLY_CODES", "12a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SWGOH_USERNAME", "user")
			t.Setenv("SWGOH_PASSWORD", "pass")
			t.Setenv(tt.key, tt.val)

			_, err := Load(zerolog.Nop())
			assert.Error(t, err)
		})
	}
}
