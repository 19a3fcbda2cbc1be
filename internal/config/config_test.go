package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SCHEDULE_CSV", "STATS_CSV", "INJURIES_CSV", "DB_PATH", "SERVER_PORT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	// on-disk default: a memory DSN would not survive the pool's idle reaper
	assert.Equal(t, "postmatch.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_PATH", "file:seasons?mode=memory&cache=shared")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "file:seasons?mode=memory&cache=shared", cfg.DBPath)
	assert.Equal(t, "9090", cfg.ServerPort)
}
