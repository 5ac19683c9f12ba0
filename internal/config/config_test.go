// internal/config/config_test.go
package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"FLIPOUT_ADDR", "FLIPOUT_LOG_LEVEL", "FLIPOUT_REDIS_ADDR", "FLIPOUT_RESUME_SECRET"} {
		t.Setenv(key, "") // register restoration, then clear entirely
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.ResumeSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FLIPOUT_ADDR", ":9000")
	t.Setenv("FLIPOUT_LOG_LEVEL", "debug")
	t.Setenv("FLIPOUT_REDIS_ADDR", "localhost:6379")
	t.Setenv("FLIPOUT_RESUME_SECRET", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "hunter2", cfg.ResumeSecret)
}
