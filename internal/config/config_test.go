package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"PORT", "LOG_LEVEL", "LOG_FORMAT", "TOKEN_SECRET", "TOKEN_TTL", "SECURE_COOKIES",
	"ANIMATION_DURATION", "BOARD_IDLE_TTL", "SWEEP_INTERVAL", "HEARTBEAT_INTERVAL",
	"REQUEST_TIMEOUT",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configVars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestParseDefaults(t *testing.T) {
	t.Setenv("PORT", "1")
	t.Setenv("ANIMATION_DURATION", "1s")
	clearEnv(t)

	c, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, ":5175", c.Addr())
	assert.Equal(t, 260*time.Millisecond, c.AnimationDuration)
	assert.Equal(t, 24*time.Hour, c.BoardIdleTTL)
	assert.Equal(t, 15*time.Second, c.HeartbeatInterval)
	assert.False(t, c.SecureCookies)
}

func TestParseOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ANIMATION_DURATION", "500ms")
	t.Setenv("SECURE_COOKIES", "true")

	c, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, 500*time.Millisecond, c.AnimationDuration)
	assert.True(t, c.SecureCookies)
}

func TestParseRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SWEEP_INTERVAL", "0s")
	_, err := Parse()
	assert.Error(t, err)

	t.Setenv("SWEEP_INTERVAL", "nonsense")
	_, err = Parse()
	assert.Error(t, err)
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOARD_IDLE_TTL=1h\n"), 0o600))
	clearEnv(t)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, c.BoardIdleTTL)
	os.Unsetenv("BOARD_IDLE_TTL")
}

func TestLoadMissingFileIsFine(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
