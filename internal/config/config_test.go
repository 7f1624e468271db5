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
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5175", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "beginner", cfg.DefaultBoard)
	assert.Equal(t, "intermediate", cfg.DailyBoard)
	assert.Empty(t, cfg.BoardsFile)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PAIRS_TEST_UNUSED=1\nDAILY_BOARD=advanced\n"), 0o600))
	t.Setenv("PORT", "9000")
	t.Setenv("DAILY_BOARD", "beginner")
	t.Setenv("SESSION_TTL", "15m")
	t.Cleanup(func() { _ = os.Unsetenv("PAIRS_TEST_UNUSED") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "beginner", cfg.DailyBoard)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "1", os.Getenv("PAIRS_TEST_UNUSED"))
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")

	t.Setenv("TOKEN_TTL", "-1h")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "durations must be positive")
}
