package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "course")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "courseboard")
	t.Setenv("SESSION_SECRET", "cookie-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 10, cfg.DB.MaxSize)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, "cookie-secret", cfg.Session.Secret)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_POOL_SIZE", "25")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, 25, cfg.DB.MaxSize)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 12, cfg.Session.BcryptCost)
}

func TestLoadConfig_MissingRequiredListsAll(t *testing.T) {
	// Only one of the required variables is present.
	t.Setenv("DB_USER", "course")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
	assert.NotContains(t, err.Error(), "DB_USER")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	setRequiredEnv(t)

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "soon")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_TTL")
	})

	t.Run("bad integer", func(t *testing.T) {
		t.Setenv("DB_PORT", "not-a-port")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PORT")
	})

	t.Run("bcrypt cost out of range", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "99")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BCRYPT_COST")
	})

	t.Run("pool size clamped", func(t *testing.T) {
		t.Setenv("DB_POOL_SIZE", "500")
		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_POOL_SIZE")
	})
}
