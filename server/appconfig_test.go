package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrSecretNotSet)
}

func TestLoadConfig_EnvOverridesAndDefaults(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("FASTADMIN_JWT__SECRET", "env-secret")
	t.Setenv("FASTADMIN_DATABASE__DSN", "postgres://x")
	t.Setenv("FASTADMIN_SERVER__ADDR", ":9999")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "postgres://x", cfg.Database.DSN)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 12*time.Hour, cfg.JWT.AccessExpire)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpire)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
}
