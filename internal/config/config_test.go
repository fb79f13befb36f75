package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_EXPIRE_HOURS", "")
	t.Setenv("COOKIE_NAME", "")

	cfg := Load()
	require.Equal(t, 24*time.Hour, cfg.JWTExpire)
	require.Equal(t, "token", cfg.CookieName)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_EXPIRE_HOURS", "2")
	t.Setenv("AUTH_RATE_LIMIT", "not-a-number")
	t.Setenv("STORE_BACKEND", "memory")

	cfg := Load()
	require.Equal(t, 2*time.Hour, cfg.JWTExpire)
	require.Equal(t, 20, cfg.AuthRateLimit)
	require.Equal(t, "memory", cfg.StoreBackend)
}

func TestValidateProductionSecret(t *testing.T) {
	cfg := &Config{AppEnv: "production", JWTSecret: defaultJWTSecret, JWTExpire: time.Hour, StoreBackend: "mongo"}
	require.Error(t, cfg.Validate())

	cfg.JWTSecret = "a-long-random-secret"
	require.NoError(t, cfg.Validate())

	cfg.StoreBackend = "postgres"
	require.Error(t, cfg.Validate())
}
