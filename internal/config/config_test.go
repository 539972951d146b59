package config_test

import (
	"testing"

	"github.com/munidigital/portal-denuncias/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("does-not-exist.yaml")
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, config.EnvDevelopment, cfg.Env)
	require.True(t, cfg.Development())
	require.Empty(t, cfg.RateLimit.DSN)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORTAL_ENV", "production")
	t.Setenv("PORTAL_SERVER__PORT", "9090")
	t.Setenv("PORTAL_RATELIMIT__DSN", "file:ratelimit.db")

	cfg, err := config.Load("does-not-exist.yaml")
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.False(t, cfg.Development())
	require.Equal(t, "file:ratelimit.db", cfg.RateLimit.DSN)
}
