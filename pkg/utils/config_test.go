package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ANISTREAM_SESSION_SECRET", "test-secret")
	t.Setenv("ANISTREAM_DB_PATH", "/tmp/anistream-test.db")
	t.Setenv("ANISTREAM_ADDR", "")
	t.Setenv("ANISTREAM_ENV", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "/tmp/anistream-test.db", cfg.DBPath)
	require.Equal(t, "test-secret", cfg.SessionSecret)
	require.False(t, cfg.Production)
}

func TestLoadConfigProduction(t *testing.T) {
	t.Setenv("ANISTREAM_SESSION_SECRET", "test-secret")
	t.Setenv("ANISTREAM_DB_PATH", "/tmp/anistream-test.db")
	t.Setenv("ANISTREAM_ADDR", ":9090")
	t.Setenv("ANISTREAM_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr)
	require.True(t, cfg.Production)
}

func TestLoadConfigMissingSecret(t *testing.T) {
	t.Setenv("ANISTREAM_SESSION_SECRET", "")
	t.Setenv("ANISTREAM_DB_PATH", "/tmp/anistream-test.db")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ANISTREAM_SESSION_SECRET")
}

func TestLoadConfigMissingDBPath(t *testing.T) {
	t.Setenv("ANISTREAM_SESSION_SECRET", "test-secret")
	t.Setenv("ANISTREAM_DB_PATH", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ANISTREAM_DB_PATH")
}
