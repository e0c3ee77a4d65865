package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rowanvale/ticketd/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "ticketd.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "admin123", cfg.Auth.SuperUserPassphrase)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TICKETD_SERVER_PORT", "9090")
	t.Setenv("TICKETD_DB_PATH", "/tmp/test.db")
	t.Setenv("TICKETD_LOG_LEVEL", "debug")
	t.Setenv("TICKETD_SUPER_USER_PASSPHRASE", "hunter2")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "hunter2", cfg.Auth.SuperUserPassphrase)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("TICKETD_SERVER_PORT", "not-a-port")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 3000
log:
  level: warn
`), 0o644))
	t.Setenv("TICKETD_CONFIG_PATH", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "warn", cfg.Log.Level)

	// Env still beats the file.
	t.Setenv("TICKETD_SERVER_PORT", "3001")
	cfg, err = config.Load()
	require.NoError(t, err)
	require.Equal(t, 3001, cfg.Server.Port)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("TICKETD_CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := config.Load()
	require.Error(t, err)
}
