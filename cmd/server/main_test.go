package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"clinic-admin-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "info", Format: "json"})

	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestVersion(t *testing.T) {
	assert.Contains(t, run(t, "version"), "clinic version")
}

func TestMaintenanceCommands(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "clinic.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("APP_ENV", "development")
	t.Setenv("GIN_MODE", "release")

	run(t, "migrate")

	out := run(t, "createuser", "--username", "admin", "--email", "admin@example.com", "--password", "s3cret-pass")
	assert.Contains(t, out, "created user admin")

	out = run(t, "prune-tokens")
	assert.Contains(t, out, "deleted 0 refresh tokens")

	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"createuser", "--username", "admin", "--email", "admin@example.com", "--password", "s3cret-pass"})
	assert.Error(t, cmd.Execute(), "usernames are unique")
}
