package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CLINIC_CONFIG", "APP_ENV", "PORT", "GIN_MODE", "ALLOWED_HOSTS", "DB_DRIVER", "DATABASE_URL",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_MAX_IDLE_CONNS", "DB_MAX_OPEN_CONNS",
	"DB_CONN_MAX_LIFETIME", "SECRET_KEY", "ACCESS_TOKEN_EXPIRY", "REFRESH_TOKEN_EXPIRY",
	"ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, []string{"localhost", "127.0.0.1"}, cfg.Server.AllowedHosts)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "root:@tcp(localhost:3306)/clinic?charset=utf8mb4&parseTime=True&loc=UTC", cfg.Database.DSN())
}

func TestLoadConfig_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_HOSTS", "clinic.example.com, .internal ,")
	t.Setenv("DATABASE_URL", "postgres://clinic:secret@db:5432/clinic?sslmode=disable")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "30m")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"clinic.example.com", ".internal"}, cfg.Server.AllowedHosts)
	assert.Equal(t, "postgres", cfg.Database.Driver, "driver is inferred from a postgres url")
	assert.Equal(t, "postgres://clinic:secret@db:5432/clinic?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns, "invalid integers fall back to the default")
}

func TestLoadConfig_FileThenEnvironment(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "clinic.yaml")
	content := `
server:
  port: "7000"
  allowed_hosts: ["files.example.com"]
database:
  driver: sqlite
  url: "file:clinic.db"
jwt:
  access_token_expiry: 5m
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PORT", "7100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7100", cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, []string{"files.example.com"}, cfg.Server.AllowedHosts)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_EmptyOriginList(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", ",")

	_, err := LoadConfig("")
	assert.Error(t, err, "an origin list that splits to nothing is rejected")

	clearEnv(t)
	path := filepath.Join(t.TempDir(), "clinic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cors:\n  allowed_origins: []\n"), 0o600))

	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown env", func(c *Config) { c.App.Env = "staging" }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"sqlite without url", func(c *Config) { c.Database.Driver = "sqlite" }, true},
		{"empty secret", func(c *Config) { c.JWT.SecretKey = "" }, true},
		{"production default secret", func(c *Config) { c.App.Env = EnvProduction }, true},
		{"production wildcard host", func(c *Config) {
			c.App.Env = EnvProduction
			c.JWT.SecretKey = "a-real-secret"
			c.Server.AllowedHosts = []string{"*"}
		}, true},
		{"no origins", func(c *Config) { c.CORS.AllowedOrigins = nil }, true},
		{"no hosts", func(c *Config) { c.Server.AllowedHosts = []string{} }, true},
		{"production ok", func(c *Config) {
			c.App.Env = EnvProduction
			c.JWT.SecretKey = "a-real-secret"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
