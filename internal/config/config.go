package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DefaultSecretKey is only acceptable outside production.
	DefaultSecretKey = "insecure-development-secret-key"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
}

type AppConfig struct {
	// Env is the deployment target: development or production
	Env string `yaml:"env"`
}

type ServerConfig struct {
	Port         string   `yaml:"port"`
	GinMode      string   `yaml:"gin_mode"`
	AllowedHosts []string `yaml:"allowed_hosts"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"name"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type JWTConfig struct {
	SecretKey          string        `yaml:"secret_key"`
	AccessTokenExpiry  time.Duration `yaml:"access_token_expiry"`
	RefreshTokenExpiry time.Duration `yaml:"refresh_token_expiry"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		App: AppConfig{Env: EnvDevelopment},
		Server: ServerConfig{
			Port:         "8080",
			GinMode:      "debug",
			AllowedHosts: []string{"localhost", "127.0.0.1"},
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            "3306",
			User:            "root",
			Database:        "clinic",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			SecretKey:          DefaultSecretKey,
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 168 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// and the environment, in that order of precedence.
func LoadConfig(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("CLINIC_CONFIG")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.Database.Driver = inferDriver(cfg.Database.Driver, cfg.Database.URL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.App.Env = getEnv("APP_ENV", c.App.Env)

	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.GinMode = getEnv("GIN_MODE", c.Server.GinMode)
	c.Server.AllowedHosts = getList("ALLOWED_HOSTS", c.Server.AllowedHosts)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Database = getEnv("DB_NAME", c.Database.Database)
	c.Database.MaxIdleConns = getInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.MaxOpenConns = getInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.ConnMaxLifetime = getDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)

	c.JWT.SecretKey = getEnv("SECRET_KEY", c.JWT.SecretKey)
	c.JWT.AccessTokenExpiry = getDuration("ACCESS_TOKEN_EXPIRY", c.JWT.AccessTokenExpiry)
	c.JWT.RefreshTokenExpiry = getDuration("REFRESH_TOKEN_EXPIRY", c.JWT.RefreshTokenExpiry)

	c.CORS.AllowedOrigins = getList("ALLOWED_ORIGINS", c.CORS.AllowedOrigins)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.App.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("app.env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.App.Env)
	}

	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Driver != "mysql" && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for driver %s", c.Database.Driver)
	}

	if c.JWT.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.JWT.AccessTokenExpiry <= 0 || c.JWT.RefreshTokenExpiry <= 0 {
		return errors.New("token expiry durations must be positive")
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		return errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	if len(c.Server.AllowedHosts) == 0 {
		return errors.New("ALLOWED_HOSTS must list at least one host")
	}

	if c.IsProduction() {
		if c.JWT.SecretKey == DefaultSecretKey {
			return errors.New("SECRET_KEY must be set in production")
		}
		for _, h := range c.Server.AllowedHosts {
			if h == "*" {
				return errors.New("ALLOWED_HOSTS must not contain * in production")
			}
		}
	}
	return nil
}

// IsProduction reports whether the process runs with the production deployment target
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// DSN returns the connection string handed to the gorm dialector
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// inferDriver switches to postgres when the URL is a postgres URL and the
// driver was left at its default.
func inferDriver(driver, url string) string {
	if os.Getenv("DB_DRIVER") != "" {
		return driver
	}
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return "postgres"
	}
	return driver
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid integer for %s: %q, using default\n", key, value)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid duration for %s: %q, using default\n", key, value)
		return defaultValue
	}
	return d
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return splitList(value)
}

func splitList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
