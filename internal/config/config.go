package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendSQLite  = "sqlite"
	BackendSurreal = "surreal"
	BackendRedis   = "redis"
	BackendFile    = "file"
)

// Provider exposes the server configuration to the components that need it.
type Provider interface {
	GetAddr() string
	GetMetricsAddr() string
	GetStoreBackend() string
	GetSQLitePath() string
	GetSurreal() SurrealConfig
	GetRedisURL() string
	GetFileStorePath() string
	GetStoreTimeout() time.Duration
	GetLogFormat() string
	GetLogLevel() string
	GetRateLimit() (perSecond float64, burst int)
	GetSiteDomain() string
}

// SurrealConfig holds the connection settings of the SurrealDB backend.
type SurrealConfig struct {
	URL  string
	NS   string
	DB   string
	User string
	Pass string
}

// Config holds all configuration for the registry server.
type Config struct {
	Addr          string
	MetricsAddr   string
	StoreBackend  string
	SQLitePath    string
	Surreal       SurrealConfig
	RedisURL      string
	FileStorePath string
	StoreTimeout  time.Duration
	LogFormat     string
	LogLevel      string
	RateLimit     float64
	RateBurst     int
	SiteDomain    string
}

var _ Provider = (*Config)(nil)

// New loads .env when present and then reads the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("DENOTE_ADDR", ":8080"),
		MetricsAddr:   getEnv("DENOTE_METRICS_ADDR", ":9090"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		SQLitePath:    getEnv("SQLITE_PATH", "denote.db"),
		RedisURL:      os.Getenv("REDIS_URL"),
		FileStorePath: getEnv("FILE_STORE_PATH", "denote.json"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SiteDomain:    getEnv("SITE_DOMAIN", "deno.dev"),
		Surreal: SurrealConfig{
			URL:  os.Getenv("SURREAL_URL"),
			NS:   os.Getenv("SURREAL_NS"),
			DB:   os.Getenv("SURREAL_DB"),
			User: os.Getenv("SURREAL_USER"),
			Pass: os.Getenv("SURREAL_PASS"),
		},
	}

	var err error
	if cfg.StoreTimeout, err = time.ParseDuration(getEnv("STORE_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("STORE_TIMEOUT: %w", err)
	}
	if cfg.RateLimit, err = strconv.ParseFloat(getEnv("RATE_LIMIT", "5"), 64); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT: %w", err)
	}
	if cfg.RateBurst, err = strconv.Atoi(getEnv("RATE_BURST", "10")); err != nil {
		return nil, fmt.Errorf("RATE_BURST: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has the settings it needs.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendSurreal:
		if c.Surreal.URL == "" || c.Surreal.NS == "" || c.Surreal.DB == "" {
			return fmt.Errorf("SURREAL_URL, SURREAL_NS and SURREAL_DB are required for the surreal backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case BackendFile:
		if c.FileStorePath == "" {
			return fmt.Errorf("FILE_STORE_PATH is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be a positive duration")
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_BURST must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) GetAddr() string                { return c.Addr }
func (c *Config) GetMetricsAddr() string         { return c.MetricsAddr }
func (c *Config) GetStoreBackend() string        { return c.StoreBackend }
func (c *Config) GetSQLitePath() string          { return c.SQLitePath }
func (c *Config) GetSurreal() SurrealConfig      { return c.Surreal }
func (c *Config) GetRedisURL() string            { return c.RedisURL }
func (c *Config) GetFileStorePath() string       { return c.FileStorePath }
func (c *Config) GetStoreTimeout() time.Duration { return c.StoreTimeout }
func (c *Config) GetLogFormat() string           { return c.LogFormat }
func (c *Config) GetLogLevel() string            { return c.LogLevel }
func (c *Config) GetSiteDomain() string          { return c.SiteDomain }

func (c *Config) GetRateLimit() (float64, int) {
	return c.RateLimit, c.RateBurst
}
