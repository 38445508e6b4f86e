// Package config loads application settings from the environment, with
// an optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"gh-pr-stats/internal/github"
	"gh-pr-stats/internal/pkg/logger"
	"gh-pr-stats/internal/pkg/postgres"
)

type Config struct {
	// logging configuration
	LogLevel     string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat    string `env:"LOG_FORMAT" env-default:"text"`
	LogAddSource bool   `env:"LOG_ADD_SOURCE" env-default:"false"`

	// GitHub API access
	GithubToken        string        `env:"GITHUB_TOKEN" env-required:"true"`
	GithubBaseURL      string        `env:"GITHUB_BASE_URL" env-default:"https://api.github.com"`
	GithubPageSize     int           `env:"GITHUB_PAGE_SIZE" env-default:"100"`
	GithubRequestDelay time.Duration `env:"GITHUB_REQUEST_DELAY" env-default:"0s"`
	GithubTimeout      time.Duration `env:"GITHUB_TIMEOUT" env-default:"30s"`

	// analysis settings
	AnalysisConcurrency int    `env:"ANALYSIS_CONCURRENCY" env-default:"4"`
	DefaultTimezone     string `env:"DEFAULT_TIMEZONE" env-default:"UTC"`
	// UserTimezones maps logins to IANA zones: "alice=America/Toronto,bob=Europe/Berlin"
	UserTimezones string `env:"USER_TIMEZONES" env-default:""`

	// report output
	ReportsDir string `env:"REPORTS_DIR" env-default:"reports"`

	// optional http response cache database; disabled when DSN is empty
	CacheDatabaseDSN       string        `env:"CACHE_DATABASE_DSN" env-default:""`
	CacheTTL               time.Duration `env:"CACHE_TTL" env-default:"168h"`
	CacheMaxConns          int32         `env:"CACHE_MAX_CONNS" env-default:"10"`
	CacheMinConns          int32         `env:"CACHE_MIN_CONNS" env-default:"1"`
	CacheMaxConnLifetime   time.Duration `env:"CACHE_MAX_CONN_LIFETIME" env-default:"1h"`
	CacheMaxConnIdleTime   time.Duration `env:"CACHE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	CacheHealthCheckPeriod time.Duration `env:"CACHE_HEALTH_CHECK_PERIOD" env-default:"1m"`
	CacheMigrationTimeout  time.Duration `env:"CACHE_MIGRATION_TIMEOUT" env-default:"2m"`

	// report preview server
	ServerHost            string        `env:"SERVER_HOST" env-default:"0.0.0.0"`
	ServerPort            int           `env:"SERVER_PORT" env-default:"8080"`
	ServerReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	ServerWriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	ServerIdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

func New() (*Config, error) {
	var cfg Config

	// read from .env file if exists (optional)
	if err := cleanenv.ReadConfig(".env", &cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read dotenv file: %w", err)
	}

	// read from environment variables (required)
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Logger() *logger.Config {
	return &logger.Config{
		Level:     c.LogLevel,
		Format:    c.LogFormat,
		AddSource: c.LogAddSource,
	}
}

func (c *Config) Github() *github.Config {
	return &github.Config{
		BaseURL:      c.GithubBaseURL,
		Token:        c.GithubToken,
		PageSize:     c.GithubPageSize,
		RequestDelay: c.GithubRequestDelay,
		Timeout:      c.GithubTimeout,
	}
}

// CacheEnabled reports whether the Postgres response cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.CacheDatabaseDSN != ""
}

func (c *Config) Postgres() *postgres.Config {
	return &postgres.Config{
		DSN:               c.CacheDatabaseDSN,
		MaxConns:          c.CacheMaxConns,
		MinConns:          c.CacheMinConns,
		MaxConnLifetime:   c.CacheMaxConnLifetime,
		MaxConnIdleTime:   c.CacheMaxConnIdleTime,
		HealthCheckPeriod: c.CacheHealthCheckPeriod,
	}
}

// Validate checks the derived sub-configurations.
func (c *Config) Validate() error {
	if err := c.Logger().Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if err := c.Github().Validate(); err != nil {
		return fmt.Errorf("github config: %w", err)
	}
	if c.CacheEnabled() {
		if err := c.Postgres().Validate(); err != nil {
			return fmt.Errorf("cache database config: %w", err)
		}
	}
	if c.AnalysisConcurrency < 1 || c.AnalysisConcurrency > 64 {
		return fmt.Errorf("analysis concurrency %d out of range [1, 64]", c.AnalysisConcurrency)
	}
	return nil
}
