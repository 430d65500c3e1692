package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Episodes      EpisodesConfig      `yaml:"episodes"`
	Voting        VotingConfig        `yaml:"voting"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Address         string        `yaml:"address"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	LoginRatePerMin int           `yaml:"login_rate_per_min"`
	LoginBurst      int           `yaml:"login_burst"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // json|text
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

// EpisodesConfig describes the broadcast schedule votes are gated on.
type EpisodesConfig struct {
	FirstAiring     string `yaml:"first_airing"` // "2006-01-02 15:04" in Timezone
	Timezone        string `yaml:"timezone"`
	IntervalDays    int    `yaml:"interval_days"`
	DurationMinutes int    `yaml:"duration_minutes"`
	Total           int    `yaml:"total"`
}

// VotingConfig holds the vote ledger guards.
type VotingConfig struct {
	RequireFullAllocation bool `yaml:"require_full_allocation"`
	EnforceSchedule       bool `yaml:"enforce_schedule"`
	MaxConcurrentWrites   int  `yaml:"max_concurrent_writes"`
}

// FirstAiringLayout is the layout of EpisodesConfig.FirstAiring.
const FirstAiringLayout = "2006-01-02 15:04"

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	cfg.Voting.RequireFullAllocation = true
	cfg.Voting.EnforceSchedule = true

	applyEnv(&cfg)
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.MetricsEnabled = v == "true"
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("EPISODE_FIRST_AIRING"); v != "" {
		cfg.Episodes.FirstAiring = v
	}
	if v := os.Getenv("EPISODE_TIMEZONE"); v != "" {
		cfg.Episodes.Timezone = v
	}
	if v := os.Getenv("EPISODE_TOTAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Episodes.Total = n
		}
	}
	if v := os.Getenv("VOTING_ENFORCE_SCHEDULE"); v != "" {
		cfg.Voting.EnforceSchedule = v == "true"
	}
	if v := os.Getenv("VOTING_REQUIRE_FULL_ALLOCATION"); v != "" {
		cfg.Voting.RequireFullAllocation = v == "true"
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.LoginRatePerMin == 0 {
		cfg.HTTP.LoginRatePerMin = 10
	}
	if cfg.HTTP.LoginBurst == 0 {
		cfg.HTTP.LoginBurst = 5
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "wieler"
	}
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = "info"
	}
	if cfg.Observability.LogFormat == "" {
		cfg.Observability.LogFormat = "json"
	}
	if cfg.Episodes.FirstAiring == "" {
		cfg.Episodes.FirstAiring = "2025-03-12 23:13"
	}
	if cfg.Episodes.Timezone == "" {
		cfg.Episodes.Timezone = "Europe/Amsterdam"
	}
	if cfg.Episodes.IntervalDays == 0 {
		cfg.Episodes.IntervalDays = 7
	}
	if cfg.Episodes.DurationMinutes == 0 {
		cfg.Episodes.DurationMinutes = 2
	}
	if cfg.Episodes.Total == 0 {
		cfg.Episodes.Total = 10
	}
	if cfg.Voting.MaxConcurrentWrites == 0 {
		cfg.Voting.MaxConcurrentWrites = 4
	}
}

// Validate checks value ranges after defaults are applied.
func (c *Config) Validate() error {
	var errs []error
	if c.Episodes.Total < 1 {
		errs = append(errs, fmt.Errorf("episodes.total must be positive, got %d", c.Episodes.Total))
	}
	if c.Episodes.IntervalDays < 1 {
		errs = append(errs, fmt.Errorf("episodes.interval_days must be positive, got %d", c.Episodes.IntervalDays))
	}
	if c.Episodes.DurationMinutes < 0 {
		errs = append(errs, fmt.Errorf("episodes.duration_minutes must not be negative, got %d", c.Episodes.DurationMinutes))
	}
	if _, err := c.Episodes.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Episodes.FirstAiringTime(); err != nil {
		errs = append(errs, err)
	}
	if c.Voting.MaxConcurrentWrites < 1 {
		errs = append(errs, fmt.Errorf("voting.max_concurrent_writes must be positive, got %d", c.Voting.MaxConcurrentWrites))
	}
	return errors.Join(errs...)
}

// Location resolves the configured timezone.
func (e EpisodesConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("episodes.timezone %q: %w", e.Timezone, err)
	}
	return loc, nil
}

// FirstAiringTime parses FirstAiring in the configured timezone.
func (e EpisodesConfig) FirstAiringTime() (time.Time, error) {
	loc, err := e.Location()
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(FirstAiringLayout, e.FirstAiring, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("episodes.first_airing %q: %w", e.FirstAiring, err)
	}
	return t, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
