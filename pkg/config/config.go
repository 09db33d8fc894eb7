package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for dealdesk-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8085"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration (run locks)
	Redis RedisConfig `yaml:"redis"`

	// Scoring provider configuration
	Scoring ScoringConfig `yaml:"scoring"`

	// Matching pipeline tuning
	Matching MatchingConfig `yaml:"matching"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false for local development without an auth server.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSURL is the JWKS endpoint of the DealDesk auth server.
	JWKSURL string `yaml:"jwks_url" env:"AUTH_JWKS_URL" env-default:"https://auth.dealdesk.lindenrow.com/.well-known/jwks.json"`

	// Issuer is the expected token issuer.
	Issuer string `yaml:"issuer" env:"AUTH_ISSUER" env-default:"https://auth.dealdesk.lindenrow.com"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"dealdesk"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"dealdesk_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds Redis configuration for per-engagement run locks.
// Redis is optional: with no host configured, runs are not mutually excluded.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// ScoringConfig holds configuration for the external fit-scoring provider.
type ScoringConfig struct {
	// Provider selects the scoring backend: "openai" (any OpenAI-compatible
	// endpoint) or "anthropic".
	Provider string `yaml:"provider" env:"SCORING_PROVIDER" env-default:"openai"`

	// Endpoint is the base URL for OpenAI-compatible providers.
	Endpoint string `yaml:"endpoint" env:"SCORING_ENDPOINT" env-default:"https://api.openai.com/v1"`

	// Model is the model name, e.g. "gpt-4o" or "claude-sonnet-4-20250514".
	Model string `yaml:"model" env:"SCORING_MODEL" env-default:"gpt-4o"`

	// APIKey authenticates against the provider. Secret - env only.
	APIKey string `yaml:"-" env:"SCORING_API_KEY"`

	// TimeoutSeconds bounds a single scoring call. A timed-out call is
	// reported as a protocol error, never retried locally.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"SCORING_TIMEOUT_SECONDS" env-default:"120"`

	// Temperature for the scoring completion.
	Temperature float64 `yaml:"temperature" env:"SCORING_TEMPERATURE" env-default:"0.3"`
}

// Timeout returns the scoring call timeout as a duration.
func (c *ScoringConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MatchingConfig holds tuning knobs for the matching pipeline.
type MatchingConfig struct {
	// CandidateCap bounds the number of buyers forwarded to the scorer.
	CandidateCap int `yaml:"candidate_cap" env:"MATCHING_CANDIDATE_CAP" env-default:"30"`

	// MinScore is the overall-score floor the scorer is instructed to apply.
	// Advisory only: results below it are still accepted if returned.
	MinScore int `yaml:"min_score" env:"MATCHING_MIN_SCORE" env-default:"30"`

	// RunLockTTLSeconds bounds how long a per-engagement run lock is held
	// before expiring on its own.
	RunLockTTLSeconds int `yaml:"run_lock_ttl_seconds" env:"MATCHING_RUN_LOCK_TTL_SECONDS" env-default:"600"`
}

// RunLockTTL returns the run lock TTL as a duration.
func (c *MatchingConfig) RunLockTTL() time.Duration {
	return time.Duration(c.RunLockTTLSeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// If config.yaml does not exist, configuration comes from the environment alone.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if cfg.Matching.CandidateCap <= 0 {
		return nil, fmt.Errorf("matching.candidate_cap must be positive, got %d", cfg.Matching.CandidateCap)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
