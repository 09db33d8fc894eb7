package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "8085", cfg.Port)
	assert.Equal(t, "local", cfg.Env)

	assert.True(t, cfg.Auth.EnableVerification)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)

	assert.Equal(t, "openai", cfg.Scoring.Provider)
	assert.Equal(t, 120*time.Second, cfg.Scoring.Timeout())
	assert.InDelta(t, 0.3, cfg.Scoring.Temperature, 0.001)

	assert.Equal(t, 30, cfg.Matching.CandidateCap)
	assert.Equal(t, 30, cfg.Matching.MinScore)
	assert.Equal(t, 10*time.Minute, cfg.Matching.RunLockTTL())

	assert.Empty(t, cfg.Redis.Host, "redis is optional and off by default")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPASSWORD", "s3cret")
	t.Setenv("SCORING_PROVIDER", "anthropic")
	t.Setenv("SCORING_MODEL", "claude-sonnet-4-20250514")
	t.Setenv("MATCHING_CANDIDATE_CAP", "10")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "anthropic", cfg.Scoring.Provider)
	assert.Equal(t, 10, cfg.Matching.CandidateCap)
}

func TestLoad_RejectsNonPositiveCandidateCap(t *testing.T) {
	t.Setenv("MATCHING_CANDIDATE_CAP", "0")
	_, err := Load("dev")
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "dealdesk",
		Password: "pw",
		Database: "dealdesk_engine",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=dealdesk password=pw dbname=dealdesk_engine sslmode=disable",
		cfg.ConnectionString())
}
