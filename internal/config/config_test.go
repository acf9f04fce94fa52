package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("COOKIE_SECURE", "")
	t.Setenv("CLIENT_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("DISCORD_WEBHOOK_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Notify.DiscordWebhookURL)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, defaultOrigins, cfg.Server.AllowedOrigins)

	assert.EqualError(t, cfg.ValidateDatabase(), "DATABASE_URL is required")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "5555")
	t.Setenv("DATABASE_URL", "postgres://localhost/dog_watch_db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("CLIENT_URL", "https://dogwatch.example")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.example/T1")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateServer())

	assert.Equal(t, "https://hooks.slack.example/T1", cfg.Notify.SlackWebhookURL)

	assert.Equal(t, "5555", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"https://dogwatch.example",
		"https://a.example",
		"https://b.example",
	}, cfg.Server.AllowedOrigins)
}

func TestValidateServerRequiresSecret(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "3000"},
		Database: DatabaseConfig{URL: "postgres://localhost/db"},
		Session:  SessionConfig{TTL: time.Hour},
	}
	assert.EqualError(t, cfg.ValidateServer(), "JWT_SECRET is required")
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	assert.Equal(t, time.Minute, getEnvAsDuration("SESSION_TTL", time.Minute))
}
