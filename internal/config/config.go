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

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Catalog  CatalogConfig
	Notify   NotifyConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL string
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	RedisURL     string
	CookieDomain string
	CookieSecure bool
}

type CatalogConfig struct {
	BaseURL string
	APIKey  string
}

type NotifyConfig struct {
	DiscordWebhookURL string
	SlackWebhookURL   string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

// Default allowed origins for development.
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			AllowedOrigins: allowedOrigins(),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Session: SessionConfig{
			Secret:       getEnv("JWT_SECRET", ""),
			TTL:          getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
			RedisURL:     getEnv("REDIS_URL", ""),
			CookieDomain: getEnv("COOKIE_DOMAIN", ""),
			CookieSecure: getEnvAsBool("COOKIE_SECURE", true),
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("DOG_API_URL", "https://api.thedogapi.com/v1"),
			APIKey:  getEnv("DOG_API_KEY", ""),
		},
		Notify: NotifyConfig{
			DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
			SlackWebhookURL:   getEnv("SLACK_WEBHOOK_URL", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	return cfg, nil
}

// ValidateDatabase checks what every database command needs.
func (c *Config) ValidateDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// ValidateServer checks what the HTTP server needs on top of the database.
func (c *Config) ValidateServer() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

func allowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if extra := os.Getenv("ALLOWED_ORIGINS"); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("invalid boolean, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}
