// internal/config/config.go
//
// Application configuration.
// Values come from the environment (optionally seeded from a .env file);
// defaults live in the env-default tags so they are applied in one place.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultSessionSecret is the development fallback for SESSION_SECRET.
const DefaultSessionSecret = "dev_secret_change_me"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Session   SessionConfig
	AI        AIConfig
	Catalog   CatalogConfig
	Daily     DailyConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `env:"PORT"             env-default:"5050"`
	ClientOrigin    string        `env:"CLIENT_ORIGIN"    env-default:"http://localhost:5050"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  env-default:"45s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Pretty bool   `env:"LOG_PRETTY" env-default:"false"`
}

// SessionConfig controls the player session cookie and its backing store.
type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET"      env-default:"dev_secret_change_me"`
	CookieName string        `env:"SESSION_COOKIE_NAME" env-default:"hangman_session"`
	TTL        time.Duration `env:"SESSION_TTL"         env-default:"720h"`
	Backend    string        `env:"SESSION_BACKEND"     env-default:"memory"`
	DSN        string        `env:"SESSION_DSN"         env-default:"./data/sessions.db"`
	Secure     bool          `env:"SESSION_SECURE"      env-default:"false"`
}

// AIConfig configures the text-generation collaborator. An empty APIKey
// disables it.
type AIConfig struct {
	APIKey  string        `env:"CLAUDE_API_KEY"`
	Model   string        `env:"CLAUDE_MODEL"    env-default:"claude-3-haiku-20240307"`
	BaseURL string        `env:"CLAUDE_BASE_URL"`
	Timeout time.Duration `env:"CLAUDE_TIMEOUT"  env-default:"30s"`
}

// CatalogConfig points at the optional curriculum file.
type CatalogConfig struct {
	CurriculumPath string `env:"CURRICULUM_PATH" env-default:"./data/curriculum_words.json"`
}

// DailyConfig controls the calendar used by the daily challenge.
type DailyConfig struct {
	TimeZone string `env:"DAILY_TZ" env-default:"UTC"`
}

// RateLimitConfig bounds POST traffic per client IP.
type RateLimitConfig struct {
	RPS   int `env:"RATE_LIMIT_RPS"   env-default:"5"`
	Burst int `env:"RATE_LIMIT_BURST" env-default:"10"`
}

// Load reads .env (if present) and the environment, then validates.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints the tags can't express.
func (c *Config) Validate() error {
	var errs []error
	switch c.Session.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("session backend %q: want memory or sqlite", c.Session.Backend))
	}
	if c.Session.Backend == "sqlite" && c.Session.DSN == "" {
		errs = append(errs, errors.New("session dsn is required for the sqlite backend"))
	}
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("session secret is empty"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if _, err := c.Daily.Location(); err != nil {
		errs = append(errs, fmt.Errorf("daily time zone: %w", err))
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate limit rps and burst must be positive"))
	}
	if c.AI.Timeout <= 0 {
		errs = append(errs, errors.New("ai timeout must be positive"))
	}
	return errors.Join(errs...)
}

// Location resolves the configured daily time zone.
func (d DailyConfig) Location() (*time.Location, error) {
	return time.LoadLocation(d.TimeZone)
}
