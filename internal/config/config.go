package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends accepted by NOTICEBOARD_STORE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendGCS    = "gcs"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	Env       string `env:"ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	DBPath    string `env:"DB_PATH" envDefault:"noticeboard.db"`

	// Notice store
	StoreBackend       string `env:"STORE_BACKEND" envDefault:"sqlite"`
	StoreRoot          string `env:"STORE_ROOT" envDefault:"notices"`
	GCSBucket          string `env:"GCS_BUCKET"`
	GCSPrefix          string `env:"GCS_PREFIX"`
	GCSCredentialsFile string `env:"GCS_CREDENTIALS_FILE" envDefault:"serviceAccountKey.json"`
	RedisURL           string `env:"REDIS_URL"`
	RedisPrefix        string `env:"REDIS_PREFIX" envDefault:"noticeboard:"`

	BreakerFailures uint32        `env:"BREAKER_FAILURES" envDefault:"5"`
	BreakerTimeout  time.Duration `env:"BREAKER_TIMEOUT" envDefault:"30s"`

	// Admin credential. The hash wins when both are set.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`

	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://127.0.0.1:5500,http://localhost:5000,http://localhost:3000,http://localhost:5173"`

	CSVPath     string `env:"CSV_PATH" envDefault:"data/sample_data.csv"`
	TemplateDir string `env:"TEMPLATE_DIR" envDefault:"web/templates"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file, then parses NOTICEBOARD_* environment
// variables into a Config and validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{Prefix: "NOTICEBOARD_"})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend prerequisites and the admin credential.
func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case BackendSQLite, BackendMemory:
	case BackendGCS:
		if c.GCSBucket == "" {
			return errors.New("NOTICEBOARD_GCS_BUCKET is required for the gcs store backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("NOTICEBOARD_REDIS_URL is required for the redis store backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want sqlite, gcs, redis or memory)", c.StoreBackend)
	}

	if strings.Trim(c.StoreRoot, "/") == "" {
		return errors.New("NOTICEBOARD_STORE_ROOT must not be empty")
	}
	if c.AdminPasswordHash == "" && c.AdminPassword == "" {
		return errors.New("one of NOTICEBOARD_ADMIN_PASSWORD_HASH or NOTICEBOARD_ADMIN_PASSWORD is required")
	}
	if c.BreakerFailures == 0 {
		return errors.New("NOTICEBOARD_BREAKER_FAILURES must be at least 1")
	}
	return nil
}
