package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	API     APIConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Label   LabelConfig
	Journal JournalConfig
}

type SessionConfig struct {
	Secret string `env:"SESSION_SECRET"`
	// TTL of zero keeps sessions until logout.
	TTL       time.Duration `env:"SESSION_TTL,        default=0s"`
	ScreenTTL time.Duration `env:"SESSION_SCREEN_TTL, default=2h"`
}

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:5000"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	// Timeout bounds the start-up ping.
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=5s"`
}

// MongoConfig is optional: with no URI the label journal only logs.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string        `env:"MONGO_DB,      default=pathlabel"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type LabelConfig struct {
	Heading      string        `env:"LABEL_HEADING,       default=APH"`
	CleanupDelay time.Duration `env:"PRINT_CLEANUP_DELAY, default=500ms"`
}

type JournalConfig struct {
	Workers int `env:"JOURNAL_WORKERS, default=2"`
}

var ErrMissingSecret = errors.New("SESSION_SECRET is required outside development")

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Session.Secret == "" {
		if !cfg.Development() {
			return nil, ErrMissingSecret
		}
		cfg.Session.Secret = "development-only-secret"
	}
	return &cfg, nil
}

// Development reports whether the service runs with developer defaults.
func (c *Config) Development() bool { return c.Env == "development" }
