package config

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Label.Heading != "APH" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Label.CleanupDelay != 500*time.Millisecond {
		t.Fatalf("expected 500ms cleanup delay, got %v", cfg.Label.CleanupDelay)
	}
	if cfg.Session.TTL != 0 {
		t.Fatalf("sessions must not expire by default, got %v", cfg.Session.TTL)
	}
	if cfg.Session.Secret == "" {
		t.Fatalf("development must fall back to a secret")
	}
	if cfg.Redis.Timeout != 5*time.Second || cfg.Mongo.Timeout != 10*time.Second {
		t.Fatalf("unexpected connect timeouts: %v %v", cfg.Redis.Timeout, cfg.Mongo.Timeout)
	}
	if cfg.Mongo.URI != "" {
		t.Fatalf("journal persistence must be opt-in")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cr3t")
	t.Setenv("SESSION_TTL", "8h")
	t.Setenv("API_BASE_URL", "https://path.example.org")
	t.Setenv("JOURNAL_WORKERS", "4")
	t.Setenv("REDIS_TIMEOUT", "1s")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.TTL != 8*time.Hour || cfg.API.BaseURL != "https://path.example.org" || cfg.Journal.Workers != 4 || cfg.Redis.Timeout != time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_SecretRequiredInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	if _, err := Load(context.Background()); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}
