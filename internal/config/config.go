package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	TenantHeader     string
	TenantRootDomain string
	DefaultTenant    string

	CatalogCacheTTL time.Duration
	IdempotencyTTL  time.Duration

	EstimateDefaultPerPage int
	EstimateMaxPerPage     int
	PreviewRateMax         int
	PreviewRateWindow      time.Duration
	PublishRateMax         int
	PublishRateWindow      time.Duration

	WebhookEndpoint   string
	WebhookSecret     string
	WebhookTimeout    time.Duration
	WorkerQueue       string
	WorkerConcurrency int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		TenantHeader:     valueOrDefault(k.String("TENANT_HEADER"), "X-Tenant-ID"),
		TenantRootDomain: strings.TrimSpace(k.String("TENANT_ROOT_DOMAIN")),
		DefaultTenant:    valueOrDefault(k.String("TENANT_DEFAULT"), "default"),

		CatalogCacheTTL: parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		IdempotencyTTL:  parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),

		EstimateDefaultPerPage: intOrDefault(k.Int("ESTIMATE_DEFAULT_PER_PAGE"), 20),
		EstimateMaxPerPage:     intOrDefault(k.Int("ESTIMATE_MAX_PER_PAGE"), 100),
		PreviewRateMax:         intOrDefault(k.Int("PREVIEW_RATE_MAX"), 60),
		PreviewRateWindow:      parseDuration(k.String("PREVIEW_RATE_WINDOW"), "1m"),
		PublishRateMax:         intOrDefault(k.Int("PUBLISH_RATE_MAX"), 10),
		PublishRateWindow:      parseDuration(k.String("PUBLISH_RATE_WINDOW"), "1m"),

		WebhookEndpoint:   strings.TrimSpace(k.String("ESTIMATE_WEBHOOK_ENDPOINT")),
		WebhookSecret:     k.String("ESTIMATE_WEBHOOK_SECRET"),
		WebhookTimeout:    parseDuration(k.String("ESTIMATE_WEBHOOK_TIMEOUT"), "10s"),
		WorkerQueue:       valueOrDefault(k.String("WORKER_QUEUE"), "default"),
		WorkerConcurrency: intOrDefault(k.Int("WORKER_CONCURRENCY"), 4),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.EstimateDefaultPerPage > cfg.EstimateMaxPerPage {
		cfg.EstimateDefaultPerPage = cfg.EstimateMaxPerPage
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func intOrDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
