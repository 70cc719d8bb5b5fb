package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arunahq/backend-estimate/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/estimate",
		"REDIS_URL":    "redis://localhost:6379/0",
		"PORT":         "",
		"APP_ENV":      "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "X-Tenant-ID", cfg.TenantHeader)
	require.Equal(t, "default", cfg.DefaultTenant)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, 20, cfg.EstimateDefaultPerPage)
	require.Equal(t, 100, cfg.EstimateMaxPerPage)
	require.Equal(t, 10, cfg.PublishRateMax)
	require.Equal(t, time.Minute, cfg.PublishRateWindow)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}

func TestLoadRequiresRedisURL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/estimate",
		"REDIS_URL":    "",
	})
	require.Error(t, err)
}

func TestLoadClampsDefaultPerPage(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":              "postgres://localhost:5432/estimate",
		"REDIS_URL":                 "redis://localhost:6379/0",
		"ESTIMATE_DEFAULT_PER_PAGE": "500",
		"ESTIMATE_MAX_PER_PAGE":     "50",
	})
	require.NoError(t, err)
	require.Equal(t, 50, cfg.EstimateDefaultPerPage)
}

func TestHTTPAddrKeepsExplicitColon(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/estimate",
		"REDIS_URL":    "redis://localhost:6379/0",
		"PORT":         ":9090",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
}
