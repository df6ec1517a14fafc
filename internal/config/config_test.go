package config

import (
	"strings"
	"testing"
	"time"

	"github.com/drafthoops/nba-draft-tracker/internal/platform/logging"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("unexpected app env %q", cfg.AppEnv)
	}
	if cfg.ServiceName != "nba-draft-tracker-api" {
		t.Fatalf("unexpected service name %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr %q", cfg.HTTPAddr)
	}
	if cfg.CacheFilePath != "data/standings_cache.json" {
		t.Fatalf("unexpected cache file path %q", cfg.CacheFilePath)
	}
	if cfg.NBAStatsBaseURL != "https://stats.nba.com/stats" {
		t.Fatalf("unexpected base url %q", cfg.NBAStatsBaseURL)
	}
	if cfg.RefreshInterval != 24*time.Hour {
		t.Fatalf("unexpected refresh interval %s", cfg.RefreshInterval)
	}
	if cfg.BackfillMaxWorkers != 3 {
		t.Fatalf("unexpected backfill workers %d", cfg.BackfillMaxWorkers)
	}
	if cfg.DBEnabled {
		t.Fatalf("db must be disabled by default")
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_HTTP_ADDR", ":9090")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("NBA_STATS_SEASON", "2025-26")
	t.Setenv("REFRESH_INTERVAL", "6h")
	t.Setenv("BACKFILL_MAX_WORKERS", "5")
	t.Setenv("INTERNAL_JOB_TOKEN", " secret ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppEnv != EnvProd {
		t.Fatalf("unexpected app env %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("unexpected http addr %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("unexpected log level %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Fatalf("unexpected cache ttl %s", cfg.CacheTTL)
	}
	if cfg.NBAStatsSeason != "2025-26" {
		t.Fatalf("unexpected season %q", cfg.NBAStatsSeason)
	}
	if cfg.RefreshInterval != 6*time.Hour {
		t.Fatalf("unexpected refresh interval %s", cfg.RefreshInterval)
	}
	if cfg.BackfillMaxWorkers != 5 {
		t.Fatalf("unexpected backfill workers %d", cfg.BackfillMaxWorkers)
	}
	if cfg.InternalJobToken != "secret" {
		t.Fatalf("token must be trimmed, got %q", cfg.InternalJobToken)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		value   string
		wantSub string
	}{
		{"bad app env", "APP_ENV", "production", "invalid APP_ENV"},
		{"bad read timeout", "APP_READ_TIMEOUT", "soon", "parse APP_READ_TIMEOUT"},
		{"bad cache enabled", "CACHE_ENABLED", "yep", "parse CACHE_ENABLED"},
		{"zero cache ttl", "CACHE_TTL", "0s", "CACHE_TTL must be > 0"},
		{"bad max retries", "NBA_STATS_MAX_RETRIES", "two", "parse NBA_STATS_MAX_RETRIES"},
		{"negative max retries", "NBA_STATS_MAX_RETRIES", "-1", "NBA_STATS_MAX_RETRIES must be >= 0"},
		{"zero refresh interval", "REFRESH_INTERVAL", "0s", "REFRESH_INTERVAL must be > 0"},
		{"zero backfill workers", "BACKFILL_MAX_WORKERS", "0", "BACKFILL_MAX_WORKERS must be >= 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("unexpected error %q, want substring %q", err, tc.wantSub)
			}
		})
	}
}

func TestLoadRequiresValuesWhenEnabled(t *testing.T) {
	cases := []struct {
		name    string
		envs    map[string]string
		wantSub string
	}{
		{"db url required", map[string]string{"DB_ENABLED": "true"}, "DB_URL is required"},
		{"pyroscope address required", map[string]string{"PYROSCOPE_ENABLED": "true"}, "PYROSCOPE_SERVER_ADDRESS is required"},
		{"uptrace dsn required", map[string]string{"UPTRACE_ENABLED": "true"}, "UPTRACE_DSN is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for key, value := range tc.envs {
				t.Setenv(key, value)
			}

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("unexpected error %q, want substring %q", err, tc.wantSub)
			}
		})
	}
}
