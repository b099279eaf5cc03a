package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.StandingsCacheTTL != 10*time.Minute {
		t.Fatalf("unexpected StandingsCacheTTL: %s", cfg.StandingsCacheTTL)
	}
	if cfg.CompetitionsCacheTTL != 30*time.Minute {
		t.Fatalf("unexpected CompetitionsCacheTTL: %s", cfg.CompetitionsCacheTTL)
	}
	if cfg.MatchFetchConcurrency != 5 {
		t.Fatalf("unexpected MatchFetchConcurrency: %d", cfg.MatchFetchConcurrency)
	}
	if cfg.PlayerFetchConcurrency != 10 {
		t.Fatalf("unexpected PlayerFetchConcurrency: %d", cfg.PlayerFetchConcurrency)
	}
	if cfg.DefaultSeasonID != 43 || cfg.DefaultFederationID != 8 {
		t.Fatalf("unexpected defaults: season=%d federation=%d", cfg.DefaultSeasonID, cfg.DefaultFederationID)
	}
	if cfg.InnebandyCircuitEnabled {
		t.Fatalf("expected circuit breaker disabled by default")
	}
	if cfg.InnebandyTimeout != 20*time.Second {
		t.Fatalf("unexpected InnebandyTimeout: %s", cfg.InnebandyTimeout)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RejectsInvalidDurations(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STANDINGS_CACHE_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid STANDINGS_CACHE_TTL")
	}
}

func TestLoad_RejectsNonPositiveConcurrency(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("MATCH_FETCH_CONCURRENCY", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for MATCH_FETCH_CONCURRENCY=0")
	}
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("APP_HTTP_ADDR", ":9090")
	t.Setenv("INNEBANDY_BASE_URL", "https://stats.example.test/v2/api")
	t.Setenv("STANDINGS_CACHE_TTL", "2m")
	t.Setenv("PLAYER_FETCH_CONCURRENCY", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppEnv != EnvProd {
		t.Fatalf("unexpected AppEnv: %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.InnebandyBaseURL != "https://stats.example.test/v2/api" {
		t.Fatalf("unexpected InnebandyBaseURL: %q", cfg.InnebandyBaseURL)
	}
	if cfg.StandingsCacheTTL != 2*time.Minute {
		t.Fatalf("unexpected StandingsCacheTTL: %s", cfg.StandingsCacheTTL)
	}
	if cfg.PlayerFetchConcurrency != 3 {
		t.Fatalf("unexpected PlayerFetchConcurrency: %d", cfg.PlayerFetchConcurrency)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}
