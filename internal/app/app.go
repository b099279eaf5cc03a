package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/eriknordin/InnebandyStats/external/innebandy"
	"github.com/eriknordin/InnebandyStats/internal/config"
	"github.com/eriknordin/InnebandyStats/internal/interfaces/httpapi"
	"github.com/eriknordin/InnebandyStats/internal/platform/cache"
	"github.com/eriknordin/InnebandyStats/internal/platform/logging"
	"github.com/eriknordin/InnebandyStats/internal/platform/resilience"
	"github.com/eriknordin/InnebandyStats/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	zlog := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(zlog)

	client := innebandy.NewClient(innebandy.ClientConfig{
		BaseURL:     cfg.InnebandyBaseURL,
		StartkitURL: cfg.InnebandyStartkitURL,
		Timeout:     cfg.InnebandyTimeout,
		Logger:      zlog,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.InnebandyCircuitEnabled,
			FailureThreshold: cfg.InnebandyCircuitFailureCount,
			OpenTimeout:      cfg.InnebandyCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.InnebandyCircuitHalfOpenMaxReq,
		},
	})

	standingsCache := cache.NewStore(cfg.StandingsCacheTTL)
	competitionsCache := cache.NewStore(cfg.CompetitionsCacheTTL)

	standingsSvc := usecase.NewStandingsService(
		client,
		standingsCache,
		competitionsCache,
		zlog,
		usecase.StandingsServiceConfig{
			MatchFetchConcurrency:  cfg.MatchFetchConcurrency,
			PlayerFetchConcurrency: cfg.PlayerFetchConcurrency,
		},
	)

	handler := httpapi.NewHandler(standingsSvc, logger, httpapi.CompetitionDefaults{
		SeasonID:     cfg.DefaultSeasonID,
		FederationID: cfg.DefaultFederationID,
	})
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
