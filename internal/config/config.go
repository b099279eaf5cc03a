package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eriknordin/InnebandyStats/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	InnebandyBaseURL               string
	InnebandyStartkitURL           string
	InnebandyTimeout               time.Duration
	InnebandyCircuitEnabled        bool
	InnebandyCircuitFailureCount   int
	InnebandyCircuitOpenTimeout    time.Duration
	InnebandyCircuitHalfOpenMaxReq int

	StandingsCacheTTL    time.Duration
	CompetitionsCacheTTL time.Duration

	MatchFetchConcurrency  int
	PlayerFetchConcurrency int

	DefaultSeasonID     int
	DefaultFederationID int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	if readTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_READ_TIMEOUT must be > 0")
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	if writeTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_WRITE_TIMEOUT must be > 0")
	}

	innebandyTimeout, err := time.ParseDuration(getEnv("INNEBANDY_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INNEBANDY_TIMEOUT: %w", err)
	}
	if innebandyTimeout <= 0 {
		return Config{}, fmt.Errorf("INNEBANDY_TIMEOUT must be > 0")
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("INNEBANDY_CIRCUIT_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INNEBANDY_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("INNEBANDY_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse INNEBANDY_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuitFailureCount < 1 {
		return Config{}, fmt.Errorf("INNEBANDY_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("INNEBANDY_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INNEBANDY_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if circuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("INNEBANDY_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("INNEBANDY_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse INNEBANDY_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("INNEBANDY_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	standingsCacheTTL, err := time.ParseDuration(getEnv("STANDINGS_CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STANDINGS_CACHE_TTL: %w", err)
	}
	if standingsCacheTTL <= 0 {
		return Config{}, fmt.Errorf("STANDINGS_CACHE_TTL must be > 0")
	}
	competitionsCacheTTL, err := time.ParseDuration(getEnv("COMPETITIONS_CACHE_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse COMPETITIONS_CACHE_TTL: %w", err)
	}
	if competitionsCacheTTL <= 0 {
		return Config{}, fmt.Errorf("COMPETITIONS_CACHE_TTL must be > 0")
	}

	matchFetchConcurrency, err := getEnvAsInt("MATCH_FETCH_CONCURRENCY", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_FETCH_CONCURRENCY: %w", err)
	}
	if matchFetchConcurrency < 1 {
		return Config{}, fmt.Errorf("MATCH_FETCH_CONCURRENCY must be >= 1")
	}
	playerFetchConcurrency, err := getEnvAsInt("PLAYER_FETCH_CONCURRENCY", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYER_FETCH_CONCURRENCY: %w", err)
	}
	if playerFetchConcurrency < 1 {
		return Config{}, fmt.Errorf("PLAYER_FETCH_CONCURRENCY must be >= 1")
	}

	defaultSeasonID, err := getEnvAsInt("DEFAULT_SEASON_ID", 43)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEFAULT_SEASON_ID: %w", err)
	}
	if defaultSeasonID < 1 {
		return Config{}, fmt.Errorf("DEFAULT_SEASON_ID must be >= 1")
	}
	defaultFederationID, err := getEnvAsInt("DEFAULT_FEDERATION_ID", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEFAULT_FEDERATION_ID: %w", err)
	}
	if defaultFederationID < 1 {
		return Config{}, fmt.Errorf("DEFAULT_FEDERATION_ID must be >= 1")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "innebandystats-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		InnebandyBaseURL:               strings.TrimSpace(getEnv("INNEBANDY_BASE_URL", "")),
		InnebandyStartkitURL:           strings.TrimSpace(getEnv("INNEBANDY_STARTKIT_URL", "")),
		InnebandyTimeout:               innebandyTimeout,
		InnebandyCircuitEnabled:        circuitEnabled,
		InnebandyCircuitFailureCount:   circuitFailureCount,
		InnebandyCircuitOpenTimeout:    circuitOpenTimeout,
		InnebandyCircuitHalfOpenMaxReq: circuitHalfOpenMaxReq,

		StandingsCacheTTL:    standingsCacheTTL,
		CompetitionsCacheTTL: competitionsCacheTTL,

		MatchFetchConcurrency:  matchFetchConcurrency,
		PlayerFetchConcurrency: playerFetchConcurrency,

		DefaultSeasonID:     defaultSeasonID,
		DefaultFederationID: defaultFederationID,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
