package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eriknordin/InnebandyStats/internal/usecase"
)

// CompetitionDefaults selects the season and federation used when a
// competitions listing request does not name one.
type CompetitionDefaults struct {
	SeasonID     int
	FederationID int
}

type Handler struct {
	standingsService *usecase.StandingsService
	logger           *slog.Logger
	validator        *validator.Validate
	defaults         CompetitionDefaults
}

func NewHandler(
	standingsService *usecase.StandingsService,
	logger *slog.Logger,
	defaults CompetitionDefaults,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		standingsService: standingsService,
		logger:           logger,
		validator:        validator.New(),
		defaults:         defaults,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// queryInt parses an optional positive integer query parameter, returning
// fallback when the parameter is absent.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
