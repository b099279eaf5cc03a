package httpapi

import (
	"context"
	"net/http"

	"github.com/eriknordin/InnebandyStats/external/innebandy"
)

type competitionDTO struct {
	CompetitionID  int    `json:"competitionId"`
	Name           string `json:"name"`
	CategoryName   string `json:"categoryName"`
	SeasonName     string `json:"seasonName"`
	FederationName string `json:"federationName"`
	Status         string `json:"status"`
}

type competitionsResponseDTO struct {
	SeasonID     int              `json:"seasonId"`
	FederationID int              `json:"federationId"`
	Competitions []competitionDTO `json:"competitions"`
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	seasonID, err := queryInt(r, "season", h.defaults.SeasonID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	federationID, err := queryInt(r, "federation", h.defaults.FederationID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.standingsService.Competitions(ctx, seasonID, federationID)
	if err != nil {
		h.logger.WarnContext(ctx, "list competitions failed",
			"season_id", seasonID, "federation_id", federationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := competitionsResponseDTO{
		SeasonID:     seasonID,
		FederationID: federationID,
		Competitions: make([]competitionDTO, 0, len(items)),
	}
	for _, item := range items {
		out.Competitions = append(out.Competitions, competitionToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func competitionToDTO(ctx context.Context, v innebandy.Competition) competitionDTO {
	ctx, span := startSpan(ctx, "httpapi.competitionToDTO")
	defer span.End()

	return competitionDTO{
		CompetitionID:  v.CompetitionID,
		Name:           v.Name,
		CategoryName:   v.CategoryName,
		SeasonName:     v.SeasonName,
		FederationName: v.FederationName,
		Status:         v.CompetitionStatus,
	}
}
