package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/eriknordin/InnebandyStats/internal/domain/standings"
	"github.com/eriknordin/InnebandyStats/internal/usecase"
)

type standingsQuery struct {
	Team      string
	Age       int `validate:"min=0"`
	BirthYear int `validate:"min=0"`
	Sort      string
	Desc      bool
}

type playerStandingDTO struct {
	PlayerID       int     `json:"playerId"`
	Name           string  `json:"name"`
	Team           string  `json:"team"`
	Age            int     `json:"age"`
	BirthYear      int     `json:"birthYear"`
	Matches        int     `json:"matches"`
	Goals          int     `json:"goals"`
	Assists        int     `json:"assists"`
	Points         int     `json:"points"`
	PointsPerGame  float64 `json:"pointsPerGame"`
	PenaltyMinutes int     `json:"penaltyMinutes"`
}

type facetsDTO struct {
	Teams      []string `json:"teams"`
	Ages       []int    `json:"ages"`
	BirthYears []int    `json:"birthYears"`
}

type sortDTO struct {
	Key        string `json:"key"`
	Descending bool   `json:"descending"`
}

type standingsResponseDTO struct {
	CompetitionID   int                 `json:"competitionId"`
	CompetitionName string              `json:"competitionName"`
	Standings       []playerStandingDTO `json:"standings"`
	Facets          facetsDTO           `json:"facets"`
	Sort            sortDTO             `json:"sort"`
}

func (h *Handler) GetCompetitionStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetitionStandings")
	defer span.End()

	competitionID, err := pathInt(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query, err := parseStandingsQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.standingsService.ComputeStandings(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "compute standings failed",
			"competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	name, err := h.standingsService.CompetitionName(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve competition name failed",
			"competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	facets := standings.BuildFacets(rows)

	filter := standings.Filter{Team: query.Team}
	if query.Age > 0 {
		age := query.Age
		filter.Age = &age
	}
	if query.BirthYear > 0 {
		birthYear := query.BirthYear
		filter.BirthYear = &birthYear
	}
	filtered := filter.Apply(rows)

	sortKey := standings.ParseSortKey(query.Sort)
	standings.Sort(filtered, sortKey, query.Desc)

	out := standingsResponseDTO{
		CompetitionID:   competitionID,
		CompetitionName: name,
		Standings:       make([]playerStandingDTO, 0, len(filtered)),
		Facets: facetsDTO{
			Teams:      facets.Teams,
			Ages:       facets.Ages,
			BirthYears: facets.BirthYears,
		},
		Sort: sortDTO{
			Key:        string(sortKey),
			Descending: query.Desc,
		},
	}
	for _, row := range filtered {
		out.Standings = append(out.Standings, playerStandingToDTO(ctx, row))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func parseStandingsQuery(r *http.Request) (standingsQuery, error) {
	values := r.URL.Query()
	query := standingsQuery{
		Team: strings.TrimSpace(values.Get("team")),
		Sort: values.Get("sort"),
		Desc: true,
	}

	var err error
	if query.Age, err = queryInt(r, "age", 0); err != nil {
		return standingsQuery{}, err
	}
	if query.BirthYear, err = queryInt(r, "birthyear", 0); err != nil {
		return standingsQuery{}, err
	}

	if raw := strings.TrimSpace(values.Get("desc")); raw != "" {
		desc, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return standingsQuery{}, fmt.Errorf("%w: desc must be a boolean", usecase.ErrInvalidInput)
		}
		query.Desc = desc
	}

	return query, nil
}

func playerStandingToDTO(ctx context.Context, v standings.PlayerStanding) playerStandingDTO {
	ctx, span := startSpan(ctx, "httpapi.playerStandingToDTO")
	defer span.End()

	return playerStandingDTO{
		PlayerID:       v.PlayerID,
		Name:           v.Name,
		Team:           v.Team,
		Age:            v.Age,
		BirthYear:      v.BirthYear,
		Matches:        v.Matches,
		Goals:          v.Goals,
		Assists:        v.Assists,
		Points:         v.Points(),
		PointsPerGame:  v.PointsPerGame(),
		PenaltyMinutes: v.PenaltyMinutes,
	}
}
