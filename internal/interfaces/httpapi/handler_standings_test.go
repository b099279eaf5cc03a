package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/eriknordin/InnebandyStats/external/innebandy"
	"github.com/eriknordin/InnebandyStats/internal/platform/cache"
	"github.com/eriknordin/InnebandyStats/internal/platform/logging"
	"github.com/eriknordin/InnebandyStats/internal/usecase"
)

type stubStatsProvider struct {
	matches  []innebandy.Match
	details  map[int]*innebandy.Match
	lineups  map[int]*innebandy.Lineup
	profiles map[int]*innebandy.Player
	comps    []innebandy.Competition
}

func (s *stubStatsProvider) Matches(context.Context, int) ([]innebandy.Match, error) {
	return s.matches, nil
}

func (s *stubStatsProvider) MatchDetails(_ context.Context, matchID int) (*innebandy.Match, error) {
	return s.details[matchID], nil
}

func (s *stubStatsProvider) Lineup(_ context.Context, matchID int) (*innebandy.Lineup, error) {
	return s.lineups[matchID], nil
}

func (s *stubStatsProvider) PlayerProfile(_ context.Context, playerID int) (*innebandy.Player, error) {
	return s.profiles[playerID], nil
}

func (s *stubStatsProvider) Competitions(context.Context, int, int) ([]innebandy.Competition, error) {
	return s.comps, nil
}

func newTestRouter(provider usecase.StatsProvider) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := usecase.NewStandingsService(
		provider,
		cache.NewStore(time.Minute),
		cache.NewStore(time.Minute),
		logging.NewNop(),
		usecase.StandingsServiceConfig{},
	)
	handler := NewHandler(svc, logger, CompetitionDefaults{SeasonID: 43, FederationID: 8})
	return NewRouter(handler, logger, []string{"*"})
}

func scoringFixtureProvider() *stubStatsProvider {
	return &stubStatsProvider{
		matches: []innebandy.Match{
			{MatchID: 100, CompetitionName: "Herrar Division 1", MatchStatus: innebandy.MatchStatusCompleted},
		},
		details: map[int]*innebandy.Match{
			100: {
				MatchID: 100,
				Events: []innebandy.MatchEvent{
					{
						MatchEventTypeID: innebandy.EventTypeGoal,
						PlayerID:         1,
						PlayerName:       "Anna Berg",
						PlayerAssistID:   2,
						PlayerAssistName: "Karin Lund",
						MatchTeamName:    "IBK Nord",
					},
				},
			},
		},
		lineups: map[int]*innebandy.Lineup{
			100: {
				MatchID:  100,
				HomeTeam: "IBK Nord",
				AwayTeam: "IBK Syd",
				HomeTeamPlayers: []innebandy.LineupPlayer{
					{PlayerID: 1, Name: "Anna Berg", Age: 23, BirthYear: 2003},
					{PlayerID: 2, Name: "Karin Lund", Age: 25, BirthYear: 2001},
				},
				AwayTeamPlayers: []innebandy.LineupPlayer{
					{PlayerID: 3, Name: "Eva Holm", Age: 21, BirthYear: 2005},
				},
			},
		},
	}
}

func decodeEnvelopeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

func TestGetCompetitionStandings_HappyPath(t *testing.T) {
	router := newTestRouter(scoringFixtureProvider())

	req := httptest.NewRequest(http.MethodGet, "/v1/competitions/7/standings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeEnvelopeData(t, rec)
	if got, _ := data["competitionName"].(string); got != "Herrar Division 1" {
		t.Fatalf("competitionName = %q", got)
	}

	rows, ok := data["standings"].([]any)
	if !ok || len(rows) != 3 {
		t.Fatalf("expected 3 standings rows, got %v", data["standings"])
	}

	// Default sort is points descending: the scorer leads the table.
	first, _ := rows[0].(map[string]any)
	if got, _ := first["name"].(string); got != "Anna Berg" {
		t.Fatalf("expected Anna Berg on top, got %q", got)
	}
	if got, _ := first["points"].(float64); got != 1 {
		t.Fatalf("expected 1 point for top scorer, got %v", got)
	}
	if got, _ := first["pointsPerGame"].(float64); got != 1 {
		t.Fatalf("expected pointsPerGame 1, got %v", got)
	}

	facets, ok := data["facets"].(map[string]any)
	if !ok {
		t.Fatalf("expected facets object, got %v", data["facets"])
	}
	teams, _ := facets["teams"].([]any)
	if len(teams) != 2 {
		t.Fatalf("expected 2 team facets, got %v", facets["teams"])
	}
}

func TestGetCompetitionStandings_TeamFilter(t *testing.T) {
	router := newTestRouter(scoringFixtureProvider())

	req := httptest.NewRequest(http.MethodGet, "/v1/competitions/7/standings?team=IBK+Syd", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeEnvelopeData(t, rec)
	rows, _ := data["standings"].([]any)
	if len(rows) != 1 {
		t.Fatalf("expected 1 filtered row, got %d", len(rows))
	}
	row, _ := rows[0].(map[string]any)
	if got, _ := row["name"].(string); got != "Eva Holm" {
		t.Fatalf("expected Eva Holm after team filter, got %q", got)
	}

	// Facets always describe the unfiltered table.
	facets, _ := data["facets"].(map[string]any)
	teams, _ := facets["teams"].([]any)
	if len(teams) != 2 {
		t.Fatalf("expected unfiltered team facets, got %v", facets["teams"])
	}
}

func TestGetCompetitionStandings_SortAscendingByName(t *testing.T) {
	router := newTestRouter(scoringFixtureProvider())

	req := httptest.NewRequest(http.MethodGet, "/v1/competitions/7/standings?sort=name&desc=false", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	data := decodeEnvelopeData(t, rec)
	rows, _ := data["standings"].([]any)
	names := make([]string, 0, len(rows))
	for _, raw := range rows {
		row, _ := raw.(map[string]any)
		name, _ := row["name"].(string)
		names = append(names, name)
	}
	want := []string{"Anna Berg", "Eva Holm", "Karin Lund"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestGetCompetitionStandings_InvalidQuery(t *testing.T) {
	router := newTestRouter(scoringFixtureProvider())

	for _, target := range []string{
		"/v1/competitions/abc/standings",
		"/v1/competitions/7/standings?age=abc",
		"/v1/competitions/7/standings?birthyear=-1",
		"/v1/competitions/7/standings?desc=maybe",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", target, rec.Code)
		}
	}
}

func TestListCompetitions_UsesDefaults(t *testing.T) {
	provider := scoringFixtureProvider()
	provider.comps = []innebandy.Competition{
		{CompetitionID: 2, Name: "Herrar Division 1"},
		{CompetitionID: 1, Name: "Damer Allsvenskan"},
	}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/v1/competitions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeEnvelopeData(t, rec)
	if got, _ := data["seasonId"].(float64); got != 43 {
		t.Fatalf("expected default season 43, got %v", got)
	}
	if got, _ := data["federationId"].(float64); got != 8 {
		t.Fatalf("expected default federation 8, got %v", got)
	}

	items, _ := data["competitions"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 competitions, got %d", len(items))
	}
	first, _ := items[0].(map[string]any)
	if got, _ := first["name"].(string); got != "Damer Allsvenskan" {
		t.Fatalf("expected name-sorted listing, got %q first", got)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(scoringFixtureProvider())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
