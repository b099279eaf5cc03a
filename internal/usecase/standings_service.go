package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/eriknordin/InnebandyStats/external/innebandy"
	"github.com/eriknordin/InnebandyStats/internal/domain/standings"
	"github.com/eriknordin/InnebandyStats/internal/platform/cache"
	"github.com/eriknordin/InnebandyStats/internal/platform/logging"
)

const (
	defaultMatchFetchConcurrency  = 5
	defaultPlayerFetchConcurrency = 10
)

// StatsProvider is the slice of the federation stats API the aggregation
// needs. Satisfied by *innebandy.Client.
type StatsProvider interface {
	Matches(ctx context.Context, competitionID int) ([]innebandy.Match, error)
	MatchDetails(ctx context.Context, matchID int) (*innebandy.Match, error)
	Lineup(ctx context.Context, matchID int) (*innebandy.Lineup, error)
	PlayerProfile(ctx context.Context, playerID int) (*innebandy.Player, error)
	Competitions(ctx context.Context, seasonID, federationID int) ([]innebandy.Competition, error)
}

type StandingsServiceConfig struct {
	// MatchFetchConcurrency caps in-flight match detail and lineup fetches.
	MatchFetchConcurrency int
	// PlayerFetchConcurrency caps in-flight player profile fetches.
	PlayerFetchConcurrency int
}

// StandingsService aggregates per-player scoring tables for a competition
// from the remote stats API. Results and competition metadata are cached;
// standingsCache holds the short-lived entries (tables, competition names)
// and competitionsCache the slower-moving competition listings.
type StandingsService struct {
	provider          StatsProvider
	standingsCache    *cache.Store
	competitionsCache *cache.Store
	logger            *logging.Logger

	matchConcurrency  int
	playerConcurrency int
}

func NewStandingsService(
	provider StatsProvider,
	standingsCache *cache.Store,
	competitionsCache *cache.Store,
	logger *logging.Logger,
	cfg StandingsServiceConfig,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MatchFetchConcurrency < 1 {
		cfg.MatchFetchConcurrency = defaultMatchFetchConcurrency
	}
	if cfg.PlayerFetchConcurrency < 1 {
		cfg.PlayerFetchConcurrency = defaultPlayerFetchConcurrency
	}

	return &StandingsService{
		provider:          provider,
		standingsCache:    standingsCache,
		competitionsCache: competitionsCache,
		logger:            logger,
		matchConcurrency:  cfg.MatchFetchConcurrency,
		playerConcurrency: cfg.PlayerFetchConcurrency,
	}
}

// ComputeStandings returns the aggregated scoring table of a competition in
// first-encounter order, unfiltered and unsorted. Cached per competition;
// concurrent callers for the same competition share one aggregation run.
func (s *StandingsService) ComputeStandings(ctx context.Context, competitionID int) ([]standings.PlayerStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ComputeStandings")
	defer span.End()

	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id must be greater than zero", ErrInvalidInput)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	key := fmt.Sprintf("standings:%d", competitionID)
	out, err := s.standingsCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.computeStandings(ctx, competitionID)
	})
	if err != nil {
		return nil, err
	}

	rows, ok := out.([]standings.PlayerStanding)
	if !ok {
		return nil, fmt.Errorf("unexpected standings cache payload type %T", out)
	}
	return rows, nil
}

// CompetitionName returns the display name of a competition, taken from the
// first match of its match list. Empty when the competition has no matches.
func (s *StandingsService) CompetitionName(ctx context.Context, competitionID int) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.CompetitionName")
	defer span.End()

	if competitionID <= 0 {
		return "", fmt.Errorf("%w: competition id must be greater than zero", ErrInvalidInput)
	}
	if s.provider == nil {
		return "", fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	key := competitionNameKey(competitionID)
	out, err := s.standingsCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		matches, err := s.provider.Matches(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return competitionNameFromMatches(matches), nil
	})
	if err != nil {
		return "", err
	}

	name, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("unexpected competition name cache payload type %T", out)
	}
	return name, nil
}

// Competitions lists the competitions of a season within a federation,
// sorted by name. Cached per season/federation pair.
func (s *StandingsService) Competitions(ctx context.Context, seasonID, federationID int) ([]innebandy.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Competitions")
	defer span.End()

	if seasonID <= 0 {
		return nil, fmt.Errorf("%w: season id must be greater than zero", ErrInvalidInput)
	}
	if federationID <= 0 {
		return nil, fmt.Errorf("%w: federation id must be greater than zero", ErrInvalidInput)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}

	key := fmt.Sprintf("competitions:%d:%d", seasonID, federationID)
	out, err := s.competitionsCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := s.provider.Competitions(ctx, seasonID, federationID)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Name < items[j].Name
		})
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, ok := out.([]innebandy.Competition)
	if !ok {
		return nil, fmt.Errorf("unexpected competitions cache payload type %T", out)
	}
	return items, nil
}

func (s *StandingsService) computeStandings(ctx context.Context, competitionID int) ([]standings.PlayerStanding, error) {
	matches, err := s.provider.Matches(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("fetch matches competition_id=%d: %w", competitionID, err)
	}

	// The match list is the only source of the competition's display name, so
	// prime that entry while the payload is at hand.
	s.standingsCache.Set(ctx, competitionNameKey(competitionID), competitionNameFromMatches(matches))

	completed := make([]innebandy.Match, 0, len(matches))
	for _, m := range matches {
		if m.MatchStatus == innebandy.MatchStatusCompleted {
			completed = append(completed, m)
		}
	}
	if len(completed) == 0 {
		return []standings.PlayerStanding{}, nil
	}

	details, lineups, err := s.fetchMatchData(ctx, completed)
	if err != nil {
		return nil, err
	}

	// All lineups fold before any events: a player's row is seeded from the
	// roster whenever one carries them, and only event-only players get their
	// identity from event data.
	table := standings.NewTable()
	for i := range completed {
		foldLineup(table, lineups[i])
	}
	for i := range completed {
		foldEvents(table, details[i])
	}

	if err := s.backfillProfiles(ctx, table); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "standings aggregated",
		"competition_id", competitionID,
		"matches_total", len(matches),
		"matches_completed", len(completed),
		"players", table.Len(),
	)
	return table.Rows(), nil
}

// fetchMatchData fans out the detail and lineup fetch of every completed
// match over one bounded pool. Results are collected per match-list index so
// the later fold is deterministic regardless of completion order.
func (s *StandingsService) fetchMatchData(ctx context.Context, completed []innebandy.Match) ([]*innebandy.Match, []*innebandy.Lineup, error) {
	pool, err := ants.NewPool(s.matchConcurrency)
	if err != nil {
		return nil, nil, fmt.Errorf("create match fetch pool: %w", err)
	}
	defer pool.Release()

	details := make([]*innebandy.Match, len(completed))
	lineups := make([]*innebandy.Lineup, len(completed))

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	for i := range completed {
		i := i
		matchID := completed[i].MatchID

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			detail, err := s.provider.MatchDetails(ctx, matchID)
			if err != nil {
				fail(fmt.Errorf("fetch match details match_id=%d: %w", matchID, err))
				return
			}
			details[i] = detail
		}); err != nil {
			wg.Done()
			return nil, nil, fmt.Errorf("submit match detail fetch: %w", err)
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			lineup, err := s.provider.Lineup(ctx, matchID)
			if err != nil {
				fail(fmt.Errorf("fetch lineup match_id=%d: %w", matchID, err))
				return
			}
			lineups[i] = lineup
		}); err != nil {
			wg.Done()
			return nil, nil, fmt.Errorf("submit lineup fetch: %w", err)
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, nil, firstErr
	}
	return details, lineups, nil
}

// backfillProfiles overlays federation-wide profile data onto the table:
// positive ages and birth years win over lineup data, non-empty names win
// over event data. Missing profiles leave the row untouched.
func (s *StandingsService) backfillProfiles(ctx context.Context, table *standings.Table) error {
	playerIDs := table.PlayerIDs()
	if len(playerIDs) == 0 {
		return nil
	}

	pool, err := ants.NewPool(s.playerConcurrency)
	if err != nil {
		return fmt.Errorf("create player fetch pool: %w", err)
	}
	defer pool.Release()

	profiles := make([]*innebandy.Player, len(playerIDs))

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	for i, playerID := range playerIDs {
		i, playerID := i, playerID
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			profile, err := s.provider.PlayerProfile(ctx, playerID)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("fetch player profile player_id=%d: %w", playerID, err)
				}
				errMu.Unlock()
				return
			}
			profiles[i] = profile
		}); err != nil {
			wg.Done()
			return fmt.Errorf("submit player profile fetch: %w", err)
		}
	}

	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	for i, playerID := range playerIDs {
		profile := profiles[i]
		if profile == nil {
			continue
		}
		row, ok := table.Get(playerID)
		if !ok {
			continue
		}
		if profile.Age > 0 {
			row.Age = profile.Age
		}
		if profile.BirthYear > 0 {
			row.BirthYear = profile.BirthYear
		}
		if name := strings.TrimSpace(profile.Name); name != "" {
			row.Name = name
		}
	}
	return nil
}

// foldLineup counts one appearance per rostered player and seeds identity
// fields. Positive ages and birth years overwrite whatever an earlier match
// recorded; zeroes never erase known values.
func foldLineup(table *standings.Table, lineup *innebandy.Lineup) {
	if lineup == nil {
		return
	}

	foldRoster(table, lineup.HomeTeamPlayers, strings.TrimSpace(lineup.HomeTeam))
	foldRoster(table, lineup.AwayTeamPlayers, strings.TrimSpace(lineup.AwayTeam))
}

func foldRoster(table *standings.Table, roster []innebandy.LineupPlayer, team string) {
	for _, p := range roster {
		if p.PlayerID <= 0 {
			continue
		}
		row := table.Ensure(p.PlayerID, p.Name, team)
		row.Matches++
		if p.Age > 0 {
			row.Age = p.Age
		}
		if p.BirthYear > 0 {
			row.BirthYear = p.BirthYear
		}
	}
}

// foldEvents credits goals, assists and penalty minutes from a match's event
// list. Penalties are a flat two minutes each; the detailed penalty code is
// not broken down.
func foldEvents(table *standings.Table, detail *innebandy.Match) {
	if detail == nil {
		return
	}

	for _, event := range detail.Events {
		team := strings.TrimSpace(event.MatchTeamName)
		switch event.MatchEventTypeID {
		case innebandy.EventTypeGoal:
			if event.PlayerID > 0 {
				row := table.Ensure(event.PlayerID, event.PlayerName, team)
				row.Goals++
			}
			if event.PlayerAssistID > 0 {
				row := table.Ensure(event.PlayerAssistID, event.PlayerAssistName, team)
				row.Assists++
			}
		case innebandy.EventTypePenalty:
			if event.PlayerID > 0 {
				row := table.Ensure(event.PlayerID, event.PlayerName, team)
				row.PenaltyMinutes += 2
			}
		}
	}
}

func competitionNameKey(competitionID int) string {
	return fmt.Sprintf("compname:%d", competitionID)
}

func competitionNameFromMatches(matches []innebandy.Match) string {
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[0].CompetitionName)
}
