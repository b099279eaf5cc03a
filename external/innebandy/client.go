package innebandy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/eriknordin/InnebandyStats/internal/platform/logging"
	"github.com/eriknordin/InnebandyStats/internal/platform/resilience"
)

const (
	defaultBaseURL     = "https://api.innebandy.se/v2/api"
	defaultStartkitURL = "https://api.innebandy.se/StatsAppApi/api/startkit"
)

// ErrAuth marks a failed or malformed startkit token bootstrap. Fatal for
// every call that needs an authorized request.
var ErrAuth = crerr.New("startkit token bootstrap failed")

// ErrRemoteAPI marks a non-success response from a required stats API call.
var ErrRemoteAPI = crerr.New("stats api request failed")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	StartkitURL    string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the federation stats API. It lazily fetches one bearer
// token per process and reuses it for every authorized call; there is no
// refresh or expiry handling.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	startkitURL    string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight

	tokenMu sync.RWMutex
	token   string
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	startkitURL := strings.TrimSpace(cfg.StartkitURL)
	if startkitURL == "" {
		startkitURL = defaultStartkitURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		startkitURL:    startkitURL,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Matches lists every match of a competition. The match-list response never
// carries events; those come from MatchDetails.
func (c *Client) Matches(ctx context.Context, competitionID int) ([]Match, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}

	status, raw, err := c.doAuthorized(ctx, fmt.Sprintf("/competitions/%d/matches", competitionID))
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: matches competition_id=%d status=%d body=%s", ErrRemoteAPI, competitionID, status, abbreviateBody(raw))
	}
	if len(raw) == 0 {
		return []Match{}, nil
	}

	var out []Match
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode matches competition_id=%d: %w", competitionID, err)
	}
	return out, nil
}

// MatchDetails fetches one match including its event list. Missing or failed
// matches resolve to nil so a single broken match cannot abort a whole
// aggregation run.
func (c *Client) MatchDetails(ctx context.Context, matchID int) (*Match, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("match id must be greater than zero")
	}

	status, raw, err := c.doAuthorized(ctx, fmt.Sprintf("/matches/%d", matchID))
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		c.logger.WarnContext(ctx, "fetch match details failed, dropping match", "match_id", matchID, "status", status)
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var out Match
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode match details match_id=%d: %w", matchID, err)
	}
	return &out, nil
}

// Lineup fetches both rosters for a match. Best-effort: a non-success status
// degrades data quality for that match only.
func (c *Client) Lineup(ctx context.Context, matchID int) (*Lineup, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("match id must be greater than zero")
	}

	status, raw, err := c.doAuthorized(ctx, fmt.Sprintf("/matches/%d/lineups", matchID))
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		c.logger.WarnContext(ctx, "fetch lineup failed, dropping lineup", "match_id", matchID, "status", status)
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var out Lineup
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode lineup match_id=%d: %w", matchID, err)
	}
	return &out, nil
}

// PlayerProfile fetches a federation-wide player profile. Best-effort, same
// tolerance as Lineup.
func (c *Client) PlayerProfile(ctx context.Context, playerID int) (*Player, error) {
	if playerID <= 0 {
		return nil, fmt.Errorf("player id must be greater than zero")
	}

	status, raw, err := c.doAuthorized(ctx, fmt.Sprintf("/players/%d", playerID))
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		c.logger.WarnContext(ctx, "fetch player profile failed, skipping backfill", "player_id", playerID, "status", status)
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var out Player
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode player profile player_id=%d: %w", playerID, err)
	}
	return &out, nil
}

// Competitions lists the competitions of a season within one federation.
func (c *Client) Competitions(ctx context.Context, seasonID, federationID int) ([]Competition, error) {
	if seasonID <= 0 || federationID <= 0 {
		return nil, fmt.Errorf("season id and federation id must be greater than zero")
	}

	status, raw, err := c.doAuthorized(ctx, fmt.Sprintf("/seasons/%d/federations/%d/competitions", seasonID, federationID))
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: competitions season_id=%d federation_id=%d status=%d body=%s", ErrRemoteAPI, seasonID, federationID, status, abbreviateBody(raw))
	}
	if len(raw) == 0 {
		return []Competition{}, nil
	}

	var out []Competition
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode competitions season_id=%d federation_id=%d: %w", seasonID, federationID, err)
	}
	return out, nil
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.tokenMu.RLock()
	token := c.token
	c.tokenMu.RUnlock()
	if token != "" {
		return token, nil
	}

	out, err, _ := c.flight.Do("startkit", func() (any, error) {
		c.tokenMu.RLock()
		cached := c.token
		c.tokenMu.RUnlock()
		if cached != "" {
			return cached, nil
		}

		fetched, fetchErr := c.fetchToken(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}

		c.tokenMu.Lock()
		c.token = fetched
		c.tokenMu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return "", err
	}

	token, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("unexpected token payload type %T", out)
	}
	return token, nil
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	c.logger.InfoContext(ctx, "fetching access token from startkit")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.startkitURL, nil)
	if err != nil {
		return "", fmt.Errorf("build startkit request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: send startkit request: %v", ErrAuth, err)
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return "", fmt.Errorf("%w: read startkit response: %v", ErrAuth, readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: startkit status=%d body=%s", ErrAuth, resp.StatusCode, abbreviateBody(raw))
	}

	var envelope startkitEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("%w: decode startkit response: %v", ErrAuth, err)
	}
	if envelope.AccessToken == nil || strings.TrimSpace(*envelope.AccessToken) == "" {
		return "", fmt.Errorf("%w: accessToken missing in startkit response", ErrAuth)
	}

	c.logger.InfoContext(ctx, "access token fetched")
	return *envelope.AccessToken, nil
}

func (c *Client) doAuthorized(ctx context.Context, path string) (int, []byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats api circuit breaker rejected request", "state", c.breaker.State())
			return 0, nil, fmt.Errorf("%w: stats api is temporarily unavailable", ErrRemoteAPI)
		}
	}

	token, err := c.ensureToken(ctx)
	if err != nil {
		if c.circuitEnabled {
			c.breaker.RecordFailure()
		}
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.circuitEnabled {
			c.breaker.RecordFailure()
		}
		return 0, nil, fmt.Errorf("%w: send request path=%s: %v", ErrRemoteAPI, path, err)
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		if c.circuitEnabled {
			c.breaker.RecordFailure()
		}
		return 0, nil, fmt.Errorf("%w: read response body path=%s: %v", ErrRemoteAPI, path, readErr)
	}

	if c.circuitEnabled {
		if resp.StatusCode >= 500 {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return resp.StatusCode, raw, nil
}

func abbreviateBody(raw []byte) string {
	const max = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > max {
		return body[:max] + "..."
	}
	return body
}
