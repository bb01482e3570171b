package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/leaguefolio/src/logger"
	"github.com/username/leaguefolio/src/models"
)

var ErrProviderStatus = errors.New("provider returned non-OK status")

// Client talks to the league data provider's REST API. Outbound calls are
// rate limited and GET responses are cached for the configured expiry, so a
// full-season sync does not hammer the provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
}

func NewClient(baseURL string, timeout time.Duration, requestsPerSec float64, burst int, responseCache *cache.Cache) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSec), burst),
		cache:      responseCache,
	}
}

// GetLeagueRosters fetches the league's roster slots.
func (c *Client) GetLeagueRosters(ctx context.Context, leagueID string) ([]models.LeagueRoster, error) {
	var rosters []models.LeagueRoster
	path := fmt.Sprintf("/league/%s/rosters", leagueID)
	if err := c.getJSON(ctx, path, &rosters); err != nil {
		return nil, fmt.Errorf("fetching rosters for league %s: %w", leagueID, err)
	}
	return rosters, nil
}

// GetLeagueUsers fetches the league's members.
func (c *Client) GetLeagueUsers(ctx context.Context, leagueID string) ([]models.LeagueUser, error) {
	var users []models.LeagueUser
	path := fmt.Sprintf("/league/%s/users", leagueID)
	if err := c.getJSON(ctx, path, &users); err != nil {
		return nil, fmt.Errorf("fetching users for league %s: %w", leagueID, err)
	}
	return users, nil
}

// GetTransactions fetches one week's raw activity feed, ordered as the
// provider reports it.
func (c *Client) GetTransactions(ctx context.Context, leagueID string, week int) ([]models.RawTransaction, error) {
	var txs []models.RawTransaction
	path := fmt.Sprintf("/league/%s/transactions/%d", leagueID, week)
	if err := c.getJSON(ctx, path, &txs); err != nil {
		return nil, fmt.Errorf("fetching transactions for league %s week %d: %w", leagueID, week, err)
	}
	return txs, nil
}

// GetPlayers fetches the provider's full player listing. The payload is
// large and changes rarely, so the cache matters most here.
func (c *Client) GetPlayers(ctx context.Context) (map[string]models.Player, error) {
	var players map[string]models.Player
	if err := c.getJSON(ctx, "/players/nfl", &players); err != nil {
		return nil, fmt.Errorf("fetching player listing: %w", err)
	}
	return players, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if cached, found := c.cache.Get(path); found {
		logger.L.Debug("Provider cache hit", "path", path)
		return json.Unmarshal(cached.([]byte), out)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s from %s", ErrProviderStatus, resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	logger.L.Debug("Provider request complete", "path", path, "bytes", len(body), "duration", time.Since(start))

	c.cache.Set(path, body, cache.DefaultExpiration)
	return json.Unmarshal(body, out)
}
