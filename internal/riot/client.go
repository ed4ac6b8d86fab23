package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

const (
	// Rate limits for dev key (conservative values to stay under the real caps)
	requestsPerSecond = 15 // Actual: 20
	requestsPer2Min   = 90 // Actual: 100
)

// Routing regions for match-v5 endpoints
var routingBaseURLs = map[string]string{
	"americas": "https://americas.api.riotgames.com",
	"asia":     "https://asia.api.riotgames.com",
	"europe":   "https://europe.api.riotgames.com",
}

// Client is a rate-limited Riot API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// Sliding-window rate limiting
	mu          sync.Mutex
	shortWindow []time.Time // Requests in last second
	longWindow  []time.Time // Requests in last 2 minutes
}

// NewClient creates a new Riot API client. The API key comes from the
// RIOT_API_KEY environment variable, the routing region from RIOT_REGION
// (defaults to asia, matching the jp1 platform the collector targets).
func NewClient() (*Client, error) {
	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY environment variable not set")
	}

	region := os.Getenv("RIOT_REGION")
	if region == "" {
		region = "asia"
	}
	baseURL, ok := routingBaseURLs[region]
	if !ok {
		return nil, fmt.Errorf("unknown routing region %q (want americas, asia or europe)", region)
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		shortWindow: make([]time.Time, 0),
		longWindow:  make([]time.Time, 0),
	}, nil
}

// waitForRateLimit blocks until we can make another request
func (c *Client) waitForRateLimit() {
	for {
		c.mu.Lock()

		now := time.Now()
		oneSecondAgo := now.Add(-1 * time.Second)
		twoMinutesAgo := now.Add(-2 * time.Minute)

		newShort := make([]time.Time, 0, len(c.shortWindow))
		for _, t := range c.shortWindow {
			if t.After(oneSecondAgo) {
				newShort = append(newShort, t)
			}
		}
		c.shortWindow = newShort

		newLong := make([]time.Time, 0, len(c.longWindow))
		for _, t := range c.longWindow {
			if t.After(twoMinutesAgo) {
				newLong = append(newLong, t)
			}
		}
		c.longWindow = newLong

		if len(c.shortWindow) >= requestsPerSecond {
			waitTime := c.shortWindow[0].Add(time.Second).Sub(now) + 100*time.Millisecond
			c.mu.Unlock()
			time.Sleep(waitTime)
			continue
		}

		if len(c.longWindow) >= requestsPer2Min {
			waitTime := c.longWindow[0].Add(2*time.Minute).Sub(now) + 100*time.Millisecond
			c.mu.Unlock()
			fmt.Printf("      [Rate limit] %d req/2min, waiting %.1fs...\n", len(c.longWindow), waitTime.Seconds())
			time.Sleep(waitTime)
			continue
		}

		c.shortWindow = append(c.shortWindow, time.Now())
		c.longWindow = append(c.longWindow, time.Now())
		c.mu.Unlock()
		return
	}
}

// doRequest makes a rate-limited request
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	c.waitForRateLimit()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		// Rate limited - honor Retry-After and retry
		retryAfter := resp.Header.Get("Retry-After")
		waitTime := 10
		if retryAfter != "" {
			fmt.Sscanf(retryAfter, "%d", &waitTime)
		}
		fmt.Printf("      [429 Rate Limited] Waiting %d seconds...\n", waitTime)
		time.Sleep(time.Duration(waitTime) * time.Second)
		return c.doRequest(ctx, url, result)
	}

	if resp.StatusCode == 403 {
		return fmt.Errorf("API returned 403 Forbidden - check if your API key is valid")
	}

	if resp.StatusCode == 404 {
		return fmt.Errorf("API returned 404 Not Found - player/match may not exist")
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// GetAccountByRiotID fetches account info by Riot ID (gameName#tagLine)
func (c *Client) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*AccountResponse, error) {
	url := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.baseURL, gameName, tagLine)

	var account AccountResponse
	err := c.doRequest(ctx, url, &account)
	return &account, err
}

// GetMatchHistory fetches ranked match IDs for a player
func (c *Client) GetMatchHistory(ctx context.Context, puuid string, count int) ([]string, error) {
	url := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?queue=420&count=%d",
		c.baseURL, puuid, count)

	var matchIDs []string
	err := c.doRequest(ctx, url, &matchIDs)
	return matchIDs, err
}

// GetMatch fetches the match-summary document
func (c *Client) GetMatch(ctx context.Context, matchID string) (*MatchResponse, error) {
	url := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.baseURL, matchID)

	var match MatchResponse
	err := c.doRequest(ctx, url, &match)
	return &match, err
}

// GetTimeline fetches the timeline document
func (c *Client) GetTimeline(ctx context.Context, matchID string) (*TimelineResponse, error) {
	url := fmt.Sprintf("%s/lol/match/v5/matches/%s/timeline", c.baseURL, matchID)

	var timeline TimelineResponse
	err := c.doRequest(ctx, url, &timeline)
	return &timeline, err
}
