package discord

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// Colors for Discord embeds
	colorRed   = 15158332 // 0xE74C3C - for errors/invalid key
	colorGreen = 5763719  // 0x57F287 - for success

	// Default timeout for webhook requests
	defaultWebhookTimeout = 10 * time.Second

	// Max retries for rate limiting
	maxRetries = 3
)

// WebhookPayload represents a Discord webhook message
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed represents a Discord embed
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField represents a field in a Discord embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter represents the footer of a Discord embed
type EmbedFooter struct {
	Text string `json:"text"`
}

// NewCrawlStartedPayload creates a payload for a new crawl session
func NewCrawlStartedPayload(apiKey string, seedPlayer string) WebhookPayload {
	return WebhookPayload{
		Embeds: []Embed{
			{
				Title: "✅ Crawl Started",
				Color: colorGreen,
				Fields: []EmbedField{
					{
						Name:   "API Key",
						Value:  maskAPIKey(apiKey) + " (validated)",
						Inline: true,
					},
					{
						Name:   "Seed Player",
						Value:  seedPlayer,
						Inline: true,
					},
				},
				Footer: &EmbedFooter{
					Text: "Snowballing from the seed player's match history",
				},
			},
		},
	}
}

// NewCrawlCompletedPayload creates a payload summarizing a finished crawl
func NewCrawlCompletedPayload(matchesAnalyzed, soloKills int, runtime time.Duration) WebhookPayload {
	return WebhookPayload{
		Embeds: []Embed{
			{
				Title: "🏁 Crawl Complete",
				Color: colorGreen,
				Fields: []EmbedField{
					{
						Name:   "Matches Analyzed",
						Value:  formatNumber(matchesAnalyzed),
						Inline: true,
					},
					{
						Name:   "Solo Kills",
						Value:  formatNumber(soloKills),
						Inline: true,
					},
					{
						Name:   "Runtime",
						Value:  formatDuration(runtime),
						Inline: true,
					},
				},
			},
		},
	}
}

// NewKeyInvalidPayload creates a payload for a rejected API key
func NewKeyInvalidPayload(apiKey string) WebhookPayload {
	return WebhookPayload{
		Content: "@here API Key Invalid!",
		Embeds: []Embed{
			{
				Title:       "🔑 API Key Rejected",
				Description: "Validation request returned 401/403 for " + maskAPIKey(apiKey),
				Color:       colorRed,
				Footer: &EmbedFooter{
					Text: "Set a fresh RGAPI-xxx key in RIOT_API_KEY and restart the crawl",
				},
			},
		},
	}
}

// WebhookClient sends notifications to Discord webhooks
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new WebhookClient
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: defaultWebhookTimeout,
		},
	}
}

// SendCrawlStarted notifies that a validated crawl session has begun
func (c *WebhookClient) SendCrawlStarted(ctx context.Context, apiKey, seedPlayer string) error {
	return c.sendPayload(ctx, NewCrawlStartedPayload(apiKey, seedPlayer))
}

// SendCrawlCompleted notifies with the final crawl counters
func (c *WebhookClient) SendCrawlCompleted(ctx context.Context, matchesAnalyzed, soloKills int, runtime time.Duration) error {
	return c.sendPayload(ctx, NewCrawlCompletedPayload(matchesAnalyzed, soloKills, runtime))
}

// SendKeyInvalid notifies that the configured API key failed validation
func (c *WebhookClient) SendKeyInvalid(ctx context.Context, apiKey string) error {
	return c.sendPayload(ctx, NewKeyInvalidPayload(apiKey))
}

// sendPayload sends a webhook payload with retry on rate limiting
func (c *WebhookClient) sendPayload(ctx context.Context, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		resp.Body.Close()

		// Success - Discord returns 204 No Content
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
			return nil
		}

		// Rate limited - wait and retry
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			waitDuration := time.Second // Default wait
			if retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					waitDuration = time.Duration(seconds) * time.Second
				}
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		// Other error
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook request failed after %d retries", maxRetries)
}

// formatNumber formats a number with commas (e.g., 47832 -> "47,832")
func formatNumber(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}

	s := strconv.Itoa(n)
	var result bytes.Buffer
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteByte(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}

// formatDuration formats a duration as "Xh Ym" (e.g., 18h 32m)
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// maskAPIKey masks an API key for display (e.g., "RGAPI-xxxx-xxxx" -> "RGAPI-...xxxx")
func maskAPIKey(key string) string {
	if len(key) <= 10 {
		return "****"
	}
	return key[:5] + "..." + key[len(key)-4:]
}
