package discord

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestCrawlCompletedPayloadFormat(t *testing.T) {
	payload := NewCrawlCompletedPayload(47832, 1503, 18*time.Hour+32*time.Minute)

	if len(payload.Embeds) != 1 {
		t.Fatalf("got %d embeds, want 1", len(payload.Embeds))
	}
	embed := payload.Embeds[0]

	if !strings.Contains(embed.Title, "Crawl Complete") {
		t.Errorf("title = %q, want it to mention Crawl Complete", embed.Title)
	}
	if embed.Color != colorGreen {
		t.Errorf("color = %d, want green %d", embed.Color, colorGreen)
	}
	if len(embed.Fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(embed.Fields))
	}
	if embed.Fields[0].Value != "47,832" {
		t.Errorf("matches value = %q, want 47,832", embed.Fields[0].Value)
	}
	if embed.Fields[1].Value != "1,503" {
		t.Errorf("kills value = %q, want 1,503", embed.Fields[1].Value)
	}
	if embed.Fields[2].Value != "18h 32m" {
		t.Errorf("runtime value = %q, want 18h 32m", embed.Fields[2].Value)
	}
}

func TestKeyInvalidPayloadFormat(t *testing.T) {
	payload := NewKeyInvalidPayload("RGAPI-1234-5678-abcd")

	if !strings.Contains(payload.Content, "@here") {
		t.Error("content has no @here mention")
	}
	if len(payload.Embeds) != 1 {
		t.Fatalf("got %d embeds, want 1", len(payload.Embeds))
	}
	embed := payload.Embeds[0]
	if embed.Color != colorRed {
		t.Errorf("color = %d, want red %d", embed.Color, colorRed)
	}
	// The raw key must never appear in a notification
	if strings.Contains(embed.Description, "RGAPI-1234-5678-abcd") {
		t.Error("description leaks the full API key")
	}
	if !strings.Contains(embed.Description, "abcd") {
		t.Errorf("description = %q, want the masked key suffix", embed.Description)
	}
}

func TestSendCrawlStarted(t *testing.T) {
	var received WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL)
	if err := client.SendCrawlStarted(context.Background(), "RGAPI-1234-5678-abcd", "seed-player"); err != nil {
		t.Fatalf("SendCrawlStarted failed: %v", err)
	}

	if len(received.Embeds) != 1 {
		t.Fatalf("server got %d embeds, want 1", len(received.Embeds))
	}
	if received.Embeds[0].Fields[1].Value != "seed-player" {
		t.Errorf("seed field = %q, want seed-player", received.Embeds[0].Fields[1].Value)
	}
}

func TestSendPayloadRetriesOnRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL)
	if err := client.SendCrawlCompleted(context.Background(), 10, 3, time.Minute); err != nil {
		t.Fatalf("SendCrawlCompleted failed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2 (one retry)", attempts)
	}
}

func TestSendPayloadFailsOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL)
	if err := client.SendKeyInvalid(context.Background(), "RGAPI-1234-5678-abcd"); err == nil {
		t.Error("SendKeyInvalid succeeded on 400, want error")
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("RGAPI-1234-5678-abcd"); got != "RGAPI...abcd" {
		t.Errorf("maskAPIKey = %q, want RGAPI...abcd", got)
	}
	if got := maskAPIKey("short"); got != "****" {
		t.Errorf("maskAPIKey(short) = %q, want ****", got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[int]string{
		999:     "999",
		1000:    "1,000",
		47832:   "47,832",
		1234567: "1,234,567",
	}
	for n, want := range cases {
		if got := formatNumber(n); got != want {
			t.Errorf("formatNumber(%d) = %q, want %q", n, got, want)
		}
	}
}
