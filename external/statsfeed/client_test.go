package statsfeed

import (
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "  https://feed.example.com/v2/ "})
	if client.baseURL != "https://feed.example.com/v2" {
		t.Fatalf("unexpected base url: %s", client.baseURL)
	}
	if client.timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %s", client.timeout)
	}

	client = NewClient(ClientConfig{})
	if client.baseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", client.baseURL)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	t.Parallel()

	retryable := []int{
		fasthttp.StatusTooManyRequests,
		fasthttp.StatusInternalServerError,
		fasthttp.StatusBadGateway,
		fasthttp.StatusServiceUnavailable,
		fasthttp.StatusGatewayTimeout,
	}
	for _, status := range retryable {
		if !isRetryableStatus(status) {
			t.Fatalf("expected status %d to be retryable", status)
		}
	}

	for _, status := range []int{fasthttp.StatusBadRequest, fasthttp.StatusUnauthorized, fasthttp.StatusNotFound} {
		if isRetryableStatus(status) {
			t.Fatalf("expected status %d not to be retryable", status)
		}
	}
}

func TestAbbreviateBody(t *testing.T) {
	t.Parallel()

	if got := abbreviateBody([]byte("  short body \n")); got != "short body" {
		t.Fatalf("unexpected abbreviated body: %q", got)
	}

	long := strings.Repeat("x", 600)
	got := abbreviateBody([]byte(long))
	if len(got) != 256+len("...") {
		t.Fatalf("expected truncated body, got length %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
}

func TestPlayerSummaryEnvelopeDecoding(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"data":{"player_id":"p-1","gameweek":7,"minutes_played":74}}`)
	var envelope playerSummaryEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if envelope.Data.MinutesPlayed != 74 {
		t.Fatalf("expected 74 minutes, got %d", envelope.Data.MinutesPlayed)
	}
	if envelope.Data.Gameweek != 7 {
		t.Fatalf("expected gameweek 7, got %d", envelope.Data.Gameweek)
	}
}
