package statsfeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/match"
	"github.com/riskibarqy/fantasy-rooms/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rooms/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-rooms/internal/usecase"
)

const (
	defaultBaseURL = "https://api.statsfeed.dev/v1"
	defaultTimeout = 10 * time.Second
)

var errStatsFeedTransient = crerr.New("stats feed transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls authoritative player stats from the external match data feed.
// It implements both the minutes source and the event source used by
// settlement.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient: &fasthttp.Client{
			MaxConnsPerHost:     64,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type playerSummaryEnvelope struct {
	Data struct {
		PlayerID      string `json:"player_id"`
		Gameweek      int    `json:"gameweek"`
		MinutesPlayed int    `json:"minutes_played"`
	} `json:"data"`
}

func (c *Client) MinutesPlayed(ctx context.Context, playerID string, gameweek int) (int, error) {
	if playerID == "" {
		return 0, fmt.Errorf("player id is required")
	}
	path := fmt.Sprintf("/players/%s/gameweeks/%d/summary", playerID, gameweek)

	var envelope playerSummaryEnvelope
	if err := c.getJSON(ctx, path, &envelope); err != nil {
		return 0, fmt.Errorf("fetch player summary player=%s gameweek=%d: %w", playerID, gameweek, err)
	}
	if envelope.Data.MinutesPlayed < 0 {
		return 0, fmt.Errorf("feed returned negative minutes for player %s", playerID)
	}
	return envelope.Data.MinutesPlayed, nil
}

type playerEventsEnvelope struct {
	Data []struct {
		ID       int64  `json:"id"`
		MatchID  string `json:"match_id"`
		PlayerID string `json:"player_id"`
		TeamID   string `json:"team_id"`
		Kind     string `json:"kind"`
		Minute   int    `json:"minute"`
		Value    int    `json:"value"`
	} `json:"data"`
}

func (c *Client) ListByPlayerAndMatches(ctx context.Context, playerID string, matchIDs []string) ([]match.Event, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player id is required")
	}
	if len(matchIDs) == 0 {
		return []match.Event{}, nil
	}

	// Gameweeks can carry dozens of match ids; assemble the query through the
	// buffer pool instead of repeated string concatenation.
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.WriteString("/players/")
	buf.WriteString(playerID)
	buf.WriteString("/events?matches=")
	for i, id := range matchIDs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(id)
	}
	path := buf.String()

	var envelope playerEventsEnvelope
	if err := c.getJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch player events player=%s: %w", playerID, err)
	}

	out := make([]match.Event, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		out = append(out, match.Event{
			ID:       item.ID,
			MatchID:  item.MatchID,
			PlayerID: item.PlayerID,
			TeamID:   item.TeamID,
			Kind:     match.EventKind(item.Kind),
			Minute:   item.Minute,
			Value:    item.Value,
		})
	}
	return out, nil
}

// getJSON runs one authenticated GET with circuit breaking, in-flight request
// coalescing, and retries on transient failures.
func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, c.baseURL+path)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errStatsFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := c.doOnce(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !crerr.Is(err, errStatsFeedTransient) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, crerr.Wrapf(errStatsFeedTransient, "send request: %v", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		if isRetryableStatus(status) {
			return nil, crerr.Wrapf(errStatsFeedTransient, "feed status=%d body=%s", status, abbreviateBody(resp.Body()))
		}
		return nil, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(resp.Body()))
	}

	// resp.Body() is invalidated on release, copy it out.
	raw := make([]byte, len(resp.Body()))
	copy(raw, resp.Body())
	return raw, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case fasthttp.StatusTooManyRequests,
		fasthttp.StatusInternalServerError,
		fasthttp.StatusBadGateway,
		fasthttp.StatusServiceUnavailable,
		fasthttp.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(body []byte) string {
	const maxLen = 256
	text := strings.TrimSpace(string(body))
	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}
