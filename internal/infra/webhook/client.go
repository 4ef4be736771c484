// Package webhook implements the HTTP client for the external
// conversational-AI webhook. The webhook is a collaborator: it accepts a
// message plus user id and returns a reply string with a timestamp, or an
// error envelope.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/metrics"
	"github.com/fitcoach-app/fitcoach/internal/infra/ratelimit"
)

// RequestTimeout is the hard per-request deadline. A timeout produces a
// synthetic failure response, not a Go error.
const RequestTimeout = 30 * time.Second

// Client talks to the chat webhook. It enforces message length, the
// sliding-window rate limit, and the request timeout before anything
// goes on the wire.
type Client struct {
	url     string
	http    *http.Client
	limiter *ratelimit.SlidingWindow
	log     zerolog.Logger
}

// New creates a webhook client. An empty url means the webhook is not
// configured; sends then fail with a synthetic error envelope.
func New(url string, limiter *ratelimit.SlidingWindow, log zerolog.Logger) *Client {
	return &Client{
		url:     url,
		http:    &http.Client{Timeout: RequestTimeout},
		limiter: limiter,
		log:     log,
	}
}

// Configured reports whether a webhook URL is set.
func (c *Client) Configured() bool { return c.url != "" }

// Send posts one message and returns the response envelope. Validation
// and rate-limit rejections return a sentinel error before any network
// call. Network failures, timeouts, and non-2xx statuses come back as a
// failure envelope with a nil error; the only non-nil error after
// validation is context cancellation (a superseded request), which the
// caller drops silently.
func (c *Client) Send(ctx context.Context, message, userID string) (domain.ChatResponse, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return domain.ChatResponse{}, domain.ErrEmptyMessage
	}
	if len(trimmed) > domain.MaxMessageLength {
		return domain.ChatResponse{}, domain.ErrMessageTooLong
	}
	if !c.limiter.Allow() {
		metrics.RateLimited.Inc()
		return domain.ChatResponse{}, domain.ErrRateLimited
	}

	if c.url == "" {
		return failure("webhook URL not configured"), nil
	}

	body, err := json.Marshal(domain.ChatRequest{Message: trimmed, UserID: userID})
	if err != nil {
		return failure("encode request: " + err.Error()), nil
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return failure("build request: " + err.Error()), nil
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.WebhookLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return domain.ChatResponse{}, context.Canceled
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.log.Debug().Msg("webhook request timed out")
			return failure("request timed out"), nil
		}
		return failure(err.Error()), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(fmt.Sprintf("request failed: %d", resp.StatusCode)), nil
	}

	var out domain.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failure("decode response: " + err.Error()), nil
	}
	return out, nil
}

// failure builds the synthetic error envelope the webhook contract uses.
func failure(msg string) domain.ChatResponse {
	return domain.ChatResponse{
		Success: false,
		Data:    domain.ChatData{},
		Error:   msg,
	}
}
