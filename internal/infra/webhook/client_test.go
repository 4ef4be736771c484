package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/ratelimit"
	"github.com/fitcoach-app/fitcoach/internal/infra/webhook"
)

func newTestClient(url string) *webhook.Client {
	return webhook.New(url, ratelimit.New(100, time.Minute), zerolog.Nop())
}

func TestClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Message != "hello coach" || req.UserID != "user-1" {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(domain.ChatResponse{
			Success: true,
			Data: domain.ChatData{
				Message:   "Hello! Ready to train?",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			},
		})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Send(context.Background(), "hello coach", "user-1")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !resp.Success || resp.Data.Message != "Hello! Ready to train?" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestClient_Validation(t *testing.T) {
	c := newTestClient("http://unused.invalid")

	if _, err := c.Send(context.Background(), "  ", "u"); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}

	long := strings.Repeat("x", domain.MaxMessageLength+1)
	if _, err := c.Send(context.Background(), long, "u"); !errors.Is(err, domain.ErrMessageTooLong) {
		t.Errorf("expected ErrMessageTooLong, got %v", err)
	}

	// Exactly at the limit passes validation (and then hits the network,
	// so use an unconfigured client).
	unconfigured := newTestClient("")
	resp, err := unconfigured.Send(context.Background(), strings.Repeat("x", domain.MaxMessageLength), "u")
	if err != nil {
		t.Fatalf("expected envelope, got error %v", err)
	}
	if resp.Success {
		t.Error("unconfigured webhook must report failure")
	}
}

func TestClient_RateLimited(t *testing.T) {
	limiter := ratelimit.New(2, time.Minute)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.ChatResponse{Success: true})
	}))
	defer srv.Close()

	c := webhook.New(srv.URL, limiter, zerolog.Nop())
	for i := 0; i < 2; i++ {
		if _, err := c.Send(context.Background(), "msg", "u"); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if _, err := c.Send(context.Background(), "msg", "u"); !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited on third send, got %v", err)
	}
}

func TestClient_ServerErrorBecomesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).Send(context.Background(), "msg", "u")
	if err != nil {
		t.Fatalf("expected envelope, got error %v", err)
	}
	if resp.Success {
		t.Error("expected failure envelope")
	}
	if resp.Error == "" {
		t.Error("expected an error string in the envelope")
	}
}

func TestClient_CancellationIsAnError(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read;
		// otherwise it never notices the client cancel and srv.Close
		// deadlocks waiting on this handler.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := newTestClient(srv.URL).Send(ctx, "msg", "u")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestClient_Configured(t *testing.T) {
	if newTestClient("").Configured() {
		t.Error("empty URL must report unconfigured")
	}
	if !newTestClient("http://example.com").Configured() {
		t.Error("non-empty URL must report configured")
	}
}
