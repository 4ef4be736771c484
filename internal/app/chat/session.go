// Package chat implements the chat session controller: the message
// transcript, the in-flight request lifecycle (send/abort/retry), stall
// detection, and session-local persistence. On every successful
// assistant reply it records one interaction with the gamification
// orchestrator.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/app/gamification"
	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/metrics"
)

// State is the controller's request lifecycle state. Slow and Stalled are
// advisory UI hints layered on top of Sending; they never cancel anything.
type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
	StateSlow    State = "slow"
	StateStalled State = "stalled"
)

// Stall thresholds: an in-flight request is flagged slow at 8s and
// stalled at 20s.
const (
	DefaultSlowAfter  = 8 * time.Second
	DefaultStallAfter = 20 * time.Second
)

// ErrSuperseded marks a send that was silently aborted because a newer
// send replaced it. Not a user-visible failure.
var ErrSuperseded = errors.New("request superseded")

// ErrNotRetryable is returned when Retry is given a message id that is
// not an error-flagged entry with stored retry content.
var ErrNotRetryable = errors.New("message is not retryable")

// Sender is the webhook collaborator.
type Sender interface {
	Send(ctx context.Context, message, userID string) (domain.ChatResponse, error)
}

// Session is the chat session controller. All transcript mutation happens
// here, under one mutex; gamification state is mutated only by the
// orchestrator.
type Session struct {
	mu         sync.Mutex
	webhook    Sender
	orch       *gamification.Orchestrator
	transcript domain.TranscriptStore
	log        zerolog.Logger
	userID     string

	messages []domain.Message
	state    State
	seq      uint64             // token of the newest send
	cancel   context.CancelFunc // cancels the in-flight request

	slowAfter  time.Duration
	stallAfter time.Duration
	now        func() time.Time
	newID      func() string
}

// NewSession creates a session controller. transcript may be nil when no
// local store is available; persistence is then skipped entirely.
func NewSession(webhook Sender, orch *gamification.Orchestrator, transcript domain.TranscriptStore, userID string, log zerolog.Logger) *Session {
	return &Session{
		webhook:    webhook,
		orch:       orch,
		transcript: transcript,
		log:        log,
		userID:     userID,
		state:      StateIdle,
		slowAfter:  DefaultSlowAfter,
		stallAfter: DefaultStallAfter,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// SetStallThresholds overrides the advisory timer thresholds (tests).
func (s *Session) SetStallThresholds(slow, stall time.Duration) {
	s.slowAfter = slow
	s.stallAfter = stall
}

// SetClock overrides the time source (tests).
func (s *Session) SetClock(now func() time.Time) { s.now = now }

// Load restores the transcript persisted by a previous session. Called
// once at session start; a missing or unreadable transcript is an empty one.
func (s *Session) Load() {
	if s.transcript == nil {
		return
	}
	msgs, err := s.transcript.LoadTranscript()
	if err != nil {
		s.log.Debug().Err(err).Msg("transcript load failed")
		return
	}
	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()
}

// Send submits one user message through the webhook and blocks until the
// reply, failure, or supersession. Starting a new send aborts any prior
// in-flight request silently. The returned message is the appended
// assistant reply, or the error-flagged entry on failure.
func (s *Session) Send(ctx context.Context, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}
	if len(content) > domain.MaxMessageLength {
		return domain.Message{}, domain.ErrMessageTooLong
	}

	s.mu.Lock()
	// Supersede any in-flight request. The aborted send observes its
	// stale token and returns without touching the transcript.
	if s.cancel != nil {
		s.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.seq++
	token := s.seq
	s.state = StateSending

	userMsg := domain.Message{
		ID:        s.newID(),
		Content:   content,
		IsUser:    true,
		Timestamp: s.now(),
	}
	s.messages = append(s.messages, userMsg)
	s.persistLocked()
	s.mu.Unlock()

	// Advisory stall timers; independent, both cancelled on completion.
	slowTimer := time.AfterFunc(s.slowAfter, func() { s.markStall(token, StateSlow) })
	stallTimer := time.AfterFunc(s.stallAfter, func() { s.markStall(token, StateStalled) })
	defer slowTimer.Stop()
	defer stallTimer.Stop()

	metrics.MessagesSent.Inc()
	resp, err := s.webhook.Send(reqCtx, content, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.seq {
		// A newer send took over while we were in flight.
		return domain.Message{}, ErrSuperseded
	}
	s.state = StateIdle
	s.cancel = nil
	cancel()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return domain.Message{}, ErrSuperseded
		}
		// Validation or rate-limit rejection: surfaced inline, the
		// transcript keeps no trace of the attempt.
		s.popMessageLocked(userMsg.ID)
		s.persistLocked()
		return domain.Message{}, err
	}

	if !resp.Success {
		metrics.MessagesFailed.WithLabelValues("webhook").Inc()
		errMsg := domain.Message{
			ID:           s.newID(),
			Content:      "Sorry, I couldn't process your message. Please try again.",
			IsUser:       false,
			Timestamp:    s.now(),
			IsError:      true,
			RetryContent: content,
		}
		s.messages = append(s.messages, errMsg)
		s.persistLocked()
		s.log.Debug().Str("error", resp.Error).Msg("chat webhook returned failure")
		return errMsg, nil
	}

	ts, perr := time.Parse(time.RFC3339, resp.Data.Timestamp)
	if perr != nil {
		ts = s.now()
	}
	aiMsg := domain.Message{
		ID:        s.newID(),
		Content:   resp.Data.Message,
		IsUser:    false,
		Timestamp: ts,
	}
	s.messages = append(s.messages, aiMsg)
	s.persistLocked()

	// Reward bookkeeping. Persistence failures inside are reverted and
	// logged by the orchestrator; the chat reply itself already landed.
	s.orch.RecordInteraction(ctx)

	return aiMsg, nil
}

// Retry resubmits the stored content of an error-flagged message and
// removes the error entry from the transcript.
func (s *Session) Retry(ctx context.Context, messageID string) (domain.Message, error) {
	s.mu.Lock()
	var content string
	found := false
	for _, m := range s.messages {
		if m.ID == messageID && m.IsError && m.RetryContent != "" {
			content = m.RetryContent
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return domain.Message{}, ErrNotRetryable
	}
	s.popMessageLocked(messageID)
	s.persistLocked()
	s.mu.Unlock()

	return s.Send(ctx, content)
}

// Abort cancels any in-flight request without sending a replacement.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++ // invalidate the in-flight token
	s.state = StateIdle
}

// Clear wipes the transcript and its persisted copy (sign-out).
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	if s.transcript != nil {
		if err := s.transcript.ClearTranscript(); err != nil {
			s.log.Debug().Err(err).Msg("transcript clear failed")
		}
	}
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// State returns the current request lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// markStall upgrades the state for a still-in-flight request. Stale
// tokens (completed or superseded requests) are ignored.
func (s *Session) markStall(token uint64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != token {
		return
	}
	if s.state == StateSending || (st == StateStalled && s.state == StateSlow) {
		s.state = st
	}
}

// popMessageLocked removes a message by id. Caller holds the lock.
func (s *Session) popMessageLocked(id string) {
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}

// persistLocked writes the transcript best-effort. Caller holds the lock.
func (s *Session) persistLocked() {
	if s.transcript == nil {
		return
	}
	if err := s.transcript.SaveTranscript(s.messages); err != nil {
		s.log.Debug().Err(err).Msg("transcript save failed")
	}
}
