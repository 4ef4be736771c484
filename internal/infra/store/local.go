// Package store provides the ProfileStore implementations: a hosted REST
// backend, a SQLite-backed local store for offline use, and a no-op store
// for demo mode when no backend is configured.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fitcoach-app/fitcoach/internal/app/gamification"
	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/sqlite"
)

// transcriptKey is the session-store key holding the serialized transcript.
const transcriptKey = "fitness-coach-messages"

// Local is a ProfileStore and TranscriptStore backed by the local SQLite
// database. It serves offline mode; the durable source of truth is still
// whatever store the user configured.
type Local struct {
	db  *sqlite.DB
	now func() time.Time
}

// NewLocal creates a local store over an open database.
func NewLocal(db *sqlite.DB) *Local {
	return &Local{db: db, now: time.Now}
}

// LoadProfile returns the stored row, inserting a zero-initialized one on
// first access.
func (s *Local) LoadProfile(_ context.Context, userID string) (domain.UserProfile, error) {
	p, err := s.db.GetProfile(userID)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if p != nil {
		return *p, nil
	}

	now := s.now()
	fresh := domain.UserProfile{
		ID:           userID,
		CurrentLevel: 1,
		LevelName:    gamification.LevelName(1),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.InsertProfile(fresh); err != nil {
		return domain.UserProfile{}, err
	}
	return fresh, nil
}

// SaveProfile updates the gamification fields of an existing row.
func (s *Local) SaveProfile(_ context.Context, p domain.UserProfile) error {
	return s.db.UpdateProfile(p)
}

// UpsertEarnedBadge records a badge unlock; duplicates are no-ops.
func (s *Local) UpsertEarnedBadge(_ context.Context, userID, badgeID string, earnedAt time.Time) error {
	return s.db.UpsertEarnedBadge(userID, badgeID, earnedAt)
}

// ListEarnedBadges returns the user's earned badges.
func (s *Local) ListEarnedBadges(_ context.Context, userID string) ([]domain.EarnedBadge, error) {
	return s.db.ListEarnedBadges(userID)
}

// BadgeCatalog reports that no catalog is stored locally; callers fall
// back to the built-in one.
func (s *Local) BadgeCatalog(context.Context) ([]domain.BadgeDefinition, error) {
	return nil, domain.ErrNoCatalog
}

// ─── TranscriptStore ────────────────────────────────────────────────────────

// LoadTranscript reads the persisted transcript, or nil when absent.
func (s *Local) LoadTranscript() ([]domain.Message, error) {
	raw, err := s.db.GetSession(transcriptKey)
	if err != nil || raw == "" {
		return nil, err
	}
	var msgs []domain.Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		// A corrupt transcript is discarded, not fatal.
		return nil, nil
	}
	return msgs, nil
}

// SaveTranscript persists the transcript under the session key.
func (s *Local) SaveTranscript(msgs []domain.Message) error {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return s.db.SetSession(transcriptKey, string(raw))
}

// ClearTranscript removes the transcript (sign-out).
func (s *Local) ClearTranscript() error {
	return s.db.DeleteSession(transcriptKey)
}
