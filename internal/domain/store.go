package domain

import (
	"context"
	"errors"
	"time"
)

// ProfileStore is the remote (or local) durable store for profiles and
// earned badges. The backend may be absent entirely; callers select a
// no-op implementation at startup rather than checking presence inline.
type ProfileStore interface {
	// LoadProfile returns the profile row for userID, inserting a
	// zero-initialized row on first access.
	LoadProfile(ctx context.Context, userID string) (UserProfile, error)

	// SaveProfile updates the gamification fields of an existing row.
	SaveProfile(ctx context.Context, p UserProfile) error

	// UpsertEarnedBadge records (user, badge, earnedAt). A duplicate
	// insert is a no-op, not an error.
	UpsertEarnedBadge(ctx context.Context, userID, badgeID string, earnedAt time.Time) error

	// ListEarnedBadges returns all badges the user has earned.
	ListEarnedBadges(ctx context.Context, userID string) ([]EarnedBadge, error)

	// BadgeCatalog returns the badge definitions ordered by sort order.
	// Returns ErrNoCatalog when the backend does not carry one.
	BadgeCatalog(ctx context.Context) ([]BadgeDefinition, error)
}

// TranscriptStore persists the session-scoped chat transcript. Writes are
// best-effort; callers swallow failures.
type TranscriptStore interface {
	LoadTranscript() ([]Message, error)
	SaveTranscript(msgs []Message) error
	ClearTranscript() error
}

// Sentinel errors shared across store implementations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoCatalog       = errors.New("badge catalog not available")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrMessageTooLong  = errors.New("message exceeds maximum length")
	ErrRateLimited     = errors.New("rate limit exceeded")
)
