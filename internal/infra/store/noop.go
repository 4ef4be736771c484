package store

import (
	"context"
	"time"

	"github.com/fitcoach-app/fitcoach/internal/app/gamification"
	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// Noop is the demo-mode ProfileStore selected when no backend is
// configured. Reads return a zero-initialized profile and writes succeed
// without persisting anything, so the whole gamification pipeline still
// runs against local state only.
type Noop struct{}

// NewNoop creates the demo-mode store.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) LoadProfile(_ context.Context, userID string) (domain.UserProfile, error) {
	now := time.Now().UTC()
	return domain.UserProfile{
		ID:           userID,
		DisplayName:  "Guest",
		CurrentLevel: 1,
		LevelName:    gamification.LevelName(1),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (*Noop) SaveProfile(context.Context, domain.UserProfile) error { return nil }

func (*Noop) UpsertEarnedBadge(context.Context, string, string, time.Time) error { return nil }

func (*Noop) ListEarnedBadges(context.Context, string) ([]domain.EarnedBadge, error) {
	return nil, nil
}

func (*Noop) BadgeCatalog(context.Context) ([]domain.BadgeDefinition, error) {
	return nil, domain.ErrNoCatalog
}
