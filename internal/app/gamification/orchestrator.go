package gamification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/metrics"
)

// Orchestrator composes the progress calculator, streak engine, and badge
// evaluator into one atomic "record an interaction" operation, and keeps
// the locally observable profile state consistent with the store via
// optimistic update plus rollback on persistence failure.
//
// All mutation happens under one mutex held across the persist attempt,
// so a revert can only ever follow its own persist, never a later
// interaction's.
type Orchestrator struct {
	mu      sync.Mutex
	store   domain.ProfileStore
	catalog []domain.BadgeDefinition
	profile domain.UserProfile
	earned  map[string]time.Time
	pending []domain.GamificationEvent
	now     func() time.Time
	log     zerolog.Logger
}

// InteractionResult is the explicit transaction record for one recorded
// interaction. Before/After let callers apply or roll back display state
// deterministically, independent of render timing.
type InteractionResult struct {
	Before    domain.UserProfile
	After     domain.UserProfile
	Events    []domain.GamificationEvent
	NewBadges []domain.BadgeDefinition
	Committed bool // false when persistence failed and state was reverted
}

// NewOrchestrator creates an orchestrator over the given store.
func NewOrchestrator(store domain.ProfileStore, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:  store,
		earned: make(map[string]time.Time),
		now:    time.Now,
		log:    log,
	}
}

// SetClock overrides the time source (tests).
func (o *Orchestrator) SetClock(now func() time.Time) { o.now = now }

// Bootstrap loads the profile row (creating it on first access), the
// earned-badge set, and the badge catalog. An unavailable catalog falls
// back to the built-in one.
func (o *Orchestrator) Bootstrap(ctx context.Context, userID string) error {
	p, err := o.store.LoadProfile(ctx, userID)
	if err != nil {
		return err
	}

	earned, err := o.store.ListEarnedBadges(ctx, userID)
	if err != nil {
		return err
	}

	catalog := o.fetchCatalog(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.profile = p
	o.catalog = catalog
	o.earned = make(map[string]time.Time, len(earned))
	for _, b := range earned {
		o.earned[b.BadgeID] = b.EarnedAt
	}
	return nil
}

// fetchCatalog tries the store a few times, then falls back to the
// built-in catalog.
func (o *Orchestrator) fetchCatalog(ctx context.Context) []domain.BadgeDefinition {
	var catalog []domain.BadgeDefinition
	op := func() error {
		defs, err := o.store.BadgeCatalog(ctx)
		if errors.Is(err, domain.ErrNoCatalog) {
			return backoff.Permanent(err)
		}
		if err != nil {
			return err
		}
		catalog = defs
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = 5 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil || len(catalog) == 0 {
		if err != nil && !errors.Is(err, domain.ErrNoCatalog) {
			o.log.Debug().Err(err).Msg("badge catalog fetch failed, using built-in catalog")
		}
		return FallbackCatalog()
	}
	return catalog
}

// RecordInteraction computes the full next profile from one consistent
// snapshot, applies it optimistically, then persists. On persistence
// failure the local state is reverted, the queued events are dropped, and
// no error is surfaced — the chat message itself already succeeded.
func (o *Orchestrator) RecordInteraction(ctx context.Context) InteractionResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	before := o.profile

	// 1. Message count and level diff.
	oldProgress := CalculateProgress(before.MessageCount)
	after := before
	after.MessageCount++
	newProgress := CalculateProgress(after.MessageCount)
	after.CurrentLevel = newProgress.Level
	after.LevelName = newProgress.Name

	var events []domain.GamificationEvent
	if newProgress.Level > oldProgress.Level {
		events = append(events, domain.LevelUpEvent{NewLevel: newProgress.Level, NewName: newProgress.Name})
	}

	// 2. Streak transition.
	after, streakEvents := AdvanceStreak(after, now)
	events = append(events, streakEvents...)

	freezeUsed := false
	for _, e := range streakEvents {
		if _, ok := e.(domain.StreakFreezeUsedEvent); ok {
			freezeUsed = true
		}
	}

	// 3+4. Badge evaluation against the hypothetical next profile.
	newBadges := CheckBadgeUnlocks(after, o.catalog, o.earnedIDs(), freezeUsed)
	for _, b := range newBadges {
		events = append(events, domain.BadgeEarnedEvent{Badge: b})
	}
	after.UpdatedAt = now

	// 5. Optimistic local apply. The earned set is updated here,
	// synchronously, before persistence begins — two rapid interactions
	// cannot both see the same badge as unearned.
	o.profile = after
	for _, b := range newBadges {
		o.earned[b.ID] = now
	}
	queuedAt := len(o.pending)
	o.pending = append(o.pending, events...)

	result := InteractionResult{
		Before:    before,
		After:     after,
		Events:    events,
		NewBadges: newBadges,
	}

	// 6. Persist.
	if err := o.persist(ctx, after, newBadges, now); err != nil {
		// 7. Revert everything from this transition, including the
		// earned-badge bookkeeping so a later retry can re-earn.
		o.profile = before
		for _, b := range newBadges {
			delete(o.earned, b.ID)
		}
		o.pending = o.pending[:queuedAt]
		metrics.PersistRollbacks.Inc()
		o.log.Warn().Err(err).Msg("profile persistence failed, reverted local state")
		return result
	}

	result.Committed = true
	if newProgress.Level > oldProgress.Level {
		metrics.LevelUps.Inc()
	}
	metrics.BadgesEarned.Add(float64(len(newBadges)))
	return result
}

func (o *Orchestrator) persist(ctx context.Context, p domain.UserProfile, badges []domain.BadgeDefinition, now time.Time) error {
	if err := o.store.SaveProfile(ctx, p); err != nil {
		return err
	}
	for _, b := range badges {
		if err := o.store.UpsertEarnedBadge(ctx, p.ID, b.ID, now); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) earnedIDs() map[string]bool {
	ids := make(map[string]bool, len(o.earned))
	for id := range o.earned {
		ids[id] = true
	}
	return ids
}

// Profile returns the current local profile snapshot.
func (o *Orchestrator) Profile() domain.UserProfile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.profile
}

// Progress returns the derived progress for the current snapshot.
func (o *Orchestrator) Progress() domain.ProgressInfo {
	return CalculateProgress(o.Profile().MessageCount)
}

// Streak returns the read-only streak view as of now.
func (o *Orchestrator) Streak() domain.StreakInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return StreakView(o.profile, o.now())
}

// Catalog returns the active badge catalog.
func (o *Orchestrator) Catalog() []domain.BadgeDefinition {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.BadgeDefinition, len(o.catalog))
	copy(out, o.catalog)
	return out
}

// EarnedBadges returns the earned set with timestamps.
func (o *Orchestrator) EarnedBadges() []domain.EarnedBadge {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.EarnedBadge, 0, len(o.earned))
	for id, at := range o.earned {
		out = append(out, domain.EarnedBadge{BadgeID: id, EarnedAt: at})
	}
	return out
}

// PendingEvents returns the queued celebration events without removing them.
func (o *Orchestrator) PendingEvents() []domain.GamificationEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.GamificationEvent, len(o.pending))
	copy(out, o.pending)
	return out
}

// DrainEvents hands the queued events to the presentation layer and
// clears the queue.
func (o *Orchestrator) DrainEvents() []domain.GamificationEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.pending
	o.pending = nil
	return out
}
