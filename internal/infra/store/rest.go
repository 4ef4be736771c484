package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/app/gamification"
	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// dateFormat is the wire format for calendar-date columns.
const dateFormat = "2006-01-02"

// REST is a ProfileStore over a hosted PostgREST-style row store
// (profiles, earned_badges, badges tables).
type REST struct {
	http *resty.Client
	log  zerolog.Logger
}

// NewREST creates a REST store client for the given base URL and API key.
func NewREST(baseURL, apiKey string, log zerolog.Logger) *REST {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("apikey", apiKey).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json")
	return &REST{http: c, log: log}
}

// profileRow is the wire shape of a profiles row.
type profileRow struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	DisplayName     string  `json:"display_name"`
	MessageCount    int     `json:"message_count"`
	CurrentLevel    int     `json:"current_level"`
	LevelName       string  `json:"level_name"`
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
	TotalActiveDays int     `json:"total_active_days"`
	LastActiveDate  *string `json:"last_active_date"`
	StreakFreezes   int     `json:"streak_freezes_available"`
	LastFreezeDate  *string `json:"last_freeze_date"`
	CreatedAt       string  `json:"created_at,omitempty"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

// LoadProfile reads the row for userID, inserting a zero-initialized row
// on first access.
func (s *REST) LoadProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	var rows []profileRow
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+userID).
		SetQueryParam("select", "*").
		SetResult(&rows).
		Get("/rest/v1/profiles")
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
	if resp.IsError() {
		return domain.UserProfile{}, fmt.Errorf("load profile: %s", resp.Status())
	}
	if len(rows) > 0 {
		return rows[0].toDomain(), nil
	}

	// First authenticated access — create a zero-initialized row.
	now := time.Now().UTC()
	fresh := profileRow{
		ID:           userID,
		CurrentLevel: 1,
		LevelName:    gamification.LevelName(1),
		CreatedAt:    now.Format(time.RFC3339),
		UpdatedAt:    now.Format(time.RFC3339),
	}
	var created []profileRow
	resp, err = s.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(fresh).
		SetResult(&created).
		Post("/rest/v1/profiles")
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("create profile: %w", err)
	}
	if resp.IsError() {
		return domain.UserProfile{}, fmt.Errorf("create profile: %s", resp.Status())
	}
	if len(created) > 0 {
		return created[0].toDomain(), nil
	}
	return fresh.toDomain(), nil
}

// SaveProfile patches the gamification fields of the row.
func (s *REST) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	patch := map[string]any{
		"message_count":            p.MessageCount,
		"current_level":            p.CurrentLevel,
		"level_name":               p.LevelName,
		"current_streak":           p.CurrentStreak,
		"longest_streak":           p.LongestStreak,
		"total_active_days":        p.TotalActiveDays,
		"last_active_date":         dateOrNil(p.LastActiveDate),
		"streak_freezes_available": p.StreakFreezes,
		"last_freeze_date":         dateOrNil(p.LastFreezeDate),
		"updated_at":               p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+p.ID).
		SetBody(patch).
		Patch("/rest/v1/profiles")
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("save profile: %s", resp.Status())
	}
	return nil
}

// UpsertEarnedBadge inserts the (user, badge) row; duplicates merge into
// a no-op rather than an error.
func (s *REST) UpsertEarnedBadge(ctx context.Context, userID, badgeID string, earnedAt time.Time) error {
	row := map[string]any{
		"user_id":   userID,
		"badge_id":  badgeID,
		"earned_at": earnedAt.UTC().Format(time.RFC3339),
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "resolution=merge-duplicates").
		SetBody(row).
		Post("/rest/v1/earned_badges")
	if err != nil {
		return fmt.Errorf("upsert badge: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("upsert badge: %s", resp.Status())
	}
	return nil
}

// ListEarnedBadges returns all earned badges for the user.
func (s *REST) ListEarnedBadges(ctx context.Context, userID string) ([]domain.EarnedBadge, error) {
	type badgeRow struct {
		BadgeID  string `json:"badge_id"`
		EarnedAt string `json:"earned_at"`
	}
	var rows []badgeRow
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("user_id", "eq."+userID).
		SetQueryParam("order", "earned_at").
		SetResult(&rows).
		Get("/rest/v1/earned_badges")
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list badges: %s", resp.Status())
	}

	out := make([]domain.EarnedBadge, 0, len(rows))
	for _, r := range rows {
		at, _ := time.Parse(time.RFC3339, r.EarnedAt)
		out = append(out, domain.EarnedBadge{BadgeID: r.BadgeID, EarnedAt: at})
	}
	return out, nil
}

// BadgeCatalog fetches the badge definitions ordered by sort order.
func (s *REST) BadgeCatalog(ctx context.Context) ([]domain.BadgeDefinition, error) {
	var defs []domain.BadgeDefinition
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("order", "sort_order").
		SetResult(&defs).
		Get("/rest/v1/badges")
	if err != nil {
		return nil, fmt.Errorf("badge catalog: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("badge catalog: %s", resp.Status())
	}
	if len(defs) == 0 {
		return nil, domain.ErrNoCatalog
	}
	return defs, nil
}

func (r profileRow) toDomain() domain.UserProfile {
	p := domain.UserProfile{
		ID:              r.ID,
		Email:           r.Email,
		DisplayName:     r.DisplayName,
		MessageCount:    r.MessageCount,
		CurrentLevel:    r.CurrentLevel,
		LevelName:       r.LevelName,
		CurrentStreak:   r.CurrentStreak,
		LongestStreak:   r.LongestStreak,
		TotalActiveDays: r.TotalActiveDays,
		StreakFreezes:   r.StreakFreezes,
	}
	if r.LastActiveDate != nil {
		p.LastActiveDate, _ = time.Parse(dateFormat, *r.LastActiveDate)
	}
	if r.LastFreezeDate != nil {
		p.LastFreezeDate, _ = time.Parse(dateFormat, *r.LastFreezeDate)
	}
	if r.CreatedAt != "" {
		p.CreatedAt, _ = time.Parse(time.RFC3339, r.CreatedAt)
	}
	if r.UpdatedAt != "" {
		p.UpdatedAt, _ = time.Parse(time.RFC3339, r.UpdatedAt)
	}
	return p
}

func dateOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(dateFormat)
}
