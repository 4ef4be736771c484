// Package domain holds the core FitCoach types.
// The gamification engine computes levels, streaks, and badges from a
// UserProfile snapshot; everything here is plain data with no I/O.
package domain

import "time"

// UserProfile is the durable per-user row, cached locally and mutated
// exactly once per recorded interaction.
type UserProfile struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	DisplayName     string    `json:"display_name"`
	MessageCount    int       `json:"message_count"`
	CurrentLevel    int       `json:"current_level"`
	LevelName       string    `json:"level_name"`
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	TotalActiveDays int       `json:"total_active_days"`
	LastActiveDate  time.Time `json:"last_active_date"` // zero = never active
	StreakFreezes   int       `json:"streak_freezes_available"`
	LastFreezeDate  time.Time `json:"last_freeze_date"` // zero = never frozen
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LevelInfo is one entry of the static level table. Color is the UI
// theming hint for the level.
type LevelInfo struct {
	Level       int    `json:"level"`
	Name        string `json:"name"`
	MinMessages int    `json:"minMessages"`
	XPToNext    int    `json:"xpToNext"` // 0 for the terminal level
	Color       string `json:"color"`
}

// ProgressInfo is derived from MessageCount on every read.
type ProgressInfo struct {
	Level           int     `json:"level"`
	Name            string  `json:"name"`
	MessagesInLevel int     `json:"messagesInLevel"`
	MessagesToNext  int     `json:"messagesToNext"` // 0 at terminal level
	Progress        float64 `json:"progress"`       // 0..100
}

// BadgeDefinition describes a one-time unlockable badge. Criteria map a
// recognized predicate key to a numeric threshold; all keys must hold.
type BadgeDefinition struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	IconName    string         `json:"icon_name"`
	Category    string         `json:"category"`
	Criteria    map[string]int `json:"unlock_criteria"`
	SortOrder   int            `json:"sort_order"`
}

// Recognized badge criteria keys.
const (
	CriterionMessageCount  = "message_count"
	CriterionCurrentStreak = "current_streak"
	CriterionCurrentLevel  = "current_level"
	CriterionFreezeUsed    = "freeze_used"
)

// EarnedBadge records when a badge was unlocked. (user, badge) is unique;
// earning is idempotent and never re-awarded.
type EarnedBadge struct {
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

// StreakInfo is the read-only streak view served to the UI.
type StreakInfo struct {
	CurrentStreak   int  `json:"currentStreak"`
	LongestStreak   int  `json:"longestStreak"`
	FreezesBanked   int  `json:"streakFreezesAvailable"`
	IsActiveToday   bool `json:"isActiveToday"`
	StreakAtRisk    bool `json:"streakAtRisk"`
	TotalDaysActive int  `json:"totalActiveDays"`
}
