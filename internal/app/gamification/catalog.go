package gamification

import "github.com/fitcoach-app/fitcoach/internal/domain"

// FallbackCatalog returns the built-in 12-badge catalog used when the
// backend carries none (demo/offline mode). IDs are the persistence keys
// and must stay stable.
func FallbackCatalog() []domain.BadgeDefinition {
	return []domain.BadgeDefinition{
		// ── Messages ───────────────────────────────────────────────────
		{
			ID: "first_message", Name: "First Steps", Category: "messages",
			Description: "Send your first message to your coach",
			IconName:    "message-circle", SortOrder: 1,
			Criteria: map[string]int{domain.CriterionMessageCount: 1},
		},
		{
			ID: "getting_started", Name: "Getting Started", Category: "messages",
			Description: "Send 10 messages",
			IconName:    "messages-square", SortOrder: 2,
			Criteria: map[string]int{domain.CriterionMessageCount: 10},
		},
		{
			ID: "chatterbox", Name: "Chatterbox", Category: "messages",
			Description: "Send 50 messages",
			IconName:    "megaphone", SortOrder: 3,
			Criteria: map[string]int{domain.CriterionMessageCount: 50},
		},
		{
			ID: "century_club", Name: "Century Club", Category: "messages",
			Description: "Send 100 messages",
			IconName:    "trophy", SortOrder: 4,
			Criteria: map[string]int{domain.CriterionMessageCount: 100},
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			ID: "streak_3", Name: "Warming Up", Category: "streaks",
			Description: "Reach a 3-day streak",
			IconName:    "flame", SortOrder: 5,
			Criteria: map[string]int{domain.CriterionCurrentStreak: 3},
		},
		{
			ID: "streak_7", Name: "Week Warrior", Category: "streaks",
			Description: "Reach a 7-day streak",
			IconName:    "flame", SortOrder: 6,
			Criteria: map[string]int{domain.CriterionCurrentStreak: 7},
		},
		{
			ID: "streak_14", Name: "Fortnight Fighter", Category: "streaks",
			Description: "Reach a 14-day streak",
			IconName:    "calendar-check", SortOrder: 7,
			Criteria: map[string]int{domain.CriterionCurrentStreak: 14},
		},
		{
			ID: "streak_30", Name: "Monthly Machine", Category: "streaks",
			Description: "Reach a 30-day streak",
			IconName:    "crown", SortOrder: 8,
			Criteria: map[string]int{domain.CriterionCurrentStreak: 30},
		},

		// ── Levels ─────────────────────────────────────────────────────
		{
			ID: "level_3", Name: "Moving Up", Category: "levels",
			Description: "Reach Intermediate level",
			IconName:    "trending-up", SortOrder: 9,
			Criteria: map[string]int{domain.CriterionCurrentLevel: 3},
		},
		{
			ID: "level_5", Name: "True Athlete", Category: "levels",
			Description: "Reach Athlete level",
			IconName:    "medal", SortOrder: 10,
			Criteria: map[string]int{domain.CriterionCurrentLevel: 5},
		},
		{
			ID: "champion", Name: "Champion", Category: "levels",
			Description: "Reach the final Champion level",
			IconName:    "star", SortOrder: 11,
			Criteria: map[string]int{domain.CriterionCurrentLevel: 6},
		},

		// ── Special ────────────────────────────────────────────────────
		{
			ID: "frozen_saved", Name: "Saved by the Freeze", Category: "special",
			Description: "Have a streak freeze rescue your streak",
			IconName:    "snowflake", SortOrder: 12,
			Criteria: map[string]int{domain.CriterionFreezeUsed: 1},
		},
	}
}
