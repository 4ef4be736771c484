package domain

// GamificationEvent is a closed sum over the celebration events one
// interaction can produce. The unexported marker keeps the set sealed so
// the presentation layer can switch exhaustively.
type GamificationEvent interface {
	eventKind() string
}

// LevelUpEvent fires when the derived level crosses upward.
type LevelUpEvent struct {
	NewLevel int    `json:"newLevel"`
	NewName  string `json:"newName"`
}

// BadgeEarnedEvent fires once per newly unlocked badge.
type BadgeEarnedEvent struct {
	Badge BadgeDefinition `json:"badge"`
}

// StreakMilestoneEvent fires when the streak reaches a listed milestone.
type StreakMilestoneEvent struct {
	Days int `json:"days"`
}

// StreakFreezeUsedEvent fires in the transition that consumed a freeze.
type StreakFreezeUsedEvent struct{}

// StreakFreezeEarnedEvent fires when a weekly freeze is banked.
type StreakFreezeEarnedEvent struct{}

func (LevelUpEvent) eventKind() string            { return "level_up" }
func (BadgeEarnedEvent) eventKind() string        { return "badge_earned" }
func (StreakMilestoneEvent) eventKind() string    { return "streak_milestone" }
func (StreakFreezeUsedEvent) eventKind() string   { return "streak_freeze_used" }
func (StreakFreezeEarnedEvent) eventKind() string { return "streak_freeze_earned" }

// EventKind returns the wire tag for an event.
func EventKind(e GamificationEvent) string { return e.eventKind() }
