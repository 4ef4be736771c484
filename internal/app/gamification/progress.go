// Package gamification implements the FitCoach progression engine:
// levels derived from cumulative message counts, daily streaks with
// automatic freeze consumption, badge unlock evaluation, and the
// optimistic-update orchestrator that keeps local state consistent with
// the profile store.
package gamification

import "github.com/fitcoach-app/fitcoach/internal/domain"

// levels is the immutable 6-entry level table, ascending by MinMessages.
var levels = []domain.LevelInfo{
	{Level: 1, Name: "Beginner", MinMessages: 0, XPToNext: 5, Color: "zinc"},
	{Level: 2, Name: "Rookie", MinMessages: 5, XPToNext: 10, Color: "emerald"},
	{Level: 3, Name: "Intermediate", MinMessages: 15, XPToNext: 15, Color: "blue"},
	{Level: 4, Name: "Advanced", MinMessages: 30, XPToNext: 20, Color: "purple"},
	{Level: 5, Name: "Athlete", MinMessages: 50, XPToNext: 30, Color: "amber"},
	{Level: 6, Name: "Champion", MinMessages: 80, XPToNext: 0, Color: "gold"},
}

// Levels returns a copy of the level table (for display).
func Levels() []domain.LevelInfo {
	out := make([]domain.LevelInfo, len(levels))
	copy(out, levels)
	return out
}

// CalculateProgress maps a cumulative message count to a level/progress
// descriptor. Defined for all non-negative counts, including 0.
func CalculateProgress(messageCount int) domain.ProgressInfo {
	// Highest level whose threshold is met.
	idx := 0
	for i := len(levels) - 1; i >= 0; i-- {
		if messageCount >= levels[i].MinMessages {
			idx = i
			break
		}
	}

	current := levels[idx]
	info := domain.ProgressInfo{
		Level:           current.Level,
		Name:            current.Name,
		MessagesInLevel: messageCount - current.MinMessages,
	}

	if idx+1 < len(levels) {
		next := levels[idx+1]
		window := next.MinMessages - current.MinMessages
		info.MessagesToNext = next.MinMessages - messageCount
		info.Progress = float64(info.MessagesInLevel) / float64(window) * 100
		if info.Progress > 100 {
			info.Progress = 100
		}
	} else {
		// Terminal level
		info.MessagesToNext = 0
		info.Progress = 100
	}

	return info
}

// LevelName returns the display name for a level number.
func LevelName(level int) string {
	for _, l := range levels {
		if l.Level == level {
			return l.Name
		}
	}
	return "Unknown"
}
