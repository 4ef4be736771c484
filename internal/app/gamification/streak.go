package gamification

import (
	"time"

	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// streakMilestones are the streak lengths worth celebrating.
var streakMilestones = []int{3, 7, 14, 30}

// freezeEarnInterval banks one streak freeze every 7 consecutive days.
const freezeEarnInterval = 7

// AdvanceStreak applies one calendar-day streak transition to a profile
// snapshot and returns the updated snapshot plus any celebration events.
// At most one transition happens per distinct calendar day; a second
// interaction on the same day is a no-op.
func AdvanceStreak(p domain.UserProfile, today time.Time) (domain.UserProfile, []domain.GamificationEvent) {
	if !p.LastActiveDate.IsZero() && domain.SameDay(p.LastActiveDate, today) {
		return p, nil // already counted today
	}

	var events []domain.GamificationEvent
	firstEver := p.LastActiveDate.IsZero()
	gap := 0
	if !firstEver {
		gap = domain.DaysBetween(p.LastActiveDate, today)
	}

	day := domain.DayOf(today)
	p.TotalActiveDays++

	switch {
	case firstEver || gap == 1:
		// Consecutive day (or very first interaction)
		p.CurrentStreak++
		events = append(events, extendEvents(&p)...)

	case gap == 2 && p.StreakFreezes > 0:
		// Exactly one day missed — auto-consume a banked freeze.
		p.CurrentStreak++
		p.StreakFreezes--
		p.LastFreezeDate = day.AddDate(0, 0, -1)
		events = append(events, domain.StreakFreezeUsedEvent{})
		// A freeze-saved streak can still cross a milestone. No new
		// freeze is banked in the same transition a freeze was spent.
		for _, m := range streakMilestones {
			if p.CurrentStreak == m {
				events = append(events, domain.StreakMilestoneEvent{Days: m})
			}
		}
		if p.CurrentStreak > p.LongestStreak {
			p.LongestStreak = p.CurrentStreak
		}

	default:
		// Gap too large, or no freeze left — streak resets. 1 is never
		// a milestone, so no events.
		p.CurrentStreak = 1
	}

	p.LastActiveDate = day
	return p, events
}

// extendEvents updates longest-streak bookkeeping and collects milestone
// and freeze-earned events for a plain streak extension.
func extendEvents(p *domain.UserProfile) []domain.GamificationEvent {
	var events []domain.GamificationEvent
	for _, m := range streakMilestones {
		if p.CurrentStreak == m {
			events = append(events, domain.StreakMilestoneEvent{Days: m})
		}
	}
	if p.CurrentStreak > 0 && p.CurrentStreak%freezeEarnInterval == 0 {
		p.StreakFreezes++
		events = append(events, domain.StreakFreezeEarnedEvent{})
	}
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
	return events
}

// StreakAtRisk reports whether the streak will break unless an
// interaction is recorded before the end of today. Read-only; uses the
// same calendar-day semantics as AdvanceStreak.
func StreakAtRisk(p domain.UserProfile, now time.Time) bool {
	if p.CurrentStreak == 0 || p.LastActiveDate.IsZero() {
		return false
	}
	if domain.SameDay(p.LastActiveDate, now) {
		return false
	}
	return domain.DaysBetween(p.LastActiveDate, now) == 1
}

// StreakView assembles the read-only streak summary served to the UI.
func StreakView(p domain.UserProfile, now time.Time) domain.StreakInfo {
	return domain.StreakInfo{
		CurrentStreak:   p.CurrentStreak,
		LongestStreak:   p.LongestStreak,
		FreezesBanked:   p.StreakFreezes,
		IsActiveToday:   !p.LastActiveDate.IsZero() && domain.SameDay(p.LastActiveDate, now),
		StreakAtRisk:    StreakAtRisk(p, now),
		TotalDaysActive: p.TotalActiveDays,
	}
}
