package gamification_test

import (
	"testing"
	"time"

	"github.com/fitcoach-app/fitcoach/internal/app/gamification"
	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Progress Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestProgress_FreshUser(t *testing.T) {
	p := gamification.CalculateProgress(0)
	if p.Level != 1 || p.Name != "Beginner" {
		t.Errorf("expected level 1 Beginner, got %d %s", p.Level, p.Name)
	}
	if p.MessagesInLevel != 0 || p.MessagesToNext != 5 {
		t.Errorf("expected 0 in level, 5 to next, got %d / %d", p.MessagesInLevel, p.MessagesToNext)
	}
	if p.Progress != 0 {
		t.Errorf("expected 0%% progress, got %f", p.Progress)
	}
}

func TestProgress_ExactThreshold(t *testing.T) {
	p := gamification.CalculateProgress(5)
	if p.Level != 2 || p.Name != "Rookie" {
		t.Errorf("expected level 2 Rookie at 5 messages, got %d %s", p.Level, p.Name)
	}
	if p.MessagesInLevel != 0 {
		t.Errorf("expected 0 messages in level, got %d", p.MessagesInLevel)
	}
	if p.MessagesToNext != 10 {
		t.Errorf("expected 10 to next, got %d", p.MessagesToNext)
	}
}

func TestProgress_TerminalLevel(t *testing.T) {
	for _, count := range []int{80, 81, 500, 1000000} {
		p := gamification.CalculateProgress(count)
		if p.Level != 6 || p.Name != "Champion" {
			t.Errorf("count %d: expected level 6 Champion, got %d %s", count, p.Level, p.Name)
		}
		if p.Progress != 100 || p.MessagesToNext != 0 {
			t.Errorf("count %d: expected terminal 100%%/0, got %f/%d", count, p.Progress, p.MessagesToNext)
		}
	}
}

func TestProgress_MidLevel(t *testing.T) {
	// 10 messages: level 2 span is 5..15, so 5 in, 5 to go, 50%.
	p := gamification.CalculateProgress(10)
	if p.Level != 2 {
		t.Fatalf("expected level 2, got %d", p.Level)
	}
	if p.MessagesInLevel != 5 || p.MessagesToNext != 5 {
		t.Errorf("expected 5 in / 5 to next, got %d / %d", p.MessagesInLevel, p.MessagesToNext)
	}
	if p.Progress != 50 {
		t.Errorf("expected 50%%, got %f", p.Progress)
	}
}

func TestProgress_LevelNeverDecreases(t *testing.T) {
	prev := 0
	for count := 0; count <= 120; count++ {
		p := gamification.CalculateProgress(count)
		if p.Level < prev {
			t.Fatalf("level decreased at count %d: %d -> %d", count, prev, p.Level)
		}
		prev = p.Level
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Streak Tests
// ═══════════════════════════════════════════════════════════════════════════

func day(offset int) time.Time {
	return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestStreak_FirstInteraction(t *testing.T) {
	p, events := gamification.AdvanceStreak(domain.UserProfile{}, day(0))

	if p.CurrentStreak != 1 || p.LongestStreak != 1 || p.TotalActiveDays != 1 {
		t.Errorf("expected 1/1/1, got %d/%d/%d", p.CurrentStreak, p.LongestStreak, p.TotalActiveDays)
	}
	if !p.LastActiveDate.Equal(domain.DayOf(day(0))) {
		t.Errorf("expected last active %v, got %v", domain.DayOf(day(0)), p.LastActiveDate)
	}
	if len(events) != 0 {
		t.Errorf("expected no events on day 1, got %v", events)
	}
}

func TestStreak_SameDayNoOp(t *testing.T) {
	p, _ := gamification.AdvanceStreak(domain.UserProfile{}, day(0))
	again, events := gamification.AdvanceStreak(p, day(0).Add(5*time.Hour))

	if again.CurrentStreak != 1 || again.TotalActiveDays != 1 {
		t.Errorf("expected unchanged 1/1, got %d/%d", again.CurrentStreak, again.TotalActiveDays)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
}

func TestStreak_ConsecutiveWithMilestone(t *testing.T) {
	var p domain.UserProfile
	var all []domain.GamificationEvent
	for i := 0; i < 3; i++ {
		var events []domain.GamificationEvent
		p, events = gamification.AdvanceStreak(p, day(i))
		all = append(all, events...)
	}

	if p.CurrentStreak != 3 {
		t.Fatalf("expected streak 3, got %d", p.CurrentStreak)
	}
	found := false
	for _, e := range all {
		if m, ok := e.(domain.StreakMilestoneEvent); ok && m.Days == 3 {
			found = true
		}
	}
	if !found {
		t.Error("expected a 3-day milestone event")
	}
}

func TestStreak_FreezeBankedAtSeven(t *testing.T) {
	var p domain.UserProfile
	var all []domain.GamificationEvent
	for i := 0; i < 7; i++ {
		var events []domain.GamificationEvent
		p, events = gamification.AdvanceStreak(p, day(i))
		all = append(all, events...)
	}

	if p.StreakFreezes != 1 {
		t.Errorf("expected 1 freeze banked at day 7, got %d", p.StreakFreezes)
	}
	milestone, earned := false, false
	for _, e := range all {
		switch ev := e.(type) {
		case domain.StreakMilestoneEvent:
			if ev.Days == 7 {
				milestone = true
			}
		case domain.StreakFreezeEarnedEvent:
			earned = true
		}
	}
	if !milestone || !earned {
		t.Errorf("expected both milestone and freeze-earned events, got milestone=%v earned=%v", milestone, earned)
	}
}

func TestStreak_FreezeSavesMissedDay(t *testing.T) {
	p := domain.UserProfile{
		CurrentStreak:  6,
		LongestStreak:  6,
		StreakFreezes:  1,
		LastActiveDate: domain.DayOf(day(0)),
	}

	// One day missed: day(1) skipped, interaction on day(2).
	p, events := gamification.AdvanceStreak(p, day(2))

	if p.CurrentStreak != 7 {
		t.Errorf("expected streak 7 after freeze save, got %d", p.CurrentStreak)
	}
	if p.StreakFreezes != 0 {
		t.Errorf("expected freeze consumed, got %d remaining", p.StreakFreezes)
	}
	if !p.LastFreezeDate.Equal(domain.DayOf(day(1))) {
		t.Errorf("expected freeze dated to the missed day, got %v", p.LastFreezeDate)
	}

	used, milestone := false, false
	for _, e := range events {
		switch ev := e.(type) {
		case domain.StreakFreezeUsedEvent:
			used = true
		case domain.StreakMilestoneEvent:
			if ev.Days == 7 {
				milestone = true
			}
		case domain.StreakFreezeEarnedEvent:
			t.Error("no freeze may be banked in the transition that spent one")
		}
	}
	if !used || !milestone {
		t.Errorf("expected freeze-used and 7-day milestone, got used=%v milestone=%v", used, milestone)
	}
}

func TestStreak_BreaksWithoutFreeze(t *testing.T) {
	p := domain.UserProfile{
		CurrentStreak:  5,
		LongestStreak:  5,
		LastActiveDate: domain.DayOf(day(0)),
	}

	p, events := gamification.AdvanceStreak(p, day(2))

	if p.CurrentStreak != 1 {
		t.Errorf("expected reset to 1, got %d", p.CurrentStreak)
	}
	if p.LongestStreak != 5 {
		t.Errorf("expected longest preserved at 5, got %d", p.LongestStreak)
	}
	if len(events) != 0 {
		t.Errorf("expected silent break, got %v", events)
	}
}

func TestStreak_LargeGapIgnoresFreezes(t *testing.T) {
	p := domain.UserProfile{
		CurrentStreak:  10,
		LongestStreak:  10,
		StreakFreezes:  2,
		LastActiveDate: domain.DayOf(day(0)),
	}

	// Two days missed; a freeze only covers exactly one.
	p, _ = gamification.AdvanceStreak(p, day(3))

	if p.CurrentStreak != 1 {
		t.Errorf("expected reset to 1, got %d", p.CurrentStreak)
	}
	if p.StreakFreezes != 2 {
		t.Errorf("expected freezes untouched, got %d", p.StreakFreezes)
	}
}

func TestStreak_AtRisk(t *testing.T) {
	p := domain.UserProfile{
		CurrentStreak:  4,
		LastActiveDate: domain.DayOf(day(0)),
	}

	if gamification.StreakAtRisk(p, day(0).Add(6*time.Hour)) {
		t.Error("active today should not be at risk")
	}
	if !gamification.StreakAtRisk(p, day(1)) {
		t.Error("one day since last activity should be at risk")
	}
	if gamification.StreakAtRisk(p, day(2)) {
		t.Error("already-broken streak should not be at risk")
	}
	if gamification.StreakAtRisk(domain.UserProfile{}, day(1)) {
		t.Error("zero streak should never be at risk")
	}
}

func TestStreak_CrossMidnightTimes(t *testing.T) {
	// 23:59 and 00:01 the next day are consecutive calendar days.
	late := time.Date(2025, 7, 1, 23, 59, 0, 0, time.UTC)
	early := time.Date(2025, 7, 2, 0, 1, 0, 0, time.UTC)

	p, _ := gamification.AdvanceStreak(domain.UserProfile{}, late)
	p, _ = gamification.AdvanceStreak(p, early)

	if p.CurrentStreak != 2 {
		t.Errorf("expected streak 2 across midnight, got %d", p.CurrentStreak)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Badge Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestBadges_FirstMessage(t *testing.T) {
	p := domain.UserProfile{MessageCount: 1, CurrentLevel: 1, CurrentStreak: 1}
	unlocked := gamification.CheckBadgeUnlocks(p, gamification.FallbackCatalog(), map[string]bool{}, false)

	if len(unlocked) != 1 || unlocked[0].ID != "first_message" {
		t.Fatalf("expected exactly first_message, got %v", ids(unlocked))
	}
}

func TestBadges_NeverReAwarded(t *testing.T) {
	p := domain.UserProfile{MessageCount: 12, CurrentLevel: 2, CurrentStreak: 1}
	earned := map[string]bool{"first_message": true, "getting_started": true}

	unlocked := gamification.CheckBadgeUnlocks(p, gamification.FallbackCatalog(), earned, false)
	if len(unlocked) != 0 {
		t.Errorf("expected nothing new, got %v", ids(unlocked))
	}
}

func TestBadges_AllCriteriaMustHold(t *testing.T) {
	catalog := []domain.BadgeDefinition{{
		ID: "combo", Name: "Combo",
		Criteria: map[string]int{
			domain.CriterionMessageCount:  10,
			domain.CriterionCurrentStreak: 3,
		},
	}}

	p := domain.UserProfile{MessageCount: 10, CurrentStreak: 2}
	if got := gamification.CheckBadgeUnlocks(p, catalog, map[string]bool{}, false); len(got) != 0 {
		t.Errorf("expected no unlock with one criterion short, got %v", ids(got))
	}

	p.CurrentStreak = 3
	if got := gamification.CheckBadgeUnlocks(p, catalog, map[string]bool{}, false); len(got) != 1 {
		t.Errorf("expected unlock with all criteria met, got %v", ids(got))
	}
}

func TestBadges_FreezeUsedIsTransitionScoped(t *testing.T) {
	// High freeze count on the profile means nothing without the flag.
	p := domain.UserProfile{MessageCount: 1, StreakFreezes: 3}
	catalog := gamification.FallbackCatalog()
	earned := map[string]bool{"first_message": true}

	if got := gamification.CheckBadgeUnlocks(p, catalog, earned, false); len(got) != 0 {
		t.Errorf("expected no unlock without the transition flag, got %v", ids(got))
	}
	got := gamification.CheckBadgeUnlocks(p, catalog, earned, true)
	if len(got) != 1 || got[0].ID != "frozen_saved" {
		t.Errorf("expected frozen_saved with the flag, got %v", ids(got))
	}
}

func TestBadges_UnknownAndEmptyCriteria(t *testing.T) {
	catalog := []domain.BadgeDefinition{
		{ID: "mystery", Criteria: map[string]int{"total_push_ups": 1}},
		{ID: "blank", Criteria: map[string]int{}},
	}
	p := domain.UserProfile{MessageCount: 1000, CurrentStreak: 1000, CurrentLevel: 6}

	if got := gamification.CheckBadgeUnlocks(p, catalog, map[string]bool{}, true); len(got) != 0 {
		t.Errorf("unknown or empty criteria must never unlock, got %v", ids(got))
	}
}

func TestBadges_CatalogOrderPreserved(t *testing.T) {
	p := domain.UserProfile{MessageCount: 100, CurrentLevel: 6, CurrentStreak: 30}
	unlocked := gamification.CheckBadgeUnlocks(p, gamification.FallbackCatalog(), map[string]bool{}, false)

	prev := 0
	for _, b := range unlocked {
		if b.SortOrder < prev {
			t.Fatalf("unlocks out of catalog order: %v", ids(unlocked))
		}
		prev = b.SortOrder
	}
}

func ids(badges []domain.BadgeDefinition) []string {
	out := make([]string, len(badges))
	for i, b := range badges {
		out[i] = b.ID
	}
	return out
}
