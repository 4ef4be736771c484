package api

import (
	"net/http"
	"sort"

	"github.com/fitcoach-app/fitcoach/internal/app/gamification"
	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// --- /api/profile ---

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Profile())
}

// --- /api/gamification/progress ---

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Progress())
}

// --- /api/gamification/levels ---

// handleLevels serves the static level table with its theming colors.
func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"levels": gamification.Levels(),
	})
}

// --- /api/gamification/streak ---

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Streak())
}

// --- /api/gamification/badges ---

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	earned := s.orch.EarnedBadges()
	sort.Slice(earned, func(i, j int) bool {
		return earned[i].EarnedAt.Before(earned[j].EarnedAt)
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"catalog": s.orch.Catalog(),
		"earned":  earned,
	})
}

// --- /api/gamification/events ---

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": encodeEvents(s.orch.PendingEvents()),
	})
}

// handleEventsDrain hands the queued celebration events to the caller and
// clears the queue, so each toast is shown exactly once.
func (s *Server) handleEventsDrain(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": encodeEvents(s.orch.DrainEvents()),
	})
}

// eventEnvelope is the tagged wire form of one celebration event.
type eventEnvelope struct {
	Type     string                  `json:"type"`
	NewLevel int                     `json:"newLevel,omitempty"`
	NewName  string                  `json:"newName,omitempty"`
	Badge    *domain.BadgeDefinition `json:"badge,omitempty"`
	Days     int                     `json:"days,omitempty"`
}

func encodeEvents(events []domain.GamificationEvent) []eventEnvelope {
	out := make([]eventEnvelope, 0, len(events))
	for _, e := range events {
		env := eventEnvelope{Type: domain.EventKind(e)}
		switch ev := e.(type) {
		case domain.LevelUpEvent:
			env.NewLevel = ev.NewLevel
			env.NewName = ev.NewName
		case domain.BadgeEarnedEvent:
			b := ev.Badge
			env.Badge = &b
		case domain.StreakMilestoneEvent:
			env.Days = ev.Days
		case domain.StreakFreezeUsedEvent, domain.StreakFreezeEarnedEvent:
			// tag only
		}
		out = append(out, env)
	}
	return out
}
