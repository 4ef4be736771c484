package gamification

import "github.com/fitcoach-app/fitcoach/internal/domain"

// CheckBadgeUnlocks returns the catalog entries that newly qualify
// against the (possibly hypothetical) profile snapshot, in catalog order.
// Badges already in earned are never re-evaluated. A definition with
// several criteria unlocks only when all of them hold.
//
// freezeUsed is the current transition's context flag: a freeze_used
// criterion fires only in the exact transition a freeze was consumed,
// never retroactively.
func CheckBadgeUnlocks(p domain.UserProfile, catalog []domain.BadgeDefinition, earned map[string]bool, freezeUsed bool) []domain.BadgeDefinition {
	var unlocked []domain.BadgeDefinition
	for _, def := range catalog {
		if earned[def.ID] {
			continue
		}
		if qualifies(p, def, freezeUsed) {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}

func qualifies(p domain.UserProfile, def domain.BadgeDefinition, freezeUsed bool) bool {
	if len(def.Criteria) == 0 {
		return false
	}
	for key, threshold := range def.Criteria {
		switch key {
		case domain.CriterionMessageCount:
			if p.MessageCount < threshold {
				return false
			}
		case domain.CriterionCurrentStreak:
			if p.CurrentStreak < threshold {
				return false
			}
		case domain.CriterionCurrentLevel:
			if p.CurrentLevel < threshold {
				return false
			}
		case domain.CriterionFreezeUsed:
			if !freezeUsed {
				return false
			}
		default:
			// Unrecognized criterion — never satisfied.
			return false
		}
	}
	return true
}
