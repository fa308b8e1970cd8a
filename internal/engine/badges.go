package engine

import "sort"

type badgeDef struct {
	id, name, desc string
	tier           Tier
	category       string
	source         ProgressSource
	threshold      int
}

var builtinBadges = []badgeDef{
	// Discipline
	{"1", "Bronze Discipline", "10 consecutive days of proof", TierBronze, "Discipline", SourceDiscipline, 10},
	{"2", "Silver Discipline", "30 consecutive days of proof", TierSilver, "Discipline", SourceDiscipline, 30},
	{"3", "Gold Discipline", "100 consecutive days of proof", TierGold, "Discipline", SourceDiscipline, 100},

	// Vitality
	{"4", "Rookie Athlete", "Complete 5 quests", TierBronze, "Vitality", SourceCompletedQuests, 5},
	{"5", "Seasoned Athlete", "Complete 20 quests", TierSilver, "Vitality", SourceCompletedQuests, 20},

	// Wisdom
	{"6", "Sincere Apprentice", "Turn 3 failures into lessons", TierBronze, "Wisdom", SourceWisdom, 3},
	{"7", "Master of the Forge", "Turn 10 failures into lessons", TierGold, "Wisdom", SourceWisdom, 10},

	// Progression
	{"8", "Relentless Beginner", "Reach 500 total XP", TierBronze, "Progression", SourceTotalXP, 500},
	{"9", "Accomplished Builder", "Reach 2000 total XP", TierSilver, "Progression", SourceTotalXP, 2000},
	{"10", "Master Builder", "Reach 10000 total XP", TierPlatinum, "Progression", SourceTotalXP, 10000},
	{"11", "First Week", "Use the app 7 days in a row", TierBronze, "Progression", SourceUsage, 7},
	{"12", "Determined Traveler", "Use the app 30 days in a row", TierGold, "Progression", SourceUsage, 30},
}

// BadgeCategories lists badge categories in display order.
var BadgeCategories = []string{"Discipline", "Vitality", "Wisdom", "Progression"}

// DefaultBadges returns the built-in catalogue, all locked.
func DefaultBadges() []Badge {
	out := make([]Badge, 0, len(builtinBadges))
	for _, d := range builtinBadges {
		out = append(out, Badge{
			ID:          d.id,
			Name:        d.name,
			Description: d.desc,
			Tier:        d.tier,
			Category:    d.category,
			Threshold:   d.threshold,
			Source:      d.source,
		})
	}
	return out
}

// SourceValue reads the live value feeding a badge source.
func SourceValue(s Snapshot, src ProgressSource) int {
	switch src {
	case SourceDiscipline:
		return s.Streaks.Discipline.Count
	case SourceWisdom:
		return s.Streaks.Wisdom.Count
	case SourceUsage:
		return s.Streaks.Usage.Count
	case SourceTotalXP:
		return TotalXP(s)
	case SourceCompletedQuests:
		return CompletedQuestCount(s)
	default:
		return 0
	}
}

// EvaluateBadges recomputes progress for every badge. Unlocking is one-way:
// a badge already unlocked stays unlocked whatever the source value is now.
func (e *Engine) EvaluateBadges(state Snapshot) Result {
	next := state.Clone()
	now := e.now()
	var awards []Award
	for i := range next.Badges {
		b := &next.Badges[i]
		v := SourceValue(next, b.Source)
		b.Progress = min(v, b.Threshold)
		if b.Progress < 0 {
			b.Progress = 0
		}
		if b.Unlocked {
			continue
		}
		if v >= b.Threshold {
			b.Unlocked = true
			t := now
			b.UnlockedAt = &t
			awards = append(awards, Award{
				Kind:      AwardBadge,
				BadgeID:   b.ID,
				BadgeName: b.Name,
				Tier:      b.Tier,
			})
		}
	}
	return Result{Snapshot: next, Awards: awards}
}

// MergeBadgeCatalogue adds any built-in badge missing from stored state and
// keeps the stored unlock state of the rest.
func MergeBadgeCatalogue(stored []Badge) []Badge {
	have := make(map[string]bool, len(stored))
	out := make([]Badge, 0, len(stored)+len(builtinBadges))
	for _, b := range stored {
		have[b.ID] = true
		out = append(out, b)
	}
	for _, b := range DefaultBadges() {
		if !have[b.ID] {
			out = append(out, b)
		}
	}
	sortBadges(out)
	return out
}

// CountUnlocked returns how many badges have been earned.
func CountUnlocked(badges []Badge) int {
	n := 0
	for _, b := range badges {
		if b.Unlocked {
			n++
		}
	}
	return n
}

// BadgesByCategory groups badges in catalogue order.
func BadgesByCategory(badges []Badge) map[string][]Badge {
	out := map[string][]Badge{}
	for _, b := range badges {
		out[b.Category] = append(out[b.Category], b)
	}
	return out
}

func sortBadges(badges []Badge) {
	sort.SliceStable(badges, func(i, j int) bool {
		return badgeOrder(badges[i].ID) < badgeOrder(badges[j].ID)
	})
}

func badgeOrder(id string) int {
	for i, d := range builtinBadges {
		if d.id == id {
			return i
		}
	}
	return len(builtinBadges)
}
