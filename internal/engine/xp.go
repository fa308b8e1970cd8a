package engine

const (
	// XPPerLevel is the flat amount of XP each identity level spans.
	XPPerLevel = 100
)

// LevelForXP returns the identity level for a cumulative XP total.
// Level starts at 1 with 0 XP.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// XPRequiredForLevel returns the total XP threshold required to be at the given level.
func XPRequiredForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * XPPerLevel
}

// XPIntoLevel is the XP earned since the current level was reached.
func XPIntoLevel(xp int) int {
	if xp <= 0 {
		return 0
	}
	return xp % XPPerLevel
}

// XPToNextLevel is the XP still missing before the next level.
func XPToNextLevel(xp int) int {
	return XPRequiredForLevel(LevelForXP(xp)+1) - max(xp, 0)
}

// TotalXP sums XP across all identities.
func TotalXP(s Snapshot) int {
	total := 0
	for _, id := range s.Identities {
		total += id.XP
	}
	return total
}

// CompletedQuestCount counts quests in the completed state. Forged quests are
// reflections, not proofs, and are not counted.
func CompletedQuestCount(s Snapshot) int {
	n := 0
	for _, q := range s.Quests {
		if q.Status == QuestCompleted {
			n++
		}
	}
	return n
}

// creditXP adds xp to an identity and recomputes its level.
func creditXP(id *Identity, xp int) (levelBefore, levelAfter int) {
	levelBefore = LevelForXP(id.XP)
	if xp > 0 {
		id.XP += xp
	}
	id.Level = LevelForXP(id.XP)
	return levelBefore, id.Level
}
