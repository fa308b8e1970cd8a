package engine

import "strings"

// ForgeQuest turns a failed (or pending, failing now) quest into a lesson.
//
// The reflection is upserted by quest id so there is never more than one per
// quest. Wisdom XP is recorded on the reflection and counted by the wisdom
// streak; identity XP is not credited.
func (e *Engine) ForgeQuest(state Snapshot, questID, resistance, lesson string) (Result, error) {
	lesson = strings.TrimSpace(lesson)
	if lesson == "" {
		return Result{}, validationf(questID, "lesson is required")
	}
	resistance = strings.TrimSpace(resistance)
	if resistance == "" {
		resistance = DefaultResistance
	}

	next := state.Clone()
	qi := next.questIndex(questID)
	if qi < 0 {
		return Result{}, notFoundf(questID, "quest %s not found", questID)
	}
	q := &next.Quests[qi]
	switch q.Status {
	case QuestPending, QuestFailed:
	default:
		return Result{}, transitionf(questID, "cannot forge quest in status %s", q.Status)
	}

	now := e.now()
	q.Status = QuestForged
	forgedAt := now
	q.CompletedAt = &forgedAt

	if ri := next.reflectionIndex(questID); ri >= 0 {
		r := &next.Reflections[ri]
		r.Resistance = resistance
		r.Lesson = lesson
		r.QuestTitle = q.Title
		r.UpdatedAt = now
	} else {
		next.Reflections = append(next.Reflections, Reflection{
			QuestID:    questID,
			QuestTitle: q.Title,
			Resistance: resistance,
			Lesson:     lesson,
			XPReward:   WisdomXP,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	next.Streaks.Wisdom = bumpCount(next.Streaks.Wisdom, now, e.loc)

	awards := []Award{
		{Kind: AwardWisdom, XP: WisdomXP},
		{Kind: AwardStreak, Streak: StreakWisdom, Count: next.Streaks.Wisdom.Count},
	}
	return Result{Snapshot: next, Awards: awards}, nil
}

// Resistances are the causes offered in the forge dialog.
var Resistances = []string{
	"Fatigue",
	"Distraction",
	"Fear",
	"Procrastination",
	"Lack of time",
	DefaultResistance,
}
