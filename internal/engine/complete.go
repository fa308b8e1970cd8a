package engine

// CompleteQuest marks a pending quest completed and credits its reward to the
// linked identity. XP for a quest whose identity no longer resolves is dropped,
// but the quest still completes.
func (e *Engine) CompleteQuest(state Snapshot, questID string) (Result, error) {
	next := state.Clone()
	qi := next.questIndex(questID)
	if qi < 0 {
		return Result{}, notFoundf(questID, "quest %s not found", questID)
	}
	q := &next.Quests[qi]
	if q.Status != QuestPending {
		return Result{}, transitionf(questID, "cannot complete quest in status %s", q.Status)
	}

	now := e.now()
	q.Status = QuestCompleted
	completedAt := now
	q.CompletedAt = &completedAt

	var awards []Award
	if ii := next.identityIndex(q.LinkedIdentityID); ii >= 0 {
		id := &next.Identities[ii]
		before, after := creditXP(id, q.XPReward)
		awards = append(awards, Award{
			Kind:         AwardXP,
			IdentityID:   id.ID,
			IdentityName: id.Name,
			XP:           q.XPReward,
		})
		if after > before {
			awards = append(awards, Award{
				Kind:         AwardLevelUp,
				IdentityID:   id.ID,
				IdentityName: id.Name,
				Level:        after,
			})
		}
	}

	if st, bumped := bumpDaily(next.Streaks.Discipline, now, e.loc); bumped {
		next.Streaks.Discipline = st
		awards = append(awards, Award{Kind: AwardStreak, Streak: StreakDiscipline, Count: st.Count})
	}

	return Result{Snapshot: next, Awards: awards}, nil
}

// FailQuest records an un-reflected failure. The quest can still be forged later.
func (e *Engine) FailQuest(state Snapshot, questID string) (Result, error) {
	next := state.Clone()
	qi := next.questIndex(questID)
	if qi < 0 {
		return Result{}, notFoundf(questID, "quest %s not found", questID)
	}
	q := &next.Quests[qi]
	if q.Status != QuestPending {
		return Result{}, transitionf(questID, "cannot fail quest in status %s", q.Status)
	}
	q.Status = QuestFailed
	return Result{Snapshot: next}, nil
}
