package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) advanceDays(n int) { c.t = c.t.AddDate(0, 0, n) }

func newTestEngine(t *testing.T) (*Engine, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	seq := 0
	eng := New(
		WithClock(clock),
		WithLocation(time.UTC),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	return eng, clock
}

func baseSnapshot() Snapshot {
	return Snapshot{
		Identities: []Identity{
			{ID: "writer", Name: "Writer", Category: "Creative", Level: 1, XP: 0, Attributes: []string{"Focus"}},
		},
		Quests: []Quest{
			{ID: "Q1", Title: "Write 500 words", LinkedIdentityID: "writer", XPReward: 50, Status: QuestPending},
			{ID: "Q2", Title: "Edit chapter", LinkedIdentityID: "writer", XPReward: 60, Status: QuestPending},
			{ID: "Q3", Title: "Orphan", LinkedIdentityID: "gone", XPReward: 40, Status: QuestPending},
		},
		Badges: DefaultBadges(),
	}
}

func TestXPBoundaries(t *testing.T) {
	if got := LevelForXP(0); got != 1 {
		t.Fatalf("LevelForXP(0)=%d, want 1", got)
	}
	if got := LevelForXP(99); got != 1 {
		t.Fatalf("LevelForXP(99)=%d, want 1", got)
	}
	if got := LevelForXP(100); got != 2 {
		t.Fatalf("LevelForXP(100)=%d, want 2", got)
	}
	if got := XPRequiredForLevel(3); got != 200 {
		t.Fatalf("XPRequiredForLevel(3)=%d, want 200", got)
	}
	if got := XPToNextLevel(110); got != 90 {
		t.Fatalf("XPToNextLevel(110)=%d, want 90", got)
	}
	if got := XPIntoLevel(110); got != 10 {
		t.Fatalf("XPIntoLevel(110)=%d, want 10", got)
	}
}

func TestCompleteQuestAccruesXPAndLevels(t *testing.T) {
	eng, _ := newTestEngine(t)
	s := baseSnapshot()

	res, err := eng.CompleteQuest(s, "Q1")
	if err != nil {
		t.Fatalf("complete Q1: %v", err)
	}
	w := res.Snapshot.FindIdentity("writer")
	if w.XP != 50 || w.Level != 1 {
		t.Fatalf("after Q1 xp=%d level=%d, want 50/1", w.XP, w.Level)
	}
	q := res.Snapshot.FindQuest("Q1")
	if q.Status != QuestCompleted || q.CompletedAt == nil {
		t.Fatalf("Q1 status=%s completedAt=%v", q.Status, q.CompletedAt)
	}

	res, err = eng.CompleteQuest(res.Snapshot, "Q2")
	if err != nil {
		t.Fatalf("complete Q2: %v", err)
	}
	w = res.Snapshot.FindIdentity("writer")
	if w.XP != 110 || w.Level != 2 {
		t.Fatalf("after Q2 xp=%d level=%d, want 110/2", w.XP, w.Level)
	}

	levelUp := false
	for _, a := range res.Awards {
		if a.Kind == AwardLevelUp && a.Level == 2 {
			levelUp = true
		}
	}
	if !levelUp {
		t.Fatalf("expected level-up award, got %+v", res.Awards)
	}

	// Input snapshot must not be mutated.
	if s.Identities[0].XP != 0 || s.Quests[0].Status != QuestPending {
		t.Fatalf("input snapshot was mutated: %+v", s.Identities[0])
	}
}

func TestCompleteQuestTwiceIsInvalidTransition(t *testing.T) {
	eng, _ := newTestEngine(t)
	first, err := eng.CompleteQuest(baseSnapshot(), "Q1")
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}

	_, err = eng.CompleteQuest(first.Snapshot, "Q1")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second complete err=%v, want invalid transition", err)
	}
	if got := first.Snapshot.FindIdentity("writer").XP; got != 50 {
		t.Fatalf("xp=%d after rejected completion, want 50", got)
	}
}

func TestCompleteQuestUnknownIsNotFound(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.CompleteQuest(baseSnapshot(), "nope")
	if KindOf(err) != KindNotFound {
		t.Fatalf("err=%v, want not_found", err)
	}
}

func TestCompleteOrphanQuestDropsXP(t *testing.T) {
	eng, _ := newTestEngine(t)
	res, err := eng.CompleteQuest(baseSnapshot(), "Q3")
	if err != nil {
		t.Fatalf("complete orphan: %v", err)
	}
	if res.Snapshot.FindQuest("Q3").Status != QuestCompleted {
		t.Fatalf("orphan quest not completed")
	}
	if TotalXP(res.Snapshot) != 0 {
		t.Fatalf("total xp=%d, want 0", TotalXP(res.Snapshot))
	}
	for _, a := range res.Awards {
		if a.Kind == AwardXP {
			t.Fatalf("unexpected xp award %+v", a)
		}
	}
}

func TestDisciplineStreakOncePerDay(t *testing.T) {
	eng, clock := newTestEngine(t)
	s := baseSnapshot()

	res, err := eng.CompleteQuest(s, "Q1")
	if err != nil {
		t.Fatalf("complete Q1: %v", err)
	}
	res, err = eng.CompleteQuest(res.Snapshot, "Q2")
	if err != nil {
		t.Fatalf("complete Q2: %v", err)
	}
	if got := res.Snapshot.Streaks.Discipline.Count; got != 1 {
		t.Fatalf("discipline=%d after two same-day completions, want 1", got)
	}

	clock.advanceDays(1)
	res, err = eng.CompleteQuest(res.Snapshot, "Q3")
	if err != nil {
		t.Fatalf("complete Q3: %v", err)
	}
	if got := res.Snapshot.Streaks.Discipline; got.Count != 2 || got.Best != 2 {
		t.Fatalf("discipline=%+v next day, want count 2 best 2", got)
	}
}

func TestRolloverResetsMissedDailyStreaks(t *testing.T) {
	eng, clock := newTestEngine(t)
	s := baseSnapshot()
	s.Streaks.Discipline = Streak{Count: 4, Best: 6, LastDay: "2026-03-09"}
	s.Streaks.Wisdom = Streak{Count: 2, Best: 2, LastDay: "2026-03-01"}

	if got := eng.Rollover(s).Snapshot.Streaks.Discipline.Count; got != 4 {
		t.Fatalf("discipline=%d day after last proof, want 4", got)
	}

	clock.advanceDays(1)
	out := eng.Rollover(s).Snapshot
	if out.Streaks.Discipline.Count != 0 || out.Streaks.Discipline.Best != 6 {
		t.Fatalf("discipline=%+v after missed day, want count 0 best 6", out.Streaks.Discipline)
	}
	if out.Streaks.Wisdom.Count != 2 {
		t.Fatalf("wisdom=%d, rollover must not touch it", out.Streaks.Wisdom.Count)
	}
}

func TestForgeQuestRecordsOneReflection(t *testing.T) {
	eng, _ := newTestEngine(t)
	s := baseSnapshot()

	res, err := eng.ForgeQuest(s, "Q2", "Fatigue", "Sleep earlier")
	if err != nil {
		t.Fatalf("forge: %v", err)
	}
	if len(res.Snapshot.Reflections) != 1 {
		t.Fatalf("reflections=%d, want 1", len(res.Snapshot.Reflections))
	}
	r := res.Snapshot.Reflections[0]
	if r.QuestID != "Q2" || r.Resistance != "Fatigue" || r.Lesson != "Sleep earlier" || r.XPReward != WisdomXP {
		t.Fatalf("reflection=%+v", r)
	}
	if got := res.Snapshot.Streaks.Wisdom.Count; got != 1 {
		t.Fatalf("wisdom=%d, want 1", got)
	}
	if res.Snapshot.FindQuest("Q2").Status != QuestForged {
		t.Fatalf("status=%s, want forged", res.Snapshot.FindQuest("Q2").Status)
	}
	if res.Snapshot.FindIdentity("writer").XP != 0 {
		t.Fatalf("forge must not credit identity xp")
	}

	_, err = eng.ForgeQuest(res.Snapshot, "Q2", "Fatigue", "Again")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-forge err=%v, want invalid transition", err)
	}
}

func TestForgeUpsertsExistingReflection(t *testing.T) {
	eng, _ := newTestEngine(t)
	s := baseSnapshot()
	s.Quests[1].Status = QuestFailed
	s.Reflections = []Reflection{{QuestID: "Q2", Resistance: "Fear", Lesson: "draft", XPReward: WisdomXP}}

	res, err := eng.ForgeQuest(s, "Q2", "", "Start smaller")
	if err != nil {
		t.Fatalf("forge failed quest: %v", err)
	}
	if len(res.Snapshot.Reflections) != 1 {
		t.Fatalf("reflections=%d, want 1", len(res.Snapshot.Reflections))
	}
	r := res.Snapshot.Reflections[0]
	if r.Resistance != DefaultResistance || r.Lesson != "Start smaller" {
		t.Fatalf("reflection=%+v", r)
	}
}

func TestForgeRejectsEmptyLessonAndCompletedQuest(t *testing.T) {
	eng, _ := newTestEngine(t)
	s := baseSnapshot()

	if _, err := eng.ForgeQuest(s, "Q1", "Fatigue", "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty lesson err=%v, want validation", err)
	}

	done, err := eng.CompleteQuest(s, "Q1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := eng.ForgeQuest(done.Snapshot, "Q1", "Fatigue", "x"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("forge completed err=%v, want invalid transition", err)
	}
}

func TestFailQuestThenForge(t *testing.T) {
	eng, _ := newTestEngine(t)
	res, err := eng.FailQuest(baseSnapshot(), "Q1")
	if err != nil {
		t.Fatalf("fail: %v", err)
	}
	if res.Snapshot.FindQuest("Q1").Status != QuestFailed {
		t.Fatalf("status=%s, want failed", res.Snapshot.FindQuest("Q1").Status)
	}
	if _, err := eng.FailQuest(res.Snapshot, "Q1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double fail err=%v", err)
	}
	if _, err := eng.CompleteQuest(res.Snapshot, "Q1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete failed quest err=%v", err)
	}
	if _, err := eng.ForgeQuest(res.Snapshot, "Q1", "Distraction", "Phone in another room"); err != nil {
		t.Fatalf("forge failed quest: %v", err)
	}
}

func TestCreateIdentityValidation(t *testing.T) {
	eng, _ := newTestEngine(t)
	s := baseSnapshot()

	cases := []struct {
		name string
		in   CreateIdentityInput
	}{
		{"empty name", CreateIdentityInput{Name: " ", Category: "Creative", Attributes: []string{"Focus"}}},
		{"empty category", CreateIdentityInput{Name: "Runner", Attributes: []string{"Focus"}}},
		{"no attributes", CreateIdentityInput{Name: "Runner", Category: "Sport & Health"}},
		{"too many", CreateIdentityInput{Name: "Runner", Category: "Sport & Health", Attributes: []string{"a", "b", "c", "d", "e", "f"}}},
		{"duplicates", CreateIdentityInput{Name: "Runner", Category: "Sport & Health", Attributes: []string{"Endurance", "endurance"}}},
	}
	for _, tc := range cases {
		if _, err := eng.CreateIdentity(s, tc.in); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: err=%v, want validation", tc.name, err)
		}
	}

	res, err := eng.CreateIdentity(s, CreateIdentityInput{
		Name:       "Runner",
		Category:   "Sport & Health",
		Attributes: []string{"Endurance", "Vitality", "Force", "Regularity", "Recovery"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(res.Snapshot.Identities) != 2 {
		t.Fatalf("identities=%d, want 2", len(res.Snapshot.Identities))
	}
	id := res.Snapshot.FindIdentity(res.CreatedID)
	if id == nil || id.Level != 1 || id.XP != 0 {
		t.Fatalf("created identity=%+v", id)
	}
}

func TestBadgeUnlockIsSticky(t *testing.T) {
	eng, clock := newTestEngine(t)
	s := baseSnapshot()
	s.Streaks.Discipline = Streak{Count: 10, Best: 10, LastDay: "2026-03-10"}

	res := eng.EvaluateBadges(s)
	b := findBadge(t, res.Snapshot, "1")
	if !b.Unlocked || b.Progress != 10 || b.UnlockedAt == nil {
		t.Fatalf("badge after 10 days=%+v", b)
	}
	if len(res.Awards) != 1 || res.Awards[0].BadgeID != "1" {
		t.Fatalf("awards=%+v, want one badge award", res.Awards)
	}

	clock.advanceDays(3)
	reset := eng.Rollover(res.Snapshot).Snapshot
	if reset.Streaks.Discipline.Count != 0 {
		t.Fatalf("streak did not reset")
	}
	again := eng.EvaluateBadges(reset)
	b = findBadge(t, again.Snapshot, "1")
	if !b.Unlocked {
		t.Fatalf("badge relocked after streak reset")
	}
	if b.Progress != 0 {
		t.Fatalf("progress=%d, want 0", b.Progress)
	}
	if len(again.Awards) != 0 {
		t.Fatalf("unexpected awards %+v", again.Awards)
	}
}

func TestBadgeSources(t *testing.T) {
	eng, _ := newTestEngine(t)
	s := baseSnapshot()
	s.Identities[0].XP = 600
	s.Streaks.Wisdom.Count = 3
	s.Streaks.Usage.Count = 7
	for i := 0; i < 5; i++ {
		s.Quests = append(s.Quests, Quest{ID: fmt.Sprintf("done-%d", i), Status: QuestCompleted, XPReward: 10})
	}

	out := eng.EvaluateBadges(s).Snapshot
	for _, id := range []string{"4", "6", "8", "11"} {
		if !findBadge(t, out, id).Unlocked {
			t.Fatalf("badge %s should be unlocked", id)
		}
	}
	for _, id := range []string{"2", "5", "7", "9"} {
		if findBadge(t, out, id).Unlocked {
			t.Fatalf("badge %s should be locked", id)
		}
	}
	if got := findBadge(t, out, "9").Progress; got != 600 {
		t.Fatalf("badge 9 progress=%d, want 600", got)
	}
}

func findBadge(t *testing.T, s Snapshot, id string) Badge {
	t.Helper()
	for _, b := range s.Badges {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("badge %s not found", id)
	return Badge{}
}
