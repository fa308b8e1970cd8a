package engine

import (
	"errors"
	"testing"
	"time"
)

func TestApply_CompleteQuestEvaluatesBadges(t *testing.T) {
	eng, _ := newTestEngine(t)
	s := baseSnapshot()
	s.Identities[0].XP = 480

	res, err := eng.Apply(s, CompleteQuestEvent{QuestID: "Q1"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := res.Snapshot.FindIdentity("writer").XP; got != 530 {
		t.Fatalf("writer xp=%d, want 530", got)
	}
	if !findBadge(t, res.Snapshot, "8").Unlocked {
		t.Fatalf("500 XP badge should unlock")
	}

	kinds := map[AwardKind]bool{}
	for _, a := range res.Awards {
		kinds[a.Kind] = true
	}
	for _, k := range []AwardKind{AwardXP, AwardLevelUp, AwardBadge} {
		if !kinds[k] {
			t.Fatalf("missing %s award in %+v", k, res.Awards)
		}
	}
}

func TestApply_ErrorLeavesNoResult(t *testing.T) {
	eng, _ := newTestEngine(t)
	res, err := eng.Apply(baseSnapshot(), CompleteQuestEvent{QuestID: "missing"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind=%s, want not_found", KindOf(err))
	}
	if len(res.Snapshot.Quests) != 0 {
		t.Fatalf("rejected apply returned a snapshot: %+v", res.Snapshot)
	}
}

func TestApply_CreateQuestDefaultsReward(t *testing.T) {
	eng, _ := newTestEngine(t)
	res, err := eng.Apply(baseSnapshot(), CreateQuestEvent{Title: "Run 5k", IdentityID: "writer"})
	if err != nil {
		t.Fatalf("create quest: %v", err)
	}
	q := res.Snapshot.FindQuest(res.CreatedID)
	if q == nil {
		t.Fatalf("created quest %q not in snapshot", res.CreatedID)
	}
	if q.XPReward != DefaultQuestXP || q.Status != QuestPending {
		t.Fatalf("quest reward=%d status=%s", q.XPReward, q.Status)
	}

	if _, err := eng.Apply(baseSnapshot(), CreateQuestEvent{Title: "Run", IdentityID: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown identity err=%v, want not found", err)
	}
	if _, err := eng.Apply(baseSnapshot(), CreateQuestEvent{Title: "Run", XPReward: -5}); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative reward err=%v, want validation", err)
	}
}

func TestApply_RecordVisitOncePerDay(t *testing.T) {
	eng, clock := newTestEngine(t)

	res, err := eng.Apply(baseSnapshot(), RecordVisitEvent{})
	if err != nil {
		t.Fatalf("visit: %v", err)
	}
	res, err = eng.Apply(res.Snapshot, RecordVisitEvent{})
	if err != nil {
		t.Fatalf("second visit: %v", err)
	}
	if got := res.Snapshot.Streaks.Usage.Count; got != 1 {
		t.Fatalf("usage after two same-day visits=%d, want 1", got)
	}

	for i := 0; i < 6; i++ {
		clock.advanceDays(1)
		res, err = eng.Apply(res.Snapshot, RecordVisitEvent{})
		if err != nil {
			t.Fatalf("visit day %d: %v", i+2, err)
		}
	}
	if got := res.Snapshot.Streaks.Usage.Count; got != 7 {
		t.Fatalf("usage=%d, want 7", got)
	}
	if !findBadge(t, res.Snapshot, "11").Unlocked {
		t.Fatalf("7-day usage badge should unlock")
	}
}

func TestApply_NilEvent(t *testing.T) {
	eng, _ := newTestEngine(t)
	if _, err := eng.Apply(baseSnapshot(), nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v, want validation", err)
	}
}

func TestApply_CreateLogClassifies(t *testing.T) {
	eng, _ := newTestEngine(t)

	cases := []struct {
		content string
		want    LogType
	}{
		{"Petite victoire ce matin", LogVictory},
		{"Une idée pour le chapitre 3", LogThought},
		{"Big idea, small victory", LogVictory},
		{"Tired today", LogReflection},
	}
	s := baseSnapshot()
	for _, tc := range cases {
		res, err := eng.Apply(s, CreateLogEvent{Content: "  " + tc.content + " "})
		if err != nil {
			t.Fatalf("log %q: %v", tc.content, err)
		}
		s = res.Snapshot
		l := s.Logs[len(s.Logs)-1]
		if l.ID != res.CreatedID || l.Content != tc.content || l.Type != tc.want {
			t.Fatalf("log %q stored as %+v (created %s), want type %s", tc.content, l, res.CreatedID, tc.want)
		}
	}

	if _, err := eng.Apply(s, CreateLogEvent{Content: "   "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty log err=%v, want validation", err)
	}
}

func TestRecentLogsNewestFirst(t *testing.T) {
	eng, clock := newTestEngine(t)
	s := Snapshot{}
	for _, c := range []string{"one", "two", "three"} {
		res, err := eng.CreateLog(s, c)
		if err != nil {
			t.Fatalf("log %s: %v", c, err)
		}
		s = res.Snapshot
		clock.t = clock.t.Add(time.Minute)
	}

	got := RecentLogs(s, 2)
	if len(got) != 2 || got[0].Content != "three" || got[1].Content != "two" {
		t.Fatalf("recent logs=%+v", got)
	}
	if all := RecentLogs(s, 0); len(all) != 3 {
		t.Fatalf("unbounded recent logs=%d, want 3", len(all))
	}
	if empty := RecentLogs(Snapshot{}, 5); empty == nil || len(empty) != 0 {
		t.Fatalf("empty journal should give an empty non-nil slice, got %#v", empty)
	}
}

func TestApply_OnboardIdentitiesSkipsExistingNames(t *testing.T) {
	eng, _ := newTestEngine(t)
	s := baseSnapshot()
	s.Identities[0].XP = 230

	res, err := eng.Apply(s, OnboardIdentitiesEvent{Identities: []CreateIdentityEvent{
		{Name: "writer", Category: "Creative", Attributes: []string{"Focus"}},
		{Name: "Runner", Category: "Sport & Health", Attributes: []string{"Endurance"}},
		{Name: "Leader", Category: "Leadership", Attributes: []string{"Vision"}},
	}})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if len(res.CreatedIDs) != 2 || len(res.Snapshot.Identities) != 3 {
		t.Fatalf("created=%v identities=%d, want 2 new of 3", res.CreatedIDs, len(res.Snapshot.Identities))
	}
	if got := res.Snapshot.FindIdentity("writer").XP; got != 230 {
		t.Fatalf("existing identity xp=%d, want 230 kept", got)
	}
	if res.Snapshot.FindIdentity(res.CreatedIDs[0]).Name != "Runner" {
		t.Fatalf("created ids out of input order: %v", res.CreatedIDs)
	}
}

func TestApply_OnboardIdentitiesIsAllOrNothing(t *testing.T) {
	eng, _ := newTestEngine(t)
	s := baseSnapshot()

	_, err := eng.Apply(s, OnboardIdentitiesEvent{Identities: []CreateIdentityEvent{
		{Name: "Runner", Category: "Sport & Health", Attributes: []string{"Endurance"}},
		{Name: "Leader", Category: "Leadership"},
	}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v, want validation", err)
	}

	_, err = eng.Apply(s, OnboardIdentitiesEvent{Identities: []CreateIdentityEvent{
		{Name: "Runner", Category: "Sport & Health", Attributes: []string{"Endurance"}},
		{Name: "runner", Category: "Sport & Health", Attributes: []string{"Speed"}},
	}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate name err=%v, want validation", err)
	}

	if _, err := eng.Apply(s, OnboardIdentitiesEvent{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty batch err=%v, want validation", err)
	}
	if len(s.Identities) != 1 {
		t.Fatalf("input snapshot was mutated: %+v", s.Identities)
	}
}

func TestApply_PlanDay(t *testing.T) {
	eng, clock := newTestEngine(t)
	s := baseSnapshot()

	res, err := eng.Apply(s, PlanDayEvent{Tasks: []DayTask{
		{IdentityName: "Writer", Title: "Morning pages", Time: "07:30"},
		{IdentityName: "Nobody", Title: "Stretch", Time: "18:00", XPReward: 30},
		{Title: "Call mom"},
	}})
	if err != nil {
		t.Fatalf("plan day: %v", err)
	}
	if len(res.CreatedIDs) != 3 {
		t.Fatalf("created=%v, want 3", res.CreatedIDs)
	}

	pages := res.Snapshot.FindQuest(res.CreatedIDs[0])
	want := time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)
	if pages.LinkedIdentityID != "writer" || pages.XPReward != DefaultQuestXP || pages.ScheduledAt == nil || !pages.ScheduledAt.Equal(want) {
		t.Fatalf("morning pages=%+v", pages)
	}
	stretch := res.Snapshot.FindQuest(res.CreatedIDs[1])
	if stretch.LinkedIdentityID != "" || stretch.XPReward != 30 {
		t.Fatalf("unmatched identity should leave quest unlinked: %+v", stretch)
	}
	if call := res.Snapshot.FindQuest(res.CreatedIDs[2]); call.ScheduledAt != nil {
		t.Fatalf("task without time should be unscheduled: %+v", call)
	}

	// Resubmitting the same plan later that day adds nothing.
	clock.t = clock.t.Add(2 * time.Hour)
	again, err := eng.Apply(res.Snapshot, PlanDayEvent{Tasks: []DayTask{{Title: "morning pages", Time: "07:30"}}})
	if err != nil {
		t.Fatalf("replan: %v", err)
	}
	if len(again.CreatedIDs) != 0 || len(again.Snapshot.Quests) != len(res.Snapshot.Quests) {
		t.Fatalf("replan created %v", again.CreatedIDs)
	}

	if _, err := eng.Apply(s, PlanDayEvent{Tasks: []DayTask{{Title: "Run", Time: "25:99"}}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad time err=%v, want validation", err)
	}
	if _, err := eng.Apply(s, PlanDayEvent{Tasks: []DayTask{{Title: "Run", XPReward: -1}}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative xp err=%v, want validation", err)
	}
}

func TestTodayAndProgress(t *testing.T) {
	eng, clock := newTestEngine(t)
	at := func(h int) *time.Time {
		v := time.Date(2026, 3, 10, h, 0, 0, 0, time.UTC)
		return &v
	}
	yesterday := clock.t.AddDate(0, 0, -1)
	s := Snapshot{Quests: []Quest{
		{ID: "late", Status: QuestCompleted, ScheduledAt: at(20), CreatedAt: yesterday},
		{ID: "loose", Status: QuestPending, CreatedAt: clock.t},
		{ID: "early", Status: QuestCompleted, ScheduledAt: at(6), CreatedAt: clock.t},
		{ID: "old", Status: QuestCompleted, CreatedAt: yesterday},
		{ID: "tomorrow", Status: QuestPending, ScheduledAt: at(30), CreatedAt: clock.t},
	}}

	today := eng.Today(s)
	var ids []string
	for _, q := range today {
		ids = append(ids, q.ID)
	}
	if len(ids) != 3 || ids[0] != "early" || ids[1] != "late" || ids[2] != "loose" {
		t.Fatalf("today=%v, want [early late loose]", ids)
	}

	p := ProgressOf(today)
	if p != (DayProgress{Completed: 2, Total: 3, Percent: 67}) {
		t.Fatalf("progress=%+v", p)
	}
	if p := ProgressOf(nil); p.Percent != 0 || p.Total != 0 {
		t.Fatalf("empty progress=%+v", p)
	}
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"forge_quest","questId":"Q2","resistance":"Fatigue","lesson":"Sleep earlier"}`))
	if err != nil {
		t.Fatalf("decode forge: %v", err)
	}
	if want := (ForgeQuestEvent{QuestID: "Q2", Resistance: "Fatigue", Lesson: "Sleep earlier"}); ev != want {
		t.Fatalf("forge=%+v, want %+v", ev, want)
	}

	ev, err = DecodeEvent([]byte(`{"type":"create_identity","name":"Writer","category":"Creative","attributes":["Focus"]}`))
	if err != nil || ev.EventType() != EventCreateIdentity {
		t.Fatalf("decode create_identity: %v %v", ev, err)
	}

	ev, err = DecodeEvent([]byte(`{"type":"create_log","content":"Small victory"}`))
	if err != nil || ev != (CreateLogEvent{Content: "Small victory"}) {
		t.Fatalf("decode create_log: %v %v", ev, err)
	}

	ev, err = DecodeEvent([]byte(`{"type":"plan_day","tasks":[{"identityName":"Writer","description":"Pages","time":"07:30","xp":40}]}`))
	if err != nil {
		t.Fatalf("decode plan_day: %v", err)
	}
	plan, ok := ev.(PlanDayEvent)
	if !ok || len(plan.Tasks) != 1 || plan.Tasks[0] != (DayTask{IdentityName: "Writer", Title: "Pages", Time: "07:30", XPReward: 40}) {
		t.Fatalf("plan_day=%+v", ev)
	}

	for _, bad := range []string{`{"type":"complete_quest"}`, `{"type":"delete_everything"}`, `not json`} {
		if _, err := DecodeEvent([]byte(bad)); !errors.Is(err, ErrValidation) {
			t.Fatalf("decode %s err=%v, want validation", bad, err)
		}
	}
}

func TestXPNeverDecreasesAcrossOperations(t *testing.T) {
	eng, clock := newTestEngine(t)
	s := baseSnapshot()
	events := []Event{
		CompleteQuestEvent{QuestID: "Q1"},
		CompleteQuestEvent{QuestID: "Q1"},
		FailQuestEvent{QuestID: "Q2"},
		ForgeQuestEvent{QuestID: "Q2", Lesson: "Plan the edit"},
		CreateIdentityEvent{Name: "Runner", Category: "Sport & Health", Attributes: []string{"Endurance"}},
		OnboardIdentitiesEvent{Identities: []CreateIdentityEvent{{Name: "Writer", Category: "Creative", Attributes: []string{"Focus"}}}},
		CompleteQuestEvent{QuestID: "Q3"},
		CreateLogEvent{Content: "victoire"},
		RecordVisitEvent{},
	}

	prev := map[string]int{}
	for _, ev := range events {
		clock.advanceDays(1)
		res, err := eng.Apply(s, ev)
		if err != nil {
			continue
		}
		s = res.Snapshot
		for _, id := range s.Identities {
			if id.XP < prev[id.ID] {
				t.Fatalf("%s: %s xp dropped %d -> %d", ev.EventType(), id.Name, prev[id.ID], id.XP)
			}
			if id.Level != LevelForXP(id.XP) {
				t.Fatalf("%s: %s level=%d for xp %d", ev.EventType(), id.Name, id.Level, id.XP)
			}
			prev[id.ID] = id.XP
		}
	}
}

func TestWeeklySummary(t *testing.T) {
	eng, clock := newTestEngine(t)
	s := baseSnapshot()
	for i := range s.Quests {
		s.Quests[i].CreatedAt = clock.t
	}

	res, err := eng.CompleteQuest(s, "Q1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res, err = eng.FailQuest(res.Snapshot, "Q2"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if res, err = eng.ForgeQuest(res.Snapshot, "Q2", "Fatigue", "Rest"); err != nil {
		t.Fatalf("forge: %v", err)
	}

	sum := WeeklySummary(res.Snapshot, clock.t.Add(1))
	if len(sum.Identities) != 2 {
		t.Fatalf("identities=%+v, want 2 rows", sum.Identities)
	}
	want := IdentityWeek{IdentityID: "writer", IdentityName: "Writer", Total: 2, Completed: 1, Failed: 1, Forged: 1, XPGained: 50}
	if sum.Identities[0] != want {
		t.Fatalf("writer week=%+v, want %+v", sum.Identities[0], want)
	}
	if sum.Identities[1].IdentityName != "Unlinked" {
		t.Fatalf("second row=%+v, want Unlinked", sum.Identities[1])
	}
	if sum.Lessons != 1 || sum.SuccessRate != 33 || sum.TransformationRate != 100 {
		t.Fatalf("lessons=%d success=%d transformation=%d", sum.Lessons, sum.SuccessRate, sum.TransformationRate)
	}
}

func TestAttributeScores(t *testing.T) {
	s := Snapshot{Identities: []Identity{
		{ID: "a", XP: 250, Attributes: []string{"Focus", "Discipline"}},
		{ID: "b", XP: 0, Attributes: []string{"Focus"}},
	}}
	scores := AttributeScores(s)
	if len(scores) != 2 {
		t.Fatalf("scores=%+v", scores)
	}
	if scores[0] != (AttributeScore{Name: "Focus", Value: 42}) || scores[1] != (AttributeScore{Name: "Discipline", Value: 32}) {
		t.Fatalf("scores=%+v", scores)
	}
}

func TestResolveQuestID(t *testing.T) {
	s := Snapshot{Quests: []Quest{{ID: "abc123"}, {ID: "abd456"}}}

	id, err := s.ResolveQuestID("abc")
	if err != nil || id != "abc123" {
		t.Fatalf("resolve abc=%q %v", id, err)
	}
	if _, err := s.ResolveQuestID("ab"); !errors.Is(err, ErrValidation) {
		t.Fatalf("ambiguous prefix err=%v, want validation", err)
	}
	if _, err := s.ResolveQuestID("zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown prefix err=%v, want not found", err)
	}
}

func TestTierForStreak(t *testing.T) {
	cases := map[int]StreakTier{
		2:  StreakTierNone,
		3:  StreakTierWarming,
		7:  StreakTierOnFire,
		14: StreakTierExcellent,
		30: StreakTierLegend,
	}
	for n, want := range cases {
		if got := TierForStreak(n); got != want {
			t.Fatalf("TierForStreak(%d)=%s, want %s", n, got, want)
		}
	}
}

func TestBadgeCategoriesCoverCatalogue(t *testing.T) {
	known := map[string]bool{}
	for _, c := range BadgeCategories {
		known[c] = true
	}
	for _, b := range DefaultBadges() {
		if !known[b.Category] {
			t.Fatalf("badge %s has category %q missing from BadgeCategories", b.ID, b.Category)
		}
	}
}
