package engine

import "time"

const dayLayout = "2006-01-02"

// DayKey formats the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dayLayout)
}

func previousDayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	y, m, d := lt.Date()
	return time.Date(y, m, d-1, 12, 0, 0, 0, loc).Format(dayLayout)
}

// bumpDaily increments a daily streak at most once per calendar day. A gap of
// more than one day restarts the run at 1.
func bumpDaily(st Streak, now time.Time, loc *time.Location) (Streak, bool) {
	today := DayKey(now, loc)
	if st.LastDay == today {
		return st, false
	}
	if st.LastDay == previousDayKey(now, loc) {
		st.Count++
	} else {
		st.Count = 1
	}
	st.LastDay = today
	if st.Count > st.Best {
		st.Best = st.Count
	}
	return st, true
}

// bumpCount increments a counter that is not tied to calendar days.
func bumpCount(st Streak, now time.Time, loc *time.Location) Streak {
	st.Count++
	st.LastDay = DayKey(now, loc)
	if st.Count > st.Best {
		st.Best = st.Count
	}
	return st
}

// rolloverDaily drops a daily streak to zero once a full day has been missed.
func rolloverDaily(st Streak, now time.Time, loc *time.Location) (Streak, bool) {
	if st.LastDay == "" || st.Count == 0 {
		return st, false
	}
	if st.LastDay >= previousDayKey(now, loc) {
		return st, false
	}
	st.Count = 0
	return st, true
}

// Rollover applies missed-day resets to every daily streak. Best values are kept.
func (e *Engine) Rollover(state Snapshot) Result {
	next := state.Clone()
	now := e.now()
	for _, kind := range StreakKinds {
		if !kind.Daily() {
			continue
		}
		if st, changed := rolloverDaily(next.Streaks.Get(kind), now, e.loc); changed {
			next.Streaks.Set(kind, st)
		}
	}
	return Result{Snapshot: next}
}

// RecordVisit counts today toward the usage streak.
func (e *Engine) RecordVisit(state Snapshot) Result {
	next := state.Clone()
	st, bumped := bumpDaily(next.Streaks.Usage, e.now(), e.loc)
	next.Streaks.Usage = st
	var awards []Award
	if bumped {
		awards = append(awards, Award{Kind: AwardStreak, Streak: StreakUsage, Count: st.Count})
	}
	return Result{Snapshot: next, Awards: awards}
}

type StreakTier string

const (
	StreakTierNone      StreakTier = "none"
	StreakTierWarming   StreakTier = "warming"
	StreakTierOnFire    StreakTier = "on_fire"
	StreakTierExcellent StreakTier = "excellent"
	StreakTierLegend    StreakTier = "legend"
)

// TierForStreak maps a streak length to its display tier.
func TierForStreak(count int) StreakTier {
	switch {
	case count >= 30:
		return StreakTierLegend
	case count >= 14:
		return StreakTierExcellent
	case count >= 7:
		return StreakTierOnFire
	case count >= 3:
		return StreakTierWarming
	default:
		return StreakTierNone
	}
}
