package engine

import (
	"sort"
	"time"
)

// DayProgress is the share of a day's quests that were completed.
type DayProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// QuestsOn returns the quests that belong to day's calendar date in loc: the
// scheduled date when set, otherwise the creation date. Scheduled quests come
// first by time, then the rest by creation.
func QuestsOn(s Snapshot, day time.Time, loc *time.Location) []Quest {
	key := DayKey(day, loc)
	out := []Quest{}
	for _, q := range s.Quests {
		at := q.CreatedAt
		if q.ScheduledAt != nil {
			at = *q.ScheduledAt
		}
		if DayKey(at, loc) == key {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ScheduledAt, out[j].ScheduledAt
		switch {
		case a != nil && b != nil:
			return a.Before(*b)
		case a != nil || b != nil:
			return a != nil
		default:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
	})
	return out
}

// Today returns the quests planned for the engine's current day.
func (e *Engine) Today(s Snapshot) []Quest {
	return QuestsOn(s, e.now(), e.loc)
}

func ProgressOf(quests []Quest) DayProgress {
	p := DayProgress{Total: len(quests)}
	for _, q := range quests {
		if q.Status == QuestCompleted {
			p.Completed++
		}
	}
	p.Percent = percent(p.Completed, p.Total, 0)
	return p
}
