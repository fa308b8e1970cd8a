package engine

import (
	"sort"
	"strings"
)

var (
	victoryWords = []string{"victoire", "victory"}
	thoughtWords = []string{"idée", "idee", "idea"}
)

// ClassifyLog picks a LogType from keywords in content. Victory words win
// over thought words; anything else is a reflection.
func ClassifyLog(content string) LogType {
	lower := strings.ToLower(content)
	for _, w := range victoryWords {
		if strings.Contains(lower, w) {
			return LogVictory
		}
	}
	for _, w := range thoughtWords {
		if strings.Contains(lower, w) {
			return LogThought
		}
	}
	return LogReflection
}

// CreateLog records a journal entry. The type is derived from the content.
func (e *Engine) CreateLog(state Snapshot, content string) (Result, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Result{}, validationf("", "log content is required")
	}

	next := state.Clone()
	l := Log{
		ID:        e.newID(),
		Content:   content,
		Type:      ClassifyLog(content),
		CreatedAt: e.now(),
	}
	next.Logs = append(next.Logs, l)
	return Result{Snapshot: next, CreatedID: l.ID}, nil
}

// RecentLogs returns up to limit entries, newest first. A non-positive
// limit returns all of them.
func RecentLogs(s Snapshot, limit int) []Log {
	out := append([]Log{}, s.Logs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
