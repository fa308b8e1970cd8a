package engine

import (
	"sort"
	"time"
)

type IdentityWeek struct {
	IdentityID   string `json:"identityId"`
	IdentityName string `json:"identity"`
	Total        int    `json:"total"`
	Completed    int    `json:"completed"`
	Failed       int    `json:"failed"`
	Forged       int    `json:"forged"`
	XPGained     int    `json:"xpGained"`
}

type WeekSummary struct {
	Start      time.Time      `json:"startDate"`
	End        time.Time      `json:"endDate"`
	Identities []IdentityWeek `json:"quests"`
	Lessons    int            `json:"lessons"`
	TotalXP    int            `json:"totalXP"`
	// SuccessRate is completed/total as a rounded percentage.
	SuccessRate int `json:"successRate"`
	// TransformationRate is forged/failed; 100 when nothing failed.
	TransformationRate int `json:"transformationRate"`
}

// WeeklySummary aggregates quests created in the seven days ending at end.
// Forged quests count as failures that were transformed.
func WeeklySummary(s Snapshot, end time.Time) WeekSummary {
	start := end.AddDate(0, 0, -7)
	sum := WeekSummary{Start: start, End: end, TotalXP: TotalXP(s)}

	names := map[string]string{}
	for _, id := range s.Identities {
		names[id.ID] = id.Name
	}

	byID := map[string]*IdentityWeek{}
	var order []string
	for _, q := range s.Quests {
		if q.CreatedAt.Before(start) || q.CreatedAt.After(end) {
			continue
		}
		w, ok := byID[q.LinkedIdentityID]
		if !ok {
			name := names[q.LinkedIdentityID]
			if name == "" {
				name = "Unlinked"
			}
			w = &IdentityWeek{IdentityID: q.LinkedIdentityID, IdentityName: name}
			byID[q.LinkedIdentityID] = w
			order = append(order, q.LinkedIdentityID)
		}
		w.Total++
		switch q.Status {
		case QuestCompleted:
			w.Completed++
			if names[q.LinkedIdentityID] != "" {
				w.XPGained += q.XPReward
			}
		case QuestFailed:
			w.Failed++
		case QuestForged:
			w.Failed++
			w.Forged++
		}
	}
	for _, r := range s.Reflections {
		if !r.CreatedAt.Before(start) && !r.CreatedAt.After(end) {
			sum.Lessons++
		}
	}

	total, completed, failed, forged := 0, 0, 0, 0
	for _, id := range order {
		w := byID[id]
		sum.Identities = append(sum.Identities, *w)
		total += w.Total
		completed += w.Completed
		failed += w.Failed
		forged += w.Forged
	}
	sum.SuccessRate = percent(completed, total, 0)
	sum.TransformationRate = percent(forged, failed, 100)
	return sum
}

func percent(n, d, whenEmpty int) int {
	if d <= 0 {
		return whenEmpty
	}
	return (n*100 + d/2) / d
}

type AttributeScore struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// AttributeScores sums, per attribute, level*10 + xp/100 over the identities
// carrying it.
func AttributeScores(s Snapshot) []AttributeScore {
	scores := map[string]int{}
	for _, id := range s.Identities {
		for _, a := range id.Attributes {
			scores[a] += LevelForXP(id.XP)*10 + id.XP/XPPerLevel
		}
	}
	out := make([]AttributeScore, 0, len(scores))
	for name, v := range scores {
		out = append(out, AttributeScore{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}
