package engine

import (
	"strings"
	"time"
)

// DayTask is one line of a daily plan: a quest for today, optionally tied to
// an identity by name and scheduled at a wall-clock time.
type DayTask struct {
	IdentityName string `json:"identityName,omitempty" yaml:"identity"`
	Title        string `json:"description" yaml:"title"`
	// Time is "HH:MM" in the engine's location. Empty leaves the quest unscheduled.
	Time     string `json:"time,omitempty" yaml:"time"`
	XPReward int    `json:"xp,omitempty" yaml:"xp"`
}

// OnboardIdentities creates several identities at once. Every input is
// validated before anything is created. Names that already exist
// (case-insensitively) are skipped so the batch can be resubmitted.
func (e *Engine) OnboardIdentities(state Snapshot, ins []CreateIdentityInput) (Result, error) {
	if len(ins) == 0 {
		return Result{}, validationf("", "at least one identity is required")
	}

	existing := map[string]bool{}
	for _, id := range state.Identities {
		existing[strings.ToLower(id.Name)] = true
	}
	batch := map[string]bool{}
	for _, in := range ins {
		key := strings.ToLower(strings.TrimSpace(in.Name))
		if key != "" && batch[key] {
			return Result{}, validationf("", "identity %q appears twice", strings.TrimSpace(in.Name))
		}
		batch[key] = true
	}

	cur := state
	var created []string
	for _, in := range ins {
		if existing[strings.ToLower(strings.TrimSpace(in.Name))] {
			continue
		}
		res, err := e.CreateIdentity(cur, in)
		if err != nil {
			return Result{}, err
		}
		cur = res.Snapshot
		created = append(created, res.CreatedID)
	}
	if created == nil {
		cur = state.Clone()
	}
	return Result{Snapshot: cur, CreatedIDs: created}, nil
}

// PlanDay creates today's quests from a list of tasks. Identity names that
// match nothing produce unlinked quests. A task whose title matches a quest
// already planned for today is skipped.
func (e *Engine) PlanDay(state Snapshot, tasks []DayTask) (Result, error) {
	if len(tasks) == 0 {
		return Result{}, validationf("", "at least one task is required")
	}

	now := e.now()
	planned := map[string]bool{}
	for _, q := range QuestsOn(state, now, e.loc) {
		planned[strings.ToLower(q.Title)] = true
	}

	ins := make([]CreateQuestInput, 0, len(tasks))
	for _, task := range tasks {
		at, err := scheduleOn(now, task.Time, e.loc)
		if err != nil {
			return Result{}, err
		}
		identityID := ""
		if name := strings.TrimSpace(task.IdentityName); name != "" {
			for _, id := range state.Identities {
				if strings.EqualFold(id.Name, name) {
					identityID = id.ID
					break
				}
			}
		}
		ins = append(ins, CreateQuestInput{
			Title:       task.Title,
			IdentityID:  identityID,
			XPReward:    task.XPReward,
			ScheduledAt: at,
		})
	}

	cur := state
	var created []string
	for _, in := range ins {
		key := strings.ToLower(strings.TrimSpace(in.Title))
		if key != "" && planned[key] {
			continue
		}
		res, err := e.CreateQuest(cur, in)
		if err != nil {
			return Result{}, err
		}
		planned[key] = true
		cur = res.Snapshot
		created = append(created, res.CreatedID)
	}
	if created == nil {
		cur = state.Clone()
	}
	return Result{Snapshot: cur, CreatedIDs: created}, nil
}

func scheduleOn(day time.Time, hhmm string, loc *time.Location) (*time.Time, error) {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		return nil, nil
	}
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return nil, validationf("", "invalid time %q, want HH:MM", hhmm)
	}
	d := day.In(loc)
	at := time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	return &at, nil
}
