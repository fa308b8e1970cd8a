package engine

import (
	"strings"
	"time"
)

type CreateIdentityInput struct {
	Name        string
	Category    string
	Description string
	Attributes  []string
}

type CreateQuestInput struct {
	Title       string
	Description string
	// IdentityID may be empty for an unlinked quest.
	IdentityID  string
	XPReward    int
	ScheduledAt *time.Time
}

func normalizeAttributes(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, validationf("", "at least one attribute is required")
	}
	if len(in) > MaxAttributes {
		return nil, validationf("", "at most %d attributes are allowed, got %d", MaxAttributes, len(in))
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			return nil, validationf("", "attribute names must not be empty")
		}
		key := strings.ToLower(a)
		if seen[key] {
			return nil, validationf("", "duplicate attribute %q", a)
		}
		seen[key] = true
		out = append(out, a)
	}
	return out, nil
}

// CreateIdentity appends a new identity at level 1 with no XP.
func (e *Engine) CreateIdentity(state Snapshot, in CreateIdentityInput) (Result, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Result{}, validationf("", "identity name is required")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return Result{}, validationf("", "identity category is required")
	}
	attrs, err := normalizeAttributes(in.Attributes)
	if err != nil {
		return Result{}, err
	}

	next := state.Clone()
	id := Identity{
		ID:          e.newID(),
		Name:        name,
		Category:    category,
		Description: strings.TrimSpace(in.Description),
		Level:       1,
		XP:          0,
		Attributes:  attrs,
		CreatedAt:   e.now(),
	}
	next.Identities = append(next.Identities, id)
	return Result{Snapshot: next, CreatedID: id.ID}, nil
}

// CreateQuest appends a pending quest. A zero reward falls back to DefaultQuestXP.
func (e *Engine) CreateQuest(state Snapshot, in CreateQuestInput) (Result, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Result{}, validationf("", "quest title is required")
	}
	reward := in.XPReward
	if reward < 0 {
		return Result{}, validationf("", "xp reward must be positive, got %d", reward)
	}
	if reward == 0 {
		reward = DefaultQuestXP
	}
	identityID := strings.TrimSpace(in.IdentityID)
	if identityID != "" && state.identityIndex(identityID) < 0 {
		return Result{}, notFoundf(identityID, "identity %s not found", identityID)
	}

	next := state.Clone()
	q := Quest{
		ID:               e.newID(),
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		LinkedIdentityID: identityID,
		XPReward:         reward,
		Status:           QuestPending,
		ScheduledAt:      cloneTime(in.ScheduledAt),
		CreatedAt:        e.now(),
	}
	next.Quests = append(next.Quests, q)
	return Result{Snapshot: next, CreatedID: q.ID}, nil
}
