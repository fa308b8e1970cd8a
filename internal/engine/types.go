package engine

import (
	"strings"
	"time"
)

type QuestStatus string

const (
	QuestPending   QuestStatus = "pending"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
	QuestForged    QuestStatus = "forged"
)

func (s QuestStatus) IsValid() bool {
	switch s {
	case QuestPending, QuestCompleted, QuestFailed, QuestForged:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition may leave s.
func (s QuestStatus) IsTerminal() bool {
	return s == QuestCompleted || s == QuestForged
}

// Categories offered when creating an identity. Free text is accepted too.
var Categories = []string{
	"Professional",
	"Sport & Health",
	"Creative",
	"Leadership",
	"Spiritual",
	"Social",
	"Intellectual",
}

const (
	// DefaultQuestXP is used when a quest is created without an explicit reward.
	DefaultQuestXP = 50

	// WisdomXP is the fixed reward recorded on every reflection.
	WisdomXP = 20

	// MaxAttributes bounds the attribute set of an identity.
	MaxAttributes = 5

	// DefaultResistance is recorded when a forge omits the resistance.
	DefaultResistance = "Other"
)

type Identity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Level       int       `json:"level"`
	XP          int       `json:"xp"`
	Attributes  []string  `json:"attributes"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Quest struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	LinkedIdentityID string      `json:"linkedIdentityId,omitempty"`
	XPReward         int         `json:"xpReward"`
	Status           QuestStatus `json:"status"`
	ScheduledAt      *time.Time  `json:"scheduledTime,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
}

type Reflection struct {
	QuestID    string    `json:"questId"`
	QuestTitle string    `json:"questTitle"`
	Resistance string    `json:"resistance"`
	Lesson     string    `json:"lesson"`
	XPReward   int       `json:"xpReward"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// LogType classifies a journal entry from its wording.
type LogType string

const (
	LogVictory    LogType = "victory"
	LogThought    LogType = "thought"
	LogReflection LogType = "reflection"
)

func (t LogType) IsValid() bool {
	switch t {
	case LogVictory, LogThought, LogReflection:
		return true
	default:
		return false
	}
}

// Log is a free-text daily journal entry.
type Log struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Type      LogType   `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type StreakKind string

const (
	StreakDiscipline StreakKind = "discipline"
	StreakWisdom     StreakKind = "wisdom"
	StreakUsage      StreakKind = "usage"
)

// StreakKinds lists every counter in a stable order.
var StreakKinds = []StreakKind{StreakDiscipline, StreakWisdom, StreakUsage}

func (k StreakKind) IsValid() bool {
	switch k {
	case StreakDiscipline, StreakWisdom, StreakUsage:
		return true
	default:
		return false
	}
}

// Daily reports whether the counter tracks consecutive calendar days.
// Wisdom counts forged quests instead.
func (k StreakKind) Daily() bool {
	return k == StreakDiscipline || k == StreakUsage
}

type Streak struct {
	Count int `json:"count"`
	Best  int `json:"best"`
	// LastDay is the calendar day (YYYY-MM-DD) of the last increment.
	LastDay string `json:"lastDay,omitempty"`
}

type Streaks struct {
	Discipline Streak `json:"discipline"`
	Wisdom     Streak `json:"wisdom"`
	Usage      Streak `json:"usage"`
}

func (s *Streaks) Get(kind StreakKind) Streak {
	switch kind {
	case StreakDiscipline:
		return s.Discipline
	case StreakWisdom:
		return s.Wisdom
	case StreakUsage:
		return s.Usage
	default:
		return Streak{}
	}
}

func (s *Streaks) Set(kind StreakKind, v Streak) {
	switch kind {
	case StreakDiscipline:
		s.Discipline = v
	case StreakWisdom:
		s.Wisdom = v
	case StreakUsage:
		s.Usage = v
	}
}

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

func (t Tier) IsValid() bool {
	switch t {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	default:
		return false
	}
}

type ProgressSource string

const (
	SourceDiscipline      ProgressSource = "discipline"
	SourceWisdom          ProgressSource = "wisdom"
	SourceUsage           ProgressSource = "usage"
	SourceTotalXP         ProgressSource = "total_xp"
	SourceCompletedQuests ProgressSource = "completed_quests"
)

func (p ProgressSource) IsValid() bool {
	switch p {
	case SourceDiscipline, SourceWisdom, SourceUsage, SourceTotalXP, SourceCompletedQuests:
		return true
	default:
		return false
	}
}

type Badge struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Tier        Tier           `json:"tier"`
	Category    string         `json:"category"`
	Threshold   int            `json:"requirementThreshold"`
	Source      ProgressSource `json:"progressSource"`
	Unlocked    bool           `json:"unlocked"`
	UnlockedAt  *time.Time     `json:"unlockedAt,omitempty"`
	Progress    int            `json:"progress"`
}

// Snapshot is the complete progression state exchanged with collaborators.
type Snapshot struct {
	Identities  []Identity   `json:"identities"`
	Quests      []Quest      `json:"quests"`
	Reflections []Reflection `json:"reflections"`
	Streaks     Streaks      `json:"streaks"`
	Badges      []Badge      `json:"badges"`
	Logs        []Log        `json:"logs"`
}

// Clone returns a deep copy so engine operations never alias caller state.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Streaks: s.Streaks}
	if s.Identities != nil {
		out.Identities = make([]Identity, len(s.Identities))
		for i, id := range s.Identities {
			id.Attributes = append([]string(nil), id.Attributes...)
			out.Identities[i] = id
		}
	}
	if s.Quests != nil {
		out.Quests = make([]Quest, len(s.Quests))
		for i, q := range s.Quests {
			q.ScheduledAt = cloneTime(q.ScheduledAt)
			q.CompletedAt = cloneTime(q.CompletedAt)
			out.Quests[i] = q
		}
	}
	if s.Reflections != nil {
		out.Reflections = append([]Reflection(nil), s.Reflections...)
	}
	if s.Logs != nil {
		out.Logs = append([]Log(nil), s.Logs...)
	}
	if s.Badges != nil {
		out.Badges = make([]Badge, len(s.Badges))
		for i, b := range s.Badges {
			b.UnlockedAt = cloneTime(b.UnlockedAt)
			out.Badges[i] = b
		}
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func (s *Snapshot) identityIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Identities {
		if s.Identities[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) questIndex(id string) int {
	for i := range s.Quests {
		if s.Quests[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) reflectionIndex(questID string) int {
	for i := range s.Reflections {
		if s.Reflections[i].QuestID == questID {
			return i
		}
	}
	return -1
}

// FindIdentity returns the identity with the given id, or nil.
func (s *Snapshot) FindIdentity(id string) *Identity {
	if i := s.identityIndex(id); i >= 0 {
		return &s.Identities[i]
	}
	return nil
}

// FindQuest returns the quest with the given id, or nil.
func (s *Snapshot) FindQuest(id string) *Quest {
	if i := s.questIndex(id); i >= 0 {
		return &s.Quests[i]
	}
	return nil
}

// FindReflection returns the reflection recorded for a quest, or nil.
func (s *Snapshot) FindReflection(questID string) *Reflection {
	if i := s.reflectionIndex(questID); i >= 0 {
		return &s.Reflections[i]
	}
	return nil
}

// ResolveQuestID accepts a full quest id or a unique prefix of one.
func (s *Snapshot) ResolveQuestID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", validationf("", "quest id is required")
	}
	if s.questIndex(ref) >= 0 {
		return ref, nil
	}
	match := ""
	for _, q := range s.Quests {
		if strings.HasPrefix(q.ID, ref) {
			if match != "" {
				return "", validationf(ref, "quest id prefix %q is ambiguous", ref)
			}
			match = q.ID
		}
	}
	if match == "" {
		return "", notFoundf(ref, "quest %s not found", ref)
	}
	return match, nil
}

// ResolveIdentityID accepts an identity id, a unique id prefix, or an exact name.
func (s *Snapshot) ResolveIdentityID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if s.identityIndex(ref) >= 0 {
		return ref, nil
	}
	for _, id := range s.Identities {
		if strings.EqualFold(id.Name, ref) {
			return id.ID, nil
		}
	}
	match := ""
	for _, id := range s.Identities {
		if strings.HasPrefix(id.ID, ref) {
			if match != "" {
				return "", validationf(ref, "identity id prefix %q is ambiguous", ref)
			}
			match = id.ID
		}
	}
	if match == "" {
		return "", notFoundf(ref, "identity %s not found", ref)
	}
	return match, nil
}
