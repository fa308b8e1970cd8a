package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Event is the closed set of user actions the engine accepts.
type Event interface {
	EventType() EventType
	isEvent()
}

type EventType string

const (
	EventCompleteQuest  EventType = "complete_quest"
	EventFailQuest      EventType = "fail_quest"
	EventForgeQuest     EventType = "forge_quest"
	EventCreateIdentity EventType = "create_identity"
	EventCreateQuest    EventType = "create_quest"
	EventRecordVisit    EventType = "record_visit"
	EventCreateLog      EventType = "create_log"
	EventOnboard        EventType = "onboard_identities"
	EventPlanDay        EventType = "plan_day"
)

type CompleteQuestEvent struct {
	QuestID string `json:"questId"`
}

type FailQuestEvent struct {
	QuestID string `json:"questId"`
}

type ForgeQuestEvent struct {
	QuestID    string `json:"questId"`
	Resistance string `json:"resistance"`
	Lesson     string `json:"lesson"`
}

type CreateIdentityEvent struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Attributes  []string `json:"attributes"`
}

type CreateQuestEvent struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IdentityID  string     `json:"identityId,omitempty"`
	XPReward    int        `json:"xpReward,omitempty"`
	ScheduledAt *time.Time `json:"scheduledTime,omitempty"`
}

type RecordVisitEvent struct{}

type CreateLogEvent struct {
	Content string `json:"content"`
}

type OnboardIdentitiesEvent struct {
	Identities []CreateIdentityEvent `json:"identities"`
}

type PlanDayEvent struct {
	Tasks []DayTask `json:"tasks"`
}

func (CompleteQuestEvent) EventType() EventType     { return EventCompleteQuest }
func (FailQuestEvent) EventType() EventType         { return EventFailQuest }
func (ForgeQuestEvent) EventType() EventType        { return EventForgeQuest }
func (CreateIdentityEvent) EventType() EventType    { return EventCreateIdentity }
func (CreateQuestEvent) EventType() EventType       { return EventCreateQuest }
func (RecordVisitEvent) EventType() EventType       { return EventRecordVisit }
func (CreateLogEvent) EventType() EventType         { return EventCreateLog }
func (OnboardIdentitiesEvent) EventType() EventType { return EventOnboard }
func (PlanDayEvent) EventType() EventType           { return EventPlanDay }

func (CompleteQuestEvent) isEvent()     {}
func (FailQuestEvent) isEvent()         {}
func (ForgeQuestEvent) isEvent()        {}
func (CreateIdentityEvent) isEvent()    {}
func (CreateQuestEvent) isEvent()       {}
func (RecordVisitEvent) isEvent()       {}
func (CreateLogEvent) isEvent()         {}
func (OnboardIdentitiesEvent) isEvent() {}
func (PlanDayEvent) isEvent()           {}

// Apply runs one event against state: missed-day resets first, then the
// event, then badge evaluation. Awards from every step are concatenated.
func (e *Engine) Apply(state Snapshot, ev Event) (Result, error) {
	if ev == nil {
		return Result{}, validationf("", "event is required")
	}
	cur := e.Rollover(state).Snapshot

	var (
		res Result
		err error
	)
	switch v := ev.(type) {
	case CompleteQuestEvent:
		res, err = e.CompleteQuest(cur, v.QuestID)
	case FailQuestEvent:
		res, err = e.FailQuest(cur, v.QuestID)
	case ForgeQuestEvent:
		res, err = e.ForgeQuest(cur, v.QuestID, v.Resistance, v.Lesson)
	case CreateIdentityEvent:
		res, err = e.CreateIdentity(cur, CreateIdentityInput(v))
	case CreateQuestEvent:
		res, err = e.CreateQuest(cur, CreateQuestInput(v))
	case RecordVisitEvent:
		res = e.RecordVisit(cur)
	case CreateLogEvent:
		res, err = e.CreateLog(cur, v.Content)
	case OnboardIdentitiesEvent:
		ins := make([]CreateIdentityInput, len(v.Identities))
		for i, in := range v.Identities {
			ins[i] = CreateIdentityInput(in)
		}
		res, err = e.OnboardIdentities(cur, ins)
	case PlanDayEvent:
		res, err = e.PlanDay(cur, v.Tasks)
	default:
		return Result{}, validationf("", "unsupported event %T", ev)
	}
	if err != nil {
		return Result{}, err
	}

	badges := e.EvaluateBadges(res.Snapshot)
	return Result{
		Snapshot:   badges.Snapshot,
		Awards:     append(res.Awards, badges.Awards...),
		CreatedID:  res.CreatedID,
		CreatedIDs: res.CreatedIDs,
	}, nil
}

type eventEnvelope struct {
	Type EventType `json:"type"`
}

// DecodeEvent parses a tagged JSON payload such as
// {"type":"complete_quest","questId":"..."} into an Event. Shape problems are
// reported as validation errors.
func DecodeEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, validationf("", "malformed event: %v", err)
	}

	var (
		ev  Event
		err error
	)
	switch EventType(strings.TrimSpace(string(env.Type))) {
	case EventCompleteQuest:
		var v CompleteQuestEvent
		err = json.Unmarshal(data, &v)
		if err == nil && strings.TrimSpace(v.QuestID) == "" {
			err = fmt.Errorf("questId is required")
		}
		ev = v
	case EventFailQuest:
		var v FailQuestEvent
		err = json.Unmarshal(data, &v)
		if err == nil && strings.TrimSpace(v.QuestID) == "" {
			err = fmt.Errorf("questId is required")
		}
		ev = v
	case EventForgeQuest:
		var v ForgeQuestEvent
		err = json.Unmarshal(data, &v)
		if err == nil && strings.TrimSpace(v.QuestID) == "" {
			err = fmt.Errorf("questId is required")
		}
		ev = v
	case EventCreateIdentity:
		var v CreateIdentityEvent
		err = json.Unmarshal(data, &v)
		ev = v
	case EventCreateQuest:
		var v CreateQuestEvent
		err = json.Unmarshal(data, &v)
		ev = v
	case EventRecordVisit:
		ev = RecordVisitEvent{}
	case EventCreateLog:
		var v CreateLogEvent
		err = json.Unmarshal(data, &v)
		ev = v
	case EventOnboard:
		var v OnboardIdentitiesEvent
		err = json.Unmarshal(data, &v)
		ev = v
	case EventPlanDay:
		var v PlanDayEvent
		err = json.Unmarshal(data, &v)
		ev = v
	case "":
		return nil, validationf("", "event type is required")
	default:
		return nil, validationf("", "unknown event type %q", env.Type)
	}
	if err != nil {
		return nil, validationf("", "malformed %s event: %v", env.Type, err)
	}
	return ev, nil
}
