package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"become/internal/engine"
	"become/internal/logger"
	"become/internal/mirror"
	"become/internal/storage"
)

// Service is the single update queue in front of the engine: every write
// loads the snapshot, applies one event and saves, under one lock.
type Service struct {
	store  *storage.Store
	eng    *engine.Engine
	log    *logger.Logger
	mirror mirror.Mirror

	mirrorTimeout time.Duration

	mu       sync.Mutex
	inflight sync.WaitGroup
}

type Option func(*Service)

func WithEngine(e *engine.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.eng = e
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMirror(m mirror.Mirror, timeout time.Duration) Option {
	return func(s *Service) {
		if m != nil {
			s.mirror = m
		}
		if timeout > 0 {
			s.mirrorTimeout = timeout
		}
	}
}

func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		store:         storage.NewStore(db),
		eng:           engine.New(),
		log:           logger.NewNop(),
		mirror:        mirror.Nop{},
		mirrorTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close waits for in-flight mirror publishes and releases the mirror.
func (s *Service) Close() error {
	s.inflight.Wait()
	return s.mirror.Close()
}

// Apply runs ev against the stored snapshot and persists the result.
func (s *Service) Apply(ctx context.Context, ev engine.Event) (engine.Result, error) {
	return s.update(ctx, func(engine.Snapshot) (engine.Event, error) { return ev, nil })
}

// update builds the event from the snapshot it will be applied to, so id
// prefixes and names resolve against the same state that gets saved.
func (s *Service) update(ctx context.Context, build func(engine.Snapshot) (engine.Event, error)) (engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error("load snapshot failed", "error", err)
		return engine.Result{}, fmt.Errorf("load snapshot: %w", err)
	}

	ev, err := build(snap)
	if err != nil {
		s.log.Debug("event rejected", "error", err)
		return engine.Result{}, err
	}

	res, err := s.eng.Apply(snap, ev)
	if err != nil {
		s.log.Debug("event rejected", "event", ev.EventType(), "kind", engine.KindOf(err), "error", err)
		return engine.Result{}, err
	}

	if err := s.store.Save(ctx, res.Snapshot); err != nil {
		s.log.Error("save snapshot failed", "event", ev.EventType(), "error", err)
		return engine.Result{}, fmt.Errorf("save snapshot: %w", err)
	}

	for _, a := range res.Awards {
		s.log.Info("award", "event", ev.EventType(), "kind", a.Kind, "detail", a.String())
	}
	s.publish(res.Snapshot)
	return res, nil
}

func (s *Service) publish(snap engine.Snapshot) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.mirrorTimeout)
		defer cancel()
		if err := s.mirror.Publish(ctx, snap); err != nil {
			s.log.Warn("mirror publish failed", "error", err)
		}
	}()
}

func (s *Service) CompleteQuest(ctx context.Context, questRef string) (engine.Result, error) {
	return s.update(ctx, func(snap engine.Snapshot) (engine.Event, error) {
		id, err := snap.ResolveQuestID(questRef)
		if err != nil {
			return nil, err
		}
		return engine.CompleteQuestEvent{QuestID: id}, nil
	})
}

func (s *Service) FailQuest(ctx context.Context, questRef string) (engine.Result, error) {
	return s.update(ctx, func(snap engine.Snapshot) (engine.Event, error) {
		id, err := snap.ResolveQuestID(questRef)
		if err != nil {
			return nil, err
		}
		return engine.FailQuestEvent{QuestID: id}, nil
	})
}

func (s *Service) ForgeQuest(ctx context.Context, questRef, resistance, lesson string) (engine.Result, error) {
	return s.update(ctx, func(snap engine.Snapshot) (engine.Event, error) {
		id, err := snap.ResolveQuestID(questRef)
		if err != nil {
			return nil, err
		}
		return engine.ForgeQuestEvent{QuestID: id, Resistance: resistance, Lesson: lesson}, nil
	})
}

func (s *Service) CreateIdentity(ctx context.Context, in engine.CreateIdentityInput) (engine.Result, error) {
	return s.Apply(ctx, engine.CreateIdentityEvent(in))
}

// CreateQuest accepts an identity id, id prefix or name in in.IdentityID.
func (s *Service) CreateQuest(ctx context.Context, in engine.CreateQuestInput) (engine.Result, error) {
	return s.update(ctx, func(snap engine.Snapshot) (engine.Event, error) {
		id, err := snap.ResolveIdentityID(in.IdentityID)
		if err != nil {
			return nil, err
		}
		in.IdentityID = id
		return engine.CreateQuestEvent(in), nil
	})
}

func (s *Service) RecordVisit(ctx context.Context) (engine.Result, error) {
	return s.Apply(ctx, engine.RecordVisitEvent{})
}

func (s *Service) CreateLog(ctx context.Context, content string) (engine.Result, error) {
	return s.Apply(ctx, engine.CreateLogEvent{Content: content})
}

// OnboardIdentities creates a batch of identities in one update.
func (s *Service) OnboardIdentities(ctx context.Context, ins []engine.CreateIdentityInput) (engine.Result, error) {
	evs := make([]engine.CreateIdentityEvent, len(ins))
	for i, in := range ins {
		evs[i] = engine.CreateIdentityEvent(in)
	}
	return s.Apply(ctx, engine.OnboardIdentitiesEvent{Identities: evs})
}

// PlanDay creates today's quests in one update.
func (s *Service) PlanDay(ctx context.Context, tasks []engine.DayTask) (engine.Result, error) {
	return s.Apply(ctx, engine.PlanDayEvent{Tasks: tasks})
}

// Snapshot returns the current state with missed-day resets and badge
// progress applied. Nothing is saved.
func (s *Service) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	snap = s.eng.Rollover(snap).Snapshot
	return s.eng.EvaluateBadges(snap).Snapshot, nil
}

func (s *Service) Badges(ctx context.Context) ([]engine.Badge, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Badges, nil
}

// QuestsByStatus reads quests straight from storage; statuses are not
// affected by rollover.
func (s *Service) QuestsByStatus(ctx context.Context, status engine.QuestStatus) ([]engine.Quest, error) {
	if !status.IsValid() {
		return nil, &engine.Error{Kind: engine.KindValidation, Reason: fmt.Sprintf("unknown quest status %q", status)}
	}
	quests, err := s.store.Quests().ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	return quests, nil
}

// Today returns the quests planned for the current day and how many are done.
func (s *Service) Today(ctx context.Context) ([]engine.Quest, engine.DayProgress, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, engine.DayProgress{}, err
	}
	quests := s.eng.Today(snap)
	return quests, engine.ProgressOf(quests), nil
}

// Logs returns up to limit journal entries, newest first.
func (s *Service) Logs(ctx context.Context, limit int) ([]engine.Log, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return engine.RecentLogs(snap, limit), nil
}

func (s *Service) WeeklySummary(ctx context.Context) (engine.WeekSummary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return engine.WeekSummary{}, err
	}
	return engine.WeeklySummary(snap, s.eng.Now()), nil
}
