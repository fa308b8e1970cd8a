package storage

import (
	"context"
	"database/sql"

	"become/internal/engine"
)

// Store loads and saves whole engine snapshots.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Quests() *QuestRepo { return NewQuestRepo(s.db) }

// Load reads the full snapshot. Badges missing from the table (first run, or a
// catalogue that grew) come back locked from the built-in catalogue.
func (s *Store) Load(ctx context.Context) (engine.Snapshot, error) {
	var snap engine.Snapshot
	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if snap.Identities, err = NewIdentityRepo(tx).ListAll(ctx); err != nil {
			return err
		}
		if snap.Quests, err = NewQuestRepo(tx).ListAll(ctx); err != nil {
			return err
		}
		if snap.Reflections, err = NewReflectionRepo(tx).ListAll(ctx); err != nil {
			return err
		}
		if snap.Logs, err = NewLogRepo(tx).ListAll(ctx); err != nil {
			return err
		}
		if snap.Streaks, err = NewStreakRepo(tx).Load(ctx); err != nil {
			return err
		}
		badges, err := NewBadgeRepo(tx).ListAll(ctx)
		if err != nil {
			return err
		}
		snap.Badges = engine.MergeBadgeCatalogue(badges)
		return nil
	})
	if err != nil {
		return engine.Snapshot{}, err
	}
	return snap, nil
}

// Save upserts every record of snap in one transaction. Rows absent from
// snap are left alone; the engine never deletes.
func (s *Store) Save(ctx context.Context, snap engine.Snapshot) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		identities := NewIdentityRepo(tx)
		for _, id := range snap.Identities {
			if err := identities.Upsert(ctx, id); err != nil {
				return err
			}
		}
		quests := NewQuestRepo(tx)
		for _, q := range snap.Quests {
			if err := quests.Upsert(ctx, q); err != nil {
				return err
			}
		}
		reflections := NewReflectionRepo(tx)
		for _, r := range snap.Reflections {
			if err := reflections.Upsert(ctx, r); err != nil {
				return err
			}
		}
		logs := NewLogRepo(tx)
		for _, l := range snap.Logs {
			if err := logs.Upsert(ctx, l); err != nil {
				return err
			}
		}
		if err := NewStreakRepo(tx).Save(ctx, snap.Streaks); err != nil {
			return err
		}
		badges := NewBadgeRepo(tx)
		for _, b := range snap.Badges {
			if err := badges.Upsert(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
}
