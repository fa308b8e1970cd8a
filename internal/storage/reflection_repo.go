package storage

import (
	"context"
	"fmt"

	"become/internal/engine"
)

type ReflectionRepo struct {
	db DBTX
}

func NewReflectionRepo(db DBTX) *ReflectionRepo {
	return &ReflectionRepo{db: db}
}

// Upsert keys on quest_id: a quest never has more than one reflection.
func (r *ReflectionRepo) Upsert(ctx context.Context, ref engine.Reflection) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reflections (quest_id, quest_title, resistance, lesson, xp_reward, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(quest_id) DO UPDATE SET
			quest_title = excluded.quest_title,
			resistance = excluded.resistance,
			lesson = excluded.lesson,
			updated_at = excluded.updated_at
	`, ref.QuestID, ref.QuestTitle, ref.Resistance, ref.Lesson, ref.XPReward, ref.CreatedAt.UTC(), ref.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("reflection upsert: %w", err)
	}
	return nil
}

func (r *ReflectionRepo) ListAll(ctx context.Context) ([]engine.Reflection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT quest_id, quest_title, resistance, lesson, xp_reward, created_at, updated_at
		FROM reflections
		ORDER BY created_at DESC, quest_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("reflection list: %w", err)
	}
	defer rows.Close()

	out := []engine.Reflection{}
	for rows.Next() {
		var ref engine.Reflection
		if err := rows.Scan(&ref.QuestID, &ref.QuestTitle, &ref.Resistance, &ref.Lesson, &ref.XPReward, &ref.CreatedAt, &ref.UpdatedAt); err != nil {
			return nil, fmt.Errorf("reflection scan: %w", err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reflection rows: %w", err)
	}
	return out, nil
}
