package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"become/internal/engine"
)

type QuestRepo struct {
	db DBTX
}

func NewQuestRepo(db DBTX) *QuestRepo {
	return &QuestRepo{db: db}
}

func (r *QuestRepo) Upsert(ctx context.Context, q engine.Quest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quests (
			id, title, description, linked_identity_id,
			xp_reward, status, scheduled_at, created_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			linked_identity_id = excluded.linked_identity_id,
			xp_reward = excluded.xp_reward,
			status = excluded.status,
			scheduled_at = excluded.scheduled_at,
			completed_at = excluded.completed_at
	`, q.ID, q.Title, nullString(q.Description), nullString(q.LinkedIdentityID),
		q.XPReward, string(q.Status), nullTime(q.ScheduledAt), q.CreatedAt.UTC(), nullTime(q.CompletedAt))
	if err != nil {
		return fmt.Errorf("quest upsert: %w", err)
	}
	return nil
}

const questColumns = `id, title, description, linked_identity_id, xp_reward, status, scheduled_at, created_at, completed_at`

func (r *QuestRepo) ListAll(ctx context.Context) ([]engine.Quest, error) {
	return r.list(ctx, `SELECT `+questColumns+` FROM quests ORDER BY created_at ASC, id ASC`)
}

func (r *QuestRepo) ListByStatus(ctx context.Context, status engine.QuestStatus) ([]engine.Quest, error) {
	return r.list(ctx, `SELECT `+questColumns+` FROM quests WHERE status = ? ORDER BY created_at ASC, id ASC`, string(status))
}

func (r *QuestRepo) list(ctx context.Context, query string, args ...any) ([]engine.Quest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("quest list: %w", err)
	}
	defer rows.Close()

	out := []engine.Quest{}
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest rows: %w", err)
	}
	return out, nil
}

func scanQuest(row scanner) (*engine.Quest, error) {
	var (
		q           engine.Quest
		description sql.NullString
		linked      sql.NullString
		status      string
		scheduledAt sql.NullTime
		createdAt   time.Time
		completedAt sql.NullTime
	)
	if err := row.Scan(&q.ID, &q.Title, &description, &linked, &q.XPReward, &status, &scheduledAt, &createdAt, &completedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("quest scan: %w", err)
	}
	q.Description = description.String
	q.LinkedIdentityID = linked.String
	q.Status = engine.QuestStatus(status)
	q.ScheduledAt = timePtr(scheduledAt)
	q.CreatedAt = createdAt
	q.CompletedAt = timePtr(completedAt)
	return &q, nil
}
