package storage

import (
	"context"
	"fmt"

	"become/internal/engine"
)

type LogRepo struct {
	db DBTX
}

func NewLogRepo(db DBTX) *LogRepo {
	return &LogRepo{db: db}
}

func (r *LogRepo) Upsert(ctx context.Context, l engine.Log) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO logs (id, content, type, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			type = excluded.type
	`, l.ID, l.Content, string(l.Type), l.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("log upsert: %w", err)
	}
	return nil
}

// ListAll returns entries oldest first, matching the order they were written.
func (r *LogRepo) ListAll(ctx context.Context) ([]engine.Log, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, type, created_at
		FROM logs
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("log list: %w", err)
	}
	defer rows.Close()

	out := []engine.Log{}
	for rows.Next() {
		var (
			l   engine.Log
			typ string
		)
		if err := rows.Scan(&l.ID, &l.Content, &typ, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("log scan: %w", err)
		}
		l.Type = engine.LogType(typ)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("log rows: %w", err)
	}
	return out, nil
}
