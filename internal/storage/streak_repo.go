package storage

import (
	"context"
	"database/sql"
	"fmt"

	"become/internal/engine"
)

type StreakRepo struct {
	db DBTX
}

func NewStreakRepo(db DBTX) *StreakRepo {
	return &StreakRepo{db: db}
}

func (r *StreakRepo) Load(ctx context.Context) (engine.Streaks, error) {
	var out engine.Streaks
	rows, err := r.db.QueryContext(ctx, `SELECT kind, count, best, last_day FROM streaks`)
	if err != nil {
		return out, fmt.Errorf("streak list: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind    string
			st      engine.Streak
			lastDay sql.NullString
		)
		if err := rows.Scan(&kind, &st.Count, &st.Best, &lastDay); err != nil {
			return out, fmt.Errorf("streak scan: %w", err)
		}
		st.LastDay = lastDay.String
		k := engine.StreakKind(kind)
		if !k.IsValid() {
			continue
		}
		out.Set(k, st)
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("streak rows: %w", err)
	}
	return out, nil
}

func (r *StreakRepo) Save(ctx context.Context, s engine.Streaks) error {
	for _, kind := range engine.StreakKinds {
		st := s.Get(kind)
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO streaks (kind, count, best, last_day) VALUES (?, ?, ?, ?)
			ON CONFLICT(kind) DO UPDATE SET
				count = excluded.count,
				best = excluded.best,
				last_day = excluded.last_day
		`, string(kind), st.Count, st.Best, nullString(st.LastDay))
		if err != nil {
			return fmt.Errorf("streak save %s: %w", kind, err)
		}
	}
	return nil
}
