package storage

import (
	"context"
	"database/sql"
	"fmt"

	"become/internal/engine"
)

type BadgeRepo struct {
	db DBTX
}

func NewBadgeRepo(db DBTX) *BadgeRepo {
	return &BadgeRepo{db: db}
}

// Upsert stores a badge. The unlocked column only ever moves from 0 to 1,
// even if the caller hands in a stale locked copy.
func (r *BadgeRepo) Upsert(ctx context.Context, b engine.Badge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO badges (id, name, description, tier, category, threshold, source, unlocked, unlocked_at, progress)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			tier = excluded.tier,
			category = excluded.category,
			threshold = excluded.threshold,
			source = excluded.source,
			unlocked = MAX(badges.unlocked, excluded.unlocked),
			unlocked_at = COALESCE(badges.unlocked_at, excluded.unlocked_at),
			progress = excluded.progress
	`, b.ID, b.Name, nullString(b.Description), string(b.Tier), b.Category, b.Threshold, string(b.Source),
		boolToInt(b.Unlocked), nullTime(b.UnlockedAt), b.Progress)
	if err != nil {
		return fmt.Errorf("badge upsert: %w", err)
	}
	return nil
}

func (r *BadgeRepo) ListAll(ctx context.Context) ([]engine.Badge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, tier, category, threshold, source, unlocked, unlocked_at, progress
		FROM badges
	`)
	if err != nil {
		return nil, fmt.Errorf("badge list: %w", err)
	}
	defer rows.Close()

	var out []engine.Badge
	for rows.Next() {
		var (
			b           engine.Badge
			description sql.NullString
			tier        string
			source      string
			unlocked    int
			unlockedAt  sql.NullTime
		)
		if err := rows.Scan(&b.ID, &b.Name, &description, &tier, &b.Category, &b.Threshold, &source, &unlocked, &unlockedAt, &b.Progress); err != nil {
			return nil, fmt.Errorf("badge scan: %w", err)
		}
		b.Description = description.String
		b.Tier = engine.Tier(tier)
		b.Source = engine.ProgressSource(source)
		b.Unlocked = unlocked != 0
		b.UnlockedAt = timePtr(unlockedAt)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("badge rows: %w", err)
	}
	return out, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
