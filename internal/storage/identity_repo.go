package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"become/internal/engine"
)

type IdentityRepo struct {
	db DBTX
}

func NewIdentityRepo(db DBTX) *IdentityRepo {
	return &IdentityRepo{db: db}
}

func (r *IdentityRepo) Upsert(ctx context.Context, id engine.Identity) error {
	attrs, err := json.Marshal(id.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO identities (id, name, category, description, level, xp, attributes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			description = excluded.description,
			level = excluded.level,
			xp = excluded.xp,
			attributes = excluded.attributes
	`, id.ID, id.Name, id.Category, nullString(id.Description), id.Level, id.XP, string(attrs), id.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("identity upsert: %w", err)
	}
	return nil
}

func (r *IdentityRepo) ListAll(ctx context.Context) ([]engine.Identity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, description, level, xp, attributes, created_at
		FROM identities
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("identity list: %w", err)
	}
	defer rows.Close()

	out := []engine.Identity{}
	for rows.Next() {
		id, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("identity rows: %w", err)
	}
	return out, nil
}

func scanIdentity(row scanner) (*engine.Identity, error) {
	var (
		id          engine.Identity
		description sql.NullString
		attrsRaw    string
		createdAt   time.Time
	)
	if err := row.Scan(&id.ID, &id.Name, &id.Category, &description, &id.Level, &id.XP, &attrsRaw, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("identity scan: %w", err)
	}
	if attrsRaw != "" {
		if err := json.Unmarshal([]byte(attrsRaw), &id.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshal attributes: %w", err)
		}
	}
	id.Description = description.String
	id.CreatedAt = createdAt
	return &id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
