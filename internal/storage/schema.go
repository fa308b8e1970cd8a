package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS identities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			level INTEGER NOT NULL DEFAULT 1,
			xp INTEGER NOT NULL DEFAULT 0,
			attributes TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		// linked_identity_id is deliberately not a foreign key: quests may be orphaned.
		`CREATE TABLE IF NOT EXISTS quests (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			linked_identity_id TEXT,
			xp_reward INTEGER NOT NULL DEFAULT 50,
			status TEXT NOT NULL DEFAULT 'pending',
			scheduled_at DATETIME,
			created_at DATETIME NOT NULL,
			completed_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS reflections (
			quest_id TEXT PRIMARY KEY,
			quest_title TEXT NOT NULL,
			resistance TEXT NOT NULL,
			lesson TEXT NOT NULL,
			xp_reward INTEGER NOT NULL DEFAULT 20,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY(quest_id) REFERENCES quests(id)
		);`,
		`CREATE TABLE IF NOT EXISTS streaks (
			kind TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0,
			best INTEGER NOT NULL DEFAULT 0,
			last_day TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS badges (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			tier TEXT NOT NULL,
			category TEXT NOT NULL,
			threshold INTEGER NOT NULL,
			source TEXT NOT NULL,
			unlocked INTEGER NOT NULL DEFAULT 0,
			unlocked_at DATETIME,
			progress INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS logs (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			type TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_status ON quests(status);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_linked_identity_id ON quests(linked_identity_id);`,
		`CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
