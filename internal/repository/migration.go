package repository

import (
	"context"
	"fmt"
)

// schema is applied in order on startup. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		full_name     TEXT NOT NULL,
		profile_pic   TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_contacts (
		user_id         UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		contact_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, contact_user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id          UUID PRIMARY KEY,
		sender_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text        TEXT,
		image       TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT messages_has_content CHECK (text IS NOT NULL OR image IS NOT NULL)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages (sender_id, receiver_id, created_at)`,
}

// InitSchema creates the tables backing the Postgres repositories.
func InitSchema(ctx context.Context, db DBTX) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
