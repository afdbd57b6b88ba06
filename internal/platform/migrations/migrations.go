// Package migrations applies the database schema on startup. Every statement
// is idempotent, so running Apply against an already-migrated database is a
// no-op.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS rounds (
		id BIGSERIAL PRIMARY KEY,
		round_number BIGINT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		closed_at TIMESTAMPTZ
	)`,

	// At most one active round at a time, enforced by the database so
	// concurrent openers cannot both succeed.
	`CREATE UNIQUE INDEX IF NOT EXISTS rounds_one_active
		ON rounds (is_active) WHERE is_active`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id UUID PRIMARY KEY,
		round_id BIGINT NOT NULL REFERENCES rounds(id),
		personal_id VARCHAR(20) NOT NULL,
		numbers INTEGER[] NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS tickets_round_id_idx ON tickets (round_id)`,

	`CREATE TABLE IF NOT EXISTS draws (
		id BIGSERIAL PRIMARY KEY,
		round_id BIGINT NOT NULL UNIQUE REFERENCES rounds(id),
		numbers INTEGER[] NOT NULL,
		drawn_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		name TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login TIMESTAMPTZ
	)`,
}

// Apply runs every schema statement in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
