package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables used by the club server. Members and events are stored as
// JSONB because they are always read and written together with their club.
const schema = `
CREATE TABLE IF NOT EXISTS clubs (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	capacity  INTEGER NOT NULL CHECK (capacity >= 0),
	members   JSONB NOT NULL DEFAULT '[]'::jsonb,
	events    JSONB NOT NULL DEFAULT '[]'::jsonb,
	position  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS users (
	id        TEXT PRIMARY KEY,
	username  TEXT NOT NULL UNIQUE,
	role      TEXT NOT NULL DEFAULT 'member',
	pin_hash  TEXT NOT NULL,
	salt      TEXT NOT NULL
);
`

// Migrate creates missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
