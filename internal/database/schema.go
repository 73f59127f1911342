package database

import (
	"database/sql"
	"fmt"
)

// Schema is the full database schema. Idempotent: every statement is
// CREATE IF NOT EXISTS, so it runs on every startup. Exported so tests can
// apply it to their own in-memory databases.
const Schema = `
CREATE TABLE IF NOT EXISTS saved_spots (
	id         TEXT PRIMARY KEY,
	user       TEXT NOT NULL,
	name       TEXT NOT NULL,
	place_id   TEXT,
	location   TEXT,
	lat        REAL NOT NULL,
	lng        REAL NOT NULL,
	rating     REAL DEFAULT 0,
	note       TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_saved_spots_user ON saved_spots(user, created_at);
`

// ApplySchema creates any missing tables and indexes
func ApplySchema(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
