package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS academy (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		abbreviation TEXT NOT NULL UNIQUE,
		representative_name TEXT NOT NULL,
		representative_dni TEXT NOT NULL UNIQUE,
		phone TEXT,
		email TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS event (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		registration_deadline TEXT,
		country TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		venue TEXT NOT NULL,
		modality TEXT NOT NULL,
		description TEXT NOT NULL,
		image_path TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_event_date ON event(date);

	CREATE TABLE IF NOT EXISTS enrollment (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		academy_id TEXT NOT NULL,
		athletes TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (event_id) REFERENCES event(id)
	);

	CREATE INDEX IF NOT EXISTS idx_enrollment_event ON enrollment(event_id);
	CREATE INDEX IF NOT EXISTS idx_enrollment_academy ON enrollment(academy_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
