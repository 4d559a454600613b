package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS day_entry (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		date_label TEXT NOT NULL,
		uid TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		class_name TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_day_entry_date ON day_entry(date_label);

	CREATE TABLE IF NOT EXISTS schedule_slot (
		position INTEGER PRIMARY KEY,
		uid TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		class_name TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
