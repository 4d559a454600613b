package storage

import (
	"classtable/internal/models"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const dbFile = "classtable.db"

// SQLiteStore implements Backend using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) <dir>/classtable.db and initializes its schema.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

// NewSQLiteStore wraps an already initialized database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save appends a day entry.
// PRE: date is a yyyy-MM-dd label
// POST: Entry is persisted under date
func (s *SQLiteStore) Save(ctx context.Context, slot models.TimeSlot, date string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO day_entry (date_label, uid, start_time, end_time, location, class_name) VALUES (?, ?, ?, ?, ?, ?)",
		date, slot.UID(), formatTime(slot.StartTime()), formatTime(slot.EndTime()), slot.Location(), slot.ClassName(),
	)
	if err != nil {
		return fmt.Errorf("failed to save slot for %s: %w", date, err)
	}
	return nil
}

// Load retrieves the entries for a date in insertion order.
// PRE: date is a yyyy-MM-dd label
// POST: ok is false when the date has no entries at all
func (s *SQLiteStore) Load(ctx context.Context, date string) ([]models.TimeSlot, bool, error) {
	slots, err := s.querySlots(ctx,
		"SELECT uid, start_time, end_time, location, class_name FROM day_entry WHERE date_label = ? ORDER BY seq", date)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", date, err)
	}
	if len(slots) == 0 {
		return nil, false, nil
	}
	return slots, true, nil
}

// UpdateSchedule replaces the stored schedule inside one transaction.
// PRE: none
// POST: schedule_slot holds exactly the given slots, in order
func (s *SQLiteStore) UpdateSchedule(ctx context.Context, slots []models.TimeSlot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM schedule_slot"); err != nil {
		return fmt.Errorf("failed to clear schedule: %w", err)
	}
	for i, slot := range slots {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO schedule_slot (position, uid, start_time, end_time, location, class_name) VALUES (?, ?, ?, ?, ?, ?)",
			i, slot.UID(), formatTime(slot.StartTime()), formatTime(slot.EndTime()), slot.Location(), slot.ClassName(),
		)
		if err != nil {
			return fmt.Errorf("failed to write schedule slot %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// LoadSchedule retrieves the full schedule in insertion order.
func (s *SQLiteStore) LoadSchedule(ctx context.Context) ([]models.TimeSlot, error) {
	slots, err := s.querySlots(ctx,
		"SELECT uid, start_time, end_time, location, class_name FROM schedule_slot ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return slots, nil
}

// LoadOverview retrieves every date label with at least one entry.
func (s *SQLiteStore) LoadOverview(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT date_label FROM day_entry ORDER BY date_label")
	if err != nil {
		return nil, fmt.Errorf("failed to load overview: %w", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) querySlots(ctx context.Context, query string, args ...any) ([]models.TimeSlot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.TimeSlot
	for rows.Next() {
		var uid, start, end, location, className string
		if err := rows.Scan(&uid, &start, &end, &location, &className); err != nil {
			return nil, err
		}
		startTime, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return nil, fmt.Errorf("invalid start_time %q: %w", start, err)
		}
		endTime, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return nil, fmt.Errorf("invalid end_time %q: %w", end, err)
		}
		results = append(results, models.RestoreTimeSlot(uid, startTime, endTime, location, className))
	}
	return results, rows.Err()
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
