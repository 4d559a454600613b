package storage

import (
	"classtable/internal/models"
	"context"
)

// Store persists the timetable keyed by date label (yyyy-MM-dd).
type Store interface {
	// Save appends a single slot under the given date label.
	Save(ctx context.Context, slot models.TimeSlot, date string) error
	// Load returns every slot stored for a date. ok is false when nothing
	// was ever stored for that date, which is distinct from an empty day.
	Load(ctx context.Context, date string) (slots []models.TimeSlot, ok bool, err error)
	// UpdateSchedule overwrites the full schedule with the given list.
	UpdateSchedule(ctx context.Context, slots []models.TimeSlot) error
	// LoadOverview returns every date label that has at least one entry.
	LoadOverview(ctx context.Context) ([]string, error)
}

// Backend is a Store that can also restore the full schedule at startup.
type Backend interface {
	Store
	LoadSchedule(ctx context.Context) ([]models.TimeSlot, error)
	Close() error
}

// Open returns the backend selected by kind ("file" or "sqlite") rooted at dataDir.
func Open(kind, dataDir string) (Backend, error) {
	switch kind {
	case "sqlite":
		return OpenSQLite(dataDir)
	default:
		return NewFileStore(dataDir), nil
	}
}
