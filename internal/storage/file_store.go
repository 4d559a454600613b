package storage

import (
	"classtable/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	scheduleFile = "schedule.json"
	daysDir      = "days"
)

// slotRecord is the on-disk representation of a TimeSlot.
type slotRecord struct {
	UID       string    `json:"uid"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  string    `json:"location"`
	ClassName string    `json:"class_name"`
}

// FileStore keeps one JSON file per date under <dir>/days and the full
// schedule in <dir>/schedule.json.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "./data"
	}
	return &FileStore{dir: dir}
}

// Save appends the slot to the file for the given date.
func (s *FileStore) Save(ctx context.Context, slot models.TimeSlot, date string) error {
	path := s.dayPath(date)
	records, err := readRecords(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read day file %s: %w", date, err)
	}
	records = append(records, toRecord(slot))
	if err := writeRecords(path, records); err != nil {
		return fmt.Errorf("failed to save slot for %s: %w", date, err)
	}
	return nil
}

// Load returns the slots stored for a date. A missing file reports ok == false.
func (s *FileStore) Load(ctx context.Context, date string) ([]models.TimeSlot, bool, error) {
	records, err := readRecords(s.dayPath(date))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load day file %s: %w", date, err)
	}
	return fromRecords(records), true, nil
}

// UpdateSchedule rewrites schedule.json with the given list.
func (s *FileStore) UpdateSchedule(ctx context.Context, slots []models.TimeSlot) error {
	records := make([]slotRecord, 0, len(slots))
	for _, slot := range slots {
		records = append(records, toRecord(slot))
	}
	if err := writeRecords(filepath.Join(s.dir, scheduleFile), records); err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return nil
}

// LoadSchedule reads schedule.json. A missing file is an empty schedule.
func (s *FileStore) LoadSchedule(ctx context.Context) ([]models.TimeSlot, error) {
	records, err := readRecords(filepath.Join(s.dir, scheduleFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return fromRecords(records), nil
}

// LoadOverview lists the dates whose day file holds at least one slot, sorted.
func (s *FileStore) LoadOverview(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, daysDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list day files: %w", err)
	}

	dates := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		records, err := readRecords(filepath.Join(s.dir, daysDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read day file %s: %w", name, err)
		}
		if len(records) > 0 {
			dates = append(dates, strings.TrimSuffix(name, ".json"))
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// Close is a no-op; files are not held open between calls.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) dayPath(date string) string {
	return filepath.Join(s.dir, daysDir, date+".json")
}

func readRecords(path string) ([]slotRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []slotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []slotRecord{}
	}
	return records, nil
}

// writeRecords writes atomically via a temp file in the same directory.
func writeRecords(path string, records []slotRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".classtable-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func toRecord(slot models.TimeSlot) slotRecord {
	return slotRecord{
		UID:       slot.UID(),
		StartTime: slot.StartTime(),
		EndTime:   slot.EndTime(),
		Location:  slot.Location(),
		ClassName: slot.ClassName(),
	}
}

func fromRecords(records []slotRecord) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, len(records))
	for _, r := range records {
		slots = append(slots, models.RestoreTimeSlot(r.UID, r.StartTime, r.EndTime, r.Location, r.ClassName))
	}
	return slots
}
