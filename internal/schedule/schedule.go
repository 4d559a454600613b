package schedule

import (
	"classtable/internal/models"
	"classtable/internal/storage"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	// InputLayout is the Go layout of "dd/MM/yyyy HHmm" timestamps given to AddClass and DelClass.
	InputLayout  = "2/1/2006 1504"
	inputPattern = "dd/MM/yyyy HHmm"

	hoursInDay = 24
)

// Outcome messages returned to the caller.
const (
	MsgClassAdded     = "New class has been added"
	MsgClash          = "Unable to add class. There is already another class in the same time slot."
	MsgNoClass        = "No class available"
	MsgClassRemoved   = "Class removed"
	MsgClassNotFound  = "Class not found"
	MsgNothingPlanned = "No classes have been scheduled"
	msgLoadError      = "Error with the loaded schedule"
)

// View is the rendering side the Schedule hands month and overview data to.
type View interface {
	MonthHeader(month string, year int)
	Month(daysInMonth int, firstDay time.Weekday)
	BufferLine()
	Message(msg string)
	ErrMessage(msg string)
}

// MonthInfo describes the calendar grid of one month.
type MonthInfo struct {
	Year         int
	Month        time.Month
	Abbr         string
	DaysInMonth  int
	FirstWeekday time.Weekday
}

// Schedule owns the in-memory timetable of one session.
type Schedule struct {
	logger   *slog.Logger
	store    storage.Store
	view     View
	year     int
	location *time.Location

	mu    sync.Mutex
	slots []models.TimeSlot
}

// NewSchedule creates an empty Schedule for the given session year.
// A nil location means time.Local.
func NewSchedule(logger *slog.Logger, store storage.Store, view View, year int, loc *time.Location) *Schedule {
	if loc == nil {
		loc = time.Local
	}
	return &Schedule{
		logger:   logger,
		store:    store,
		view:     view,
		year:     year,
		location: loc,
	}
}

// Restore replaces the in-memory list, typically with the schedule persisted by a previous session.
func (s *Schedule) Restore(slots []models.TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = append([]models.TimeSlot(nil), slots...)
	s.logger.Debug("Restored schedule.", "count", len(slots))
}

// Slots returns a copy of the in-memory list in insertion order.
func (s *Schedule) Slots() []models.TimeSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TimeSlot(nil), s.slots...)
}

// Year returns the session year.
func (s *Schedule) Year() int {
	return s.year
}

// AddClass adds a class unless its start time clashes with an existing slot.
// startTime and endTime use the dd/MM/yyyy HHmm format.
func (s *Schedule) AddClass(ctx context.Context, startTime, endTime, location, className string) (string, error) {
	start, err := s.parseInput(startTime)
	if err != nil {
		return "", err
	}
	end, err := s.parseInput(endTime)
	if err != nil {
		return "", err
	}
	return s.AddSlot(ctx, models.NewTimeSlot(start, end, location, className))
}

// AddSlot adds an already built slot, keeping its UID, under the same clash rule as AddClass.
// On a store failure neither the in-memory list nor the stored schedule changes.
func (s *Schedule) AddSlot(ctx context.Context, slot models.TimeSlot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := slot.StartTime()
	for _, t := range s.slots {
		if clashes(start, t) {
			s.logger.Info("Class clashes with an existing slot.", "class", slot.ClassName(), "start", start, "existing", t.ClassName())
			return MsgClash, nil
		}
	}

	old := s.slots[:len(s.slots):len(s.slots)]
	next := append(old, slot)

	// Day entries are append-only, so the rewritable list is stored first.
	if err := s.store.UpdateSchedule(ctx, next); err != nil {
		return "", fmt.Errorf("failed to update schedule: %w", err)
	}
	if err := s.store.Save(ctx, slot, slot.DateLabel()); err != nil {
		if rerr := s.store.UpdateSchedule(ctx, old); rerr != nil {
			s.logger.Error("Failed to restore schedule after save error.", "error", rerr)
		}
		return "", fmt.Errorf("failed to save class: %w", err)
	}
	s.slots = next

	s.logger.Info("Class added.", "class", slot.ClassName(), "start", start, "end", slot.EndTime(), "location", slot.Location())
	return MsgClassAdded, nil
}

// clashes treats the existing slot as the closed range [t.start, t.end]:
// a new class may not start at, inside or exactly at the end of it.
func clashes(start time.Time, t models.TimeSlot) bool {
	ts, te := t.StartTime(), t.EndTime()
	if start.Equal(ts) || start.Equal(te) {
		return true
	}
	return start.After(ts) && start.Before(te)
}

// DelClass removes the first slot with the given class name and start time.
// The store is not updated; see Sync.
func (s *Schedule) DelClass(ctx context.Context, startTime, className string) (string, error) {
	start, err := s.parseInput(startTime)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.slots) == 0 {
		return MsgNoClass, nil
	}
	for i, t := range s.slots {
		if t.Matches(className, start) {
			s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
			s.logger.Info("Class removed.", "class", className, "start", start)
			return MsgClassRemoved, nil
		}
	}
	return MsgClassNotFound, nil
}

// DelAllClass removes every slot whose start time formats (HHmm) to label,
// then rewrites the stored schedule once.
func (s *Schedule) DelAllClass(ctx context.Context, label string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.TimeSlot, 0, len(s.slots))
	for _, t := range s.slots {
		if t.StartTime().Format("1504") != label {
			kept = append(kept, t)
		}
	}

	if err := s.store.UpdateSchedule(ctx, kept); err != nil {
		return "", fmt.Errorf("failed to update schedule: %w", err)
	}
	s.logger.Info("Cleared classes.", "label", label, "removed", len(s.slots)-len(kept))
	s.slots = kept
	return fmt.Sprintf("All classes on %s are cleared", label), nil
}

// Sync rewrites the stored schedule with the in-memory list.
func (s *Schedule) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.UpdateSchedule(ctx, s.slots); err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return nil
}

// GetDay returns one line per hour from 00:00 to 24:00 of the given day.
// Slots starting exactly on an hour are appended to that hour's line;
// slots starting off the hour do not appear.
func (s *Schedule) GetDay(day, month int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.slots) == 0 {
		s.logger.Debug("No slots loaded for day view.", "day", day, "month", month)
	}

	var sb strings.Builder
	for hour := 0; hour <= hoursInDay; hour++ {
		now := time.Date(s.year, time.Month(month), day, hour, 0, 0, 0, s.location)
		sb.WriteString(now.Format("15:04"))

		first := true
		for _, t := range s.slots {
			if !now.Equal(t.StartTime()) {
				continue
			}
			if !first {
				sb.WriteString(",")
			}
			first = false
			fmt.Fprintf(&sb, " %s from %s to %s at %s",
				t.ClassName(),
				t.StartTime().In(s.location).Format("15:04"),
				t.EndTime().In(s.location).Format("15:04"),
				t.Location(),
			)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// GetMonth computes the calendar grid of a 1-indexed month of the session year
// and hands it to the view.
func (s *Schedule) GetMonth(month int) (MonthInfo, error) {
	if month < 1 || month > 12 {
		return MonthInfo{}, fmt.Errorf("month %d out of range 1-12", month)
	}
	s.logger.Debug("Getting selected month.", "month", month, "year", s.year)

	first := time.Date(s.year, time.Month(month), 1, 0, 0, 0, 0, s.location)
	info := MonthInfo{
		Year:         s.year,
		Month:        first.Month(),
		Abbr:         first.Format("Jan"),
		DaysInMonth:  first.AddDate(0, 1, -1).Day(),
		FirstWeekday: first.Weekday(),
	}

	s.view.MonthHeader(info.Abbr, info.Year)
	s.view.Month(info.DaysInMonth, info.FirstWeekday)
	return info, nil
}

// GetCells loads the entries stored for the given day of the session year.
// An absent date yields a *StorageReadError; an empty one does not.
func (s *Schedule) GetCells(ctx context.Context, day, month int) ([]models.TimeSlot, error) {
	date := s.DateLabel(day, month)
	s.logger.Debug("Populating cells.", "date", date)

	slots, ok, err := s.store.Load(ctx, date)
	if err != nil || !ok {
		readErr := &StorageReadError{Date: date, Err: err}
		s.logger.Error("Failed to load schedule.", "date", date, "error", readErr)
		s.view.ErrMessage(msgLoadError)
		return nil, readErr
	}
	return slots, nil
}

// ListAll renders every date label that has stored entries.
func (s *Schedule) ListAll(ctx context.Context) error {
	s.logger.Debug("Get list of all scheduled dates.")

	dates, err := s.store.LoadOverview(ctx)
	if err != nil {
		return fmt.Errorf("failed to load overview: %w", err)
	}
	if len(dates) == 0 {
		s.view.BufferLine()
		s.view.Message(MsgNothingPlanned)
		return nil
	}
	for _, d := range dates {
		s.view.Message(d)
	}
	return nil
}

// CheckDayMonth reports whether day and month name a possible calendar date.
func CheckDayMonth(day, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d out of range 1-12", month)
	}
	if day < 1 || day > 31 {
		return fmt.Errorf("day %d out of range 1-31", day)
	}
	return nil
}

// DateLabel formats a day and month of the session year as yyyy-MM-dd.
func (s *Schedule) DateLabel(day, month int) string {
	return time.Date(s.year, time.Month(month), day, 0, 0, 0, 0, s.location).Format(models.DateLayout)
}

func (s *Schedule) parseInput(value string) (time.Time, error) {
	t, err := time.ParseInLocation(InputLayout, strings.TrimSpace(value), s.location)
	if err != nil {
		return time.Time{}, &FormatError{Input: value, Layout: inputPattern, Err: err}
	}
	return t, nil
}
