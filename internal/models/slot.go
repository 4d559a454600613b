package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout of a date label, the key under which a day's slots are persisted.
const DateLayout = "2006-01-02"

// TimeSlot represents one scheduled class.
// It is never modified after construction; use the accessors to read it.
type TimeSlot struct {
	uid       string    // Persistent identity, also used as the iCalendar UID
	start     time.Time // Start of the class, minute precision
	end       time.Time // End of the class, minute precision
	location  string    // Free-text location
	className string    // Display label, part of the deletion identity
}

// NewTimeSlot creates a TimeSlot with a freshly generated UID.
func NewTimeSlot(start, end time.Time, location, className string) TimeSlot {
	return RestoreTimeSlot(uuid.New().String(), start, end, location, className)
}

// RestoreTimeSlot rebuilds a TimeSlot that was read back from storage.
func RestoreTimeSlot(uid string, start, end time.Time, location, className string) TimeSlot {
	return TimeSlot{
		uid:       uid,
		start:     start,
		end:       end,
		location:  location,
		className: className,
	}
}

func (t TimeSlot) UID() string          { return t.uid }
func (t TimeSlot) StartTime() time.Time { return t.start }
func (t TimeSlot) EndTime() time.Time   { return t.end }
func (t TimeSlot) Location() string     { return t.location }
func (t TimeSlot) ClassName() string    { return t.className }

// DateLabel returns the yyyy-MM-dd label of the slot's start date.
func (t TimeSlot) DateLabel() string {
	return t.start.Format(DateLayout)
}

// Matches reports whether the slot has the given class name and starts at the given time.
// The end time is not part of the identity.
func (t TimeSlot) Matches(className string, start time.Time) bool {
	return t.className == className && t.start.Equal(start)
}
