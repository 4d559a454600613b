package ics

import (
	"classtable/internal/models"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
)

const productID = "-//classtable//EN"

// MsgSkipped is the outcome of an event that does not end after it starts.
const MsgSkipped = "Skipped: event does not end after it starts"

// Entry is a class read from an iCalendar file.
type Entry struct {
	UID       string
	ClassName string
	Location  string
	Start     time.Time
	End       time.Time
}

// Encode writes the slots as a VCALENDAR with one VEVENT per slot.
func Encode(w io.Writer, slots []models.TimeSlot) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	stamp := time.Now().UTC()
	for _, slot := range slots {
		cal.Children = append(cal.Children, toICal(slot, stamp))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// toICal converts a TimeSlot to a VEVENT component. Times are written in UTC.
func toICal(slot models.TimeSlot, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, slot.UID())
	ve.Props.SetText(ical.PropSummary, slot.ClassName())
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ve.Props.SetDateTime(ical.PropDateTimeStart, slot.StartTime().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, slot.EndTime().UTC())

	if slot.Location() != "" {
		ve.Props.SetText(ical.PropLocation, slot.Location())
	}
	return ve
}

// Decode reads every VEVENT of an iCalendar stream. Times are converted to loc.
func Decode(r io.Reader, loc *time.Location) ([]Entry, error) {
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty calendar")
		}
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}

	var entries []Entry
	for _, ev := range cal.Events() {
		start, err := ev.DateTimeStart(loc)
		if err != nil {
			return nil, fmt.Errorf("invalid DTSTART: %w", err)
		}
		end, err := ev.DateTimeEnd(loc)
		if err != nil {
			return nil, fmt.Errorf("invalid DTEND: %w", err)
		}

		summary, _ := ev.Props.Text(ical.PropSummary)
		location, _ := ev.Props.Text(ical.PropLocation)
		var uid string
		if p := ev.Props.Get(ical.PropUID); p != nil {
			uid = p.Value
		}

		entries = append(entries, Entry{
			UID:       uid,
			ClassName: summary,
			Location:  location,
			Start:     start.In(loc),
			End:       end.In(loc),
		})
	}
	return entries, nil
}

// Adder takes decoded slots, e.g. a *schedule.Schedule.
type Adder interface {
	AddSlot(ctx context.Context, slot models.TimeSlot) (string, error)
}

// Outcome is what happened to one imported event.
type Outcome struct {
	Entry   Entry
	Message string
}

// Import decodes r and hands every event to adder in file order, keeping its UID.
// Events without a positive duration are skipped. It stops at the first adder error.
func Import(ctx context.Context, r io.Reader, loc *time.Location, adder Adder) ([]Outcome, error) {
	entries, err := Decode(r, loc)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(entries))
	for _, e := range entries {
		if !e.End.After(e.Start) {
			outcomes = append(outcomes, Outcome{Entry: e, Message: MsgSkipped})
			continue
		}

		var slot models.TimeSlot
		if e.UID != "" {
			slot = models.RestoreTimeSlot(e.UID, e.Start, e.End, e.Location, e.ClassName)
		} else {
			slot = models.NewTimeSlot(e.Start, e.End, e.Location, e.ClassName)
		}

		msg, err := adder.AddSlot(ctx, slot)
		if err != nil {
			return outcomes, fmt.Errorf("failed to import %q: %w", e.ClassName, err)
		}
		outcomes = append(outcomes, Outcome{Entry: e, Message: msg})
	}
	return outcomes, nil
}
