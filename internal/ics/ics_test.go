package ics

import (
	"bytes"
	"classtable/internal/models"
	"classtable/internal/schedule"
	"classtable/internal/storage"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	start := time.Date(2019, time.March, 1, 9, 0, 0, 0, time.UTC)
	slot := models.RestoreTimeSlot("uid-1", start, start.Add(90*time.Minute), "Room1", "CS101")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []models.TimeSlot{slot}))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+productID)
	assert.Contains(t, out, "UID:uid-1")
	assert.Contains(t, out, "SUMMARY:CS101")
	assert.Contains(t, out, "LOCATION:Room1")
	assert.Contains(t, out, "DTSTART:20190301T090000Z")
	assert.Contains(t, out, "DTEND:20190301T103000Z")
}

func TestDecode(t *testing.T) {
	t.Run("exported calendar", func(t *testing.T) {
		start := time.Date(2019, time.March, 1, 9, 0, 0, 0, time.UTC)
		slots := []models.TimeSlot{
			models.NewTimeSlot(start, start.Add(time.Hour), "Room1", "CS101"),
			models.NewTimeSlot(start.Add(2*time.Hour), start.Add(3*time.Hour), "", "CS102"),
		}
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, slots))

		entries, err := Decode(&buf, time.UTC)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, slots[0].UID(), entries[0].UID)
		assert.Equal(t, "CS101", entries[0].ClassName)
		assert.Equal(t, "Room1", entries[0].Location)
		assert.True(t, entries[0].Start.Equal(start))
		assert.True(t, entries[0].End.Equal(start.Add(time.Hour)))
		assert.Empty(t, entries[1].Location)
	})

	t.Run("converts to location", func(t *testing.T) {
		loc := time.FixedZone("UTC+8", 8*60*60)
		raw := strings.Join([]string{
			"BEGIN:VCALENDAR",
			"VERSION:2.0",
			"PRODID:-//test//EN",
			"BEGIN:VEVENT",
			"UID:abc",
			"DTSTAMP:20190101T000000Z",
			"SUMMARY:CS2113",
			"DTSTART:20190301T010000Z",
			"DTEND:20190301T020000Z",
			"END:VEVENT",
			"END:VCALENDAR",
			"",
		}, "\r\n")

		entries, err := Decode(strings.NewReader(raw), loc)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 9, entries[0].Start.Hour())
		assert.Equal(t, loc, entries[0].Start.Location())
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Decode(strings.NewReader(""), time.UTC)
		assert.Error(t, err)
	})
}

func calendar(events ...[]string) string {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//test//EN"}
	for _, ev := range events {
		lines = append(lines, "BEGIN:VEVENT", "DTSTAMP:20190101T000000Z")
		lines = append(lines, ev...)
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newSchedule := func(t *testing.T) (*schedule.Schedule, *storage.FileStore) {
		store := storage.NewFileStore(t.TempDir())
		return schedule.NewSchedule(logger, store, &nopView{}, 2019, time.UTC), store
	}

	t.Run("clashing events", func(t *testing.T) {
		sched, store := newSchedule(t)
		raw := calendar(
			[]string{"UID:first", "SUMMARY:CS101", "LOCATION:Room1", "DTSTART:20190301T090000Z", "DTEND:20190301T100000Z"},
			[]string{"UID:second", "SUMMARY:CS102", "DTSTART:20190301T093000Z", "DTEND:20190301T103000Z"},
		)

		outcomes, err := Import(ctx, strings.NewReader(raw), time.UTC, sched)
		require.NoError(t, err)
		require.Len(t, outcomes, 2)
		assert.Equal(t, schedule.MsgClassAdded, outcomes[0].Message)
		assert.Equal(t, schedule.MsgClash, outcomes[1].Message)

		slots := sched.Slots()
		require.Len(t, slots, 1)
		assert.Equal(t, "first", slots[0].UID())
		assert.Equal(t, "Room1", slots[0].Location())

		day, ok, err := store.Load(ctx, "2019-03-01")
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, day, 1)
		assert.Equal(t, "first", day[0].UID())
	})

	t.Run("event without duration is skipped", func(t *testing.T) {
		sched, _ := newSchedule(t)
		raw := calendar(
			[]string{"UID:point", "SUMMARY:Deadline", "DTSTART:20190301T090000Z"},
			[]string{"UID:class", "SUMMARY:CS101", "DTSTART:20190301T110000Z", "DTEND:20190301T120000Z"},
		)

		outcomes, err := Import(ctx, strings.NewReader(raw), time.UTC, sched)
		require.NoError(t, err)
		require.Len(t, outcomes, 2)
		assert.Equal(t, MsgSkipped, outcomes[0].Message)
		assert.Equal(t, schedule.MsgClassAdded, outcomes[1].Message)
		require.Len(t, sched.Slots(), 1)
		assert.Equal(t, "class", sched.Slots()[0].UID())
	})

	t.Run("export then import keeps identity", func(t *testing.T) {
		start := time.Date(2019, time.March, 4, 10, 0, 0, 0, time.UTC)
		slot := models.NewTimeSlot(start, start.Add(time.Hour), "COM1", "Tutorial")
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, []models.TimeSlot{slot}))

		sched, _ := newSchedule(t)
		_, err := Import(ctx, &buf, time.UTC, sched)
		require.NoError(t, err)
		require.Len(t, sched.Slots(), 1)
		assert.Equal(t, slot.UID(), sched.Slots()[0].UID())
	})

	t.Run("bad calendar", func(t *testing.T) {
		sched, _ := newSchedule(t)
		_, err := Import(ctx, strings.NewReader("BEGIN:VCALENDAR\r\n"), time.UTC, sched)
		assert.Error(t, err)
		assert.Empty(t, sched.Slots())
	})
}

type nopView struct{}

func (nopView) MonthHeader(string, int) {}
func (nopView) Month(int, time.Weekday) {}
func (nopView) BufferLine()             {}
func (nopView) Message(string)          {}
func (nopView) ErrMessage(string)       {}
