package main

import (
	"bytes"
	"classtable/internal/schedule"
	"classtable/internal/storage"
	"classtable/internal/view"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestSession(t *testing.T) (*session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := storage.NewFileStore(t.TempDir())
	v := view.NewCLI(&out)
	return &session{
		logger:  logger,
		backend: backend,
		view:    v,
		sched:   schedule.NewSchedule(logger, backend, v, 2019, time.UTC),
		loc:     time.UTC,
	}, &out
}

func runCommand(s *session, args ...string) error {
	app := &cli.App{
		Name:      "classtable",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands: []*cli.Command{
			dayCommand(s),
			cellsCommand(s),
			importCommand(s),
		},
	}
	return app.Run(append([]string{"classtable"}, args...))
}

func TestDayAndCellsRejectImpossibleDates(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "day 40", args: []string{"day", "--day", "40", "--month", "3"}},
		{name: "day 0", args: []string{"day", "--day", "0", "--month", "3"}},
		{name: "month 13", args: []string{"day", "--day", "1", "--month", "13"}},
		{name: "cells day 40", args: []string{"cells", "--day", "40", "--month", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newTestSession(t)
			err := runCommand(s, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "out of range")
			assert.Empty(t, out.String())
		})
	}
}

func TestDayCommand(t *testing.T) {
	s, out := newTestSession(t)
	_, err := s.sched.AddClass(context.Background(), "01/03/2019 0900", "01/03/2019 1000", "Room1", "CS101")
	require.NoError(t, err)

	require.NoError(t, runCommand(s, "day", "--day", "1", "--month", "3"))
	assert.Contains(t, out.String(), "09:00 CS101 from 09:00 to 10:00 at Room1")
}

func TestImportCommand(t *testing.T) {
	s, out := newTestSession(t)
	raw := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:a",
		"DTSTAMP:20190101T000000Z",
		"SUMMARY:CS101",
		"DTSTART:20190301T090000Z",
		"DTEND:20190301T100000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:b",
		"DTSTAMP:20190101T000000Z",
		"SUMMARY:CS102",
		"DTSTART:20190301T090000Z",
		"DTEND:20190301T093000Z",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")
	path := filepath.Join(t.TempDir(), "timetable.ics")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	require.NoError(t, runCommand(s, "import", path))
	assert.Contains(t, out.String(), "CS101: "+schedule.MsgClassAdded)
	assert.Contains(t, out.String(), "CS102: "+schedule.MsgClash)
	require.Len(t, s.sched.Slots(), 1)
	assert.Equal(t, "a", s.sched.Slots()[0].UID())
}
