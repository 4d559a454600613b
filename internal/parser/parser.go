package parser

import (
	"classtable/internal/models"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedCommand is returned when a line cannot be turned into a Request.
var ErrMalformedCommand = errors.New("malformed command")

const locationMarker = "/at"

// Request is a parsed slot-creation request. Start and End use the
// dd/MM/yyyy HHmm format accepted by the schedule.
type Request struct {
	Start     string
	End       string
	Location  string
	ClassName string
}

// ParseAdd parses a table line of the form
//
//	add <HHmm> <HHmm> <class name> /at <location>
//
// for the given yyyy-MM-dd date.
func ParseAdd(input, date string) (Request, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return Request{}, fmt.Errorf("%w: invalid date %q", ErrMalformedCommand, date)
	}

	fields := strings.Fields(input)
	if len(fields) < 5 || fields[0] != "add" {
		return Request{}, fmt.Errorf("%w: %q", ErrMalformedCommand, input)
	}

	start, err := clock(fields[1])
	if err != nil {
		return Request{}, fmt.Errorf("%w: bad start time %q", ErrMalformedCommand, fields[1])
	}
	end, err := clock(fields[2])
	if err != nil {
		return Request{}, fmt.Errorf("%w: bad end time %q", ErrMalformedCommand, fields[2])
	}

	rest := fields[3:]
	at := -1
	for i, f := range rest {
		if f == locationMarker {
			at = i
			break
		}
	}
	if at < 1 || at == len(rest)-1 {
		return Request{}, fmt.Errorf("%w: expected <class> %s <location> in %q", ErrMalformedCommand, locationMarker, input)
	}

	prefix := day.Format("02/01/2006") + " "
	return Request{
		Start:     prefix + start,
		End:       prefix + end,
		ClassName: strings.Join(rest[:at], " "),
		Location:  strings.Join(rest[at+1:], " "),
	}, nil
}

// clock validates an HHmm value and returns it unchanged.
func clock(v string) (string, error) {
	if len(v) != 4 {
		return "", fmt.Errorf("expected HHmm, got %q", v)
	}
	if _, err := time.Parse("1504", v); err != nil {
		return "", err
	}
	return v, nil
}
