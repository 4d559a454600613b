package schedule

import (
	"errors"
	"fmt"
)

// ErrStorageRead is matched by every *StorageReadError.
var ErrStorageRead = errors.New("unable to read stored schedule")

// FormatError reports a timestamp that does not match the expected pattern.
type FormatError struct {
	Input  string
	Layout string // human-readable pattern, e.g. "dd/MM/yyyy HHmm"
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid date %q, expected format %s", e.Input, e.Layout)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// StorageReadError reports that the store returned no collection for a date.
type StorageReadError struct {
	Date string
	Err  error // underlying I/O error, nil when the date was simply absent
}

func (e *StorageReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load schedule for %s: %v", e.Date, e.Err)
	}
	return fmt.Sprintf("no schedule stored for %s", e.Date)
}

func (e *StorageReadError) Is(target error) bool {
	return target == ErrStorageRead
}

func (e *StorageReadError) Unwrap() error {
	return e.Err
}
