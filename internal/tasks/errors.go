package tasks

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get, Update and Delete for an id absent
	// from the collection. The collection and storage are left untouched.
	ErrNotFound = errors.New("task not found")
	// ErrCorrupt marks a stored value that could not be loaded.
	ErrCorrupt = errors.New("stored tasks are corrupt")
)

// CorruptError describes a stored value that was dropped on load.
type CorruptError struct {
	Key       string
	BackupKey string  // where the raw value was copied, empty if the copy failed
	Err       error   // decode error, nil when only schema violations were found
	Issues    []error // schema violations in strict mode
}

func (e *CorruptError) Error() string {
	msg := fmt.Sprintf("stored value under %q is corrupt", e.Key)
	switch {
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	case len(e.Issues) == 1:
		msg += ": " + e.Issues[0].Error()
	case len(e.Issues) > 1:
		msg += fmt.Sprintf(": %s (and %d more)", e.Issues[0], len(e.Issues)-1)
	}
	if e.BackupKey != "" {
		msg += fmt.Sprintf(" (raw value kept under %q)", e.BackupKey)
	}
	return msg
}

func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }

func (e *CorruptError) Unwrap() error { return e.Err }

// ValidationError is a schema violation at a path inside the stored value.
type ValidationError struct {
	Path string // e.g. [2].status
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
