package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("recipe not found")
	ErrDuplicateID  = errors.New("duplicate recipe id")
	ErrInvalidShape = errors.New("invalid catalog shape")
	ErrNotLoaded    = errors.New("catalog not loaded")
)

// CorruptionError reports a backing file that could not be parsed. By the
// time it is returned the file has been reset to an empty array, unless
// ResetErr says otherwise.
type CorruptionError struct {
	Path     string
	Err      error
	ResetErr error
}

func (e *CorruptionError) Error() string {
	msg := fmt.Sprintf("catalog %s is corrupt (%v); reset to empty", e.Path, e.Err)
	if e.ResetErr != nil {
		msg = fmt.Sprintf("catalog %s is corrupt (%v); reset failed: %v", e.Path, e.Err, e.ResetErr)
	}
	return msg
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// UnreadableRecordsError reports elements of a well-formed catalog that could
// not be decoded. The other records are loaded, and the unreadable elements
// stay in the file as they were.
type UnreadableRecordsError struct {
	Path     string
	Elements []*ShapeError
}

func (e *UnreadableRecordsError) Error() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.Error()
	}
	return fmt.Sprintf("catalog %s: %d unreadable record(s) left untouched: %s", e.Path, len(e.Elements), strings.Join(parts, "; "))
}

func (e *UnreadableRecordsError) Unwrap() []error {
	errs := make([]error, len(e.Elements))
	for i, el := range e.Elements {
		errs[i] = el
	}
	return errs
}

// ShapeError explains why bulk input was rejected. Index is -1 when the
// top-level value is at fault.
type ShapeError struct {
	Index  int
	Key    string
	Reason string
}

func (e *ShapeError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("%s: %s", ErrInvalidShape, e.Reason)
	case e.Key == "":
		return fmt.Sprintf("%s: element %d: %s", ErrInvalidShape, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: element %d: %q %s", ErrInvalidShape, e.Index, e.Key, e.Reason)
}

func (e *ShapeError) Unwrap() error { return ErrInvalidShape }
