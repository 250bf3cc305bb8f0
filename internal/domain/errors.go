package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoaded is returned by store mutations issued before Load succeeded.
	ErrNotLoaded = errors.New("bookmark store not loaded")

	// ErrConfirmationRequired is returned when a delete arrives without the
	// explicit user confirmation.
	ErrConfirmationRequired = errors.New("delete requires confirmation")
)

// CorruptStateError reports persisted data that exists but can't be parsed.
// The store recovers by reseeding defaults; the error is informational.
type CorruptStateError struct {
	Key string
	Err error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt persisted state under %q: %v", e.Key, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

// ValidationError reports a rejected field on add or update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an id absent from the collection.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bookmark not found: %s", e.ID)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsCorruptState reports whether err wraps a *CorruptStateError.
func IsCorruptState(err error) bool {
	var c *CorruptStateError
	return errors.As(err, &c)
}
