package core

import (
	"errors"
	"fmt"
)

// Field names reported by ValidationError.
const (
	FieldTitle     = "title"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldDate      = "date"
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldType      = "type"
)

var (
	// ErrIndexOutOfRange is returned when a position does not address a ledger element.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotFound is returned when an ID does not address a ledger element.
	ErrNotFound = errors.New("transaction not found")
)

// ValidationError names the input field that was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return "invalid " + e.Field
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceReadError wraps a failure to read the persisted ledger. It is
// recoverable: callers fall back to an empty ledger.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("read persisted ledger %q: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IndexError wraps ErrIndexOutOfRange with the offending position.
func IndexError(index, length int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, length)
}
