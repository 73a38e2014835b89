package entity

import (
	"errors"
	"fmt"
)

var (
	ErrIncorrectRequestBody = errors.New("incorrect request body")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNoDraft              = errors.New("no uploaded receipt for this bill")
	ErrStaleUpload          = errors.New("upload superseded by a newer file selection")
	ErrFormSubmitted        = errors.New("form already submitted")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrStoreNotConfigured   = errors.New("store not configured")
)

// ValidationError is recovered locally and shown next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TransportError wraps a failed store call. It is never fatal: the user retries.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("store %s: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
