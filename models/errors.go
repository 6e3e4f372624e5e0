package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the store and services. Handlers map them
// to HTTP statuses in one place.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrBusy              = errors.New("resource busy, retry")
	ErrIntegrity         = errors.New("integrity violation")
	ErrAuth              = errors.New("authentication failed")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrInvalidSponsor    = errors.New("sponsor not found or not active")
	ErrInvalidUpline     = errors.New("upline not found or not active")
	ErrPinNotFound       = errors.New("pin not found or already used")
	ErrUnknownReference  = errors.New("unknown payment reference")
)

// ValidationError rejects bad input naming the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
