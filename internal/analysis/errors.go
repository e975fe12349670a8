package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when a caller supplies values the calculator
// cannot work with (negative price, non-finite rate, ...).
var ErrInvalidInput = errors.New("invalid analysis input")

// InputError names the offending field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid analysis input: %s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
