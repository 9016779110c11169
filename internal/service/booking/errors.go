package booking

import (
	"errors"

	"clinicbook/internal/store"
)

var (
	// ErrMalformedInterval rejects an appointment whose start and finish
	// are equal, or inverted when inverted intervals are not allowed.
	ErrMalformedInterval = errors.New("malformed interval")

	// ErrInvalidInput covers every other request that fails validation.
	ErrInvalidInput = errors.New("invalid input")

	ErrSchedulingConflict = store.ErrConflict
	ErrNotFound           = store.ErrNotFound
)

type ValidationError struct {
	msg string
	err error
}

func (e *ValidationError) Error() string {
	return e.msg
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

func validationError(msg string) error {
	return &ValidationError{msg: msg, err: ErrInvalidInput}
}

func malformed(msg string) error {
	return &ValidationError{msg: msg, err: ErrMalformedInterval}
}
