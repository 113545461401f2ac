package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidUpiID    = errors.New("invalid UPI ID")
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("payment not found")
	ErrProvider        = errors.New("payment provider error")
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrAlreadyExists         = errors.New("payment already exists")
	ErrConflictingTransition = errors.New("conflicting payment status transition")
)

// ValidationError names the request field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ProviderError carries the external provider's message back to the caller.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProvider}
	}
	return []error{ErrProvider, e.Err}
}
