package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error for the caller's retry decision
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindInvalidState ErrorKind = "INVALID_STATE"
	KindIntegrity    ErrorKind = "INTEGRITY"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	// Entity and Field identify what the error is about so callers can
	// render a meaningful message
	Entity string `json:"entity,omitempty"`
	Field  string `json:"field,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is allows errors.Is matching against the sentinel errors below
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error for a specific field
func NewValidationError(entity, field, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_" + field,
		Message: message,
		Entity:  entity,
		Field:   field,
	}
}

// NewNotFoundError creates a not-found error for a specific entity
func NewNotFoundError(entity, message string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    "NOT_FOUND",
		Message: message,
		Entity:  entity,
	}
}

// NewInvalidTransitionError creates an error for an illegal state transition
func NewInvalidTransitionError(entity, from, to string) *DomainError {
	return &DomainError{
		Kind:    KindInvalidState,
		Code:    "INVALID_STATE_TRANSITION",
		Message: fmt.Sprintf("cannot transition %s from %s to %s", entity, from, to),
		Entity:  entity,
	}
}

// NewIntegrityError creates an error for detected data corruption
// (e.g. a cycle in the category graph). It must be surfaced, never repaired silently.
func NewIntegrityError(entity, message string) *DomainError {
	return &DomainError{
		Kind:    KindIntegrity,
		Code:    "INTEGRITY_VIOLATION",
		Message: message,
		Entity:  entity,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(KindNotFound, "NOT_FOUND", "Resource not found")
	ErrConcurrencyConflict = NewDomainError(KindConflict, "CONCURRENT_MODIFICATION", "Resource was modified by another process")
)

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Kind == KindNotFound
}
