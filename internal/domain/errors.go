// Package domain holds the artist booking model: artists, submissions, the
// catalog of categories, languages, fee ranges and locations, and the
// errors adapters translate into HTTP or CLI output.
package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Error classes. Every domain error unwraps to one of these.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError reports a missing entity, e.g. a quote for an artist index
// past the end of the listing.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError returns a *NotFoundError.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError rejects a single value, such as an unknown theme.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError returns a *ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// FieldErrors maps wire field names such as "feeRange" to the message shown
// next to that form field. It is returned when a submission fails more than
// one rule.
type FieldErrors map[string]string

// Error lists the fields in sorted order.
func (e FieldErrors) Error() string {
	var b strings.Builder
	b.WriteString("validation failed: ")

	for i, field := range slices.Sorted(maps.Keys(e)) {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(field + ": " + e[field])
	}

	return b.String()
}

func (e FieldErrors) Unwrap() error { return ErrValidation }

// UnavailableError reports a storage backend that cannot serve the request.
// Service is the health check name, e.g. "storage-remote".
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return e.Service + " unavailable"
	}

	return e.Service + " unavailable: " + e.Reason
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// NewUnavailableError returns an *UnavailableError.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
