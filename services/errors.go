package services

import (
	"errors"
	"fmt"
	"strings"
)

// Business rule errors. These are returned, never panicked, so the
// handlers can branch on kind without parsing messages.
var (
	// ErrDuplicateEnrollment signals a second enrollment for the same (user, course)
	ErrDuplicateEnrollment = errors.New("student is already enrolled in this course")

	// ErrCapacityExceeded signals the course reached its maximum capacity
	ErrCapacityExceeded = errors.New("course has reached maximum capacity")

	// ErrIncompleteCourse signals a certificate request before 100% completion
	ErrIncompleteCourse = errors.New("course is not yet completed")
)

// ValidationError carries the full list of input violations found before
// any write happened.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from one or more violations
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// NotFoundError signals that a referenced entity does not exist
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// NewNotFoundError builds a NotFoundError for the given entity name
func NewNotFoundError(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

// PersistenceError wraps an underlying store failure during a write.
// The caller sees a generic update failure; the cause stays available
// for logs via Unwrap.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: database update failure", e.Op)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
