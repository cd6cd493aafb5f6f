package models

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeInternal            = "INTERNAL_ERROR"
)

// ConstraintKind names the storage rule an insert or update broke.
type ConstraintKind string

const (
	// ConstraintUnique is a duplicate value in a unique column.
	ConstraintUnique ConstraintKind = "unique"
	// ConstraintForeignKey is a reference to a row that does not exist.
	ConstraintForeignKey ConstraintKind = "foreign_key"
	// ConstraintRequired is a missing value in a required column.
	ConstraintRequired ConstraintKind = "required"
	// ConstraintLength is a value longer than its column allows.
	ConstraintLength ConstraintKind = "length"
	// ConstraintRestricted is a delete refused because other rows still reference the target.
	ConstraintRestricted ConstraintKind = "restricted"
)

// AppError represents a custom application error
type AppError struct {
	Code       string
	Message    string
	Constraint ConstraintKind
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewConstraintError reports a violated storage constraint. err may be nil when
// the violation was detected before reaching the store.
func NewConstraintError(kind ConstraintKind, message string, err error) *AppError {
	return &AppError{
		Code:       CodeConstraintViolation,
		Message:    message,
		Constraint: kind,
		Err:        err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal error",
		Err:     err,
	}
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound reports whether err is a NOT_FOUND AppError.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsConstraintViolation reports whether err is a CONSTRAINT_VIOLATION AppError.
func IsConstraintViolation(err error) bool { return hasCode(err, CodeConstraintViolation) }

// ConstraintKindOf returns the violated constraint kind, or "" when err is not a constraint violation.
func ConstraintKindOf(err error) ConstraintKind {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == CodeConstraintViolation {
		return appErr.Constraint
	}
	return ""
}
