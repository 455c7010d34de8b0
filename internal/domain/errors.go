package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that carry their own HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUpstream     = errors.New("upstream provider failed")
)

// Block model errors. These are surfaced to the caller as-is and never
// coerced into a default: a silently repaired layout would break the
// column-count invariant.
var (
	ErrInvalidLayout    = errors.New("invalid layout")
	ErrInvalidBlockType = errors.New("invalid block type")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrImmutableField   = errors.New("immutable field")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (article, job)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// IsDocumentError reports whether err came from a rejected block model
// operation (bad layout, block type, index or immutable field).
func IsDocumentError(err error) bool {
	return errors.Is(err, ErrInvalidLayout) ||
		errors.Is(err, ErrInvalidBlockType) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrImmutableField)
}

// InvalidDocumentError lists the structural problems that stop a document
// from being saved or published. It matches ErrValidation.
type InvalidDocumentError struct {
	Issues []string
}

func (e *InvalidDocumentError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid document: " + e.Issues[0]
	}
	return fmt.Sprintf("invalid document: %d issues", len(e.Issues))
}

// StatusCode implements the HTTPError interface
func (e *InvalidDocumentError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

// Is allows errors.Is() to match against ErrValidation
func (e *InvalidDocumentError) Is(target error) bool {
	return target == ErrValidation
}
