// Package errors defines the error taxonomy shared across the pipeline and
// the query surface.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidQuery is returned when a search request fails input validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidDocument is returned when a document fails schema validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrBackendUnavailable is returned when the search backend cannot be reached.
	ErrBackendUnavailable = errors.New("search backend unavailable")
)

// InvalidQueryError represents a query validation failure with context.
type InvalidQueryError struct {
	Field   string
	Message string
}

func (e *InvalidQueryError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid query: field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid query: %s", e.Message)
}

func (e *InvalidQueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// NewInvalidQueryError creates a new InvalidQueryError.
func NewInvalidQueryError(field, message string) *InvalidQueryError {
	return &InvalidQueryError{Field: field, Message: message}
}

// InvalidDocumentError represents a per-document validation failure.
type InvalidDocumentError struct {
	DocumentID string
	Message    string
}

func (e *InvalidDocumentError) Error() string {
	if e.DocumentID != "" {
		return fmt.Sprintf("invalid document '%s': %s", e.DocumentID, e.Message)
	}
	return fmt.Sprintf("invalid document: %s", e.Message)
}

func (e *InvalidDocumentError) Is(target error) bool {
	return target == ErrInvalidDocument
}

// NewInvalidDocumentError creates a new InvalidDocumentError.
func NewInvalidDocumentError(documentID, message string) *InvalidDocumentError {
	return &InvalidDocumentError{DocumentID: documentID, Message: message}
}

// BackendUnavailableError wraps a transport-level failure reaching the backend.
type BackendUnavailableError struct {
	URL   string
	Cause error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("search backend at %s unavailable: %v", e.URL, e.Cause)
}

func (e *BackendUnavailableError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

func (e *BackendUnavailableError) Unwrap() error { return e.Cause }

// NewBackendUnavailableError creates a new BackendUnavailableError.
func NewBackendUnavailableError(url string, cause error) *BackendUnavailableError {
	return &BackendUnavailableError{URL: url, Cause: cause}
}
