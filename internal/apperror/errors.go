// Package apperror defines the closed error taxonomy shared by services and
// the HTTP layer. Handlers translate these into the uniform error envelope;
// anything outside the taxonomy is treated as an internal error.
package apperror

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable is returned when the document store connectivity
// precondition fails.
var ErrStoreUnavailable = errors.New("document store unavailable")

// ValidationError reports malformed or missing client input.
type ValidationError struct {
	Msg string
	// ValidStatuses is populated when the offending field is the product
	// status, so clients can render the accepted values.
	ValidStatuses []string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidation creates a ValidationError with the given message.
func NewValidation(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// NewInvalidStatus creates the ValidationError for an unknown status value,
// carrying the accepted set.
func NewInvalidStatus(validStatuses []string) *ValidationError {
	return &ValidationError{Msg: "invalid status", ValidStatuses: validStatuses}
}

// NotFoundError reports a lookup by an unknown identifier.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFound creates a NotFoundError for the given resource and identifier.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// UploadError reports a file rejected before reaching the blob store, for
// example a disallowed content type or an oversize payload.
type UploadError struct {
	Msg string
}

func (e *UploadError) Error() string {
	return e.Msg
}

// NewUpload creates an UploadError with the given message.
func NewUpload(msg string) *UploadError {
	return &UploadError{Msg: msg}
}
