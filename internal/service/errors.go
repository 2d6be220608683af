package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across the facade.
// Callers check for them with errors.Is; the API layer maps them to HTTP
// status codes.
var (
	// ErrReferenceNotFound indicates an operation named an owner, author,
	// place or amenity ID that does not resolve to a stored entity.
	// API layer should map this to HTTP 404 Not Found.
	ErrReferenceNotFound = errors.New("referenced entity not found")

	// ErrBusinessRuleViolation is the parent of the cross-entity rules below.
	// API layer should map this to HTTP 400 Bad Request.
	ErrBusinessRuleViolation = errors.New("business rule violation")

	// ErrSelfReview indicates a user tried to review a place they own.
	ErrSelfReview = fmt.Errorf("%w: you cannot review your own place", ErrBusinessRuleViolation)

	// ErrDuplicateReview indicates a user tried to review the same place twice.
	ErrDuplicateReview = fmt.Errorf("%w: you have already reviewed this place", ErrBusinessRuleViolation)

	// ErrInvalidCredentials indicates the email is unknown or the password does not match.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")
)

// ReferenceError names the field whose ID failed to resolve.
// It matches ErrReferenceNotFound and the store's not-found error.
type ReferenceError struct {
	Field string
	ID    string
	Err   error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrReferenceNotFound, e.Field, e.ID)
}

func (e *ReferenceError) Unwrap() []error {
	return []error{ErrReferenceNotFound, e.Err}
}

func referenceError(field, id string, err error) error {
	return &ReferenceError{Field: field, ID: id, Err: err}
}

// ServiceError wraps an unexpected failure with the facade operation that hit it.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
