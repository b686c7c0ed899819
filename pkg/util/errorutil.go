package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors. Code is stable and machine
// readable; HTTPStatus drives the transport mapping.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewInvalidEnumValue rejects a value outside a closed enumeration.
func NewInvalidEnumValue(field, value string) error {
	return NewDomainError("INVALID_ENUM_VALUE", fmt.Sprintf("unknown %s", field), http.StatusBadRequest,
		map[string]any{"field": field, "value": value})
}

func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewInvalidCredentials covers failed authentication attempts.
func NewInvalidCredentials() error {
	return NewDomainError("INVALID_CREDENTIALS", "invalid username or password", http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewTicketLocked rejects creator content edits once a ticket left NEW.
func NewTicketLocked() error {
	return NewDomainError("TICKET_LOCKED", "ticket can no longer be edited by its creator", http.StatusForbidden, nil)
}

// NewSelfRoleChangeForbidden rejects an analyst demoting themselves.
func NewSelfRoleChangeForbidden() error {
	return NewDomainError("SELF_ROLE_CHANGE_FORBIDDEN", "cannot change your own role", http.StatusForbidden, nil)
}

func NewConflict(code, message string, details map[string]any) error {
	return NewDomainError(code, message, http.StatusConflict, details)
}

// NewDuplicateUsername rejects signup with an already-taken username.
func NewDuplicateUsername(username string) error {
	return NewConflict("DUPLICATE_USERNAME", "username already taken", map[string]any{"username": username})
}

// NewInvalidAssignee rejects assignment to a user who is not an analyst.
func NewInvalidAssignee(userID int64) error {
	return NewConflict("INVALID_ASSIGNEE", "assignee must be an analyst", map[string]any{"user_id": userID})
}

// NewStorageUnavailable wraps storage or connectivity failures. The attempted
// mutation is aborted; callers see a generic condition distinct from domain
// errors.
func NewStorageUnavailable(err error) error {
	return &DomainError{
		Code:       "STORAGE_UNAVAILABLE",
		Message:    "storage unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Unrecognized errors
// are treated as storage failures per the error taxonomy.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if de, ok := NewStorageUnavailable(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "STORAGE_UNAVAILABLE",
		Message:    "storage unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
