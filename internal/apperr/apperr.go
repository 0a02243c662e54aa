// Package apperr holds the error taxonomy shared by every module and its
// mapping onto HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
)

// NotFoundError reports that a referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a write that collides with existing state.
type ConflictError struct {
	Reason  string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict: " + e.Reason
}

// QuotaExceededError reports that a store reached its plan limit.
type QuotaExceededError struct {
	Limit     int
	StoreName string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("limit of %d products reached for the plan of store %q", e.Limit, e.StoreName)
}

// ValidationError carries field-level messages for inline display.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns e when at least one field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

var (
	// ErrUnauthorized means no valid principal is attached to the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the principal is known but lacks the required role or store.
	ErrForbidden = errors.New("forbidden")
)

func NotFound(resource, id string) error { return &NotFoundError{Resource: resource, ID: id} }

func Conflict(reason, message string) error { return &ConflictError{Reason: reason, Message: message} }

func QuotaExceeded(limit int, storeName string) error {
	return &QuotaExceededError{Limit: limit, StoreName: storeName}
}

// Invalid builds a single-field validation error.
func Invalid(field, msg string) error {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation (23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
