package services

import (
	"errors"
	"fmt"

	"posts-api/internal/db"
	"posts-api/internal/metrics"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports that no record has the requested id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DuplicateKeyError reports a unique constraint violation.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// StoreError wraps a connectivity or query failure of the store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// storeErr converts db sentinel errors into the service error taxonomy.
// notFound and duplicate may be nil when the operation cannot produce them.
func storeErr(op string, err error, notFound *NotFoundError, duplicate *DuplicateKeyError) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, db.ErrNotFound):
		return notFound
	case duplicate != nil && errors.Is(err, db.ErrDuplicateKey):
		return duplicate
	}
	metrics.StoreErrors.WithLabelValues(op).Inc()
	return &StoreError{Op: op, Err: err}
}
