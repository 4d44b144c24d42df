package database

import (
	"errors"
	"fmt"

	"github.com/nfrund/denote/internal/domain"
)

// StoreError is a backend failure with the context it happened in.
type StoreError struct {
	// The underlying error that was returned by the driver.
	err error

	// Backend name, e.g. "sqlite".
	backend string

	// Operation being performed, e.g. "get".
	op string

	// The statement that was being executed, if any.
	query string
}

// NewStoreError creates a new StoreError for an operation on a backend.
func NewStoreError(err error, backend, op string) *StoreError {
	return &StoreError{err: err, backend: backend, op: op}
}

// WithQuery adds the statement that failed.
func (e *StoreError) WithQuery(query string) *StoreError {
	e.query = query
	return e
}

// Backend returns the name of the failing backend.
func (e *StoreError) Backend() string {
	return e.backend
}

// Op returns the failing operation.
func (e *StoreError) Op() string {
	return e.op
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s store: %s", e.backend, e.op)
	if e.query != "" {
		msg = fmt.Sprintf("%s\nQuery: %s", msg, e.query)
	}
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.err
}

// Is lets errors.Is see the domain sentinels through a StoreError.
func (e *StoreError) Is(target error) bool {
	if target == nil {
		return e == nil
	}
	switch target {
	case domain.ErrNotFound, domain.ErrConflict, domain.ErrUnauthorized:
		return errors.Is(e.err, target)
	}
	return false
}

// wrapError wraps err unless it is nil or a domain sentinel that callers are
// expected to branch on.
func wrapError(err error, backend, op string) error {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return se
	}
	return NewStoreError(err, backend, op)
}
