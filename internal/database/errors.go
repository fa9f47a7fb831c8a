package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nfrund/student-portal/internal/domain"
)

// DBError represents a database error with additional context.
type DBError struct {
	// The underlying error that was returned by the driver.
	err error

	// The operation that was being performed, e.g. "find student".
	op string
}

// NewDBError creates a new DBError for the given operation.
func NewDBError(err error, op string) *DBError {
	return &DBError{err: err, op: op}
}

// Error returns the error message.
func (e *DBError) Error() string {
	if e.err == nil {
		return e.op
	}
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

// Unwrap returns the underlying error.
func (e *DBError) Unwrap() error {
	return e.err
}

// Op returns the failed operation.
func (e *DBError) Op() string {
	return e.op
}

// wrap translates gorm errors into domain sentinels and adds the operation.
// A nil error stays nil.
func wrap(err error, op string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewDBError(domain.ErrNotFound, op)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return NewDBError(fmt.Errorf("%w: %v", domain.ErrUserAlreadyExists, err), op)
	}
	return NewDBError(err, op)
}
