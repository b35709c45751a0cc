package minidb

import (
	"errors"
	"fmt"
)

// Recoverable errors, the tree is left unchanged when these are returned.
var (
	ErrDuplicateKey = fmt.Errorf("duplicate key")
	ErrTableFull    = fmt.Errorf("table full")

	ErrNegativeID    = fmt.Errorf("id must be positive")
	ErrIDTooLarge    = fmt.Errorf("id is too large")
	ErrNameTooLong   = fmt.Errorf("name is too long")
	ErrEmailTooLong  = fmt.Errorf("email is too long")
	ErrInvalidString = fmt.Errorf("string contains invalid characters")
)

// Fatal errors, the session must not continue once one of these is returned.
var (
	ErrCorruptFile       = fmt.Errorf("db file size is not divisible by page size")
	ErrPageOutOfBounds   = fmt.Errorf("page index out of bounds")
	ErrFlushUncachedPage = fmt.Errorf("flushing page that was never loaded")
	ErrPagerClosed       = fmt.Errorf("pager is closed")
)

// ValidationError is returned when a row does not satisfy schema constraints.
type ValidationError struct {
	Err    error
	Detail string
}

func newValidationError(err error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// FatalError marks I/O failures, corruption and capacity violations
// the engine cannot safely continue past.
type FatalError struct {
	Op  string
	Err error
}

func fatal(op string, err error) error {
	var fatalErr *FatalError
	if errors.As(err, &fatalErr) {
		return err
	}
	return &FatalError{Op: op, Err: err}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}

func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
