// Package errors defines error values shared across the portal core.
package errors

import (
	"errors"
	"fmt"
)

// UniqueViolationCode is the relational store's unique-constraint violation
// code surfaced by the storage adapters.
const UniqueViolationCode = "23505"

var (
	// Auth errors
	ErrNoPrincipal     = errors.New("no authenticated principal")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountDisabled = errors.New("account disabled")

	// Storage errors
	ErrNotFound = errors.New("not found")

	// General errors
	ErrInternal = errors.New("internal error")
)

// ConstraintError is returned by storage adapters when the database rejects
// a write. Code carries the store's SQLSTATE-style violation code.
type ConstraintError struct {
	Code       string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("constraint %s (%s): %v", e.Constraint, e.Code, e.Err)
	}
	return fmt.Sprintf("constraint %s (%s)", e.Constraint, e.Code)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// NewUniqueViolation builds a ConstraintError carrying the unique-violation
// code for the named constraint.
func NewUniqueViolation(constraint string, err error) *ConstraintError {
	return &ConstraintError{Code: UniqueViolationCode, Constraint: constraint, Err: err}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
