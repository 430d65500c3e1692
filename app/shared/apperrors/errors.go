// Package apperrors defines the error taxonomy shared by the vote ledger,
// the score recalculator and the stores they read from.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed input. It is raised before any
// store call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a referenced candidate, player or vote that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// NewNotFound builds a NotFoundError.
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// StoreError wraps a read or write failure from one of the stores.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStore wraps err as a StoreError. A nil err yields nil.
func NewStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// RecalculationStep names the stage a recalculation run failed in.
type RecalculationStep string

const (
	StepLoadVotes     RecalculationStep = "load_votes"
	StepLoadPlayers   RecalculationStep = "load_players"
	StepPersistScores RecalculationStep = "persist_scores"
)

// RecalculationError wraps a store failure raised mid-recalculation.
// Players persisted before the failure keep their new totals.
type RecalculationError struct {
	Candidate string
	Step      RecalculationStep
	Persisted int
	Err       error
}

func (e *RecalculationError) Error() string {
	return fmt.Sprintf("recalculation for %q failed at %s (%d players persisted): %v",
		e.Candidate, e.Step, e.Persisted, e.Err)
}

func (e *RecalculationError) Unwrap() error { return e.Err }

// IsValidation reports whether err contains a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err contains a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsStore reports whether err contains a StoreError.
func IsStore(err error) bool {
	var target *StoreError
	return errors.As(err, &target)
}

// Transport-agnostic conditions that modules wrap their own sentinels around.
var (
	ErrConflict           = errors.New("conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrLocked             = errors.New("locked")
)
