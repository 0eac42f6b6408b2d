package errors

import (
	"fmt"
	"time"
)

// NotFoundError reports an unknown booking or slot id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource and id.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports a time-interval overlap with an existing active booking.
type ConflictError struct {
	SlotID    string
	StartTime time.Time
	EndTime   time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot '%s' already booked between %s and %s",
		e.SlotID, e.StartTime.Format(time.RFC3339), e.EndTime.Format(time.RFC3339))
}

// NewConflictError creates a ConflictError for the requested interval.
func NewConflictError(slotID string, start, end time.Time) *ConflictError {
	return &ConflictError{SlotID: slotID, StartTime: start, EndTime: end}
}

// InvalidArgumentError reports a request the engine refuses to act on,
// such as a non-positive duration or an unknown zone.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return e.Reason
}

func NewInvalidArgumentError(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a snapshot load/save failure. The engine recovers by
// staying on its in-memory state, so callers mostly log these.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
