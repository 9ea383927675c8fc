package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the order lifecycle and reservation guard. The
// controllers map these onto HTTP status codes and user-facing
// messages; none of them is fatal to the process.
var (
	// ErrUnavailable means the dog was not available at reservation time.
	ErrUnavailable = errors.New("dog is not available")

	// ErrForbidden means the actor lacks permission for the requested action.
	ErrForbidden = errors.New("actor is not allowed to perform this action")

	// ErrInvalidTransition means the order's current status does not
	// permit the requested transition.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrAlreadyFinalized means the order is in a terminal status
	// (cancelled or completed) and can no longer change.
	ErrAlreadyFinalized = errors.New("order is already finalized")

	// ErrDuplicateActiveOrder means the buyer already holds a pending or
	// confirmed order on this dog.
	ErrDuplicateActiveOrder = errors.New("buyer already has an active order for this dog")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// ValidationError reports a malformed input field. Per-field validation
// problems in lenient operations (tracking updates) are ignored rather
// than aborting the whole operation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
