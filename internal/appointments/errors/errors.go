package errors

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	ErrInvalidID = errors.New("invalid appointment ID format")

	// ErrDuplicateSlot surfaces the unique (practitioner_id, start_time)
	// index rejecting a second active appointment for the same slot.
	ErrDuplicateSlot = errors.New("slot already taken by an active appointment")

	ErrInvalidTransition = errors.New("invalid status transition")
)
