package booking

import "errors"

var (
	// ErrValidation rejects malformed booking input before any state is
	// created: missing contact method, bad email shape.
	ErrValidation = errors.New("invalid booking input")

	// ErrSlotUnavailable means the slot is blocked, in the past, or another
	// confirmed appointment got there first. Callers should re-fetch the
	// bookable slots and pick again.
	ErrSlotUnavailable = errors.New("time slot not available")

	// ErrNotAuthenticated means no client identity was established.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound means the referenced slot or appointment does not exist.
	ErrNotFound = errors.New("record not found")
)
