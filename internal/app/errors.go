package app

import "errors"

// Error taxonomy. Handlers map these onto HTTP status codes with errors.Is;
// everything else is treated as an internal failure.

// Validation failures: surfaced to the caller, never retried.
var ErrValidation = errors.New("validation error")

// Lookup failures, kept distinct so callers can render "not found".
var (
	ErrEventTypeNotFound = errors.New("event type not found")
	ErrBookingNotFound   = errors.New("booking not found")
)

// State conflicts: user-actionable, includes races lost at the storage layer.
var (
	ErrNotCancellable   = errors.New("only scheduled bookings can be cancelled")
	ErrNotReschedulable = errors.New("only scheduled bookings can be rescheduled")
	ErrSlotUnavailable  = errors.New("new slot is not available")
)

// Infrastructure failures: transient, the whole operation may be retried.
var ErrStoreUnavailable = errors.New("storage unavailable")
