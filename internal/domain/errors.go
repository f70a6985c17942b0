package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, non-positive seat count).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an operation is forbidden by the current
// state of the data — deleting or editing a trip that already has
// reservations, or registering a driver with a phone number that is
// already taken. Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrTripFull is returned by the reservation engine when a trip has no
// seats left. This is a legitimate business outcome, not a transient
// failure — callers must not retry. Handlers map it to HTTP 409 with a
// distinct error code so the frontend can show "trip is full".
var ErrTripFull = errors.New("trip full")

// ErrForbidden is returned when a driver attempts to manage a trip they
// do not own. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")
