package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is one seat booked on a trip by a rider. Reservations are
// immutable after creation and are removed only when their trip is
// deleted (cascade). CreatedAt is assigned by the server and orders
// reservations within a trip.
type Reservation struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
