package domain

import (
	"time"

	"github.com/google/uuid"
)

// Statistic statuses. A trip archives as StatusWithReservations when at
// least one seat was reserved before departure.
const (
	StatusWithReservations    = "with_reservations"
	StatusWithoutReservations = "without_reservations"
)

// TripStatistic is the immutable snapshot written by the archival job when
// a departed trip is deleted. It references only the driver — the trip and
// its reservations no longer exist once the snapshot is taken.
type TripStatistic struct {
	ID            uuid.UUID `json:"id"`
	DriverID      uuid.UUID `json:"driver_id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	Departure     time.Time `json:"departure"`
	SeatsTotal    int       `json:"seats_total"`
	SeatsReserved int       `json:"seats_reserved"`
	Status        string    `json:"status"`
	ArchivedAt    time.Time `json:"archived_at"`
}
