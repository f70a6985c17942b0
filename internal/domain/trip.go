package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle types accepted when publishing a trip.
const (
	VehiclePersonal = "personnel"
	VehicleTaxi     = "taxi"
	VehicleMinibus  = "minibus"
	VehicleBus      = "bus"
)

// ValidVehicleType reports whether s is one of the accepted vehicle types.
func ValidVehicleType(s string) bool {
	switch s {
	case VehiclePersonal, VehicleTaxi, VehicleMinibus, VehicleBus:
		return true
	}
	return false
}

// Trip is a published ride offer. SeatsTotal is captured once at publish
// time and never changes; SeatsAvailable starts equal to it and is
// decremented by the reservation engine only.
// Invariant: 0 <= SeatsAvailable <= SeatsTotal, enforced both by the
// conditional decrement and by a CHECK constraint on the trips table.
type Trip struct {
	ID             uuid.UUID `json:"id"`
	DriverID       uuid.UUID `json:"driver_id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	Departure      time.Time `json:"departure"`
	Price          float64   `json:"price"`
	VehicleType    string    `json:"vehicle_type"`
	Comment        string    `json:"comment,omitempty"`
	SeatsTotal     int       `json:"seats_total"`
	SeatsAvailable int       `json:"seats_available"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
