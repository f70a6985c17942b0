package domain

// TripDetail is one active trip on the driver dashboard together with its
// reservations. Modifiable mirrors the edit/delete rule: a trip can only be
// changed while nobody has booked a seat.
type TripDetail struct {
	Trip          Trip          `json:"trip"`
	Reservations  []Reservation `json:"reservations"`
	ReservedCount int           `json:"reserved_count"`
	Modifiable    bool          `json:"modifiable"`
}

// Dashboard aggregates everything a driver sees on their follow-up page:
// upcoming trips with booking detail, plus lifetime counters.
type Dashboard struct {
	Driver            Driver          `json:"driver"`
	ActiveTrips       []TripDetail    `json:"active_trips"`
	ActiveCount       int             `json:"active_count"`
	ArchivedCount     int64           `json:"archived_count"`
	TotalReservations int64           `json:"total_reservations"`
	Statistics        []TripStatistic `json:"statistics"`
}
