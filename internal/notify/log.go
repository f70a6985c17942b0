package notify

import (
	"context"
	"log/slog"

	"github.com/ibarry/covoiturage/internal/domain"
)

// LogNotifier writes the event to the structured log instead of a broker.
// Used when AMQP_URL is not configured, typically in development.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier constructs a LogNotifier. log may be nil.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

// ReservationCreated logs the reservation event and always succeeds.
func (n *LogNotifier) ReservationCreated(_ context.Context, driver domain.Driver, trip domain.Trip, res domain.Reservation) error {
	n.log.Info("reservation created",
		"reservation_id", res.ID,
		"trip_id", trip.ID,
		"driver_email", driver.Email,
		"rider", res.Name,
		"route", trip.Origin+" -> "+trip.Destination,
	)
	return nil
}
