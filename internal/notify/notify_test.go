package notify_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/notify"
	"github.com/ibarry/covoiturage/internal/service"
)

func TestNewReservationEvent(t *testing.T) {
	driver := domain.Driver{
		ID:        uuid.New(),
		FirstName: "Mamadou",
		LastName:  "Barry",
		Email:     "mamadou@example.com",
	}
	trip := domain.Trip{
		ID:          uuid.New(),
		DriverID:    driver.ID,
		Origin:      "Conakry",
		Destination: "Kindia",
		Departure:   time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
	}
	res := domain.Reservation{
		ID:        uuid.New(),
		TripID:    trip.ID,
		Name:      "Fatoumata Diallo",
		Phone:     "+224655000111",
		CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}

	event := notify.NewReservationEvent(driver, trip, res)

	assert.Equal(t, res.ID, event.ReservationID)
	assert.Equal(t, trip.ID, event.TripID)
	assert.Equal(t, "mamadou@example.com", event.DriverEmail)
	assert.Equal(t, "Mamadou Barry", event.DriverName)
	assert.Equal(t, "Fatoumata Diallo", event.RiderName)
	assert.Equal(t, "Conakry", event.Origin)
	assert.Equal(t, res.CreatedAt, event.ReservedAt)
}

func TestLogNotifier_NeverFails(t *testing.T) {
	n := notify.NewLogNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := n.ReservationCreated(context.Background(), domain.Driver{}, domain.Trip{}, domain.Reservation{})

	assert.NoError(t, err)
}

// Both implementations must satisfy the service contract.
var (
	_ service.Notifier = (*notify.AMQPNotifier)(nil)
	_ service.Notifier = (*notify.LogNotifier)(nil)
)
