package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/repo"
)

// Notifier delivers best-effort notifications to drivers. Implementations
// must be safe for concurrent use. Errors are logged by the caller and
// never affect the reservation itself.
type Notifier interface {
	ReservationCreated(ctx context.Context, driver domain.Driver, trip domain.Trip, res domain.Reservation) error
}

// ReservationService implements the seat-booking flow: the atomic reserve
// itself plus the fire-and-forget driver notification afterwards.
type ReservationService struct {
	trips        repo.TripRepo
	drivers      repo.DriverRepo
	reservations repo.ReservationRepo
	notifier     Notifier
	log          *slog.Logger
}

// NewReservationService constructs a ReservationService. notifier may be
// nil, in which case no notifications are attempted.
func NewReservationService(
	trips repo.TripRepo,
	drivers repo.DriverRepo,
	reservations repo.ReservationRepo,
	notifier Notifier,
	log *slog.Logger,
) *ReservationService {
	if log == nil {
		log = slog.Default()
	}
	return &ReservationService{
		trips:        trips,
		drivers:      drivers,
		reservations: reservations,
		notifier:     notifier,
		log:          log,
	}
}

// Reserve books one seat on the trip for the given rider.
// The decrement-and-insert is a single atomic operation at the repo layer:
// under concurrent attempts against a trip with K seats left, exactly
// min(attempts, K) succeed — the rest get domain.ErrTripFull.
// Returns domain.ErrValidation for bad rider input and domain.ErrNotFound
// when the trip does not exist.
func (s *ReservationService) Reserve(ctx context.Context, tripID uuid.UUID, res domain.Reservation) (domain.Reservation, error) {
	res.TripID = tripID
	res.Name = strings.TrimSpace(res.Name)
	res.Phone = strings.TrimSpace(res.Phone)
	res.Email = strings.TrimSpace(res.Email)
	if res.Name == "" {
		return domain.Reservation{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if res.Phone == "" {
		return domain.Reservation{}, fmt.Errorf("%w: phone is required", domain.ErrValidation)
	}

	created, err := s.reservations.ReserveSeat(ctx, res)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Reserve: %w", err)
	}

	// Notify the driver off the request path. Failures are logged and
	// swallowed — the seat is already booked and must stay booked.
	if s.notifier != nil {
		go s.notifyDriver(context.WithoutCancel(ctx), created)
	}

	return created, nil
}

// ListByTrip returns a trip's reservations in booking order.
func (s *ReservationService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error) {
	reservations, err := s.reservations.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ReservationService.ListByTrip: %w", err)
	}
	if reservations == nil {
		return []domain.Reservation{}, nil
	}
	return reservations, nil
}

// notifyDriver resolves the trip and its driver and hands the event to the
// notifier. Every failure path only logs: the trip may already be archived,
// the driver may have no address on file, the broker may be down.
func (s *ReservationService) notifyDriver(ctx context.Context, res domain.Reservation) {
	trip, err := s.trips.GetByID(ctx, res.TripID)
	if err != nil {
		s.log.Warn("reservation notification skipped", "reservation_id", res.ID, "error", err)
		return
	}
	driver, err := s.drivers.GetByID(ctx, trip.DriverID)
	if err != nil {
		s.log.Warn("reservation notification skipped", "reservation_id", res.ID, "error", err)
		return
	}
	if driver.Email == "" {
		return
	}
	if err := s.notifier.ReservationCreated(ctx, driver, trip, res); err != nil {
		s.log.Warn("reservation notification failed",
			"reservation_id", res.ID, "trip_id", trip.ID, "error", err)
	}
}
