package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/repo"
)

// Hand-written test doubles for the repo interfaces.
// Each method is a function field — set only the ones your test needs.
// This is idiomatic Go: no mock generation library required for simple cases.

type mockDriverRepo struct {
	create    func(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	getByCode func(ctx context.Context, code string) (domain.Driver, error)
}

func (m *mockDriverRepo) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	return m.create(ctx, d)
}
func (m *mockDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	return m.getByID(ctx, id)
}
func (m *mockDriverRepo) GetByCode(ctx context.Context, code string) (domain.Driver, error) {
	return m.getByCode(ctx, code)
}

type mockTripRepo struct {
	create             func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID            func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	update             func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete             func(ctx context.Context, id uuid.UUID) error
	searchPaged        func(ctx context.Context, origin, destination string, p domain.PaginationParams) ([]domain.Trip, int64, error)
	listDeparted       func(ctx context.Context, now time.Time) ([]domain.Trip, error)
	listActiveByDriver func(ctx context.Context, driverID uuid.UUID, now time.Time) ([]domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) SearchPaged(ctx context.Context, origin, destination string, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.searchPaged(ctx, origin, destination, p)
}
func (m *mockTripRepo) ListDeparted(ctx context.Context, now time.Time) ([]domain.Trip, error) {
	return m.listDeparted(ctx, now)
}
func (m *mockTripRepo) ListActiveByDriver(ctx context.Context, driverID uuid.UUID, now time.Time) ([]domain.Trip, error) {
	return m.listActiveByDriver(ctx, driverID, now)
}

type mockReservationRepo struct {
	reserveSeat   func(ctx context.Context, res domain.Reservation) (domain.Reservation, error)
	listByTrip    func(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error)
	countByTrip   func(ctx context.Context, tripID uuid.UUID) (int64, error)
	countByDriver func(ctx context.Context, driverID uuid.UUID) (int64, error)
}

func (m *mockReservationRepo) ReserveSeat(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	return m.reserveSeat(ctx, res)
}
func (m *mockReservationRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockReservationRepo) CountByTrip(ctx context.Context, tripID uuid.UUID) (int64, error) {
	return m.countByTrip(ctx, tripID)
}
func (m *mockReservationRepo) CountByDriver(ctx context.Context, driverID uuid.UUID) (int64, error) {
	return m.countByDriver(ctx, driverID)
}

type mockStatisticRepo struct {
	archive             func(ctx context.Context, tripID uuid.UUID, stat domain.TripStatistic) (domain.TripStatistic, error)
	purgeDepartedBefore func(ctx context.Context, cutoff time.Time) (int64, error)
	listByDriver        func(ctx context.Context, driverID uuid.UUID) ([]domain.TripStatistic, error)
	countByDriver       func(ctx context.Context, driverID uuid.UUID) (int64, error)
}

func (m *mockStatisticRepo) Archive(ctx context.Context, tripID uuid.UUID, stat domain.TripStatistic) (domain.TripStatistic, error) {
	return m.archive(ctx, tripID, stat)
}
func (m *mockStatisticRepo) PurgeDepartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.purgeDepartedBefore(ctx, cutoff)
}
func (m *mockStatisticRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.TripStatistic, error) {
	return m.listByDriver(ctx, driverID)
}
func (m *mockStatisticRepo) CountByDriver(ctx context.Context, driverID uuid.UUID) (int64, error) {
	return m.countByDriver(ctx, driverID)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.DriverRepo      = (*mockDriverRepo)(nil)
	_ repo.TripRepo        = (*mockTripRepo)(nil)
	_ repo.ReservationRepo = (*mockReservationRepo)(nil)
	_ repo.StatisticRepo   = (*mockStatisticRepo)(nil)
)

// ---- shared fixtures -------------------------------------------------------

func validTrip(driverID uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:             uuid.New(),
		DriverID:       driverID,
		Origin:         "Conakry",
		Destination:    "Kindia",
		Departure:      time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
		Price:          50000,
		VehicleType:    domain.VehicleTaxi,
		SeatsTotal:     3,
		SeatsAvailable: 3,
	}
}

func validDriver() domain.Driver {
	return domain.Driver{
		ID:         uuid.New(),
		Phone:      "+224622123456",
		FirstName:  "Mamadou",
		LastName:   "Barry",
		Email:      "mamadou@example.com",
		Experience: 5,
		AccessCode: "A1B2C3D4",
		Active:     true,
	}
}

func validReservation(tripID uuid.UUID) domain.Reservation {
	return domain.Reservation{
		ID:     uuid.New(),
		TripID: tripID,
		Name:   "Fatoumata Diallo",
		Phone:  "+224655000111",
	}
}
