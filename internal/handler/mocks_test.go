package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/handler"
	"github.com/ibarry/covoiturage/internal/service"
)

// Test doubles for the handler-side servicer interfaces.
// Set only the method fields your test needs.

type mockDriverServicer struct {
	register     func(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	authenticate func(ctx context.Context, code string) (domain.Driver, error)
}

func (m *mockDriverServicer) Register(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	return m.register(ctx, d)
}
func (m *mockDriverServicer) Authenticate(ctx context.Context, code string) (domain.Driver, error) {
	return m.authenticate(ctx, code)
}

type mockTripServicer struct {
	publish func(ctx context.Context, driverID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	edit    func(ctx context.Context, driverID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	delete  func(ctx context.Context, driverID, tripID uuid.UUID) error
	search  func(ctx context.Context, origin, destination string, p domain.PaginationParams) (service.SearchResult, error)
}

func (m *mockTripServicer) Publish(ctx context.Context, driverID uuid.UUID, t domain.Trip) (domain.Trip, error) {
	return m.publish(ctx, driverID, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) Edit(ctx context.Context, driverID uuid.UUID, t domain.Trip) (domain.Trip, error) {
	return m.edit(ctx, driverID, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, driverID, tripID uuid.UUID) error {
	return m.delete(ctx, driverID, tripID)
}
func (m *mockTripServicer) Search(ctx context.Context, origin, destination string, p domain.PaginationParams) (service.SearchResult, error) {
	return m.search(ctx, origin, destination, p)
}

type mockReservationServicer struct {
	reserve func(ctx context.Context, tripID uuid.UUID, res domain.Reservation) (domain.Reservation, error)
}

func (m *mockReservationServicer) Reserve(ctx context.Context, tripID uuid.UUID, res domain.Reservation) (domain.Reservation, error) {
	return m.reserve(ctx, tripID, res)
}

type mockDashboardServicer struct {
	forDriver func(ctx context.Context, driver domain.Driver) (domain.Dashboard, error)
}

func (m *mockDashboardServicer) ForDriver(ctx context.Context, d domain.Driver) (domain.Dashboard, error) {
	return m.forDriver(ctx, d)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.DriverServicer      = (*mockDriverServicer)(nil)
	_ handler.TripServicer        = (*mockTripServicer)(nil)
	_ handler.ReservationServicer = (*mockReservationServicer)(nil)
	_ handler.DashboardServicer   = (*mockDashboardServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// serverDeps bundles the four servicers so each test overrides only what it
// exercises. Authenticate defaults to a fixed driver so authenticated routes
// work out of the box.
type serverDeps struct {
	drivers      *mockDriverServicer
	trips        *mockTripServicer
	reservations *mockReservationServicer
	dashboard    *mockDashboardServicer
	driver       domain.Driver
}

func newDeps() *serverDeps {
	d := driverFixture()
	return &serverDeps{
		drivers: &mockDriverServicer{
			authenticate: func(_ context.Context, code string) (domain.Driver, error) {
				if code == d.AccessCode {
					return d, nil
				}
				return domain.Driver{}, domain.ErrNotFound
			},
		},
		trips:        &mockTripServicer{},
		reservations: &mockReservationServicer{},
		dashboard:    &mockDashboardServicer{},
		driver:       d,
	}
}

// newHTTPHandler wires a Server with the given mocks into its chi router,
// mirroring how main.go wires it in production (without the rate limiter).
func newHTTPHandler(deps *serverDeps) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := handler.NewServer(deps.drivers, deps.trips, deps.reservations, deps.dashboard, log)
	return srv.Routes(nil)
}

func driverFixture() domain.Driver {
	return domain.Driver{
		ID:         uuid.New(),
		Phone:      "+224622123456",
		FirstName:  "Mamadou",
		LastName:   "Barry",
		Email:      "mamadou@example.com",
		Experience: 5,
		AccessCode: "A1B2C3D4",
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
}

func tripFixture(driverID uuid.UUID) domain.Trip {
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
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// errorCode extracts the machine-readable code from an error response body.
func errorCode(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp.Error.Code
}
