package repo_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/repo"
	"github.com/ibarry/covoiturage/testutil"
)

// newTestTx opens a transaction against the test database that is rolled
// back when the test finishes, giving free per-test isolation. Repos built
// over the returned tx share the same uncommitted state.
//
// Requires TEST_DATABASE_URL to be set and all migrations applied (TestMain
// handles the migrations).
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return tx
}

// fixtureSeq makes each driver fixture's phone and access code unique so
// multiple drivers can coexist in one test. The time-based offset keeps
// fixtures from colliding with rows left over from earlier aborted runs.
var (
	fixtureSeq  atomic.Int64
	fixtureBase = time.Now().UnixNano() % 900_000
)

// driverFixture returns a domain.Driver with sensible defaults and a unique
// phone/access code per call.
func driverFixture() domain.Driver {
	n := fixtureBase + fixtureSeq.Add(1)
	return domain.Driver{
		Phone:      fmt.Sprintf("+224622%06d", n%1_000_000),
		FirstName:  "Mamadou",
		LastName:   "Barry",
		Email:      "mamadou@example.com",
		Experience: 5,
		AccessCode: fmt.Sprintf("TC%06d", n%1_000_000),
	}
}

// tripFixture returns a domain.Trip owned by driverID departing tomorrow
// with three seats.
func tripFixture(driverID uuid.UUID) domain.Trip {
	return domain.Trip{
		DriverID:    driverID,
		Origin:      "Conakry",
		Destination: "Kindia",
		Departure:   time.Now().Add(24 * time.Hour).Truncate(time.Second).UTC(),
		Price:       50000,
		VehicleType: domain.VehicleTaxi,
		Comment:     "Départ devant la gare",
		SeatsTotal:  3,
	}
}

// reservationFixture returns a rider reservation for the given trip.
func reservationFixture(tripID uuid.UUID) domain.Reservation {
	return domain.Reservation{
		TripID: tripID,
		Name:   "Fatoumata Diallo",
		Phone:  "+224655000111",
		Email:  "fatou@example.com",
	}
}

// createDriver inserts a fixture driver through the repo and fails the test
// on error.
func createDriver(t *testing.T, r repo.DriverRepo) domain.Driver {
	t.Helper()
	d, err := r.Create(context.Background(), driverFixture())
	require.NoError(t, err, "create fixture driver")
	return d
}

// createTrip inserts a fixture trip owned by a fresh driver and returns both.
func createTrip(t *testing.T, drivers repo.DriverRepo, trips repo.TripRepo) (domain.Driver, domain.Trip) {
	t.Helper()
	d := createDriver(t, drivers)
	trip, err := trips.Create(context.Background(), tripFixture(d.ID))
	require.NoError(t, err, "create fixture trip")
	return d, trip
}
