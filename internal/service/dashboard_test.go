package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/service"
)

func TestDashboardService_ForDriver(t *testing.T) {
	driver := validDriver()
	booked := validTrip(driver.ID)
	open := validTrip(driver.ID)

	trips := &mockTripRepo{
		listActiveByDriver: func(_ context.Context, driverID uuid.UUID, _ time.Time) ([]domain.Trip, error) {
			assert.Equal(t, driver.ID, driverID)
			return []domain.Trip{booked, open}, nil
		},
	}
	reservations := &mockReservationRepo{
		listByTrip: func(_ context.Context, tripID uuid.UUID) ([]domain.Reservation, error) {
			if tripID == booked.ID {
				return []domain.Reservation{validReservation(tripID)}, nil
			}
			return nil, nil
		},
		countByDriver: func(_ context.Context, _ uuid.UUID) (int64, error) { return 7, nil },
	}
	stats := &mockStatisticRepo{
		countByDriver: func(_ context.Context, _ uuid.UUID) (int64, error) { return 3, nil },
		listByDriver: func(_ context.Context, _ uuid.UUID) ([]domain.TripStatistic, error) {
			return []domain.TripStatistic{{DriverID: driver.ID, Status: domain.StatusWithReservations}}, nil
		},
	}
	svc := service.NewDashboardService(trips, reservations, stats)

	dash, err := svc.ForDriver(context.Background(), driver)

	require.NoError(t, err)
	assert.Equal(t, driver.ID, dash.Driver.ID)
	assert.Equal(t, 2, dash.ActiveCount)
	assert.EqualValues(t, 3, dash.ArchivedCount)
	assert.EqualValues(t, 7, dash.TotalReservations)
	assert.Len(t, dash.Statistics, 1)

	require.Len(t, dash.ActiveTrips, 2)
	withRes, withoutRes := dash.ActiveTrips[0], dash.ActiveTrips[1]
	assert.Equal(t, 1, withRes.ReservedCount)
	assert.False(t, withRes.Modifiable, "a booked trip is locked")
	assert.Equal(t, 0, withoutRes.ReservedCount)
	assert.True(t, withoutRes.Modifiable)
	assert.NotNil(t, withoutRes.Reservations, "empty list, not null, for the JSON payload")
}

func TestDashboardService_ForDriver_NoActivity(t *testing.T) {
	driver := validDriver()

	trips := &mockTripRepo{
		listActiveByDriver: func(_ context.Context, _ uuid.UUID, _ time.Time) ([]domain.Trip, error) {
			return nil, nil
		},
	}
	reservations := &mockReservationRepo{
		countByDriver: func(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil },
	}
	stats := &mockStatisticRepo{
		countByDriver: func(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil },
		listByDriver:  func(_ context.Context, _ uuid.UUID) ([]domain.TripStatistic, error) { return nil, nil },
	}
	svc := service.NewDashboardService(trips, reservations, stats)

	dash, err := svc.ForDriver(context.Background(), driver)

	require.NoError(t, err)
	assert.Zero(t, dash.ActiveCount)
	assert.NotNil(t, dash.ActiveTrips)
	assert.NotNil(t, dash.Statistics)
}
