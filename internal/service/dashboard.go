package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/repo"
)

// DashboardService assembles the driver follow-up view: upcoming trips
// with their reservations, plus the archived-trip and reservation
// counters.
type DashboardService struct {
	trips        repo.TripRepo
	reservations repo.ReservationRepo
	stats        repo.StatisticRepo
}

// NewDashboardService constructs a DashboardService backed by the provided repos.
func NewDashboardService(trips repo.TripRepo, reservations repo.ReservationRepo, stats repo.StatisticRepo) *DashboardService {
	return &DashboardService{trips: trips, reservations: reservations, stats: stats}
}

// ForDriver builds the dashboard for an authenticated driver. Each active
// trip carries its reservations in booking order and a modifiable flag
// that is true only while the trip has zero reservations.
func (s *DashboardService) ForDriver(ctx context.Context, driver domain.Driver) (domain.Dashboard, error) {
	now := time.Now().UTC()

	active, err := s.trips.ListActiveByDriver(ctx, driver.ID, now)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("service.DashboardService.ForDriver: %w", err)
	}

	details := make([]domain.TripDetail, 0, len(active))
	for _, trip := range active {
		reservations, err := s.reservations.ListByTrip(ctx, trip.ID)
		if err != nil {
			return domain.Dashboard{}, fmt.Errorf("service.DashboardService.ForDriver: %w", err)
		}
		if reservations == nil {
			reservations = []domain.Reservation{}
		}
		details = append(details, domain.TripDetail{
			Trip:          trip,
			Reservations:  reservations,
			ReservedCount: len(reservations),
			Modifiable:    len(reservations) == 0,
		})
	}

	archived, err := s.stats.CountByDriver(ctx, driver.ID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("service.DashboardService.ForDriver: %w", err)
	}
	totalRes, err := s.reservations.CountByDriver(ctx, driver.ID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("service.DashboardService.ForDriver: %w", err)
	}
	statistics, err := s.stats.ListByDriver(ctx, driver.ID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("service.DashboardService.ForDriver: %w", err)
	}
	if statistics == nil {
		statistics = []domain.TripStatistic{}
	}

	return domain.Dashboard{
		Driver:            driver,
		ActiveTrips:       details,
		ActiveCount:       len(details),
		ArchivedCount:     archived,
		TotalReservations: totalRes,
		Statistics:        statistics,
	}, nil
}
