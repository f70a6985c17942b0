package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/repo"
)

// SearchResult is one page of trips plus the pagination envelope returned
// to the search endpoint.
type SearchResult struct {
	Trips      []domain.Trip
	Page       int
	TotalPages int
	Total      int64
}

// TripService implements business logic for publishing and managing trips.
// It holds the reservation repo as well because edit and delete are only
// permitted while a trip has no reservations.
type TripService struct {
	trips        repo.TripRepo
	reservations repo.ReservationRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, reservations repo.ReservationRepo) *TripService {
	return &TripService{trips: trips, reservations: reservations}
}

// Publish validates and persists a new trip for the given driver.
// seats_total and seats_available are both set to the submitted seat count.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Publish(ctx context.Context, driverID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	trip.DriverID = driverID
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Publish: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Edit updates the mutable fields of a trip on behalf of its owning driver.
// Returns domain.ErrForbidden when driverID does not own the trip and
// domain.ErrConflict once any reservation exists — riders booked a seat on
// the trip as published, so it can no longer change under them.
// Seat counts are never modified here.
func (s *TripService) Edit(ctx context.Context, driverID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	existing, err := s.trips.GetByID(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Edit: %w", err)
	}
	if existing.DriverID != driverID {
		return domain.Trip{}, fmt.Errorf("service.TripService.Edit: %w", domain.ErrForbidden)
	}

	reserved, err := s.reservations.CountByTrip(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Edit: %w", err)
	}
	if reserved > 0 {
		return domain.Trip{}, fmt.Errorf("%w: trip has reservations and can no longer be edited", domain.ErrConflict)
	}

	trip.DriverID = existing.DriverID
	trip.SeatsTotal = existing.SeatsTotal
	trip.SeatsAvailable = existing.SeatsAvailable
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Edit: %w", err)
	}
	return updated, nil
}

// Delete removes a trip on behalf of its owning driver.
// Returns domain.ErrForbidden for non-owners and domain.ErrConflict when
// the trip still has reservations.
func (s *TripService) Delete(ctx context.Context, driverID, tripID uuid.UUID) error {
	existing, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if existing.DriverID != driverID {
		return fmt.Errorf("service.TripService.Delete: %w", domain.ErrForbidden)
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Search returns one page of trips matching the optional origin and
// destination substring filters. Out-of-range pages clamp to the first or
// last page instead of failing.
func (s *TripService) Search(ctx context.Context, origin, destination string, p domain.PaginationParams) (SearchResult, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)

	trips, total, err := s.trips.SearchPaged(ctx, origin, destination, p)
	if err != nil {
		return SearchResult{}, fmt.Errorf("service.TripService.Search: %w", err)
	}

	p = p.Clamp(total)
	return SearchResult{
		Trips:      trips,
		Page:       p.Page,
		TotalPages: p.TotalPages(total),
		Total:      total,
	}, nil
}

// validateTrip enforces business rules common to Publish and Edit.
//   - Origin and destination must be non-empty.
//   - Departure must be set.
//   - Seat count must be positive (Publish only sees SeatsTotal).
//   - Price must not be negative.
//   - Vehicle type must be one of the accepted values.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Origin) == "" {
		return fmt.Errorf("%w: origin is required", domain.ErrValidation)
	}
	if strings.TrimSpace(trip.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if trip.Departure.IsZero() {
		return fmt.Errorf("%w: departure is required", domain.ErrValidation)
	}
	if trip.SeatsTotal <= 0 {
		return fmt.Errorf("%w: seat count must be positive", domain.ErrValidation)
	}
	if trip.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if !domain.ValidVehicleType(trip.VehicleType) {
		return fmt.Errorf("%w: unknown vehicle type %q", domain.ErrValidation, trip.VehicleType)
	}
	return nil
}
