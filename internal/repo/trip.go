package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ibarry/covoiturage/internal/domain"
)

// tripColumns is the SELECT list shared by every trip query.
const tripColumns = `id, driver_id, origin, destination, departure, price,
	vehicle_type, comment, seats_total, seats_available, created_at, updated_at`

// TripRepo defines the persistence operations for Trips.
type TripRepo interface {
	// Create inserts a new trip with seats_available = seats_total and
	// returns the persisted record.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record. Seat counts are never touched here.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrConflict when the trip
	// still has reservations and domain.ErrNotFound when it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// SearchPaged returns one page of trips matching the optional origin and
	// destination substring filters, plus the total match count. Ordering is
	// departure DESC, id DESC so pagination stays stable for trips sharing a
	// departure time.
	SearchPaged(ctx context.Context, origin, destination string, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// ListDeparted returns all trips whose departure is strictly before now,
	// ordered by departure then id so the archival sweep is deterministic.
	ListDeparted(ctx context.Context, now time.Time) ([]domain.Trip, error)

	// ListActiveByDriver returns the driver's trips departing at or after now,
	// most imminent departure last (departure DESC).
	ListActiveByDriver(ctx context.Context, driverID uuid.UUID, now time.Time) ([]domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	// seats_available mirrors seats_total exactly once, here.
	const q = `
		INSERT INTO trips (driver_id, origin, destination, departure, price,
		                   vehicle_type, comment, seats_total, seats_available)
		VALUES (@driver_id, @origin, @destination, @departure, @price,
		        @vehicle_type, @comment, @seats, @seats)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"driver_id":    trip.DriverID,
		"origin":       trip.Origin,
		"destination":  trip.Destination,
		"departure":    trip.Departure,
		"price":        trip.Price,
		"vehicle_type": trip.VehicleType,
		"comment":      trip.Comment,
		"seats":        trip.SeatsTotal,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET origin       = @origin,
		    destination  = @destination,
		    departure    = @departure,
		    price        = @price,
		    vehicle_type = @vehicle_type,
		    comment      = @comment,
		    updated_at   = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":           trip.ID,
		"origin":       trip.Origin,
		"destination":  trip.Destination,
		"departure":    trip.Departure,
		"price":        trip.Price,
		"vehicle_type": trip.VehicleType,
		"comment":      trip.Comment,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// The delete is guarded by the reservation check in a single statement
	// so a trip with riders can never be removed through this path.
	const q = `
		DELETE FROM trips
		WHERE id = @id
		  AND NOT EXISTS (SELECT 1 FROM reservations WHERE trip_id = @id)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish "never existed" from "blocked by reservations".
		var exists bool
		const check = `SELECT EXISTS (SELECT 1 FROM trips WHERE id = @id)`
		if err := r.db.QueryRow(ctx, check, pgx.NamedArgs{"id": id}).Scan(&exists); err != nil {
			return fmt.Errorf("repo.TripRepo.Delete: %w", err)
		}
		if exists {
			return fmt.Errorf("repo.TripRepo.Delete: %w: trip has reservations", domain.ErrConflict)
		}
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) SearchPaged(ctx context.Context, origin, destination string, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const where = `
		WHERE (@origin = '' OR origin ILIKE '%' || @origin || '%')
		  AND (@destination = '' OR destination ILIKE '%' || @destination || '%')`

	args := pgx.NamedArgs{
		"origin":      origin,
		"destination": destination,
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.SearchPaged: count: %w", err)
	}

	p = p.Clamp(total)
	args["limit"] = p.Limit
	args["offset"] = p.Offset()

	q := `SELECT ` + tripColumns + ` FROM trips` + where + `
		ORDER BY departure DESC, id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.SearchPaged: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.SearchPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.SearchPaged: rows: %w", err)
	}

	return trips, total, nil
}

func (r *pgTripRepo) ListDeparted(ctx context.Context, now time.Time) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE departure < @now
		ORDER BY departure, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"now": now})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListDeparted: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListDeparted: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListDeparted: rows: %w", err)
	}

	return trips, nil
}

func (r *pgTripRepo) ListActiveByDriver(ctx context.Context, driverID uuid.UUID, now time.Time) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE driver_id = @driver_id AND departure >= @now
		ORDER BY departure DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"driver_id": driverID, "now": now})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListActiveByDriver: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListActiveByDriver: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListActiveByDriver: rows: %w", err)
	}

	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t        domain.Trip
		id       pgtype.UUID
		driverID pgtype.UUID
		price    pgtype.Numeric
	)

	err := s.Scan(&id, &driverID, &t.Origin, &t.Destination, &t.Departure, &price,
		&t.VehicleType, &t.Comment, &t.SeatsTotal, &t.SeatsAvailable,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.DriverID = uuid.UUID(driverID.Bytes)
	if f, err := price.Float64Value(); err == nil && f.Valid {
		t.Price = f.Float64
	}

	return t, nil
}
