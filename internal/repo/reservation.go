package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ibarry/covoiturage/internal/domain"
)

// ReservationRepo defines the persistence operations for Reservations,
// including the seat-decrement transaction that is the concurrency-critical
// core of the whole application.
type ReservationRepo interface {
	// ReserveSeat atomically decrements the trip's seats_available and
	// inserts the reservation row, both inside one transaction. The
	// decrement is conditional on seats_available > 0 at the stored row,
	// never on a value read earlier, so two racing calls against a trip
	// with one seat left can never both succeed.
	// Returns domain.ErrNotFound when the trip does not exist and
	// domain.ErrTripFull when no seats remain.
	ReserveSeat(ctx context.Context, res domain.Reservation) (domain.Reservation, error)

	// ListByTrip returns a trip's reservations ordered by creation time.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error)

	// CountByTrip returns the number of reservations on a trip.
	CountByTrip(ctx context.Context, tripID uuid.UUID) (int64, error)

	// CountByDriver returns the number of reservations across all of the
	// driver's live trips.
	CountByDriver(ctx context.Context, driverID uuid.UUID) (int64, error)
}

// pgReservationRepo is the Postgres implementation of ReservationRepo.
// It needs Begin, so it takes txdb rather than the plain db interface.
type pgReservationRepo struct {
	db txdb
}

// NewReservationRepo constructs a ReservationRepo backed by the provided
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx —
// its Begin opens a savepoint, so the transactional path still works.
func NewReservationRepo(db txdb) ReservationRepo {
	return &pgReservationRepo{db: db}
}

func (r *pgReservationRepo) ReserveSeat(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.ReserveSeat: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	// The WHERE clause carries the whole invariant: the decrement applies
	// only when a seat is still available at the stored row. Zero rows
	// affected means either a full trip or a missing trip.
	const dec = `
		UPDATE trips
		SET seats_available = seats_available - 1, updated_at = now()
		WHERE id = @trip_id AND seats_available > 0`

	tag, err := tx.Exec(ctx, dec, pgx.NamedArgs{"trip_id": res.TripID})
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.ReserveSeat: decrement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		const check = `SELECT EXISTS (SELECT 1 FROM trips WHERE id = @trip_id)`
		if err := tx.QueryRow(ctx, check, pgx.NamedArgs{"trip_id": res.TripID}).Scan(&exists); err != nil {
			return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.ReserveSeat: %w", err)
		}
		if !exists {
			return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.ReserveSeat: %w", domain.ErrNotFound)
		}
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.ReserveSeat: %w", domain.ErrTripFull)
	}

	const ins = `
		INSERT INTO reservations (trip_id, name, phone, email)
		VALUES (@trip_id, @name, @phone, @email)
		RETURNING id, trip_id, name, phone, email, created_at`

	args := pgx.NamedArgs{
		"trip_id": res.TripID,
		"name":    res.Name,
		"phone":   res.Phone,
		"email":   res.Email,
	}

	created, err := scanReservation(tx.QueryRow(ctx, ins, args))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.ReserveSeat: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.ReserveSeat: commit: %w", err)
	}
	return created, nil
}

func (r *pgReservationRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error) {
	const q = `
		SELECT id, trip_id, name, phone, email, created_at
		FROM reservations
		WHERE trip_id = @trip_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	reservations := []domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReservationRepo.ListByTrip: scan: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListByTrip: rows: %w", err)
	}

	return reservations, nil
}

func (r *pgReservationRepo) CountByTrip(ctx context.Context, tripID uuid.UUID) (int64, error) {
	const q = `SELECT count(*) FROM reservations WHERE trip_id = @trip_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.ReservationRepo.CountByTrip: %w", err)
	}
	return n, nil
}

func (r *pgReservationRepo) CountByDriver(ctx context.Context, driverID uuid.UUID) (int64, error) {
	const q = `
		SELECT count(*)
		FROM reservations r
		JOIN trips t ON t.id = r.trip_id
		WHERE t.driver_id = @driver_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"driver_id": driverID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.ReservationRepo.CountByDriver: %w", err)
	}
	return n, nil
}

// scanReservation maps a single database row into a domain.Reservation.
func scanReservation(s scanner) (domain.Reservation, error) {
	var (
		res    domain.Reservation
		id     pgtype.UUID
		tripID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &res.Name, &res.Phone, &res.Email, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, err
	}
	res.ID = uuid.UUID(id.Bytes)
	res.TripID = uuid.UUID(tripID.Bytes)
	return res, nil
}
