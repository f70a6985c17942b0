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

// StatisticRepo defines the persistence operations for TripStatistics,
// including the archive transaction that converts a live trip into a
// snapshot.
type StatisticRepo interface {
	// Archive inserts the statistic and deletes its source trip (cascading
	// the trip's reservations) inside one transaction, so a crash can never
	// leave a trip both live and archived. Returns domain.ErrNotFound when
	// the trip vanished between the sweep's read and this call.
	Archive(ctx context.Context, tripID uuid.UUID, stat domain.TripStatistic) (domain.TripStatistic, error)

	// PurgeDepartedBefore deletes statistics whose original departure is
	// strictly before cutoff and returns the number of rows removed.
	PurgeDepartedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// ListByDriver returns a driver's statistics, most recent departure first.
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.TripStatistic, error)

	// CountByDriver returns the number of archived trips for a driver.
	CountByDriver(ctx context.Context, driverID uuid.UUID) (int64, error)
}

// pgStatisticRepo is the Postgres implementation of StatisticRepo.
type pgStatisticRepo struct {
	db txdb
}

// NewStatisticRepo constructs a StatisticRepo backed by the provided
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx.
func NewStatisticRepo(db txdb) StatisticRepo {
	return &pgStatisticRepo{db: db}
}

func (r *pgStatisticRepo) Archive(ctx context.Context, tripID uuid.UUID, stat domain.TripStatistic) (domain.TripStatistic, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.TripStatistic{}, fmt.Errorf("repo.StatisticRepo.Archive: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	// Delete first: zero rows affected means another archiver run (or the
	// owning driver) already removed the trip, and no snapshot must be
	// written. Reservations go with the trip via ON DELETE CASCADE.
	const del = `DELETE FROM trips WHERE id = @id`
	tag, err := tx.Exec(ctx, del, pgx.NamedArgs{"id": tripID})
	if err != nil {
		return domain.TripStatistic{}, fmt.Errorf("repo.StatisticRepo.Archive: delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.TripStatistic{}, fmt.Errorf("repo.StatisticRepo.Archive: %w", domain.ErrNotFound)
	}

	const ins = `
		INSERT INTO trip_statistics (driver_id, origin, destination, departure,
		                             seats_total, seats_reserved, status)
		VALUES (@driver_id, @origin, @destination, @departure,
		        @seats_total, @seats_reserved, @status)
		RETURNING id, driver_id, origin, destination, departure,
		          seats_total, seats_reserved, status, archived_at`

	args := pgx.NamedArgs{
		"driver_id":      stat.DriverID,
		"origin":         stat.Origin,
		"destination":    stat.Destination,
		"departure":      stat.Departure,
		"seats_total":    stat.SeatsTotal,
		"seats_reserved": stat.SeatsReserved,
		"status":         stat.Status,
	}

	created, err := scanStatistic(tx.QueryRow(ctx, ins, args))
	if err != nil {
		return domain.TripStatistic{}, fmt.Errorf("repo.StatisticRepo.Archive: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.TripStatistic{}, fmt.Errorf("repo.StatisticRepo.Archive: commit: %w", err)
	}
	return created, nil
}

func (r *pgStatisticRepo) PurgeDepartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM trip_statistics WHERE departure < @cutoff`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"cutoff": cutoff})
	if err != nil {
		return 0, fmt.Errorf("repo.StatisticRepo.PurgeDepartedBefore: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgStatisticRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.TripStatistic, error) {
	const q = `
		SELECT id, driver_id, origin, destination, departure,
		       seats_total, seats_reserved, status, archived_at
		FROM trip_statistics
		WHERE driver_id = @driver_id
		ORDER BY departure DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"driver_id": driverID})
	if err != nil {
		return nil, fmt.Errorf("repo.StatisticRepo.ListByDriver: %w", err)
	}
	defer rows.Close()

	stats := []domain.TripStatistic{}
	for rows.Next() {
		st, err := scanStatistic(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StatisticRepo.ListByDriver: scan: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StatisticRepo.ListByDriver: rows: %w", err)
	}

	return stats, nil
}

func (r *pgStatisticRepo) CountByDriver(ctx context.Context, driverID uuid.UUID) (int64, error) {
	const q = `SELECT count(*) FROM trip_statistics WHERE driver_id = @driver_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"driver_id": driverID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.StatisticRepo.CountByDriver: %w", err)
	}
	return n, nil
}

// scanStatistic maps a single database row into a domain.TripStatistic.
func scanStatistic(s scanner) (domain.TripStatistic, error) {
	var (
		st       domain.TripStatistic
		id       pgtype.UUID
		driverID pgtype.UUID
	)
	err := s.Scan(&id, &driverID, &st.Origin, &st.Destination, &st.Departure,
		&st.SeatsTotal, &st.SeatsReserved, &st.Status, &st.ArchivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripStatistic{}, domain.ErrNotFound
		}
		return domain.TripStatistic{}, err
	}
	st.ID = uuid.UUID(id.Bytes)
	st.DriverID = uuid.UUID(driverID.Bytes)
	return st, nil
}
