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

// DriverRepo defines the persistence operations for Drivers.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type DriverRepo interface {
	// Create inserts a new driver and returns the persisted record (with
	// DB-generated id and created_at populated).
	// Returns domain.ErrConflict when the phone number is already registered
	// and ErrDuplicateCode when the access code collides.
	Create(ctx context.Context, driver domain.Driver) (domain.Driver, error)

	// GetByID retrieves a single driver by its UUID primary key.
	// Returns domain.ErrNotFound if no driver with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error)

	// GetByCode retrieves an active driver by access code.
	// Returns domain.ErrNotFound for unknown codes and inactive drivers.
	GetByCode(ctx context.Context, code string) (domain.Driver, error)
}

// pgDriverRepo is the Postgres implementation of DriverRepo.
type pgDriverRepo struct {
	db db
}

// NewDriverRepo constructs a DriverRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDriverRepo(db db) DriverRepo {
	return &pgDriverRepo{db: db}
}

func (r *pgDriverRepo) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	const q = `
		INSERT INTO drivers (phone, first_name, last_name, email, experience_years, access_code)
		VALUES (@phone, @first_name, @last_name, @email, @experience_years, @access_code)
		RETURNING id, phone, first_name, last_name, email, experience_years, access_code, active, created_at`

	args := pgx.NamedArgs{
		"phone":            driver.Phone,
		"first_name":       driver.FirstName,
		"last_name":        driver.LastName,
		"email":            driver.Email,
		"experience_years": driver.Experience,
		"access_code":      driver.AccessCode,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDriver(row)
	if err != nil {
		switch {
		case uniqueViolation(err, "drivers_access_code_key"):
			return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w", ErrDuplicateCode)
		case uniqueViolation(err, "drivers_phone_key"):
			return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w: phone already registered", domain.ErrConflict)
		}
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	const q = `
		SELECT id, phone, first_name, last_name, email, experience_years, access_code, active, created_at
		FROM drivers
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanDriver(row)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) GetByCode(ctx context.Context, code string) (domain.Driver, error) {
	const q = `
		SELECT id, phone, first_name, last_name, email, experience_years, access_code, active, created_at
		FROM drivers
		WHERE access_code = @code AND active`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code})
	result, err := scanDriver(row)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.GetByCode: %w", err)
	}
	return result, nil
}

// scanDriver maps a single database row into a domain.Driver.
func scanDriver(s scanner) (domain.Driver, error) {
	var (
		d  domain.Driver
		id pgtype.UUID
	)
	err := s.Scan(&id, &d.Phone, &d.FirstName, &d.LastName, &d.Email,
		&d.Experience, &d.AccessCode, &d.Active, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Driver{}, domain.ErrNotFound
		}
		return domain.Driver{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	return d, nil
}
