// Package service contains the business logic for the covoiturage API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/repo"
)

// accessCodeLength is the number of characters kept from the random UUID.
// Eight hex characters give 4 billion possible codes — collisions are
// handled by retry anyway.
const accessCodeLength = 8

// maxCodeRetries bounds the collision-retry loop during registration.
const maxCodeRetries = 3

// NewAccessCode returns a fresh opaque access code: the first eight hex
// characters of a random UUID, uppercased.
func NewAccessCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:accessCodeLength])
}

// DriverService implements registration and access-code authentication.
type DriverService struct {
	drivers repo.DriverRepo
}

// NewDriverService constructs a DriverService backed by the provided DriverRepo.
func NewDriverService(drivers repo.DriverRepo) *DriverService {
	return &DriverService{drivers: drivers}
}

// Register validates the driver, normalizes the phone number, issues an
// access code, and persists. The issued code is returned on the driver —
// it is shown exactly once and never recoverable afterwards.
// Returns domain.ErrValidation for bad input and domain.ErrConflict when
// the phone number is already registered.
func (s *DriverService) Register(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	phone, err := domain.NormalizePhone(driver.Phone)
	if err != nil {
		return domain.Driver{}, err
	}
	driver.Phone = phone
	driver.FirstName = strings.TrimSpace(driver.FirstName)
	driver.LastName = strings.TrimSpace(driver.LastName)
	driver.Email = strings.TrimSpace(driver.Email)
	if driver.Experience < 0 {
		return domain.Driver{}, fmt.Errorf("%w: experience years must not be negative", domain.ErrValidation)
	}

	// Retry with a fresh code on the (astronomically unlikely) collision.
	var lastErr error
	for i := 0; i < maxCodeRetries; i++ {
		driver.AccessCode = NewAccessCode()
		created, err := s.drivers.Create(ctx, driver)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repo.ErrDuplicateCode) {
			return domain.Driver{}, fmt.Errorf("service.DriverService.Register: %w", err)
		}
		lastErr = err
	}
	return domain.Driver{}, fmt.Errorf("service.DriverService.Register: %w", lastErr)
}

// Authenticate resolves an access code to its active driver.
// Returns domain.ErrNotFound for unknown, empty, or deactivated codes.
func (s *DriverService) Authenticate(ctx context.Context, code string) (domain.Driver, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Authenticate: %w", domain.ErrNotFound)
	}
	driver, err := s.drivers.GetByCode(ctx, code)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Authenticate: %w", err)
	}
	return driver, nil
}

// GetByID returns a single driver by ID.
func (s *DriverService) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	driver, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.GetByID: %w", err)
	}
	return driver, nil
}
