// Package domain contains the core data types for the covoiturage API.
// This package has no dependencies beyond uuid and is imported by every
// other internal package (repo, service, handler).
package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// phonePattern matches a fully normalized Guinean number: +224 followed by
// exactly nine digits.
var phonePattern = regexp.MustCompile(`^\+224\d{9}$`)

// Driver is a registered driver. The access code is issued once at
// registration and is the sole credential for trip-management actions —
// a long-lived bearer secret, not a password.
type Driver struct {
	ID         uuid.UUID `json:"id"`
	Phone      string    `json:"phone"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email,omitempty"`
	Experience int       `json:"experience_years"`
	AccessCode string    `json:"access_code,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// NormalizePhone strips spaces, prefixes +224 when the country code is
// absent, and validates the result against the +224XXXXXXXXX format.
// Returns ErrValidation when the number cannot be normalized.
func NormalizePhone(phone string) (string, error) {
	p := strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	if p == "" {
		return "", fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if !strings.HasPrefix(p, "+") {
		p = "+224" + p
	}
	if !phonePattern.MatchString(p) {
		return "", fmt.Errorf("%w: phone must be +224 followed by 9 digits", ErrValidation)
	}
	return p, nil
}
