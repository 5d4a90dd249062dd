// Package profile manages seller profiles: the GST registrations a filing
// run is performed on behalf of. Exactly one profile is active at a time and
// the first profile created becomes active automatically.
package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateGSTIN is returned when a profile already exists for the GSTIN.
	ErrDuplicateGSTIN = errors.New("a profile with this GSTIN already exists")
	// ErrInvalidGSTIN is returned when the GSTIN fails the structural check.
	ErrInvalidGSTIN = errors.New("GSTIN must be 15 characters in the portal format")
	// ErrNotFound is returned when the profile does not exist.
	ErrNotFound = errors.New("profile not found")
)

// Profile is one seller GST registration.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	GSTIN     string    `json:"gstin"`
	LegalName string    `json:"legal_name"`
	TradeName string    `json:"trade_name"`
	StateCode string    `json:"state_code"`
	StateName string    `json:"state_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
