// Package lookup resolves a GSTIN to the registered party's legal details.
// Production wiring talks to a GST API provider over HTTP; the static client
// serves an embedded registry for offline runs and tests.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no registry, remote or static, knows the GSTIN.
var ErrNotFound = errors.New("could not fetch GST details, check the GSTIN or enter manually")

// Registration statuses reported by the registry.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusPending  = "Pending"
)

// Details is the registered-party record for a GSTIN.
type Details struct {
	GSTIN     string `json:"gstin" csv:"gstin"`
	LegalName string `json:"legal_name" csv:"legal_name"`
	TradeName string `json:"trade_name" csv:"trade_name"`
	StateCode string `json:"state_code" csv:"state_code"`
	StateName string `json:"state_name" csv:"state_name"`
	Status    string `json:"status" csv:"status"`
}

// Client fetches party details for a GSTIN. Lookups are best-effort
// enrichment: callers treat a failure as "no details", never as a filing
// error.
type Client interface {
	Fetch(ctx context.Context, id string) (*Details, error)
}

// normalize uppercases and trims a raw GSTIN before lookup.
func normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func notFound(id string) error {
	return fmt.Errorf("gstin %s: %w", id, ErrNotFound)
}
