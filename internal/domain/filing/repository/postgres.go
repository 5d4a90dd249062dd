// Package repository persists generated returns so past filings can be
// listed and re-downloaded.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ErrNotFound is returned when no return exists for the requested key.
var ErrNotFound = errors.New("return not found")

// Return statuses.
const (
	StatusGenerated = "generated"
	StatusFiled     = "filed"
)

// FiledReturn is one generated GSTR-1 run for a profile and period.
type FiledReturn struct {
	ID             uuid.UUID
	ProfileID      uuid.UUID
	FilingPeriod   string
	Status         string
	InvoiceCount   int
	B2BCount       int
	B2CSCount      int
	HSNCount       int
	TotalTaxable   decimal.Decimal
	TotalTax       decimal.Decimal
	JSONArtifactID *uuid.UUID
	XLSXArtifactID *uuid.UUID
	FiledAt        *time.Time
	CreatedAt      time.Time
}

// Repository stores filed returns in Postgres
type Repository struct {
	db DB
}

// NewRepository creates a new returns repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const returnColumns = `id, profile_id, filing_period, status, invoice_count,
	b2b_count, b2cs_count, hsn_count, total_taxable, total_tax,
	json_artifact_id, xlsx_artifact_id, filed_at, created_at`

// Save upserts the return for a profile and period. Regenerating a period
// replaces the previous run's counts and artifacts.
func (r *Repository) Save(ctx context.Context, ret *FiledReturn) (*FiledReturn, error) {
	query := `
		INSERT INTO gst_returns (
			id, profile_id, filing_period, status, invoice_count,
			b2b_count, b2cs_count, hsn_count, total_taxable, total_tax,
			json_artifact_id, xlsx_artifact_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (profile_id, filing_period) DO UPDATE SET
			status = EXCLUDED.status,
			invoice_count = EXCLUDED.invoice_count,
			b2b_count = EXCLUDED.b2b_count,
			b2cs_count = EXCLUDED.b2cs_count,
			hsn_count = EXCLUDED.hsn_count,
			total_taxable = EXCLUDED.total_taxable,
			total_tax = EXCLUDED.total_tax,
			json_artifact_id = EXCLUDED.json_artifact_id,
			xlsx_artifact_id = EXCLUDED.xlsx_artifact_id
		RETURNING ` + returnColumns

	row := r.db.QueryRow(ctx, query,
		ret.ID, ret.ProfileID, ret.FilingPeriod, ret.Status, ret.InvoiceCount,
		ret.B2BCount, ret.B2CSCount, ret.HSNCount, ret.TotalTaxable, ret.TotalTax,
		ret.JSONArtifactID, ret.XLSXArtifactID,
	)
	return scanReturn(row)
}

// Get fetches the return for a profile and period.
func (r *Repository) Get(ctx context.Context, profileID uuid.UUID, period string) (*FiledReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM gst_returns WHERE profile_id = $1 AND filing_period = $2`
	ret, err := scanReturn(r.db.QueryRow(ctx, query, profileID, period))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return ret, err
}

// List returns all runs for a profile, newest first.
func (r *Repository) List(ctx context.Context, profileID uuid.UUID) ([]*FiledReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM gst_returns WHERE profile_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()

	var returns []*FiledReturn
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		returns = append(returns, ret)
	}
	return returns, rows.Err()
}

// MarkFiled stamps a return as filed with the portal.
func (r *Repository) MarkFiled(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE gst_returns SET status = $1, filed_at = now() WHERE id = $2`,
		StatusFiled, id)
	if err != nil {
		return fmt.Errorf("mark filed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReturn(row pgx.Row) (*FiledReturn, error) {
	var ret FiledReturn
	err := row.Scan(
		&ret.ID, &ret.ProfileID, &ret.FilingPeriod, &ret.Status, &ret.InvoiceCount,
		&ret.B2BCount, &ret.B2CSCount, &ret.HSNCount, &ret.TotalTaxable, &ret.TotalTax,
		&ret.JSONArtifactID, &ret.XLSXArtifactID, &ret.FiledAt, &ret.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan return: %w", err)
	}
	return &ret, nil
}
