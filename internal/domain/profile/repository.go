package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/gst-filing/pkg/gstin"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository stores seller profiles in Postgres
type Repository struct {
	db DB
}

// NewRepository creates a new profile repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const profileColumns = `id, gstin, legal_name, trade_name, state_code, state_name,
	is_active, created_at, updated_at`

// Create inserts a profile. The first profile in the table becomes active
// automatically; a second profile for the same GSTIN is rejected.
func (r *Repository) Create(ctx context.Context, p *Profile) (*Profile, error) {
	p.GSTIN = strings.ToUpper(strings.TrimSpace(p.GSTIN))
	if !gstin.ValidStructure(p.GSTIN) {
		return nil, ErrInvalidGSTIN
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.StateCode == "" {
		p.StateCode = gstin.StateCode(p.GSTIN)
	}
	if p.StateName == "" {
		p.StateName = gstin.StateName(p.StateCode)
	}

	query := `
		INSERT INTO gst_profiles (id, gstin, legal_name, trade_name, state_code, state_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, NOT EXISTS (SELECT 1 FROM gst_profiles))
		RETURNING ` + profileColumns

	row := r.db.QueryRow(ctx, query,
		p.ID, p.GSTIN, p.LegalName, p.TradeName, p.StateCode, p.StateName)
	created, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateGSTIN
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return created, nil
}

// GetActive returns the currently active profile.
func (r *Repository) GetActive(ctx context.Context) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM gst_profiles WHERE is_active LIMIT 1`
	p, err := scanProfile(r.db.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// List returns all profiles, oldest first.
func (r *Repository) List(ctx context.Context) ([]*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM gst_profiles ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Activate makes the given profile the active one, deactivating the rest.
func (r *Repository) Activate(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin activate: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE gst_profiles SET is_active = FALSE, updated_at = now() WHERE is_active`); err != nil {
		return fmt.Errorf("deactivate profiles: %w", err)
	}
	tag, err := tx.Exec(ctx, `UPDATE gst_profiles SET is_active = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// Delete removes a profile. When the active profile is deleted, the oldest
// remaining profile takes over as active.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback(ctx)

	var wasActive bool
	err = tx.QueryRow(ctx, `DELETE FROM gst_profiles WHERE id = $1 RETURNING is_active`, id).Scan(&wasActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if wasActive {
		if _, err := tx.Exec(ctx, `
			UPDATE gst_profiles SET is_active = TRUE, updated_at = now()
			WHERE id = (SELECT id FROM gst_profiles ORDER BY created_at LIMIT 1)`); err != nil {
			return fmt.Errorf("promote next profile: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID, &p.GSTIN, &p.LegalName, &p.TradeName, &p.StateCode, &p.StateName,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
