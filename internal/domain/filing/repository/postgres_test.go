package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var returnCols = []string{
	"id", "profile_id", "filing_period", "status", "invoice_count",
	"b2b_count", "b2cs_count", "hsn_count", "total_taxable", "total_tax",
	"json_artifact_id", "xlsx_artifact_id", "filed_at", "created_at",
}

func TestRepository_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	now := time.Now()
	ret := &FiledReturn{
		ID:           uuid.New(),
		ProfileID:    uuid.New(),
		FilingPeriod: "012026",
		Status:       StatusGenerated,
		InvoiceCount: 42,
		B2BCount:     5,
		B2CSCount:    3,
		HSNCount:     7,
		TotalTaxable: decimal.RequireFromString("125000.50"),
		TotalTax:     decimal.RequireFromString("22500.09"),
	}

	mock.ExpectQuery(`INSERT INTO gst_returns`).
		WithArgs(ret.ID, ret.ProfileID, "012026", StatusGenerated, 42,
			5, 3, 7, ret.TotalTaxable, ret.TotalTax, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(returnCols).AddRow(
			ret.ID, ret.ProfileID, "012026", StatusGenerated, 42,
			5, 3, 7, ret.TotalTaxable, ret.TotalTax, nil, nil, nil, now,
		))

	saved, err := repo.Save(context.Background(), ret)
	require.NoError(t, err)
	assert.Equal(t, ret.ID, saved.ID)
	assert.Equal(t, 42, saved.InvoiceCount)
	assert.True(t, saved.TotalTaxable.Equal(ret.TotalTaxable))
	assert.Nil(t, saved.FiledAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	profileID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM gst_returns WHERE profile_id`).
		WithArgs(profileID, "022026").
		WillReturnRows(pgxmock.NewRows(returnCols))

	_, err = repo.Get(context.Background(), profileID, "022026")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	profileID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM gst_returns WHERE profile_id = \$1 ORDER BY created_at DESC`).
		WithArgs(profileID).
		WillReturnRows(pgxmock.NewRows(returnCols).
			AddRow(uuid.New(), profileID, "022026", StatusGenerated, 10,
				1, 2, 3, decimal.Zero, decimal.Zero, nil, nil, nil, now).
			AddRow(uuid.New(), profileID, "012026", StatusFiled, 20,
				4, 5, 6, decimal.Zero, decimal.Zero, nil, nil, &now, now.Add(-time.Hour)))

	returns, err := repo.List(context.Background(), profileID)
	require.NoError(t, err)
	require.Len(t, returns, 2)
	assert.Equal(t, "022026", returns[0].FilingPeriod)
	assert.Equal(t, StatusFiled, returns[1].Status)
	assert.NotNil(t, returns[1].FiledAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkFiled(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock)
	id := uuid.New()

	t.Run("updates existing return", func(t *testing.T) {
		mock.ExpectExec(`UPDATE gst_returns SET status`).
			WithArgs(StatusFiled, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.MarkFiled(context.Background(), id))
	})

	t.Run("missing return", func(t *testing.T) {
		mock.ExpectExec(`UPDATE gst_returns SET status`).
			WithArgs(StatusFiled, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.MarkFiled(context.Background(), id), ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
