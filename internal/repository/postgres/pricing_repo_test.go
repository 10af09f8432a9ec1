package postgres

import (
	"context"
	"database/sql"
	"testing"

	"eventregistration/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pricingColumnNames = []string{"id", "event_id", "participation_type", "price", "is_active", "display_order"}

func TestPricingRepository_FindActive(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		eventID   string
		ptype     string
		mock      func(mock sqlmock.Sqlmock)
		wantPrice decimal.Decimal
		wantErr   error
	}{
		{
			name:    "event specific option",
			eventID: "ev-1",
			ptype:   "professional",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM pricing_options .* ORDER BY event_id NULLS LAST, display_order LIMIT 1`).
					WithArgs("ev-1", "professional").
					WillReturnRows(sqlmock.NewRows(pricingColumnNames).AddRow("p-1", "ev-1", "professional", "2500.00", true, 1))
			},
			wantPrice: decimal.NewFromInt(2500),
		},
		{
			name:    "global fallback",
			eventID: "",
			ptype:   "student",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM pricing_options`).
					WithArgs("", "student").
					WillReturnRows(sqlmock.NewRows(pricingColumnNames).AddRow("p-2", "", "student", "1000.50", true, 0))
			},
			wantPrice: decimal.RequireFromString("1000.50"),
		},
		{
			name:    "no active option",
			eventID: "ev-1",
			ptype:   "corporate",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM pricing_options`).
					WithArgs("ev-1", "corporate").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "malformed event id",
			eventID: "summit-2025",
			ptype:   "student",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM pricing_options`).
					WithArgs("summit-2025", "student").
					WillReturnError(&pq.Error{Code: "22P02"})
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewPricingRepository(db)
			got, err := repo.FindActive(ctx, tt.eventID, tt.ptype)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantPrice.Equal(got.Price), "price %s", got.Price)
			assert.Equal(t, tt.ptype, got.ParticipationType)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPricingRepository_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT DISTINCT ON \(participation_type\)`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(pricingColumnNames).
			AddRow("p-1", "ev-1", "professional", "2500.00", true, 1).
			AddRow("p-2", "", "student", "1000.00", true, 0))

	repo := NewPricingRepository(db)
	got, err := repo.ListActive(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ev-1", got[0].EventID)
	assert.Equal(t, "", got[1].EventID)
	require.NoError(t, mock.ExpectationsWereMet())
}
