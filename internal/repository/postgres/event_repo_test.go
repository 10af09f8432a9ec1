package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventregistration/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "title", "date", "time", "location", "status", "registration_deadline",
		"registration_type", "has_internal_registration", "created_at", "updated_at"}

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, date, time, location, status, registration_deadline`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("ev-1", "Nutrition Summit", nil, "10:00", "Lagos", "upcoming", deadline, "internal", true, created, created))
			},
			want: &domain.Event{
				ID:                      "ev-1",
				Title:                   "Nutrition Summit",
				Time:                    "10:00",
				Location:                "Lagos",
				Status:                  "upcoming",
				RegistrationDeadline:    &deadline,
				RegistrationType:        "internal",
				HasInternalRegistration: true,
				CreatedAt:               created,
				UpdatedAt:               created,
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
		},
		{
			name: "malformed id",
			id:   "not-a-uuid",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events`).
					WithArgs("not-a-uuid").
					WillReturnError(&pq.Error{Code: "22P02"})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrNotFound)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
