package postgres

import (
	"context"
	"database/sql"

	"eventregistration/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, date, time, location, status, registration_deadline,
			registration_type, has_internal_registration, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var dateNull, deadlineNull sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Title, &dateNull, &e.Time, &e.Location, &e.Status, &deadlineNull,
		&e.RegistrationType, &e.HasInternalRegistration, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if isNoRow(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if dateNull.Valid {
		e.Date = &dateNull.Time
	}
	if deadlineNull.Valid {
		e.RegistrationDeadline = &deadlineNull.Time
	}
	return e, nil
}
