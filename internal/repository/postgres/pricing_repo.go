package postgres

import (
	"context"
	"database/sql"

	"eventregistration/internal/domain"
)

type pricingRepository struct {
	DB *sql.DB
}

func NewPricingRepository(db *sql.DB) domain.PricingRepository {
	return &pricingRepository{
		DB: db,
	}
}

func (r *pricingRepository) FindActive(ctx context.Context, eventID, participationType string) (*domain.PricingOption, error) {
	// Event-specific rows sort before global ones (NULL event_id).
	query := `
		SELECT id, COALESCE(event_id::text, ''), participation_type, price, is_active, display_order
		FROM pricing_options
		WHERE (event_id = NULLIF($1, '')::uuid OR event_id IS NULL)
		  AND participation_type = $2
		  AND is_active
		ORDER BY event_id NULLS LAST, display_order
		LIMIT 1
	`
	p := &domain.PricingOption{}
	err := r.DB.QueryRowContext(ctx, query, eventID, participationType).
		Scan(&p.ID, &p.EventID, &p.ParticipationType, &p.Price, &p.IsActive, &p.DisplayOrder)
	if err != nil {
		if isNoRow(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *pricingRepository) ListActive(ctx context.Context, eventID string) ([]*domain.PricingOption, error) {
	query := `
		SELECT DISTINCT ON (participation_type)
			id, COALESCE(event_id::text, ''), participation_type, price, is_active, display_order
		FROM pricing_options
		WHERE (event_id = NULLIF($1, '')::uuid OR event_id IS NULL)
		  AND is_active
		ORDER BY participation_type, event_id NULLS LAST, display_order
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := make([]*domain.PricingOption, 0)
	for rows.Next() {
		p := &domain.PricingOption{}
		if err := rows.Scan(&p.ID, &p.EventID, &p.ParticipationType, &p.Price, &p.IsActive, &p.DisplayOrder); err != nil {
			return nil, err
		}
		options = append(options, p)
	}
	return options, rows.Err()
}
