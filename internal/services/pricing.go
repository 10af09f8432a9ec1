package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"eventregistration/internal/domain"
)

type pricingResolver struct {
	repo domain.PricingRepository
}

// NewPricingResolver returns a PricingResolver over the given repository.
func NewPricingResolver(repo domain.PricingRepository) domain.PricingResolver {
	return &pricingResolver{repo: repo}
}

// Resolve returns ErrPricingNotFound both for unknown participation types and for types without an active option.
func (r *pricingResolver) Resolve(ctx context.Context, eventID, participationType string) (*domain.PricingOption, error) {
	if !domain.KnownParticipationType(participationType) {
		return nil, domain.ErrPricingNotFound
	}
	opt, err := r.repo.FindActive(ctx, eventID, participationType)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPricingNotFound
		}
		return nil, fmt.Errorf("failed to resolve pricing: %w", err)
	}
	if !opt.IsActive {
		return nil, domain.ErrPricingNotFound
	}
	return opt, nil
}

func (r *pricingResolver) List(ctx context.Context, eventID string) ([]*domain.PricingOption, error) {
	options, err := r.repo.ListActive(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing: %w", err)
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].DisplayOrder < options[j].DisplayOrder
	})
	return options, nil
}
