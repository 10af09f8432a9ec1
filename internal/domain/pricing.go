package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Participation types accepted on the registration form.
const (
	ParticipationStudent      = "student"
	ParticipationProfessional = "professional"
	ParticipationCorporate    = "corporate"
	ParticipationExhibitor    = "exhibitor"
	ParticipationOther        = "other"
)

// KnownParticipationType reports whether t is one of the participation types above.
func KnownParticipationType(t string) bool {
	switch t {
	case ParticipationStudent, ParticipationProfessional, ParticipationCorporate, ParticipationExhibitor, ParticipationOther:
		return true
	}
	return false
}

// PricingOption is the price of one participation type, either for a specific event or globally (EventID empty).
// swagger:model PricingOption
type PricingOption struct {
	ID                string          `json:"id"`
	EventID           string          `json:"event_id,omitempty"`
	ParticipationType string          `json:"participation_type"`
	Price             decimal.Decimal `json:"price"`
	IsActive          bool            `json:"is_active"`
	DisplayOrder      int             `json:"display_order"`
}

// PricingRepository reads pricing options. It is read-only from the registration flow.
type PricingRepository interface {
	// FindActive returns the authoritative active option, preferring an event-specific row over a global one.
	FindActive(ctx context.Context, eventID, participationType string) (*PricingOption, error)
	ListActive(ctx context.Context, eventID string) ([]*PricingOption, error)
}

// PricingResolver resolves the price for an event and participation type.
type PricingResolver interface {
	Resolve(ctx context.Context, eventID, participationType string) (*PricingOption, error)
	List(ctx context.Context, eventID string) ([]*PricingOption, error)
}
