package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment lifecycle state of a registration.
type PaymentStatus string

// Payment lifecycle. A registration starts pending and moves to exactly one terminal state.
const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// Registration is one registration attempt for an event.
// swagger:model Registration
type Registration struct {
	ID                     string          `json:"id"`
	EventID                string          `json:"event_id,omitempty"`
	FullName               string          `json:"full_name"`
	Organization           string          `json:"organization,omitempty"`
	Designation            string          `json:"designation,omitempty"`
	Email                  string          `json:"email"`
	Phone                  string          `json:"phone"`
	ParticipationType      string          `json:"participation_type"`
	ParticipationTypeOther string          `json:"participation_type_other,omitempty"`
	InterestAreas          []string        `json:"interest_areas"`
	InterestAreasOther     string          `json:"interest_areas_other,omitempty"`
	PriceAmount            decimal.Decimal `json:"price_amount"`
	PaymentStatus          PaymentStatus   `json:"payment_status"`
	PaymentReference       string          `json:"payment_reference"`
	GatewayReference       string          `json:"gateway_reference,omitempty"`
	PaymentDate            *time.Time      `json:"payment_date,omitempty"`
	QRCodeURL              string          `json:"qr_code_url,omitempty"`
	QRCodeData             string          `json:"qr_code_data,omitempty"`
	EmailSent              bool            `json:"email_sent"`
	EmailSentAt            *time.Time      `json:"email_sent_at,omitempty"`
	CheckedInAt            *time.Time      `json:"checked_in_at,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// RegistrationInput holds the identity and participation fields submitted on the registration form.
type RegistrationInput struct {
	FullName               string
	Organization           string
	Designation            string
	Email                  string
	Phone                  string
	ParticipationType      string
	ParticipationTypeOther string
	InterestAreas          []string
	InterestAreasOther     string
}

// MissingFields returns every required field that is empty, in form order.
func (in RegistrationInput) MissingFields() []string {
	var missing []string
	if in.FullName == "" {
		missing = append(missing, "full_name")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Phone == "" {
		missing = append(missing, "phone")
	}
	if in.ParticipationType == "" {
		missing = append(missing, "participation_type")
	}
	return missing
}

// NewRegistration returns a pending Registration with the price snapshotted from the resolved option.
func NewRegistration(id, eventID string, in RegistrationInput, price decimal.Decimal, reference string, now time.Time) *Registration {
	interests := in.InterestAreas
	if interests == nil {
		interests = []string{}
	}
	return &Registration{
		ID:                     id,
		EventID:                eventID,
		FullName:               in.FullName,
		Organization:           in.Organization,
		Designation:            in.Designation,
		Email:                  in.Email,
		Phone:                  in.Phone,
		ParticipationType:      in.ParticipationType,
		ParticipationTypeOther: in.ParticipationTypeOther,
		InterestAreas:          interests,
		InterestAreasOther:     in.InterestAreasOther,
		PriceAmount:            price,
		PaymentStatus:          PaymentStatusPending,
		PaymentReference:       reference,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// RegistrationListFilter narrows admin registration listings.
type RegistrationListFilter struct {
	EventID string
	Status  PaymentStatus // empty means any
}

// RegistrationRepository defines storage operations for registrations.
// MarkCompleted, MarkFailed and MarkCheckedIn are conditional updates: they return ErrStatusConflict
// (or ErrAlreadyCheckedIn) when the row is no longer in the expected state.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByPaymentReference(ctx context.Context, reference string) (*Registration, error)
	SetGatewayReference(ctx context.Context, id, gatewayReference string) error
	MarkCompleted(ctx context.Context, id, qrCodeURL, qrCodeData string, paymentDate time.Time) (*Registration, error)
	MarkFailed(ctx context.Context, id string) (*Registration, error)
	MarkEmailSent(ctx context.Context, id string, sentAt time.Time) error
	MarkCheckedIn(ctx context.Context, id string, at time.Time) (*Registration, error)
	HasCompletedDuplicate(ctx context.Context, eventID, email string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter RegistrationListFilter, params PaginationParams) ([]*Registration, int, error)
}

// CreateRegistrationResult is what the caller needs to redirect the user to hosted checkout.
type CreateRegistrationResult struct {
	RegistrationID string          `json:"registrationId"`
	PaymentURL     string          `json:"paymentUrl"`
	Amount         decimal.Decimal `json:"amount"`
	Reference      string          `json:"reference"`
}

// RegistrationService creates registrations and hands back a checkout URL.
type RegistrationService interface {
	CreateRegistration(ctx context.Context, eventID string, in RegistrationInput) (*CreateRegistrationResult, error)
	ListPricing(ctx context.Context, eventID string) ([]*PricingOption, error)
}
