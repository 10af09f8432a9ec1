package controllers

import (
	"time"

	"eventregistration/internal/domain"
)

// RegistrationResponse is the public shape of a registration. Prices are plain JSON numbers.
// swagger:model RegistrationResponse
type RegistrationResponse struct {
	ID                     string     `json:"id"`
	EventID                string     `json:"event_id,omitempty"`
	FullName               string     `json:"full_name"`
	Organization           string     `json:"organization,omitempty"`
	Designation            string     `json:"designation,omitempty"`
	Email                  string     `json:"email"`
	Phone                  string     `json:"phone"`
	ParticipationType      string     `json:"participation_type"`
	ParticipationTypeOther string     `json:"participation_type_other,omitempty"`
	InterestAreas          []string   `json:"interest_areas"`
	InterestAreasOther     string     `json:"interest_areas_other,omitempty"`
	PriceAmount            float64    `json:"price_amount"`
	PaymentStatus          string     `json:"payment_status"`
	PaymentReference       string     `json:"payment_reference"`
	PaymentDate            *time.Time `json:"payment_date,omitempty"`
	QRCodeURL              string     `json:"qr_code_url,omitempty"`
	EmailSent              bool       `json:"email_sent"`
	CheckedInAt            *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

func newRegistrationResponse(reg *domain.Registration) *RegistrationResponse {
	if reg == nil {
		return nil
	}
	interests := reg.InterestAreas
	if interests == nil {
		interests = []string{}
	}
	return &RegistrationResponse{
		ID:                     reg.ID,
		EventID:                reg.EventID,
		FullName:               reg.FullName,
		Organization:           reg.Organization,
		Designation:            reg.Designation,
		Email:                  reg.Email,
		Phone:                  reg.Phone,
		ParticipationType:      reg.ParticipationType,
		ParticipationTypeOther: reg.ParticipationTypeOther,
		InterestAreas:          interests,
		InterestAreasOther:     reg.InterestAreasOther,
		PriceAmount:            reg.PriceAmount.InexactFloat64(),
		PaymentStatus:          string(reg.PaymentStatus),
		PaymentReference:       reg.PaymentReference,
		PaymentDate:            reg.PaymentDate,
		QRCodeURL:              reg.QRCodeURL,
		EmailSent:              reg.EmailSent,
		CheckedInAt:            reg.CheckedInAt,
		CreatedAt:              reg.CreatedAt,
	}
}
