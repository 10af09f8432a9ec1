package domain

import (
	"context"
	"time"
)

// QRPayload is the check-in payload encoded into the QR image and stored as qr_code_data.
type QRPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Type       string `json:"type"`
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	Timestamp  int64  `json:"timestamp"`
}

// NewQRPayload binds a payload to the registration, event and issuance time.
func NewQRPayload(reg *Registration, event *Event, issuedAt time.Time) QRPayload {
	p := QRPayload{
		ID:        reg.ID,
		Name:      reg.FullName,
		Email:     reg.Email,
		Type:      reg.ParticipationType,
		EventID:   reg.EventID,
		Timestamp: issuedAt.UnixMilli(),
	}
	if event != nil {
		p.EventTitle = event.Title
	}
	return p
}

// IssuedQRCode is a rendered and uploaded QR code.
type IssuedQRCode struct {
	URL  string
	Data string
}

// QREncoder renders content into a PNG QR code.
type QREncoder interface {
	EncodePNG(content string) ([]byte, error)
}

// ObjectStorage stores public objects and returns their URL.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body []byte) (url string, err error)
}

// FulfillmentService issues the QR code for a paid registration and sends the confirmation email.
// SendConfirmation never returns an error: a failed email leaves email_sent false.
type FulfillmentService interface {
	IssueQRCode(ctx context.Context, reg *Registration, event *Event) (*IssuedQRCode, error)
	SendConfirmation(ctx context.Context, reg *Registration, event *Event) bool
}

// Locker serializes work on a key across concurrent requests (and processes, for distributed implementations).
type Locker interface {
	// Acquire blocks until the lock is held or ctx is done. The returned func releases it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// RegistrationCompletedEvent is published after a registration is paid and fulfilled.
type RegistrationCompletedEvent struct {
	RegistrationID    string `json:"registration_id"`
	EventID           string `json:"event_id"`
	Email             string `json:"email"`
	ParticipationType string `json:"participation_type"`
	Amount            string `json:"amount"`
	PaymentReference  string `json:"payment_reference"`
	QRCodeURL         string `json:"qr_code_url"`
	CompletedAt       string `json:"completed_at"`
}

// EventPublisher publishes domain events to downstream consumers. Publishing is best-effort.
type EventPublisher interface {
	PublishRegistrationCompleted(ctx context.Context, event RegistrationCompletedEvent) error
}
