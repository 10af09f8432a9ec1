package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventregistration/internal/domain"
)

// FulfillmentConfig configures QR storage keys and the currency shown in emails.
type FulfillmentConfig struct {
	KeyPrefix string
	Currency  string
}

type fulfillmentService struct {
	encoder domain.QREncoder
	storage domain.ObjectStorage
	email   domain.EmailService
	config  FulfillmentConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewFulfillmentService creates a FulfillmentService.
func NewFulfillmentService(encoder domain.QREncoder, storage domain.ObjectStorage, email domain.EmailService, config FulfillmentConfig, logger *slog.Logger) domain.FulfillmentService {
	config.KeyPrefix = strings.Trim(config.KeyPrefix, "/")
	return &fulfillmentService{
		encoder: encoder,
		storage: storage,
		email:   email,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// IssueQRCode renders the check-in payload and uploads it. Each issuance gets its own object key,
// so an upload that loses the completion race never overwrites the image of the winner.
func (s *fulfillmentService) IssueQRCode(ctx context.Context, reg *domain.Registration, event *domain.Event) (*domain.IssuedQRCode, error) {
	payload := domain.NewQRPayload(reg, event, s.now())
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr payload: %w", err)
	}
	png, err := s.encoder.EncodePNG(string(data))
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s-%d.png", reg.ID, payload.Timestamp)
	if s.config.KeyPrefix != "" {
		key = s.config.KeyPrefix + "/" + key
	}
	url, err := s.storage.Put(ctx, key, "image/png", png)
	if err != nil {
		return nil, fmt.Errorf("failed to store qr code: %w", err)
	}
	return &domain.IssuedQRCode{URL: url, Data: string(data)}, nil
}

func (s *fulfillmentService) SendConfirmation(ctx context.Context, reg *domain.Registration, event *domain.Event) bool {
	data := &domain.RegistrationConfirmationEmailData{
		Email:             reg.Email,
		FullName:          reg.FullName,
		RegistrationID:    reg.ID,
		ParticipationType: participationLabel(reg),
		AmountPaid:        reg.PriceAmount.StringFixed(2),
		Currency:          s.config.Currency,
		PaymentReference:  reg.PaymentReference,
		QRCodeURL:         reg.QRCodeURL,
	}
	if event != nil {
		data.EventTitle = event.Title
		data.EventTime = event.Time
		data.EventLocation = event.Location
		if event.Date != nil {
			data.EventDate = event.Date.Format("Monday, January 2, 2006")
		}
	}
	if err := s.email.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.Warn("confirmation email failed", "registration_id", reg.ID, "reference", reg.PaymentReference, "error", err)
		return false
	}
	return true
}

func participationLabel(reg *domain.Registration) string {
	if reg.ParticipationType == domain.ParticipationOther && reg.ParticipationTypeOther != "" {
		return reg.ParticipationTypeOther
	}
	return reg.ParticipationType
}
