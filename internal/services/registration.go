package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"eventregistration/internal/domain"
)

// RegistrationConfig carries the per-deployment settings for registration creation.
type RegistrationConfig struct {
	ReferencePrefix string
	// CallbackURL is where the gateway sends the payer back; "?reference=" is appended.
	CallbackURL string
}

type registrationService struct {
	regRepo   domain.RegistrationRepository
	eventRepo domain.EventRepository
	pricing   domain.PricingResolver
	gateway   domain.PaymentGateway
	refs      *ReferenceGenerator
	validate  *validator.Validate
	config    RegistrationConfig
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(
	regRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	pricing domain.PricingResolver,
	gateway domain.PaymentGateway,
	refs *ReferenceGenerator,
	config RegistrationConfig,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		regRepo:   regRepo,
		eventRepo: eventRepo,
		pricing:   pricing,
		gateway:   gateway,
		refs:      refs,
		validate:  validator.New(),
		config:    config,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *registrationService) CreateRegistration(ctx context.Context, eventID string, in domain.RegistrationInput) (*domain.CreateRegistrationResult, error) {
	in = normalizeInput(in)
	if missing := in.MissingFields(); len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}
	if err := s.validate.Var(in.Email, "email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}

	now := s.now()
	if eventID != "" {
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrEventNotFound
			}
			return nil, fmt.Errorf("failed to load event: %w", err)
		}
		if !event.AcceptsRegistration(now) {
			return nil, domain.ErrRegistrationClosed
		}
	}

	option, err := s.pricing.Resolve(ctx, eventID, in.ParticipationType)
	if err != nil {
		return nil, err
	}

	dup, err := s.regRepo.HasCompletedDuplicate(ctx, eventID, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate registration: %w", err)
	}
	if dup {
		return nil, domain.ErrDuplicateRegistration
	}

	reference := s.refs.Generate(s.config.ReferencePrefix)
	reg := domain.NewRegistration(s.newID(), eventID, in, option.Price, reference, now)
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	checkout, err := s.gateway.Initialize(ctx, domain.InitializePaymentRequest{
		Email:       reg.Email,
		Amount:      reg.PriceAmount,
		Reference:   reference,
		CallbackURL: s.callbackURL(reference),
		Metadata: map[string]any{
			"registration_id":    reg.ID,
			"event_id":           eventID,
			"participation_type": reg.ParticipationType,
			"full_name":          reg.FullName,
		},
	})
	if err != nil {
		s.logger.Error("payment initialization failed", "reference", reference, "registration_id", reg.ID, "error", err)
		if delErr := s.regRepo.Delete(ctx, reg.ID); delErr != nil {
			s.logger.Error("failed to roll back registration", "registration_id", reg.ID, "error", delErr)
		}
		if !errors.Is(err, domain.ErrPaymentInit) {
			err = fmt.Errorf("%w: %v", domain.ErrPaymentInit, err)
		}
		return nil, err
	}

	// Verification is keyed by our own reference, so a lost gateway reference is not fatal.
	if checkout.GatewayReference != "" {
		if err := s.regRepo.SetGatewayReference(ctx, reg.ID, checkout.GatewayReference); err != nil {
			s.logger.Warn("failed to store gateway reference", "registration_id", reg.ID, "reference", reference, "error", err)
		}
	}

	s.logger.Info("registration created", "registration_id", reg.ID, "event_id", eventID, "reference", reference, "amount", reg.PriceAmount.StringFixed(2))
	return &domain.CreateRegistrationResult{
		RegistrationID: reg.ID,
		PaymentURL:     checkout.AuthorizationURL,
		Amount:         reg.PriceAmount,
		Reference:      reference,
	}, nil
}

func (s *registrationService) ListPricing(ctx context.Context, eventID string) ([]*domain.PricingOption, error) {
	if eventID != "" {
		if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrEventNotFound
			}
			return nil, fmt.Errorf("failed to load event: %w", err)
		}
	}
	return s.pricing.List(ctx, eventID)
}

func (s *registrationService) callbackURL(reference string) string {
	if s.config.CallbackURL == "" {
		return ""
	}
	return s.config.CallbackURL + "?reference=" + url.QueryEscape(reference)
}

func normalizeInput(in domain.RegistrationInput) domain.RegistrationInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Organization = strings.TrimSpace(in.Organization)
	in.Designation = strings.TrimSpace(in.Designation)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.ParticipationType = strings.ToLower(strings.TrimSpace(in.ParticipationType))
	in.ParticipationTypeOther = strings.TrimSpace(in.ParticipationTypeOther)
	in.InterestAreasOther = strings.TrimSpace(in.InterestAreasOther)
	areas := make([]string, 0, len(in.InterestAreas))
	for _, a := range in.InterestAreas {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}
	in.InterestAreas = areas
	return in
}
