package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventregistration/internal/domain"
)

const (
	defaultLockTTL = 60 * time.Second
	// Longest Verify waits on the broker after a registration completes.
	defaultPublishTimeout = 3 * time.Second
)

type paymentVerifier struct {
	regRepo     domain.RegistrationRepository
	eventRepo   domain.EventRepository
	gateway     domain.PaymentGateway
	fulfillment domain.FulfillmentService
	locker      domain.Locker
	publisher   domain.EventPublisher
	lockTTL     time.Duration
	publishWait time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// NewPaymentVerifier creates the verification orchestrator.
// Fulfillment for one reference runs at most once: calls are serialized by the locker and the
// pending -> completed transition is a conditional update, so a caller that loses either
// returns the stored result instead of fulfilling again.
func NewPaymentVerifier(
	regRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	gateway domain.PaymentGateway,
	fulfillment domain.FulfillmentService,
	locker domain.Locker,
	publisher domain.EventPublisher,
	lockTTL time.Duration,
	logger *slog.Logger,
) domain.PaymentVerifier {
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	return &paymentVerifier{
		regRepo:     regRepo,
		eventRepo:   eventRepo,
		gateway:     gateway,
		fulfillment: fulfillment,
		locker:      locker,
		publisher:   publisher,
		lockTTL:     lockTTL,
		publishWait: defaultPublishTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

func (v *paymentVerifier) Verify(ctx context.Context, reference string) (*domain.VerificationResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domain.NewValidationError("reference")
	}

	release, err := v.locker.Acquire(ctx, "payment:"+reference, v.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", reference, err)
	}
	defer release()

	reg, err := v.regRepo.GetByPaymentReference(ctx, reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}
	event := v.loadEvent(ctx, reg.EventID)

	if reg.PaymentStatus.Terminal() {
		return v.resultFor(reg, event, true), nil
	}

	res, err := v.gateway.Verify(ctx, reference)
	if err != nil {
		v.logger.Error("gateway verification failed", "reference", reference, "registration_id", reg.ID, "error", err)
		if !errors.Is(err, domain.ErrGatewayVerify) {
			err = fmt.Errorf("%w: %v", domain.ErrGatewayVerify, err)
		}
		return nil, err
	}

	switch res.Outcome {
	case domain.GatewayPending:
		v.logger.Info("payment not settled yet", "reference", reference, "gateway_status", res.RawStatus)
		return v.resultFor(reg, event, false), nil
	case domain.GatewaySucceeded:
		if res.Amount.LessThan(reg.PriceAmount) {
			v.logger.Warn("gateway amount below registration price",
				"reference", reference, "registration_id", reg.ID,
				"paid", res.Amount.StringFixed(2), "expected", reg.PriceAmount.StringFixed(2))
			return v.fail(ctx, reg, event)
		}
		return v.complete(ctx, reg, event, res)
	default:
		v.logger.Info("payment failed", "reference", reference, "registration_id", reg.ID, "gateway_status", res.RawStatus)
		return v.fail(ctx, reg, event)
	}
}

func (v *paymentVerifier) fail(ctx context.Context, reg *domain.Registration, event *domain.Event) (*domain.VerificationResult, error) {
	updated, err := v.regRepo.MarkFailed(ctx, reg.ID)
	if errors.Is(err, domain.ErrStatusConflict) {
		return v.reread(ctx, reg.ID, event)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark registration failed: %w", err)
	}
	return v.resultFor(updated, event, false), nil
}

func (v *paymentVerifier) complete(ctx context.Context, reg *domain.Registration, event *domain.Event, res *domain.VerifyPaymentResult) (*domain.VerificationResult, error) {
	qr, err := v.fulfillment.IssueQRCode(ctx, reg, event)
	if err != nil {
		// Still pending: a retry issues the code again.
		v.logger.Error("qr code issuance failed", "reference", reg.PaymentReference, "registration_id", reg.ID, "error", err)
		return nil, fmt.Errorf("failed to issue qr code: %w", err)
	}

	paidAt := v.now()
	if res.PaidAt != nil {
		paidAt = *res.PaidAt
	}
	updated, err := v.regRepo.MarkCompleted(ctx, reg.ID, qr.URL, qr.Data, paidAt)
	switch {
	case errors.Is(err, domain.ErrStatusConflict):
		return v.reread(ctx, reg.ID, event)
	case errors.Is(err, domain.ErrDuplicateRegistration):
		v.logger.Error("paid registration duplicates a completed one, needs manual refund",
			"reference", reg.PaymentReference, "registration_id", reg.ID, "email", reg.Email)
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("failed to mark registration completed: %w", err)
	}

	if v.fulfillment.SendConfirmation(ctx, updated, event) {
		sentAt := v.now()
		if err := v.regRepo.MarkEmailSent(ctx, updated.ID, sentAt); err != nil {
			v.logger.Warn("failed to record email sent", "registration_id", updated.ID, "error", err)
		} else {
			updated.EmailSent = true
			updated.EmailSentAt = &sentAt
		}
	}

	v.publish(ctx, domain.RegistrationCompletedEvent{
		RegistrationID:    updated.ID,
		EventID:           updated.EventID,
		Email:             updated.Email,
		ParticipationType: updated.ParticipationType,
		Amount:            updated.PriceAmount.StringFixed(2),
		PaymentReference:  updated.PaymentReference,
		QRCodeURL:         updated.QRCodeURL,
		CompletedAt:       paidAt.UTC().Format(time.RFC3339),
	})

	v.logger.Info("registration completed", "registration_id", updated.ID, "reference", updated.PaymentReference, "email_sent", updated.EmailSent)
	return v.resultFor(updated, event, false), nil
}

// publish waits at most publishWait. A publisher that ignores its context is left
// to finish in the background.
func (v *paymentVerifier) publish(ctx context.Context, event domain.RegistrationCompletedEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.publishWait)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- v.publisher.PublishRegistrationCompleted(ctx, event)
	}()
	select {
	case err := <-done:
		if err != nil {
			v.logger.Warn("failed to publish registration.completed", "registration_id", event.RegistrationID, "error", err)
		}
	case <-ctx.Done():
		v.logger.Warn("publishing registration.completed timed out", "registration_id", event.RegistrationID, "timeout", v.publishWait)
	}
}

// reread returns the row a concurrent verifier already moved out of pending.
func (v *paymentVerifier) reread(ctx context.Context, id string, event *domain.Event) (*domain.VerificationResult, error) {
	current, err := v.regRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload registration: %w", err)
	}
	return v.resultFor(current, event, true), nil
}

func (v *paymentVerifier) loadEvent(ctx context.Context, eventID string) *domain.Event {
	if eventID == "" {
		return nil
	}
	event, err := v.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		v.logger.Warn("failed to load event for verification", "event_id", eventID, "error", err)
		return nil
	}
	return event
}

func (v *paymentVerifier) resultFor(reg *domain.Registration, event *domain.Event, replayed bool) *domain.VerificationResult {
	res := &domain.VerificationResult{
		Success:      reg.PaymentStatus == domain.PaymentStatusCompleted,
		Status:       reg.PaymentStatus,
		Registration: reg,
		Event:        event,
		Replayed:     replayed,
	}
	if res.Success {
		res.QRCodeURL = reg.QRCodeURL
	}
	return res
}
