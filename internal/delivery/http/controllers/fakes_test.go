package controllers

import (
	"context"
	"io"
	"log/slog"

	"eventregistration/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeRegistrationService struct {
	result      *domain.CreateRegistrationResult
	err         error
	pricing     []*domain.PricingOption
	pricingErr  error
	lastEventID string
	lastInput   domain.RegistrationInput
}

func (f *fakeRegistrationService) CreateRegistration(ctx context.Context, eventID string, in domain.RegistrationInput) (*domain.CreateRegistrationResult, error) {
	f.lastEventID = eventID
	f.lastInput = in
	return f.result, f.err
}

func (f *fakeRegistrationService) ListPricing(ctx context.Context, eventID string) ([]*domain.PricingOption, error) {
	f.lastEventID = eventID
	return f.pricing, f.pricingErr
}

type fakeVerifier struct {
	result        *domain.VerificationResult
	err           error
	lastReference string
	calls         int
}

func (f *fakeVerifier) Verify(ctx context.Context, reference string) (*domain.VerificationResult, error) {
	f.calls++
	f.lastReference = reference
	return f.result, f.err
}

type fakeWebhooks struct {
	event *domain.WebhookEvent
	err   error
}

func (f *fakeWebhooks) ParseWebhook(body []byte, signature string) (*domain.WebhookEvent, error) {
	return f.event, f.err
}

type fakeAdminService struct {
	token      string
	loginErr   error
	page       *domain.RegistrationPage
	listErr    error
	lastFilter domain.RegistrationListFilter
	lastParams domain.PaginationParams
	checkedIn  *domain.Registration
	checkInErr error
	lastQRData string
}

func (f *fakeAdminService) Login(ctx context.Context, email, password string) (string, error) {
	return f.token, f.loginErr
}

func (f *fakeAdminService) ListRegistrations(ctx context.Context, filter domain.RegistrationListFilter, params domain.PaginationParams) (*domain.RegistrationPage, error) {
	f.lastFilter = filter
	f.lastParams = params
	return f.page, f.listErr
}

func (f *fakeAdminService) CheckIn(ctx context.Context, qrData string) (*domain.Registration, error) {
	f.lastQRData = qrData
	return f.checkedIn, f.checkInErr
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }
