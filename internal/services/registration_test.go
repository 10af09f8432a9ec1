package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventregistration/internal/domain"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type registrationFixture struct {
	regs    *memRegistrationRepo
	events  *fakeEventRepo
	pricing *fakePricingRepo
	gateway *fakeGateway
	svc     *registrationService
}

func openEvent(id string) *domain.Event {
	deadline := testNow.Add(24 * time.Hour)
	return &domain.Event{
		ID:                      id,
		Title:                   "Nutrition Summit",
		Status:                  domain.EventStatusUpcoming,
		RegistrationDeadline:    &deadline,
		HasInternalRegistration: true,
	}
}

func newRegistrationFixture() *registrationFixture {
	f := &registrationFixture{
		regs: newMemRegistrationRepo(),
		events: &fakeEventRepo{events: map[string]*domain.Event{
			"E1": openEvent("E1"),
			"E2": openEvent("E2"),
		}},
		pricing: &fakePricingRepo{prices: map[string]decimal.Decimal{
			domain.ParticipationProfessional: decimal.NewFromInt(2500),
			domain.ParticipationStudent:      decimal.NewFromInt(1000),
		}},
		gateway: &fakeGateway{},
	}
	refs := &ReferenceGenerator{now: func() time.Time { return time.UnixMilli(123) }, randN: func(int) int { return 456 }}
	n := 0
	svc := NewRegistrationService(f.regs, f.events, NewPricingResolver(f.pricing), f.gateway, refs,
		RegistrationConfig{ReferencePrefix: "EVT", CallbackURL: "https://app.example.com/events/payment/verify"},
		discardLogger()).(*registrationService)
	svc.now = func() time.Time { return testNow }
	svc.newID = func() string {
		n++
		return fmt.Sprintf("reg-%d", n)
	}
	// Distinct references per call so the store's uniqueness constraint is not hit.
	svc.refs.randN = func(int) int { return 456 + n }
	f.svc = svc
	return f
}

func validInput() domain.RegistrationInput {
	return domain.RegistrationInput{
		FullName:          "Ada Lovelace",
		Email:             "a@x.com",
		Phone:             "+2348000000000",
		ParticipationType: domain.ParticipationProfessional,
		InterestAreas:     []string{"nutrition", " sports "},
	}
}

func TestRegistrationService_CreateRegistration_success(t *testing.T) {
	f := newRegistrationFixture()

	res, err := f.svc.CreateRegistration(context.Background(), "E1", validInput())
	require.NoError(t, err)
	assert.Equal(t, "reg-1", res.RegistrationID)
	assert.Equal(t, "EVT-123-456", res.Reference)
	assert.Equal(t, "https://checkout.example.com/EVT-123-456", res.PaymentURL)
	assert.True(t, decimal.NewFromInt(2500).Equal(res.Amount))

	stored := f.regs.get("reg-1")
	require.NotNil(t, stored)
	assert.Equal(t, domain.PaymentStatusPending, stored.PaymentStatus)
	assert.Equal(t, "EVT-123-456", stored.GatewayReference)
	assert.Equal(t, []string{"nutrition", "sports"}, stored.InterestAreas)

	require.Len(t, f.gateway.initReqs, 1)
	req := f.gateway.initReqs[0]
	assert.Equal(t, "a@x.com", req.Email)
	assert.Equal(t, "https://app.example.com/events/payment/verify?reference=EVT-123-456", req.CallbackURL)
	assert.Equal(t, "reg-1", req.Metadata["registration_id"])
	assert.Equal(t, "E1", req.Metadata["event_id"])
}

func TestRegistrationService_CreateRegistration_validation(t *testing.T) {
	f := newRegistrationFixture()

	_, err := f.svc.CreateRegistration(context.Background(), "E1", domain.RegistrationInput{FullName: "  ", Phone: "1"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"full_name", "email", "participation_type"}, verr.Fields)

	in := validInput()
	in.Email = "not-an-email"
	_, err = f.svc.CreateRegistration(context.Background(), "E1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.regs.created)
}

func TestRegistrationService_CreateRegistration_eventRules(t *testing.T) {
	past := testNow.Add(-time.Hour)
	tests := []struct {
		name    string
		event   *domain.Event
		eventID string
		wantErr error
	}{
		{name: "unknown event", eventID: "missing", wantErr: domain.ErrEventNotFound},
		{name: "deadline passed", eventID: "E3", event: &domain.Event{ID: "E3", Status: domain.EventStatusUpcoming, HasInternalRegistration: true, RegistrationDeadline: &past}, wantErr: domain.ErrRegistrationClosed},
		{name: "not upcoming", eventID: "E3", event: &domain.Event{ID: "E3", Status: domain.EventStatusOngoing, HasInternalRegistration: true}, wantErr: domain.ErrRegistrationClosed},
		{name: "external registration", eventID: "E3", event: &domain.Event{ID: "E3", Status: domain.EventStatusUpcoming, RegistrationType: "external"}, wantErr: domain.ErrRegistrationClosed},
		{name: "internal by type", eventID: "E3", event: &domain.Event{ID: "E3", Status: domain.EventStatusUpcoming, RegistrationType: domain.RegistrationTypeInternal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRegistrationFixture()
			if tt.event != nil {
				f.events.events[tt.event.ID] = tt.event
			}
			_, err := f.svc.CreateRegistration(context.Background(), tt.eventID, validInput())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, f.regs.created)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRegistrationService_CreateRegistration_pricingNotFound(t *testing.T) {
	for _, pt := range []string{"vip", domain.ParticipationCorporate} {
		t.Run(pt, func(t *testing.T) {
			f := newRegistrationFixture()
			in := validInput()
			in.ParticipationType = pt
			_, err := f.svc.CreateRegistration(context.Background(), "E1", in)
			require.ErrorIs(t, err, domain.ErrPricingNotFound)
			assert.Empty(t, f.gateway.initReqs)
		})
	}
}

func TestRegistrationService_CreateRegistration_duplicate(t *testing.T) {
	f := newRegistrationFixture()
	f.regs.put(&domain.Registration{ID: "done", EventID: "E1", Email: "a@x.com", PaymentStatus: domain.PaymentStatusCompleted, PaymentReference: "EVT-old"})
	f.regs.put(&domain.Registration{ID: "abandoned", EventID: "E2", Email: "a@x.com", PaymentStatus: domain.PaymentStatusFailed, PaymentReference: "EVT-older"})

	in := validInput()
	in.Email = "A@X.com"
	_, err := f.svc.CreateRegistration(context.Background(), "E1", in)
	require.ErrorIs(t, err, domain.ErrDuplicateRegistration)

	// Same email, different event; a failed attempt there does not block.
	_, err = f.svc.CreateRegistration(context.Background(), "E2", in)
	require.NoError(t, err)
}

func TestRegistrationService_CreateRegistration_priceSnapshot(t *testing.T) {
	f := newRegistrationFixture()
	f.pricing.setPrice(domain.ParticipationProfessional, decimal.NewFromInt(5000))

	res, err := f.svc.CreateRegistration(context.Background(), "E1", validInput())
	require.NoError(t, err)

	f.pricing.setPrice(domain.ParticipationProfessional, decimal.NewFromInt(6000))

	stored := f.regs.get(res.RegistrationID)
	require.NotNil(t, stored)
	assert.True(t, decimal.NewFromInt(5000).Equal(stored.PriceAmount))
}

func TestRegistrationService_CreateRegistration_initFailureRollsBack(t *testing.T) {
	f := newRegistrationFixture()
	f.gateway.initErr = fmt.Errorf("%w: gateway returned status 400", domain.ErrPaymentInit)

	_, err := f.svc.CreateRegistration(context.Background(), "E1", validInput())
	require.ErrorIs(t, err, domain.ErrPaymentInit)

	assert.Equal(t, 1, f.regs.created)
	_, err = f.regs.GetByID(context.Background(), "reg-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrationService_CreateRegistration_plainGatewayErrorIsInitError(t *testing.T) {
	f := newRegistrationFixture()
	f.gateway.initErr = errBoom

	_, err := f.svc.CreateRegistration(context.Background(), "E1", validInput())
	require.ErrorIs(t, err, domain.ErrPaymentInit)
	assert.Nil(t, f.regs.get("reg-1"))
}

func TestRegistrationService_ListPricing(t *testing.T) {
	f := newRegistrationFixture()

	opts, err := f.svc.ListPricing(context.Background(), "E1")
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, domain.ParticipationStudent, opts[0].ParticipationType)
	assert.Equal(t, domain.ParticipationProfessional, opts[1].ParticipationType)

	_, err = f.svc.ListPricing(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}
