package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"eventregistration/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memRegistrationRepo is an in-memory RegistrationRepository with the same conditional-update
// semantics as the postgres one.
type memRegistrationRepo struct {
	mu      sync.Mutex
	rows    map[string]*domain.Registration
	created int

	createErr    error
	completeErr  error
	emailSentErr error
}

func newMemRegistrationRepo() *memRegistrationRepo {
	return &memRegistrationRepo{rows: make(map[string]*domain.Registration)}
}

func clone(r *domain.Registration) *domain.Registration {
	c := *r
	c.InterestAreas = append([]string(nil), r.InterestAreas...)
	return &c
}

func (m *memRegistrationRepo) put(r *domain.Registration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[r.ID] = clone(r)
}

func (m *memRegistrationRepo) get(id string) *domain.Registration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		return clone(r)
	}
	return nil
}

func (m *memRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.PaymentReference == reg.PaymentReference {
			return fmt.Errorf("payment reference %q already exists", reg.PaymentReference)
		}
	}
	m.rows[reg.ID] = clone(reg)
	m.created++
	return nil
}

func (m *memRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	if r := m.get(id); r != nil {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memRegistrationRepo) GetByPaymentReference(ctx context.Context, reference string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.PaymentReference == reference {
			return clone(r), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRegistrationRepo) SetGatewayReference(ctx context.Context, id, gatewayReference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.GatewayReference = gatewayReference
	return nil
}

func (m *memRegistrationRepo) transition(id string, apply func(r *domain.Registration) error) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.PaymentStatus != domain.PaymentStatusPending {
		return nil, domain.ErrStatusConflict
	}
	if err := apply(r); err != nil {
		return nil, err
	}
	return clone(r), nil
}

func (m *memRegistrationRepo) MarkCompleted(ctx context.Context, id, qrCodeURL, qrCodeData string, paymentDate time.Time) (*domain.Registration, error) {
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	return m.transition(id, func(r *domain.Registration) error {
		for _, other := range m.rows {
			if other.ID != r.ID && other.PaymentStatus == domain.PaymentStatusCompleted &&
				other.EventID == r.EventID && strings.EqualFold(other.Email, r.Email) {
				return domain.ErrDuplicateRegistration
			}
		}
		r.PaymentStatus = domain.PaymentStatusCompleted
		r.QRCodeURL = qrCodeURL
		r.QRCodeData = qrCodeData
		r.PaymentDate = &paymentDate
		return nil
	})
}

func (m *memRegistrationRepo) MarkFailed(ctx context.Context, id string) (*domain.Registration, error) {
	return m.transition(id, func(r *domain.Registration) error {
		r.PaymentStatus = domain.PaymentStatusFailed
		return nil
	})
}

func (m *memRegistrationRepo) MarkEmailSent(ctx context.Context, id string, sentAt time.Time) error {
	if m.emailSentErr != nil {
		return m.emailSentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.EmailSent = true
	r.EmailSentAt = &sentAt
	return nil
}

func (m *memRegistrationRepo) MarkCheckedIn(ctx context.Context, id string, at time.Time) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.PaymentStatus != domain.PaymentStatusCompleted {
		return nil, domain.ErrNotPaid
	}
	if r.CheckedInAt != nil {
		return nil, domain.ErrAlreadyCheckedIn
	}
	r.CheckedInAt = &at
	return clone(r), nil
}

func (m *memRegistrationRepo) HasCompletedDuplicate(ctx context.Context, eventID, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.EventID == eventID && strings.EqualFold(r.Email, email) && r.PaymentStatus == domain.PaymentStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRegistrationRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRegistrationRepo) List(ctx context.Context, filter domain.RegistrationListFilter, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Registration
	for _, r := range m.rows {
		if filter.EventID != "" && r.EventID != filter.EventID {
			continue
		}
		if filter.Status != "" && r.PaymentStatus != filter.Status {
			continue
		}
		out = append(out, clone(r))
	}
	return out, len(out), nil
}

type fakeEventRepo struct {
	events map[string]*domain.Event
	err    error
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.events[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

// fakePricingRepo prices by participation type; price changes take effect on the next lookup.
type fakePricingRepo struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	err    error
}

func (f *fakePricingRepo) setPrice(participationType string, price decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[participationType] = price
}

func (f *fakePricingRepo) FindActive(ctx context.Context, eventID, participationType string) (*domain.PricingOption, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.prices[participationType]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.PricingOption{ID: "price-" + participationType, EventID: eventID, ParticipationType: participationType, Price: p, IsActive: true}, nil
}

func (f *fakePricingRepo) ListActive(ctx context.Context, eventID string) ([]*domain.PricingOption, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.PricingOption
	order := map[string]int{domain.ParticipationStudent: 1, domain.ParticipationProfessional: 2, domain.ParticipationCorporate: 3}
	for t, p := range f.prices {
		out = append(out, &domain.PricingOption{ID: "price-" + t, ParticipationType: t, Price: p, IsActive: true, DisplayOrder: order[t]})
	}
	return out, nil
}

type fakeGateway struct {
	mu          sync.Mutex
	initResult  *domain.InitializePaymentResult
	initErr     error
	initReqs    []domain.InitializePaymentRequest
	verifyRes   *domain.VerifyPaymentResult
	verifyErr   error
	verifyCalls int32
	verifyDelay time.Duration
}

func (f *fakeGateway) Initialize(ctx context.Context, req domain.InitializePaymentRequest) (*domain.InitializePaymentResult, error) {
	f.mu.Lock()
	f.initReqs = append(f.initReqs, req)
	f.mu.Unlock()
	if f.initErr != nil {
		return nil, f.initErr
	}
	if f.initResult != nil {
		return f.initResult, nil
	}
	return &domain.InitializePaymentResult{AuthorizationURL: "https://checkout.example.com/" + req.Reference, GatewayReference: req.Reference}, nil
}

func (f *fakeGateway) Verify(ctx context.Context, reference string) (*domain.VerifyPaymentResult, error) {
	atomic.AddInt32(&f.verifyCalls, 1)
	if f.verifyDelay > 0 {
		time.Sleep(f.verifyDelay)
	}
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verifyRes, nil
}

type fakeEncoder struct {
	calls int32
	err   error
}

func (f *fakeEncoder) EncodePNG(content string) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png:" + content), nil
}

type fakeStorage struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeStorage) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeStorage) uploads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.keys)
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.RegistrationConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return f.err
}

func (f *fakeEmailService) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.RegistrationCompletedEvent
	err    error
}

func (f *fakePublisher) PublishRegistrationCompleted(ctx context.Context, event domain.RegistrationCompletedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }
func (fakeHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type fakeTokenIssuer struct {
	subject string
	roles   []string
	err     error
}

func (f *fakeTokenIssuer) Issue(subject, email string, roles []string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.subject = subject
	f.roles = roles
	return "token-for-" + subject, nil
}

var errBoom = errors.New("boom")
