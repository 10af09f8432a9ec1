package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventregistration/internal/domain"
)

// AdminConfig holds the single admin account. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	Email        string
	PasswordHash string
	TokenExpiry  time.Duration
}

type adminService struct {
	config  AdminConfig
	hasher  domain.PasswordHasher
	tokens  domain.TokenIssuer
	regRepo domain.RegistrationRepository
	now     func() time.Time
}

// NewAdminService creates an AdminService.
func NewAdminService(config AdminConfig, hasher domain.PasswordHasher, tokens domain.TokenIssuer, regRepo domain.RegistrationRepository) domain.AdminService {
	config.Email = strings.ToLower(strings.TrimSpace(config.Email))
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 12 * time.Hour
	}
	return &adminService{config: config, hasher: hasher, tokens: tokens, regRepo: regRepo, now: time.Now}
}

func (s *adminService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", domain.NewValidationError(missingCredentials(email, password)...)
	}
	if s.config.Email == "" || s.config.PasswordHash == "" || email != s.config.Email {
		return "", domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(s.config.PasswordHash, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(s.config.Email, s.config.Email, []string{domain.RoleAdmin}, s.config.TokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

func (s *adminService) ListRegistrations(ctx context.Context, filter domain.RegistrationListFilter, params domain.PaginationParams) (*domain.RegistrationPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", domain.ErrInvalidInput, filter.Status)
	}
	items, total, err := s.regRepo.List(ctx, filter, params.Normalized())
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return &domain.RegistrationPage{Items: items, Total: total}, nil
}

// CheckIn accepts the scanned qr_code_data. It must match the payload stored at completion,
// so a code from an earlier attempt or a hand-edited payload is rejected.
func (s *adminService) CheckIn(ctx context.Context, qrData string) (*domain.Registration, error) {
	qrData = strings.TrimSpace(qrData)
	if qrData == "" {
		return nil, domain.NewValidationError("qr_data")
	}
	var payload domain.QRPayload
	if err := json.Unmarshal([]byte(qrData), &payload); err != nil || payload.ID == "" {
		return nil, fmt.Errorf("%w: unreadable qr code", domain.ErrInvalidInput)
	}
	reg, err := s.regRepo.GetByID(ctx, payload.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}
	if reg.PaymentStatus != domain.PaymentStatusCompleted {
		return nil, domain.ErrNotPaid
	}
	if reg.QRCodeData != qrData || !strings.EqualFold(reg.Email, payload.Email) {
		return nil, fmt.Errorf("%w: qr code does not match registration", domain.ErrInvalidInput)
	}
	return s.regRepo.MarkCheckedIn(ctx, reg.ID, s.now())
}

func missingCredentials(email, password string) []string {
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	return missing
}
