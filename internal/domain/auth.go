package domain

import (
	"context"
	"time"
)

// RoleAdmin is the only role issued by this service.
const RoleAdmin = "admin"

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated principal.
type TokenIssuer interface {
	Issue(subject, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// RegistrationPage is one page of an admin registration listing.
type RegistrationPage struct {
	Items []*Registration
	Total int
}

// AdminService backs the narrow admin area: login, listing and QR check-in.
type AdminService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ListRegistrations(ctx context.Context, filter RegistrationListFilter, params PaginationParams) (*RegistrationPage, error)
	CheckIn(ctx context.Context, qrData string) (*Registration, error)
}
