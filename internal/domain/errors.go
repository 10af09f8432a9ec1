package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by services and adapters. Controllers map them to HTTP status codes.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrEventNotFound         = errors.New("event not found")
	ErrRegistrationClosed    = errors.New("registration is closed for this event")
	ErrDuplicateRegistration = errors.New("a completed registration already exists for this email")
	ErrPricingNotFound       = errors.New("no active pricing for this participation type")
	ErrPaymentInit           = errors.New("payment initialization failed")
	ErrGatewayVerify         = errors.New("payment verification unavailable")
	ErrStatusConflict        = errors.New("registration is no longer pending")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrNotPaid               = errors.New("registration has not been paid")
	ErrAlreadyCheckedIn      = errors.New("registration already checked in")
	ErrLockNotAcquired       = errors.New("lock not acquired")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
)

// ValidationError lists every field that failed validation, not only the first one.
type ValidationError struct {
	Fields []string
}

// NewValidationError returns a ValidationError for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Is makes errors.Is(err, ErrInvalidInput) true for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
