package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InitializePaymentRequest is sent to the gateway to open a hosted checkout.
// Amount is in major currency units; the adapter converts it.
type InitializePaymentRequest struct {
	Email       string
	Amount      decimal.Decimal
	Reference   string
	CallbackURL string
	Metadata    map[string]any
}

// InitializePaymentResult carries the hosted checkout URL and the gateway's own reference.
type InitializePaymentResult struct {
	AuthorizationURL string
	GatewayReference string
	AccessCode       string
}

// GatewayOutcome is the business outcome reported by the gateway for a transaction.
type GatewayOutcome string

const (
	GatewaySucceeded GatewayOutcome = "succeeded"
	GatewayFailed    GatewayOutcome = "failed"
	// GatewayPending means the gateway has not settled the transaction yet; the registration stays pending.
	GatewayPending GatewayOutcome = "pending"
)

// VerifyPaymentResult is a normal gateway response. A failed payment is a result, not an error.
type VerifyPaymentResult struct {
	Outcome   GatewayOutcome
	Amount    decimal.Decimal
	RawStatus string
	PaidAt    *time.Time
	Metadata  map[string]any
}

// PaymentGateway wraps the external payment provider.
// Initialize fails with ErrPaymentInit; Verify fails with ErrGatewayVerify only on transport problems.
type PaymentGateway interface {
	Initialize(ctx context.Context, req InitializePaymentRequest) (*InitializePaymentResult, error)
	Verify(ctx context.Context, reference string) (*VerifyPaymentResult, error)
}

// WebhookEvent is a gateway webhook notification after signature verification.
type WebhookEvent struct {
	Event     string
	Reference string
}

// WebhookVerifier authenticates and decodes gateway webhook payloads.
type WebhookVerifier interface {
	ParseWebhook(body []byte, signature string) (*WebhookEvent, error)
}

// VerificationResult is returned to the caller of verify.
type VerificationResult struct {
	Success      bool          `json:"success"`
	Status       PaymentStatus `json:"status"`
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event,omitempty"`
	QRCodeURL    string        `json:"qrCodeUrl,omitempty"`
	// Replayed is true when the registration was already completed before this call.
	Replayed bool `json:"-"`
}

// PaymentVerifier reconciles gateway status with a stored registration.
type PaymentVerifier interface {
	Verify(ctx context.Context, reference string) (*VerificationResult, error)
}
