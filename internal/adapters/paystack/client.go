package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eventregistration/internal/domain"
)

// minorUnitMultiplier converts major currency units to the gateway's minor unit (kobo, cents).
var minorUnitMultiplier = decimal.NewFromInt(100)

// Config holds the gateway credentials and routing options.
type Config struct {
	SecretKey string
	BaseURL   string
	Currency  string
	// Subaccount routes settlement to a sub-merchant; Bearer decides who pays the fees ("account" or "subaccount").
	Subaccount string
	Bearer     string
	Timeout    time.Duration
}

type client struct {
	http   *http.Client
	config Config
}

// Client is the gateway adapter plus webhook verification.
type Client interface {
	domain.PaymentGateway
	domain.WebhookVerifier
}

// NewClient returns a Paystack client. A nil httpClient gets one with the configured timeout.
func NewClient(config Config, httpClient *http.Client) Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.paystack.co"
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &client{http: httpClient, config: config}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	Subaccount  string         `json:"subaccount,omitempty"`
	Bearer      string         `json:"bearer,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status          string         `json:"status"`
	Reference       string         `json:"reference"`
	Amount          int64          `json:"amount"`
	GatewayResponse string         `json:"gateway_response"`
	PaidAt          *time.Time     `json:"paid_at"`
	Metadata        map[string]any `json:"metadata"`
}

// ToMinorUnits converts an amount in major units to the gateway's integer minor unit.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitMultiplier).Round(0).IntPart()
}

// FromMinorUnits converts a gateway minor-unit amount back to major units.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(minorUnitMultiplier)
}

func (c *client) Initialize(ctx context.Context, req domain.InitializePaymentRequest) (*domain.InitializePaymentResult, error) {
	body := initializeRequest{
		Email:       req.Email,
		Amount:      ToMinorUnits(req.Amount),
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Currency:    c.config.Currency,
		Metadata:    req.Metadata,
	}
	if c.config.Subaccount != "" {
		body.Subaccount = c.config.Subaccount
		body.Bearer = c.config.Bearer
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrPaymentInit, err)
	}

	env, status, err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentInit, err)
	}
	if status != http.StatusOK || !env.Status {
		return nil, fmt.Errorf("%w: gateway returned status %d: %s", domain.ErrPaymentInit, status, env.Message)
	}
	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrPaymentInit, err)
	}
	if data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: gateway returned no authorization url", domain.ErrPaymentInit)
	}
	if data.Reference == "" {
		data.Reference = req.Reference
	}
	return &domain.InitializePaymentResult{
		AuthorizationURL: data.AuthorizationURL,
		GatewayReference: data.Reference,
		AccessCode:       data.AccessCode,
	}, nil
}

func (c *client) Verify(ctx context.Context, reference string) (*domain.VerifyPaymentResult, error) {
	env, status, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayVerify, err)
	}
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests || status == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: gateway returned status %d: %s", domain.ErrGatewayVerify, status, env.Message)
	}
	if status != http.StatusOK || !env.Status {
		// A definitive rejection (unknown transaction, bad reference) is a business failure.
		return &domain.VerifyPaymentResult{
			Outcome:   domain.GatewayFailed,
			RawStatus: env.Message,
		}, nil
	}

	var data verifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrGatewayVerify, err)
	}
	return &domain.VerifyPaymentResult{
		Outcome:   outcomeFor(data.Status),
		Amount:    FromMinorUnits(data.Amount),
		RawStatus: data.Status,
		PaidAt:    data.PaidAt,
		Metadata:  data.Metadata,
	}, nil
}

func outcomeFor(status string) domain.GatewayOutcome {
	switch strings.ToLower(status) {
	case "success":
		return domain.GatewaySucceeded
	// Paystack reports an initialized but unpaid checkout as abandoned; the payer can still pay.
	case "ongoing", "pending", "processing", "queued", "abandoned":
		return domain.GatewayPending
	default:
		return domain.GatewayFailed
	}
}

// do performs the request and decodes the envelope. Transport and decode problems are returned as errors;
// the HTTP status is returned alongside a decoded envelope so callers can classify gateway rejections.
func (c *client) do(ctx context.Context, method, path string, body []byte) (*envelope, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to reach paystack: %w", err)
	}
	defer resp.Body.Close()

	env := &envelope{}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			return &envelope{Message: http.StatusText(resp.StatusCode)}, resp.StatusCode, nil
		}
		return nil, resp.StatusCode, fmt.Errorf("failed to decode paystack response: %w", err)
	}
	return env, resp.StatusCode, nil
}

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// ParseWebhook checks the x-paystack-signature header (hex HMAC-SHA512 of the raw body keyed with the secret key).
func (c *client) ParseWebhook(body []byte, signature string) (*domain.WebhookEvent, error) {
	if !ValidSignature(c.config.SecretKey, body, signature) {
		return nil, domain.ErrInvalidSignature
	}
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	return &domain.WebhookEvent{Event: payload.Event, Reference: payload.Data.Reference}, nil
}

// Sign returns the hex HMAC-SHA512 signature of body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidSignature compares signature against the expected one in constant time.
func ValidSignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
