package helpers

import (
	"encoding/json"
	"net/http"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest            = "bad_request"
	ErrCodeValidation            = "validation_error"
	ErrCodeUnauthorized          = "unauthorized"
	ErrCodeNotFound              = "not_found"
	ErrCodeConflict              = "conflict"
	ErrCodeRegistrationClosed    = "registration_closed"
	ErrCodePricingNotFound       = "pricing_not_found"
	ErrCodeDuplicateRegistration = "duplicate_registration"
	ErrCodePaymentInit           = "payment_init_failed"
	ErrCodePaymentFailed         = "payment_failed"
	ErrCodeGatewayUnavailable    = "gateway_unavailable"
	ErrCodeRateLimited           = "rate_limited"
	ErrCodeInternalError         = "internal_error"
)

// APIError is the body of every error response.
// swagger:model APIError
type APIError struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and encodes data as the body.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteJSONError writes an APIError with the given code, message and optional details.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string, details ...string) {
	WriteJSON(w, statusCode, APIError{Error: message, Code: code, Details: details})
}
