package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	h "eventregistration/internal/delivery/http/helpers"
	"eventregistration/internal/domain"
)

const (
	webhookSignatureHeader = "x-paystack-signature"
	webhookChargeSuccess   = "charge.success"
	maxWebhookBytes        = 256 << 10
)

// VerifyPaymentRequest is the request body for POST /payments/verify.
type VerifyPaymentRequest struct {
	Reference string `json:"reference"`
}

// Validate implements Validator.
func (v VerifyPaymentRequest) Validate() []string {
	if strings.TrimSpace(v.Reference) == "" {
		return []string{"reference is required"}
	}
	return nil
}

// VerifyPaymentResponse is returned by both verify endpoints. Error is set only when the payment failed.
type VerifyPaymentResponse struct {
	Success      bool                  `json:"success"`
	Status       string                `json:"status"`
	Registration *RegistrationResponse `json:"registration"`
	Event        *domain.Event         `json:"event,omitempty"`
	QRCodeURL    string                `json:"qrCodeUrl,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Status string `json:"status"`
}

type PaymentController struct {
	Logger   *slog.Logger
	Verifier domain.PaymentVerifier
	Webhooks domain.WebhookVerifier
}

func NewPaymentController(logger *slog.Logger, verifier domain.PaymentVerifier, webhooks domain.WebhookVerifier) *PaymentController {
	return &PaymentController{
		Logger:   logger,
		Verifier: verifier,
		Webhooks: webhooks,
	}
}

// VerifyPayment godoc
// @Summary Verify a payment
// @Description Reconciles the gateway status with the registration. Safe to call repeatedly; a completed registration returns the same QR code URL.
// @Tags payments
// @Accept json
// @Produce json
// @Param body body VerifyPaymentRequest true "Payment reference"
// @Success 200 {object} controllers.VerifyPaymentResponse "payment completed"
// @Success 202 {object} controllers.VerifyPaymentResponse "gateway has not settled yet"
// @Failure 400 {object} controllers.VerifyPaymentResponse "payment failed"
// @Failure 404 {object} helpers.APIError "not_found"
// @Failure 503 {object} helpers.APIError "gateway_unavailable"
// @Router /payments/verify [post]
func (c *PaymentController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	c.verify(w, r, strings.TrimSpace(req.Reference))
}

// VerifyPaymentCallback godoc
// @Summary Verify a payment from the gateway redirect
// @Description Same as POST /payments/verify, reading the reference from the query string.
// @Tags payments
// @Produce json
// @Param reference query string true "Payment reference"
// @Success 200 {object} controllers.VerifyPaymentResponse "payment completed"
// @Success 202 {object} controllers.VerifyPaymentResponse "gateway has not settled yet"
// @Failure 400 {object} controllers.VerifyPaymentResponse "payment failed"
// @Failure 404 {object} helpers.APIError "not_found"
// @Failure 503 {object} helpers.APIError "gateway_unavailable"
// @Router /payments/verify [get]
func (c *PaymentController) VerifyPaymentCallback(w http.ResponseWriter, r *http.Request) {
	reference := strings.TrimSpace(r.URL.Query().Get("reference"))
	if reference == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeValidation, "validation failed", "reference is required")
		return
	}
	c.verify(w, r, reference)
}

func (c *PaymentController) verify(w http.ResponseWriter, r *http.Request, reference string) {
	res, err := c.Verifier.Verify(r.Context(), reference)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	body := VerifyPaymentResponse{
		Success:      res.Success,
		Status:       string(res.Status),
		Registration: newRegistrationResponse(res.Registration),
		Event:        res.Event,
		QRCodeURL:    res.QRCodeURL,
	}
	switch res.Status {
	case domain.PaymentStatusCompleted:
		h.WriteJSON(w, http.StatusOK, body)
	case domain.PaymentStatusPending:
		h.WriteJSON(w, http.StatusAccepted, body)
	default:
		body.Error = "payment verification failed, contact support with your reference " + reference
		h.WriteJSON(w, http.StatusBadRequest, body)
	}
}

// Webhook godoc
// @Summary Gateway webhook
// @Description Accepts signed gateway notifications. charge.success runs the same verification as the verify endpoints; other events are acknowledged and ignored.
// @Tags payments
// @Accept json
// @Produce json
// @Param x-paystack-signature header string true "HMAC-SHA512 of the raw body"
// @Success 200 {object} controllers.WebhookResponse
// @Failure 401 {object} helpers.APIError "unauthorized"
// @Failure 503 {object} helpers.APIError "gateway_unavailable"
// @Router /payments/webhook [post]
func (c *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		h.WriteJSONError(w, http.StatusRequestEntityTooLarge, h.ErrCodeBadRequest, "request body too large")
		return
	}
	event, err := c.Webhooks.ParseWebhook(body, r.Header.Get(webhookSignatureHeader))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			c.Logger.WarnContext(r.Context(), "webhook signature rejected")
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid signature")
			return
		}
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid webhook payload")
		return
	}
	if event.Event != webhookChargeSuccess || event.Reference == "" {
		h.WriteJSON(w, http.StatusOK, WebhookResponse{Status: "ignored"})
		return
	}

	res, err := c.Verifier.Verify(r.Context(), event.Reference)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			// Charges for other integrations on the same account land here too.
			c.Logger.InfoContext(r.Context(), "webhook for unknown reference", "reference", event.Reference)
			h.WriteJSON(w, http.StatusOK, WebhookResponse{Status: "ignored"})
			return
		}
		writeServiceError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "webhook processed", "reference", event.Reference, "status", res.Status, "replayed", res.Replayed)
	h.WriteJSON(w, http.StatusOK, WebhookResponse{Status: "processed"})
}
