package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventregistration/internal/delivery/http/helpers"
	"eventregistration/internal/domain"
)

// writeServiceError maps a service error to its HTTP status and error code.
// Unknown errors are logged and answered with a generic 500 so wrapped causes never reach the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeValidation, verr.Error(), verr.Fields...)
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrEventNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, domain.ErrEventNotFound.Error())
	case errors.Is(err, domain.ErrRegistrationNotFound), errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, domain.ErrRegistrationNotFound.Error())
	case errors.Is(err, domain.ErrRegistrationClosed):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeRegistrationClosed, domain.ErrRegistrationClosed.Error())
	case errors.Is(err, domain.ErrPricingNotFound):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodePricingNotFound, domain.ErrPricingNotFound.Error())
	case errors.Is(err, domain.ErrDuplicateRegistration):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeDuplicateRegistration, "you have already registered for this event with this email")
	case errors.Is(err, domain.ErrAlreadyCheckedIn), errors.Is(err, domain.ErrNotPaid), errors.Is(err, domain.ErrStatusConflict):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, conflictMessage(err))
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid email or password")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidSignature):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrPaymentInit):
		logger.ErrorContext(r.Context(), "payment initialization failed", "path", r.URL.Path, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodePaymentInit, "could not start payment, please try again")
	case errors.Is(err, domain.ErrGatewayVerify), errors.Is(err, domain.ErrLockNotAcquired):
		logger.WarnContext(r.Context(), "payment verification unavailable", "path", r.URL.Path, "err", err)
		h.WriteJSONError(w, http.StatusServiceUnavailable, h.ErrCodeGatewayUnavailable, "payment verification is temporarily unavailable, please retry")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return domain.ErrAlreadyCheckedIn.Error()
	case errors.Is(err, domain.ErrNotPaid):
		return domain.ErrNotPaid.Error()
	}
	return domain.ErrStatusConflict.Error()
}
