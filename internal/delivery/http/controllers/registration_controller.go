package controllers

import (
	"log/slog"
	"net/http"

	h "eventregistration/internal/delivery/http/helpers"
	"eventregistration/internal/domain"
)

// CreateRegistrationRequest is the request body for POST /events/{eventID}/registrations.
// Required fields are checked by the service so every missing one is reported together.
type CreateRegistrationRequest struct {
	FullName               string   `json:"full_name"`
	Organization           string   `json:"organization"`
	Designation            string   `json:"designation"`
	Email                  string   `json:"email"`
	Phone                  string   `json:"phone"`
	ParticipationType      string   `json:"participation_type"`
	ParticipationTypeOther string   `json:"participation_type_other"`
	InterestAreas          []string `json:"interest_areas"`
	InterestAreasOther     string   `json:"interest_areas_other"`
}

func (req CreateRegistrationRequest) toInput() domain.RegistrationInput {
	return domain.RegistrationInput{
		FullName:               req.FullName,
		Organization:           req.Organization,
		Designation:            req.Designation,
		Email:                  req.Email,
		Phone:                  req.Phone,
		ParticipationType:      req.ParticipationType,
		ParticipationTypeOther: req.ParticipationTypeOther,
		InterestAreas:          req.InterestAreas,
		InterestAreasOther:     req.InterestAreasOther,
	}
}

// CreateRegistrationResponse carries what the client needs to redirect to checkout.
type CreateRegistrationResponse struct {
	RegistrationID string  `json:"registrationId"`
	PaymentURL     string  `json:"paymentUrl"`
	Amount         float64 `json:"amount"`
	Reference      string  `json:"reference"`
}

// PricingOptionResponse is one entry of GET /events/{eventID}/pricing.
type PricingOptionResponse struct {
	ID                string  `json:"id"`
	ParticipationType string  `json:"participation_type"`
	Price             float64 `json:"price"`
	DisplayOrder      int     `json:"display_order"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateRegistration godoc
// @Summary Register for an event
// @Description Creates a pending registration with the current price and opens a hosted checkout. Redirect the user to paymentUrl.
// @Tags registrations
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body CreateRegistrationRequest true "Registration form"
// @Success 200 {object} controllers.CreateRegistrationResponse
// @Failure 400 {object} helpers.APIError "validation_error, registration_closed or pricing_not_found"
// @Failure 404 {object} helpers.APIError "not_found"
// @Failure 409 {object} helpers.APIError "duplicate_registration"
// @Failure 429 {object} helpers.APIError "rate_limited"
// @Failure 500 {object} helpers.APIError "payment_init_failed or internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *RegistrationController) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req CreateRegistrationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.CreateRegistration(r.Context(), eventID, req.toInput())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CreateRegistrationResponse{
		RegistrationID: res.RegistrationID,
		PaymentURL:     res.PaymentURL,
		Amount:         res.Amount.InexactFloat64(),
		Reference:      res.Reference,
	})
}

// ListPricing godoc
// @Summary List pricing options
// @Description Active pricing for the event; event-specific rows take precedence over global ones.
// @Tags registrations
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {array} controllers.PricingOptionResponse
// @Failure 404 {object} helpers.APIError "not_found"
// @Failure 500 {object} helpers.APIError "internal_error"
// @Router /events/{eventID}/pricing [get]
func (c *RegistrationController) ListPricing(w http.ResponseWriter, r *http.Request) {
	options, err := c.Service.ListPricing(r.Context(), r.PathValue("eventID"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	out := make([]PricingOptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, PricingOptionResponse{
			ID:                o.ID,
			ParticipationType: o.ParticipationType,
			Price:             o.Price.InexactFloat64(),
			DisplayOrder:      o.DisplayOrder,
		})
	}
	h.WriteJSON(w, http.StatusOK, out)
}
