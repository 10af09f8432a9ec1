package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventregistration/internal/delivery/http/helpers"
	"eventregistration/internal/domain"
)

// LoginRequest is the request body for POST /admin/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /admin/login.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// CheckInRequest is the request body for POST /admin/checkin. QRData is the scanned QR content.
type CheckInRequest struct {
	QRData string `json:"qr_data"`
}

// Validate implements Validator.
func (c CheckInRequest) Validate() []string {
	if strings.TrimSpace(c.QRData) == "" {
		return []string{"qr_data is required"}
	}
	return nil
}

// ListRegistrationsResponse is one page of registrations.
type ListRegistrationsResponse struct {
	Items []*RegistrationResponse `json:"items"`
	Meta  h.PaginationMeta        `json:"meta"`
}

type AdminController struct {
	Logger  *slog.Logger
	Service domain.AdminService
}

func NewAdminController(logger *slog.Logger, svc domain.AdminService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// Login godoc
// @Summary Admin login
// @Description Returns a bearer token for the admin endpoints.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} controllers.LoginResponse
// @Failure 400 {object} helpers.APIError "validation_error"
// @Failure 401 {object} helpers.APIError "unauthorized"
// @Router /admin/login [post]
func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer"})
}

// ListRegistrations godoc
// @Summary List registrations for an event
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param status query string false "pending, completed or failed"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListRegistrationsResponse
// @Failure 400 {object} helpers.APIError "bad_request"
// @Failure 401 {object} helpers.APIError "unauthorized"
// @Router /admin/events/{eventID}/registrations [get]
func (c *AdminController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	filter := domain.RegistrationListFilter{
		EventID: r.PathValue("eventID"),
		Status:  domain.PaymentStatus(strings.ToLower(r.URL.Query().Get("status"))),
	}
	page, err := c.Service.ListRegistrations(r.Context(), filter, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	items := make([]*RegistrationResponse, 0, len(page.Items))
	for _, reg := range page.Items {
		items = append(items, newRegistrationResponse(reg))
	}
	h.WriteJSON(w, http.StatusOK, ListRegistrationsResponse{
		Items: items,
		Meta:  h.NewPaginationMeta(params, page.Total),
	})
}

// CheckIn godoc
// @Summary Check in by QR code
// @Description Marks a paid registration as checked in. A second scan of the same code is rejected.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckInRequest true "Scanned QR content"
// @Success 200 {object} controllers.RegistrationResponse
// @Failure 400 {object} helpers.APIError "bad_request"
// @Failure 401 {object} helpers.APIError "unauthorized"
// @Failure 404 {object} helpers.APIError "not_found"
// @Failure 409 {object} helpers.APIError "conflict"
// @Router /admin/checkin [post]
func (c *AdminController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.CheckIn(r.Context(), req.QRData)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, newRegistrationResponse(reg))
}
