package http

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	"eventregistration/internal/delivery/http/controllers"
	"eventregistration/internal/delivery/http/middleware"
	"eventregistration/internal/domain"
)

// RouterDeps holds everything NewRouter wires into the mux.
type RouterDeps struct {
	Logger         *slog.Logger
	Registrations  *controllers.RegistrationController
	Payments       *controllers.PaymentController
	Admin          *controllers.AdminController
	Health         *controllers.HealthController
	TokenVerifier  domain.TokenVerifier
	AllowedOrigins []string
	// Redis backs the registration rate limit; nil disables it.
	Redis     redis.Scripter
	RateLimit middleware.RateLimitConfig
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	requireAdmin := middleware.RequireAdmin(deps.TokenVerifier, deps.Logger)
	limit := middleware.RateLimit(deps.Redis, deps.RateLimit, deps.Logger)

	mux.HandleFunc("GET /health", deps.Health.Health)

	// Registration
	mux.HandleFunc("GET /events/{eventID}/pricing", deps.Registrations.ListPricing)
	mux.HandleFunc("POST /events/{eventID}/registrations", limit(deps.Registrations.CreateRegistration))

	// Payments
	mux.HandleFunc("POST /payments/verify", deps.Payments.VerifyPayment)
	mux.HandleFunc("GET /payments/verify", deps.Payments.VerifyPaymentCallback)
	mux.HandleFunc("POST /payments/webhook", deps.Payments.Webhook)

	// Admin
	mux.HandleFunc("POST /admin/login", deps.Admin.Login)
	mux.HandleFunc("GET /admin/events/{eventID}/registrations", requireAdmin(deps.Admin.ListRegistrations))
	mux.HandleFunc("POST /admin/checkin", requireAdmin(deps.Admin.CheckIn))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(deps.Logger, middleware.CORS(deps.AllowedOrigins, mux))
}
