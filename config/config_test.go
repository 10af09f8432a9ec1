package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("APP_BASE_URL", "https://app.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("PORT", "")
	t.Setenv("GATEWAY_TIMEOUT", "")
	t.Setenv("RATE_LIMIT_CAPACITY", "")
	t.Setenv("PAYMENT_REFERENCE_PREFIX", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://app.example.com", cfg.AppBaseURL)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://app.example.com/events/payment/verify", cfg.CallbackBaseURL())
	assert.Equal(t, 15*time.Second, cfg.Paystack.Timeout)
	assert.Equal(t, "EVT", cfg.Payment.ReferencePrefix)
	assert.Equal(t, 10, cfg.RateLimit.Capacity)
}

func TestLoad_overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ADMIN_EMAIL", " Admin@Example.com ")
	t.Setenv("EMAIL_INSECURE_SKIP_VERIFY", "yes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Paystack.Timeout)
	assert.Equal(t, 1, cfg.RateLimit.Capacity)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.True(t, cfg.Email.InsecureSkipVerify)
}

func TestLoad_adminRequiresJWTSecret(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Admin.JWTSecret)

	// Admin login stays disabled without a password hash, so no secret is needed.
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	require.NoError(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", "warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "reference", "EVT-1")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"reference":"EVT-1"`)

	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
