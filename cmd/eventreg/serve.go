package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"eventregistration/config"
	"eventregistration/internal/adapters/auth"
	"eventregistration/internal/adapters/broker"
	"eventregistration/internal/adapters/email"
	"eventregistration/internal/adapters/lock"
	"eventregistration/internal/adapters/paystack"
	"eventregistration/internal/adapters/qrcode"
	"eventregistration/internal/adapters/storage"
	deliveryhttp "eventregistration/internal/delivery/http"
	"eventregistration/internal/delivery/http/controllers"
	"eventregistration/internal/delivery/http/middleware"
	"eventregistration/internal/domain"
	"eventregistration/internal/repository/postgres"
	"eventregistration/internal/services"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Environment, cfg.LogLevel, os.Stdout)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) error {
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if migrate {
		version, err := postgres.Migrate(db)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "version", version)
	}

	// Repositories
	regRepo := postgres.NewRegistrationRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	pricingRepo := postgres.NewPricingRepository(db)

	// Adapters
	gateway := paystack.NewClient(paystack.Config{
		SecretKey:  cfg.Paystack.SecretKey,
		BaseURL:    cfg.Paystack.BaseURL,
		Currency:   cfg.Payment.Currency,
		Subaccount: cfg.Paystack.Subaccount,
		Bearer:     cfg.Paystack.Bearer,
		Timeout:    cfg.Paystack.Timeout,
	}, nil)
	if cfg.Paystack.SecretKey == "" {
		logger.Warn("PAYSTACK_SECRET_KEY is not set, payment calls will be rejected by the gateway")
	}

	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.AWS.Region,
			AccessKeyID:        cfg.AWS.AccessKeyID,
			SecretAccessKey:    cfg.AWS.SecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	objects := storage.NewS3Storage(storage.S3Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Bucket:          cfg.QR.Bucket,
		PublicBaseURL:   cfg.QR.PublicBaseURL,
	})

	var (
		locker  domain.Locker
		limiter redis.Scripter
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		locker = lock.NewRedisLocker(rdb, "lock:", logger)
		limiter = rdb
	} else {
		logger.Warn("REDIS_ADDR is not set, using in-process payment locks and no rate limit")
		locker = lock.NewLocalLocker()
	}

	publisher := broker.NewPublisher(cfg.RabbitMQURL, logger)
	defer publisher.Close()

	jwt := auth.NewJWT(cfg.Admin.JWTSecret)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	fulfillment := services.NewFulfillmentService(qrcode.NewEncoder(qrcode.DefaultSize), objects, emailService,
		services.FulfillmentConfig{KeyPrefix: cfg.QR.KeyPrefix, Currency: cfg.Payment.Currency}, logger)
	registrations := services.NewRegistrationService(regRepo, eventRepo, services.NewPricingResolver(pricingRepo), gateway,
		services.NewReferenceGenerator(),
		services.RegistrationConfig{ReferencePrefix: cfg.Payment.ReferencePrefix, CallbackURL: cfg.CallbackBaseURL()}, logger)
	verifier := services.NewPaymentVerifier(regRepo, eventRepo, gateway, fulfillment, locker, publisher, cfg.Payment.LockTTL, logger)
	admin := services.NewAdminService(services.AdminConfig{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
		TokenExpiry:  cfg.Admin.JWTExpiry,
	}, auth.NewBcryptHasher(0), jwt, regRepo)

	router := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:         logger,
		Registrations:  controllers.NewRegistrationController(logger, registrations),
		Payments:       controllers.NewPaymentController(logger, verifier, gateway),
		Admin:          controllers.NewAdminController(logger, admin),
		Health:         controllers.NewHealthController(logger, db),
		TokenVerifier:  jwt,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Redis:          limiter,
		RateLimit: middleware.RateLimitConfig{
			Capacity:       cfg.RateLimit.Capacity,
			RefillInterval: cfg.RateLimit.RefillInterval,
			TTL:            cfg.RateLimit.TTL,
			Prefix:         cfg.RateLimit.Prefix,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
