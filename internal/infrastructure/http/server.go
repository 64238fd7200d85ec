package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stripe/stripe-go/v79"
	handlers "github.com/zenithwebstudios/billing-service/internal/adapter/handler/http"
	"github.com/zenithwebstudios/billing-service/internal/config"
	"github.com/zenithwebstudios/billing-service/internal/infrastructure/database"
	stripeProvider "github.com/zenithwebstudios/billing-service/internal/infrastructure/provider/stripe"
	infraRedis "github.com/zenithwebstudios/billing-service/internal/infrastructure/redis"
	"github.com/zenithwebstudios/billing-service/internal/mailer"
	"github.com/zenithwebstudios/billing-service/internal/middleware/auth"
	"github.com/zenithwebstudios/billing-service/internal/middleware/ratelimit"
	"github.com/zenithwebstudios/billing-service/internal/usecase"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
	redis  *goredis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories, redisClient *goredis.Client) *Server {
	e := echo.New()

	// Initialize Stripe
	stripe.Key = cfg.Service.StripeSecretKey

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config: cfg,
		logger: logger,
		echo:   e,
		repos:  repos,
		redis:  redisClient,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	mail := mailer.NewMailer(s.config.Email, s.logger)

	// Webhook pipeline
	dispatcher := usecase.NewDispatcher(s.logger)
	usecase.RegisterWebhookHandlers(
		dispatcher,
		usecase.NewCheckoutEvents(s.repos.Profile, s.repos.Plan, s.repos.Subscription, s.logger),
		usecase.NewSubscriptionEvents(s.repos.Subscription, s.repos.Plan, s.repos.Profile, mail, s.logger),
		usecase.NewInvoiceEvents(s.repos.Invoice, s.repos.Profile, s.repos.Subscription, s.repos.Notification, s.logger),
		usecase.NewPaymentEvents(s.repos.Payment, s.logger),
		usecase.NewPaymentIntentEvents(s.repos.Payment, s.repos.Profile, s.repos.Notification, s.logger),
		usecase.NewChargeEvents(s.repos.Payment, s.repos.Profile, s.repos.Notification, s.logger),
		usecase.NewPriceEvents(s.repos.Plan, s.logger),
	)
	retryer := usecase.NewRetryer(s.repos.Webhook, s.config.Webhook, s.logger)
	notifier := usecase.NewFailureNotifier(s.repos.Webhook, s.repos.Profile, s.repos.Notification, s.logger)
	processor := usecase.NewWebhookProcessor(
		s.repos.Webhook, dispatcher, retryer, notifier,
		s.config.Webhook.ProcessingLease, s.logger,
	)

	checkoutUsecase := usecase.NewCheckoutUsecase(
		s.repos.Profile, s.repos.Plan, s.repos.Subscription,
		stripeProvider.NewProvider(s.logger),
		s.config.Service.ClientURL, s.logger,
	)
	reminderJob := usecase.NewVerificationReminder(s.repos.Profile, mail, s.logger)

	// Handlers
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.config.Service.StripeWebhookSecret, processor)
	checkoutHandler := handlers.NewCheckoutHandler(s.logger, checkoutUsecase)
	cronHandler := handlers.NewCronHandler(s.logger, s.config.Service.CronSecret, reminderJob)
	plansHandler := handlers.NewPlansHandler(s.logger, s.repos.Plan)
	adminHandler := handlers.NewAdminWebhookHandler(s.logger, s.repos.Webhook, processor)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/webhook",
			"/api/cron",
			"/api/v1/plans",
		},
	}

	// Checkout rate limiter
	checkoutLimiter := ratelimit.Middleware(ratelimit.Config{
		Limiter: infraRedis.NewFixedWindowLimiter(
			s.redis,
			s.config.RateLimit.CheckoutLimit,
			s.config.RateLimit.CheckoutWindow,
			s.logger,
		),
		KeyPrefix: "ratelimit:checkout:",
		Logger:    s.logger,
	})

	// Webhook route (outside API versioning)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)

	// Cron routes (bearer secret, not JWT)
	s.echo.GET("/api/cron/verification-reminders", cronHandler.RunVerificationReminders)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Public routes (no authentication required)
	v1.GET("/plans", plansHandler.GetPlans)

	// Protected routes (require JWT authentication)
	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))
	protected.POST("/checkout", checkoutHandler.CreateCheckoutSession, checkoutLimiter)
	protected.POST("/billing/portal", checkoutHandler.CreatePortalSession)

	// Admin routes (JWT + admin role)
	admin := protected.Group("/admin", auth.RequireAdmin(s.logger))
	admin.GET("/webhooks", adminHandler.ListEvents)
	admin.POST("/webhooks/:event_id/reprocess", adminHandler.ReprocessEvent)
}
