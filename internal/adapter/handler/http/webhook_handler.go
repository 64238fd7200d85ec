package http

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/zenithwebstudios/billing-service/internal/usecase"
	"go.uber.org/zap"
)

// WebhookHandler is the provider-facing intake endpoint. It verifies
// the delivery signature and hands the event to the processor; every
// failure mode maps to the same generic 400 so nothing internal leaks
// to the caller.
type WebhookHandler struct {
	logger        *zap.Logger
	webhookSecret string
	processor     *usecase.WebhookProcessor
}

func NewWebhookHandler(logger *zap.Logger, webhookSecret string, processor *usecase.WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{
		logger:        logger,
		webhookSecret: webhookSecret,
		processor:     processor,
	}
}

func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Webhook processing failed"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(
		body,
		sig,
		h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		h.logger.Error("Webhook signature verification failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Webhook processing failed"})
	}

	h.logger.Info("Webhook event received",
		zap.String("type", string(event.Type)),
		zap.String("id", event.ID),
		zap.Time("created", time.Unix(event.Created, 0)),
	)

	receipt, err := h.processor.Process(c.Request().Context(), usecase.InboundEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Payload: body,
	})
	if err != nil {
		h.logger.Error("Webhook processing failed",
			zap.String("event_id", event.ID),
			zap.Error(err))
		// Generic failure so the provider redelivers
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Webhook processing failed"})
	}

	if receipt.AlreadyProcessed {
		return c.JSON(http.StatusOK, echo.Map{
			"received": true,
			"status":   "already_processed",
			"event_id": receipt.EventID,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"received": true,
		"event_id": receipt.EventID,
	})
}
