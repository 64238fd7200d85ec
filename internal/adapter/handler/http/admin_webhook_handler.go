package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	domainErrors "github.com/zenithwebstudios/billing-service/internal/domain/errors"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	domainRepo "github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"github.com/zenithwebstudios/billing-service/internal/usecase"
	"go.uber.org/zap"
)

// AdminWebhookHandler is the operator dashboard behind the failure
// alerts: ledger listing plus manual reprocessing of failed events.
type AdminWebhookHandler struct {
	logger      *zap.Logger
	webhookRepo domainRepo.WebhookRepository
	processor   *usecase.WebhookProcessor
}

func NewAdminWebhookHandler(logger *zap.Logger, webhookRepo domainRepo.WebhookRepository, processor *usecase.WebhookProcessor) *AdminWebhookHandler {
	return &AdminWebhookHandler{
		logger:      logger,
		webhookRepo: webhookRepo,
		processor:   processor,
	}
}

// ListEvents handles GET /api/v1/admin/webhooks?status=failed&limit=50&offset=0.
func (h *AdminWebhookHandler) ListEvents(c echo.Context) error {
	var status model.WebhookStatus
	if raw := c.QueryParam("status"); raw != "" {
		status = model.WebhookStatus(raw)
		switch status {
		case model.WebhookStatusPending, model.WebhookStatusProcessing,
			model.WebhookStatusCompleted, model.WebhookStatusFailed:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "status must be one of pending, processing, completed, failed",
			})
		}
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	events, err := h.webhookRepo.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list webhook events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to load webhook events",
		})
	}

	counts, err := h.webhookRepo.CountByStatus(c.Request().Context())
	if err != nil {
		h.logger.Warn("Failed to count webhook events", zap.Error(err))
		counts = map[model.WebhookStatus]int64{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"events": events,
		"counts": counts,
	})
}

// ReprocessEvent handles POST /api/v1/admin/webhooks/:event_id/reprocess.
// Only failed events can be rerun.
func (h *AdminWebhookHandler) ReprocessEvent(c echo.Context) error {
	eventID := c.Param("event_id")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}

	event, err := h.processor.Reprocess(c.Request().Context(), eventID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "No failed webhook event with that id",
			})
		}
		h.logger.Error("Failed to reprocess webhook event",
			zap.String("event_id", eventID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to reprocess webhook event",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"event_id": event.StripeEventID,
		"status":   event.Status,
	})
}
