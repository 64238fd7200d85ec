package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/zenithwebstudios/billing-service/internal/usecase"
	"go.uber.org/zap"
)

// CronHandler runs scheduled jobs triggered by an external scheduler.
// The caller authenticates with a bearer token shared through config.
type CronHandler struct {
	logger     *zap.Logger
	cronSecret string
	reminders  *usecase.VerificationReminder
}

func NewCronHandler(logger *zap.Logger, cronSecret string, reminders *usecase.VerificationReminder) *CronHandler {
	return &CronHandler{
		logger:     logger,
		cronSecret: cronSecret,
		reminders:  reminders,
	}
}

// RunVerificationReminders handles GET /api/cron/verification-reminders.
func (h *CronHandler) RunVerificationReminders(c echo.Context) error {
	if h.cronSecret == "" {
		h.logger.Error("Cron secret is not configured")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Cron secret not configured",
		})
	}

	authHeader := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader || token != h.cronSecret {
		h.logger.Warn("Cron request with invalid credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	result, err := h.reminders.Run(c.Request().Context())
	if err != nil {
		h.logger.Error("Verification reminder sweep failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success":   false,
			"message":   "Reminder sweep failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"sent":      result.Sent,
		"errors":    result.Errors,
		"message":   fmt.Sprintf("Sent %d verification reminders (%d errors)", result.Sent, result.Errors),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
