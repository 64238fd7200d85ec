package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	domainRepo "github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// PlansHandler serves the public plan listing for the pricing page.
type PlansHandler struct {
	logger   *zap.Logger
	planRepo domainRepo.PlanRepository
}

func NewPlansHandler(logger *zap.Logger, planRepo domainRepo.PlanRepository) *PlansHandler {
	return &PlansHandler{
		logger:   logger,
		planRepo: planRepo,
	}
}

// GetPlans handles GET /api/v1/plans.
func (h *PlansHandler) GetPlans(c echo.Context) error {
	plans, err := h.planRepo.ListActive(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list plans", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to load plans",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"plans": plans,
		"count": len(plans),
	})
}
