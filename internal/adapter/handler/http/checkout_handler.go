package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	domainErrors "github.com/zenithwebstudios/billing-service/internal/domain/errors"
	"github.com/zenithwebstudios/billing-service/internal/middleware/auth"
	"github.com/zenithwebstudios/billing-service/internal/usecase"
	"go.uber.org/zap"
)

// CheckoutRequest is the body of POST /api/v1/checkout.
type CheckoutRequest struct {
	PlanID          string `json:"plan_id" validate:"required,uuid"`
	BillingInterval string `json:"billing_interval" validate:"required,oneof=monthly yearly"`
}

type CheckoutHandler struct {
	logger   *zap.Logger
	checkout *usecase.CheckoutUsecase
	validate *validator.Validate
}

func NewCheckoutHandler(logger *zap.Logger, checkout *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{
		logger:   logger,
		checkout: checkout,
		validate: validator.New(),
	}
}

// CreateCheckoutSession opens a provider checkout session for the
// signed-in profile. Errors map to user-safe messages; internals stay
// in the logs.
func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	profileID, err := auth.GetProfileID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Please sign in to subscribe to a plan.",
		})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body.",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "plan_id must be a UUID and billing_interval must be monthly or yearly.",
		})
	}

	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "plan_id must be a UUID and billing_interval must be monthly or yearly.",
		})
	}

	session, err := h.checkout.CreateSession(c.Request().Context(), usecase.CheckoutInput{
		ProfileID:       profileID,
		PlanID:          planID,
		BillingInterval: req.BillingInterval,
	})
	if err != nil {
		return h.mapCheckoutError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":  session.ID,
		"url": session.URL,
	})
}

// CreatePortalSession opens the provider billing portal for the
// signed-in profile.
func (h *CheckoutHandler) CreatePortalSession(c echo.Context) error {
	profileID, err := auth.GetProfileID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Please sign in to manage your billing.",
		})
	}

	session, err := h.checkout.CreatePortalSession(c.Request().Context(), profileID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrProfileNotFound):
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "Please sign in to manage your billing.",
			})
		case errors.Is(err, domainErrors.ErrCustomerNotProvisioned):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "No billing account found. Subscribe to a plan first.",
			})
		default:
			h.logger.Error("Failed to create portal session",
				zap.String("profile_id", profileID.String()),
				zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Something went wrong. Please try again.",
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"url": session.URL})
}

func (h *CheckoutHandler) mapCheckoutError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domainErrors.ErrProfileNotFound):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Please sign in to subscribe to a plan.",
		})
	case errors.Is(err, domainErrors.ErrPlanNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "The selected plan is not available.",
		})
	case errors.Is(err, domainErrors.ErrActiveSubscription):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "You already have an active subscription.",
		})
	case errors.Is(err, domainErrors.ErrPriceNotConfigured):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "This plan is not available for the selected billing interval.",
		})
	default:
		h.logger.Error("Checkout session creation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Something went wrong. Please try again.",
		})
	}
}
