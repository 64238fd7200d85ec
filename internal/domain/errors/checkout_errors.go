package errors

import "errors"

// Checkout errors mapped to user-safe responses by the HTTP layer.
var (
	ErrPlanNotFound           = errors.New("plan not found")
	ErrActiveSubscription     = errors.New("profile already has an active subscription")
	ErrPriceNotConfigured     = errors.New("price not configured for this plan")
	ErrProfileNotFound        = errors.New("profile not found")
	ErrCustomerNotProvisioned = errors.New("profile has no payment customer")
)
