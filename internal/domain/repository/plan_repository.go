package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
)

// PlanPriceUpdate carries one synced recurring price. Interval is either
// "month" or "year".
type PlanPriceUpdate struct {
	Interval      string
	UnitAmount    int64
	StripePriceID string
}

// PlanRepository persists subscription plans.
type PlanRepository interface {
	// GetByID returns the plan, or nil when unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Plan, error)

	// GetByStripeProductID returns the plan for a provider product id, or
	// nil when no plan maps to it.
	GetByStripeProductID(ctx context.Context, productID string) (*model.Plan, error)

	// ListActive returns active plans ordered for the pricing page.
	ListActive(ctx context.Context) ([]*model.Plan, error)

	// UpdatePrice applies a synced provider price to the plan's monthly or
	// yearly columns.
	UpdatePrice(ctx context.Context, planID uuid.UUID, upd PlanPriceUpdate) error
}
