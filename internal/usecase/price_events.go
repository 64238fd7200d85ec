package usecase

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v79"
	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// PriceEvents syncs provider prices onto the matching plan so the
// pricing page mirrors the Stripe catalog.
type PriceEvents struct {
	planRepo repository.PlanRepository
	logger   *zap.Logger
}

func NewPriceEvents(
	planRepo repository.PlanRepository,
	logger *zap.Logger,
) *PriceEvents {
	return &PriceEvents{
		planRepo: planRepo,
		logger:   logger,
	}
}

// HandlePriceChange applies a created or updated recurring price to the
// plan that owns its product. One-time prices are ignored.
func (h *PriceEvents) HandlePriceChange(ctx context.Context, payload json.RawMessage) error {
	var price stripe.Price
	if err := unmarshalObject(payload, &price); err != nil {
		return err
	}

	if price.Recurring == nil {
		h.logger.Debug("Ignoring non-recurring price",
			zap.String("stripe_price_id", price.ID))
		return nil
	}
	if price.Product == nil {
		h.logger.Warn("Price carries no product, skipping",
			zap.String("stripe_price_id", price.ID))
		return nil
	}

	plan, err := h.planRepo.GetByStripeProductID(ctx, price.Product.ID)
	if err != nil {
		return err
	}
	if plan == nil {
		h.logger.Warn("Price for unknown product, skipping",
			zap.String("stripe_price_id", price.ID),
			zap.String("stripe_product_id", price.Product.ID))
		return nil
	}

	return h.planRepo.UpdatePrice(ctx, plan.ID, repository.PlanPriceUpdate{
		Interval:      string(price.Recurring.Interval),
		UnitAmount:    price.UnitAmount,
		StripePriceID: price.ID,
	})
}
