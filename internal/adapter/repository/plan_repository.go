package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	domainRepo "github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type planRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPlanRepository creates the plan repository.
func NewPlanRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PlanRepository {
	return &planRepository{
		db:     db,
		logger: logger,
	}
}

func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var plan model.Plan

	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get plan",
			zap.String("plan_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return &plan, nil
}

func (r *planRepository) GetByStripeProductID(ctx context.Context, productID string) (*model.Plan, error) {
	var plan model.Plan

	err := r.db.WithContext(ctx).
		Where("stripe_product_id = ?", productID).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get plan by product",
			zap.String("stripe_product_id", productID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get plan by product: %w", err)
	}

	return &plan, nil
}

func (r *planRepository) ListActive(ctx context.Context) ([]*model.Plan, error) {
	var plans []*model.Plan

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&plans).Error
	if err != nil {
		r.logger.Error("Failed to list active plans", zap.Error(err))
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	return plans, nil
}

func (r *planRepository) UpdatePrice(ctx context.Context, planID uuid.UUID, upd domainRepo.PlanPriceUpdate) error {
	updates := map[string]interface{}{"updated_at": time.Now()}
	switch upd.Interval {
	case "month":
		updates["stripe_price_id_monthly"] = upd.StripePriceID
		updates["price_monthly_cents"] = upd.UnitAmount
	case "year":
		updates["stripe_price_id_yearly"] = upd.StripePriceID
		updates["price_yearly_cents"] = upd.UnitAmount
	default:
		return fmt.Errorf("unsupported price interval: %s", upd.Interval)
	}

	result := r.db.WithContext(ctx).
		Model(&model.Plan{}).
		Where("id = ?", planID).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to update plan price",
			zap.String("plan_id", planID.String()),
			zap.String("interval", upd.Interval),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update plan price: %w", result.Error)
	}

	return nil
}
