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
	"gorm.io/gorm/clause"
)

type subscriptionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSubscriptionRepository creates the subscription repository.
func NewSubscriptionRepository(db *gorm.DB, logger *zap.Logger) domainRepo.SubscriptionRepository {
	return &subscriptionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *subscriptionRepository) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*model.Subscription, error) {
	var sub model.Subscription

	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get subscription",
			zap.String("stripe_subscription_id", stripeSubscriptionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return &sub, nil
}

func (r *subscriptionRepository) HasActiveSubscription(ctx context.Context, profileID uuid.UUID) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("profile_id = ? AND status IN ?", profileID,
			[]model.SubscriptionStatus{model.SubscriptionStatusActive, model.SubscriptionStatusTrialing}).
		Count(&count).Error
	if err != nil {
		r.logger.Error("Failed to check active subscription",
			zap.String("profile_id", profileID.String()),
			zap.Error(err))
		return false, fmt.Errorf("failed to check active subscription: %w", err)
	}

	return count > 0, nil
}

func (r *subscriptionRepository) UpdateByStripeID(ctx context.Context, stripeSubscriptionID string, upd domainRepo.SubscriptionUpdate) (*model.Subscription, error) {
	updates := map[string]interface{}{
		"status":     upd.Status,
		"updated_at": time.Now(),
	}
	if upd.CurrentPeriodStart != nil {
		updates["current_period_start"] = time.Unix(*upd.CurrentPeriodStart, 0)
	}
	if upd.CurrentPeriodEnd != nil {
		updates["current_period_end"] = time.Unix(*upd.CurrentPeriodEnd, 0)
	}

	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to update subscription",
			zap.String("stripe_subscription_id", stripeSubscriptionID),
			zap.Error(result.Error))
		return nil, fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.GetByStripeID(ctx, stripeSubscriptionID)
}

func (r *subscriptionRepository) Cancel(ctx context.Context, stripeSubscriptionID string) (*model.Subscription, error) {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(map[string]interface{}{
			"status":      model.SubscriptionStatusCanceled,
			"canceled_at": &now,
			"updated_at":  now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to cancel subscription",
			zap.String("stripe_subscription_id", stripeSubscriptionID),
			zap.Error(result.Error))
		return nil, fmt.Errorf("failed to cancel subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.GetByStripeID(ctx, stripeSubscriptionID)
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *model.Subscription) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stripe_subscription_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"profile_id", "plan_id", "stripe_customer_id", "status",
				"current_period_start", "current_period_end", "updated_at",
			}),
		}).
		Create(sub).Error
	if err != nil {
		r.logger.Error("Failed to upsert subscription",
			zap.String("profile_id", sub.ProfileID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}

func (r *subscriptionRepository) AppendHistory(ctx context.Context, h *model.SubscriptionHistory) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		r.logger.Error("Failed to append subscription history",
			zap.Int64("subscription_id", h.SubscriptionID),
			zap.String("event_type", h.EventType),
			zap.Error(err))
		return fmt.Errorf("failed to append subscription history: %w", err)
	}

	return nil
}
