package repository

import (
	"context"
	"fmt"

	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	domainRepo "github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewNotificationRepository creates the notification repository.
func NewNotificationRepository(db *gorm.DB, logger *zap.Logger) domainRepo.NotificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(&notifications).Error; err != nil {
		r.logger.Error("Failed to create notifications",
			zap.Int("count", len(notifications)),
			zap.Error(err))
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	return nil
}

func (r *notificationRepository) CreateBillingAlert(ctx context.Context, alert *model.BillingAlert) error {
	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		r.logger.Error("Failed to create billing alert",
			zap.String("alert_type", alert.AlertType),
			zap.String("profile_id", alert.ProfileID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create billing alert: %w", err)
	}

	return nil
}
