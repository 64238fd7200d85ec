package usecase

import (
	"context"
	"fmt"

	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

const webhookFailureActionURL = "/admin/webhooks"

// FailureNotifier fans a notification out to every admin profile when a
// webhook exhausts its retries. Everything here is best-effort: a
// notification failure is logged and swallowed, the event is already
// marked failed in the ledger.
type FailureNotifier struct {
	webhookRepo      repository.WebhookRepository
	profileRepo      repository.ProfileRepository
	notificationRepo repository.NotificationRepository
	logger           *zap.Logger
}

func NewFailureNotifier(
	webhookRepo repository.WebhookRepository,
	profileRepo repository.ProfileRepository,
	notificationRepo repository.NotificationRepository,
	logger *zap.Logger,
) *FailureNotifier {
	return &FailureNotifier{
		webhookRepo:      webhookRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// NotifyFailure alerts every admin about the failed event.
func (n *FailureNotifier) NotifyFailure(ctx context.Context, eventID, eventType string, cause error) {
	retryCount := 0
	if event, err := n.webhookRepo.GetEvent(ctx, eventID); err != nil {
		n.logger.Warn("Failed to read ledger row for failure alert",
			zap.String("event_id", eventID),
			zap.Error(err))
	} else if event != nil {
		retryCount = event.RetryCount
	}

	admins, err := n.profileRepo.ListAdmins(ctx)
	if err != nil {
		n.logger.Error("Failed to list admins for failure alert",
			zap.String("event_id", eventID),
			zap.Error(err))
		return
	}
	if len(admins) == 0 {
		n.logger.Warn("No admin profiles to alert about webhook failure",
			zap.String("event_id", eventID))
		return
	}

	actionURL := webhookFailureActionURL
	body := fmt.Sprintf("Webhook event %s (ID: %s) failed after %d retries. Error: %.200s",
		eventType, eventID, retryCount, cause.Error())

	notifications := make([]*model.Notification, 0, len(admins))
	for _, admin := range admins {
		notifications = append(notifications, &model.Notification{
			ProfileID:        admin.ID,
			NotificationType: model.NotificationTypeSystem,
			Title:            "Webhook Processing Failed",
			Body:             body,
			ActionURL:        &actionURL,
		})
	}

	if err := n.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		n.logger.Error("Failed to create webhook failure notifications",
			zap.String("event_id", eventID),
			zap.Error(err))
		return
	}

	n.logger.Info("Webhook failure alert sent",
		zap.String("event_id", eventID),
		zap.Int("admins", len(notifications)))
}
