package repository

import (
	"context"

	"github.com/zenithwebstudios/billing-service/internal/domain/model"
)

// NotificationRepository persists in-app notifications and billing
// alerts.
type NotificationRepository interface {
	// CreateBatch inserts notifications in one statement.
	CreateBatch(ctx context.Context, notifications []*model.Notification) error

	// CreateBillingAlert inserts one billing alert.
	CreateBillingAlert(ctx context.Context, alert *model.BillingAlert) error
}
