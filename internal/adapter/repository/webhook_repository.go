package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/zenithwebstudios/billing-service/internal/domain/errors"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	domainRepo "github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type webhookRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookRepository creates the webhook ledger repository.
func NewWebhookRepository(db *gorm.DB, logger *zap.Logger) domainRepo.WebhookRepository {
	return &webhookRepository{
		db:     db,
		logger: logger,
	}
}

// GetEvent retrieves a ledger row by provider event id.
func (r *webhookRepository) GetEvent(ctx context.Context, eventID string) (*model.WebhookEvent, error) {
	var event model.WebhookEvent

	err := r.db.WithContext(ctx).
		Where("stripe_event_id = ?", eventID).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get webhook event",
			zap.String("event_id", eventID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}

	return &event, nil
}

// CreateEvent inserts a new ledger row in `processing` status. The unique
// index on stripe_event_id turns a concurrent duplicate delivery into
// ErrDuplicateEvent.
func (r *webhookRepository) CreateEvent(ctx context.Context, eventID, eventType string, payload json.RawMessage) (*model.WebhookEvent, error) {
	var data model.JSONB
	if err := json.Unmarshal(payload, &data); err != nil {
		r.logger.Warn("Failed to parse event payload for storage",
			zap.String("event_id", eventID),
			zap.Error(err))
		data = model.JSONB{}
	}

	event := &model.WebhookEvent{
		StripeEventID: eventID,
		EventType:     eventType,
		Status:        model.WebhookStatusProcessing,
		Payload:       data,
	}

	err := r.db.WithContext(ctx).Create(event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainErrors.ErrDuplicateEvent
		}
		r.logger.Error("Failed to create webhook event",
			zap.String("event_id", eventID),
			zap.String("event_type", eventType),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create webhook event: %w", err)
	}

	return event, nil
}

// RecordRetry increments the retry counter. Failures are telemetry: the
// caller logs and continues.
func (r *webhookRepository) RecordRetry(ctx context.Context, eventID string) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("stripe_event_id = ?", eventID).
		Updates(map[string]interface{}{
			"retry_count":   gorm.Expr("retry_count + 1"),
			"last_retry_at": &now,
			"updated_at":    now,
		})

	if result.Error != nil {
		return domainErrors.NewTelemetryError("record retry", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewTelemetryError("record retry", domainErrors.ErrEventNotFound)
	}

	return nil
}

// MarkCompleted finalizes a `processing` row as completed. The status
// predicate makes the terminal write first-wins.
func (r *webhookRepository) MarkCompleted(ctx context.Context, eventID string) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("stripe_event_id = ? AND status = ?", eventID, model.WebhookStatusProcessing).
		Updates(map[string]interface{}{
			"status":       model.WebhookStatusCompleted,
			"processed_at": &now,
			"updated_at":   now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark webhook as completed",
			zap.String("event_id", eventID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark webhook as completed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrEventFinalized
	}

	return nil
}

// MarkFailed finalizes a `processing` row as failed with the cause.
func (r *webhookRepository) MarkFailed(ctx context.Context, eventID string, cause error) error {
	now := time.Now()
	errorMsg := cause.Error()

	result := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("stripe_event_id = ? AND status = ?", eventID, model.WebhookStatusProcessing).
		Updates(map[string]interface{}{
			"status":        model.WebhookStatusFailed,
			"error_message": &errorMsg,
			"processed_at":  &now,
			"updated_at":    now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark webhook as failed",
			zap.String("event_id", eventID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark webhook as failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrEventFinalized
	}

	return nil
}

// ReclaimForReprocess moves a failed row back to `processing` so an
// operator can rerun it. The only sanctioned exit from a terminal status.
func (r *webhookRepository) ReclaimForReprocess(ctx context.Context, eventID string) (*model.WebhookEvent, error) {
	result := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("stripe_event_id = ? AND status = ?", eventID, model.WebhookStatusFailed).
		Updates(map[string]interface{}{
			"status":        model.WebhookStatusProcessing,
			"error_message": nil,
			"processed_at":  nil,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to reclaim webhook event",
			zap.String("event_id", eventID),
			zap.Error(result.Error))
		return nil, fmt.Errorf("failed to reclaim webhook event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainErrors.ErrEventNotFound
	}

	return r.GetEvent(ctx, eventID)
}

// List returns ledger rows, newest first.
func (r *webhookRepository) List(ctx context.Context, status model.WebhookStatus, limit, offset int) ([]*model.WebhookEvent, error) {
	var events []*model.WebhookEvent

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&events).Error; err != nil {
		r.logger.Error("Failed to list webhook events",
			zap.String("status", string(status)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}

	return events, nil
}

// CountByStatus aggregates ledger rows per status.
func (r *webhookRepository) CountByStatus(ctx context.Context) (map[model.WebhookStatus]int64, error) {
	type row struct {
		Status model.WebhookStatus
		Count  int64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count webhook events: %w", err)
	}

	counts := make(map[model.WebhookStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}

	return counts, nil
}
