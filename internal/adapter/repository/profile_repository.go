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

type profileRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProfileRepository creates the profile repository.
func NewProfileRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ProfileRepository {
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile

	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get profile",
			zap.String("profile_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

func (r *profileRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*model.Profile, error) {
	var profile model.Profile

	err := r.db.WithContext(ctx).
		Where("stripe_customer_id = ?", customerID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get profile by customer",
			zap.String("stripe_customer_id", customerID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get profile by customer: %w", err)
	}

	return &profile, nil
}

func (r *profileRepository) LinkStripeCustomer(ctx context.Context, profileID uuid.UUID, customerID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"stripe_customer_id": customerID,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to link stripe customer",
			zap.String("profile_id", profileID.String()),
			zap.String("stripe_customer_id", customerID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to link stripe customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("profile %s not found", profileID)
	}

	return nil
}

func (r *profileRepository) ListAdmins(ctx context.Context) ([]*model.Profile, error) {
	var admins []*model.Profile

	err := r.db.WithContext(ctx).
		Where("role = ?", model.RoleAdmin).
		Find(&admins).Error
	if err != nil {
		r.logger.Error("Failed to list admin profiles", zap.Error(err))
		return nil, fmt.Errorf("failed to list admin profiles: %w", err)
	}

	return admins, nil
}

// ListDueForReminder selects unverified profiles whose signup age has
// crossed one of the schedule offsets, skipping profiles already at the
// reminder cap or reminded within the minimum interval.
func (r *profileRepository) ListDueForReminder(ctx context.Context, q domainRepo.ReminderQuery) ([]*model.Profile, error) {
	if len(q.ScheduleDays) == 0 {
		return nil, nil
	}

	now := time.Now()
	firstOffset := q.ScheduleDays[0]
	for _, d := range q.ScheduleDays {
		if d < firstOffset {
			firstOffset = d
		}
	}
	intervalCutoff := now.Add(-q.MinInterval)

	query := r.db.WithContext(ctx).
		Where("email_verified_at IS NULL").
		Where("reminder_count < ?", q.MaxReminders).
		Where("created_at <= ?", now.Add(-time.Duration(firstOffset)*24*time.Hour)).
		Where("last_reminder_at IS NULL OR last_reminder_at <= ?", intervalCutoff).
		Order("created_at ASC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var profiles []*model.Profile
	if err := query.Find(&profiles).Error; err != nil {
		r.logger.Error("Failed to list profiles due for reminder", zap.Error(err))
		return nil, fmt.Errorf("failed to list profiles due for reminder: %w", err)
	}

	// Which schedule step a profile has reached is decided in Go; the SQL
	// above is a coarse prefilter.
	due := profiles[:0]
	for _, p := range profiles {
		if p.ReminderCount >= len(q.ScheduleDays) {
			continue
		}
		age := now.Sub(p.CreatedAt)
		next := q.ScheduleDays[p.ReminderCount]
		if age >= time.Duration(next)*24*time.Hour {
			due = append(due, p)
		}
	}

	return due, nil
}

func (r *profileRepository) RecordReminderSent(ctx context.Context, profileID uuid.UUID) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"reminder_count":   gorm.Expr("reminder_count + 1"),
			"last_reminder_at": &now,
			"updated_at":       now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to record reminder",
			zap.String("profile_id", profileID.String()),
			zap.Error(result.Error))
		return fmt.Errorf("failed to record reminder: %w", result.Error)
	}

	return nil
}
