package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
)

// ReminderQuery selects unverified profiles due a verification reminder.
type ReminderQuery struct {
	// ScheduleDays are the day offsets after signup at which reminders go
	// out (e.g. 1, 3, 7).
	ScheduleDays []int
	// MaxReminders caps how many reminders a profile ever receives.
	MaxReminders int
	// MinInterval is the minimum gap since the last reminder.
	MinInterval time.Duration
	// Limit bounds one sweep.
	Limit int
}

// ProfileRepository persists portal accounts.
type ProfileRepository interface {
	// GetByID returns the profile, or nil when unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)

	// GetByStripeCustomerID resolves the profile owning a provider
	// customer, or nil when none is linked.
	GetByStripeCustomerID(ctx context.Context, customerID string) (*model.Profile, error)

	// LinkStripeCustomer stores the provider customer id on the profile.
	LinkStripeCustomer(ctx context.Context, profileID uuid.UUID, customerID string) error

	// ListAdmins returns every admin profile (webhook failure fan-out).
	ListAdmins(ctx context.Context) ([]*model.Profile, error)

	// ListDueForReminder returns unverified profiles due a verification
	// reminder under the query's schedule.
	ListDueForReminder(ctx context.Context, q ReminderQuery) ([]*model.Profile, error)

	// RecordReminderSent increments the reminder counter and stamps
	// last_reminder_at.
	RecordReminderSent(ctx context.Context, profileID uuid.UUID) error
}
