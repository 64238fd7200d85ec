package usecase

import (
	"context"
	"time"

	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// Reminder schedule: day offsets after signup, one reminder per step.
var reminderScheduleDays = []int{1, 3, 7}

const (
	maxReminders        = 3
	minReminderInterval = 24 * time.Hour
	reminderSweepLimit  = 200
)

// ReminderResult summarizes one reminder sweep.
type ReminderResult struct {
	Sent   int
	Errors int
}

// VerificationReminder nags unverified profiles by email on a fixed
// schedule. Driven by the cron endpoint.
type VerificationReminder struct {
	profileRepo repository.ProfileRepository
	mailer      Mailer
	logger      *zap.Logger
}

func NewVerificationReminder(
	profileRepo repository.ProfileRepository,
	mailer Mailer,
	logger *zap.Logger,
) *VerificationReminder {
	return &VerificationReminder{
		profileRepo: profileRepo,
		mailer:      mailer,
		logger:      logger,
	}
}

// Run executes one sweep. Per-profile failures are counted, logged and
// skipped; only the selection query can fail the sweep.
func (u *VerificationReminder) Run(ctx context.Context) (*ReminderResult, error) {
	profiles, err := u.profileRepo.ListDueForReminder(ctx, repository.ReminderQuery{
		ScheduleDays: reminderScheduleDays,
		MaxReminders: maxReminders,
		MinInterval:  minReminderInterval,
		Limit:        reminderSweepLimit,
	})
	if err != nil {
		return nil, err
	}

	result := &ReminderResult{}
	for _, profile := range profiles {
		reminderNumber := profile.ReminderCount + 1

		if err := u.mailer.SendVerificationReminder(profile.ContactEmail, profile.ContactName, reminderNumber); err != nil {
			u.logger.Warn("Failed to send verification reminder",
				zap.String("profile_id", profile.ID.String()),
				zap.Int("reminder_number", reminderNumber),
				zap.Error(err))
			result.Errors++
			continue
		}

		if err := u.profileRepo.RecordReminderSent(ctx, profile.ID); err != nil {
			// The email went out; a bookkeeping miss means the profile
			// may get one reminder too many, nothing worse.
			u.logger.Warn("Failed to record reminder send",
				zap.String("profile_id", profile.ID.String()),
				zap.Error(err))
			result.Errors++
			continue
		}

		result.Sent++
	}

	u.logger.Info("Verification reminder sweep finished",
		zap.Int("sent", result.Sent),
		zap.Int("errors", result.Errors))
	return result, nil
}
