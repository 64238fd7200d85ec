package database

import (
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	logger.Info("Creating PostgreSQL extensions...")
	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	// Custom types must exist BEFORE auto-migrate references them
	logger.Info("Creating custom PostgreSQL types...")
	if err := createCustomTypes(db); err != nil {
		logger.Error("Failed to create custom types", zap.Error(err))
		return err
	}

	logger.Info("Running GORM auto-migrations...")
	err := db.AutoMigrate(
		&model.Profile{},
		&model.Plan{},
		&model.Subscription{},
		&model.SubscriptionHistory{},
		&model.WebhookEvent{},
		&model.Invoice{},
		&model.Payment{},
		&model.PaymentIntent{},
		&model.Charge{},
		&model.Refund{},
		&model.Notification{},
		&model.BillingAlert{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Creating custom indexes...")
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates custom indexes that GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// One active/trialing subscription per profile
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_active_subscription_per_profile ON subscriptions (profile_id) WHERE status IN ('active', 'trialing')`).Error; err != nil {
		return err
	}

	// Non-terminal webhook events, scanned by the admin dashboard
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_events_unfinished ON webhook_events (created_at) WHERE status IN ('pending', 'processing', 'failed')`).Error; err != nil {
		return err
	}

	// Unverified profiles swept by the reminder job
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_profiles_unverified ON profiles (created_at) WHERE email_verified_at IS NULL`).Error; err != nil {
		return err
	}

	// Unresolved billing alerts for the admin portal
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_billing_alerts_open ON billing_alerts (created_at) WHERE is_resolved = false`).Error; err != nil {
		return err
	}

	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}
	return nil
}

// createCustomTypes creates custom PostgreSQL types
func createCustomTypes(db *gorm.DB) error {
	var exists bool

	db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'webhook_status')`).Scan(&exists)
	if !exists {
		if err := db.Exec(`CREATE TYPE webhook_status AS ENUM ('pending', 'processing', 'completed', 'failed')`).Error; err != nil {
			return err
		}
	}

	db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'subscription_status')`).Scan(&exists)
	if !exists {
		if err := db.Exec(`CREATE TYPE subscription_status AS ENUM ('active', 'trialing', 'past_due', 'canceled')`).Error; err != nil {
			return err
		}
	}

	return nil
}
