package model

import (
	"time"

	"github.com/google/uuid"
)

// Billing alert types and severities
const (
	AlertTypePaymentFailed = "payment_failed"
	AlertTypeRefund        = "refund"

	AlertSeverityHigh   = "high"
	AlertSeverityMedium = "medium"
)

// BillingAlert flags a billing problem on a profile (failed payment,
// refund) for the admin portal.
type BillingAlert struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID      uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	SubscriptionID *int64    `gorm:"index" json:"subscription_id,omitempty"`
	AlertType      string    `gorm:"not null;size:30" json:"alert_type"`
	Severity       string    `gorm:"not null;size:10;default:'medium'" json:"severity"`
	Title          string    `gorm:"not null;size:200" json:"title"`
	Message        string    `gorm:"not null;size:1000" json:"message"`
	Metadata       JSONB     `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	IsResolved     bool      `gorm:"default:false;index" json:"is_resolved"`
	CreatedAt      time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (BillingAlert) TableName() string {
	return "billing_alerts"
}
