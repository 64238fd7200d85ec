package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subscription history event types
const (
	HistoryEventStatusChange = "status_change"
	HistoryEventCanceled     = "canceled"
	HistoryEventCreated      = "created"
)

// SubscriptionHistory is the audit trail of subscription changes, one row
// per webhook-observed transition. MRR is the monthly-normalized plan
// price at the time of the event.
type SubscriptionHistory struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SubscriptionID int64           `gorm:"not null;index" json:"subscription_id"`
	ProfileID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"profile_id"`
	PlanID         uuid.UUID       `gorm:"type:uuid;not null" json:"plan_id"`
	EventType      string          `gorm:"not null;size:30" json:"event_type"`
	OldStatus      *string         `gorm:"size:20" json:"old_status,omitempty"`
	NewStatus      string          `gorm:"not null;size:20" json:"new_status"`
	MRR            decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"mrr"`
	EffectiveDate  time.Time       `gorm:"not null;default:now()" json:"effective_date"`
	Metadata       JSONB           `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt      time.Time       `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (SubscriptionHistory) TableName() string {
	return "subscription_history"
}
