package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationTypeSystem  = "system"
	NotificationTypeBilling = "billing"
)

// Notification is an in-app notification shown in the portal. The webhook
// failure notifier fans one out to every admin profile.
type Notification struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"profile_id"`
	NotificationType string     `gorm:"not null;size:20;default:'system'" json:"notification_type"`
	Title            string     `gorm:"not null;size:200" json:"title"`
	Body             string     `gorm:"not null;size:1000" json:"body"`
	ActionURL        *string    `gorm:"size:500" json:"action_url,omitempty"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	CreatedAt        time.Time  `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}
