package model

import (
	"database/sql/driver"
	"time"
)

// WebhookStatus represents the processing status of a webhook event
type WebhookStatus string

const (
	WebhookStatusPending    WebhookStatus = "pending"
	WebhookStatusProcessing WebhookStatus = "processing"
	WebhookStatusCompleted  WebhookStatus = "completed"
	WebhookStatusFailed     WebhookStatus = "failed"
)

// Scan implements sql.Scanner interface
func (w *WebhookStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*w = WebhookStatus(v)
	case []byte:
		*w = WebhookStatus(v)
	default:
		*w = WebhookStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (w WebhookStatus) Value() (driver.Value, error) {
	return string(w), nil
}

// Terminal reports whether the status can no longer change.
func (w WebhookStatus) Terminal() bool {
	return w == WebhookStatusCompleted || w == WebhookStatusFailed
}

// WebhookEvent is one row of the webhook ledger: every provider event the
// service has ever accepted, keyed by the provider-assigned event id. Rows
// are created in `processing` status, finalized exactly once, and never
// deleted.
type WebhookEvent struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	StripeEventID string        `gorm:"unique;not null;size:255;index" json:"stripe_event_id"`
	EventType     string        `gorm:"not null;size:100;index" json:"event_type"`
	Status        WebhookStatus `gorm:"type:webhook_status;default:'processing';index" json:"status"`
	Payload       JSONB         `gorm:"type:jsonb;not null" json:"payload"`
	RetryCount    int           `gorm:"default:0" json:"retry_count"`
	LastRetryAt   *time.Time    `json:"last_retry_at,omitempty"`
	ProcessedAt   *time.Time    `json:"processed_at,omitempty"`
	ErrorMessage  *string       `json:"error_message,omitempty"`
	CreatedAt     time.Time     `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
