package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile roles
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Profile represents an account in the client/admin portal. Webhook
// handlers resolve the owning profile through StripeCustomerID; the
// verification-reminder job sweeps rows where EmailVerifiedAt is unset.
type Profile struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ContactEmail     string     `gorm:"unique;not null;size:255" json:"contact_email"`
	ContactName      string     `gorm:"size:200" json:"contact_name"`
	Role             string     `gorm:"not null;size:20;default:'client';index" json:"role"`
	StripeCustomerID *string    `gorm:"unique;size:100" json:"stripe_customer_id,omitempty"`
	EmailVerifiedAt  *time.Time `json:"email_verified_at,omitempty"`
	ReminderCount    int        `gorm:"default:0" json:"reminder_count"`
	LastReminderAt   *time.Time `json:"last_reminder_at,omitempty"`
	CreatedAt        time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}
