package model

import (
	"time"

	"github.com/google/uuid"
)

// Charge mirrors a provider charge, upserted by the charge webhook
// handlers.
type Charge struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID             uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	StripeChargeID        string    `gorm:"unique;not null;size:100" json:"stripe_charge_id"`
	StripePaymentIntentID *string   `gorm:"size:100;index" json:"stripe_payment_intent_id,omitempty"`
	Amount                int64     `gorm:"not null" json:"amount"`
	AmountRefunded        int64     `gorm:"not null;default:0" json:"amount_refunded"`
	Currency              string    `gorm:"not null;size:3" json:"currency"`
	Status                string    `gorm:"not null;size:20" json:"status"`
	Refunded              bool      `gorm:"default:false" json:"refunded"`
	ReceiptURL            *string   `gorm:"size:500" json:"receipt_url,omitempty"`
	CreatedAt             time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt             time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Charge) TableName() string {
	return "charges"
}

// Refund records one refund against a charge.
type Refund struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StripeRefundID string    `gorm:"unique;not null;size:100" json:"stripe_refund_id"`
	StripeChargeID string    `gorm:"not null;size:100;index" json:"stripe_charge_id"`
	Amount         int64     `gorm:"not null" json:"amount"`
	Currency       string    `gorm:"not null;size:3" json:"currency"`
	Reason         *string   `gorm:"size:100" json:"reason,omitempty"`
	Status         string    `gorm:"not null;size:20" json:"status"`
	CreatedAt      time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Refund) TableName() string {
	return "refunds"
}
