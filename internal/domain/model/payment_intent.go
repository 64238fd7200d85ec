package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentIntent mirrors a provider payment intent, upserted by the
// payment-intent webhook handlers.
type PaymentIntent struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID             uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	StripePaymentIntentID string    `gorm:"unique;not null;size:100" json:"stripe_payment_intent_id"`
	StripeInvoiceID       *string   `gorm:"size:100;index" json:"stripe_invoice_id,omitempty"`
	Amount                int64     `gorm:"not null" json:"amount"`
	Currency              string    `gorm:"not null;size:3" json:"currency"`
	Status                string    `gorm:"not null;size:30" json:"status"`
	FailureMessage        *string   `gorm:"size:500" json:"failure_message,omitempty"`
	CreatedAt             time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt             time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PaymentIntent) TableName() string {
	return "payment_intents"
}
