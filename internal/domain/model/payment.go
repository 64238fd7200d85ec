package model

import (
	"time"
)

// Payment statuses recorded by the legacy payment handlers
const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment is the legacy flat payment record kept alongside the richer
// invoice/payment-intent mirrors. The dual-handler event types write both.
type Payment struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StripeInvoiceID      string    `gorm:"unique;not null;size:100" json:"stripe_invoice_id"`
	StripeCustomerID     *string   `gorm:"size:100;index" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string   `gorm:"size:100" json:"stripe_subscription_id,omitempty"`
	Amount               int64     `gorm:"not null" json:"amount"`
	Currency             string    `gorm:"not null;size:3" json:"currency"`
	Status               string    `gorm:"not null;size:20" json:"status"`
	CreatedAt            time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt            time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
