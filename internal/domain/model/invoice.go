package model

import (
	"time"

	"github.com/google/uuid"
)

// Invoice mirrors a provider invoice for the client portal billing pages.
// Rows are upserted by the invoice webhook handlers, keyed by the provider
// invoice id.
type Invoice struct {
	ID                    int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"profile_id"`
	SubscriptionID        *int64     `gorm:"index" json:"subscription_id,omitempty"`
	StripeInvoiceID       string     `gorm:"unique;not null;size:100" json:"stripe_invoice_id"`
	StripePaymentIntentID *string    `gorm:"size:100" json:"stripe_payment_intent_id,omitempty"`
	Status                string     `gorm:"not null;size:20;default:'draft'" json:"status"`
	AmountDue             int64      `gorm:"not null" json:"amount_due"`
	AmountPaid            int64      `gorm:"not null;default:0" json:"amount_paid"`
	AmountRemaining       int64      `gorm:"not null;default:0" json:"amount_remaining"`
	Currency              string     `gorm:"not null;size:3" json:"currency"`
	InvoiceNumber         *string    `gorm:"size:50" json:"invoice_number,omitempty"`
	InvoicePDFURL         *string    `gorm:"size:500" json:"invoice_pdf_url,omitempty"`
	HostedInvoiceURL      *string    `gorm:"size:500" json:"hosted_invoice_url,omitempty"`
	PeriodStart           *time.Time `json:"period_start,omitempty"`
	PeriodEnd             *time.Time `json:"period_end,omitempty"`
	AttemptCount          int        `gorm:"default:0" json:"attempt_count"`
	NextPaymentAttempt    *time.Time `json:"next_payment_attempt,omitempty"`
	PaidAt                *time.Time `json:"paid_at,omitempty"`
	DueDate               *time.Time `json:"due_date,omitempty"`
	CreatedAt             time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}
