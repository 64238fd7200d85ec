package repository

import (
	"context"
	"time"

	"github.com/zenithwebstudios/billing-service/internal/domain/model"
)

// InvoicePaymentFailure carries the bookkeeping fields of a failed
// collection attempt.
type InvoicePaymentFailure struct {
	Status             string
	AttemptCount       int
	NextPaymentAttempt *time.Time
}

// InvoiceRepository persists provider invoice mirrors.
type InvoiceRepository interface {
	// Upsert creates or refreshes an invoice keyed by its provider id.
	Upsert(ctx context.Context, inv *model.Invoice) error

	// MarkPaid sets the invoice paid with the final amount, returning the
	// updated row or nil when the invoice is unknown.
	MarkPaid(ctx context.Context, stripeInvoiceID string, amountPaid int64) (*model.Invoice, error)

	// RecordPaymentFailure updates attempt bookkeeping after a failed
	// collection.
	RecordPaymentFailure(ctx context.Context, stripeInvoiceID string, failure InvoicePaymentFailure) error
}
