package repository

import (
	"context"

	"github.com/zenithwebstudios/billing-service/internal/domain/model"
)

// PaymentRepository persists the legacy payment records plus the
// payment-intent and charge mirrors.
type PaymentRepository interface {
	// UpsertPayment creates or refreshes a legacy payment row keyed by the
	// provider invoice id.
	UpsertPayment(ctx context.Context, p *model.Payment) error

	// UpsertPaymentIntent creates or refreshes a payment-intent mirror
	// keyed by the provider payment-intent id.
	UpsertPaymentIntent(ctx context.Context, pi *model.PaymentIntent) error

	// UpsertCharge creates or refreshes a charge mirror keyed by the
	// provider charge id.
	UpsertCharge(ctx context.Context, c *model.Charge) error

	// UpsertRefund creates or refreshes a refund row keyed by the provider
	// refund id.
	UpsertRefund(ctx context.Context, r *model.Refund) error
}
