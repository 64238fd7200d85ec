package usecase

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v79"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// PaymentEvents maintains the legacy flat payments table. It runs after
// the invoice handlers on the invoice.payment_succeeded/failed types;
// both stores stay populated during the migration away from the flat
// table.
type PaymentEvents struct {
	paymentRepo repository.PaymentRepository
	logger      *zap.Logger
}

func NewPaymentEvents(
	paymentRepo repository.PaymentRepository,
	logger *zap.Logger,
) *PaymentEvents {
	return &PaymentEvents{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// HandlePaymentSucceeded upserts a succeeded legacy payment row.
func (h *PaymentEvents) HandlePaymentSucceeded(ctx context.Context, payload json.RawMessage) error {
	return h.upsertFromInvoice(ctx, payload, model.PaymentStatusSucceeded)
}

// HandlePaymentFailed upserts a failed legacy payment row.
func (h *PaymentEvents) HandlePaymentFailed(ctx context.Context, payload json.RawMessage) error {
	return h.upsertFromInvoice(ctx, payload, model.PaymentStatusFailed)
}

func (h *PaymentEvents) upsertFromInvoice(ctx context.Context, payload json.RawMessage, status string) error {
	var inv stripe.Invoice
	if err := unmarshalObject(payload, &inv); err != nil {
		return err
	}

	amount := inv.AmountPaid
	if status == model.PaymentStatusFailed {
		amount = inv.AmountDue
	}

	row := &model.Payment{
		StripeInvoiceID: inv.ID,
		Amount:          amount,
		Currency:        string(inv.Currency),
		Status:          status,
	}
	if inv.Customer != nil {
		row.StripeCustomerID = &inv.Customer.ID
	}
	if inv.Subscription != nil {
		row.StripeSubscriptionID = &inv.Subscription.ID
	}

	return h.paymentRepo.UpsertPayment(ctx, row)
}
