package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// InvoiceEvents handles invoice.* webhooks: the invoice mirror and the
// billing alerts raised on failed collections.
type InvoiceEvents struct {
	invoiceRepo      repository.InvoiceRepository
	profileRepo      repository.ProfileRepository
	subscriptionRepo repository.SubscriptionRepository
	notificationRepo repository.NotificationRepository
	logger           *zap.Logger
}

func NewInvoiceEvents(
	invoiceRepo repository.InvoiceRepository,
	profileRepo repository.ProfileRepository,
	subscriptionRepo repository.SubscriptionRepository,
	notificationRepo repository.NotificationRepository,
	logger *zap.Logger,
) *InvoiceEvents {
	return &InvoiceEvents{
		invoiceRepo:      invoiceRepo,
		profileRepo:      profileRepo,
		subscriptionRepo: subscriptionRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// HandleInvoiceCreated mirrors a freshly created invoice.
func (h *InvoiceEvents) HandleInvoiceCreated(ctx context.Context, payload json.RawMessage) error {
	var inv stripe.Invoice
	if err := unmarshalObject(payload, &inv); err != nil {
		return err
	}

	profile, err := h.profileRepo.GetByStripeCustomerID(ctx, stripeCustomerID(inv.Customer))
	if err != nil {
		return err
	}
	if profile == nil {
		h.logger.Warn("Invoice for unknown customer, skipping",
			zap.String("stripe_invoice_id", inv.ID))
		return nil
	}

	row := &model.Invoice{
		ProfileID:       profile.ID,
		StripeInvoiceID: inv.ID,
		Status:          string(inv.Status),
		AmountDue:       inv.AmountDue,
		AmountPaid:      inv.AmountPaid,
		AmountRemaining: inv.AmountRemaining,
		Currency:        string(inv.Currency),
		AttemptCount:    int(inv.AttemptCount),
	}
	if inv.Subscription != nil {
		if sub, err := h.subscriptionRepo.GetByStripeID(ctx, inv.Subscription.ID); err == nil && sub != nil {
			row.SubscriptionID = &sub.ID
		}
	}
	if inv.PaymentIntent != nil {
		row.StripePaymentIntentID = &inv.PaymentIntent.ID
	}
	if inv.Number != "" {
		number := inv.Number
		row.InvoiceNumber = &number
	}
	if inv.InvoicePDF != "" {
		pdf := inv.InvoicePDF
		row.InvoicePDFURL = &pdf
	}
	if inv.HostedInvoiceURL != "" {
		hosted := inv.HostedInvoiceURL
		row.HostedInvoiceURL = &hosted
	}
	if inv.PeriodStart > 0 {
		start := time.Unix(inv.PeriodStart, 0)
		row.PeriodStart = &start
	}
	if inv.PeriodEnd > 0 {
		end := time.Unix(inv.PeriodEnd, 0)
		row.PeriodEnd = &end
	}
	if inv.DueDate > 0 {
		due := time.Unix(inv.DueDate, 0)
		row.DueDate = &due
	}

	return h.invoiceRepo.Upsert(ctx, row)
}

// HandleInvoicePaid marks the mirrored invoice paid.
func (h *InvoiceEvents) HandleInvoicePaid(ctx context.Context, payload json.RawMessage) error {
	var inv stripe.Invoice
	if err := unmarshalObject(payload, &inv); err != nil {
		return err
	}

	updated, err := h.invoiceRepo.MarkPaid(ctx, inv.ID, inv.AmountPaid)
	if err != nil {
		return err
	}
	if updated == nil {
		// Paid before the created event arrived (out-of-order delivery).
		// Mirror it now.
		h.logger.Info("Paid invoice not yet mirrored, creating",
			zap.String("stripe_invoice_id", inv.ID))
		if err := h.HandleInvoiceCreated(ctx, payload); err != nil {
			return err
		}
		_, err = h.invoiceRepo.MarkPaid(ctx, inv.ID, inv.AmountPaid)
		return err
	}

	return nil
}

// HandleInvoicePaymentFailed records the failed collection attempt and
// raises a billing alert on the profile.
func (h *InvoiceEvents) HandleInvoicePaymentFailed(ctx context.Context, payload json.RawMessage) error {
	var inv stripe.Invoice
	if err := unmarshalObject(payload, &inv); err != nil {
		return err
	}

	failure := repository.InvoicePaymentFailure{
		Status:       string(inv.Status),
		AttemptCount: int(inv.AttemptCount),
	}
	if inv.NextPaymentAttempt > 0 {
		next := time.Unix(inv.NextPaymentAttempt, 0)
		failure.NextPaymentAttempt = &next
	}
	if err := h.invoiceRepo.RecordPaymentFailure(ctx, inv.ID, failure); err != nil {
		return err
	}

	profile, err := h.profileRepo.GetByStripeCustomerID(ctx, stripeCustomerID(inv.Customer))
	if err != nil {
		return err
	}
	if profile == nil {
		h.logger.Warn("Payment failure for unknown customer, no alert raised",
			zap.String("stripe_invoice_id", inv.ID))
		return nil
	}

	alert := &model.BillingAlert{
		ProfileID: profile.ID,
		AlertType: model.AlertTypePaymentFailed,
		Severity:  model.AlertSeverityHigh,
		Title:     "Invoice payment failed",
		Message: fmt.Sprintf("Payment for invoice %s failed (attempt %d).",
			inv.ID, inv.AttemptCount),
		Metadata: model.JSONB{
			"stripe_invoice_id": inv.ID,
			"amount_due":        inv.AmountDue,
			"currency":          string(inv.Currency),
		},
	}
	if inv.Subscription != nil {
		if sub, err := h.subscriptionRepo.GetByStripeID(ctx, inv.Subscription.ID); err == nil && sub != nil {
			alert.SubscriptionID = &sub.ID
		}
	}

	return h.notificationRepo.CreateBillingAlert(ctx, alert)
}
