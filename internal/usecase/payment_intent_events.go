package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// PaymentIntentEvents mirrors payment intents and raises alerts on
// failed ones.
type PaymentIntentEvents struct {
	paymentRepo      repository.PaymentRepository
	profileRepo      repository.ProfileRepository
	notificationRepo repository.NotificationRepository
	logger           *zap.Logger
}

func NewPaymentIntentEvents(
	paymentRepo repository.PaymentRepository,
	profileRepo repository.ProfileRepository,
	notificationRepo repository.NotificationRepository,
	logger *zap.Logger,
) *PaymentIntentEvents {
	return &PaymentIntentEvents{
		paymentRepo:      paymentRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// HandlePaymentIntentSucceeded mirrors a succeeded payment intent.
func (h *PaymentIntentEvents) HandlePaymentIntentSucceeded(ctx context.Context, payload json.RawMessage) error {
	pi, profile, err := h.resolve(ctx, payload)
	if err != nil || pi == nil {
		return err
	}

	return h.paymentRepo.UpsertPaymentIntent(ctx, h.mirror(pi, profile))
}

// HandlePaymentIntentFailed mirrors the failed intent and raises a
// billing alert on the owning profile.
func (h *PaymentIntentEvents) HandlePaymentIntentFailed(ctx context.Context, payload json.RawMessage) error {
	pi, profile, err := h.resolve(ctx, payload)
	if err != nil || pi == nil {
		return err
	}

	row := h.mirror(pi, profile)
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		msg := pi.LastPaymentError.Msg
		row.FailureMessage = &msg
	}
	if err := h.paymentRepo.UpsertPaymentIntent(ctx, row); err != nil {
		return err
	}

	failureMsg := "unknown error"
	if row.FailureMessage != nil {
		failureMsg = *row.FailureMessage
	}
	return h.notificationRepo.CreateBillingAlert(ctx, &model.BillingAlert{
		ProfileID: profile.ID,
		AlertType: model.AlertTypePaymentFailed,
		Severity:  model.AlertSeverityHigh,
		Title:     "Payment attempt failed",
		Message:   fmt.Sprintf("Payment %s failed: %.200s", pi.ID, failureMsg),
		Metadata: model.JSONB{
			"stripe_payment_intent_id": pi.ID,
			"amount":                   pi.Amount,
			"currency":                 string(pi.Currency),
		},
	})
}

// resolve parses the intent and its owning profile. A nil intent with a
// nil error means the event was skipped (unknown customer).
func (h *PaymentIntentEvents) resolve(ctx context.Context, payload json.RawMessage) (*stripe.PaymentIntent, *model.Profile, error) {
	var pi stripe.PaymentIntent
	if err := unmarshalObject(payload, &pi); err != nil {
		return nil, nil, err
	}

	profile, err := h.profileRepo.GetByStripeCustomerID(ctx, stripeCustomerID(pi.Customer))
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		h.logger.Warn("Payment intent for unknown customer, skipping",
			zap.String("stripe_payment_intent_id", pi.ID))
		return nil, nil, nil
	}

	return &pi, profile, nil
}

func (h *PaymentIntentEvents) mirror(pi *stripe.PaymentIntent, profile *model.Profile) *model.PaymentIntent {
	row := &model.PaymentIntent{
		ProfileID:             profile.ID,
		StripePaymentIntentID: pi.ID,
		Amount:                pi.Amount,
		Currency:              string(pi.Currency),
		Status:                string(pi.Status),
	}
	if pi.Invoice != nil {
		row.StripeInvoiceID = &pi.Invoice.ID
	}
	return row
}
