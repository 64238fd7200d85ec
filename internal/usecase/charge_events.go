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

// ChargeEvents mirrors charges and refunds.
type ChargeEvents struct {
	paymentRepo      repository.PaymentRepository
	profileRepo      repository.ProfileRepository
	notificationRepo repository.NotificationRepository
	logger           *zap.Logger
}

func NewChargeEvents(
	paymentRepo repository.PaymentRepository,
	profileRepo repository.ProfileRepository,
	notificationRepo repository.NotificationRepository,
	logger *zap.Logger,
) *ChargeEvents {
	return &ChargeEvents{
		paymentRepo:      paymentRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// HandleChargeSucceeded mirrors a succeeded charge.
func (h *ChargeEvents) HandleChargeSucceeded(ctx context.Context, payload json.RawMessage) error {
	ch, profile, err := h.resolve(ctx, payload)
	if err != nil || ch == nil {
		return err
	}

	return h.paymentRepo.UpsertCharge(ctx, h.mirror(ch, profile))
}

// HandleChargeRefunded updates the charge mirror, records the refunds
// and raises a billing alert.
func (h *ChargeEvents) HandleChargeRefunded(ctx context.Context, payload json.RawMessage) error {
	ch, profile, err := h.resolve(ctx, payload)
	if err != nil || ch == nil {
		return err
	}

	if err := h.paymentRepo.UpsertCharge(ctx, h.mirror(ch, profile)); err != nil {
		return err
	}

	if ch.Refunds != nil {
		for _, ref := range ch.Refunds.Data {
			row := &model.Refund{
				StripeRefundID: ref.ID,
				StripeChargeID: ch.ID,
				Amount:         ref.Amount,
				Currency:       string(ref.Currency),
				Status:         string(ref.Status),
			}
			if ref.Reason != "" {
				reason := string(ref.Reason)
				row.Reason = &reason
			}
			if err := h.paymentRepo.UpsertRefund(ctx, row); err != nil {
				return err
			}
		}
	}

	return h.notificationRepo.CreateBillingAlert(ctx, &model.BillingAlert{
		ProfileID: profile.ID,
		AlertType: model.AlertTypeRefund,
		Severity:  model.AlertSeverityMedium,
		Title:     "Charge refunded",
		Message: fmt.Sprintf("Charge %s was refunded (%d %s).",
			ch.ID, ch.AmountRefunded, string(ch.Currency)),
		Metadata: model.JSONB{
			"stripe_charge_id": ch.ID,
			"amount_refunded":  ch.AmountRefunded,
		},
	})
}

func (h *ChargeEvents) resolve(ctx context.Context, payload json.RawMessage) (*stripe.Charge, *model.Profile, error) {
	var ch stripe.Charge
	if err := unmarshalObject(payload, &ch); err != nil {
		return nil, nil, err
	}

	profile, err := h.profileRepo.GetByStripeCustomerID(ctx, stripeCustomerID(ch.Customer))
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		h.logger.Warn("Charge for unknown customer, skipping",
			zap.String("stripe_charge_id", ch.ID))
		return nil, nil, nil
	}

	return &ch, profile, nil
}

func (h *ChargeEvents) mirror(ch *stripe.Charge, profile *model.Profile) *model.Charge {
	row := &model.Charge{
		ProfileID:      profile.ID,
		StripeChargeID: ch.ID,
		Amount:         ch.Amount,
		AmountRefunded: ch.AmountRefunded,
		Currency:       string(ch.Currency),
		Status:         string(ch.Status),
		Refunded:       ch.Refunded,
	}
	if ch.PaymentIntent != nil {
		row.StripePaymentIntentID = &ch.PaymentIntent.ID
	}
	if ch.ReceiptURL != "" {
		receipt := ch.ReceiptURL
		row.ReceiptURL = &receipt
	}
	return row
}
