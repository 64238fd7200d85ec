package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// CheckoutEvents finalizes checkout sessions: links the provider
// customer to the profile and records the new subscription. The session
// metadata (profile_id, plan_id, billing_interval) is written by the
// checkout usecase when the session is created.
type CheckoutEvents struct {
	profileRepo      repository.ProfileRepository
	planRepo         repository.PlanRepository
	subscriptionRepo repository.SubscriptionRepository
	logger           *zap.Logger
}

func NewCheckoutEvents(
	profileRepo repository.ProfileRepository,
	planRepo repository.PlanRepository,
	subscriptionRepo repository.SubscriptionRepository,
	logger *zap.Logger,
) *CheckoutEvents {
	return &CheckoutEvents{
		profileRepo:      profileRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// HandleCheckoutCompleted processes checkout.session.completed.
func (h *CheckoutEvents) HandleCheckoutCompleted(ctx context.Context, payload json.RawMessage) error {
	var session stripe.CheckoutSession
	if err := unmarshalObject(payload, &session); err != nil {
		return err
	}

	profileID, err := uuid.Parse(session.Metadata["profile_id"])
	if err != nil {
		h.logger.Warn("Checkout session without profile metadata, skipping",
			zap.String("session_id", session.ID))
		return nil
	}
	planID, err := uuid.Parse(session.Metadata["plan_id"])
	if err != nil {
		h.logger.Warn("Checkout session without plan metadata, skipping",
			zap.String("session_id", session.ID))
		return nil
	}

	profile, err := h.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		h.logger.Warn("Checkout session for unknown profile, skipping",
			zap.String("session_id", session.ID),
			zap.String("profile_id", profileID.String()))
		return nil
	}

	customerID := stripeCustomerID(session.Customer)
	if customerID != "" && (profile.StripeCustomerID == nil || *profile.StripeCustomerID != customerID) {
		if err := h.profileRepo.LinkStripeCustomer(ctx, profileID, customerID); err != nil {
			return err
		}
	}

	if session.Subscription == nil {
		h.logger.Warn("Checkout session carries no subscription, skipping",
			zap.String("session_id", session.ID))
		return nil
	}

	// The subscription webhook fills in the authoritative period; the
	// row created here makes the portal consistent immediately after
	// checkout.
	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)
	if session.Metadata["billing_interval"] == "yearly" {
		periodEnd = now.AddDate(1, 0, 0)
	}

	subID := session.Subscription.ID
	return h.subscriptionRepo.Upsert(ctx, &model.Subscription{
		ProfileID:            profileID,
		PlanID:               planID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: &subID,
		Status:               model.SubscriptionStatusActive,
		CurrentPeriodStart:   now,
		CurrentPeriodEnd:     periodEnd,
	})
}
