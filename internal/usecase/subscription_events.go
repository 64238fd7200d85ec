package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// Mailer sends the transactional emails this service produces.
type Mailer interface {
	SendVerificationReminder(to, name string, reminderNumber int) error
	SendSubscriptionCanceled(to, name, planName string, periodEnd time.Time) error
}

// SubscriptionEvents handles customer.subscription.* webhooks.
type SubscriptionEvents struct {
	subscriptionRepo repository.SubscriptionRepository
	planRepo         repository.PlanRepository
	profileRepo      repository.ProfileRepository
	mailer           Mailer
	logger           *zap.Logger
}

func NewSubscriptionEvents(
	subscriptionRepo repository.SubscriptionRepository,
	planRepo repository.PlanRepository,
	profileRepo repository.ProfileRepository,
	mailer Mailer,
	logger *zap.Logger,
) *SubscriptionEvents {
	return &SubscriptionEvents{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		profileRepo:      profileRepo,
		mailer:           mailer,
		logger:           logger,
	}
}

// HandleSubscriptionCreated records a subscription the provider created
// outside checkout (e.g. from the Stripe dashboard).
func (h *SubscriptionEvents) HandleSubscriptionCreated(ctx context.Context, payload json.RawMessage) error {
	var sub stripe.Subscription
	if err := unmarshalObject(payload, &sub); err != nil {
		return err
	}

	if existing, err := h.subscriptionRepo.GetByStripeID(ctx, sub.ID); err != nil {
		return err
	} else if existing != nil {
		// Replay or checkout already created the row; treat as update.
		return h.applyUpdate(ctx, &sub, model.HistoryEventCreated)
	}

	customerID := stripeCustomerID(sub.Customer)
	profile, err := h.profileRepo.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if profile == nil {
		h.logger.Warn("Subscription created for unknown customer, skipping",
			zap.String("stripe_subscription_id", sub.ID),
			zap.String("stripe_customer_id", customerID))
		return nil
	}

	plan, err := h.planForSubscription(ctx, &sub)
	if err != nil {
		return err
	}
	if plan == nil {
		h.logger.Warn("Subscription references no known plan, skipping",
			zap.String("stripe_subscription_id", sub.ID))
		return nil
	}

	subID := sub.ID
	row := &model.Subscription{
		ProfileID:            profile.ID,
		PlanID:               plan.ID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: &subID,
		Status:               mapSubscriptionStatus(sub.Status),
		CurrentPeriodStart:   time.Unix(sub.CurrentPeriodStart, 0),
		CurrentPeriodEnd:     time.Unix(sub.CurrentPeriodEnd, 0),
	}
	if err := h.subscriptionRepo.Upsert(ctx, row); err != nil {
		return err
	}

	return h.appendHistory(ctx, row, plan, nil, model.HistoryEventCreated)
}

// HandleSubscriptionUpdated applies a status or period change.
func (h *SubscriptionEvents) HandleSubscriptionUpdated(ctx context.Context, payload json.RawMessage) error {
	var sub stripe.Subscription
	if err := unmarshalObject(payload, &sub); err != nil {
		return err
	}
	return h.applyUpdate(ctx, &sub, model.HistoryEventStatusChange)
}

func (h *SubscriptionEvents) applyUpdate(ctx context.Context, sub *stripe.Subscription, historyEvent string) error {
	existing, err := h.subscriptionRepo.GetByStripeID(ctx, sub.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		h.logger.Warn("Subscription update for unknown subscription, skipping",
			zap.String("stripe_subscription_id", sub.ID))
		return nil
	}
	oldStatus := string(existing.Status)

	periodStart := sub.CurrentPeriodStart
	periodEnd := sub.CurrentPeriodEnd
	updated, err := h.subscriptionRepo.UpdateByStripeID(ctx, sub.ID, repository.SubscriptionUpdate{
		Status:             mapSubscriptionStatus(sub.Status),
		CurrentPeriodStart: &periodStart,
		CurrentPeriodEnd:   &periodEnd,
	})
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}

	plan := updated.Plan
	if plan == nil {
		plan, err = h.planRepo.GetByID(ctx, updated.PlanID)
		if err != nil {
			return err
		}
	}

	return h.appendHistory(ctx, updated, plan, &oldStatus, historyEvent)
}

// HandleSubscriptionDeleted marks the subscription canceled and emails
// the account holder.
func (h *SubscriptionEvents) HandleSubscriptionDeleted(ctx context.Context, payload json.RawMessage) error {
	var sub stripe.Subscription
	if err := unmarshalObject(payload, &sub); err != nil {
		return err
	}

	canceled, err := h.subscriptionRepo.Cancel(ctx, sub.ID)
	if err != nil {
		return err
	}
	if canceled == nil {
		h.logger.Warn("Subscription deletion for unknown subscription, skipping",
			zap.String("stripe_subscription_id", sub.ID))
		return nil
	}

	plan := canceled.Plan
	if plan == nil {
		plan, err = h.planRepo.GetByID(ctx, canceled.PlanID)
		if err != nil {
			return err
		}
	}

	oldStatus := string(model.SubscriptionStatusActive)
	if err := h.appendHistory(ctx, canceled, plan, &oldStatus, model.HistoryEventCanceled); err != nil {
		return err
	}

	// The cancellation email is a courtesy, not part of the ledger state.
	profile, err := h.profileRepo.GetByID(ctx, canceled.ProfileID)
	if err != nil || profile == nil {
		h.logger.Warn("Skipping cancellation email, profile unavailable",
			zap.String("stripe_subscription_id", sub.ID),
			zap.Error(err))
		return nil
	}
	planName := ""
	if plan != nil {
		planName = plan.Name
	}
	if err := h.mailer.SendSubscriptionCanceled(profile.ContactEmail, profile.ContactName, planName, canceled.CurrentPeriodEnd); err != nil {
		h.logger.Warn("Failed to send cancellation email",
			zap.String("profile_id", profile.ID.String()),
			zap.Error(err))
	}

	return nil
}

func (h *SubscriptionEvents) appendHistory(ctx context.Context, sub *model.Subscription, plan *model.Plan, oldStatus *string, eventType string) error {
	return h.subscriptionRepo.AppendHistory(ctx, &model.SubscriptionHistory{
		SubscriptionID: sub.ID,
		ProfileID:      sub.ProfileID,
		PlanID:         sub.PlanID,
		EventType:      eventType,
		OldStatus:      oldStatus,
		NewStatus:      string(sub.Status),
		MRR:            planMRR(plan),
		EffectiveDate:  time.Now(),
	})
}

func (h *SubscriptionEvents) planForSubscription(ctx context.Context, sub *stripe.Subscription) (*model.Plan, error) {
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return nil, nil
	}
	price := sub.Items.Data[0].Price
	if price.Product == nil {
		return nil, nil
	}
	return h.planRepo.GetByStripeProductID(ctx, price.Product.ID)
}

// planMRR derives monthly recurring revenue from the plan's price.
// Yearly plans are normalized to a monthly figure.
func planMRR(plan *model.Plan) decimal.Decimal {
	if plan == nil {
		return decimal.Zero
	}
	if plan.PriceMonthlyCents != nil {
		return decimal.NewFromInt(*plan.PriceMonthlyCents).Div(decimal.NewFromInt(100))
	}
	if plan.PriceYearlyCents != nil {
		return decimal.NewFromInt(*plan.PriceYearlyCents).
			Div(decimal.NewFromInt(12)).
			Div(decimal.NewFromInt(100)).
			Round(2)
	}
	return decimal.Zero
}

func mapSubscriptionStatus(s stripe.SubscriptionStatus) model.SubscriptionStatus {
	switch s {
	case stripe.SubscriptionStatusActive:
		return model.SubscriptionStatusActive
	case stripe.SubscriptionStatusTrialing:
		return model.SubscriptionStatusTrialing
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return model.SubscriptionStatusPastDue
	default:
		return model.SubscriptionStatusCanceled
	}
}

func stripeCustomerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}
