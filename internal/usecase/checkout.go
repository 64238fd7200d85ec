package usecase

import (
	"context"

	"github.com/google/uuid"
	domainErrors "github.com/zenithwebstudios/billing-service/internal/domain/errors"
	"github.com/zenithwebstudios/billing-service/internal/domain/provider"
	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// Billing intervals accepted by checkout.
const (
	BillingIntervalMonthly = "monthly"
	BillingIntervalYearly  = "yearly"
)

// CheckoutInput is a validated checkout request for a signed-in profile.
type CheckoutInput struct {
	ProfileID       uuid.UUID
	PlanID          uuid.UUID
	BillingInterval string
}

// CheckoutUsecase creates provider checkout and billing-portal sessions.
type CheckoutUsecase struct {
	profileRepo      repository.ProfileRepository
	planRepo         repository.PlanRepository
	subscriptionRepo repository.SubscriptionRepository
	provider         provider.CheckoutProvider
	clientURL        string
	logger           *zap.Logger
}

func NewCheckoutUsecase(
	profileRepo repository.ProfileRepository,
	planRepo repository.PlanRepository,
	subscriptionRepo repository.SubscriptionRepository,
	checkoutProvider provider.CheckoutProvider,
	clientURL string,
	logger *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		profileRepo:      profileRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		provider:         checkoutProvider,
		clientURL:        clientURL,
		logger:           logger,
	}
}

// CreateSession validates the request against the profile's current
// state and opens a provider checkout session.
func (u *CheckoutUsecase) CreateSession(ctx context.Context, in CheckoutInput) (*provider.CheckoutSession, error) {
	profile, err := u.profileRepo.GetByID(ctx, in.ProfileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domainErrors.ErrProfileNotFound
	}

	plan, err := u.planRepo.GetByID(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive {
		return nil, domainErrors.ErrPlanNotFound
	}

	hasActive, err := u.subscriptionRepo.HasActiveSubscription(ctx, in.ProfileID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, domainErrors.ErrActiveSubscription
	}

	var priceID *string
	if in.BillingInterval == BillingIntervalYearly {
		priceID = plan.StripePriceIDYearly
	} else {
		priceID = plan.StripePriceIDMonthly
	}
	if priceID == nil || *priceID == "" {
		return nil, domainErrors.ErrPriceNotConfigured
	}

	customerID := ""
	if profile.StripeCustomerID != nil {
		customerID = *profile.StripeCustomerID
	}

	session, err := u.provider.CreateCheckoutSession(ctx, provider.CheckoutSessionRequest{
		PriceID:         *priceID,
		CustomerID:      customerID,
		CustomerEmail:   profile.ContactEmail,
		ProfileID:       in.ProfileID.String(),
		PlanID:          in.PlanID.String(),
		BillingInterval: in.BillingInterval,
		SuccessURL:      u.clientURL + "/dashboard/billing?checkout=success",
		CancelURL:       u.clientURL + "/pricing?checkout=canceled",
	})
	if err != nil {
		u.logger.Error("Failed to create checkout session",
			zap.String("profile_id", in.ProfileID.String()),
			zap.String("plan_id", in.PlanID.String()),
			zap.Error(err))
		return nil, err
	}

	u.logger.Info("Checkout session created",
		zap.String("profile_id", in.ProfileID.String()),
		zap.String("session_id", session.ID))
	return session, nil
}

// CreatePortalSession opens a billing-portal session for a profile that
// already has a provider customer.
func (u *CheckoutUsecase) CreatePortalSession(ctx context.Context, profileID uuid.UUID) (*provider.PortalSession, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domainErrors.ErrProfileNotFound
	}
	if profile.StripeCustomerID == nil || *profile.StripeCustomerID == "" {
		return nil, domainErrors.ErrCustomerNotProvisioned
	}

	return u.provider.CreatePortalSession(ctx, provider.PortalSessionRequest{
		CustomerID: *profile.StripeCustomerID,
		ReturnURL:  u.clientURL + "/dashboard/billing",
	})
}
