package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	portalsession "github.com/stripe/stripe-go/v79/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/zenithwebstudios/billing-service/internal/domain/provider"
	"go.uber.org/zap"
)

// Provider creates Stripe checkout and billing-portal sessions. The
// package-level stripe.Key is set once at server startup.
type Provider struct {
	logger *zap.Logger
}

func NewProvider(logger *zap.Logger) *Provider {
	return &Provider{logger: logger}
}

// CreateCheckoutSession opens a subscription checkout session. The
// metadata round-trips through the checkout.session.completed webhook,
// which is where the subscription row gets linked to the profile.
func (p *Provider) CreateCheckoutSession(ctx context.Context, req provider.CheckoutSessionRequest) (*provider.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	} else if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	params.AddMetadata("profile_id", req.ProfileID)
	params.AddMetadata("plan_id", req.PlanID)
	params.AddMetadata("billing_interval", req.BillingInterval)

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Stripe checkout session created",
		zap.String("session_id", sess.ID))
	return &provider.CheckoutSession{
		ID:  sess.ID,
		URL: sess.URL,
	}, nil
}

// CreatePortalSession opens a billing-portal session for an existing
// customer.
func (p *Provider) CreatePortalSession(ctx context.Context, req provider.PortalSessionRequest) (*provider.PortalSession, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(req.CustomerID),
		ReturnURL: stripe.String(req.ReturnURL),
	}
	params.Context = ctx

	sess, err := portalsession.New(params)
	if err != nil {
		return nil, err
	}

	return &provider.PortalSession{URL: sess.URL}, nil
}
