package provider

import "context"

// CheckoutSessionRequest is a provider-agnostic hosted-checkout request.
type CheckoutSessionRequest struct {
	PriceID         string
	CustomerID      string // provider customer id; empty for a new customer
	CustomerEmail   string
	ProfileID       string // carried in session metadata
	PlanID          string // carried in session metadata
	BillingInterval string // "monthly" or "yearly", carried in metadata
	SuccessURL      string
	CancelURL       string
}

// CheckoutSession describes the created hosted-checkout session.
type CheckoutSession struct {
	ID  string
	URL string
}

// PortalSessionRequest asks for a hosted billing-portal session.
type PortalSessionRequest struct {
	CustomerID string
	ReturnURL  string
}

// PortalSession describes the created billing-portal session.
type PortalSession struct {
	URL string
}

// CheckoutProvider creates hosted checkout and billing-portal sessions
// with the payment provider.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, req PortalSessionRequest) (*PortalSession, error)
}
