package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
)

// SubscriptionUpdate carries the fields a subscription webhook may change.
type SubscriptionUpdate struct {
	Status             model.SubscriptionStatus
	CurrentPeriodStart *int64 // unix seconds; nil leaves the column alone
	CurrentPeriodEnd   *int64
}

// SubscriptionRepository persists subscriptions and their audit trail.
type SubscriptionRepository interface {
	// GetByStripeID returns the subscription for a provider subscription
	// id, or nil when unknown.
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*model.Subscription, error)

	// HasActiveSubscription reports whether the profile holds an active or
	// trialing subscription.
	HasActiveSubscription(ctx context.Context, profileID uuid.UUID) (bool, error)

	// UpdateByStripeID applies a webhook-observed change and returns the
	// updated row, or nil when no subscription matches.
	UpdateByStripeID(ctx context.Context, stripeSubscriptionID string, upd SubscriptionUpdate) (*model.Subscription, error)

	// Cancel marks the subscription canceled and stamps canceled_at,
	// returning the updated row or nil when unknown.
	Cancel(ctx context.Context, stripeSubscriptionID string) (*model.Subscription, error)

	// Upsert creates or refreshes the subscription keyed by the provider
	// subscription id (checkout completion path).
	Upsert(ctx context.Context, sub *model.Subscription) error

	// AppendHistory records one audit-trail row.
	AppendHistory(ctx context.Context, h *model.SubscriptionHistory) error
}
