package model

// EventType enumerates the provider event types this service routes.
// Dispatch is keyed on this closed set; anything else is acknowledged and
// dropped.
type EventType string

const (
	EventCheckoutSessionCompleted EventType = "checkout.session.completed"
	EventSubscriptionCreated      EventType = "customer.subscription.created"
	EventSubscriptionUpdated      EventType = "customer.subscription.updated"
	EventSubscriptionDeleted      EventType = "customer.subscription.deleted"
	EventInvoiceCreated           EventType = "invoice.created"
	EventInvoicePaid              EventType = "invoice.paid"
	EventInvoicePaymentSucceeded  EventType = "invoice.payment_succeeded"
	EventInvoicePaymentFailed     EventType = "invoice.payment_failed"
	EventPaymentIntentSucceeded   EventType = "payment_intent.succeeded"
	EventPaymentIntentFailed      EventType = "payment_intent.payment_failed"
	EventChargeSucceeded          EventType = "charge.succeeded"
	EventChargeRefunded           EventType = "charge.refunded"
	EventPriceCreated             EventType = "price.created"
	EventPriceUpdated             EventType = "price.updated"
)

var knownEventTypes = map[EventType]struct{}{
	EventCheckoutSessionCompleted: {},
	EventSubscriptionCreated:      {},
	EventSubscriptionUpdated:      {},
	EventSubscriptionDeleted:      {},
	EventInvoiceCreated:           {},
	EventInvoicePaid:              {},
	EventInvoicePaymentSucceeded:  {},
	EventInvoicePaymentFailed:     {},
	EventPaymentIntentSucceeded:   {},
	EventPaymentIntentFailed:      {},
	EventChargeSucceeded:          {},
	EventChargeRefunded:           {},
	EventPriceCreated:             {},
	EventPriceUpdated:             {},
}

// ParseEventType maps a raw provider event-type string onto the closed
// enum. The second return value is false for event types this service
// does not route.
func ParseEventType(s string) (EventType, bool) {
	t := EventType(s)
	_, ok := knownEventTypes[t]
	return t, ok
}
