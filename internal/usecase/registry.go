package usecase

import (
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
)

// RegisterWebhookHandlers binds every business handler to its event
// types. The invoice.payment_succeeded/failed types run two handlers:
// the invoice mirror first, then the legacy payments table.
func RegisterWebhookHandlers(
	d *Dispatcher,
	checkout *CheckoutEvents,
	subscriptions *SubscriptionEvents,
	invoices *InvoiceEvents,
	payments *PaymentEvents,
	paymentIntents *PaymentIntentEvents,
	charges *ChargeEvents,
	prices *PriceEvents,
) {
	d.Register(model.EventCheckoutSessionCompleted, checkout.HandleCheckoutCompleted)

	d.Register(model.EventSubscriptionCreated, subscriptions.HandleSubscriptionCreated)
	d.Register(model.EventSubscriptionUpdated, subscriptions.HandleSubscriptionUpdated)
	d.Register(model.EventSubscriptionDeleted, subscriptions.HandleSubscriptionDeleted)

	d.Register(model.EventInvoiceCreated, invoices.HandleInvoiceCreated)
	d.Register(model.EventInvoicePaid, invoices.HandleInvoicePaid)

	d.Register(model.EventInvoicePaymentSucceeded, invoices.HandleInvoicePaid)
	d.Register(model.EventInvoicePaymentSucceeded, payments.HandlePaymentSucceeded)

	d.Register(model.EventInvoicePaymentFailed, invoices.HandleInvoicePaymentFailed)
	d.Register(model.EventInvoicePaymentFailed, payments.HandlePaymentFailed)

	d.Register(model.EventPaymentIntentSucceeded, paymentIntents.HandlePaymentIntentSucceeded)
	d.Register(model.EventPaymentIntentFailed, paymentIntents.HandlePaymentIntentFailed)

	d.Register(model.EventChargeSucceeded, charges.HandleChargeSucceeded)
	d.Register(model.EventChargeRefunded, charges.HandleChargeRefunded)

	d.Register(model.EventPriceCreated, prices.HandlePriceChange)
	d.Register(model.EventPriceUpdated, prices.HandlePriceChange)
}
