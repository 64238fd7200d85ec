package repository

import (
	"context"
	"fmt"

	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	domainRepo "github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates the payment repository.
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRepository) UpsertPayment(ctx context.Context, p *model.Payment) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stripe_invoice_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"stripe_customer_id", "stripe_subscription_id",
				"amount", "currency", "status", "updated_at",
			}),
		}).
		Create(p).Error
	if err != nil {
		r.logger.Error("Failed to upsert payment",
			zap.String("stripe_invoice_id", p.StripeInvoiceID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert payment: %w", err)
	}

	return nil
}

func (r *paymentRepository) UpsertPaymentIntent(ctx context.Context, pi *model.PaymentIntent) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stripe_payment_intent_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"stripe_invoice_id", "amount", "currency", "status",
				"failure_message", "updated_at",
			}),
		}).
		Create(pi).Error
	if err != nil {
		r.logger.Error("Failed to upsert payment intent",
			zap.String("stripe_payment_intent_id", pi.StripePaymentIntentID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert payment intent: %w", err)
	}

	return nil
}

func (r *paymentRepository) UpsertCharge(ctx context.Context, c *model.Charge) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stripe_charge_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"stripe_payment_intent_id", "amount", "amount_refunded",
				"currency", "status", "refunded", "receipt_url", "updated_at",
			}),
		}).
		Create(c).Error
	if err != nil {
		r.logger.Error("Failed to upsert charge",
			zap.String("stripe_charge_id", c.StripeChargeID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert charge: %w", err)
	}

	return nil
}

func (r *paymentRepository) UpsertRefund(ctx context.Context, ref *model.Refund) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stripe_refund_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"amount", "currency", "reason", "status",
			}),
		}).
		Create(ref).Error
	if err != nil {
		r.logger.Error("Failed to upsert refund",
			zap.String("stripe_refund_id", ref.StripeRefundID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert refund: %w", err)
	}

	return nil
}
