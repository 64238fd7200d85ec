package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	domainRepo "github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates the invoice repository.
func NewInvoiceRepository(db *gorm.DB, logger *zap.Logger) domainRepo.InvoiceRepository {
	return &invoiceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *invoiceRepository) Upsert(ctx context.Context, inv *model.Invoice) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stripe_invoice_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "amount_due", "amount_paid", "amount_remaining",
				"invoice_number", "invoice_pdf_url", "hosted_invoice_url",
				"period_start", "period_end", "due_date", "updated_at",
			}),
		}).
		Create(inv).Error
	if err != nil {
		r.logger.Error("Failed to upsert invoice",
			zap.String("stripe_invoice_id", inv.StripeInvoiceID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert invoice: %w", err)
	}

	return nil
}

func (r *invoiceRepository) MarkPaid(ctx context.Context, stripeInvoiceID string, amountPaid int64) (*model.Invoice, error) {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("stripe_invoice_id = ?", stripeInvoiceID).
		Updates(map[string]interface{}{
			"status":           "paid",
			"amount_paid":      amountPaid,
			"amount_remaining": 0,
			"paid_at":          &now,
			"updated_at":       now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark invoice as paid",
			zap.String("stripe_invoice_id", stripeInvoiceID),
			zap.Error(result.Error))
		return nil, fmt.Errorf("failed to mark invoice as paid: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Where("stripe_invoice_id = ?", stripeInvoiceID).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}

	return &inv, nil
}

func (r *invoiceRepository) RecordPaymentFailure(ctx context.Context, stripeInvoiceID string, failure domainRepo.InvoicePaymentFailure) error {
	result := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("stripe_invoice_id = ?", stripeInvoiceID).
		Updates(map[string]interface{}{
			"status":               failure.Status,
			"attempt_count":        failure.AttemptCount,
			"next_payment_attempt": failure.NextPaymentAttempt,
			"updated_at":           time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to record invoice payment failure",
			zap.String("stripe_invoice_id", stripeInvoiceID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to record invoice payment failure: %w", result.Error)
	}

	return nil
}
