package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/zenithwebstudios/billing-service/internal/domain/errors"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// InboundEvent is a verified webhook delivery handed to the processor.
type InboundEvent struct {
	ID      string
	Type    string
	Payload json.RawMessage
}

// Receipt is the processor's acknowledgement for the HTTP layer.
type Receipt struct {
	EventID          string
	AlreadyProcessed bool
}

// WebhookProcessor drives an event through the ledger state machine:
// idempotency gate, retry-wrapped dispatch, terminal status, failure
// alert.
type WebhookProcessor struct {
	webhookRepo repository.WebhookRepository
	dispatcher  *Dispatcher
	retryer     *Retryer
	notifier    *FailureNotifier
	lease       time.Duration
	logger      *zap.Logger
}

func NewWebhookProcessor(
	webhookRepo repository.WebhookRepository,
	dispatcher *Dispatcher,
	retryer *Retryer,
	notifier *FailureNotifier,
	lease time.Duration,
	logger *zap.Logger,
) *WebhookProcessor {
	return &WebhookProcessor{
		webhookRepo: webhookRepo,
		dispatcher:  dispatcher,
		retryer:     retryer,
		notifier:    notifier,
		lease:       lease,
		logger:      logger,
	}
}

// Process runs one delivery through the pipeline. A hard error (ledger
// unavailable, dispatch exhausted) propagates so the HTTP layer answers
// with a failure and the provider redelivers.
func (p *WebhookProcessor) Process(ctx context.Context, evt InboundEvent) (*Receipt, error) {
	existing, err := p.webhookRepo.GetEvent(ctx, evt.ID)
	if err != nil {
		// A lookup failure must not be mistaken for a new event.
		return nil, err
	}

	if existing != nil {
		if p.isAbandoned(existing) {
			p.logger.Warn("Reprocessing abandoned webhook event",
				zap.String("event_id", evt.ID),
				zap.Time("last_update", existing.UpdatedAt))
			return p.run(ctx, evt)
		}
		p.logger.Info("Duplicate webhook delivery acknowledged",
			zap.String("event_id", evt.ID),
			zap.String("status", string(existing.Status)))
		return &Receipt{EventID: evt.ID, AlreadyProcessed: true}, nil
	}

	if _, err := p.webhookRepo.CreateEvent(ctx, evt.ID, evt.Type, evt.Payload); err != nil {
		if errors.Is(err, domainErrors.ErrDuplicateEvent) {
			// Lost the insert race to a concurrent delivery of the same
			// event. The winner processes it.
			p.logger.Info("Concurrent duplicate webhook delivery acknowledged",
				zap.String("event_id", evt.ID))
			return &Receipt{EventID: evt.ID, AlreadyProcessed: true}, nil
		}
		return nil, err
	}

	return p.run(ctx, evt)
}

// isAbandoned reports whether a `processing` row has outlived its lease
// and may be reclaimed by a redelivery.
func (p *WebhookProcessor) isAbandoned(event *model.WebhookEvent) bool {
	if event.Status != model.WebhookStatusProcessing || p.lease <= 0 {
		return false
	}
	return time.Since(event.UpdatedAt) > p.lease
}

func (p *WebhookProcessor) run(ctx context.Context, evt InboundEvent) (*Receipt, error) {
	dispatchErr := p.retryer.Do(ctx, evt.ID, func(ctx context.Context) error {
		return p.dispatcher.Dispatch(ctx, evt.Type, evt.Payload)
	})

	if dispatchErr != nil {
		if err := p.webhookRepo.MarkFailed(ctx, evt.ID, dispatchErr); err != nil {
			p.logger.Warn("Failed to finalize webhook as failed",
				zap.String("event_id", evt.ID),
				zap.Error(err))
		}
		p.notifier.NotifyFailure(ctx, evt.ID, evt.Type, dispatchErr)
		return nil, fmt.Errorf("webhook processing failed: %w", dispatchErr)
	}

	if err := p.webhookRepo.MarkCompleted(ctx, evt.ID); err != nil {
		// The work itself succeeded; a finalization hiccup is telemetry.
		p.logger.Warn("Failed to finalize webhook as completed",
			zap.String("event_id", evt.ID),
			zap.Error(err))
	}

	p.logger.Info("Webhook event processed",
		zap.String("event_id", evt.ID),
		zap.String("event_type", evt.Type))
	return &Receipt{EventID: evt.ID}, nil
}

// Reprocess reruns a failed event from its stored payload. This is the
// operator override behind the admin dashboard and the only sanctioned
// exit from a terminal status.
func (p *WebhookProcessor) Reprocess(ctx context.Context, eventID string) (*model.WebhookEvent, error) {
	event, err := p.webhookRepo.ReclaimForReprocess(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domainErrors.ErrEventNotFound
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to restore stored payload: %w", err)
	}

	// The rerun outcome lands on the ledger row either way; the caller
	// gets the row back, not the dispatch error.
	if _, err := p.run(ctx, InboundEvent{ID: event.StripeEventID, Type: event.EventType, Payload: payload}); err != nil {
		p.logger.Warn("Reprocess attempt failed",
			zap.String("event_id", eventID),
			zap.Error(err))
	}

	return p.webhookRepo.GetEvent(ctx, eventID)
}
