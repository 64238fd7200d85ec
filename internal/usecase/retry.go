package usecase

import (
	"context"
	"time"

	"github.com/zenithwebstudios/billing-service/internal/config"
	"github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
)

// Retryer runs a unit of work with exponential backoff, recording each
// retry on the event's ledger row.
type Retryer struct {
	webhookRepo  repository.WebhookRepository
	logger       *zap.Logger
	maxRetries   int
	initialDelay time.Duration

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

func NewRetryer(
	webhookRepo repository.WebhookRepository,
	cfg config.WebhookConfig,
	logger *zap.Logger,
) *Retryer {
	return &Retryer{
		webhookRepo:  webhookRepo,
		logger:       logger,
		maxRetries:   cfg.MaxRetries,
		initialDelay: cfg.InitialDelay,
		sleep:        time.Sleep,
	}
}

// WithSleep overrides the backoff sleep. Tests inject a recorder here.
func (r *Retryer) WithSleep(sleep func(time.Duration)) *Retryer {
	r.sleep = sleep
	return r
}

// Do runs work up to maxRetries+1 times. The delay before retry k is
// initialDelay * 2^k. The last attempt's error is returned unchanged so
// callers can inspect it.
func (r *Retryer) Do(ctx context.Context, eventID string, work func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err := work(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxRetries {
			break
		}

		delay := r.initialDelay << attempt
		r.logger.Warn("Webhook attempt failed, retrying",
			zap.String("event_id", eventID),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))

		// Retry bookkeeping is telemetry. A failed counter update must
		// not abort the loop.
		if recErr := r.webhookRepo.RecordRetry(ctx, eventID); recErr != nil {
			r.logger.Warn("Failed to record retry",
				zap.String("event_id", eventID),
				zap.Error(recErr))
		}

		r.sleep(delay)
	}

	return lastErr
}
