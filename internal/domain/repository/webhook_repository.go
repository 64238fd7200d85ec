package repository

import (
	"context"
	"encoding/json"

	"github.com/zenithwebstudios/billing-service/internal/domain/model"
)

// WebhookRepository persists the webhook event ledger. The unique index
// on the provider event id is the concurrency-safety mechanism for
// duplicate deliveries; GetEvent is only the fast path.
type WebhookRepository interface {
	// GetEvent returns the ledger row for the event id, or nil when the
	// event has not been seen. Lookup errors propagate: they must not be
	// mistaken for "new event".
	GetEvent(ctx context.Context, eventID string) (*model.WebhookEvent, error)

	// CreateEvent inserts a new row in `processing` status. A concurrent
	// insert of the same event id returns errors.ErrDuplicateEvent.
	CreateEvent(ctx context.Context, eventID, eventType string, payload json.RawMessage) (*model.WebhookEvent, error)

	// RecordRetry increments the retry counter and stamps last_retry_at.
	// Failures are wrapped as TelemetryError.
	RecordRetry(ctx context.Context, eventID string) error

	// MarkCompleted finalizes a `processing` row as completed. Matching no
	// in-flight row returns errors.ErrEventFinalized (terminal status is
	// write-once).
	MarkCompleted(ctx context.Context, eventID string) error

	// MarkFailed finalizes a `processing` row as failed with the error
	// message. Same write-once guard as MarkCompleted.
	MarkFailed(ctx context.Context, eventID string, cause error) error

	// ReclaimForReprocess moves a failed row back to `processing` for a
	// manual, operator-initiated rerun. This is the only sanctioned exit
	// from a terminal status.
	ReclaimForReprocess(ctx context.Context, eventID string) (*model.WebhookEvent, error)

	// List returns ledger rows, newest first, optionally filtered by
	// status.
	List(ctx context.Context, status model.WebhookStatus, limit, offset int) ([]*model.WebhookEvent, error)

	// CountByStatus returns ledger row counts per status for the admin
	// dashboard.
	CountByStatus(ctx context.Context) (map[model.WebhookStatus]int64, error)
}
