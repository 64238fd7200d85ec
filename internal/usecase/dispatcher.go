package usecase

import (
	"context"
	"encoding/json"

	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"go.uber.org/zap"
)

// HandlerFunc processes one webhook payload.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Dispatcher routes webhook events to their registered handlers. The
// registry is populated once at startup; event types outside the known
// enum are acknowledged without work.
type Dispatcher struct {
	handlers map[model.EventType][]HandlerFunc
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[model.EventType][]HandlerFunc),
		logger:   logger,
	}
}

// Register appends a handler for the event type. Types with multiple
// handlers run them in registration order.
func (d *Dispatcher) Register(eventType model.EventType, handler HandlerFunc) {
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Dispatch runs every handler registered for the event type. The first
// handler error aborts the dispatch and fails the whole attempt; the
// retry layer re-runs all handlers, so each must tolerate replays.
func (d *Dispatcher) Dispatch(ctx context.Context, eventType string, payload json.RawMessage) error {
	parsed, ok := model.ParseEventType(eventType)
	if !ok {
		d.logger.Info("Ignoring unhandled webhook event type",
			zap.String("event_type", eventType))
		return nil
	}

	for _, handler := range d.handlers[parsed] {
		if err := handler(ctx, payload); err != nil {
			return err
		}
	}

	return nil
}
