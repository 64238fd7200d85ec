package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/zenithwebstudios/billing-service/internal/config"
	domainErrors "github.com/zenithwebstudios/billing-service/internal/domain/errors"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"github.com/zenithwebstudios/billing-service/internal/usecase"
)

type processorFixture struct {
	webhookRepo      *MockWebhookRepository
	profileRepo      *MockProfileRepository
	notificationRepo *MockNotificationRepository
	dispatcher       *usecase.Dispatcher
	processor        *usecase.WebhookProcessor
}

func newProcessorFixture(maxRetries int) *processorFixture {
	logger := zap.NewNop()
	f := &processorFixture{
		webhookRepo:      new(MockWebhookRepository),
		profileRepo:      new(MockProfileRepository),
		notificationRepo: new(MockNotificationRepository),
		dispatcher:       usecase.NewDispatcher(logger),
	}
	retryer := usecase.NewRetryer(f.webhookRepo, config.WebhookConfig{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
	}, logger).WithSleep(func(time.Duration) {})
	notifier := usecase.NewFailureNotifier(f.webhookRepo, f.profileRepo, f.notificationRepo, logger)
	f.processor = usecase.NewWebhookProcessor(f.webhookRepo, f.dispatcher, retryer, notifier, 15*time.Minute, logger)
	return f
}

func TestWebhookProcessor_Process(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"id":"evt_001","type":"invoice.paid","data":{"object":{"id":"in_001"}}}`)

	t.Run("new event dispatches once and completes", func(t *testing.T) {
		f := newProcessorFixture(3)
		handlerCalls := 0
		f.dispatcher.Register(model.EventInvoicePaid, func(context.Context, json.RawMessage) error {
			handlerCalls++
			return nil
		})

		f.webhookRepo.On("GetEvent", ctx, "evt_001").Return(nil, nil).Once()
		f.webhookRepo.On("CreateEvent", ctx, "evt_001", "invoice.paid", payload).
			Return(&model.WebhookEvent{StripeEventID: "evt_001", Status: model.WebhookStatusProcessing}, nil).Once()
		f.webhookRepo.On("MarkCompleted", ctx, "evt_001").Return(nil).Once()

		receipt, err := f.processor.Process(ctx, usecase.InboundEvent{ID: "evt_001", Type: "invoice.paid", Payload: payload})

		assert.NoError(t, err)
		assert.Equal(t, "evt_001", receipt.EventID)
		assert.False(t, receipt.AlreadyProcessed)
		assert.Equal(t, 1, handlerCalls)
		f.webhookRepo.AssertExpectations(t)
	})

	t.Run("replay of a completed event is acknowledged without dispatch", func(t *testing.T) {
		f := newProcessorFixture(3)
		handlerCalls := 0
		f.dispatcher.Register(model.EventInvoicePaid, func(context.Context, json.RawMessage) error {
			handlerCalls++
			return nil
		})

		f.webhookRepo.On("GetEvent", ctx, "evt_001").
			Return(&model.WebhookEvent{
				StripeEventID: "evt_001",
				Status:        model.WebhookStatusCompleted,
				UpdatedAt:     time.Now(),
			}, nil).Once()

		receipt, err := f.processor.Process(ctx, usecase.InboundEvent{ID: "evt_001", Type: "invoice.paid", Payload: payload})

		assert.NoError(t, err)
		assert.True(t, receipt.AlreadyProcessed)
		assert.Equal(t, 0, handlerCalls)
		f.webhookRepo.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing the insert race acknowledges as already processed", func(t *testing.T) {
		f := newProcessorFixture(3)
		handlerCalls := 0
		f.dispatcher.Register(model.EventInvoicePaid, func(context.Context, json.RawMessage) error {
			handlerCalls++
			return nil
		})

		f.webhookRepo.On("GetEvent", ctx, "evt_001").Return(nil, nil).Once()
		f.webhookRepo.On("CreateEvent", ctx, "evt_001", "invoice.paid", payload).
			Return(nil, domainErrors.ErrDuplicateEvent).Once()

		receipt, err := f.processor.Process(ctx, usecase.InboundEvent{ID: "evt_001", Type: "invoice.paid", Payload: payload})

		assert.NoError(t, err)
		assert.True(t, receipt.AlreadyProcessed)
		assert.Equal(t, 0, handlerCalls)
	})

	t.Run("ledger lookup failure is a hard error", func(t *testing.T) {
		f := newProcessorFixture(3)

		f.webhookRepo.On("GetEvent", ctx, "evt_001").Return(nil, errors.New("db unavailable")).Once()

		receipt, err := f.processor.Process(ctx, usecase.InboundEvent{ID: "evt_001", Type: "invoice.paid", Payload: payload})

		assert.Error(t, err)
		assert.Nil(t, receipt)
		f.webhookRepo.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("exhausted retries mark failed and alert admins", func(t *testing.T) {
		f := newProcessorFixture(1)
		handlerErr := errors.New("downstream rejected the invoice")
		f.dispatcher.Register(model.EventInvoicePaid, func(context.Context, json.RawMessage) error {
			return handlerErr
		})

		admin := &model.Profile{ID: uuid.New(), Role: model.RoleAdmin}
		f.webhookRepo.On("GetEvent", ctx, "evt_001").Return(nil, nil).Once()
		f.webhookRepo.On("CreateEvent", ctx, "evt_001", "invoice.paid", payload).
			Return(&model.WebhookEvent{StripeEventID: "evt_001", Status: model.WebhookStatusProcessing}, nil).Once()
		f.webhookRepo.On("RecordRetry", ctx, "evt_001").Return(nil)
		f.webhookRepo.On("MarkFailed", ctx, "evt_001", handlerErr).Return(nil).Once()
		f.webhookRepo.On("GetEvent", ctx, "evt_001").
			Return(&model.WebhookEvent{StripeEventID: "evt_001", Status: model.WebhookStatusFailed, RetryCount: 1}, nil).Once()
		f.profileRepo.On("ListAdmins", ctx).Return([]*model.Profile{admin}, nil).Once()

		var captured []*model.Notification
		f.notificationRepo.On("CreateBatch", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).([]*model.Notification)
			}).
			Return(nil).Once()

		receipt, err := f.processor.Process(ctx, usecase.InboundEvent{ID: "evt_001", Type: "invoice.paid", Payload: payload})

		assert.Error(t, err)
		assert.ErrorIs(t, err, handlerErr)
		assert.Nil(t, receipt)
		if assert.Len(t, captured, 1) {
			assert.Equal(t, admin.ID, captured[0].ProfileID)
			assert.Equal(t, "Webhook Processing Failed", captured[0].Title)
			assert.True(t, strings.Contains(captured[0].Body, "evt_001"))
			assert.True(t, strings.Contains(captured[0].Body, "failed after 1 retries"))
		}
		f.webhookRepo.AssertExpectations(t)
	})

	t.Run("abandoned processing row is reclaimed by a redelivery", func(t *testing.T) {
		f := newProcessorFixture(3)
		handlerCalls := 0
		f.dispatcher.Register(model.EventInvoicePaid, func(context.Context, json.RawMessage) error {
			handlerCalls++
			return nil
		})

		f.webhookRepo.On("GetEvent", ctx, "evt_001").
			Return(&model.WebhookEvent{
				StripeEventID: "evt_001",
				Status:        model.WebhookStatusProcessing,
				UpdatedAt:     time.Now().Add(-20 * time.Minute),
			}, nil).Once()
		f.webhookRepo.On("MarkCompleted", ctx, "evt_001").Return(nil).Once()

		receipt, err := f.processor.Process(ctx, usecase.InboundEvent{ID: "evt_001", Type: "invoice.paid", Payload: payload})

		assert.NoError(t, err)
		assert.False(t, receipt.AlreadyProcessed)
		assert.Equal(t, 1, handlerCalls)
	})

	t.Run("fresh processing row is acknowledged as in flight", func(t *testing.T) {
		f := newProcessorFixture(3)
		handlerCalls := 0
		f.dispatcher.Register(model.EventInvoicePaid, func(context.Context, json.RawMessage) error {
			handlerCalls++
			return nil
		})

		f.webhookRepo.On("GetEvent", ctx, "evt_001").
			Return(&model.WebhookEvent{
				StripeEventID: "evt_001",
				Status:        model.WebhookStatusProcessing,
				UpdatedAt:     time.Now().Add(-time.Minute),
			}, nil).Once()

		receipt, err := f.processor.Process(ctx, usecase.InboundEvent{ID: "evt_001", Type: "invoice.paid", Payload: payload})

		assert.NoError(t, err)
		assert.True(t, receipt.AlreadyProcessed)
		assert.Equal(t, 0, handlerCalls)
	})
}

func TestWebhookProcessor_Reprocess(t *testing.T) {
	ctx := context.Background()

	t.Run("reruns a failed event from its stored payload", func(t *testing.T) {
		f := newProcessorFixture(3)
		handlerCalls := 0
		f.dispatcher.Register(model.EventInvoicePaid, func(_ context.Context, payload json.RawMessage) error {
			handlerCalls++
			return nil
		})

		reclaimed := &model.WebhookEvent{
			StripeEventID: "evt_500",
			EventType:     "invoice.paid",
			Status:        model.WebhookStatusProcessing,
			Payload:       model.JSONB{"data": map[string]interface{}{"object": map[string]interface{}{"id": "in_500"}}},
		}
		f.webhookRepo.On("ReclaimForReprocess", ctx, "evt_500").Return(reclaimed, nil).Once()
		f.webhookRepo.On("MarkCompleted", ctx, "evt_500").Return(nil).Once()
		f.webhookRepo.On("GetEvent", ctx, "evt_500").
			Return(&model.WebhookEvent{StripeEventID: "evt_500", Status: model.WebhookStatusCompleted}, nil).Once()

		event, err := f.processor.Reprocess(ctx, "evt_500")

		assert.NoError(t, err)
		assert.Equal(t, model.WebhookStatusCompleted, event.Status)
		assert.Equal(t, 1, handlerCalls)
	})
}
