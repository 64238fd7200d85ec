package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	handlers "github.com/zenithwebstudios/billing-service/internal/adapter/handler/http"
	"github.com/zenithwebstudios/billing-service/internal/config"
	domainErrors "github.com/zenithwebstudios/billing-service/internal/domain/errors"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"github.com/zenithwebstudios/billing-service/internal/usecase"
)

type adminFixture struct {
	handler     *handlers.AdminWebhookHandler
	webhookRepo *MockWebhookRepository
}

func newAdminFixture() *adminFixture {
	logger := zap.NewNop()
	webhookRepo := new(MockWebhookRepository)
	profileRepo := new(MockProfileRepository)
	notificationRepo := new(MockNotificationRepository)
	profileRepo.On("ListAdmins", mock.Anything).Return([]*model.Profile{}, nil).Maybe()

	dispatcher := usecase.NewDispatcher(logger)
	retryer := usecase.NewRetryer(webhookRepo, config.WebhookConfig{
		MaxRetries:   1,
		InitialDelay: time.Millisecond,
	}, logger).WithSleep(func(time.Duration) {})
	notifier := usecase.NewFailureNotifier(webhookRepo, profileRepo, notificationRepo, logger)
	processor := usecase.NewWebhookProcessor(webhookRepo, dispatcher, retryer, notifier, 15*time.Minute, logger)

	return &adminFixture{
		handler:     handlers.NewAdminWebhookHandler(logger, webhookRepo, processor),
		webhookRepo: webhookRepo,
	}
}

func TestAdminWebhookHandler_ListEvents(t *testing.T) {
	t.Run("should list events with status counts", func(t *testing.T) {
		f := newAdminFixture()
		events := []*model.WebhookEvent{
			{StripeEventID: "evt_002", EventType: "invoice.paid", Status: model.WebhookStatusFailed},
			{StripeEventID: "evt_001", EventType: "invoice.created", Status: model.WebhookStatusFailed},
		}
		f.webhookRepo.On("List", mock.Anything, model.WebhookStatusFailed, 50, 0).Return(events, nil)
		f.webhookRepo.On("CountByStatus", mock.Anything).Return(map[model.WebhookStatus]int64{
			model.WebhookStatusCompleted: 10,
			model.WebhookStatusFailed:    2,
		}, nil)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/webhooks?status=failed", nil)
		rec := httptest.NewRecorder()
		assert.NoError(t, f.handler.ListEvents(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Events []json.RawMessage `json:"events"`
			Counts map[string]int64  `json:"counts"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Events, 2)
		assert.Equal(t, int64(2), resp.Counts["failed"])
	})

	t.Run("should reject an unknown status filter", func(t *testing.T) {
		f := newAdminFixture()

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/webhooks?status=bogus", nil)
		rec := httptest.NewRecorder()
		assert.NoError(t, f.handler.ListEvents(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.webhookRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdminWebhookHandler_ReprocessEvent(t *testing.T) {
	t.Run("should rerun a failed event", func(t *testing.T) {
		f := newAdminFixture()
		reclaimed := &model.WebhookEvent{
			StripeEventID: "evt_010",
			EventType:     "invoice.paid",
			Status:        model.WebhookStatusProcessing,
			Payload:       model.JSONB{"id": "evt_010"},
		}
		f.webhookRepo.On("ReclaimForReprocess", mock.Anything, "evt_010").Return(reclaimed, nil)
		f.webhookRepo.On("MarkCompleted", mock.Anything, "evt_010").Return(nil)
		f.webhookRepo.On("GetEvent", mock.Anything, "evt_010").Return(&model.WebhookEvent{
			StripeEventID: "evt_010",
			Status:        model.WebhookStatusCompleted,
		}, nil)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/admin/webhooks/:event_id/reprocess")
		c.SetParamNames("event_id")
		c.SetParamValues("evt_010")
		assert.NoError(t, f.handler.ReprocessEvent(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "evt_010")
		assert.Contains(t, rec.Body.String(), "completed")
	})

	t.Run("should return 404 for an unknown event", func(t *testing.T) {
		f := newAdminFixture()
		f.webhookRepo.On("ReclaimForReprocess", mock.Anything, "evt_404").Return(nil, domainErrors.ErrEventNotFound)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/admin/webhooks/:event_id/reprocess")
		c.SetParamNames("event_id")
		c.SetParamValues("evt_404")
		assert.NoError(t, f.handler.ReprocessEvent(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
