package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	handlers "github.com/zenithwebstudios/billing-service/internal/adapter/handler/http"
	"github.com/zenithwebstudios/billing-service/internal/domain/model"
	"github.com/zenithwebstudios/billing-service/internal/domain/provider"
	"github.com/zenithwebstudios/billing-service/internal/middleware/auth"
	"github.com/zenithwebstudios/billing-service/internal/usecase"
)

const testJWTSecret = "test-jwt-secret"

func signedToken(t *testing.T, profileID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   profileID.String(),
		"email": "client@example.com",
		"role":  "client",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err)
	return signed
}

type checkoutFixture struct {
	handler          *handlers.CheckoutHandler
	profileRepo      *MockProfileRepository
	planRepo         *MockPlanRepository
	subscriptionRepo *MockSubscriptionRepository
	checkoutProvider *MockCheckoutProvider
}

func newCheckoutFixture() *checkoutFixture {
	logger := zap.NewNop()
	profileRepo := new(MockProfileRepository)
	planRepo := new(MockPlanRepository)
	subscriptionRepo := new(MockSubscriptionRepository)
	checkoutProvider := new(MockCheckoutProvider)

	checkout := usecase.NewCheckoutUsecase(
		profileRepo, planRepo, subscriptionRepo, checkoutProvider,
		"https://app.example.com", logger,
	)

	return &checkoutFixture{
		handler:          handlers.NewCheckoutHandler(logger, checkout),
		profileRepo:      profileRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		checkoutProvider: checkoutProvider,
	}
}

// post runs the request through the JWT middleware so the handler sees
// the same auth context it does in production.
func (f *checkoutFixture) post(t *testing.T, path, body, token string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := auth.JWTMiddleware(auth.JWTConfig{Secret: testJWTSecret, Logger: zap.NewNop()})
	_ = mw(h)(c)
	return rec
}

func TestCheckoutHandler_CreateCheckoutSession(t *testing.T) {
	profileID := uuid.New()
	planID := uuid.New()
	monthlyPrice := "price_monthly_123"

	t.Run("should create a session for a valid request", func(t *testing.T) {
		f := newCheckoutFixture()
		f.profileRepo.On("GetByID", mock.Anything, profileID).Return(&model.Profile{
			ID:           profileID,
			ContactEmail: "client@example.com",
		}, nil)
		f.planRepo.On("GetByID", mock.Anything, planID).Return(&model.Plan{
			ID:                   planID,
			IsActive:             true,
			StripePriceIDMonthly: &monthlyPrice,
		}, nil)
		f.subscriptionRepo.On("HasActiveSubscription", mock.Anything, profileID).Return(false, nil)
		f.checkoutProvider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(&provider.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/cs_test_123"}, nil)

		body := `{"plan_id":"` + planID.String() + `","billing_interval":"monthly"}`
		rec := f.post(t, "/api/v1/checkout", body, signedToken(t, profileID), f.handler.CreateCheckoutSession)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "cs_test_123", resp["id"])
		assert.Equal(t, "https://checkout.stripe.com/cs_test_123", resp["url"])
	})

	t.Run("should reject a request without a token", func(t *testing.T) {
		f := newCheckoutFixture()

		body := `{"plan_id":"` + planID.String() + `","billing_interval":"monthly"}`
		rec := f.post(t, "/api/v1/checkout", body, "", f.handler.CreateCheckoutSession)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.checkoutProvider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	})

	t.Run("should reject an invalid billing interval", func(t *testing.T) {
		f := newCheckoutFixture()

		body := `{"plan_id":"` + planID.String() + `","billing_interval":"weekly"}`
		rec := f.post(t, "/api/v1/checkout", body, signedToken(t, profileID), f.handler.CreateCheckoutSession)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should return 404 for an inactive plan", func(t *testing.T) {
		f := newCheckoutFixture()
		f.profileRepo.On("GetByID", mock.Anything, profileID).Return(&model.Profile{ID: profileID}, nil)
		f.planRepo.On("GetByID", mock.Anything, planID).Return(&model.Plan{ID: planID, IsActive: false}, nil)

		body := `{"plan_id":"` + planID.String() + `","billing_interval":"monthly"}`
		rec := f.post(t, "/api/v1/checkout", body, signedToken(t, profileID), f.handler.CreateCheckoutSession)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not available")
	})

	t.Run("should return 400 when a subscription is already active", func(t *testing.T) {
		f := newCheckoutFixture()
		f.profileRepo.On("GetByID", mock.Anything, profileID).Return(&model.Profile{ID: profileID}, nil)
		f.planRepo.On("GetByID", mock.Anything, planID).Return(&model.Plan{
			ID:                   planID,
			IsActive:             true,
			StripePriceIDMonthly: &monthlyPrice,
		}, nil)
		f.subscriptionRepo.On("HasActiveSubscription", mock.Anything, profileID).Return(true, nil)

		body := `{"plan_id":"` + planID.String() + `","billing_interval":"monthly"}`
		rec := f.post(t, "/api/v1/checkout", body, signedToken(t, profileID), f.handler.CreateCheckoutSession)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "already have an active subscription")
	})
}

func TestCheckoutHandler_CreatePortalSession(t *testing.T) {
	profileID := uuid.New()
	customerID := "cus_123"

	t.Run("should open the portal for a provisioned customer", func(t *testing.T) {
		f := newCheckoutFixture()
		f.profileRepo.On("GetByID", mock.Anything, profileID).Return(&model.Profile{
			ID:               profileID,
			StripeCustomerID: &customerID,
		}, nil)
		f.checkoutProvider.On("CreatePortalSession", mock.Anything, provider.PortalSessionRequest{
			CustomerID: customerID,
			ReturnURL:  "https://app.example.com/dashboard/billing",
		}).Return(&provider.PortalSession{URL: "https://billing.stripe.com/session_123"}, nil)

		rec := f.post(t, "/api/v1/billing/portal", "", signedToken(t, profileID), f.handler.CreatePortalSession)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "billing.stripe.com")
	})

	t.Run("should return 400 when no customer is linked", func(t *testing.T) {
		f := newCheckoutFixture()
		f.profileRepo.On("GetByID", mock.Anything, profileID).Return(&model.Profile{ID: profileID}, nil)

		rec := f.post(t, "/api/v1/billing/portal", "", signedToken(t, profileID), f.handler.CreatePortalSession)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "No billing account found")
	})
}
