package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/internal/handlers"
	"github.com/jeffleon2/draftea-settlement-service/internal/handlers/mocks"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/monitor"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const account = "11111111111111111111111111111111"

func newRouter(t *testing.T) (*gin.Engine, *mocks.MockPaymentService, *mocks.MockSettlementMonitor, *handlers.PaymentHandler) {
	gin.SetMode(gin.TestMode)
	svc := mocks.NewMockPaymentService(t)
	mon := mocks.NewMockSettlementMonitor(t)
	h := handlers.NewPaymentHandler(svc, mon)

	router := gin.New()
	router.POST("/payments", h.CreatePayment)
	router.POST("/payments/:id/watch", h.WatchPayment)
	router.POST("/payments/:id/verify", h.VerifyPayment)
	router.GET("/payments/:id/status", h.PaymentStatus)
	router.GET("/monitor/status", h.MonitorStatus)
	return router, svc, mon, h
}

func do(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreatePayment_Created(t *testing.T) {
	router, svc, _, _ := newRouter(t)
	svc.EXPECT().
		CreatePayment(mock.Anything, mock.Anything).
		Return(&models.Payment{ID: "P", Status: models.StatusCreated, Amount: decimal.NewFromInt(10)}, nil).
		Once()

	rec := do(router, http.MethodPost, "/payments", map[string]interface{}{"recipient": account, "amount": "10"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "P", decode(t, rec)["id"])
}

func TestCreatePayment_ValidationError(t *testing.T) {
	router, svc, _, _ := newRouter(t)
	svc.EXPECT().
		CreatePayment(mock.Anything, mock.Anything).
		Return(nil, service.ErrInvalidPayment).
		Once()

	rec := do(router, http.MethodPost, "/payments", map[string]interface{}{"recipient": "x", "amount": "10"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePayment_BadBody(t *testing.T) {
	router, _, _, _ := newRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchPayment_DerivesAccounts(t *testing.T) {
	router, svc, mon, _ := newRouter(t)
	payment := &models.Payment{ID: "P", Status: models.StatusPending, Token: models.TokenUSDC}
	svc.EXPECT().GetPayment(mock.Anything, "P").Return(payment, nil).Once()
	mon.EXPECT().WatchPayment(mock.Anything, payment).Return(nil).Once()
	mon.EXPECT().IsConnected().Return(true).Once()
	mon.EXPECT().ActiveWatchCount().Return(2).Once()

	rec := do(router, http.MethodPost, "/payments/P/watch", nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["balance_monitoring"])
	assert.Equal(t, float64(2), body["active_monitors"])
}

func TestWatchPayment_ExplicitAccounts(t *testing.T) {
	router, svc, mon, _ := newRouter(t)
	payment := &models.Payment{ID: "P", Status: models.StatusPending}
	svc.EXPECT().GetPayment(mock.Anything, "P").Return(payment, nil).Once()
	mon.EXPECT().
		WatchPaymentAccounts(mock.Anything, "P", mock.MatchedBy(func(targets []models.WatchTarget) bool {
			return len(targets) == 1 && targets[0].Account == account && targets[0].Asset == models.TokenUSDC
		})).
		Return(nil).
		Once()
	mon.EXPECT().IsConnected().Return(false).Once()
	mon.EXPECT().ActiveWatchCount().Return(1).Once()

	rec := do(router, http.MethodPost, "/payments/P/watch", map[string]interface{}{
		"accounts": []map[string]interface{}{{"account": account, "asset": "USDC", "expected_amount": "10"}},
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestWatchPayment_InvalidAccount(t *testing.T) {
	router, svc, mon, _ := newRouter(t)
	svc.EXPECT().GetPayment(mock.Anything, "P").Return(&models.Payment{ID: "P"}, nil).Once()
	mon.EXPECT().WatchPaymentAccounts(mock.Anything, "P", mock.Anything).Return(monitor.ErrInvalidAccount).Once()

	rec := do(router, http.MethodPost, "/payments/P/watch", map[string]interface{}{
		"accounts": []map[string]interface{}{{"account": "bad"}},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchPayment_CompletedPayment(t *testing.T) {
	router, svc, _, _ := newRouter(t)
	svc.EXPECT().GetPayment(mock.Anything, "P").Return(&models.Payment{ID: "P", Status: models.StatusCompleted}, nil).Once()

	rec := do(router, http.MethodPost, "/payments/P/watch", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestVerifyPayment_Verified(t *testing.T) {
	router, _, mon, _ := newRouter(t)
	verifiedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mon.EXPECT().
		ForceVerify(mock.Anything, "P", "S1").
		Return(monitor.VerifyResult{
			Verified:               true,
			Status:                 models.StatusCompleted,
			Signature:              "S1",
			DualTransfersCompleted: true,
			VerifiedAt:             &verifiedAt,
		}, nil).
		Once()

	rec := do(router, http.MethodPost, "/payments/P/verify", map[string]string{"signature": "S1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["verified"])
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, "2025-01-01T00:00:00Z", body["verified_at"])
}

func TestVerifyPayment_NotFound(t *testing.T) {
	router, _, mon, _ := newRouter(t)
	mon.EXPECT().ForceVerify(mock.Anything, "missing", "S1").Return(monitor.VerifyResult{}, monitor.ErrPaymentNotFound).Once()

	rec := do(router, http.MethodPost, "/payments/missing/verify", map[string]string{"signature": "S1"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerifyPayment_UnsupportedToken(t *testing.T) {
	router, _, mon, _ := newRouter(t)
	err := fmt.Errorf("%w: SOL", monitor.ErrUnsupportedToken)
	mon.EXPECT().ForceVerify(mock.Anything, "P", "S1").Return(monitor.VerifyResult{Status: models.StatusPending}, err).Once()

	rec := do(router, http.MethodPost, "/payments/P/verify", map[string]string{"signature": "S1"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["verified"])
	assert.Equal(t, "unsupported token: SOL", body["error"])
}

func TestVerifyPayment_MissingSignature(t *testing.T) {
	router, _, _, _ := newRouter(t)

	rec := do(router, http.MethodPost, "/payments/P/verify", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyPayment_ChainFailure(t *testing.T) {
	router, _, mon, _ := newRouter(t)
	mon.EXPECT().ForceVerify(mock.Anything, "P", "S1").Return(monitor.VerifyResult{}, errors.New("rpc down")).Once()

	rec := do(router, http.MethodPost, "/payments/P/verify", map[string]string{"signature": "S1"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPaymentStatus_Completed(t *testing.T) {
	router, svc, mon, _ := newRouter(t)
	signature := "S1"
	verifiedAt := time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC)
	svc.EXPECT().GetPayment(mock.Anything, "P").Return(&models.Payment{
		ID:         "P",
		Recipient:  account,
		Amount:     decimal.RequireFromString("10.5"),
		Token:      models.TokenUSDC,
		Status:     models.StatusCompleted,
		Signature:  &signature,
		VerifiedAt: &verifiedAt,
	}, nil).Once()
	mon.EXPECT().IsConnected().Return(true).Once()
	mon.EXPECT().ActiveWatchCount().Return(0).Once()
	mon.EXPECT().DualTransfersCompleted(mock.Anything, "S1").Return(true).Once()

	rec := do(router, http.MethodGet, "/payments/P/status", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, account, body["merchant"])
	assert.Equal(t, true, body["dual_transfers_completed"])
	assert.Equal(t, "2025-01-01T00:05:00Z", body["verified_at"])
}

func TestPaymentStatus_NotFound(t *testing.T) {
	router, svc, _, _ := newRouter(t)
	svc.EXPECT().GetPayment(mock.Anything, "missing").Return(nil, models.ErrPaymentNotFound).Once()

	rec := do(router, http.MethodGet, "/payments/missing/status", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMonitorStatus(t *testing.T) {
	router, _, mon, _ := newRouter(t)
	mon.EXPECT().IsConnected().Return(false).Once()
	mon.EXPECT().ActiveWatchCount().Return(4).Once()

	rec := do(router, http.MethodGet, "/monitor/status", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["balance_monitoring"])
	assert.Equal(t, float64(4), body["active_monitors"])
}

func TestHandleEvents_PendingWithAccounts(t *testing.T) {
	_, svc, mon, h := newRouter(t)
	ctx := context.Background()
	event := models.PaymentPendingEvent{
		PaymentID: "P",
		Payer:     account,
		Accounts:  []models.WatchTarget{{Account: account, Asset: models.TokenUSDC}},
	}
	value, _ := json.Marshal(event)

	svc.EXPECT().MarkPending(ctx, "P", account).Return(nil).Once()
	mon.EXPECT().WatchPaymentAccounts(ctx, "P", mock.AnythingOfType("[]models.WatchTarget")).Return(nil).Once()

	assert.NoError(t, h.HandleEvents(ctx, models.PaymentPendingTopic2Subscribe, value))
}

func TestHandleEvents_PendingDerivesAccounts(t *testing.T) {
	_, svc, mon, h := newRouter(t)
	ctx := context.Background()
	payment := &models.Payment{ID: "P", Token: models.TokenUSDC}
	value, _ := json.Marshal(models.PaymentPendingEvent{PaymentID: "P"})

	svc.EXPECT().MarkPending(ctx, "P", "").Return(nil).Once()
	svc.EXPECT().GetPayment(ctx, "P").Return(payment, nil).Once()
	mon.EXPECT().WatchPayment(ctx, payment).Return(nil).Once()

	assert.NoError(t, h.HandleEvents(ctx, models.PaymentPendingTopic2Subscribe, value))
}

func TestHandleEvents_AlreadyCompletedIsAcknowledged(t *testing.T) {
	_, svc, _, h := newRouter(t)
	ctx := context.Background()
	value, _ := json.Marshal(models.PaymentPendingEvent{PaymentID: "P"})

	svc.EXPECT().MarkPending(ctx, "P", "").Return(models.ErrPaymentAlreadyCompleted).Once()

	assert.NoError(t, h.HandleEvents(ctx, models.PaymentPendingTopic2Subscribe, value))
}

func TestHandleEvents_RejectsUnknownTopicAndBadPayload(t *testing.T) {
	_, _, _, h := newRouter(t)
	ctx := context.Background()

	assert.Error(t, h.HandleEvents(ctx, "payments.other", []byte(`{}`)))
	assert.Error(t, h.HandleEvents(ctx, models.PaymentPendingTopic2Subscribe, []byte(`{`)))
}
