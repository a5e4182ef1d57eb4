package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/models/dto"
	"github.com/jeffleon2/draftea-settlement-service/internal/monitor"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
	"github.com/sirupsen/logrus"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, payment *dto.Payment) (*models.Payment, error)
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	MarkPending(ctx context.Context, id string, payer string) error
}

type SettlementMonitor interface {
	WatchPayment(ctx context.Context, payment *models.Payment) error
	WatchPaymentAccounts(ctx context.Context, paymentID string, targets []models.WatchTarget) error
	ForceVerify(ctx context.Context, paymentID, signature string) (monitor.VerifyResult, error)
	DualTransfersCompleted(ctx context.Context, signature string) bool
	ActiveWatchCount() int
	IsConnected() bool
}

type PaymentHandler struct {
	Service PaymentService
	Monitor SettlementMonitor
}

func NewPaymentHandler(s PaymentService, m SettlementMonitor) *PaymentHandler {
	return &PaymentHandler{Service: s, Monitor: m}
}

// POST /payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req dto.Payment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payment, err := h.Service.CreatePayment(c.Request.Context(), &req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// POST /payments/:id/watch
func (h *PaymentHandler) WatchPayment(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.WatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	payment, err := h.Service.GetPayment(ctx, c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if payment.IsCompleted() {
		c.JSON(http.StatusConflict, gin.H{"error": models.ErrPaymentAlreadyCompleted.Error()})
		return
	}

	if len(req.Accounts) > 0 {
		err = h.Monitor.WatchPaymentAccounts(ctx, payment.ID, req.Accounts)
	} else {
		err = h.Monitor.WatchPayment(ctx, payment)
	}
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"payment_id":         payment.ID,
		"balance_monitoring": h.Monitor.IsConnected(),
		"active_monitors":    h.Monitor.ActiveWatchCount(),
	})
}

// POST /payments/:id/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature is required"})
		return
	}

	result, err := h.Monitor.ForceVerify(c.Request.Context(), c.Param("id"), req.Signature)
	if err != nil {
		code := statusFor(err)
		if code != http.StatusInternalServerError {
			c.JSON(code, gin.H{"verified": false, "error": err.Error()})
			return
		}
		logrus.Errorf("error verifying payment %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"verified": false, "error": "verification failed"})
		return
	}

	body := gin.H{
		"verified":                 result.Verified,
		"status":                   result.Status,
		"signature":                result.Signature,
		"dual_transfers_completed": result.DualTransfersCompleted,
	}
	if result.VerifiedAt != nil {
		body["verified_at"] = result.VerifiedAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, body)
}

// GET /payments/:id/status
func (h *PaymentHandler) PaymentStatus(c *gin.Context) {
	ctx := c.Request.Context()
	payment, err := h.Service.GetPayment(ctx, c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	status := dto.PaymentStatus{
		ID:                payment.ID,
		Status:            payment.Status,
		Merchant:          payment.Recipient,
		Amount:            payment.Amount,
		Token:             payment.Token,
		Signature:         payment.Signature,
		CreatedAt:         payment.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt:         payment.ExpiresAt.UTC().Format(time.RFC3339),
		BalanceMonitoring: h.Monitor.IsConnected(),
		ActiveMonitors:    h.Monitor.ActiveWatchCount(),
	}
	if payment.VerifiedAt != nil {
		verifiedAt := payment.VerifiedAt.UTC().Format(time.RFC3339)
		status.VerifiedAt = &verifiedAt
	}
	if payment.IsCompleted() && payment.Signature != nil {
		status.DualTransfersCompleted = h.Monitor.DualTransfersCompleted(ctx, *payment.Signature)
	}

	c.JSON(http.StatusOK, status)
}

// GET /monitor/status
func (h *PaymentHandler) MonitorStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"balance_monitoring": h.Monitor.IsConnected(),
		"active_monitors":    h.Monitor.ActiveWatchCount(),
	})
}

// HandleEvents consumes payments.pending: the payer is recorded and the
// payment's accounts are watched.
func (h *PaymentHandler) HandleEvents(ctx context.Context, topic string, value []byte) error {
	if topic != models.PaymentPendingTopic2Subscribe {
		logrus.Errorf("topic not allowed %s", topic)
		return fmt.Errorf("topic not allowed %s", topic)
	}

	var event models.PaymentPendingEvent
	if err := json.Unmarshal(value, &event); err != nil {
		logrus.Errorf("Error parsing payment pending event %s", err.Error())
		return fmt.Errorf("error parsing payment pending event %w", err)
	}

	log := logrus.WithFields(logrus.Fields{"payment_id": event.PaymentID, "trace_id": event.TraceID})

	if err := h.Service.MarkPending(ctx, event.PaymentID, event.Payer); err != nil {
		if errors.Is(err, models.ErrPaymentAlreadyCompleted) {
			log.Info("payment already completed, not watching")
			return nil
		}
		return fmt.Errorf("error marking payment pending %w", err)
	}

	if len(event.Accounts) > 0 {
		if err := h.Monitor.WatchPaymentAccounts(ctx, event.PaymentID, event.Accounts); err != nil {
			return fmt.Errorf("error watching payment accounts %w", err)
		}
		return nil
	}

	payment, err := h.Service.GetPayment(ctx, event.PaymentID)
	if err != nil {
		return fmt.Errorf("error loading payment %w", err)
	}
	if err := h.Monitor.WatchPayment(ctx, payment); err != nil {
		return fmt.Errorf("error watching payment %w", err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrPaymentAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, monitor.ErrInvalidAccount),
		errors.Is(err, monitor.ErrUnsupportedToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
