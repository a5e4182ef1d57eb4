package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/config"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/models/dto"
	"github.com/jeffleon2/draftea-settlement-service/internal/service"
	"github.com/jeffleon2/draftea-settlement-service/internal/service/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

const recipient = "9E9ME8Xjrnnz5tyLqPWUbXVbPjXusEp9NdjKeugDjW5t"

var (
	paymentConfig = config.Payment{ExpirationMinutes: 30, MinAmount: 0.01, MaxAmount: 1000000}
	fixedNow      = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

func newService(t *testing.T) (*service.PaymentService, *mocks.MockPaymentRepo, *mocks.MockPublisher) {
	mockRepo := mocks.NewMockPaymentRepo(t)
	mockPublisher := mocks.NewMockPublisher(t)
	paymentService := service.NewPaymentService(mockRepo, mockPublisher, paymentConfig).
		WithClock(func() time.Time { return fixedNow })
	return paymentService, mockRepo, mockPublisher
}

func TestCreatePayment_Success(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)
	ctx := context.Background()
	paymentDTO := &dto.Payment{
		Recipient: " " + recipient + " ",
		Amount:    decimal.RequireFromString("25.5"),
		Token:     "usdc",
	}

	mockRepo.EXPECT().
		Create(ctx, mock.MatchedBy(func(p *models.Payment) bool {
			return p.Recipient == recipient &&
				p.Token == models.TokenUSDC &&
				p.Status == models.StatusCreated &&
				p.Label == "CryptoNow: 25.5 USDC" &&
				p.ExpiresAt.Equal(fixedNow.Add(30*time.Minute))
		})).
		Return(nil).
		Once()

	payment, err := paymentService.CreatePayment(ctx, paymentDTO)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusCreated, payment.Status)
	mockRepo.AssertExpectations(t)
}

func TestCreatePayment_InvalidRecipient(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)
	paymentDTO := &dto.Payment{Recipient: "not-an-address", Amount: decimal.NewFromInt(10)}

	_, err := paymentService.CreatePayment(context.Background(), paymentDTO)

	assert.ErrorIs(t, err, service.ErrInvalidPayment)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePayment_AmountOutOfRange(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)

	for _, amount := range []string{"0.001", "1000000.01", "0", "-5"} {
		paymentDTO := &dto.Payment{Recipient: recipient, Amount: decimal.RequireFromString(amount)}
		_, err := paymentService.CreatePayment(context.Background(), paymentDTO)
		assert.ErrorIs(t, err, service.ErrInvalidPayment, amount)
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePayment_UnknownToken(t *testing.T) {
	paymentService, _, _ := newService(t)
	paymentDTO := &dto.Payment{Recipient: recipient, Amount: decimal.NewFromInt(10), Token: "DOGE"}

	_, err := paymentService.CreatePayment(context.Background(), paymentDTO)

	assert.ErrorIs(t, err, service.ErrInvalidPayment)
}

func TestCreatePayment_RepoError(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)
	ctx := context.Background()
	expectedError := errors.New("database error")

	mockRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*models.Payment")).
		Return(expectedError).
		Once()

	_, err := paymentService.CreatePayment(ctx, &dto.Payment{Recipient: recipient, Amount: decimal.NewFromInt(10)})

	assert.ErrorIs(t, err, expectedError)
}

func TestGetPayment_NotFound(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)
	ctx := context.Background()

	mockRepo.EXPECT().GetByID(ctx, "missing").Return(nil, gorm.ErrRecordNotFound).Once()

	_, err := paymentService.GetPayment(ctx, "missing")

	assert.ErrorIs(t, err, models.ErrPaymentNotFound)
}

func TestUpdatePaymentStatus_CompletesAndPublishes(t *testing.T) {
	paymentService, mockRepo, mockPublisher := newService(t)
	ctx := context.Background()
	stored := &models.Payment{
		ID:        "payment-1",
		Recipient: recipient,
		Amount:    decimal.RequireFromString("10"),
		Token:     models.TokenUSDC,
		Status:    models.StatusCompleted,
	}

	mockRepo.EXPECT().
		UpdateWhereNot(ctx, "payment-1", "status", models.StatusCompleted, mock.MatchedBy(func(fields map[string]interface{}) bool {
			verifiedAt, ok := fields["verified_at"].(time.Time)
			return ok && verifiedAt.Equal(fixedNow) &&
				fields["status"] == models.StatusCompleted &&
				fields["signature"] == "S1"
		})).
		Return(true, nil).
		Once()
	mockRepo.EXPECT().GetByID(ctx, "payment-1").Return(stored, nil).Once()
	mockPublisher.EXPECT().
		Publish(ctx, models.PaymentCompletedEventTopic, mock.MatchedBy(func(e models.PaymentCompletedEvent) bool {
			return e.PaymentID == "payment-1" && e.Signature == "S1" && e.Amount == "10"
		})).
		Return(nil).
		Once()

	err := paymentService.UpdatePaymentStatus(ctx, "payment-1", models.StatusCompleted, "S1")

	assert.NoError(t, err)
}

func TestUpdatePaymentStatus_AlreadyCompleted(t *testing.T) {
	paymentService, mockRepo, mockPublisher := newService(t)
	ctx := context.Background()

	mockRepo.EXPECT().
		UpdateWhereNot(ctx, "payment-1", "status", models.StatusCompleted, mock.Anything).
		Return(false, nil).
		Once()
	mockRepo.EXPECT().GetByID(ctx, "payment-1").Return(&models.Payment{ID: "payment-1", Status: models.StatusCompleted}, nil).Once()

	err := paymentService.UpdatePaymentStatus(ctx, "payment-1", models.StatusCompleted, "S2")

	assert.ErrorIs(t, err, models.ErrPaymentAlreadyCompleted)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePaymentStatus_UnknownPayment(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)
	ctx := context.Background()

	mockRepo.EXPECT().
		UpdateWhereNot(ctx, "missing", "status", models.StatusCompleted, mock.Anything).
		Return(false, nil).
		Once()
	mockRepo.EXPECT().GetByID(ctx, "missing").Return(nil, gorm.ErrRecordNotFound).Once()

	err := paymentService.UpdatePaymentStatus(ctx, "missing", models.StatusCompleted, "S1")

	assert.ErrorIs(t, err, models.ErrPaymentNotFound)
}

func TestUpdatePaymentStatus_RequiresSignature(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)

	err := paymentService.UpdatePaymentStatus(context.Background(), "payment-1", models.StatusCompleted, "")

	assert.ErrorIs(t, err, service.ErrInvalidPayment)
	mockRepo.AssertNotCalled(t, "UpdateWhereNot", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePaymentStatus_PublishFailureDoesNotFail(t *testing.T) {
	paymentService, mockRepo, mockPublisher := newService(t)
	ctx := context.Background()

	mockRepo.EXPECT().UpdateWhereNot(ctx, "payment-1", "status", models.StatusCompleted, mock.Anything).Return(true, nil).Once()
	mockRepo.EXPECT().GetByID(ctx, "payment-1").Return(&models.Payment{ID: "payment-1", Status: models.StatusCompleted}, nil).Once()
	mockPublisher.EXPECT().
		Publish(ctx, models.PaymentCompletedEventTopic, mock.AnythingOfType("models.PaymentCompletedEvent")).
		Return(errors.New("kafka publish error")).
		Once()

	err := paymentService.UpdatePaymentStatus(ctx, "payment-1", models.StatusCompleted, "S1")

	assert.NoError(t, err)
}

func TestUpdatePaymentStatus_InvalidStatus(t *testing.T) {
	paymentService, _, _ := newService(t)

	err := paymentService.UpdatePaymentStatus(context.Background(), "payment-1", models.PaymentStatus("refunded"), "")

	assert.ErrorIs(t, err, service.ErrInvalidPayment)
}

func TestMarkPending_RecordsPayer(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)
	ctx := context.Background()

	mockRepo.EXPECT().
		UpdateWhereNot(ctx, "payment-1", "status", models.StatusCompleted, map[string]interface{}{
			"status": models.StatusPending,
			"payer":  recipient,
		}).
		Return(true, nil).
		Once()

	assert.NoError(t, paymentService.MarkPending(ctx, "payment-1", recipient))
}

func TestMarkPending_InvalidPayer(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)

	err := paymentService.MarkPending(context.Background(), "payment-1", "bad payer")

	assert.ErrorIs(t, err, service.ErrInvalidPayment)
	mockRepo.AssertNotCalled(t, "UpdateWhereNot", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNewPaymentService(t *testing.T) {
	mockRepo := mocks.NewMockPaymentRepo(t)
	mockPublisher := mocks.NewMockPublisher(t)

	paymentService := service.NewPaymentService(mockRepo, mockPublisher, paymentConfig)

	assert.NotNil(t, paymentService)
	assert.Equal(t, mockRepo, paymentService.Repo)
	assert.Equal(t, mockPublisher, paymentService.Publisher)
}

func TestPendingPayments_SkipsExpired(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)
	ctx := context.Background()
	payments := []models.Payment{
		{ID: "open", Status: models.StatusPending, ExpiresAt: fixedNow.Add(time.Minute)},
		{ID: "expired", Status: models.StatusPending, ExpiresAt: fixedNow.Add(-time.Minute)},
	}
	mockRepo.EXPECT().GetBy(ctx, "status", models.StatusPending).Return(&payments, nil).Once()

	pending, err := paymentService.PendingPayments(ctx)

	assert.NoError(t, err)
	if assert.Len(t, pending, 1) {
		assert.Equal(t, "open", pending[0].ID)
	}
}

func TestPendingPayments_RepoError(t *testing.T) {
	paymentService, mockRepo, _ := newService(t)
	mockRepo.EXPECT().GetBy(mock.Anything, "status", models.StatusPending).Return(nil, errors.New("db down")).Once()

	pending, err := paymentService.PendingPayments(context.Background())

	assert.Error(t, err)
	assert.Nil(t, pending)
}
