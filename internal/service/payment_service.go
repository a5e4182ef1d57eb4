package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/config"
	"github.com/jeffleon2/draftea-settlement-service/internal/chain"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/jeffleon2/draftea-settlement-service/internal/models/dto"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidPayment = errors.New("invalid payment")

// PaymentRepo defines the interface for payment data persistence operations.
// UpdateWhereNot must check and write in a single statement.
type PaymentRepo interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetBy(ctx context.Context, key string, value interface{}) (*[]models.Payment, error)
	UpdateWhereNot(ctx context.Context, id string, column string, excluded interface{}, fields map[string]interface{}) (bool, error)
}

// Publisher defines the interface for publishing events to Kafka topics.
type Publisher interface {
	Publish(ctx context.Context, topic string, message interface{}) error
}

// PaymentService owns the payment lifecycle: created, then pending once a
// payer is known, then completed once a settling transaction is found.
// Completed is terminal.
type PaymentService struct {
	Repo            PaymentRepo
	Publisher       Publisher
	Config          config.Payment
	ValidateAddress func(address string) error
	now             func() time.Time
}

// NewPaymentService creates a new PaymentService with the provided repository and publisher.
// publisher may be nil when Kafka is disabled; completion events are then skipped.
func NewPaymentService(repo PaymentRepo, publisher Publisher, cfg config.Payment) *PaymentService {
	return &PaymentService{
		Repo:            repo,
		Publisher:       publisher,
		Config:          cfg,
		ValidateAddress: chain.ValidateAddress,
		now:             time.Now,
	}
}

// WithClock replaces the clock used for expiry and verification timestamps.
func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}

// CreatePayment validates the request and stores a new payment in created
// status, expiring after the configured number of minutes.
func (s *PaymentService) CreatePayment(ctx context.Context, paymentDTO *dto.Payment) (*models.Payment, error) {
	paymentDTO.Sanitize()
	payment := paymentDTO.ToEntity()
	if err := payment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayment, err.Error())
	}
	if err := s.ValidateAddress(payment.Recipient); err != nil {
		return nil, fmt.Errorf("%w: invalid recipient address", ErrInvalidPayment)
	}

	minAmount := decimal.NewFromFloat(s.Config.MinAmount)
	maxAmount := decimal.NewFromFloat(s.Config.MaxAmount)
	if payment.Amount.LessThan(minAmount) || payment.Amount.GreaterThan(maxAmount) {
		return nil, fmt.Errorf("%w: amount must be between %s and %s", ErrInvalidPayment, minAmount, maxAmount)
	}

	payment.ExpiresAt = s.now().Add(time.Duration(s.Config.ExpirationMinutes) * time.Minute)

	if err := s.Repo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("error creating payment: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"amount":     payment.Amount.String(),
		"token":      payment.Token,
	}).Info("payment created")
	return payment, nil
}

// GetPayment returns models.ErrPaymentNotFound for unknown ids.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error fetching payment %s: %w", id, err)
	}
	return payment, nil
}

// PendingPayments returns the pending payments that have not expired yet.
func (s *PaymentService) PendingPayments(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.Repo.GetBy(ctx, "status", models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("error listing pending payments: %w", err)
	}
	now := s.now()
	open := make([]models.Payment, 0, len(*payments))
	for _, p := range *payments {
		if p.ExpiresAt.IsZero() || p.ExpiresAt.After(now) {
			open = append(open, p)
		}
	}
	return open, nil
}

// MarkPending records the payer of a payment that has not completed yet.
func (s *PaymentService) MarkPending(ctx context.Context, id string, payer string) error {
	fields := map[string]interface{}{"status": models.StatusPending}
	if payer != "" {
		if err := s.ValidateAddress(payer); err != nil {
			return fmt.Errorf("%w: invalid payer address", ErrInvalidPayment)
		}
		fields["payer"] = payer
	}
	return s.transition(ctx, id, fields)
}

// UpdatePaymentStatus moves a payment to status. Completing requires the
// settling signature, stamps the verification time and publishes
// payments.completed. A completed payment never changes again; attempts
// return models.ErrPaymentAlreadyCompleted. The conditional update lets
// exactly one concurrent completion through, so only the winner publishes.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, signature string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidPayment, status)
	}

	fields := map[string]interface{}{"status": status}
	if status != models.StatusCompleted {
		return s.transition(ctx, id, fields)
	}

	if signature == "" {
		return fmt.Errorf("%w: signature is required to complete a payment", ErrInvalidPayment)
	}
	verifiedAt := s.now().UTC()
	fields["signature"] = signature
	fields["verified_at"] = verifiedAt

	if err := s.transition(ctx, id, fields); err != nil {
		return err
	}

	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		logrus.Errorf("payment %s completed but could not be reloaded: %v", id, err)
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"payment_id": id,
		"signature":  signature,
	}).Info("payment completed")

	if s.Publisher == nil {
		return nil
	}
	event := models.PaymentCompletedEvent{
		PaymentID:   payment.ID,
		Recipient:   payment.Recipient,
		Amount:      payment.Amount.String(),
		Token:       string(payment.Token),
		Signature:   signature,
		CompletedAt: verifiedAt,
	}
	if err := s.Publisher.Publish(ctx, models.PaymentCompletedEventTopic, event); err != nil {
		logrus.Errorf("error publishing completion of payment %s: %v", id, err)
	}
	return nil
}

// transition applies fields unless the payment is already completed.
func (s *PaymentService) transition(ctx context.Context, id string, fields map[string]interface{}) error {
	changed, err := s.Repo.UpdateWhereNot(ctx, id, "status", models.StatusCompleted, fields)
	if err != nil {
		return fmt.Errorf("error updating payment %s: %w", id, err)
	}
	if changed {
		return nil
	}
	if _, err := s.GetPayment(ctx, id); err != nil {
		return err
	}
	return models.ErrPaymentAlreadyCompleted
}
