package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/sirupsen/logrus"
)

// settler finishes a payment exactly once. Claiming the payment's watches
// out of the registry is the gate: whoever removes a non-empty set owns the
// status update.
type settler struct {
	registry *Registry
	sender   Sender
	store    PaymentStore
}

// settle claims paymentID and marks it completed with signature. It returns
// false without error when another caller already claimed it or the store
// already holds it as completed. Any other store error puts the claimed
// watches back.
func (s *settler) settle(ctx context.Context, paymentID, signature string) (bool, error) {
	claimed := s.registry.RemoveAllForPayment(paymentID)
	if len(claimed) == 0 {
		return false, nil
	}

	err := s.store.UpdatePaymentStatus(ctx, paymentID, models.StatusCompleted, signature)
	if errors.Is(err, models.ErrPaymentAlreadyCompleted) {
		s.unsubscribe(claimed)
		return false, nil
	}
	if err != nil {
		s.registry.Restore(claimed)
		return false, fmt.Errorf("error completing payment %s: %w", paymentID, err)
	}

	s.unsubscribe(claimed)
	return true, nil
}

// release drops every watch of paymentID and unsubscribes the active ones.
func (s *settler) release(paymentID string) int {
	removed := s.registry.RemoveAllForPayment(paymentID)
	s.unsubscribe(removed)
	return len(removed)
}

func (s *settler) unsubscribe(watches []models.Watch) {
	unsubscribeAll(s.registry, s.sender, watches)
}

// unsubscribeAll sends accountUnsubscribe for every active watch. Pending
// ones have no subscription id yet and are skipped.
func unsubscribeAll(registry *Registry, sender Sender, watches []models.Watch) {
	for _, w := range watches {
		subscriptionID, ok := w.SubscriptionID()
		if !ok {
			continue
		}
		req := models.NewAccountUnsubscribe(registry.NextEphemeralID(), subscriptionID)
		if !sender.Send(req) {
			logrus.WithFields(logrus.Fields{
				"payment_id":      w.PaymentID,
				"subscription_id": subscriptionID,
			}).Warn("could not send unsubscribe, websocket not connected")
		}
	}
}
