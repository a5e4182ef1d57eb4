package monitor

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/sirupsen/logrus"
)

// BalanceHandler reacts to a balance change on a watched account by looking
// for a recent settling transaction touching it.
type BalanceHandler struct {
	registry       *Registry
	chain          ChainClient
	validator      *Validator
	settler        *settler
	signatureLimit int
	recencyWindow  time.Duration
	now            func() time.Time
}

func NewBalanceHandler(
	registry *Registry,
	chain ChainClient,
	validator *Validator,
	sender Sender,
	store PaymentStore,
	signatureLimit int,
	recencyWindow time.Duration,
) *BalanceHandler {
	return &BalanceHandler{
		registry:       registry,
		chain:          chain,
		validator:      validator,
		settler:        &settler{registry: registry, sender: sender, store: store},
		signatureLimit: signatureLimit,
		recencyWindow:  recencyWindow,
		now:            time.Now,
	}
}

// WithClock replaces the clock used for the recency window.
func (h *BalanceHandler) WithClock(now func() time.Time) *BalanceHandler {
	h.now = now
	return h
}

// Handle processes one notification. Errors are logged, never returned; a
// failed attempt leaves the watch in place for the next notification.
func (h *BalanceHandler) Handle(ctx context.Context, subscriptionID uint64, snapshot json.RawMessage) {
	start := time.Now()
	defer func() { metrics.SettlementLatency.Observe(time.Since(start).Seconds()) }()

	watch, ok := h.registry.Find(subscriptionID)
	if !ok {
		logrus.Debugf("subscription %d no longer watched", subscriptionID)
		return
	}

	log := logrus.WithFields(logrus.Fields{
		"payment_id":      watch.PaymentID,
		"account":         watch.WatchedAccount,
		"subscription_id": subscriptionID,
	})
	snap := models.ParseAccountSnapshot(snapshot)
	log.WithFields(logrus.Fields{
		"slot":    snap.Context.Slot,
		"balance": snap.Value.Data.Parsed.Info.TokenAmount.UIAmountString,
	}).Info("balance change detected")

	signatures, err := h.chain.GetRecentSignatures(ctx, watch.WatchedAccount, h.signatureLimit)
	if err != nil {
		log.Errorf("error fetching recent signatures: %v", err)
		return
	}
	if len(signatures) == 0 {
		return
	}

	sort.SliceStable(signatures, func(i, j int) bool {
		a, b := signatures[i].BlockTime, signatures[j].BlockTime
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})

	cutoff := h.now().Add(-h.recencyWindow)
	for _, sig := range signatures {
		if sig.BlockTime == nil || sig.BlockTime.Before(cutoff) {
			continue
		}

		valid, err := h.validator.IsSettlingTransaction(ctx, sig.Signature, watch.Token)
		if err != nil {
			log.Warnf("error validating signature %s: %v", sig.Signature, err)
			continue
		}
		if !valid {
			continue
		}

		settled, err := h.settler.settle(ctx, watch.PaymentID, sig.Signature)
		if err != nil {
			log.Errorf("error settling payment: %v", err)
			return
		}
		if settled {
			metrics.SettlementsTotal.WithLabelValues("notification").Inc()
			log.WithField("signature", sig.Signature).Info("valid payment found, payment completed")
		}
		return
	}
}
