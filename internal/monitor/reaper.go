package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Reaper periodically drops payments whose watches outlived the TTL.
type Reaper struct {
	registry  *Registry
	sender    Sender
	publisher Publisher
	ttl       time.Duration
	interval  time.Duration
	now       func() time.Time
	cron      *cron.Cron
}

// NewReaper builds a reaper. publisher may be nil.
func NewReaper(registry *Registry, sender Sender, publisher Publisher, ttl, interval time.Duration) *Reaper {
	return &Reaper{
		registry:  registry,
		sender:    sender,
		publisher: publisher,
		ttl:       ttl,
		interval:  interval,
		now:       time.Now,
		cron:      cron.New(),
	}
}

// WithClock replaces the clock used to age watches.
func (r *Reaper) WithClock(now func() time.Time) *Reaper {
	r.now = now
	return r
}

// Start schedules Sweep every interval.
func (r *Reaper) Start() error {
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), func() {
		r.Sweep(context.Background())
	}); err != nil {
		return fmt.Errorf("error scheduling watch sweep: %w", err)
	}
	r.cron.Start()
	return nil
}

// Stop halts scheduling; the returned context is done once a running sweep
// has finished.
func (r *Reaper) Stop() context.Context {
	return r.cron.Stop()
}

// Sweep removes expired payments, unsubscribes their active watches and
// announces each expiry. It returns the removed watches.
func (r *Reaper) Sweep(ctx context.Context) []models.Watch {
	removed := r.registry.Expire(r.ttl, r.now())
	if len(removed) == 0 {
		return nil
	}

	unsubscribeAll(r.registry, r.sender, removed)
	metrics.WatchesReapedTotal.Add(float64(len(removed)))

	byPayment := make(map[string][]string)
	for _, w := range removed {
		byPayment[w.PaymentID] = append(byPayment[w.PaymentID], w.WatchedAccount)
	}

	for paymentID, accounts := range byPayment {
		logrus.WithFields(logrus.Fields{
			"payment_id": paymentID,
			"accounts":   accounts,
		}).Info("watch expired without settlement")

		if r.publisher == nil {
			continue
		}
		event := models.WatchExpiredEvent{
			PaymentID: paymentID,
			Accounts:  accounts,
			ExpiredAt: r.now(),
		}
		if err := r.publisher.Publish(ctx, models.WatchExpiredEventTopic, event); err != nil {
			logrus.Errorf("error publishing watch expiry for %s: %v", paymentID, err)
		}
	}
	return removed
}
