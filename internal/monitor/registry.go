package monitor

import (
	"sync"
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
)

// SendFunc transmits a subscribe request for ephemeralID and reports the
// connection epoch it went out on.
type SendFunc func(ephemeralID uint64, w models.Watch) (epoch uint64, ok bool)

// Registry holds every live watch keyed by either its pending request id or
// its node subscription id. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	watches map[models.WatchKey]models.Watch
	lastID  uint64
}

func NewRegistry() *Registry {
	return &Registry{
		watches: make(map[models.WatchKey]models.Watch),
	}
}

// NextEphemeralID returns a request id never handed out before by this
// registry. Ids start at 1.
func (r *Registry) NextEphemeralID() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextIDLocked()
}

func (r *Registry) nextIDLocked() uint64 {
	r.lastID++
	return r.lastID
}

// Register stores w under the pending key for ephemeralID.
func (r *Registry) Register(ephemeralID uint64, w models.Watch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.Key = models.PendingKey(ephemeralID)
	r.watches[w.Key] = w
}

// Subscribe allocates a request id, sends through send and records the
// watch while holding the lock, so an acknowledgement can never be looked
// up before the pending entry exists. When the send fails the watch is kept
// unsent only if keepUnsent is set.
func (r *Registry) Subscribe(w models.Watch, send SendFunc, keepUnsent bool) (models.Watch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextIDLocked()
	w.Key = models.PendingKey(id)
	epoch, ok := send(id, w)
	if !ok {
		if !keepUnsent {
			return w, false
		}
		epoch = 0
	}
	w.Epoch = epoch
	r.watches[w.Key] = w
	return w, ok
}

// Promote moves the watch registered under ephemeralID to the active key of
// subscriptionID. It returns false when no pending watch has that id, which
// covers late and duplicate acknowledgements.
func (r *Registry) Promote(ephemeralID, subscriptionID uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := models.PendingKey(ephemeralID)
	w, ok := r.watches[pending]
	if !ok {
		return false
	}
	delete(r.watches, pending)
	w.Key = models.ActiveKey(subscriptionID)
	r.watches[w.Key] = w
	return true
}

// Find looks up an active watch by node subscription id.
func (r *Registry) Find(subscriptionID uint64) (models.Watch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.watches[models.ActiveKey(subscriptionID)]
	return w, ok
}

// RemoveAllForPayment atomically removes and returns every watch of
// paymentID. Concurrent callers for the same payment see the watches at most
// once between them.
func (r *Registry) RemoveAllForPayment(paymentID string) []models.Watch {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []models.Watch
	for key, w := range r.watches {
		if w.PaymentID == paymentID {
			removed = append(removed, w)
			delete(r.watches, key)
		}
	}
	return removed
}

// AllOlderThan lists watches subscribed more than age before now.
func (r *Registry) AllOlderThan(age time.Duration, now time.Time) []models.Watch {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-age)
	var old []models.Watch
	for _, w := range r.watches {
		if w.SubscribedAt.Before(cutoff) {
			old = append(old, w)
		}
	}
	return old
}

// Expire removes every watch belonging to a payment that has at least one
// watch older than ttl, and returns what it removed.
func (r *Registry) Expire(ttl time.Duration, now time.Time) []models.Watch {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-ttl)
	expired := make(map[string]struct{})
	for _, w := range r.watches {
		if w.SubscribedAt.Before(cutoff) {
			expired[w.PaymentID] = struct{}{}
		}
	}
	if len(expired) == 0 {
		return nil
	}

	var removed []models.Watch
	for key, w := range r.watches {
		if _, ok := expired[w.PaymentID]; ok {
			removed = append(removed, w)
			delete(r.watches, key)
		}
	}
	return removed
}

// Restore puts back watches taken out by RemoveAllForPayment. A key that has
// been reused in the meantime is left alone.
func (r *Registry) Restore(watches []models.Watch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range watches {
		if _, taken := r.watches[w.Key]; taken {
			continue
		}
		r.watches[w.Key] = w
	}
}

// Rearm re-subscribes every watch whose subscribe request did not go out on
// connection epoch. Each one gets a fresh pending key; subscription ids from
// a previous connection are meaningless to the new one. Watches whose send
// fails stay registered as unsent. It returns how many were re-sent.
func (r *Registry) Rearm(epoch uint64, send SendFunc) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stale []models.Watch
	for key, w := range r.watches {
		if w.Epoch == epoch && epoch != 0 {
			continue
		}
		stale = append(stale, w)
		delete(r.watches, key)
	}

	sent := 0
	for _, w := range stale {
		id := r.nextIDLocked()
		w.Key = models.PendingKey(id)
		w.Epoch = 0
		if e, ok := send(id, w); ok {
			w.Epoch = e
			sent++
		}
		r.watches[w.Key] = w
	}
	return sent
}

// Len counts pending and active watches.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watches)
}
