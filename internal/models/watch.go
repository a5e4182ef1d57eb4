package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WatchKeyKind tells whether a watch is still waiting for the node's
// acknowledgement or already holds an authoritative subscription id.
type WatchKeyKind int

const (
	KeyPending WatchKeyKind = iota
	KeyActive
)

func (k WatchKeyKind) String() string {
	switch k {
	case KeyPending:
		return "pending"
	case KeyActive:
		return "active"
	default:
		return "unknown"
	}
}

// WatchKey identifies a watch in the registry. A pending key carries the
// locally generated request id, an active key the node subscription id.
type WatchKey struct {
	Kind WatchKeyKind
	ID   uint64
}

func PendingKey(ephemeralID uint64) WatchKey {
	return WatchKey{Kind: KeyPending, ID: ephemeralID}
}

func ActiveKey(subscriptionID uint64) WatchKey {
	return WatchKey{Kind: KeyActive, ID: subscriptionID}
}

func (k WatchKey) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

// Watch is a single account-level subscription serving one payment.
// Epoch is the connection epoch the subscribe request went out on, zero
// while it has not been sent.
type Watch struct {
	Key            WatchKey
	PaymentID      string
	WatchedAccount string
	ExpectedAmount decimal.Decimal
	Token          Token
	SubscribedAt   time.Time
	Epoch          uint64
}

// SubscriptionID returns the node subscription id once the watch is active.
func (w Watch) SubscriptionID() (uint64, bool) {
	if w.Key.Kind != KeyActive {
		return 0, false
	}
	return w.Key.ID, true
}

// WatchTarget is one account a payment expects funds on.
type WatchTarget struct {
	Account        string          `json:"account"`
	Asset          Token           `json:"asset"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
}
