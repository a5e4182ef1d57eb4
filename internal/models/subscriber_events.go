package models

const (
	PaymentPendingTopic2Subscribe string = "payments.pending"
)

// PaymentPendingEvent is emitted by the payment flow once a transaction
// naming a payer has been handed out. Accounts is optional; when empty the
// recipient and fee token accounts are derived from the payment.
type PaymentPendingEvent struct {
	PaymentID string        `json:"payment_id"`
	Payer     string        `json:"payer"`
	Accounts  []WatchTarget `json:"accounts,omitempty"`
	TraceID   string        `json:"trace_id"`
}
