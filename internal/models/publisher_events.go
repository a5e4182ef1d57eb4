package models

import "time"

const (
	PaymentCompletedEventTopic = "payments.completed"
	WatchExpiredEventTopic     = "payments.watch.expired"
	PaymentsDLQTopic           = "payments.dlq"
)

type PaymentCompletedEvent struct {
	PaymentID   string    `json:"payment_id"`
	Recipient   string    `json:"recipient"`
	Amount      string    `json:"amount"`
	Token       string    `json:"token"`
	Signature   string    `json:"signature"`
	CompletedAt time.Time `json:"completed_at"`
}

type WatchExpiredEvent struct {
	PaymentID string    `json:"payment_id"`
	Accounts  []string  `json:"accounts"`
	ExpiredAt time.Time `json:"expired_at"`
}

type DLQMessage struct {
	OriginalTopic string    `json:"original_topic"`
	Key           string    `json:"key"`
	Value         string    `json:"value"`
	Timestamp     time.Time `json:"timestamp"`
	Attempts      int       `json:"attempts"`
}
