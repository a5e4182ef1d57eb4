package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string
type Token string

const (
	StatusCreated   PaymentStatus = "created"
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"

	TokenUSDC Token = "USDC"
	TokenUSDT Token = "USDT"
	TokenSOL  Token = "SOL"
)

type Payment struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	Recipient  string          `json:"recipient"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric(20,9)"`
	Token      Token           `json:"token"`
	Label      string          `json:"label"`
	Message    string          `json:"message"`
	Status     PaymentStatus   `json:"status" gorm:"index"`
	Payer      string          `json:"payer,omitempty"`
	Signature  *string         `json:"signature,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
	VerifiedAt *time.Time      `json:"verified_at,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	return
}

func (p *Payment) Validate() error {
	if !p.Token.IsValid() {
		return fmt.Errorf("invalid token: %s", p.Token)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}
	if p.Recipient == "" {
		return fmt.Errorf("recipient is required")
	}

	return nil
}

// IsCompleted reports whether the payment reached its terminal state.
func (p *Payment) IsCompleted() bool {
	return p.Status == StatusCompleted
}

func (t Token) IsValid() bool {
	switch t {
	case TokenUSDC, TokenUSDT, TokenSOL:
		return true
	default:
		return false
	}
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusCreated, StatusPending, StatusCompleted:
		return true
	default:
		return false
	}
}
