package dto

import (
	"fmt"
	"strings"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/shopspring/decimal"
)

type Payment struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Token     string          `json:"token"`
	Label     string          `json:"label"`
	Message   string          `json:"message"`
}

func (p *Payment) Sanitize() {
	p.Recipient = strings.TrimSpace(p.Recipient)
	p.Token = strings.TrimSpace(p.Token)
	p.Label = strings.TrimSpace(p.Label)
	p.Message = strings.TrimSpace(p.Message)

	p.Token = strings.ToUpper(p.Token)
	if p.Token == "" {
		p.Token = string(models.TokenUSDC)
	}
}

func (p *Payment) ToEntity() *models.Payment {
	label := p.Label
	if label == "" {
		label = fmt.Sprintf("CryptoNow: %s %s", p.Amount.String(), p.Token)
	}
	message := p.Message
	if message == "" {
		message = fmt.Sprintf("Payment %s %s", p.Amount.String(), p.Token)
	}

	return &models.Payment{
		Recipient: p.Recipient,
		Amount:    p.Amount,
		Token:     models.Token(p.Token),
		Label:     label,
		Message:   message,
		Status:    models.StatusCreated,
	}
}

type WatchRequest struct {
	Accounts []models.WatchTarget `json:"accounts"`
}

type VerifyRequest struct {
	Signature string `json:"signature"`
}

type PaymentStatus struct {
	ID                     string               `json:"id"`
	Status                 models.PaymentStatus `json:"status"`
	Merchant               string               `json:"merchant"`
	Amount                 decimal.Decimal      `json:"amount"`
	Token                  models.Token         `json:"token"`
	Signature              *string              `json:"signature"`
	CreatedAt              string               `json:"created_at"`
	VerifiedAt             *string              `json:"verified_at"`
	ExpiresAt              string               `json:"expires_at"`
	DualTransfersCompleted bool                 `json:"dual_transfers_completed"`
	BalanceMonitoring      bool                 `json:"balance_monitoring"`
	ActiveMonitors         int                  `json:"active_monitors"`
}
