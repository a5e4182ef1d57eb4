package database

import (
	"time"

	"github.com/jeffleon2/draftea-settlement-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedPayments inserts demo payments for local runs. Existing rows are kept.
func SeedPayments(db *gorm.DB, merchant string) error {
	now := time.Now()
	payments := []models.Payment{
		{
			ID:        "demo-usdc-created",
			Recipient: merchant,
			Amount:    decimal.RequireFromString("25"),
			Token:     models.TokenUSDC,
			Label:     "CryptoNow: 25 USDC",
			Message:   "Payment 25 USDC",
			Status:    models.StatusCreated,
			ExpiresAt: now.Add(30 * time.Minute),
		},
		{
			ID:        "demo-usdt-pending",
			Recipient: merchant,
			Amount:    decimal.RequireFromString("9.99"),
			Token:     models.TokenUSDT,
			Label:     "CryptoNow: 9.99 USDT",
			Message:   "Payment 9.99 USDT",
			Status:    models.StatusPending,
			ExpiresAt: now.Add(30 * time.Minute),
		},
	}

	for _, payment := range payments {
		result := db.Where(models.Payment{ID: payment.ID}).FirstOrCreate(&payment)
		if result.Error != nil {
			return result.Error
		}
	}

	logrus.Info("Payments seeded successfully")
	return nil
}
