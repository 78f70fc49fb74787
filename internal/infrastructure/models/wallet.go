package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is the persistence model for a tenant wallet. Balances are written
// exclusively through atomic UPDATE expressions in the repository; Go code
// never round-trips a balance.
type Wallet struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	AvailableBalance decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PendingBalance   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PixKey           string          `gorm:"type:varchar(140)"`
	PixKeyType       string          `gorm:"type:varchar(20)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Wallet) TableName() string {
	return "wallets"
}
