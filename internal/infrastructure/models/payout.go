package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payout is the persistence model for a withdrawal request.
type Payout struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WalletID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PixKey            string          `gorm:"type:varchar(140);not null"`
	PixKeyType        string          `gorm:"type:varchar(20);not null"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	ProofURL          *string         `gorm:"type:varchar(500)"`
	TransferReference *string         `gorm:"type:varchar(120)"`
	RejectionReason   *string         `gorm:"type:varchar(255)"`
	ReviewedBy        *uuid.UUID      `gorm:"type:uuid"`
	ReviewedAt        *time.Time
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time
}

func (Payout) TableName() string {
	return "payouts"
}
