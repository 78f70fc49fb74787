package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletTransaction is the persistence model for an immutable ledger entry.
// The composite unique index on (wallet_id, gateway_reference, type) is the
// storage-level idempotency guard: concurrent webhook deliveries that both
// pass the existence check cannot both insert.
type WalletTransaction struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WalletID         uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:ux_wallet_gateway_ref,priority:1"`
	Amount           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Type             string          `gorm:"type:varchar(30);not null;index;uniqueIndex:ux_wallet_gateway_ref,priority:3"`
	Bucket           string          `gorm:"type:varchar(12);not null"`
	Description      string          `gorm:"type:varchar(255)"`
	GatewayReference *string         `gorm:"type:varchar(120);uniqueIndex:ux_wallet_gateway_ref,priority:2"`
	InvoiceID        *uuid.UUID      `gorm:"type:uuid"`
	ParticipantID    *uuid.UUID      `gorm:"type:uuid"`
	PayoutID         *uuid.UUID      `gorm:"type:uuid;index"`
	Reason           string          `gorm:"type:varchar(255)"`
	SettledAt        *time.Time      `gorm:"index"`
	CreatedAt        time.Time       `gorm:"index"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
