package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PixKeyType represents the kind of pix key registered for payouts
type PixKeyType string

const (
	PixKeyTypeCPF      PixKeyType = "CPF"
	PixKeyTypeCNPJ     PixKeyType = "CNPJ"
	PixKeyTypeEmail    PixKeyType = "EMAIL"
	PixKeyTypePhone    PixKeyType = "TELEFONE"
	PixKeyTypeRandom   PixKeyType = "ALEATORIA"
)

// ValidPixKeyType reports whether t is a known pix key type.
func ValidPixKeyType(t PixKeyType) bool {
	switch t {
	case PixKeyTypeCPF, PixKeyTypeCNPJ, PixKeyTypeEmail, PixKeyTypePhone, PixKeyTypeRandom:
		return true
	}
	return false
}

// Wallet holds a tenant account's balances. AvailableBalance may be spent on
// withdrawals; PendingBalance holds funds from non-instant payment methods
// still inside the clearing window. Balances are mutated only through the
// wallet service, never directly.
type Wallet struct {
	ID               uuid.UUID       `json:"id"`
	AccountID        uuid.UUID       `json:"accountId"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	PendingBalance   decimal.Decimal `json:"pendingBalance"`
	PixKey           string          `json:"pixKey,omitempty"`
	PixKeyType       PixKeyType      `json:"pixKeyType,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// HasPixKey reports whether a payout destination is configured.
func (w *Wallet) HasPixKey() bool {
	return w.PixKey != "" && ValidPixKeyType(w.PixKeyType)
}

// SavePixKeyInput represents input for registering a payout destination
type SavePixKeyInput struct {
	PixKey     string     `json:"pixKey" binding:"required"`
	PixKeyType PixKeyType `json:"pixKeyType" binding:"required"`
}

// ReconciliationReport aggregates internally tracked obligations across all
// wallets. The platform's external processor balance must cover
// TotalAvailable + TotalPending.
type ReconciliationReport struct {
	TotalAvailable decimal.Decimal `json:"totalDisponivel"`
	TotalPending   decimal.Decimal `json:"totalPendente"`
}
