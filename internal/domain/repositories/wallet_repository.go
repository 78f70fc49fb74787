package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"cotahub.backend/internal/domain/entities"
)

// WalletRepository defines wallet data operations. Balance mutations are
// expressed as atomic increments/decrements so concurrent requests serialize
// at the storage layer rather than through read-then-write in Go.
type WalletRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Wallet, error)
	// GetOrCreateByAccountID returns the account's wallet, creating a zeroed
	// one when none exists yet.
	GetOrCreateByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Wallet, error)
	// CreditAvailable adds amount to the available bucket.
	CreditAvailable(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) error
	// CreditPending adds amount to the pending bucket.
	CreditPending(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) error
	// DebitAvailable subtracts amount from the available bucket only if the
	// balance covers it; returns ErrInsufficientFunds otherwise.
	DebitAvailable(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) error
	// DebitPending subtracts amount from the pending bucket only if the
	// balance covers it; returns ErrInsufficientFunds otherwise.
	DebitPending(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) error
	// UpdatePixKey sets the payout destination.
	UpdatePixKey(ctx context.Context, walletID uuid.UUID, key string, keyType entities.PixKeyType) error
	// SumBalances totals available and pending across all wallets.
	SumBalances(ctx context.Context) (*entities.ReconciliationReport, error)
}
