package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"cotahub.backend/internal/domain/entities"
)

// WalletTransactionRepository defines ledger entry operations. Entries are
// append-only; there is no update or delete.
type WalletTransactionRepository interface {
	Create(ctx context.Context, tx *entities.WalletTransaction) error
	// GetByReference finds the credit entry for a gateway reference, used as
	// the idempotency lookup. Returns ErrNotFound when absent.
	GetByReference(ctx context.Context, walletID uuid.UUID, reference string) (*entities.WalletTransaction, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int64, error)
	// ListUnsettledPendingCredits returns pending-bucket credits created
	// before the cutoff that have not been promoted yet.
	ListUnsettledPendingCredits(ctx context.Context, cutoff time.Time, limit int) ([]*entities.WalletTransaction, error)
	// MarkSettled stamps a pending credit as promoted to available.
	MarkSettled(ctx context.Context, id uuid.UUID, settledAt time.Time) error
}
