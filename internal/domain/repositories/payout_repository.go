package repositories

import (
	"context"

	"github.com/google/uuid"
	"cotahub.backend/internal/domain/entities"
)

// PayoutRepository defines payout (saque) data operations.
type PayoutRepository interface {
	Create(ctx context.Context, payout *entities.Payout) error
	// GetByID honors the lock flag on ctx so approve/reject can re-read the
	// row under a transactional lock before transitioning it.
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Payout, error)
	// Update persists a status transition with its review fields.
	Update(ctx context.Context, payout *entities.Payout) error
	ListByStatus(ctx context.Context, status entities.PayoutStatus, limit, offset int) ([]*entities.Payout, int64, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.Payout, int64, error)
}
