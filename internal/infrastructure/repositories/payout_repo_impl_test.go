package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
)

func newPendingPayout(walletID uuid.UUID, amount string) *entities.Payout {
	return &entities.Payout{
		WalletID:   walletID,
		Amount:     dec(amount),
		PixKey:     "11122233344",
		PixKeyType: entities.PixKeyTypeCPF,
		Status:     entities.PayoutStatusPending,
	}
}

func TestPayoutRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createPayoutTable(t, db)
	repo := NewPayoutRepository(db)
	ctx := context.Background()

	payout := newPendingPayout(uuid.New(), "90.25")
	require.NoError(t, repo.Create(ctx, payout))
	require.NotEqual(t, uuid.Nil, payout.ID)

	got, err := repo.GetByID(ctx, payout.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("90.25")))
	assert.Equal(t, entities.PayoutStatusPending, got.Status)
	assert.Equal(t, "11122233344", got.PixKey)
	assert.False(t, got.ProofURL.Valid)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPayoutRepository_GetByID_WithLockContext(t *testing.T) {
	db := newTestDB(t)
	createPayoutTable(t, db)
	repo := NewPayoutRepository(db)
	uow := &UnitOfWorkImpl{db: db}

	payout := newPendingPayout(uuid.New(), "50.00")
	require.NoError(t, repo.Create(context.Background(), payout))

	// sqlite ignores FOR UPDATE; the read must still succeed under the flag
	err := uow.Do(context.Background(), func(ctx context.Context) error {
		got, err := repo.GetByID(uow.WithLock(ctx), payout.ID)
		if err != nil {
			return err
		}
		require.Equal(t, payout.ID, got.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestPayoutRepository_UpdateTransitions(t *testing.T) {
	db := newTestDB(t)
	createPayoutTable(t, db)
	repo := NewPayoutRepository(db)
	ctx := context.Background()

	payout := newPendingPayout(uuid.New(), "25.00")
	require.NoError(t, repo.Create(ctx, payout))

	adminID := uuid.New()
	payout.Status = entities.PayoutStatusCompleted
	payout.ProofURL.SetValid("https://bank.example/comprovante/1")
	payout.TransferReference.SetValid("E2E123")
	payout.ReviewedBy = &adminID
	require.NoError(t, repo.Update(ctx, payout))

	got, err := repo.GetByID(ctx, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PayoutStatusCompleted, got.Status)
	assert.Equal(t, "https://bank.example/comprovante/1", got.ProofURL.String)
	assert.Equal(t, "E2E123", got.TransferReference.String)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, adminID, *got.ReviewedBy)

	missing := newPendingPayout(uuid.New(), "1.00")
	missing.ID = uuid.New()
	assert.ErrorIs(t, repo.Update(ctx, missing), domainerrors.ErrNotFound)
}

func TestPayoutRepository_ListByStatusAndWallet(t *testing.T) {
	db := newTestDB(t)
	createPayoutTable(t, db)
	repo := NewPayoutRepository(db)
	ctx := context.Background()

	walletID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newPendingPayout(walletID, "10.00")))
	}
	done := newPendingPayout(walletID, "5.00")
	require.NoError(t, repo.Create(ctx, done))
	done.Status = entities.PayoutStatusCanceled
	require.NoError(t, repo.Update(ctx, done))

	pending, total, err := repo.ListByStatus(ctx, entities.PayoutStatusPending, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, pending, 3)

	all, total, err := repo.ListByWallet(ctx, walletID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 2)
}
