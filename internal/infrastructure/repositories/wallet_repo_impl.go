package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/infrastructure/models"
)

// WalletRepository implements wallet data operations using GORM
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func walletToEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:               m.ID,
		AccountID:        m.AccountID,
		AvailableBalance: m.AvailableBalance,
		PendingBalance:   m.PendingBalance,
		PixKey:           m.PixKey,
		PixKeyType:       entities.PixKeyType(m.PixKeyType),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *WalletRepository) find(ctx context.Context, query string, arg interface{}) (*entities.Wallet, error) {
	db := GetDB(ctx, r.db)
	if lockRequested(ctx) {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m models.Wallet
	if err := db.Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return walletToEntity(&m), nil
}

// GetByID gets a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	return r.find(ctx, "id = ?", id)
}

// GetByAccountID gets the wallet owned by a tenant account
func (r *WalletRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Wallet, error) {
	return r.find(ctx, "account_id = ?", accountID)
}

// GetOrCreateByAccountID returns the account's wallet, creating a zeroed one
// when none exists. A concurrent create loses on the account_id unique index
// and falls back to fetching the winner's row.
func (r *WalletRepository) GetOrCreateByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Wallet, error) {
	wallet, err := r.GetByAccountID(ctx, accountID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	m := &models.Wallet{
		ID:               uuid.New(),
		AccountID:        accountID,
		AvailableBalance: decimal.Zero,
		PendingBalance:   decimal.Zero,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.GetByAccountID(ctx, accountID)
		}
		return nil, err
	}
	return walletToEntity(m), nil
}

// CreditAvailable adds amount to the available bucket
func (r *WalletRepository) CreditAvailable(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) error {
	return r.credit(ctx, walletID, "available_balance", amount)
}

// CreditPending adds amount to the pending bucket
func (r *WalletRepository) CreditPending(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) error {
	return r.credit(ctx, walletID, "pending_balance", amount)
}

func (r *WalletRepository) credit(ctx context.Context, walletID uuid.UUID, column string, amount decimal.Decimal) error {
	result := GetDB(ctx, r.db).Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{
			column:       gorm.Expr(column+" + ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DebitAvailable subtracts amount from the available bucket. The balance
// guard lives in the WHERE clause so two concurrent withdrawals can never
// jointly overdraw the wallet.
func (r *WalletRepository) DebitAvailable(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) error {
	return r.debit(ctx, walletID, "available_balance", amount)
}

// DebitPending subtracts amount from the pending bucket
func (r *WalletRepository) DebitPending(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) error {
	return r.debit(ctx, walletID, "pending_balance", amount)
}

func (r *WalletRepository) debit(ctx context.Context, walletID uuid.UUID, column string, amount decimal.Decimal) error {
	result := GetDB(ctx, r.db).Model(&models.Wallet{}).
		Where("id = ? AND "+column+" >= ?", walletID, amount).
		Updates(map[string]interface{}{
			column:       gorm.Expr(column+" - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish missing wallet from insufficient balance.
		if _, err := r.GetByID(ctx, walletID); err != nil {
			return err
		}
		return domainerrors.ErrInsufficientFunds
	}
	return nil
}

// UpdatePixKey sets the payout destination key and its type
func (r *WalletRepository) UpdatePixKey(ctx context.Context, walletID uuid.UUID, key string, keyType entities.PixKeyType) error {
	result := GetDB(ctx, r.db).Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{
			"pix_key":      key,
			"pix_key_type": string(keyType),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SumBalances totals both buckets across all wallets
func (r *WalletRepository) SumBalances(ctx context.Context) (*entities.ReconciliationReport, error) {
	var row struct {
		TotalAvailable decimal.Decimal
		TotalPending   decimal.Decimal
	}

	err := GetDB(ctx, r.db).Model(&models.Wallet{}).
		Select("COALESCE(SUM(available_balance), 0) AS total_available, COALESCE(SUM(pending_balance), 0) AS total_pending").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &entities.ReconciliationReport{
		TotalAvailable: row.TotalAvailable,
		TotalPending:   row.TotalPending,
	}, nil
}
