package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/infrastructure/models"
)

// WalletTransactionRepository implements ledger entry operations using GORM
type WalletTransactionRepository struct {
	db *gorm.DB
}

// NewWalletTransactionRepository creates a new ledger entry repository
func NewWalletTransactionRepository(db *gorm.DB) *WalletTransactionRepository {
	return &WalletTransactionRepository{db: db}
}

func txToModel(e *entities.WalletTransaction) *models.WalletTransaction {
	m := &models.WalletTransaction{
		ID:            e.ID,
		WalletID:      e.WalletID,
		Amount:        e.Amount,
		Type:          string(e.Type),
		Bucket:        string(e.Bucket),
		Description:   e.Description,
		InvoiceID:     e.Metadata.InvoiceID,
		ParticipantID: e.Metadata.ParticipantID,
		PayoutID:      e.Metadata.PayoutID,
		Reason:        e.Metadata.Reason,
		SettledAt:     e.SettledAt,
		CreatedAt:     e.CreatedAt,
	}
	if e.GatewayReference.Valid {
		ref := e.GatewayReference.String
		m.GatewayReference = &ref
	}
	return m
}

func txToEntity(m *models.WalletTransaction) *entities.WalletTransaction {
	e := &entities.WalletTransaction{
		ID:          m.ID,
		WalletID:    m.WalletID,
		Amount:      m.Amount,
		Type:        entities.TransactionType(m.Type),
		Bucket:      entities.BalanceBucket(m.Bucket),
		Description: m.Description,
		Metadata: entities.TransactionMetadata{
			InvoiceID:     m.InvoiceID,
			ParticipantID: m.ParticipantID,
			PayoutID:      m.PayoutID,
			Reason:        m.Reason,
		},
		SettledAt: m.SettledAt,
		CreatedAt: m.CreatedAt,
	}
	if m.GatewayReference != nil {
		e.GatewayReference.SetValid(*m.GatewayReference)
	}
	return e
}

// Create appends a ledger entry. A duplicate gateway reference for the same
// wallet and type surfaces as ErrDuplicateReference so the caller can treat
// the event as already processed.
func (r *WalletTransactionRepository) Create(ctx context.Context, tx *entities.WalletTransaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	if err := GetDB(ctx, r.db).Create(txToModel(tx)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrDuplicateReference
		}
		return err
	}
	return nil
}

// GetByReference finds the credit entry recorded for a gateway reference
func (r *WalletTransactionRepository) GetByReference(ctx context.Context, walletID uuid.UUID, reference string) (*entities.WalletTransaction, error) {
	var m models.WalletTransaction
	err := GetDB(ctx, r.db).
		Where("wallet_id = ? AND gateway_reference = ?", walletID, reference).
		Order("created_at ASC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return txToEntity(&m), nil
}

// ListByWallet returns the wallet's statement, newest first
func (r *WalletTransactionRepository) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.WalletTransaction, int64, error) {
	db := GetDB(ctx, r.db).Model(&models.WalletTransaction{}).Where("wallet_id = ?", walletID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.WalletTransaction
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*entities.WalletTransaction, 0, len(rows))
	for i := range rows {
		entries = append(entries, txToEntity(&rows[i]))
	}
	return entries, total, nil
}

// ListUnsettledPendingCredits returns pending-bucket credits older than cutoff
// that have not been promoted to the available bucket yet.
func (r *WalletTransactionRepository) ListUnsettledPendingCredits(ctx context.Context, cutoff time.Time, limit int) ([]*entities.WalletTransaction, error) {
	var rows []models.WalletTransaction
	err := GetDB(ctx, r.db).
		Where("type = ? AND bucket = ? AND settled_at IS NULL AND created_at <= ?",
			string(entities.TransactionTypeQuotaCredit), string(entities.BucketPending), cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*entities.WalletTransaction, 0, len(rows))
	for i := range rows {
		entries = append(entries, txToEntity(&rows[i]))
	}
	return entries, nil
}

// MarkSettled stamps a pending credit as promoted. Only unsettled rows match,
// so a second settlement pass over the same entry is a no-op reported as
// ErrNotFound.
func (r *WalletTransactionRepository) MarkSettled(ctx context.Context, id uuid.UUID, settledAt time.Time) error {
	result := GetDB(ctx, r.db).Model(&models.WalletTransaction{}).
		Where("id = ? AND settled_at IS NULL", id).
		Update("settled_at", settledAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
