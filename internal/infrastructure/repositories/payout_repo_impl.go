package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/infrastructure/models"
)

// PayoutRepository implements payout data operations using GORM
type PayoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository creates a new payout repository
func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func payoutToModel(e *entities.Payout) *models.Payout {
	m := &models.Payout{
		ID:         e.ID,
		WalletID:   e.WalletID,
		Amount:     e.Amount,
		PixKey:     e.PixKey,
		PixKeyType: string(e.PixKeyType),
		Status:     string(e.Status),
		ReviewedBy: e.ReviewedBy,
		ReviewedAt: e.ReviewedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.ProofURL.Valid {
		v := e.ProofURL.String
		m.ProofURL = &v
	}
	if e.TransferReference.Valid {
		v := e.TransferReference.String
		m.TransferReference = &v
	}
	if e.RejectionReason.Valid {
		v := e.RejectionReason.String
		m.RejectionReason = &v
	}
	return m
}

func payoutToEntity(m *models.Payout) *entities.Payout {
	e := &entities.Payout{
		ID:         m.ID,
		WalletID:   m.WalletID,
		Amount:     m.Amount,
		PixKey:     m.PixKey,
		PixKeyType: entities.PixKeyType(m.PixKeyType),
		Status:     entities.PayoutStatus(m.Status),
		ReviewedBy: m.ReviewedBy,
		ReviewedAt: m.ReviewedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.ProofURL != nil {
		e.ProofURL.SetValid(*m.ProofURL)
	}
	if m.TransferReference != nil {
		e.TransferReference.SetValid(*m.TransferReference)
	}
	if m.RejectionReason != nil {
		e.RejectionReason.SetValid(*m.RejectionReason)
	}
	return e
}

// Create creates a new payout
func (r *PayoutRepository) Create(ctx context.Context, payout *entities.Payout) error {
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	now := time.Now()
	payout.CreatedAt = now
	payout.UpdatedAt = now

	return GetDB(ctx, r.db).Create(payoutToModel(payout)).Error
}

// GetByID gets a payout, taking a row lock when the context asks for one
func (r *PayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payout, error) {
	db := GetDB(ctx, r.db)
	if lockRequested(ctx) {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m models.Payout
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return payoutToEntity(&m), nil
}

// Update persists a status transition with its review fields
func (r *PayoutRepository) Update(ctx context.Context, payout *entities.Payout) error {
	payout.UpdatedAt = time.Now()
	m := payoutToModel(payout)

	result := GetDB(ctx, r.db).Model(&models.Payout{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"status":             m.Status,
			"proof_url":          m.ProofURL,
			"transfer_reference": m.TransferReference,
			"rejection_reason":   m.RejectionReason,
			"reviewed_by":        m.ReviewedBy,
			"reviewed_at":        m.ReviewedAt,
			"updated_at":         m.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListByStatus returns payouts in a given state, oldest first
func (r *PayoutRepository) ListByStatus(ctx context.Context, status entities.PayoutStatus, limit, offset int) ([]*entities.Payout, int64, error) {
	return r.list(ctx, "status = ?", string(status), "created_at ASC", limit, offset)
}

// ListByWallet returns a wallet's payout history, newest first
func (r *PayoutRepository) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.Payout, int64, error) {
	return r.list(ctx, "wallet_id = ?", walletID, "created_at DESC", limit, offset)
}

func (r *PayoutRepository) list(ctx context.Context, query string, arg interface{}, order string, limit, offset int) ([]*entities.Payout, int64, error) {
	db := GetDB(ctx, r.db).Model(&models.Payout{}).Where(query, arg)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Payout
	if err := db.Order(order).Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	payouts := make([]*entities.Payout, 0, len(rows))
	for i := range rows {
		payouts = append(payouts, payoutToEntity(&rows[i]))
	}
	return payouts, total, nil
}
