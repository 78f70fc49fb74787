package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/domain/repositories"
	"cotahub.backend/pkg/logger"
	"cotahub.backend/pkg/utils"
)

// AdminPayoutUsecase handles the admin side of the payout workflow. Every
// operation passes the super-admin gate before touching the ledger, and the
// PENDENTE check happens on a locked re-read inside the same transaction that
// performs the transition, so two concurrent reviews of one payout serialize.
type AdminPayoutUsecase struct {
	userRepo   repositories.UserRepository
	walletRepo repositories.WalletRepository
	ledgerRepo repositories.WalletTransactionRepository
	payoutRepo repositories.PayoutRepository
	uow        repositories.UnitOfWork
}

// NewAdminPayoutUsecase creates a new admin payout usecase
func NewAdminPayoutUsecase(
	userRepo repositories.UserRepository,
	walletRepo repositories.WalletRepository,
	ledgerRepo repositories.WalletTransactionRepository,
	payoutRepo repositories.PayoutRepository,
	uow repositories.UnitOfWork,
) *AdminPayoutUsecase {
	return &AdminPayoutUsecase{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		payoutRepo: payoutRepo,
		uow:        uow,
	}
}

// requireSuperAdmin verifies the acting user holds an active super-admin
// record. Absent that, the operation fails without touching the ledger.
func (u *AdminPayoutUsecase) requireSuperAdmin(ctx context.Context, adminID uuid.UUID) (*entities.User, error) {
	admin, err := u.userRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Forbidden("acesso restrito a super administradores")
		}
		return nil, err
	}
	if !admin.IsSuperAdmin() {
		return nil, domainerrors.Forbidden("acesso restrito a super administradores")
	}
	return admin, nil
}

// lockedPendingPayout re-reads the payout under a row lock and verifies it is
// still PENDENTE.
func (u *AdminPayoutUsecase) lockedPendingPayout(txCtx context.Context, payoutID uuid.UUID) (*entities.Payout, error) {
	payout, err := u.payoutRepo.GetByID(u.uow.WithLock(txCtx), payoutID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("saque não encontrado")
		}
		return nil, err
	}
	if payout.Status != entities.PayoutStatusPending {
		return nil, domainerrors.Conflict("saque não está pendente")
	}
	return payout, nil
}

// ApprovePayout finalizes a pending payout. The funds were already removed
// from the available balance at request time, so approval changes status only.
func (u *AdminPayoutUsecase) ApprovePayout(ctx context.Context, adminID, payoutID uuid.UUID, input *entities.ApprovePayoutInput) (*entities.Payout, error) {
	admin, err := u.requireSuperAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	var payout *entities.Payout
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		p, err := u.lockedPendingPayout(txCtx, payoutID)
		if err != nil {
			return err
		}

		now := time.Now()
		p.Status = entities.PayoutStatusCompleted
		p.ProofURL.SetValid(input.ProofURL)
		if input.TransferReference != "" {
			p.TransferReference.SetValid(input.TransferReference)
		}
		p.ReviewedBy = &admin.ID
		p.ReviewedAt = &now

		if err := u.payoutRepo.Update(txCtx, p); err != nil {
			return err
		}
		payout = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payout approved",
		zap.String("payout_id", payout.ID.String()),
		zap.String("admin_id", admin.ID.String()))
	return payout, nil
}

// RejectPayout reverses a pending payout: the locked amount returns to the
// available balance and a reversal entry is appended, all in one transaction.
func (u *AdminPayoutUsecase) RejectPayout(ctx context.Context, adminID, payoutID uuid.UUID, input *entities.RejectPayoutInput) (*entities.Payout, error) {
	admin, err := u.requireSuperAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	var payout *entities.Payout
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		p, err := u.lockedPendingPayout(txCtx, payoutID)
		if err != nil {
			return err
		}

		now := time.Now()
		p.Status = entities.PayoutStatusCanceled
		p.RejectionReason.SetValid(input.Reason)
		p.ReviewedBy = &admin.ID
		p.ReviewedAt = &now

		if err := u.payoutRepo.Update(txCtx, p); err != nil {
			return err
		}

		if err := u.walletRepo.CreditAvailable(txCtx, p.WalletID, p.Amount); err != nil {
			return err
		}

		entry := &entities.WalletTransaction{
			WalletID:    p.WalletID,
			Amount:      p.Amount,
			Type:        entities.TransactionTypeReversal,
			Bucket:      entities.BucketAvailable,
			Description: "Estorno de saque rejeitado",
			Metadata: entities.TransactionMetadata{
				PayoutID: &p.ID,
				Reason:   input.Reason,
			},
		}
		if err := u.ledgerRepo.Create(txCtx, entry); err != nil {
			return err
		}
		payout = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payout rejected",
		zap.String("payout_id", payout.ID.String()),
		zap.String("admin_id", admin.ID.String()),
		zap.String("reason", input.Reason))
	return payout, nil
}

// ListPendingPayouts returns payouts awaiting review, oldest first.
func (u *AdminPayoutUsecase) ListPendingPayouts(ctx context.Context, adminID uuid.UUID, page, limit int) ([]*entities.Payout, utils.PaginationMeta, error) {
	if _, err := u.requireSuperAdmin(ctx, adminID); err != nil {
		return nil, utils.PaginationMeta{}, err
	}

	params := utils.GetPaginationParams(page, limit)
	payouts, total, err := u.payoutRepo.ListByStatus(ctx, entities.PayoutStatusPending, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return payouts, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// GetReconciliation totals every wallet's buckets. The platform's external
// processor balance must cover the sum; this is a read-only solvency check.
func (u *AdminPayoutUsecase) GetReconciliation(ctx context.Context, adminID uuid.UUID) (*entities.ReconciliationReport, error) {
	if _, err := u.requireSuperAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return u.walletRepo.SumBalances(ctx)
}
