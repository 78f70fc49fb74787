package jobs

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/domain/repositories"
	"cotahub.backend/pkg/logger"
)

const settlementBatchSize = 100

// PendingSettlementJob promotes cleared pending credits to the available
// balance. Card and boleto payments credit the pending bucket; once the
// clearing window elapses the funds become withdrawable.
type PendingSettlementJob struct {
	walletRepo   repositories.WalletRepository
	ledgerRepo   repositories.WalletTransactionRepository
	uow          repositories.UnitOfWork
	clearingDays int
	interval     time.Duration
	stop         chan struct{}
}

func NewPendingSettlementJob(
	walletRepo repositories.WalletRepository,
	ledgerRepo repositories.WalletTransactionRepository,
	uow repositories.UnitOfWork,
	clearingDays int,
	interval time.Duration,
) *PendingSettlementJob {
	return &PendingSettlementJob{
		walletRepo:   walletRepo,
		ledgerRepo:   ledgerRepo,
		uow:          uow,
		clearingDays: clearingDays,
		interval:     interval,
		stop:         make(chan struct{}),
	}
}

func (j *PendingSettlementJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting pending settlement job",
		zap.Duration("interval", j.interval),
		zap.Int("clearing_days", j.clearingDays))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "pending settlement job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "pending settlement job stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

func (j *PendingSettlementJob) Stop() {
	close(j.stop)
}

// RunOnce settles every cleared pending credit currently due. Each credit is
// promoted in its own transaction, so one bad row cannot block the batch.
func (j *PendingSettlementJob) RunOnce(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -j.clearingDays)

	due, err := j.ledgerRepo.ListUnsettledPendingCredits(ctx, cutoff, settlementBatchSize)
	if err != nil {
		logger.Error(ctx, "failed to list pending credits due for settlement", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	settled := 0
	for _, credit := range due {
		if err := j.settle(ctx, credit); err != nil {
			// another run got there first; the entry is already settled
			if errors.Is(err, domainerrors.ErrNotFound) {
				continue
			}
			logger.Error(ctx, "failed to settle pending credit",
				zap.String("entry_id", credit.ID.String()), zap.Error(err))
			continue
		}
		settled++
	}

	logger.Info(ctx, "settled pending credits", zap.Int("count", settled))
}

func (j *PendingSettlementJob) settle(ctx context.Context, credit *entities.WalletTransaction) error {
	return j.uow.Do(ctx, func(txCtx context.Context) error {
		// Stamping first makes the promotion idempotent: a concurrent run
		// that already settled this entry finds settled_at set and this
		// transaction rolls back.
		if err := j.ledgerRepo.MarkSettled(txCtx, credit.ID, time.Now()); err != nil {
			return err
		}

		if err := j.walletRepo.DebitPending(txCtx, credit.WalletID, credit.Amount); err != nil {
			return err
		}
		if err := j.walletRepo.CreditAvailable(txCtx, credit.WalletID, credit.Amount); err != nil {
			return err
		}

		out := &entities.WalletTransaction{
			WalletID:    credit.WalletID,
			Amount:      credit.Amount.Neg(),
			Type:        entities.TransactionTypeSettlement,
			Bucket:      entities.BucketPending,
			Description: "Liberação de saldo após compensação",
			Metadata:    credit.Metadata,
		}
		if err := j.ledgerRepo.Create(txCtx, out); err != nil {
			return err
		}

		in := &entities.WalletTransaction{
			WalletID:    credit.WalletID,
			Amount:      credit.Amount,
			Type:        entities.TransactionTypeSettlement,
			Bucket:      entities.BucketAvailable,
			Description: "Liberação de saldo após compensação",
			Metadata:    credit.Metadata,
		}
		return j.ledgerRepo.Create(txCtx, in)
	})
}
