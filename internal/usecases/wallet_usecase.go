package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/domain/repositories"
	"cotahub.backend/pkg/logger"
	"cotahub.backend/pkg/utils"
)

var oneHundred = decimal.NewFromInt(100)

// WalletUsecase is the only component allowed to mutate wallet balances.
// Every mutating operation runs inside a single UnitOfWork transaction so a
// failure partway leaves neither the balance update nor any ledger entry
// committed.
type WalletUsecase struct {
	walletRepo  repositories.WalletRepository
	ledgerRepo  repositories.WalletTransactionRepository
	payoutRepo  repositories.PayoutRepository
	accountRepo repositories.AccountRepository
	uow         repositories.UnitOfWork

	feePercent    decimal.Decimal
	minWithdrawal decimal.Decimal
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(
	walletRepo repositories.WalletRepository,
	ledgerRepo repositories.WalletTransactionRepository,
	payoutRepo repositories.PayoutRepository,
	accountRepo repositories.AccountRepository,
	uow repositories.UnitOfWork,
	feePercent decimal.Decimal,
	minWithdrawal decimal.Decimal,
) *WalletUsecase {
	return &WalletUsecase{
		walletRepo:    walletRepo,
		ledgerRepo:    ledgerRepo,
		payoutRepo:    payoutRepo,
		accountRepo:   accountRepo,
		uow:           uow,
		feePercent:    feePercent,
		minWithdrawal: minWithdrawal,
	}
}

// splitFee computes the platform fee and the net amount credited to the
// wallet. Both legs are rounded to 2 decimal places, half up, and always sum
// back to the paid amount.
func (u *WalletUsecase) splitFee(paid decimal.Decimal) (fee, net decimal.Decimal) {
	fee = paid.Mul(u.feePercent).Div(oneHundred).Round(2)
	net = paid.Sub(fee)
	return fee, net
}

// ProcessPaymentCredit credits a tenant's wallet for a confirmed gateway
// payment, net of the platform fee. Safe to invoke repeatedly for the same
// gateway reference: retried webhook deliveries return a skipped result
// without mutating anything.
func (u *WalletUsecase) ProcessPaymentCredit(ctx context.Context, input *entities.PaymentCreditInput) (*entities.CreditResult, error) {
	if !input.AmountPaid.IsPositive() {
		return nil, domainerrors.BadRequest("valor pago deve ser positivo")
	}
	if !entities.ValidPaymentMethod(input.Method) {
		return nil, domainerrors.BadRequest("método de pagamento inválido")
	}
	if input.GatewayReference == "" {
		return nil, domainerrors.BadRequest("referência do gateway é obrigatória")
	}

	var result *entities.CreditResult

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.GetOrCreateByAccountID(txCtx, input.AccountID)
		if err != nil {
			return err
		}

		// Idempotency lookup keyed on the gateway's payment id.
		if _, err := u.ledgerRepo.GetByReference(txCtx, wallet.ID, input.GatewayReference); err == nil {
			result = &entities.CreditResult{Skipped: true}
			return nil
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}

		fee, net := u.splitFee(input.AmountPaid)

		bucket := entities.BucketPending
		creditFn := u.walletRepo.CreditPending
		if input.Method.IsInstant() {
			bucket = entities.BucketAvailable
			creditFn = u.walletRepo.CreditAvailable
		}

		if err := creditFn(txCtx, wallet.ID, net); err != nil {
			return err
		}

		credit := &entities.WalletTransaction{
			WalletID:    wallet.ID,
			Amount:      net,
			Type:        entities.TransactionTypeQuotaCredit,
			Bucket:      bucket,
			Description: fmt.Sprintf("Crédito de cota via %s", input.Method),
			Metadata: entities.TransactionMetadata{
				InvoiceID:     input.InvoiceID,
				ParticipantID: input.ParticipantID,
			},
		}
		credit.GatewayReference.SetValid(input.GatewayReference)
		if err := u.ledgerRepo.Create(txCtx, credit); err != nil {
			return err
		}

		// The fee is never a separate gateway event; sharing the reference
		// is fine because the entry type differs.
		feeEntry := &entities.WalletTransaction{
			WalletID:    wallet.ID,
			Amount:      fee.Neg(),
			Type:        entities.TransactionTypeFeeDebit,
			Bucket:      entities.BucketPlatform,
			Description: fmt.Sprintf("Taxa da plataforma (%s%%)", u.feePercent),
			Metadata: entities.TransactionMetadata{
				InvoiceID:     input.InvoiceID,
				ParticipantID: input.ParticipantID,
			},
		}
		feeEntry.GatewayReference.SetValid(input.GatewayReference)
		if err := u.ledgerRepo.Create(txCtx, feeEntry); err != nil {
			return err
		}

		result = &entities.CreditResult{NetAmount: net, FeeAmount: fee}
		return nil
	})

	if err != nil {
		// Two concurrent deliveries can both pass the existence check; the
		// unique index rejects the loser, whose transaction rolled back.
		if errors.Is(err, domainerrors.ErrDuplicateReference) {
			logger.Warn(ctx, "payment credit raced a duplicate delivery",
				zap.String("gateway_reference", input.GatewayReference))
			return &entities.CreditResult{Skipped: true}, nil
		}
		logger.Error(ctx, "payment credit failed",
			zap.String("gateway_reference", input.GatewayReference), zap.Error(err))
		return nil, err
	}

	return result, nil
}

// RequestWithdrawal locks funds and records a payout request. The available
// balance is decremented in the same transaction that creates the payout, so
// concurrent requests can never jointly spend the same balance.
func (u *WalletUsecase) RequestWithdrawal(ctx context.Context, userID uuid.UUID, input *entities.RequestWithdrawalInput) (*entities.Payout, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerrors.BadRequest("valor deve ser positivo")
	}
	if input.Amount.LessThan(u.minWithdrawal) {
		return nil, domainerrors.UnprocessableEntity(
			fmt.Sprintf("valor abaixo do mínimo de %s", u.minWithdrawal.StringFixed(2)),
			domainerrors.ErrBelowMinimum)
	}

	account, err := u.accountRepo.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("conta não encontrada")
		}
		return nil, err
	}

	var payout *entities.Payout

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.GetByAccountID(txCtx, account.ID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("carteira não encontrada")
			}
			return err
		}
		if !wallet.HasPixKey() {
			return domainerrors.UnprocessableEntity("chave Pix não configurada", domainerrors.ErrPixKeyNotConfigured)
		}

		if err := u.walletRepo.DebitAvailable(txCtx, wallet.ID, input.Amount); err != nil {
			if errors.Is(err, domainerrors.ErrInsufficientFunds) {
				return domainerrors.UnprocessableEntity("saldo insuficiente", domainerrors.ErrInsufficientFunds)
			}
			return err
		}

		payout = &entities.Payout{
			WalletID:   wallet.ID,
			Amount:     input.Amount,
			PixKey:     wallet.PixKey,
			PixKeyType: wallet.PixKeyType,
			Status:     entities.PayoutStatusPending,
		}
		if err := u.payoutRepo.Create(txCtx, payout); err != nil {
			return err
		}

		entry := &entities.WalletTransaction{
			WalletID:    wallet.ID,
			Amount:      input.Amount.Neg(),
			Type:        entities.TransactionTypeWithdrawal,
			Bucket:      entities.BucketAvailable,
			Description: "Solicitação de saque",
			Metadata:    entities.TransactionMetadata{PayoutID: &payout.ID},
		}
		return u.ledgerRepo.Create(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "withdrawal requested",
		zap.String("payout_id", payout.ID.String()),
		zap.String("amount", payout.Amount.StringFixed(2)))
	return payout, nil
}

// SavePixKey registers the payout destination on the owner's wallet, creating
// the wallet if this account never received a credit before.
func (u *WalletUsecase) SavePixKey(ctx context.Context, userID uuid.UUID, input *entities.SavePixKeyInput) (*entities.Wallet, error) {
	if !entities.ValidPixKeyType(input.PixKeyType) {
		return nil, domainerrors.BadRequest("tipo de chave Pix inválido")
	}

	account, err := u.accountRepo.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("conta não encontrada")
		}
		return nil, err
	}

	var wallet *entities.Wallet
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		w, err := u.walletRepo.GetOrCreateByAccountID(txCtx, account.ID)
		if err != nil {
			return err
		}
		if err := u.walletRepo.UpdatePixKey(txCtx, w.ID, input.PixKey, input.PixKeyType); err != nil {
			return err
		}
		w.PixKey = input.PixKey
		w.PixKeyType = input.PixKeyType
		wallet = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// GetWallet returns the owner's wallet with current balances.
func (u *WalletUsecase) GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	account, err := u.accountRepo.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("conta não encontrada")
		}
		return nil, err
	}
	return u.walletRepo.GetOrCreateByAccountID(ctx, account.ID)
}

// GetStatement returns the owner's ledger entries, newest first.
func (u *WalletUsecase) GetStatement(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.WalletTransaction, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)

	wallet, err := u.GetWallet(ctx, userID)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}

	entries, total, err := u.ledgerRepo.ListByWallet(ctx, wallet.ID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return entries, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// ListOwnPayouts returns the owner's payout history, newest first.
func (u *WalletUsecase) ListOwnPayouts(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Payout, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)

	wallet, err := u.GetWallet(ctx, userID)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}

	payouts, total, err := u.payoutRepo.ListByWallet(ctx, wallet.ID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return payouts, utils.CalculateMeta(total, params.Page, params.Limit), nil
}
