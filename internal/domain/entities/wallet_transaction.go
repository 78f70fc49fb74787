package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// TransactionType represents the ledger entry type
type TransactionType string

const (
	TransactionTypeQuotaCredit TransactionType = "CREDITO_COTA"
	TransactionTypeFeeDebit    TransactionType = "DEBITO_TAXA"
	TransactionTypeWithdrawal  TransactionType = "SAQUE"
	TransactionTypeReversal    TransactionType = "ESTORNO"
	TransactionTypeSettlement  TransactionType = "LIBERACAO_SALDO"
)

// BalanceBucket identifies which balance a ledger entry touched
type BalanceBucket string

const (
	BucketAvailable BalanceBucket = "DISPONIVEL"
	BucketPending   BalanceBucket = "PENDENTE"
	// BucketPlatform tags entries that record platform revenue (fee debits)
	// and therefore move no tenant balance. Per-bucket ledger sums over
	// DISPONIVEL and PENDENTE always equal the wallet's two balances.
	BucketPlatform BalanceBucket = "PLATAFORMA"
)

// PaymentMethod represents how a payer settled a charge
type PaymentMethod string

const (
	PaymentMethodPix    PaymentMethod = "PIX"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodBoleto PaymentMethod = "BOLETO"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodPix, PaymentMethodCard, PaymentMethodBoleto:
		return true
	}
	return false
}

// IsInstant reports whether funds from this method are final on receipt.
// Instant methods credit the available bucket; everything else clears first.
func (m PaymentMethod) IsInstant() bool {
	return m == PaymentMethodPix
}

// TransactionMetadata carries typed linkage context for a ledger entry.
// Exactly the fields relevant to the entry type are set.
type TransactionMetadata struct {
	InvoiceID     *uuid.UUID `json:"invoiceId,omitempty"`
	ParticipantID *uuid.UUID `json:"participantId,omitempty"`
	PayoutID      *uuid.UUID `json:"payoutId,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

// WalletTransaction is an immutable ledger entry. Amount is signed: positive
// credits the bucket, negative debits it. Entries are never edited or deleted;
// corrections are new reversal entries. GatewayReference, when present, is
// unique per (wallet, type) and serves as the idempotency key for webhook
// retries.
type WalletTransaction struct {
	ID               uuid.UUID           `json:"id"`
	WalletID         uuid.UUID           `json:"walletId"`
	Amount           decimal.Decimal     `json:"amount"`
	Type             TransactionType     `json:"type"`
	Bucket           BalanceBucket       `json:"bucket"`
	Description      string              `json:"description"`
	GatewayReference null.String         `json:"gatewayReference,omitempty"`
	Metadata         TransactionMetadata `json:"metadata"`
	SettledAt        *time.Time          `json:"settledAt,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// PaymentCreditInput is a confirmed payment reported by the gateway webhook.
type PaymentCreditInput struct {
	AccountID        uuid.UUID       `json:"accountId"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	Method           PaymentMethod   `json:"method"`
	GatewayReference string          `json:"gatewayReference"`
	InvoiceID        *uuid.UUID      `json:"invoiceId,omitempty"`
	ParticipantID    *uuid.UUID      `json:"participantId,omitempty"`
}

// CreditResult reports the outcome of processing a payment credit.
// Skipped is true when the gateway reference was already ledgered; nothing was
// mutated and the caller should still acknowledge the webhook.
type CreditResult struct {
	Skipped   bool            `json:"skipped"`
	NetAmount decimal.Decimal `json:"netAmount"`
	FeeAmount decimal.Decimal `json:"feeAmount"`
}
