package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// PayoutStatus represents the payout workflow state
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "PENDENTE"
	PayoutStatusCompleted PayoutStatus = "CONCLUIDO"
	PayoutStatusCanceled  PayoutStatus = "CANCELADO"
)

// IsTerminal reports whether no further transition is allowed.
func (s PayoutStatus) IsTerminal() bool {
	return s == PayoutStatusCompleted || s == PayoutStatusCanceled
}

// Payout is a withdrawal request. The amount is debited from the wallet's
// available balance when the request is created; approval consumes the funds
// and rejection restores them. The destination pix key is snapshotted at
// request time so later key changes don't retarget an in-flight payout.
type Payout struct {
	ID                uuid.UUID       `json:"id"`
	WalletID          uuid.UUID       `json:"walletId"`
	Amount            decimal.Decimal `json:"amount"`
	PixKey            string          `json:"pixKey"`
	PixKeyType        PixKeyType      `json:"pixKeyType"`
	Status            PayoutStatus    `json:"status"`
	ProofURL          null.String     `json:"proofUrl,omitempty"`
	TransferReference null.String     `json:"transferReference,omitempty"`
	RejectionReason   null.String     `json:"rejectionReason,omitempty"`
	ReviewedBy        *uuid.UUID      `json:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time      `json:"reviewedAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// RequestWithdrawalInput represents a wallet owner's payout request
type RequestWithdrawalInput struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ApprovePayoutInput represents an admin approving a pending payout
type ApprovePayoutInput struct {
	ProofURL          string `json:"proofUrl" binding:"required"`
	TransferReference string `json:"transferReference"`
}

// RejectPayoutInput represents an admin rejecting a pending payout
type RejectPayoutInput struct {
	Reason string `json:"reason" binding:"required"`
}
