package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/interfaces/http/middleware"
	"cotahub.backend/internal/interfaces/http/response"
	"cotahub.backend/internal/usecases"
)

// WalletHandler handles wallet endpoints for the authenticated owner
type WalletHandler struct {
	walletUsecase *usecases.WalletUsecase
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase *usecases.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

func paginationQuery(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

// GetWallet returns the caller's wallet with both balances
// GET /api/v1/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("usuário não autenticado"))
		return
	}

	wallet, err := h.walletUsecase.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, wallet)
}

// GetStatement returns the caller's ledger entries, newest first
// GET /api/v1/wallet/transactions
func (h *WalletHandler) GetStatement(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("usuário não autenticado"))
		return
	}

	page, limit := paginationQuery(c)
	entries, meta, err := h.walletUsecase.GetStatement(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"data":       entries,
		"pagination": meta,
	})
}

// SavePixKey sets the caller's payout destination
// PUT /api/v1/wallet/pix-key
func (h *WalletHandler) SavePixKey(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("usuário não autenticado"))
		return
	}

	var input entities.SavePixKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	wallet, err := h.walletUsecase.SavePixKey(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, wallet)
}

// RequestWithdrawal locks funds and opens a payout request
// POST /api/v1/wallet/withdrawals
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("usuário não autenticado"))
		return
	}

	var input entities.RequestWithdrawalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	payout, err := h.walletUsecase.RequestWithdrawal(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, payout)
}

// ListWithdrawals returns the caller's payout history, newest first
// GET /api/v1/wallet/withdrawals
func (h *WalletHandler) ListWithdrawals(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("usuário não autenticado"))
		return
	}

	page, limit := paginationQuery(c)
	payouts, meta, err := h.walletUsecase.ListOwnPayouts(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"data":       payouts,
		"pagination": meta,
	})
}
