package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/interfaces/http/middleware"
	"cotahub.backend/internal/interfaces/http/response"
	"cotahub.backend/internal/usecases"
)

// AdminHandler handles super-admin payout review and reconciliation
type AdminHandler struct {
	adminUsecase *usecases.AdminPayoutUsecase
	metrics      *middleware.Metrics
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminUsecase *usecases.AdminPayoutUsecase, metrics *middleware.Metrics) *AdminHandler {
	return &AdminHandler{adminUsecase: adminUsecase, metrics: metrics}
}

func (h *AdminHandler) callerID(c *gin.Context) (uuid.UUID, bool) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("usuário não autenticado"))
		return uuid.Nil, false
	}
	return adminID, true
}

// ListPendingPayouts returns payouts awaiting review, oldest first
// GET /api/v1/admin/payouts
func (h *AdminHandler) ListPendingPayouts(c *gin.Context) {
	adminID, ok := h.callerID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	payouts, meta, err := h.adminUsecase.ListPendingPayouts(c.Request.Context(), adminID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"data":       payouts,
		"pagination": meta,
	})
}

// ApprovePayout marks a pending payout as completed
// POST /api/v1/admin/payouts/:id/approve
func (h *AdminHandler) ApprovePayout(c *gin.Context) {
	adminID, ok := h.callerID(c)
	if !ok {
		return
	}

	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("id de saque inválido"))
		return
	}

	var input entities.ApprovePayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	payout, err := h.adminUsecase.ApprovePayout(c.Request.Context(), adminID, payoutID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.ObservePayoutReview("approved")
	response.Success(c, http.StatusOK, payout)
}

// RejectPayout cancels a pending payout and restores the locked funds
// POST /api/v1/admin/payouts/:id/reject
func (h *AdminHandler) RejectPayout(c *gin.Context) {
	adminID, ok := h.callerID(c)
	if !ok {
		return
	}

	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("id de saque inválido"))
		return
	}

	var input entities.RejectPayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	payout, err := h.adminUsecase.RejectPayout(c.Request.Context(), adminID, payoutID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.ObservePayoutReview("rejected")
	response.Success(c, http.StatusOK, payout)
}

// GetReconciliation totals wallet buckets across all tenants
// GET /api/v1/admin/reconciliation
func (h *AdminHandler) GetReconciliation(c *gin.Context) {
	adminID, ok := h.callerID(c)
	if !ok {
		return
	}

	report, err := h.adminUsecase.GetReconciliation(c.Request.Context(), adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}
