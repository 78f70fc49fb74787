package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cotahub.backend/internal/domain/entities"
	domainerrors "cotahub.backend/internal/domain/errors"
	"cotahub.backend/internal/interfaces/http/middleware"
	"cotahub.backend/internal/interfaces/http/response"
	"cotahub.backend/internal/usecases"
)

// WebhookHandler handles payment gateway callbacks
type WebhookHandler struct {
	walletUsecase *usecases.WalletUsecase
	metrics       *middleware.Metrics
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(walletUsecase *usecases.WalletUsecase, metrics *middleware.Metrics) *WebhookHandler {
	return &WebhookHandler{walletUsecase: walletUsecase, metrics: metrics}
}

// HandlePaymentConfirmed credits the tenant wallet for a confirmed payment.
// The gateway retries until it sees 2xx, so duplicate deliveries respond 200
// with skipped=true instead of an error.
// POST /api/v1/webhooks/payments
func (h *WebhookHandler) HandlePaymentConfirmed(c *gin.Context) {
	var input entities.PaymentCreditInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.walletUsecase.ProcessPaymentCredit(c.Request.Context(), &input)
	if err != nil {
		h.metrics.ObservePayment("failed")
		response.Error(c, err)
		return
	}

	if result.Skipped {
		h.metrics.ObservePayment("skipped")
		response.Success(c, http.StatusOK, gin.H{
			"received": true,
			"skipped":  true,
		})
		return
	}

	h.metrics.ObservePayment("processed")
	response.Success(c, http.StatusOK, gin.H{
		"received":  true,
		"skipped":   false,
		"netAmount": result.NetAmount,
		"feeAmount": result.FeeAmount,
	})
}
