package handler

import (
	"seller-wallet-service/internal/adapter/http/dto"
	"seller-wallet-service/internal/adapter/http/middleware"
	"seller-wallet-service/internal/core/domain"
	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/pkg/apperror"
	"seller-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// WithdrawalHandler handles withdrawal endpoints.
type WithdrawalHandler struct {
	withdrawalSvc ports.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalSvc ports.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc}
}

// RequestWithdrawal handles POST /api/v1/withdrawals. A 202 means the
// gateway outcome is not yet known; the transaction settles later via
// callback or reconciliation.
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	sellerID, ok := c.Get(middleware.CtxSellerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	txn, err := h.withdrawalSvc.RequestWithdrawal(c.Request.Context(), ports.WithdrawalRequest{
		SellerID:       sellerID.(string),
		Amount:         req.Amount,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if txn.Status == domain.TransactionStatusPending {
		response.Accepted(c, toTransactionResponse(txn))
		return
	}
	response.OK(c, toTransactionResponse(txn))
}
