package handler

import (
	"seller-wallet-service/internal/adapter/http/dto"
	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/pkg/apperror"
	"seller-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// IntakeHandler handles the machine-to-machine endpoints: sale event
// intake from the checkout subsystem and payout result callbacks from
// the gateway. These routes are reachable only from the internal network.
type IntakeHandler struct {
	queue         ports.SaleQueue
	withdrawalSvc ports.WithdrawalService
}

// NewIntakeHandler creates a new IntakeHandler.
func NewIntakeHandler(queue ports.SaleQueue, withdrawalSvc ports.WithdrawalService) *IntakeHandler {
	return &IntakeHandler{
		queue:         queue,
		withdrawalSvc: withdrawalSvc,
	}
}

// PostSale handles POST /internal/v1/sales. The event is durably
// enqueued and settled asynchronously; a 202 acknowledges receipt, not
// settlement.
func (h *IntakeHandler) PostSale(c *gin.Context) {
	var req dto.SaleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	err := h.queue.Enqueue(c.Request.Context(), ports.SaleEvent{
		SellerID:       req.SellerID,
		GrossAmount:    req.GrossAmount,
		FeeRate:        req.FeeRate,
		OrderReference: req.OrderReference,
	})
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.Accepted(c, gin.H{"order_reference": req.OrderReference})
}

// PayoutCallback handles POST /internal/v1/payouts/callback. Duplicate
// deliveries are no-ops; the response echoes the final transaction
// either way.
func (h *IntakeHandler) PayoutCallback(c *gin.Context) {
	var req dto.PayoutCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	succeeded := req.Status == "SUCCEEDED"
	txn, err := h.withdrawalSvc.ResolvePayout(c.Request.Context(), req.Reference, succeeded, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(txn))
}
