package handler

import (
	"math"
	"strconv"

	"seller-wallet-service/internal/adapter/http/dto"
	"seller-wallet-service/internal/adapter/http/middleware"
	"seller-wallet-service/internal/core/domain"
	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/pkg/apperror"
	"seller-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles the seller-facing wallet endpoints.
type WalletHandler struct {
	reportingSvc ports.ReportingService
	walletRepo   ports.WalletRepository
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(reportingSvc ports.ReportingService, walletRepo ports.WalletRepository) *WalletHandler {
	return &WalletHandler{
		reportingSvc: reportingSvc,
		walletRepo:   walletRepo,
	}
}

// GetBalance handles GET /api/v1/wallet/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	sellerID, ok := c.Get(middleware.CtxSellerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.reportingSvc.GetBalances(c.Request.Context(), sellerID.(string))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		SellerID:         wallet.SellerID,
		AvailableBalance: wallet.AvailableBalance,
		PendingBalance:   wallet.PendingBalance,
		PayoutAccount:    wallet.PayoutAccount,
	})
}

// SetPayoutAccount handles PUT /api/v1/wallet/payout-account.
func (h *WalletHandler) SetPayoutAccount(c *gin.Context) {
	sellerID, ok := c.Get(middleware.CtxSellerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SetPayoutAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.walletRepo.SetPayoutAccount(c.Request.Context(), sellerID.(string), req.PayoutAccount); err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OK(c, gin.H{"payout_account": req.PayoutAccount})
}

// ListTransactions handles GET /api/v1/wallet/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	sellerID, ok := c.Get(middleware.CtxSellerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	params := ports.TransactionListParams{
		SellerID: sellerID.(string),
		Page:     page,
		PageSize: pageSize,
	}

	if s := c.Query("status"); s != "" {
		status := domain.TransactionStatus(s)
		params.Status = &status
	}
	if t := c.Query("type"); t != "" {
		txType := domain.TransactionType(t)
		params.Type = &txType
	}
	if f := c.Query("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			params.From = &v
		}
	}
	if t := c.Query("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			params.To = &v
		}
	}

	txns, total, err := h.reportingSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}

	pageSize = params.PageSize
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// GetBalanceHistory handles GET /api/v1/wallet/balance-history.
func (h *WalletHandler) GetBalanceHistory(c *gin.Context) {
	sellerID, ok := c.Get(middleware.CtxSellerID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	window := c.DefaultQuery("window", "30d")
	points, err := h.reportingSvc.GetBalanceHistory(c.Request.Context(), sellerID.(string), window)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.BalancePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.BalancePointResponse{
			Day:       p.Day.Format("2006-01-02"),
			Credited:  p.Credited,
			Withdrawn: p.Withdrawn,
			Net:       p.Net,
		})
	}

	response.OK(c, dto.BalanceHistoryResponse{
		Window: window,
		Points: out,
	})
}

func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:            tx.ID.String(),
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Reference:     tx.Reference,
		Status:        string(tx.Status),
		FailureReason: tx.FailureReason,
		CreatedAt:     tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if tx.CompletedAt != nil {
		s := tx.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.CompletedAt = &s
	}
	return resp
}
