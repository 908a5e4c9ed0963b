package dto

import "github.com/shopspring/decimal"

// WithdrawRequest is the request body for a withdrawal.
type WithdrawRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	IdempotencyKey string          `json:"idempotency_key" binding:"required,max=100,safe_id"`
}

// SetPayoutAccountRequest is the request body for configuring the payout destination.
type SetPayoutAccountRequest struct {
	PayoutAccount string `json:"payout_account" binding:"required,min=4,max=64,safe_id"`
}

// SaleEventRequest is the request body the checkout subsystem posts for a
// completed order. It is enqueued, not settled inline.
type SaleEventRequest struct {
	SellerID       string          `json:"seller_id" binding:"required,max=64,safe_id"`
	GrossAmount    decimal.Decimal `json:"gross_amount" binding:"required"`
	FeeRate        decimal.Decimal `json:"fee_rate"`
	OrderReference string          `json:"order_reference" binding:"required,max=100"`
}

// PayoutCallbackRequest is the request body the payout gateway posts when a
// submitted payout reaches a terminal state.
type PayoutCallbackRequest struct {
	Reference string `json:"reference" binding:"required,max=200"`
	Status    string `json:"status" binding:"required,oneof=SUCCEEDED FAILED"`
	Reason    string `json:"reason,omitempty"`
}

// BalanceResponse is the response for the balance query.
type BalanceResponse struct {
	SellerID         string          `json:"seller_id"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	PayoutAccount    *string         `json:"payout_account,omitempty"`
}

// TransactionResponse is the response body for ledger records.
type TransactionResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference"`
	Status        string          `json:"status"`
	FailureReason *string         `json:"failure_reason,omitempty"`
	CreatedAt     string          `json:"created_at"`
	CompletedAt   *string         `json:"completed_at,omitempty"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// BalancePointResponse is one daily bucket of the balance history chart.
type BalancePointResponse struct {
	Day       string          `json:"day"`
	Credited  decimal.Decimal `json:"credited"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
	Net       decimal.Decimal `json:"net"`
}

// BalanceHistoryResponse is the response for the balance history query.
type BalanceHistoryResponse struct {
	Window string                 `json:"window"`
	Points []BalancePointResponse `json:"points"`
}
