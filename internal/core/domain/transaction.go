package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger movement.
type TransactionType string

const (
	TransactionTypeSale             TransactionType = "SALE"
	TransactionTypeFee              TransactionType = "FEE"
	TransactionTypeMaturation       TransactionType = "MATURATION"
	TransactionTypeWithdrawal       TransactionType = "WITHDRAWAL"
	TransactionTypeWithdrawalFailed TransactionType = "WITHDRAWAL_FAILED"
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusSucceeded TransactionStatus = "SUCCEEDED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is an immutable audit record appended for every
// ledger-affecting event. Reference is globally unique: replaying an
// event with the same reference is a no-op.
type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	SellerID      string            `json:"seller_id"`
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	Reference     string            `json:"reference"`
	Status        TransactionStatus `json:"status"`
	FailureReason *string           `json:"failure_reason,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusSucceeded || t.Status == TransactionStatusFailed
}

// BuildSaleReference derives the seller-credit reference from an order reference.
func BuildSaleReference(orderReference string) string {
	return orderReference + ":seller"
}

// BuildFeeReference derives the platform-fee reference from an order reference.
func BuildFeeReference(orderReference string) string {
	return orderReference + ":fee"
}

// BuildMaturationReference derives the reference recorded when an accrual matures.
func BuildMaturationReference(accrualID uuid.UUID) string {
	return "maturation:" + accrualID.String()
}

// BuildWithdrawalReference scopes a caller-supplied idempotency key to a
// seller so keys cannot collide across sellers.
func BuildWithdrawalReference(sellerID, idempotencyKey string) string {
	return sellerID + ":wd:" + idempotencyKey
}
