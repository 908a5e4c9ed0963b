package ports

import (
	"context"
	"time"

	"seller-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerStore is the single mutation surface for balances. Every
// operation is atomic; no caller may read-modify-write a balance field.
type LedgerStore interface {
	// CreditPending creates a PendingAccrual and increments the seller's
	// pending balance in one atomic step, keyed by reference. Replays
	// return the existing accrual ID without double-crediting.
	CreditPending(ctx context.Context, sellerID string, amount decimal.Decimal, reference string, maturesAt time.Time) (uuid.UUID, error)
	// CreditAdminFee increments the platform fee account, keyed by reference.
	CreditAdminFee(ctx context.Context, amount decimal.Decimal, reference string) error
	// Mature moves a due accrual's amount from pending to available and
	// flips its status. Returns false (no-op) if already matured, reversed,
	// or not yet due. Safe to call redundantly and concurrently.
	Mature(ctx context.Context, accrualID uuid.UUID) (bool, error)
	// ReverseAccrual flips a still-pending accrual to REVERSED and removes
	// its amount from the pending balance. Refund/chargeback hook.
	ReverseAccrual(ctx context.Context, accrualID uuid.UUID) (bool, error)
	// ReserveForWithdrawal checks available >= amount, debits it
	// immediately, and records a HELD reservation together with a PENDING
	// withdrawal transaction. Two concurrent requests cannot both succeed
	// against the same funds. If the reference already has a withdrawal
	// (a concurrent duplicate), the existing transaction is returned with
	// a nil reservation and no funds move.
	ReserveForWithdrawal(ctx context.Context, sellerID string, amount decimal.Decimal, reference string) (*domain.Reservation, *domain.Transaction, error)
	// ConfirmWithdrawal finalizes the debit (no balance change, already
	// applied) and marks the withdrawal transaction SUCCEEDED.
	ConfirmWithdrawal(ctx context.Context, reservationID uuid.UUID) (*domain.Transaction, error)
	// ReleaseReservation restores the reserved amount to available and
	// marks the withdrawal transaction FAILED with the given reason.
	ReleaseReservation(ctx context.Context, reservationID uuid.UUID, reason string) (*domain.Transaction, error)
	// RecordFailedWithdrawal appends a WITHDRAWAL_FAILED audit record for
	// a request rejected before any funds were reserved.
	RecordFailedWithdrawal(ctx context.Context, sellerID string, amount decimal.Decimal, reference, reason string) (*domain.Transaction, error)
}

// SaleEvent is a completed-order notification from the checkout subsystem.
type SaleEvent struct {
	SellerID       string          `json:"seller_id"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	FeeRate        decimal.Decimal `json:"fee_rate"` // fraction in [0,1)
	OrderReference string          `json:"order_reference"`
}

// SettlementService translates a completed sale into ledger effects.
type SettlementService interface {
	// SettleSale credits the seller's pending balance with the proceeds
	// and the fee account with the platform cut. Idempotent per order
	// reference; safe to retry after partial application.
	SettleSale(ctx context.Context, evt SaleEvent) error
}

// WithdrawalRequest holds validated input for a withdrawal.
type WithdrawalRequest struct {
	SellerID       string
	Amount         decimal.Decimal
	IdempotencyKey string
}

// WithdrawalService drives a withdrawal from validation through external
// settlement with the payout gateway.
type WithdrawalService interface {
	// RequestWithdrawal runs the state machine. Resubmission with the same
	// idempotency key returns the existing transaction. A transaction left
	// PENDING means the gateway outcome is not yet known.
	RequestWithdrawal(ctx context.Context, req WithdrawalRequest) (*domain.Transaction, error)
	// ResolvePayout applies a gateway result (callback or poll) to a
	// submitted withdrawal. Duplicate deliveries are no-ops.
	ResolvePayout(ctx context.Context, reference string, succeeded bool, reason string) (*domain.Transaction, error)
}

// ReportingService is the read-only ledger query facade.
type ReportingService interface {
	GetBalances(ctx context.Context, sellerID string) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	// GetBalanceHistory returns daily movement buckets for the window
	// ("7d", "30d" or "90d").
	GetBalanceHistory(ctx context.Context, sellerID string, window string) ([]BalancePoint, error)
}

// TokenService validates JWTs issued by the marketplace identity provider.
type TokenService interface {
	// Generate mints a token for the given seller. The identity provider
	// owns issuance in production; this exists for tooling and tests.
	Generate(sellerID string) (string, time.Time, error)
	Validate(tokenString string) (string, error) // returns seller ID
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// QueuedSaleEvent is a sale event read from the durable queue, with the
// queue-assigned ID needed to acknowledge it.
type QueuedSaleEvent struct {
	ID    string
	Event SaleEvent
}

// SaleQueue is the durable sale-event log decoupling checkout from
// settlement. Events are redelivered until acknowledged.
type SaleQueue interface {
	Enqueue(ctx context.Context, evt SaleEvent) error
	// Read blocks up to the queue's configured block duration and returns
	// at most count events for this consumer.
	Read(ctx context.Context, count int64) ([]QueuedSaleEvent, error)
	Ack(ctx context.Context, ids ...string) error
}
