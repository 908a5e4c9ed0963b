package ports

import (
	"context"
	"time"

	"seller-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for seller wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking; balance math never happens outside such a block.
type WalletRepository interface {
	GetBySellerID(ctx context.Context, sellerID string) (*domain.Wallet, error)
	// CreateIfAbsent inserts a zero-balance wallet row if none exists.
	// Wallets are created lazily on first credit.
	CreateIfAbsent(ctx context.Context, tx pgx.Tx, sellerID string) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, sellerID string) (*domain.Wallet, error)
	UpdateBalances(ctx context.Context, tx pgx.Tx, sellerID string, available, pending decimal.Decimal) error
	SetPayoutAccount(ctx context.Context, sellerID string, account string) error
}

// FeeAccountRepository defines persistence for the singleton platform fee account.
type FeeAccountRepository interface {
	Get(ctx context.Context) (*domain.FeeAccount, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.FeeAccount, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, balance decimal.Decimal) error
}

// AccrualRepository defines persistence operations for pending accruals.
type AccrualRepository interface {
	// Create inserts the accrual. Returns false without error when an
	// accrual with the same reference already exists (idempotent replay).
	Create(ctx context.Context, tx pgx.Tx, accrual *domain.PendingAccrual) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingAccrual, error)
	GetByReference(ctx context.Context, reference string) (*domain.PendingAccrual, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PendingAccrual, error)
	MarkMatured(ctx context.Context, tx pgx.Tx, id uuid.UUID, maturedAt time.Time) error
	MarkReversed(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	// ListDue returns PENDING accruals with matures_at <= asOf, oldest first.
	ListDue(ctx context.Context, asOf time.Time, limit int) ([]domain.PendingAccrual, error)
}

// TransactionRepository defines persistence for the append-only audit log.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus, failureReason *string, completedAt time.Time) error
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	BalanceHistory(ctx context.Context, sellerID string, since time.Time) ([]BalancePoint, error)
	// ListStalePendingWithdrawals returns WITHDRAWAL transactions still
	// PENDING that were created before the cutoff, for reconciliation.
	ListStalePendingWithdrawals(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error)
}

// ReservationRepository defines persistence for withdrawal holds.
type ReservationRepository interface {
	Create(ctx context.Context, tx pgx.Tx, r *domain.Reservation) error
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Reservation, error)
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.ReservationStatus) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	SellerID string
	Status   *domain.TransactionStatus
	Type     *domain.TransactionType
	From     *int64 // Unix timestamp
	To       *int64 // Unix timestamp
	Page     int
	PageSize int
}

// BalancePoint is one daily bucket of ledger movement, for charting.
type BalancePoint struct {
	Day       time.Time       `json:"day"`
	Credited  decimal.Decimal `json:"credited"`  // sale proceeds credited that day
	Withdrawn decimal.Decimal `json:"withdrawn"` // succeeded withdrawals that day
	Net       decimal.Decimal `json:"net"`
}
