package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"seller-wallet-service/internal/core/domain"
	"seller-wallet-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new ledger transaction within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, seller_id, transaction_type, amount, reference, status, failure_reason, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.SellerID, t.Type, t.Amount, t.Reference,
		t.Status, t.FailureReason, t.CreatedAt, t.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT id, seller_id, transaction_type, amount, reference, status, failure_reason, created_at, completed_at
		FROM transactions WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByReference fetches a transaction by its unique ledger reference.
func (r *TransactionRepo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT id, seller_id, transaction_type, amount, reference, status, failure_reason, created_at, completed_at
		FROM transactions WHERE reference = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, reference))
}

// UpdateStatus finalizes a transaction's status within a database transaction.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus, failureReason *string, completedAt time.Time) error {
	query := `UPDATE transactions SET status = $1, failure_reason = $2, completed_at = $3 WHERE id = $4`

	tag, err := tx.Exec(ctx, query, status, failureReason, completedAt, id)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// List fetches a seller's transactions with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("seller_id = $%d", argIdx))
	args = append(args, params.SellerID)
	argIdx++

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_type = $%d", argIdx))
		args = append(args, *params.Type)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= to_timestamp($%d)", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= to_timestamp($%d)", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT id, seller_id, transaction_type, amount, reference, status, failure_reason, created_at, completed_at
		FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.SellerID, &t.Type, &t.Amount, &t.Reference,
			&t.Status, &t.FailureReason, &t.CreatedAt, &t.CompletedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// BalanceHistory aggregates the seller's ledger movement into daily buckets.
// SALE rows credit, succeeded WITHDRAWAL rows debit.
func (r *TransactionRepo) BalanceHistory(ctx context.Context, sellerID string, since time.Time) ([]ports.BalancePoint, error) {
	query := `SELECT
		date_trunc('day', created_at) AS day,
		COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'SALE' AND status = 'SUCCEEDED'), 0) AS credited,
		COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'WITHDRAWAL' AND status = 'SUCCEEDED'), 0) AS withdrawn
		FROM transactions
		WHERE seller_id = $1 AND created_at >= $2
		GROUP BY 1 ORDER BY 1 ASC`

	rows, err := r.pool.Query(ctx, query, sellerID, since)
	if err != nil {
		return nil, fmt.Errorf("balance history: %w", err)
	}
	defer rows.Close()

	var points []ports.BalancePoint
	for rows.Next() {
		var p ports.BalancePoint
		if err := rows.Scan(&p.Day, &p.Credited, &p.Withdrawn); err != nil {
			return nil, fmt.Errorf("scan balance point: %w", err)
		}
		p.Net = p.Credited.Sub(p.Withdrawn)
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate balance points: %w", err)
	}
	return points, nil
}

// ListStalePendingWithdrawals returns WITHDRAWAL transactions still PENDING
// that were created before the cutoff. Reconciliation polls these against
// the payout gateway.
func (r *TransactionRepo) ListStalePendingWithdrawals(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error) {
	query := `SELECT id, seller_id, transaction_type, amount, reference, status, failure_reason, created_at, completed_at
		FROM transactions
		WHERE transaction_type = $1 AND status = $2 AND created_at < $3
		ORDER BY created_at ASC
		LIMIT $4`

	rows, err := r.pool.Query(ctx, query,
		domain.TransactionTypeWithdrawal, domain.TransactionStatusPending, olderThan, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list stale pending withdrawals: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.SellerID, &t.Type, &t.Amount, &t.Reference,
			&t.Status, &t.FailureReason, &t.CreatedAt, &t.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan stale withdrawal row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale withdrawal rows: %w", err)
	}
	return txns, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.SellerID, &t.Type, &t.Amount, &t.Reference,
		&t.Status, &t.FailureReason, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
