package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seller-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccrualRepo implements ports.AccrualRepository.
type AccrualRepo struct {
	pool Pool
}

// NewAccrualRepo creates a new AccrualRepo.
func NewAccrualRepo(pool Pool) *AccrualRepo {
	return &AccrualRepo{pool: pool}
}

// Create inserts a pending accrual. The unique index on reference makes
// replays a no-op: returns false when a row with the same reference
// already exists.
func (r *AccrualRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.PendingAccrual) (bool, error) {
	query := `INSERT INTO pending_accruals (id, seller_id, amount, reference, status, created_at, matures_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (reference) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		a.ID, a.SellerID, a.Amount, a.Reference, a.Status, a.CreatedAt, a.MaturesAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert accrual: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID fetches an accrual by its UUID (non-locking read).
func (r *AccrualRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingAccrual, error) {
	query := `SELECT id, seller_id, amount, reference, status, created_at, matures_at, matured_at
		FROM pending_accruals WHERE id = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get accrual by id")
}

// GetByReference fetches an accrual by its settlement reference.
func (r *AccrualRepo) GetByReference(ctx context.Context, reference string) (*domain.PendingAccrual, error) {
	query := `SELECT id, seller_id, amount, reference, status, created_at, matures_at, matured_at
		FROM pending_accruals WHERE reference = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, reference), "get accrual by reference")
}

// GetByIDForUpdate fetches an accrual with pessimistic locking.
// This MUST be called within a transaction.
func (r *AccrualRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PendingAccrual, error) {
	query := `SELECT id, seller_id, amount, reference, status, created_at, matures_at, matured_at
		FROM pending_accruals WHERE id = $1 FOR UPDATE`

	return r.scanOne(tx.QueryRow(ctx, query, id), "get accrual for update")
}

// MarkMatured transitions an accrual to MATURED within a transaction.
func (r *AccrualRepo) MarkMatured(ctx context.Context, tx pgx.Tx, id uuid.UUID, maturedAt time.Time) error {
	query := `UPDATE pending_accruals SET status = $1, matured_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, domain.AccrualStatusMatured, maturedAt, id)
	if err != nil {
		return fmt.Errorf("mark accrual matured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("accrual not found: %s", id)
	}
	return nil
}

// MarkReversed transitions an accrual to REVERSED within a transaction.
func (r *AccrualRepo) MarkReversed(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `UPDATE pending_accruals SET status = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, domain.AccrualStatusReversed, id)
	if err != nil {
		return fmt.Errorf("mark accrual reversed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("accrual not found: %s", id)
	}
	return nil
}

// ListDue returns PENDING accruals whose hold has elapsed, oldest first.
func (r *AccrualRepo) ListDue(ctx context.Context, asOf time.Time, limit int) ([]domain.PendingAccrual, error) {
	query := `SELECT id, seller_id, amount, reference, status, created_at, matures_at, matured_at
		FROM pending_accruals
		WHERE status = $1 AND matures_at <= $2
		ORDER BY matures_at ASC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, domain.AccrualStatusPending, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("list due accruals: %w", err)
	}
	defer rows.Close()

	var accruals []domain.PendingAccrual
	for rows.Next() {
		var a domain.PendingAccrual
		if err := rows.Scan(
			&a.ID, &a.SellerID, &a.Amount, &a.Reference,
			&a.Status, &a.CreatedAt, &a.MaturesAt, &a.MaturedAt,
		); err != nil {
			return nil, fmt.Errorf("scan due accrual: %w", err)
		}
		accruals = append(accruals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due accruals: %w", err)
	}
	return accruals, nil
}

func (r *AccrualRepo) scanOne(row pgx.Row, op string) (*domain.PendingAccrual, error) {
	a := &domain.PendingAccrual{}
	err := row.Scan(
		&a.ID, &a.SellerID, &a.Amount, &a.Reference,
		&a.Status, &a.CreatedAt, &a.MaturesAt, &a.MaturedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
