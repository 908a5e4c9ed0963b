package postgres

import (
	"context"
	"fmt"

	"seller-wallet-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// feeAccountID is the fixed primary key of the singleton platform fee
// account row, seeded by the initial migration.
const feeAccountID = 1

// FeeAccountRepo implements ports.FeeAccountRepository.
type FeeAccountRepo struct {
	pool Pool
}

// NewFeeAccountRepo creates a new FeeAccountRepo.
func NewFeeAccountRepo(pool Pool) *FeeAccountRepo {
	return &FeeAccountRepo{pool: pool}
}

// Get fetches the platform fee account (non-locking read).
func (r *FeeAccountRepo) Get(ctx context.Context) (*domain.FeeAccount, error) {
	query := `SELECT balance, updated_at FROM fee_account WHERE id = $1`

	fa := &domain.FeeAccount{}
	err := r.pool.QueryRow(ctx, query, feeAccountID).Scan(&fa.Balance, &fa.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get fee account: %w", err)
	}
	return fa, nil
}

// GetForUpdate fetches the fee account with pessimistic locking.
// This MUST be called within a transaction.
func (r *FeeAccountRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.FeeAccount, error) {
	query := `SELECT balance, updated_at FROM fee_account WHERE id = $1 FOR UPDATE`

	fa := &domain.FeeAccount{}
	err := tx.QueryRow(ctx, query, feeAccountID).Scan(&fa.Balance, &fa.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get fee account for update: %w", err)
	}
	return fa, nil
}

// UpdateBalance writes the fee account balance within a transaction.
func (r *FeeAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, balance decimal.Decimal) error {
	query := `UPDATE fee_account SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, feeAccountID)
	if err != nil {
		return fmt.Errorf("update fee account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fee account row missing")
	}
	return nil
}
