package postgres

import (
	"context"
	"errors"
	"fmt"

	"seller-wallet-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// GetBySellerID fetches a wallet by seller ID (non-locking read).
func (r *WalletRepo) GetBySellerID(ctx context.Context, sellerID string) (*domain.Wallet, error) {
	query := `SELECT seller_id, available_balance, pending_balance, payout_account, created_at, updated_at
		FROM wallets WHERE seller_id = $1`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, sellerID).Scan(
		&w.SellerID, &w.AvailableBalance, &w.PendingBalance,
		&w.PayoutAccount, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by seller id: %w", err)
	}
	return w, nil
}

// CreateIfAbsent inserts a zero-balance wallet row if none exists.
// Called inside the crediting transaction so first-credit races
// collapse into one row.
func (r *WalletRepo) CreateIfAbsent(ctx context.Context, tx pgx.Tx, sellerID string) error {
	query := `INSERT INTO wallets (seller_id, available_balance, pending_balance, created_at, updated_at)
		VALUES ($1, 0, 0, NOW(), NOW())
		ON CONFLICT (seller_id) DO NOTHING`

	if _, err := tx.Exec(ctx, query, sellerID); err != nil {
		return fmt.Errorf("create wallet if absent: %w", err)
	}
	return nil
}

// GetForUpdate fetches a wallet by seller ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, sellerID string) (*domain.Wallet, error) {
	query := `SELECT seller_id, available_balance, pending_balance, payout_account, created_at, updated_at
		FROM wallets WHERE seller_id = $1 FOR UPDATE`

	w := &domain.Wallet{}
	err := tx.QueryRow(ctx, query, sellerID).Scan(
		&w.SellerID, &w.AvailableBalance, &w.PendingBalance,
		&w.PayoutAccount, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// UpdateBalances writes both balance columns within a transaction.
func (r *WalletRepo) UpdateBalances(ctx context.Context, tx pgx.Tx, sellerID string, available, pending decimal.Decimal) error {
	query := `UPDATE wallets SET available_balance = $1, pending_balance = $2, updated_at = NOW() WHERE seller_id = $3`

	tag, err := tx.Exec(ctx, query, available, pending, sellerID)
	if err != nil {
		return fmt.Errorf("update wallet balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", sellerID)
	}
	return nil
}

// SetPayoutAccount stores the seller's payout destination. Sellers may
// configure it before their first sale, so the wallet row is created on
// demand with zero balances.
func (r *WalletRepo) SetPayoutAccount(ctx context.Context, sellerID, account string) error {
	query := `INSERT INTO wallets (seller_id, available_balance, pending_balance, payout_account, created_at, updated_at)
		VALUES ($1, 0, 0, $2, NOW(), NOW())
		ON CONFLICT (seller_id) DO UPDATE SET payout_account = EXCLUDED.payout_account, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, sellerID, account); err != nil {
		return fmt.Errorf("set payout account: %w", err)
	}
	return nil
}
