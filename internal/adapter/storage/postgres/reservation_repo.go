package postgres

import (
	"context"
	"errors"
	"fmt"

	"seller-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReservationRepo implements ports.ReservationRepository.
type ReservationRepo struct {
	pool Pool
}

// NewReservationRepo creates a new ReservationRepo.
func NewReservationRepo(pool Pool) *ReservationRepo {
	return &ReservationRepo{pool: pool}
}

// Create inserts a reservation within a database transaction.
func (r *ReservationRepo) Create(ctx context.Context, tx pgx.Tx, res *domain.Reservation) error {
	query := `INSERT INTO reservations (id, seller_id, amount, status, transaction_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		res.ID, res.SellerID, res.Amount, res.Status,
		res.TransactionID, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByIDForUpdate fetches a reservation with pessimistic locking.
// This MUST be called within a transaction.
func (r *ReservationRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT id, seller_id, amount, status, transaction_id, created_at, updated_at
		FROM reservations WHERE id = $1 FOR UPDATE`

	return r.scanReservation(tx.QueryRow(ctx, query, id))
}

// GetByTransactionID fetches the reservation backing a withdrawal transaction.
func (r *ReservationRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT id, seller_id, amount, status, transaction_id, created_at, updated_at
		FROM reservations WHERE transaction_id = $1`

	return r.scanReservation(r.pool.QueryRow(ctx, query, transactionID))
}

// UpdateStatus transitions a reservation within a database transaction.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.ReservationStatus) error {
	query := `UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reservation not found: %s", id)
	}
	return nil
}

func (r *ReservationRepo) scanReservation(row pgx.Row) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := row.Scan(
		&res.ID, &res.SellerID, &res.Amount, &res.Status,
		&res.TransactionID, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	return res, nil
}
