package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seller-wallet-service/internal/core/domain"
	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// maxTxRetries bounds automatic retries on serialization failures
	// before the conflict surfaces to the caller.
	maxTxRetries = 3
	retryBackoff = 25 * time.Millisecond
)

// LedgerServiceImpl implements ports.LedgerStore. It is the only code
// path that mutates balances; every operation locks the affected rows
// with SELECT ... FOR UPDATE and applies balance math inside a single
// database transaction.
type LedgerServiceImpl struct {
	walletRepo  ports.WalletRepository
	feeRepo     ports.FeeAccountRepository
	accrualRepo ports.AccrualRepository
	txRepo      ports.TransactionRepository
	resRepo     ports.ReservationRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	feeRepo ports.FeeAccountRepository,
	accrualRepo ports.AccrualRepository,
	txRepo ports.TransactionRepository,
	resRepo ports.ReservationRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo:  walletRepo,
		feeRepo:     feeRepo,
		accrualRepo: accrualRepo,
		txRepo:      txRepo,
		resRepo:     resRepo,
		transactor:  transactor,
		log:         log,
	}
}

// CreditPending creates a pending accrual and increments the seller's
// pending balance atomically. The accrual reference is the idempotency
// key: a replay returns the existing accrual ID without double-crediting.
func (s *LedgerServiceImpl) CreditPending(ctx context.Context, sellerID string, amount decimal.Decimal, reference string, maturesAt time.Time) (uuid.UUID, error) {
	if !amount.IsPositive() {
		return uuid.Nil, apperror.ErrInvalidAmount()
	}

	// Fast path: reference already settled.
	existing, err := s.accrualRepo.GetByReference(ctx, reference)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("check accrual reference: %w", err))
	}
	if existing != nil {
		return existing.ID, nil
	}

	var accrualID uuid.UUID
	err = s.withRetry(ctx, "credit_pending", func(ctx context.Context) error {
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		// Wallets are created lazily on first credit.
		if err := s.walletRepo.CreateIfAbsent(ctx, dbTx, sellerID); err != nil {
			return apperror.InternalError(err)
		}

		wallet, err := s.walletRepo.GetForUpdate(ctx, dbTx, sellerID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return apperror.ErrNotFound("wallet")
		}

		now := time.Now().UTC()
		accrual := &domain.PendingAccrual{
			ID:        uuid.New(),
			SellerID:  sellerID,
			Amount:    amount,
			Reference: reference,
			Status:    domain.AccrualStatusPending,
			CreatedAt: now,
			MaturesAt: maturesAt,
		}

		inserted, err := s.accrualRepo.Create(ctx, dbTx, accrual)
		if err != nil {
			return apperror.InternalError(err)
		}
		if !inserted {
			// Lost a race with a concurrent replay. The winner already
			// credited the balance; resolve the existing ID instead.
			winner, err := s.accrualRepo.GetByReference(ctx, reference)
			if err != nil {
				return apperror.InternalError(fmt.Errorf("resolve replayed accrual: %w", err))
			}
			if winner == nil {
				return apperror.InternalError(fmt.Errorf("accrual vanished for reference %s", reference))
			}
			accrualID = winner.ID
			return nil
		}

		newPending := wallet.PendingBalance.Add(amount)
		if err := s.walletRepo.UpdateBalances(ctx, dbTx, sellerID, wallet.AvailableBalance, newPending); err != nil {
			return apperror.InternalError(err)
		}

		txn := &domain.Transaction{
			ID:        uuid.New(),
			SellerID:  sellerID,
			Type:      domain.TransactionTypeSale,
			Amount:    amount,
			Reference: reference,
			Status:    domain.TransactionStatusSucceeded,
			CreatedAt: now,
			CompletedAt: &now,
		}
		if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
			return apperror.InternalError(fmt.Errorf("create sale transaction: %w", err))
		}

		if err := dbTx.Commit(ctx); err != nil {
			return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		accrualID = accrual.ID

		s.log.Info().
			Str("seller_id", sellerID).
			Str("accrual_id", accrual.ID.String()).
			Str("amount", amount.String()).
			Time("matures_at", maturesAt).
			Msg("pending credit applied")
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return accrualID, nil
}

// CreditAdminFee increments the platform fee account, keyed by reference.
func (s *LedgerServiceImpl) CreditAdminFee(ctx context.Context, amount decimal.Decimal, reference string) error {
	if amount.IsNegative() {
		return apperror.ErrInvalidAmount()
	}
	if amount.IsZero() {
		// Zero-rate sales produce no fee row.
		return nil
	}

	existing, err := s.txRepo.GetByReference(ctx, reference)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check fee reference: %w", err))
	}
	if existing != nil {
		return nil
	}

	return s.withRetry(ctx, "credit_admin_fee", func(ctx context.Context) error {
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		// The fee transaction's unique reference is the replay guard, so
		// it goes in before any balance is touched.
		now := time.Now().UTC()
		txn := &domain.Transaction{
			ID:          uuid.New(),
			SellerID:    domain.PlatformAccountID,
			Type:        domain.TransactionTypeFee,
			Amount:      amount,
			Reference:   reference,
			Status:      domain.TransactionStatusSucceeded,
			CreatedAt:   now,
			CompletedAt: &now,
		}
		if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
			if isUniqueViolation(err) {
				// Concurrent replay won; its commit carries the credit.
				return nil
			}
			return apperror.InternalError(fmt.Errorf("create fee transaction: %w", err))
		}

		fee, err := s.feeRepo.GetForUpdate(ctx, dbTx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock fee account: %w", err))
		}

		if err := s.feeRepo.UpdateBalance(ctx, dbTx, fee.Balance.Add(amount)); err != nil {
			return apperror.InternalError(err)
		}

		if err := dbTx.Commit(ctx); err != nil {
			return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}

		s.log.Info().
			Str("reference", reference).
			Str("amount", amount.String()).
			Msg("admin fee credited")
		return nil
	})
}

// Mature moves a due accrual's amount from pending to available and
// flips its status. Returns false without error when the accrual is
// already matured, reversed, or not yet due: redundant and concurrent
// calls are harmless.
func (s *LedgerServiceImpl) Mature(ctx context.Context, accrualID uuid.UUID) (bool, error) {
	var matured bool
	err := s.withRetry(ctx, "mature", func(ctx context.Context) error {
		matured = false
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		accrual, err := s.accrualRepo.GetByIDForUpdate(ctx, dbTx, accrualID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock accrual: %w", err))
		}
		if accrual == nil {
			return apperror.ErrAccrualNotFound()
		}

		now := time.Now().UTC()
		// Re-check under the lock: a concurrent sweep may have won.
		if !accrual.IsDue(now) {
			return nil
		}

		wallet, err := s.walletRepo.GetForUpdate(ctx, dbTx, accrual.SellerID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return apperror.ErrNotFound("wallet")
		}

		newAvailable := wallet.AvailableBalance.Add(accrual.Amount)
		newPending := wallet.PendingBalance.Sub(accrual.Amount)
		if err := s.walletRepo.UpdateBalances(ctx, dbTx, accrual.SellerID, newAvailable, newPending); err != nil {
			return apperror.InternalError(err)
		}

		if err := s.accrualRepo.MarkMatured(ctx, dbTx, accrualID, now); err != nil {
			return apperror.InternalError(err)
		}

		txn := &domain.Transaction{
			ID:          uuid.New(),
			SellerID:    accrual.SellerID,
			Type:        domain.TransactionTypeMaturation,
			Amount:      accrual.Amount,
			Reference:   domain.BuildMaturationReference(accrualID),
			Status:      domain.TransactionStatusSucceeded,
			CreatedAt:   now,
			CompletedAt: &now,
		}
		if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
			return apperror.InternalError(fmt.Errorf("create maturation transaction: %w", err))
		}

		if err := dbTx.Commit(ctx); err != nil {
			return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		matured = true

		s.log.Info().
			Str("accrual_id", accrualID.String()).
			Str("seller_id", accrual.SellerID).
			Str("amount", accrual.Amount.String()).
			Msg("accrual matured")
		return nil
	})
	return matured, err
}

// ReverseAccrual flips a still-pending accrual to REVERSED and removes
// its amount from the pending balance. Hook for refunds and chargebacks
// arriving before maturation.
func (s *LedgerServiceImpl) ReverseAccrual(ctx context.Context, accrualID uuid.UUID) (bool, error) {
	var reversed bool
	err := s.withRetry(ctx, "reverse_accrual", func(ctx context.Context) error {
		reversed = false
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		accrual, err := s.accrualRepo.GetByIDForUpdate(ctx, dbTx, accrualID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock accrual: %w", err))
		}
		if accrual == nil {
			return apperror.ErrAccrualNotFound()
		}
		if accrual.Status != domain.AccrualStatusPending {
			// Already matured or reversed; funds are out of reach here.
			return nil
		}

		wallet, err := s.walletRepo.GetForUpdate(ctx, dbTx, accrual.SellerID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return apperror.ErrNotFound("wallet")
		}

		newPending := wallet.PendingBalance.Sub(accrual.Amount)
		if err := s.walletRepo.UpdateBalances(ctx, dbTx, accrual.SellerID, wallet.AvailableBalance, newPending); err != nil {
			return apperror.InternalError(err)
		}

		if err := s.accrualRepo.MarkReversed(ctx, dbTx, accrualID); err != nil {
			return apperror.InternalError(err)
		}

		if err := dbTx.Commit(ctx); err != nil {
			return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		reversed = true

		s.log.Info().
			Str("accrual_id", accrualID.String()).
			Str("seller_id", accrual.SellerID).
			Msg("accrual reversed")
		return nil
	})
	return reversed, err
}

// ReserveForWithdrawal debits available balance immediately and records
// a HELD reservation together with a PENDING withdrawal transaction, all
// in one database transaction. Two concurrent requests cannot both pass
// the funds check because the wallet row is locked. A concurrent request
// holding the same reference loses the race cleanly: the winner's
// transaction is returned with a nil reservation and no funds move.
func (s *LedgerServiceImpl) ReserveForWithdrawal(ctx context.Context, sellerID string, amount decimal.Decimal, reference string) (*domain.Reservation, *domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, apperror.ErrInvalidAmount()
	}

	var (
		reservation *domain.Reservation
		txn         *domain.Transaction
	)
	err := s.withRetry(ctx, "reserve_for_withdrawal", func(ctx context.Context) error {
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		wallet, err := s.walletRepo.GetForUpdate(ctx, dbTx, sellerID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return apperror.ErrNotFound("wallet")
		}

		// The wallet lock serializes same-seller requests, so once it is
		// held a racing request that already committed this reference is
		// visible here. Resolve to its transaction instead of failing on
		// the unique index (or charging the seller twice).
		existing, err := s.txRepo.GetByReference(ctx, reference)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("check withdrawal reference: %w", err))
		}
		if existing != nil {
			reservation = nil
			txn = existing
			return nil
		}

		if wallet.AvailableBalance.LessThan(amount) {
			return apperror.ErrInsufficientFunds()
		}

		newAvailable := wallet.AvailableBalance.Sub(amount)
		if err := s.walletRepo.UpdateBalances(ctx, dbTx, sellerID, newAvailable, wallet.PendingBalance); err != nil {
			return apperror.InternalError(err)
		}

		now := time.Now().UTC()
		txn = &domain.Transaction{
			ID:        uuid.New(),
			SellerID:  sellerID,
			Type:      domain.TransactionTypeWithdrawal,
			Amount:    amount,
			Reference: reference,
			Status:    domain.TransactionStatusPending,
			CreatedAt: now,
		}
		if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
			if isUniqueViolation(err) {
				winner, lookupErr := s.txRepo.GetByReference(ctx, reference)
				if lookupErr != nil {
					return apperror.InternalError(fmt.Errorf("resolve replayed withdrawal: %w", lookupErr))
				}
				if winner == nil {
					return apperror.InternalError(fmt.Errorf("withdrawal vanished for reference %s", reference))
				}
				// The rollback undoes this attempt's debit; the winner's
				// commit carries the only one.
				reservation = nil
				txn = winner
				return nil
			}
			return apperror.InternalError(fmt.Errorf("create withdrawal transaction: %w", err))
		}

		reservation = &domain.Reservation{
			ID:            uuid.New(),
			SellerID:      sellerID,
			Amount:        amount,
			Status:        domain.ReservationStatusHeld,
			TransactionID: txn.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.resRepo.Create(ctx, dbTx, reservation); err != nil {
			return apperror.InternalError(fmt.Errorf("create reservation: %w", err))
		}

		if err := dbTx.Commit(ctx); err != nil {
			return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}

		s.log.Info().
			Str("seller_id", sellerID).
			Str("reservation_id", reservation.ID.String()).
			Str("amount", amount.String()).
			Msg("funds reserved for withdrawal")
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return reservation, txn, nil
}

// ConfirmWithdrawal finalizes a held reservation: the debit already
// happened at reservation time, so only statuses change. Calling it on
// an already-finalized reservation returns the transaction unchanged.
func (s *LedgerServiceImpl) ConfirmWithdrawal(ctx context.Context, reservationID uuid.UUID) (*domain.Transaction, error) {
	return s.finalizeReservation(ctx, reservationID, domain.ReservationStatusConfirmed, "")
}

// ReleaseReservation restores the reserved amount to available balance
// and marks the withdrawal FAILED with the given reason.
func (s *LedgerServiceImpl) ReleaseReservation(ctx context.Context, reservationID uuid.UUID, reason string) (*domain.Transaction, error) {
	return s.finalizeReservation(ctx, reservationID, domain.ReservationStatusReleased, reason)
}

func (s *LedgerServiceImpl) finalizeReservation(ctx context.Context, reservationID uuid.UUID, target domain.ReservationStatus, reason string) (*domain.Transaction, error) {
	var txnID uuid.UUID
	err := s.withRetry(ctx, "finalize_reservation", func(ctx context.Context) error {
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		res, err := s.resRepo.GetByIDForUpdate(ctx, dbTx, reservationID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock reservation: %w", err))
		}
		if res == nil {
			return apperror.ErrNotFound("reservation")
		}
		txnID = res.TransactionID

		if !res.IsHeld() {
			// Already finalized; duplicate gateway callbacks land here.
			return nil
		}

		if target == domain.ReservationStatusReleased {
			wallet, err := s.walletRepo.GetForUpdate(ctx, dbTx, res.SellerID)
			if err != nil {
				return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
			}
			if wallet == nil {
				return apperror.ErrNotFound("wallet")
			}
			newAvailable := wallet.AvailableBalance.Add(res.Amount)
			if err := s.walletRepo.UpdateBalances(ctx, dbTx, res.SellerID, newAvailable, wallet.PendingBalance); err != nil {
				return apperror.InternalError(err)
			}
		}

		if err := s.resRepo.UpdateStatus(ctx, dbTx, reservationID, target); err != nil {
			return apperror.InternalError(err)
		}

		now := time.Now().UTC()
		txStatus := domain.TransactionStatusSucceeded
		var failureReason *string
		if target == domain.ReservationStatusReleased {
			txStatus = domain.TransactionStatusFailed
			failureReason = &reason
		}
		if err := s.txRepo.UpdateStatus(ctx, dbTx, res.TransactionID, txStatus, failureReason, now); err != nil {
			return apperror.InternalError(err)
		}

		if err := dbTx.Commit(ctx); err != nil {
			return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}

		s.log.Info().
			Str("reservation_id", reservationID.String()).
			Str("status", string(target)).
			Msg("reservation finalized")
		return nil
	})
	if err != nil {
		return nil, err
	}

	txn, err := s.txRepo.GetByID(ctx, txnID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load withdrawal transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrWithdrawalNotFound()
	}
	return txn, nil
}

// RecordFailedWithdrawal appends a WITHDRAWAL_FAILED audit record for a
// request rejected before any funds were reserved. Idempotent per reference.
func (s *LedgerServiceImpl) RecordFailedWithdrawal(ctx context.Context, sellerID string, amount decimal.Decimal, reference, reason string) (*domain.Transaction, error) {
	failedRef := reference + ":failed"

	existing, err := s.txRepo.GetByReference(ctx, failedRef)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check failed-withdrawal reference: %w", err))
	}
	if existing != nil {
		return existing, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		SellerID:      sellerID,
		Type:          domain.TransactionTypeWithdrawalFailed,
		Amount:        amount,
		Reference:     failedRef,
		Status:        domain.TransactionStatusFailed,
		FailureReason: &reason,
		CreatedAt:     now,
		CompletedAt:   &now,
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		if isUniqueViolation(err) {
			winner, err := s.txRepo.GetByReference(ctx, failedRef)
			if err != nil || winner == nil {
				return nil, apperror.InternalError(fmt.Errorf("resolve replayed failed withdrawal: %w", err))
			}
			return winner, nil
		}
		return nil, apperror.InternalError(fmt.Errorf("create failed-withdrawal transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("seller_id", sellerID).
		Str("reference", failedRef).
		Str("reason", reason).
		Msg("failed withdrawal recorded")
	return txn, nil
}

// withRetry re-runs fn on PostgreSQL serialization failures (40001) and
// deadlocks (40P01) up to maxTxRetries, then surfaces SYS_002.
func (s *LedgerServiceImpl) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxTxRetries; attempt++ {
		err = fn(ctx)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		s.log.Warn().
			Str("op", op).
			Int("attempt", attempt).
			Err(err).
			Msg("serialization failure, retrying")
		select {
		case <-ctx.Done():
			return apperror.InternalError(ctx.Err())
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return apperror.ErrConcurrencyConflict(err)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
