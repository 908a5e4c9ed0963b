package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"seller-wallet-service/internal/core/domain"
	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/pkg/apperror"

	"github.com/rs/zerolog"
)

const idempotencyTTL = 24 * time.Hour

// WithdrawalServiceImpl implements ports.WithdrawalService. It drives
// the withdrawal state machine: reserve funds, submit to the payout
// gateway, then confirm or release depending on the outcome. When the
// gateway outcome is ambiguous the transaction stays PENDING and is
// resolved later by a callback or the reconciliation job; the funds stay
// reserved the whole time.
type WithdrawalServiceImpl struct {
	ledger     ports.LedgerStore
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	resRepo    ports.ReservationRepository
	gateway    ports.PayoutGateway
	idempCache ports.IdempotencyCache
	log        zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalServiceImpl.
func NewWithdrawalService(
	ledger ports.LedgerStore,
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	resRepo ports.ReservationRepository,
	gateway ports.PayoutGateway,
	idempCache ports.IdempotencyCache,
	log zerolog.Logger,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		ledger:     ledger,
		walletRepo: walletRepo,
		txRepo:     txRepo,
		resRepo:    resRepo,
		gateway:    gateway,
		idempCache: idempCache,
		log:        log,
	}
}

// RequestWithdrawal runs the withdrawal state machine. Resubmitting the
// same idempotency key returns the existing transaction in its current
// state; the returned transaction's status tells the caller whether the
// payout succeeded, failed, or is still pending.
func (s *WithdrawalServiceImpl) RequestWithdrawal(ctx context.Context, req ports.WithdrawalRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.IdempotencyKey == "" {
		return nil, apperror.Validation("idempotency_key is required")
	}

	reference := domain.BuildWithdrawalReference(req.SellerID, req.IdempotencyKey)

	// Layer 1: Redis idempotency check
	cached, err := s.idempCache.Get(ctx, reference)
	if err != nil {
		s.log.Warn().Err(err).Str("key", reference).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return s.unmarshalCachedTransaction(cached)
	}

	// Layer 2: DB idempotency check. The withdrawal reference column is
	// unique, so a replayed key resolves to its original transaction.
	existing, err := s.txRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if existing != nil {
		return existing, nil
	}

	// Validate preconditions before touching any funds.
	wallet, err := s.walletRepo.GetBySellerID(ctx, req.SellerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load wallet: %w", err))
	}
	if wallet == nil || !wallet.HasPayoutAccount() {
		if _, recErr := s.ledger.RecordFailedWithdrawal(ctx, req.SellerID, req.Amount, reference, "no payout account configured"); recErr != nil {
			s.log.Error().Err(recErr).Str("seller_id", req.SellerID).Msg("recording failed withdrawal")
		}
		return nil, apperror.ErrMissingPayoutAccount()
	}

	// Reserve: debit available balance and open the hold atomically.
	reservation, txn, err := s.ledger.ReserveForWithdrawal(ctx, req.SellerID, req.Amount, reference)
	if err != nil {
		if appErr, ok := asAppError(err); ok && appErr.Code == "LED_002" {
			if _, recErr := s.ledger.RecordFailedWithdrawal(ctx, req.SellerID, req.Amount, reference, "insufficient available balance"); recErr != nil {
				s.log.Error().Err(recErr).Str("seller_id", req.SellerID).Msg("recording failed withdrawal")
			}
		}
		return nil, err
	}
	if reservation == nil {
		// A concurrent request with the same key won the race inside the
		// ledger; its gateway submission is authoritative.
		s.log.Info().
			Str("reference", reference).
			Msg("withdrawal already in flight, returning existing transaction")
		return txn, nil
	}

	// Submit to the external gateway. From here on every outcome path
	// must finalize or deliberately keep the reservation.
	result, err := s.gateway.Submit(ctx, *wallet.PayoutAccount, req.Amount, reference)
	if err != nil {
		// Ambiguous: the provider may or may not have received it. Keep
		// the funds reserved and the transaction PENDING; reconciliation
		// or a provider callback resolves it.
		s.log.Warn().Err(err).
			Str("reference", reference).
			Msg("gateway submit outcome unknown, withdrawal left pending")
		return txn, nil
	}

	switch result.Status {
	case ports.PayoutStatusSucceeded:
		final, err := s.ledger.ConfirmWithdrawal(ctx, reservation.ID)
		if err != nil {
			return nil, err
		}
		s.cacheTerminal(ctx, reference, final)
		return final, nil

	case ports.PayoutStatusRejected:
		final, err := s.ledger.ReleaseReservation(ctx, reservation.ID, result.Reason)
		if err != nil {
			return nil, err
		}
		s.cacheTerminal(ctx, reference, final)
		return final, nil

	default:
		// PENDING or UNKNOWN: same treatment as a transport failure.
		s.log.Info().
			Str("reference", reference).
			Str("gateway_status", string(result.Status)).
			Msg("payout accepted but not settled, withdrawal left pending")
		return txn, nil
	}
}

// ResolvePayout applies a gateway outcome (callback or reconciliation
// poll) to a submitted withdrawal. Duplicate deliveries are no-ops.
func (s *WithdrawalServiceImpl) ResolvePayout(ctx context.Context, reference string, succeeded bool, reason string) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load withdrawal: %w", err))
	}
	if txn == nil || txn.Type != domain.TransactionTypeWithdrawal {
		return nil, apperror.ErrWithdrawalNotFound()
	}
	if txn.IsTerminal() {
		return txn, nil
	}

	reservation, err := s.resRepo.GetByTransactionID(ctx, txn.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load reservation: %w", err))
	}
	if reservation == nil {
		return nil, apperror.InternalError(fmt.Errorf("withdrawal %s has no reservation", txn.ID))
	}

	var final *domain.Transaction
	if succeeded {
		final, err = s.ledger.ConfirmWithdrawal(ctx, reservation.ID)
	} else {
		final, err = s.ledger.ReleaseReservation(ctx, reservation.ID, reason)
	}
	if err != nil {
		return nil, err
	}

	s.cacheTerminal(ctx, reference, final)
	s.log.Info().
		Str("reference", reference).
		Bool("succeeded", succeeded).
		Msg("payout resolved")
	return final, nil
}

// cacheTerminal stores a finished withdrawal in Redis (best-effort).
// Pending withdrawals are never cached: the DB row is the live state.
func (s *WithdrawalServiceImpl) cacheTerminal(ctx context.Context, reference string, txn *domain.Transaction) {
	if txn == nil || !txn.IsTerminal() {
		return
	}
	respJSON, err := json.Marshal(txn)
	if err != nil {
		return
	}
	if err := s.idempCache.Set(ctx, reference, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", reference).Msg("failed to cache idempotency in redis")
	}
}

func (s *WithdrawalServiceImpl) unmarshalCachedTransaction(data []byte) (*domain.Transaction, error) {
	txn := &domain.Transaction{}
	if err := json.Unmarshal(data, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached tx: %w", err))
	}
	return txn, nil
}

func asAppError(err error) (*apperror.AppError, bool) {
	var appErr *apperror.AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
