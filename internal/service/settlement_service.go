package service

import (
	"context"
	"time"

	"seller-wallet-service/internal/core/domain"
	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// one is the upper bound (exclusive) for fee rates.
var one = decimal.NewFromInt(1)

// SettlementServiceImpl implements ports.SettlementService. It splits a
// completed sale into the seller's share and the platform fee and
// applies both through the ledger store. Each credit is idempotent per
// order reference, so a retry after a partial application completes the
// remainder without duplicating the part that already landed.
type SettlementServiceImpl struct {
	ledger       ports.LedgerStore
	holdDuration time.Duration
	log          zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(ledger ports.LedgerStore, holdDuration time.Duration, log zerolog.Logger) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		ledger:       ledger,
		holdDuration: holdDuration,
		log:          log,
	}
}

// SettleSale credits the seller's pending balance with the sale proceeds
// and the fee account with the platform cut.
func (s *SettlementServiceImpl) SettleSale(ctx context.Context, evt ports.SaleEvent) error {
	if evt.SellerID == "" {
		return apperror.Validation("seller_id is required")
	}
	if evt.OrderReference == "" {
		return apperror.Validation("order_reference is required")
	}
	if !evt.GrossAmount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}
	if evt.FeeRate.IsNegative() || evt.FeeRate.GreaterThanOrEqual(one) {
		return apperror.Validation("fee_rate must be in [0, 1)")
	}

	fee := evt.GrossAmount.Mul(evt.FeeRate).Round(2)
	sellerShare := evt.GrossAmount.Sub(fee)
	maturesAt := time.Now().UTC().Add(s.holdDuration)

	accrualID, err := s.ledger.CreditPending(ctx, evt.SellerID, sellerShare, domain.BuildSaleReference(evt.OrderReference), maturesAt)
	if err != nil {
		return err
	}

	if err := s.ledger.CreditAdminFee(ctx, fee, domain.BuildFeeReference(evt.OrderReference)); err != nil {
		// The seller credit is already durable and keyed by reference;
		// the caller retries the whole event and only the fee reapplies.
		return err
	}

	s.log.Info().
		Str("order_reference", evt.OrderReference).
		Str("seller_id", evt.SellerID).
		Str("seller_share", sellerShare.String()).
		Str("fee", fee.String()).
		Str("accrual_id", accrualID.String()).
		Msg("sale settled")
	return nil
}
