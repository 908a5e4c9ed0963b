package service

import (
	"context"
	"fmt"
	"time"

	"seller-wallet-service/internal/core/domain"
	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ReportingServiceImpl implements ports.ReportingService: the read-only
// query facade over the ledger.
type ReportingServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	log        zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(walletRepo ports.WalletRepository, txRepo ports.TransactionRepository, log zerolog.Logger) *ReportingServiceImpl {
	return &ReportingServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		log:        log,
	}
}

// GetBalances returns the seller's wallet. Sellers without ledger
// activity have no row yet; they read as zero balances, matching what
// lazy wallet creation would produce on first credit.
func (s *ReportingServiceImpl) GetBalances(ctx context.Context, sellerID string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load wallet: %w", err))
	}
	if wallet == nil {
		now := time.Now().UTC()
		return &domain.Wallet{
			SellerID:         sellerID,
			AvailableBalance: decimal.Zero,
			PendingBalance:   decimal.Zero,
			CreatedAt:        now,
			UpdatedAt:        now,
		}, nil
	}
	return wallet, nil
}

// ListTransactions returns a page of the seller's ledger history,
// newest first.
func (s *ReportingServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}

// GetBalanceHistory returns daily movement buckets over the window.
func (s *ReportingServiceImpl) GetBalanceHistory(ctx context.Context, sellerID string, window string) ([]ports.BalancePoint, error) {
	var days int
	switch window {
	case "7d":
		days = 7
	case "30d", "":
		days = 30
	case "90d":
		days = 90
	default:
		return nil, apperror.Validation("window must be one of 7d, 30d, 90d")
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	points, err := s.txRepo.BalanceHistory(ctx, sellerID, since)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("balance history: %w", err))
	}
	return points, nil
}
