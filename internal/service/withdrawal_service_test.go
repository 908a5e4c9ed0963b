package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"seller-wallet-service/internal/core/domain"
	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/internal/core/ports/mocks"
	"seller-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type withdrawalTestDeps struct {
	svc        *WithdrawalServiceImpl
	ledger     *mocks.MockLedgerStore
	walletRepo *mocks.MockWalletRepository
	txRepo     *mocks.MockTransactionRepository
	resRepo    *mocks.MockReservationRepository
	gateway    *mocks.MockPayoutGateway
	idempCache *mocks.MockIdempotencyCache
	ctrl       *gomock.Controller
}

func setupWithdrawalService(t *testing.T) *withdrawalTestDeps {
	ctrl := gomock.NewController(t)
	d := &withdrawalTestDeps{
		ledger:     mocks.NewMockLedgerStore(ctrl),
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		resRepo:    mocks.NewMockReservationRepository(ctrl),
		gateway:    mocks.NewMockPayoutGateway(ctrl),
		idempCache: mocks.NewMockIdempotencyCache(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewWithdrawalService(
		d.ledger, d.walletRepo, d.txRepo, d.resRepo,
		d.gateway, d.idempCache, zerolog.Nop(),
	)
	return d
}

func withdrawalWallet(sellerID, account string) *domain.Wallet {
	return &domain.Wallet{
		SellerID:         sellerID,
		AvailableBalance: decimal.NewFromInt(100),
		PayoutAccount:    &account,
	}
}

func TestWithdrawalService_RequestWithdrawal_Success(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.WithdrawalRequest{SellerID: "seller-1", Amount: decimal.NewFromInt(40), IdempotencyKey: "k1"}
	reference := "seller-1:wd:k1"

	reservation := &domain.Reservation{ID: uuid.New(), SellerID: "seller-1", Amount: req.Amount}
	pending := &domain.Transaction{ID: uuid.New(), Status: domain.TransactionStatusPending, Reference: reference}
	succeeded := &domain.Transaction{ID: pending.ID, Status: domain.TransactionStatusSucceeded, Reference: reference}

	d.idempCache.EXPECT().Get(ctx, reference).Return(nil, nil)
	d.txRepo.EXPECT().GetByReference(ctx, reference).Return(nil, nil)
	d.walletRepo.EXPECT().GetBySellerID(ctx, "seller-1").Return(withdrawalWallet("seller-1", "bank-1"), nil)
	d.ledger.EXPECT().ReserveForWithdrawal(ctx, "seller-1", req.Amount, reference).Return(reservation, pending, nil)
	d.gateway.EXPECT().Submit(ctx, "bank-1", req.Amount, reference).
		Return(&ports.PayoutResult{Status: ports.PayoutStatusSucceeded}, nil)
	d.ledger.EXPECT().ConfirmWithdrawal(ctx, reservation.ID).Return(succeeded, nil)
	d.idempCache.EXPECT().Set(ctx, reference, gomock.Any(), idempotencyTTL).Return(nil)

	result, err := d.svc.RequestWithdrawal(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSucceeded, result.Status)
}

func TestWithdrawalService_RequestWithdrawal_GatewayRejected(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.WithdrawalRequest{SellerID: "seller-1", Amount: decimal.NewFromInt(40), IdempotencyKey: "k2"}
	reference := "seller-1:wd:k2"

	reservation := &domain.Reservation{ID: uuid.New()}
	pending := &domain.Transaction{ID: uuid.New(), Status: domain.TransactionStatusPending}
	reason := "account closed"
	failed := &domain.Transaction{ID: pending.ID, Status: domain.TransactionStatusFailed, FailureReason: &reason}

	d.idempCache.EXPECT().Get(ctx, reference).Return(nil, nil)
	d.txRepo.EXPECT().GetByReference(ctx, reference).Return(nil, nil)
	d.walletRepo.EXPECT().GetBySellerID(ctx, "seller-1").Return(withdrawalWallet("seller-1", "bank-1"), nil)
	d.ledger.EXPECT().ReserveForWithdrawal(ctx, "seller-1", req.Amount, reference).Return(reservation, pending, nil)
	d.gateway.EXPECT().Submit(ctx, "bank-1", req.Amount, reference).
		Return(&ports.PayoutResult{Status: ports.PayoutStatusRejected, Reason: reason}, nil)
	d.ledger.EXPECT().ReleaseReservation(ctx, reservation.ID, reason).Return(failed, nil)
	d.idempCache.EXPECT().Set(ctx, reference, gomock.Any(), idempotencyTTL).Return(nil)

	result, err := d.svc.RequestWithdrawal(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, result.Status)
}

func TestWithdrawalService_RequestWithdrawal_GatewayTimeoutLeavesPending(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.WithdrawalRequest{SellerID: "seller-1", Amount: decimal.NewFromInt(40), IdempotencyKey: "k3"}
	reference := "seller-1:wd:k3"

	reservation := &domain.Reservation{ID: uuid.New()}
	pending := &domain.Transaction{ID: uuid.New(), Status: domain.TransactionStatusPending}

	d.idempCache.EXPECT().Get(ctx, reference).Return(nil, nil)
	d.txRepo.EXPECT().GetByReference(ctx, reference).Return(nil, nil)
	d.walletRepo.EXPECT().GetBySellerID(ctx, "seller-1").Return(withdrawalWallet("seller-1", "bank-1"), nil)
	d.ledger.EXPECT().ReserveForWithdrawal(ctx, "seller-1", req.Amount, reference).Return(reservation, pending, nil)
	d.gateway.EXPECT().Submit(ctx, "bank-1", req.Amount, reference).
		Return(nil, fmt.Errorf("submit payout: context deadline exceeded"))

	// No confirm, no release: funds stay reserved.
	result, err := d.svc.RequestWithdrawal(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, result.Status)
}

func TestWithdrawalService_RequestWithdrawal_NoPayoutAccount(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.WithdrawalRequest{SellerID: "seller-1", Amount: decimal.NewFromInt(40), IdempotencyKey: "k4"}
	reference := "seller-1:wd:k4"

	d.idempCache.EXPECT().Get(ctx, reference).Return(nil, nil)
	d.txRepo.EXPECT().GetByReference(ctx, reference).Return(nil, nil)
	d.walletRepo.EXPECT().GetBySellerID(ctx, "seller-1").Return(&domain.Wallet{SellerID: "seller-1"}, nil)
	d.ledger.EXPECT().RecordFailedWithdrawal(ctx, "seller-1", req.Amount, reference, "no payout account configured").
		Return(&domain.Transaction{}, nil)

	_, err := d.svc.RequestWithdrawal(ctx, req)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "WD_001", appErr.Code)
}

func TestWithdrawalService_RequestWithdrawal_InsufficientFundsRecorded(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.WithdrawalRequest{SellerID: "seller-1", Amount: decimal.NewFromInt(400), IdempotencyKey: "k5"}
	reference := "seller-1:wd:k5"

	d.idempCache.EXPECT().Get(ctx, reference).Return(nil, nil)
	d.txRepo.EXPECT().GetByReference(ctx, reference).Return(nil, nil)
	d.walletRepo.EXPECT().GetBySellerID(ctx, "seller-1").Return(withdrawalWallet("seller-1", "bank-1"), nil)
	d.ledger.EXPECT().ReserveForWithdrawal(ctx, "seller-1", req.Amount, reference).
		Return(nil, nil, apperror.ErrInsufficientFunds())
	d.ledger.EXPECT().RecordFailedWithdrawal(ctx, "seller-1", req.Amount, reference, "insufficient available balance").
		Return(&domain.Transaction{}, nil)

	_, err := d.svc.RequestWithdrawal(ctx, req)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "LED_002", appErr.Code)
}

func TestWithdrawalService_RequestWithdrawal_InFlightDuplicateReturnsExisting(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.WithdrawalRequest{SellerID: "seller-1", Amount: decimal.NewFromInt(40), IdempotencyKey: "k1"}
	reference := "seller-1:wd:k1"

	// Both requests passed the cache and DB checks before either
	// committed; the ledger resolves the race and hands back the
	// winner's transaction. No second gateway submission happens.
	inFlight := &domain.Transaction{ID: uuid.New(), Status: domain.TransactionStatusPending, Reference: reference}

	d.idempCache.EXPECT().Get(ctx, reference).Return(nil, nil)
	d.txRepo.EXPECT().GetByReference(ctx, reference).Return(nil, nil)
	d.walletRepo.EXPECT().GetBySellerID(ctx, "seller-1").Return(withdrawalWallet("seller-1", "bank-1"), nil)
	d.ledger.EXPECT().ReserveForWithdrawal(ctx, "seller-1", req.Amount, reference).Return(nil, inFlight, nil)

	result, err := d.svc.RequestWithdrawal(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, inFlight.ID, result.ID)
	assert.Equal(t, domain.TransactionStatusPending, result.Status)
}

func TestWithdrawalService_RequestWithdrawal_IdempotentReplayFromCache(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.WithdrawalRequest{SellerID: "seller-1", Amount: decimal.NewFromInt(40), IdempotencyKey: "k6"}
	reference := "seller-1:wd:k6"

	cached := &domain.Transaction{ID: uuid.New(), Status: domain.TransactionStatusSucceeded}
	cachedJSON, err := json.Marshal(cached)
	require.NoError(t, err)

	d.idempCache.EXPECT().Get(ctx, reference).Return(cachedJSON, nil)

	result, err := d.svc.RequestWithdrawal(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, cached.ID, result.ID)
}

func TestWithdrawalService_RequestWithdrawal_IdempotentReplayFromDB(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.WithdrawalRequest{SellerID: "seller-1", Amount: decimal.NewFromInt(40), IdempotencyKey: "k7"}
	reference := "seller-1:wd:k7"

	existing := &domain.Transaction{ID: uuid.New(), Status: domain.TransactionStatusPending, Reference: reference}

	d.idempCache.EXPECT().Get(ctx, reference).Return(nil, nil)
	d.txRepo.EXPECT().GetByReference(ctx, reference).Return(existing, nil)

	result, err := d.svc.RequestWithdrawal(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, result.ID)
	assert.Equal(t, domain.TransactionStatusPending, result.Status)
}

func TestWithdrawalService_ResolvePayout_Succeeded(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	reference := "seller-1:wd:k8"
	txnID := uuid.New()
	resID := uuid.New()

	pending := &domain.Transaction{ID: txnID, Type: domain.TransactionTypeWithdrawal, Status: domain.TransactionStatusPending, Reference: reference}
	final := &domain.Transaction{ID: txnID, Type: domain.TransactionTypeWithdrawal, Status: domain.TransactionStatusSucceeded, Reference: reference}

	d.txRepo.EXPECT().GetByReference(ctx, reference).Return(pending, nil)
	d.resRepo.EXPECT().GetByTransactionID(ctx, txnID).Return(&domain.Reservation{ID: resID, TransactionID: txnID}, nil)
	d.ledger.EXPECT().ConfirmWithdrawal(ctx, resID).Return(final, nil)
	d.idempCache.EXPECT().Set(ctx, reference, gomock.Any(), idempotencyTTL).Return(nil)

	result, err := d.svc.ResolvePayout(ctx, reference, true, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSucceeded, result.Status)
}

func TestWithdrawalService_ResolvePayout_DuplicateDeliveryIsNoop(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	reference := "seller-1:wd:k9"
	terminal := &domain.Transaction{
		ID:        uuid.New(),
		Type:      domain.TransactionTypeWithdrawal,
		Status:    domain.TransactionStatusSucceeded,
		Reference: reference,
	}

	d.txRepo.EXPECT().GetByReference(ctx, reference).Return(terminal, nil)

	result, err := d.svc.ResolvePayout(ctx, reference, true, "")
	require.NoError(t, err)
	assert.Equal(t, terminal.ID, result.ID)
}

func TestWithdrawalService_ResolvePayout_UnknownReference(t *testing.T) {
	d := setupWithdrawalService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.txRepo.EXPECT().GetByReference(ctx, "missing").Return(nil, nil)

	_, err := d.svc.ResolvePayout(ctx, "missing", true, "")
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "WD_002", appErr.Code)
}
