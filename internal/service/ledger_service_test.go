package service

import (
	"context"
	"testing"
	"time"

	"seller-wallet-service/internal/core/domain"
	"seller-wallet-service/internal/core/ports/mocks"
	"seller-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type ledgerTestDeps struct {
	svc         *LedgerServiceImpl
	walletRepo  *mocks.MockWalletRepository
	feeRepo     *mocks.MockFeeAccountRepository
	accrualRepo *mocks.MockAccrualRepository
	txRepo      *mocks.MockTransactionRepository
	resRepo     *mocks.MockReservationRepository
	transactor  *mocks.MockDBTransactor
	ctrl        *gomock.Controller
}

func setupLedgerService(t *testing.T) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		walletRepo:  mocks.NewMockWalletRepository(ctrl),
		feeRepo:     mocks.NewMockFeeAccountRepository(ctrl),
		accrualRepo: mocks.NewMockAccrualRepository(ctrl),
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		resRepo:     mocks.NewMockReservationRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewLedgerService(
		d.walletRepo, d.feeRepo, d.accrualRepo, d.txRepo, d.resRepo,
		d.transactor, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func testWallet(sellerID string, available, pending int64) *domain.Wallet {
	return &domain.Wallet{
		SellerID:         sellerID,
		AvailableBalance: decimal.NewFromInt(available),
		PendingBalance:   decimal.NewFromInt(pending),
	}
}

// ==================== CreditPending Tests ====================

func TestLedgerService_CreditPending_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	amount := decimal.NewFromInt(90)
	maturesAt := time.Now().UTC().Add(168 * time.Hour)

	d.accrualRepo.EXPECT().GetByReference(ctx, "order-1:seller").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().CreateIfAbsent(ctx, tx, "seller-1").Return(nil)
	d.walletRepo.EXPECT().GetForUpdate(ctx, tx, "seller-1").Return(testWallet("seller-1", 0, 10), nil)
	d.accrualRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(true, nil)
	d.walletRepo.EXPECT().UpdateBalances(ctx, tx, "seller-1",
		decimal.NewFromInt(0), decimal.NewFromInt(100)).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	id, err := d.svc.CreditPending(ctx, "seller-1", amount, "order-1:seller", maturesAt)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestLedgerService_CreditPending_ReplayReturnsExisting(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	existing := &domain.PendingAccrual{ID: uuid.New(), Reference: "order-1:seller"}

	d.accrualRepo.EXPECT().GetByReference(ctx, "order-1:seller").Return(existing, nil)

	id, err := d.svc.CreditPending(ctx, "seller-1", decimal.NewFromInt(90), "order-1:seller", time.Now())
	require.NoError(t, err)
	assert.Equal(t, existing.ID, id)
}

func TestLedgerService_CreditPending_RaceLostToReplay(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	winner := &domain.PendingAccrual{ID: uuid.New(), Reference: "order-1:seller"}

	d.accrualRepo.EXPECT().GetByReference(ctx, "order-1:seller").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().CreateIfAbsent(ctx, tx, "seller-1").Return(nil)
	d.walletRepo.EXPECT().GetForUpdate(ctx, tx, "seller-1").Return(testWallet("seller-1", 0, 0), nil)
	// ON CONFLICT DO NOTHING fires: the concurrent replay already inserted.
	d.accrualRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(false, nil)
	d.accrualRepo.EXPECT().GetByReference(ctx, "order-1:seller").Return(winner, nil)

	id, err := d.svc.CreditPending(ctx, "seller-1", decimal.NewFromInt(90), "order-1:seller", time.Now())
	require.NoError(t, err)
	assert.Equal(t, winner.ID, id)
}

func TestLedgerService_CreditPending_InvalidAmount(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.CreditPending(context.Background(), "seller-1", decimal.Zero, "ref", time.Now())
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "LED_001", appErr.Code)
}

// ==================== CreditAdminFee Tests ====================

func TestLedgerService_CreditAdminFee_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.txRepo.EXPECT().GetByReference(ctx, "order-1:fee").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.feeRepo.EXPECT().GetForUpdate(ctx, tx).Return(&domain.FeeAccount{Balance: decimal.NewFromInt(5)}, nil)
	d.feeRepo.EXPECT().UpdateBalance(ctx, tx, decimal.NewFromInt(15)).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	err := d.svc.CreditAdminFee(ctx, decimal.NewFromInt(10), "order-1:fee")
	assert.NoError(t, err)
}

func TestLedgerService_CreditAdminFee_ReplayIsNoop(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	existing := &domain.Transaction{ID: uuid.New(), Reference: "order-1:fee"}

	d.txRepo.EXPECT().GetByReference(ctx, "order-1:fee").Return(existing, nil)

	err := d.svc.CreditAdminFee(ctx, decimal.NewFromInt(10), "order-1:fee")
	assert.NoError(t, err)
}

func TestLedgerService_CreditAdminFee_ZeroIsNoop(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	err := d.svc.CreditAdminFee(context.Background(), decimal.Zero, "order-1:fee")
	assert.NoError(t, err)
}

// ==================== Mature Tests ====================

func TestLedgerService_Mature_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	accrualID := uuid.New()
	accrual := &domain.PendingAccrual{
		ID:        accrualID,
		SellerID:  "seller-1",
		Amount:    decimal.NewFromInt(90),
		Status:    domain.AccrualStatusPending,
		MaturesAt: time.Now().UTC().Add(-time.Hour),
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accrualRepo.EXPECT().GetByIDForUpdate(ctx, tx, accrualID).Return(accrual, nil)
	d.walletRepo.EXPECT().GetForUpdate(ctx, tx, "seller-1").Return(testWallet("seller-1", 10, 90), nil)
	d.walletRepo.EXPECT().UpdateBalances(ctx, tx, "seller-1",
		decimal.NewFromInt(100), decEq("0")).Return(nil)
	d.accrualRepo.EXPECT().MarkMatured(ctx, tx, accrualID, gomock.Any()).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	matured, err := d.svc.Mature(ctx, accrualID)
	require.NoError(t, err)
	assert.True(t, matured)
}

func TestLedgerService_Mature_AlreadyMaturedIsNoop(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	accrualID := uuid.New()
	accrual := &domain.PendingAccrual{
		ID:        accrualID,
		SellerID:  "seller-1",
		Amount:    decimal.NewFromInt(90),
		Status:    domain.AccrualStatusMatured,
		MaturesAt: time.Now().UTC().Add(-time.Hour),
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accrualRepo.EXPECT().GetByIDForUpdate(ctx, tx, accrualID).Return(accrual, nil)

	matured, err := d.svc.Mature(ctx, accrualID)
	require.NoError(t, err)
	assert.False(t, matured)
}

func TestLedgerService_Mature_NotYetDueIsNoop(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	accrualID := uuid.New()
	accrual := &domain.PendingAccrual{
		ID:        accrualID,
		SellerID:  "seller-1",
		Amount:    decimal.NewFromInt(90),
		Status:    domain.AccrualStatusPending,
		MaturesAt: time.Now().UTC().Add(time.Hour),
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accrualRepo.EXPECT().GetByIDForUpdate(ctx, tx, accrualID).Return(accrual, nil)

	matured, err := d.svc.Mature(ctx, accrualID)
	require.NoError(t, err)
	assert.False(t, matured)
}

func TestLedgerService_Mature_NotFound(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	accrualID := uuid.New()

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accrualRepo.EXPECT().GetByIDForUpdate(ctx, tx, accrualID).Return(nil, nil)

	_, err := d.svc.Mature(ctx, accrualID)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "LED_003", appErr.Code)
}

// ==================== ReverseAccrual Tests ====================

func TestLedgerService_ReverseAccrual_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	accrualID := uuid.New()
	accrual := &domain.PendingAccrual{
		ID:       accrualID,
		SellerID: "seller-1",
		Amount:   decimal.NewFromInt(40),
		Status:   domain.AccrualStatusPending,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accrualRepo.EXPECT().GetByIDForUpdate(ctx, tx, accrualID).Return(accrual, nil)
	d.walletRepo.EXPECT().GetForUpdate(ctx, tx, "seller-1").Return(testWallet("seller-1", 0, 40), nil)
	d.walletRepo.EXPECT().UpdateBalances(ctx, tx, "seller-1",
		decimal.NewFromInt(0), decEq("0")).Return(nil)
	d.accrualRepo.EXPECT().MarkReversed(ctx, tx, accrualID).Return(nil)

	reversed, err := d.svc.ReverseAccrual(ctx, accrualID)
	require.NoError(t, err)
	assert.True(t, reversed)
}

func TestLedgerService_ReverseAccrual_AlreadyMatured(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	accrualID := uuid.New()
	accrual := &domain.PendingAccrual{
		ID:     accrualID,
		Status: domain.AccrualStatusMatured,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accrualRepo.EXPECT().GetByIDForUpdate(ctx, tx, accrualID).Return(accrual, nil)

	reversed, err := d.svc.ReverseAccrual(ctx, accrualID)
	require.NoError(t, err)
	assert.False(t, reversed)
}

// ==================== ReserveForWithdrawal Tests ====================

func TestLedgerService_ReserveForWithdrawal_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetForUpdate(ctx, tx, "seller-1").Return(testWallet("seller-1", 100, 0), nil)
	d.txRepo.EXPECT().GetByReference(ctx, "seller-1:wd:k1").Return(nil, nil)
	d.walletRepo.EXPECT().UpdateBalances(ctx, tx, "seller-1",
		decimal.NewFromInt(60), decimal.NewFromInt(0)).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.resRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	res, txn, err := d.svc.ReserveForWithdrawal(ctx, "seller-1", decimal.NewFromInt(40), "seller-1:wd:k1")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, txn)
	assert.Equal(t, domain.ReservationStatusHeld, res.Status)
	assert.Equal(t, domain.TransactionStatusPending, txn.Status)
	assert.Equal(t, txn.ID, res.TransactionID)
}

func TestLedgerService_ReserveForWithdrawal_ConcurrentDuplicateResolvesToWinner(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	// A request with the same reference committed while this one waited
	// on the wallet lock: no debit, no new rows, just the winner back.
	winner := &domain.Transaction{
		ID:        uuid.New(),
		SellerID:  "seller-1",
		Type:      domain.TransactionTypeWithdrawal,
		Amount:    decimal.NewFromInt(40),
		Reference: "seller-1:wd:k1",
		Status:    domain.TransactionStatusPending,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetForUpdate(ctx, tx, "seller-1").Return(testWallet("seller-1", 100, 0), nil)
	d.txRepo.EXPECT().GetByReference(ctx, "seller-1:wd:k1").Return(winner, nil)

	res, txn, err := d.svc.ReserveForWithdrawal(ctx, "seller-1", decimal.NewFromInt(40), "seller-1:wd:k1")
	require.NoError(t, err)
	assert.Nil(t, res)
	require.NotNil(t, txn)
	assert.Equal(t, winner.ID, txn.ID)
}

func TestLedgerService_ReserveForWithdrawal_InsufficientFunds(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetForUpdate(ctx, tx, "seller-1").Return(testWallet("seller-1", 30, 500), nil)
	d.txRepo.EXPECT().GetByReference(ctx, "seller-1:wd:k1").Return(nil, nil)

	_, _, err := d.svc.ReserveForWithdrawal(ctx, "seller-1", decimal.NewFromInt(40), "seller-1:wd:k1")
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "LED_002", appErr.Code, "pending balance must not back a withdrawal")
}

// ==================== Confirm / Release Tests ====================

func TestLedgerService_ConfirmWithdrawal_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	resID := uuid.New()
	txnID := uuid.New()
	res := &domain.Reservation{
		ID:            resID,
		SellerID:      "seller-1",
		Amount:        decimal.NewFromInt(40),
		Status:        domain.ReservationStatusHeld,
		TransactionID: txnID,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.resRepo.EXPECT().GetByIDForUpdate(ctx, tx, resID).Return(res, nil)
	d.resRepo.EXPECT().UpdateStatus(ctx, tx, resID, domain.ReservationStatusConfirmed).Return(nil)
	d.txRepo.EXPECT().UpdateStatus(ctx, tx, txnID, domain.TransactionStatusSucceeded, nil, gomock.Any()).Return(nil)
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{
		ID:     txnID,
		Status: domain.TransactionStatusSucceeded,
	}, nil)

	final, err := d.svc.ConfirmWithdrawal(ctx, resID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSucceeded, final.Status)
}

func TestLedgerService_ReleaseReservation_RestoresBalance(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	resID := uuid.New()
	txnID := uuid.New()
	res := &domain.Reservation{
		ID:            resID,
		SellerID:      "seller-1",
		Amount:        decimal.NewFromInt(40),
		Status:        domain.ReservationStatusHeld,
		TransactionID: txnID,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.resRepo.EXPECT().GetByIDForUpdate(ctx, tx, resID).Return(res, nil)
	d.walletRepo.EXPECT().GetForUpdate(ctx, tx, "seller-1").Return(testWallet("seller-1", 60, 0), nil)
	d.walletRepo.EXPECT().UpdateBalances(ctx, tx, "seller-1",
		decimal.NewFromInt(100), decimal.NewFromInt(0)).Return(nil)
	d.resRepo.EXPECT().UpdateStatus(ctx, tx, resID, domain.ReservationStatusReleased).Return(nil)
	d.txRepo.EXPECT().UpdateStatus(ctx, tx, txnID, domain.TransactionStatusFailed, gomock.Any(), gomock.Any()).Return(nil)
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{
		ID:     txnID,
		Status: domain.TransactionStatusFailed,
	}, nil)

	final, err := d.svc.ReleaseReservation(ctx, resID, "gateway rejected")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, final.Status)
}

func TestLedgerService_FinalizeTwiceIsNoop(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	resID := uuid.New()
	txnID := uuid.New()
	res := &domain.Reservation{
		ID:            resID,
		Status:        domain.ReservationStatusConfirmed,
		TransactionID: txnID,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.resRepo.EXPECT().GetByIDForUpdate(ctx, tx, resID).Return(res, nil)
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{
		ID:     txnID,
		Status: domain.TransactionStatusSucceeded,
	}, nil)

	final, err := d.svc.ConfirmWithdrawal(ctx, resID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSucceeded, final.Status)
}

// ==================== RecordFailedWithdrawal Tests ====================

func TestLedgerService_RecordFailedWithdrawal(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.txRepo.EXPECT().GetByReference(ctx, "seller-1:wd:k1:failed").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	txn, err := d.svc.RecordFailedWithdrawal(ctx, "seller-1", decimal.NewFromInt(40), "seller-1:wd:k1", "no payout account configured")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeWithdrawalFailed, txn.Type)
	assert.Equal(t, domain.TransactionStatusFailed, txn.Status)
	require.NotNil(t, txn.FailureReason)
	assert.Equal(t, "no payout account configured", *txn.FailureReason)
}
