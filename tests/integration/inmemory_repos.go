package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"seller-wallet-service/internal/core/domain"
	"seller-wallet-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// The in-memory repos emulate the PostgreSQL layer closely enough for the
// services to run unmodified: duplicate references surface as SQLSTATE
// 23505, and the transactor serializes transactions with a global lock so
// the FOR UPDATE semantics the ledger relies on actually hold here.

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[string]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) GetBySellerID(ctx context.Context, sellerID string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[sellerID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) CreateIfAbsent(ctx context.Context, tx pgx.Tx, sellerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[sellerID]; ok {
		return nil
	}
	now := time.Now().UTC()
	r.wallets[sellerID] = &domain.Wallet{
		SellerID:         sellerID,
		AvailableBalance: decimal.Zero,
		PendingBalance:   decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return nil
}

func (r *inMemoryWalletRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, sellerID string) (*domain.Wallet, error) {
	return r.GetBySellerID(ctx, sellerID)
}

func (r *inMemoryWalletRepo) UpdateBalances(ctx context.Context, tx pgx.Tx, sellerID string, available, pending decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[sellerID]
	if !ok {
		return fmt.Errorf("wallet not found: %s", sellerID)
	}
	w.AvailableBalance = available
	w.PendingBalance = pending
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryWalletRepo) SetPayoutAccount(ctx context.Context, sellerID, account string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[sellerID]
	if !ok {
		now := time.Now().UTC()
		w = &domain.Wallet{
			SellerID:         sellerID,
			AvailableBalance: decimal.Zero,
			PendingBalance:   decimal.Zero,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		r.wallets[sellerID] = w
	}
	w.PayoutAccount = &account
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Fee Account Repo ---

type inMemoryFeeAccountRepo struct {
	mu      sync.RWMutex
	account domain.FeeAccount
}

func newInMemoryFeeAccountRepo() *inMemoryFeeAccountRepo {
	return &inMemoryFeeAccountRepo{account: domain.FeeAccount{
		Balance:   decimal.Zero,
		UpdatedAt: time.Now().UTC(),
	}}
}

func (r *inMemoryFeeAccountRepo) Get(ctx context.Context) (*domain.FeeAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := r.account
	return &cp, nil
}

func (r *inMemoryFeeAccountRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.FeeAccount, error) {
	return r.Get(ctx)
}

func (r *inMemoryFeeAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.account.Balance = balance
	r.account.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Accrual Repo ---

type inMemoryAccrualRepo struct {
	mu       sync.RWMutex
	accruals map[uuid.UUID]*domain.PendingAccrual
	byRef    map[string]uuid.UUID
}

func newInMemoryAccrualRepo() *inMemoryAccrualRepo {
	return &inMemoryAccrualRepo{
		accruals: make(map[uuid.UUID]*domain.PendingAccrual),
		byRef:    make(map[string]uuid.UUID),
	}
}

func (r *inMemoryAccrualRepo) Create(ctx context.Context, tx pgx.Tx, accrual *domain.PendingAccrual) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byRef[accrual.Reference]; ok {
		return false, nil
	}
	cp := *accrual
	r.accruals[cp.ID] = &cp
	r.byRef[cp.Reference] = cp.ID
	return true, nil
}

func (r *inMemoryAccrualRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingAccrual, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accruals[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccrualRepo) GetByReference(ctx context.Context, reference string) (*domain.PendingAccrual, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byRef[reference]
	if !ok {
		return nil, nil
	}
	cp := *r.accruals[id]
	return &cp, nil
}

func (r *inMemoryAccrualRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PendingAccrual, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryAccrualRepo) MarkMatured(ctx context.Context, tx pgx.Tx, id uuid.UUID, maturedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accruals[id]
	if !ok {
		return fmt.Errorf("accrual not found: %s", id)
	}
	a.Status = domain.AccrualStatusMatured
	a.MaturedAt = &maturedAt
	return nil
}

func (r *inMemoryAccrualRepo) MarkReversed(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accruals[id]
	if !ok {
		return fmt.Errorf("accrual not found: %s", id)
	}
	a.Status = domain.AccrualStatusReversed
	return nil
}

func (r *inMemoryAccrualRepo) ListDue(ctx context.Context, asOf time.Time, limit int) ([]domain.PendingAccrual, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var due []domain.PendingAccrual
	for _, a := range r.accruals {
		if a.Status == domain.AccrualStatusPending && !a.MaturesAt.After(asOf) {
			due = append(due, *a)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].MaturesAt.Before(due[j].MaturesAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
	byRef        map[string]uuid.UUID
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{
		transactions: make(map[uuid.UUID]*domain.Transaction),
		byRef:        make(map[string]uuid.UUID),
	}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byRef[t.Reference]; ok {
		return uniqueViolation("transactions_reference_key")
	}
	cp := *t
	r.transactions[cp.ID] = &cp
	r.byRef[cp.Reference] = cp.ID
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryTransactionRepo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byRef[reference]
	if !ok {
		return nil, nil
	}
	cp := *r.transactions[id]
	return &cp, nil
}

func (r *inMemoryTransactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus, failureReason *string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok {
		return fmt.Errorf("transaction not found: %s", id)
	}
	t.Status = status
	t.FailureReason = failureReason
	t.CompletedAt = &completedAt
	return nil
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if t.SellerID != params.SellerID {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		if params.From != nil && t.CreatedAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && t.CreatedAt.Unix() > *params.To {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryTransactionRepo) BalanceHistory(ctx context.Context, sellerID string, since time.Time) ([]ports.BalancePoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	buckets := make(map[time.Time]*ports.BalancePoint)
	for _, t := range r.transactions {
		if t.SellerID != sellerID || t.Status != domain.TransactionStatusSucceeded || t.CreatedAt.Before(since) {
			continue
		}
		day := t.CreatedAt.UTC().Truncate(24 * time.Hour)
		p, ok := buckets[day]
		if !ok {
			p = &ports.BalancePoint{Day: day, Credited: decimal.Zero, Withdrawn: decimal.Zero}
			buckets[day] = p
		}
		switch t.Type {
		case domain.TransactionTypeSale:
			p.Credited = p.Credited.Add(t.Amount)
		case domain.TransactionTypeWithdrawal:
			p.Withdrawn = p.Withdrawn.Add(t.Amount)
		}
	}

	points := make([]ports.BalancePoint, 0, len(buckets))
	for _, p := range buckets {
		p.Net = p.Credited.Sub(p.Withdrawn)
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day.Before(points[j].Day) })
	return points, nil
}

func (r *inMemoryTransactionRepo) ListStalePendingWithdrawals(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stale []domain.Transaction
	for _, t := range r.transactions {
		if t.Type == domain.TransactionTypeWithdrawal && t.Status == domain.TransactionStatusPending && t.CreatedAt.Before(olderThan) {
			stale = append(stale, *t)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })
	if len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

// --- In-Memory Reservation Repo ---

type inMemoryReservationRepo struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]*domain.Reservation
}

func newInMemoryReservationRepo() *inMemoryReservationRepo {
	return &inMemoryReservationRepo{reservations: make(map[uuid.UUID]*domain.Reservation)}
}

func (r *inMemoryReservationRepo) Create(ctx context.Context, tx pgx.Tx, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *res
	r.reservations[cp.ID] = &cp
	return nil
}

func (r *inMemoryReservationRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (r *inMemoryReservationRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.reservations {
		if res.TransactionID == transactionID {
			cp := *res
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryReservationRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return fmt.Errorf("reservation not found: %s", id)
	}
	res.Status = status
	res.UpdatedAt = time.Now().UTC()
	return nil
}

// --- Serializing Transactor ---

// serialTransactor hands out transactions guarded by one global mutex, so
// concurrent ledger operations run one at a time exactly as row locks
// would force them to on a single contended wallet.
type serialTransactor struct {
	mu sync.Mutex
}

func newSerialTransactor() *serialTransactor {
	return &serialTransactor{}
}

func (t *serialTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{mu: &t.mu}, nil
}

// serialTx is a pgx.Tx that releases the transactor lock on Commit or
// Rollback, whichever comes first.
type serialTx struct {
	mu   *sync.Mutex
	once sync.Once
}

func (t *serialTx) release() {
	t.once.Do(t.mu.Unlock)
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.release(); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.release(); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }
