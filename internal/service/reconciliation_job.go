package service

import (
	"context"
	"time"

	"seller-wallet-service/config"
	"seller-wallet-service/internal/core/ports"

	"github.com/rs/zerolog"
)

// ReconciliationJob resolves withdrawals stuck PENDING after an
// ambiguous gateway outcome (timeout, crash between submit and confirm,
// lost callback). It polls the gateway for each stale withdrawal and
// applies the definitive answer through the withdrawal service.
type ReconciliationJob struct {
	txRepo     ports.TransactionRepository
	gateway    ports.PayoutGateway
	withdrawal ports.WithdrawalService
	interval   time.Duration
	minAge     time.Duration
	batchSize  int
	stop       chan struct{}
	log        zerolog.Logger
}

// NewReconciliationJob creates a new ReconciliationJob.
func NewReconciliationJob(
	txRepo ports.TransactionRepository,
	gateway ports.PayoutGateway,
	withdrawal ports.WithdrawalService,
	cfg config.GatewayConfig,
	log zerolog.Logger,
) *ReconciliationJob {
	return &ReconciliationJob{
		txRepo:     txRepo,
		gateway:    gateway,
		withdrawal: withdrawal,
		interval:   cfg.ReconcileInterval,
		minAge:     cfg.ReconcileMinAge,
		batchSize:  cfg.ReconcileBatchSize,
		stop:       make(chan struct{}),
		log:        log,
	}
}

// Start runs the reconcile loop until the context is cancelled or Stop
// is called. Blocking; run it in its own goroutine.
func (j *ReconciliationJob) Start(ctx context.Context) {
	j.log.Info().Dur("interval", j.interval).Msg("withdrawal reconciliation started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("withdrawal reconciliation stopped (context cancelled)")
			return
		case <-j.stop:
			j.log.Info().Msg("withdrawal reconciliation stopped")
			return
		case <-ticker.C:
			j.Reconcile(ctx)
		}
	}
}

// Stop signals the reconcile loop to exit.
func (j *ReconciliationJob) Stop() {
	close(j.stop)
}

// Reconcile resolves one batch of stale pending withdrawals. Returns
// how many reached a terminal state. The minimum age keeps it from
// racing in-flight submissions.
func (j *ReconciliationJob) Reconcile(ctx context.Context) int {
	cutoff := time.Now().UTC().Add(-j.minAge)
	stale, err := j.txRepo.ListStalePendingWithdrawals(ctx, cutoff, j.batchSize)
	if err != nil {
		j.log.Error().Err(err).Msg("reconcile: listing stale withdrawals failed")
		return 0
	}
	if len(stale) == 0 {
		return 0
	}

	resolved := 0
	for _, txn := range stale {
		result, err := j.gateway.GetStatus(ctx, txn.Reference)
		if err != nil {
			j.log.Warn().Err(err).Str("reference", txn.Reference).Msg("reconcile: status poll failed")
			continue
		}

		switch result.Status {
		case ports.PayoutStatusSucceeded:
			if _, err := j.withdrawal.ResolvePayout(ctx, txn.Reference, true, ""); err != nil {
				j.log.Error().Err(err).Str("reference", txn.Reference).Msg("reconcile: confirm failed")
				continue
			}
			resolved++
		case ports.PayoutStatusRejected:
			if _, err := j.withdrawal.ResolvePayout(ctx, txn.Reference, false, result.Reason); err != nil {
				j.log.Error().Err(err).Str("reference", txn.Reference).Msg("reconcile: release failed")
				continue
			}
			resolved++
		case ports.PayoutStatusUnknown:
			// The provider has no record of the reference: the submission
			// never arrived. Past the minimum age it cannot still be in
			// flight, so release the hold.
			if _, err := j.withdrawal.ResolvePayout(ctx, txn.Reference, false, "payout never received by gateway"); err != nil {
				j.log.Error().Err(err).Str("reference", txn.Reference).Msg("reconcile: release failed")
				continue
			}
			resolved++
		default:
			// Still PENDING at the provider; check again next round.
		}
	}

	j.log.Info().Int("stale", len(stale)).Int("resolved", resolved).Msg("withdrawal reconciliation completed")
	return resolved
}
