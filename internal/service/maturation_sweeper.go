package service

import (
	"context"
	"time"

	"seller-wallet-service/config"
	"seller-wallet-service/internal/core/ports"

	"github.com/rs/zerolog"
)

// MaturationSweeper periodically scans for pending accruals whose hold
// period has elapsed and matures them. Every accrual is matured through
// the ledger store's at-most-once transition, so overlapping sweeps and
// concurrent instances cannot double-credit.
type MaturationSweeper struct {
	ledger      ports.LedgerStore
	accrualRepo ports.AccrualRepository
	interval    time.Duration
	batchSize   int
	stop        chan struct{}
	log         zerolog.Logger
}

// NewMaturationSweeper creates a new MaturationSweeper.
func NewMaturationSweeper(ledger ports.LedgerStore, accrualRepo ports.AccrualRepository, cfg config.SettlementConfig, log zerolog.Logger) *MaturationSweeper {
	return &MaturationSweeper{
		ledger:      ledger,
		accrualRepo: accrualRepo,
		interval:    cfg.SweepInterval,
		batchSize:   cfg.SweepBatchSize,
		stop:        make(chan struct{}),
		log:         log,
	}
}

// Start runs the sweep loop until the context is cancelled or Stop is
// called. Blocking; run it in its own goroutine.
func (s *MaturationSweeper) Start(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("maturation sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("maturation sweeper stopped (context cancelled)")
			return
		case <-s.stop:
			s.log.Info().Msg("maturation sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Stop signals the sweep loop to exit.
func (s *MaturationSweeper) Stop() {
	close(s.stop)
}

// Sweep matures one batch of due accruals. Returns how many matured.
func (s *MaturationSweeper) Sweep(ctx context.Context) int {
	due, err := s.accrualRepo.ListDue(ctx, time.Now().UTC(), s.batchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep: listing due accruals failed")
		return 0
	}
	if len(due) == 0 {
		return 0
	}

	matured := 0
	for _, accrual := range due {
		ok, err := s.ledger.Mature(ctx, accrual.ID)
		if err != nil {
			s.log.Error().Err(err).Str("accrual_id", accrual.ID.String()).Msg("sweep: maturation failed")
			continue
		}
		if ok {
			matured++
		}
	}

	s.log.Info().Int("due", len(due)).Int("matured", matured).Msg("maturation sweep completed")
	return matured
}
