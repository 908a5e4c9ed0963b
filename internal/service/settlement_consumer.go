package service

import (
	"context"
	"errors"

	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// consumerReadCount is how many sale events one read pulls off the queue.
const consumerReadCount = 32

// SettlementConsumer drains the durable sale-event queue and feeds the
// settlement service. An event is acknowledged only after both ledger
// credits are durable; a crash mid-settlement leads to redelivery, and
// the reference-keyed credits absorb the replay.
type SettlementConsumer struct {
	queue      ports.SaleQueue
	settlement ports.SettlementService
	stop       chan struct{}
	log        zerolog.Logger
}

// NewSettlementConsumer creates a new SettlementConsumer.
func NewSettlementConsumer(queue ports.SaleQueue, settlement ports.SettlementService, log zerolog.Logger) *SettlementConsumer {
	return &SettlementConsumer{
		queue:      queue,
		settlement: settlement,
		stop:       make(chan struct{}),
		log:        log,
	}
}

// Start runs the consume loop until the context is cancelled or Stop is
// called. Blocking; run it in its own goroutine.
func (c *SettlementConsumer) Start(ctx context.Context) {
	c.log.Info().Msg("settlement consumer started")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("settlement consumer stopped (context cancelled)")
			return
		case <-c.stop:
			c.log.Info().Msg("settlement consumer stopped")
			return
		default:
			c.consumeBatch(ctx)
		}
	}
}

// Stop signals the consume loop to exit.
func (c *SettlementConsumer) Stop() {
	close(c.stop)
}

func (c *SettlementConsumer) consumeBatch(ctx context.Context) {
	events, err := c.queue.Read(ctx, consumerReadCount)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.log.Error().Err(err).Msg("consumer: reading sale events failed")
		return
	}

	var acked []string
	for _, qe := range events {
		if err := c.settlement.SettleSale(ctx, qe.Event); err != nil {
			if isPermanentSettlementError(err) {
				// Malformed event: settling will never succeed, so ack it
				// away instead of poisoning the group.
				c.log.Error().Err(err).
					Str("order_reference", qe.Event.OrderReference).
					Msg("consumer: discarding unsettleable event")
				acked = append(acked, qe.ID)
				continue
			}
			// Transient failure: leave unacked for redelivery.
			c.log.Warn().Err(err).
				Str("order_reference", qe.Event.OrderReference).
				Msg("consumer: settlement failed, event will be redelivered")
			continue
		}
		acked = append(acked, qe.ID)
	}

	if len(acked) > 0 {
		if err := c.queue.Ack(ctx, acked...); err != nil {
			c.log.Error().Err(err).Msg("consumer: acking sale events failed")
		}
	}
}

// isPermanentSettlementError reports whether retrying the event can
// never succeed (validation failures, as opposed to infrastructure ones).
func isPermanentSettlementError(err error) bool {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case "LED_001":
		return true
	default:
		return false
	}
}
