package service

import (
	"context"
	"testing"

	"seller-wallet-service/internal/core/ports"
	"seller-wallet-service/internal/core/ports/mocks"
	"seller-wallet-service/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func queuedSale(id, ref string) ports.QueuedSaleEvent {
	return ports.QueuedSaleEvent{
		ID: id,
		Event: ports.SaleEvent{
			SellerID:       "seller-1",
			GrossAmount:    decimal.NewFromInt(100),
			FeeRate:        decimal.NewFromFloat(0.1),
			OrderReference: ref,
		},
	}
}

func TestSettlementConsumer_AcksSettledEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := mocks.NewMockSaleQueue(ctrl)
	settlement := mocks.NewMockSettlementService(ctrl)
	consumer := NewSettlementConsumer(queue, settlement, zerolog.Nop())
	ctx := context.Background()

	events := []ports.QueuedSaleEvent{queuedSale("1-0", "order-1"), queuedSale("2-0", "order-2")}

	queue.EXPECT().Read(ctx, int64(consumerReadCount)).Return(events, nil)
	settlement.EXPECT().SettleSale(ctx, events[0].Event).Return(nil)
	settlement.EXPECT().SettleSale(ctx, events[1].Event).Return(nil)
	queue.EXPECT().Ack(ctx, "1-0", "2-0").Return(nil)

	consumer.consumeBatch(ctx)
}

func TestSettlementConsumer_LeavesFailedEventsForRedelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := mocks.NewMockSaleQueue(ctrl)
	settlement := mocks.NewMockSettlementService(ctrl)
	consumer := NewSettlementConsumer(queue, settlement, zerolog.Nop())
	ctx := context.Background()

	events := []ports.QueuedSaleEvent{queuedSale("1-0", "order-1"), queuedSale("2-0", "order-2")}

	queue.EXPECT().Read(ctx, int64(consumerReadCount)).Return(events, nil)
	// Transient infrastructure failure: do not ack, redelivery retries it.
	settlement.EXPECT().SettleSale(ctx, events[0].Event).Return(apperror.InternalError(assert.AnError))
	settlement.EXPECT().SettleSale(ctx, events[1].Event).Return(nil)
	queue.EXPECT().Ack(ctx, "2-0").Return(nil)

	consumer.consumeBatch(ctx)
}

func TestSettlementConsumer_DiscardsUnsettleableEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := mocks.NewMockSaleQueue(ctrl)
	settlement := mocks.NewMockSettlementService(ctrl)
	consumer := NewSettlementConsumer(queue, settlement, zerolog.Nop())
	ctx := context.Background()

	events := []ports.QueuedSaleEvent{queuedSale("1-0", "order-1")}

	queue.EXPECT().Read(ctx, int64(consumerReadCount)).Return(events, nil)
	// Validation failure: retrying can never succeed, so it is acked away.
	settlement.EXPECT().SettleSale(ctx, events[0].Event).Return(apperror.ErrInvalidAmount())
	queue.EXPECT().Ack(ctx, "1-0").Return(nil)

	consumer.consumeBatch(ctx)
}

func TestIsPermanentSettlementError(t *testing.T) {
	assert.True(t, isPermanentSettlementError(apperror.ErrInvalidAmount()))
	assert.True(t, isPermanentSettlementError(apperror.Validation("fee_rate must be in [0, 1)")))
	assert.False(t, isPermanentSettlementError(apperror.InternalError(assert.AnError)))
	assert.False(t, isPermanentSettlementError(assert.AnError))
}
