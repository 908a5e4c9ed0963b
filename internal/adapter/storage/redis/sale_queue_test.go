package redis

import (
	"context"
	"testing"
	"time"

	"seller-wallet-service/config"
	"seller-wallet-service/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) *SaleQueue {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	q, err := NewSaleQueue(context.Background(), client, config.QueueConfig{
		Stream:         "sales:completed",
		Group:          "settlement",
		Consumer:       "settlement-test",
		Block:          10 * time.Millisecond,
		ReclaimMinIdle: time.Second,
	})
	require.NoError(t, err)
	return q
}

func testSaleEvent(ref string) ports.SaleEvent {
	return ports.SaleEvent{
		SellerID:       "seller-1",
		GrossAmount:    decimal.NewFromInt(100),
		FeeRate:        decimal.NewFromFloat(0.10),
		OrderReference: ref,
	}
}

func TestSaleQueue_EnqueueAndRead(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, testSaleEvent("order-1")))
	require.NoError(t, q.Enqueue(ctx, testSaleEvent("order-2")))

	events, err := q.Read(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "order-1", events[0].Event.OrderReference)
	assert.Equal(t, "order-2", events[1].Event.OrderReference)
	assert.True(t, events[0].Event.GrossAmount.Equal(decimal.NewFromInt(100)))
}

func TestSaleQueue_RedeliveryUntilAcked(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cfg := config.QueueConfig{
		Stream:         "sales:completed",
		Group:          "settlement",
		Consumer:       "settlement-test",
		Block:          10 * time.Millisecond,
		ReclaimMinIdle: 20 * time.Millisecond,
	}
	q, err := NewSaleQueue(context.Background(), client, cfg)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, testSaleEvent("order-1")))

	events, err := q.Read(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// Not acked and not yet idle: a fresh read returns nothing.
	events2, err := q.Read(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events2)

	// Past the idle threshold the same entry comes back.
	time.Sleep(50 * time.Millisecond)
	events3, err := q.Read(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events3, 1)
	assert.Equal(t, events[0].ID, events3[0].ID)
	assert.Equal(t, "order-1", events3[0].Event.OrderReference)

	// Once acked it stays gone.
	require.NoError(t, q.Ack(ctx, events3[0].ID))
	time.Sleep(50 * time.Millisecond)
	events4, err := q.Read(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events4)
}

func TestSaleQueue_RestartedConsumerReclaimsOwnPending(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cfg := config.QueueConfig{
		Stream:         "sales:completed",
		Group:          "settlement",
		Consumer:       "settlement-1",
		Block:          10 * time.Millisecond,
		ReclaimMinIdle: 20 * time.Millisecond,
	}
	q1, err := NewSaleQueue(context.Background(), client, cfg)
	require.NoError(t, err)
	ctx := context.Background()

	// q1 reads the event and dies before acking it.
	require.NoError(t, q1.Enqueue(ctx, testSaleEvent("order-1")))
	events, err := q1.Read(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// A replacement with the same consumer name picks it up again.
	q2, err := NewSaleQueue(context.Background(), client, cfg)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	redelivered, err := q2.Read(ctx, 10)
	require.NoError(t, err)
	require.Len(t, redelivered, 1)
	assert.Equal(t, "order-1", redelivered[0].Event.OrderReference)
}

func TestSaleQueue_AckEmpty(t *testing.T) {
	q := newTestQueue(t)

	// Ack with no IDs is a no-op.
	assert.NoError(t, q.Ack(context.Background()))
}

func TestSaleQueue_NewIsIdempotent(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cfg := config.QueueConfig{
		Stream:   "sales:completed",
		Group:    "settlement",
		Consumer: "c1",
		Block:    10 * time.Millisecond,
	}

	_, err := NewSaleQueue(context.Background(), client, cfg)
	require.NoError(t, err)

	// Second construction hits BUSYGROUP and tolerates it.
	_, err = NewSaleQueue(context.Background(), client, cfg)
	assert.NoError(t, err)
}
