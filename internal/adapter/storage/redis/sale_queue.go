package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"seller-wallet-service/config"
	"seller-wallet-service/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// eventField is the stream entry field carrying the serialized sale event.
const eventField = "event"

// SaleQueue implements ports.SaleQueue on a Redis stream with a consumer
// group. Entries stay pending until XACKed; Read reclaims entries that
// have sat unacked past the min-idle threshold, so a consumer crash or a
// failed settlement leads to redelivery rather than loss.
type SaleQueue struct {
	client   *goredis.Client
	stream   string
	group    string
	consumer string
	block    time.Duration
	minIdle  time.Duration
}

// NewSaleQueue creates the stream's consumer group (if missing) and
// returns a queue bound to it.
func NewSaleQueue(ctx context.Context, client *goredis.Client, cfg config.QueueConfig) (*SaleQueue, error) {
	err := client.XGroupCreateMkStream(ctx, cfg.Stream, cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &SaleQueue{
		client:   client,
		stream:   cfg.Stream,
		group:    cfg.Group,
		consumer: cfg.Consumer,
		block:    cfg.Block,
		minIdle:  cfg.ReclaimMinIdle,
	}, nil
}

// Enqueue appends a sale event to the stream.
func (q *SaleQueue) Enqueue(ctx context.Context, evt ports.SaleEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal sale event: %w", err)
	}

	err = q.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{eventField: payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("enqueue sale event: %w", err)
	}
	return nil
}

// Read returns at most count unacknowledged events. It first claims
// entries idle in the group's pending list past the min-idle threshold
// (delivered but never acked: a crashed consumer, or a settlement that
// failed), then blocks up to the configured duration for new entries.
// Returns an empty slice on timeout.
func (q *SaleQueue) Read(ctx context.Context, count int64) ([]ports.QueuedSaleEvent, error) {
	claimed, _, err := q.client.XAutoClaim(ctx, &goredis.XAutoClaimArgs{
		Stream:   q.stream,
		Group:    q.group,
		Consumer: q.consumer,
		MinIdle:  q.minIdle,
		Start:    "0-0",
		Count:    count,
	}).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("reclaim sale events: %w", err)
	}
	if len(claimed) > 0 {
		return q.decode(ctx, claimed), nil
	}

	streams, err := q.client.XReadGroup(ctx, &goredis.XReadGroupArgs{
		Group:    q.group,
		Consumer: q.consumer,
		Streams:  []string{q.stream, ">"},
		Count:    count,
		Block:    q.block,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sale events: %w", err)
	}

	var events []ports.QueuedSaleEvent
	for _, stream := range streams {
		events = append(events, q.decode(ctx, stream.Messages)...)
	}
	return events, nil
}

func (q *SaleQueue) decode(ctx context.Context, msgs []goredis.XMessage) []ports.QueuedSaleEvent {
	var events []ports.QueuedSaleEvent
	for _, msg := range msgs {
		raw, ok := msg.Values[eventField].(string)
		if !ok {
			// Malformed entry: ack it away so it does not wedge the group.
			_ = q.client.XAck(ctx, q.stream, q.group, msg.ID).Err()
			continue
		}
		var evt ports.SaleEvent
		if err := json.Unmarshal([]byte(raw), &evt); err != nil {
			_ = q.client.XAck(ctx, q.stream, q.group, msg.ID).Err()
			continue
		}
		events = append(events, ports.QueuedSaleEvent{ID: msg.ID, Event: evt})
	}
	return events
}

// Ack marks events as fully settled so they are not redelivered.
func (q *SaleQueue) Ack(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := q.client.XAck(ctx, q.stream, q.group, ids...).Err(); err != nil {
		return fmt.Errorf("ack sale events: %w", err)
	}
	return nil
}
