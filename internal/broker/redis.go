package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"
)

const (
	deliveryModeKey        = "delivery_mode"
	deliveryModePersistent = "2"
	deliveryModeTransient  = "1"
)

// RedisBroker implements Broker with one Redis Stream per queue and one consumer group per
// stream. Bindings live in a hash per exchange so publishers and consumers in different
// processes share the routing table.
type RedisBroker struct {
	client rueidis.Client

	batchSize     int64
	block         time.Duration
	claimMinIdle  time.Duration
	claimInterval time.Duration
	bindingTTL    time.Duration
}

// NewRedisBroker creates a broker on an existing Redis client.
func NewRedisBroker(client rueidis.Client, opts ...Option) *RedisBroker {
	b := &RedisBroker{
		client:        client,
		batchSize:     defaultBatchSize,
		block:         defaultBlock,
		claimMinIdle:  defaultClaimMinIdle,
		claimInterval: defaultClaimInterval,
		bindingTTL:    defaultBindingTTL,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// StreamKey returns the Redis key of a queue's stream.
func StreamKey(exchange, queue string) string {
	return exchange + ":" + queue
}

func bindingsKey(exchange string) string {
	return exchange + ":bindings"
}

// DeclareQueue binds queue to exchange with a topic pattern and creates its stream and
// consumer group. Declaring an existing queue is a no-op apart from updating its pattern.
func (b *RedisBroker) DeclareQueue(ctx context.Context, exchange, queue, pattern string) error {
	bindCmd := b.client.B().Hset().Key(bindingsKey(exchange)).FieldValue().FieldValue(queue, pattern).Build()
	if err := b.client.Do(ctx, bindCmd).Error(); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}

	groupCmd := b.client.B().XgroupCreate().Key(StreamKey(exchange, queue)).Group(queue).Id("0").Mkstream().Build()
	if err := b.client.Do(ctx, groupCmd).Error(); err != nil {
		if strings.Contains(err.Error(), "BUSYGROUP") {
			return nil
		}

		return fmt.Errorf("failed to create consumer group %s: %w", queue, err)
	}

	slog.Info("queue declared",
		slog.String("exchange", exchange),
		slog.String("queue", queue),
		slog.String("pattern", pattern),
	)

	return nil
}

// Publish appends the message to the stream of every queue whose binding matches routingKey.
func (b *RedisBroker) Publish(ctx context.Context, exchange, routingKey string, msg Publishing) error {
	bindings, err := b.client.DoCache(ctx, b.client.B().Hgetall().Key(bindingsKey(exchange)).Cache(), b.bindingTTL).AsStrMap()
	if err != nil {
		return fmt.Errorf("failed to load bindings of %s: %w", exchange, err)
	}

	queues := make([]string, 0, len(bindings))
	for queue, pattern := range bindings {
		if MatchTopic(pattern, routingKey) {
			queues = append(queues, queue)
		}
	}

	if len(queues) == 0 {
		return fmt.Errorf("%w: %s/%s", ErrUnroutable, exchange, routingKey)
	}

	sort.Strings(queues)

	cmds := make(rueidis.Commands, 0, len(queues))
	for _, queue := range queues {
		cmds = append(cmds, b.xadd(StreamKey(exchange, queue), msg))
	}

	for i, result := range b.client.DoMulti(ctx, cmds...) {
		if err := result.Error(); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", queues[i], err)
		}
	}

	slog.Debug("message published",
		slog.String("exchange", exchange),
		slog.String("routing_key", routingKey),
		slog.Any("queues", queues),
	)

	return nil
}

func (b *RedisBroker) xadd(stream string, msg Publishing) rueidis.Completed {
	mode := deliveryModeTransient
	if msg.Persistent {
		mode = deliveryModePersistent
	}

	keys := make([]string, 0, len(msg.Values))
	for k := range msg.Values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	cmd := b.client.B().Xadd().Key(stream).Id("*").FieldValue().FieldValue(deliveryModeKey, mode)
	for _, k := range keys {
		cmd = cmd.FieldValue(k, msg.Values[k])
	}

	return cmd.Build()
}

// Subscribe reads the queue as consumer until ctx is canceled. Entries left pending by a
// failed handler, or by a consumer that died, are claimed again once idle for the claim time.
func (b *RedisBroker) Subscribe(ctx context.Context, exchange, queue, consumer string, handler Handler) error {
	stream := StreamKey(exchange, queue)
	claimTicker := time.NewTicker(b.claimInterval)
	defer claimTicker.Stop()

	slog.Info("starting queue consumer",
		slog.String("stream", stream),
		slog.String("group", queue),
		slog.String("consumer", consumer),
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("consumer stopped", slog.String("consumer", consumer))
			return nil
		case <-claimTicker.C:
			if err := b.claimPending(ctx, stream, queue, consumer, handler); err != nil && ctx.Err() == nil {
				slog.Error("failed to claim pending messages",
					slog.String("stream", stream),
					slog.String("error", err.Error()),
				)
			}
		default:
			if err := b.consume(ctx, stream, queue, consumer, handler); err != nil && ctx.Err() == nil {
				slog.Error("error consuming messages", slog.String("error", err.Error()))
				sleep(ctx, errorRetryDelay)
			}
		}
	}
}

func (b *RedisBroker) consume(ctx context.Context, stream, group, consumer string, handler Handler) error {
	readCmd := b.client.B().Xreadgroup().Group(group, consumer).
		Count(b.batchSize).
		Block(b.block.Milliseconds()).
		Streams().
		Key(stream).
		Id(">").
		Build()

	streams, err := b.client.Do(ctx, readCmd).AsXRead()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil
		}

		return err
	}

	for _, entry := range streams[stream] {
		b.deliver(ctx, stream, group, entry, false, handler)
	}

	return nil
}

func (b *RedisBroker) claimPending(ctx context.Context, stream, group, consumer string, handler Handler) error {
	claimCmd := b.client.B().Xautoclaim().Key(stream).Group(group).Consumer(consumer).
		MinIdleTime(strconv.FormatInt(b.claimMinIdle.Milliseconds(), 10)).
		Start("0-0").
		Count(b.batchSize).
		Build()

	reply, err := b.client.Do(ctx, claimCmd).ToArray()
	if err != nil {
		return err
	}

	if len(reply) < 2 {
		return nil
	}

	entries, err := reply[1].AsXRange()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		b.deliver(ctx, stream, group, entry, true, handler)
	}

	return nil
}

func (b *RedisBroker) deliver(
	ctx context.Context,
	stream, group string,
	entry rueidis.XRangeEntry,
	redelivered bool,
	handler Handler,
) {
	delivery := Delivery{
		ID:          entry.ID,
		Queue:       group,
		Values:      entry.FieldValues,
		Redelivered: redelivered,
	}

	if err := handler(ctx, delivery); err != nil {
		slog.Error("failed to process message",
			slog.String("message_id", entry.ID),
			slog.String("queue", group),
			slog.String("error", err.Error()),
		)

		return
	}

	ackCmd := b.client.B().Xack().Key(stream).Group(group).Id(entry.ID).Build()
	if err := b.client.Do(ctx, ackCmd).Error(); err != nil {
		slog.Error("failed to ACK message",
			slog.String("message_id", entry.ID),
			slog.String("error", err.Error()),
		)
	} else {
		slog.Debug("ACKed message", slog.String("message_id", entry.ID))
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
