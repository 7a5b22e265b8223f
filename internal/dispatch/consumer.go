package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jnst/race-registration/internal/broker"
	"github.com/jnst/race-registration/internal/event"
)

// Queue is one durable queue bound to the exchange.
type Queue struct {
	Name     string
	Pattern  string
	Category event.Category
}

// Consumer runs a pool of subscribers per queue.
type Consumer struct {
	subscriber broker.Subscriber
	dispatcher *Dispatcher
	exchange   string
	name       string
	workers    int
	queues     []Queue
}

// NewConsumer creates a consumer. Each of the workers subscribes to every queue as its own
// member of the queue's consumer group.
func NewConsumer(sub broker.Subscriber, d *Dispatcher, exchange, name string, workers int, queues ...Queue) *Consumer {
	if workers < 1 {
		workers = 1
	}

	return &Consumer{
		subscriber: sub,
		dispatcher: d,
		exchange:   exchange,
		name:       name,
		workers:    workers,
		queues:     queues,
	}
}

// Declare binds every queue to the exchange.
func (c *Consumer) Declare(ctx context.Context) error {
	for _, q := range c.queues {
		if err := c.subscriber.DeclareQueue(ctx, c.exchange, q.Name, q.Pattern); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", q.Name, err)
		}
	}

	return nil
}

// Run declares the queues and consumes them until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.Declare(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, q := range c.queues {
		handler := c.dispatcher.Handler(q.Category)

		for i := range c.workers {
			consumer := fmt.Sprintf("%s-%d", c.name, i)
			g.Go(func() error {
				return c.subscriber.Subscribe(ctx, c.exchange, q.Name, consumer, handler)
			})
		}
	}

	slog.Info("consumers started",
		slog.String("exchange", c.exchange),
		slog.Int("queues", len(c.queues)),
		slog.Int("workers", c.workers),
	)

	return g.Wait()
}
