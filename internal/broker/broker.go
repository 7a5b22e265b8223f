// Package broker provides a topic exchange with durable queues on top of Redis Streams.
package broker

import (
	"context"
	"errors"
)

var (
	// ErrUnroutable is returned when no queue binding matches the routing key.
	ErrUnroutable = errors.New("no queue bound for routing key")
	// ErrClosed is returned when the broker was closed.
	ErrClosed = errors.New("broker closed")
)

// Publishing is one outgoing message.
type Publishing struct {
	Values     map[string]string
	Persistent bool
}

// Delivery is one message read from a queue.
type Delivery struct {
	ID          string
	Queue       string
	Values      map[string]string
	Redelivered bool
}

// Handler processes a delivery. Returning nil acknowledges the message; an error leaves it
// pending so that it is delivered again after the claim idle time.
type Handler func(ctx context.Context, d Delivery) error

// Publisher sends messages to an exchange.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, msg Publishing) error
}

// Subscriber receives messages from a queue.
type Subscriber interface {
	DeclareQueue(ctx context.Context, exchange, queue, pattern string) error
	Subscribe(ctx context.Context, exchange, queue, consumer string, handler Handler) error
}

// Broker is both ends of the message bus.
type Broker interface {
	Publisher
	Subscriber
}
