// Package publisher sends domain events to the exchange.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jnst/race-registration/internal/broker"
	"github.com/jnst/race-registration/internal/event"
	"github.com/jnst/race-registration/internal/metrics"
	"github.com/jnst/race-registration/internal/model"
)

const tracerName = "github.com/jnst/race-registration/internal/publisher"

// Routing names the exchange and the routing key of each category.
type Routing struct {
	Exchange       string
	RaceKey        string
	ApplicationKey string
}

// EventPublisher encodes events into envelopes and publishes them persistently. It never reads
// the read model.
type EventPublisher struct {
	broker     broker.Publisher
	routing    Routing
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// New creates an EventPublisher.
func New(b broker.Publisher, routing Routing) *EventPublisher {
	return &EventPublisher{
		broker:     b,
		routing:    routing,
		tracer:     otel.Tracer(tracerName),
		propagator: propagation.TraceContext{},
	}
}

// PublishRaceEvent publishes a race event with the race routing key.
func (p *EventPublisher) PublishRaceEvent(ctx context.Context, e event.Event) (*event.Envelope, error) {
	return p.publish(ctx, event.CategoryRace, p.routing.RaceKey, e)
}

// PublishApplicationEvent publishes an application event with the application routing key.
func (p *EventPublisher) PublishApplicationEvent(ctx context.Context, e event.Event) (*event.Envelope, error) {
	return p.publish(ctx, event.CategoryApplication, p.routing.ApplicationKey, e)
}

func (p *EventPublisher) publish(ctx context.Context, category event.Category, routingKey string, e event.Event) (*event.Envelope, error) {
	if e.Kind().Category() != category {
		return nil, fmt.Errorf("%w: %s is not a %s event", model.ErrPublish, e.Kind(), category)
	}

	ctx, span := p.tracer.Start(ctx, "publish "+string(category),
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", p.routing.Exchange),
			attribute.String("messaging.routing_key", routingKey),
			attribute.String("event.kind", string(e.Kind())),
		),
	)
	defer span.End()

	env := event.NewEnvelope(category, e)
	p.propagator.Inject(ctx, propagation.MapCarrier(env.Metadata))
	span.SetAttributes(attribute.String("event.id", env.EventID))

	values, err := env.Values()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPublish, err)
	}

	start := time.Now()
	err = p.broker.Publish(ctx, p.routing.Exchange, routingKey, broker.Publishing{Values: values, Persistent: true})
	if err != nil {
		metrics.RecordPublish(string(category), "error", time.Since(start))
		span.RecordError(err)
		slog.Error("failed to publish event",
			slog.String("event_id", env.EventID),
			slog.String("kind", string(e.Kind())),
			slog.String("error", err.Error()),
		)

		return nil, fmt.Errorf("%w: %w", model.ErrPublish, err)
	}

	metrics.RecordPublish(string(category), "success", time.Since(start))
	slog.Info("event published",
		slog.String("event_id", env.EventID),
		slog.String("kind", string(e.Kind())),
		slog.String("routing_key", routingKey),
	)

	return env, nil
}
