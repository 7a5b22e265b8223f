// Package dispatch classifies broker deliveries into typed events and hands them to the
// reconciler.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jnst/race-registration/internal/broker"
	"github.com/jnst/race-registration/internal/event"
	"github.com/jnst/race-registration/internal/metrics"
	"github.com/jnst/race-registration/internal/reconcile"
)

const tracerName = "github.com/jnst/race-registration/internal/dispatch"

// Applier applies a typed event to the read model.
type Applier interface {
	Apply(ctx context.Context, e event.Event) reconcile.Outcome
}

// Dispatcher turns deliveries into reconciliations. It never fails a delivery: unclassified,
// malformed and duplicate envelopes are logged, counted and acknowledged.
type Dispatcher struct {
	applier    Applier
	seen       *lru.Cache[string, struct{}]
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewDispatcher creates a dispatcher that remembers the last dedupeSize applied event ids.
func NewDispatcher(applier Applier, dedupeSize int) (*Dispatcher, error) {
	seen, err := lru.New[string, struct{}](dedupeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create dedupe cache: %w", err)
	}

	return &Dispatcher{
		applier:    applier,
		seen:       seen,
		tracer:     otel.Tracer(tracerName),
		propagator: propagation.TraceContext{},
	}, nil
}

// Handler returns the broker handler for a queue carrying events of category.
func (d *Dispatcher) Handler(category event.Category) broker.Handler {
	return func(ctx context.Context, delivery broker.Delivery) error {
		d.Dispatch(ctx, category, delivery)
		return nil
	}
}

// Dispatch processes one delivery and reports the reconciliation outcome. ok is false when the
// delivery was dropped before reaching the reconciler.
func (d *Dispatcher) Dispatch(ctx context.Context, category event.Category, delivery broker.Delivery) (outcome reconcile.Outcome, ok bool) {
	metrics.RecordReceived(string(category))

	env, err := event.ParseEnvelope(delivery.Values)
	if err != nil {
		d.drop(category, metrics.ReasonMalformed, delivery, err)
		return "", false
	}

	ctx = d.propagator.Extract(ctx, propagation.MapCarrier(env.Metadata))
	ctx, span := d.tracer.Start(ctx, "dispatch "+string(category),
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.message.id", delivery.ID),
			attribute.String("messaging.destination.name", delivery.Queue),
			attribute.String("event.id", env.EventID),
		),
	)
	defer span.End()

	if env.EventID != "" && d.seen.Contains(env.EventID) {
		metrics.RecordDropped(string(category), metrics.ReasonDuplicate)
		slog.Info("duplicate event skipped",
			slog.String("event_id", env.EventID),
			slog.String("message_id", delivery.ID),
		)

		return "", false
	}

	kind := event.Resolve(category, env.Kind, env.Payload)

	e, err := event.DecodeKind(kind, env.Payload)
	if err != nil {
		reason := metrics.ReasonMalformed
		if errors.Is(err, event.ErrUnclassified) {
			reason = metrics.ReasonUnclassified
		}

		d.drop(category, reason, delivery, err)

		return "", false
	}

	span.SetAttributes(attribute.String("event.kind", string(kind)))

	outcome = d.applier.Apply(ctx, e)
	span.SetAttributes(attribute.String("reconcile.outcome", string(outcome)))

	if env.EventID != "" && outcome != reconcile.OutcomeFailed {
		d.seen.Add(env.EventID, struct{}{})
	}

	return outcome, true
}

func (*Dispatcher) drop(category event.Category, reason string, delivery broker.Delivery, err error) {
	metrics.RecordDropped(string(category), reason)
	slog.Warn("event dropped",
		slog.String("category", string(category)),
		slog.String("reason", reason),
		slog.String("message_id", delivery.ID),
		slog.Any("values", delivery.Values),
		slog.String("error", err.Error()),
	)
}
