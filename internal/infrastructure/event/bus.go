package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// InMemoryEventBus dispatches domain events to subscribed handlers in the
// publishing goroutine. Handlers run after the publishing transaction has
// committed, so a failing handler never undoes a posting.
type InMemoryEventBus struct {
	registry   *HandlerRegistry
	logger     *zap.Logger
	running    atomic.Bool
	dispatched atomic.Int64
	failed     atomic.Int64
}

// BusStats is a snapshot of dispatch counters
type BusStats struct {
	Dispatched int64
	Failed     int64
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish hands every event to its handlers. Handler errors and panics are
// logged and counted but never returned to the publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		b.logger.Debug("event bus not started, dropping events", zap.Int("count", len(events)))
		return nil
	}

	for _, event := range events {
		ctx, span := telemetry.StartSpan(ctx, "event.publish",
			telemetry.WithAttribute("event.type", event.EventType()),
			telemetry.WithAttribute("event.aggregate_id", event.AggregateID().String()),
		)
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			b.dispatched.Add(1)
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.failed.Add(1)
				telemetry.RecordError(span, err)
				b.logger.Error("event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("tenant_id", event.TenantID().String()),
					zap.Error(err),
				)
			}
		}
		span.End()
	}
	return nil
}

// Subscribe registers a handler; without explicit types the handler's own
// EventTypes are used, and an empty list subscribes to everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start enables dispatching
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Int("handlers", len(b.registry.GetAllHandlers())))
	return nil
}

// Stop disables dispatching. Publish is synchronous, so nothing is in flight
// once the callers of Publish have returned.
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.running.Store(false)
	stats := b.Stats()
	b.logger.Info("event bus stopped",
		zap.Int64("dispatched", stats.Dispatched),
		zap.Int64("failed", stats.Failed),
	)
	return nil
}

// Stats returns the dispatch counters
func (b *InMemoryEventBus) Stats() BusStats {
	return BusStats{Dispatched: b.dispatched.Load(), Failed: b.failed.Load()}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
