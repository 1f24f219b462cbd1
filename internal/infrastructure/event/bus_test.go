package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string, tenantID uuid.UUID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Asset", uuid.New(), tenantID),
		Data:            "test data",
	}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicMsg   string
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	return bus
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := startedBus(t)
	handler := newTestHandler("AssetClosed")
	bus.Subscribe(handler)

	event := newTestEvent("AssetClosed", uuid.New())
	require.NoError(t, bus.Publish(context.Background(), event))

	handled := handler.getHandled()
	require.Len(t, handled, 1)
	assert.Equal(t, event.EventID(), handled[0].EventID())
	assert.Equal(t, BusStats{Dispatched: 1}, bus.Stats())
}

func TestInMemoryEventBus_Publish_RoutesByType(t *testing.T) {
	bus := startedBus(t)
	closed := newTestHandler("AssetClosed")
	posted := newTestHandler("DepreciationLinePosted")
	all := newTestHandler()
	bus.Subscribe(closed)
	bus.Subscribe(posted)
	bus.Subscribe(all)

	tenantID := uuid.New()
	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("DepreciationLinePosted", tenantID),
		newTestEvent("DepreciationLinePosted", tenantID),
		newTestEvent("AssetClosed", tenantID),
		newTestEvent("AssetReopened", tenantID),
	))

	assert.Len(t, closed.getHandled(), 1)
	assert.Len(t, posted.getHandled(), 2)
	assert.Len(t, all.getHandled(), 4)
}

func TestInMemoryEventBus_Publish_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := startedBus(t)
	handler := newTestHandler("AssetClosed")
	bus.Subscribe(handler, "AssetReopened")

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("AssetClosed", uuid.New()),
		newTestEvent("AssetReopened", uuid.New()),
	))

	handled := handler.getHandled()
	require.Len(t, handled, 1)
	assert.Equal(t, "AssetReopened", handled[0].EventType())
}

func TestInMemoryEventBus_Publish_HandlerFailuresAreIsolated(t *testing.T) {
	bus := startedBus(t)
	failing := newTestHandler("AssetClosed")
	failing.err = errors.New("boom")
	panicking := newTestHandler("AssetClosed")
	panicking.panicMsg = "nil map"
	healthy := newTestHandler("AssetClosed")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("AssetClosed", uuid.New()))
	require.NoError(t, err)

	assert.Len(t, healthy.getHandled(), 1)
	assert.Equal(t, BusStats{Dispatched: 3, Failed: 2}, bus.Stats())
}

func TestInMemoryEventBus_Publish_BeforeStartDrops(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("AssetClosed")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("AssetClosed", uuid.New())))
	assert.Empty(t, handler.getHandled())

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("AssetClosed", uuid.New())))
	assert.Len(t, handler.getHandled(), 1)

	require.NoError(t, bus.Stop(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("AssetClosed", uuid.New())))
	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := startedBus(t)
	handler := newTestHandler("AssetClosed")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("AssetClosed", uuid.New())))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_ConcurrentPublish(t *testing.T) {
	bus := startedBus(t)
	handler := newTestHandler()
	bus.Subscribe(handler)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), newTestEvent("DepreciationLinePosted", uuid.New()))
		}()
	}
	wg.Wait()

	assert.Len(t, handler.getHandled(), 10)
	assert.Equal(t, int64(10), bus.Stats().Dispatched)
}
