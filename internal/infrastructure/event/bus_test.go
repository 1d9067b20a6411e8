package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mandir/backend/internal/domain/shared"
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
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), tenantID),
		Data:            "payload",
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
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

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("ledger.entry.posted")
	bus.Subscribe(handler, "ledger.entry.posted")

	evt := newTestEvent("ledger.entry.posted", uuid.New())
	err := bus.Publish(context.Background(), evt)

	require.NoError(t, err)
	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, evt, handler.getHandled()[0])
}

func TestInMemoryEventBus_Publish_MultipleHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler1 := newTestHandler("ledger.entry.posted")
	handler2 := newTestHandler("ledger.entry.posted")
	bus.Subscribe(handler1, "ledger.entry.posted")
	bus.Subscribe(handler2, "ledger.entry.posted")

	err := bus.Publish(context.Background(), newTestEvent("ledger.entry.posted", uuid.New()))

	require.NoError(t, err)
	assert.Len(t, handler1.getHandled(), 1)
	assert.Len(t, handler2.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_UsesHandlerEventTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("ledger.account.created", "ledger.account.updated")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ledger.account.created", uuid.New())))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ledger.entry.posted", uuid.New())))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler("ledger.entry.posted")
	failing.err = errors.New("boom")
	healthy := newTestHandler("ledger.entry.posted")
	bus.Subscribe(failing, "ledger.entry.posted")
	bus.Subscribe(healthy, "ledger.entry.posted")

	err := bus.Publish(context.Background(), newTestEvent("ledger.entry.posted", uuid.New()))

	require.NoError(t, err)
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_RecoversHandlerPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	panicking := newTestHandler("ledger.entry.posted")
	panicking.panics = true
	healthy := newTestHandler("ledger.entry.posted")
	bus.Subscribe(panicking, "ledger.entry.posted")
	bus.Subscribe(healthy, "ledger.entry.posted")

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("ledger.entry.posted", uuid.New()))
	})
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("ledger.entry.posted")
	bus.Subscribe(handler, "ledger.entry.posted")
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ledger.entry.posted", uuid.New())))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
}
