// Package eventbus provides implementations of the EventBus interface.
// Frames travel from the source goroutine to the visualizer service, and
// redraw requests from the service to the UI, through a SyncEventBus.
package eventbus

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
	"github.com/tejashwikalptaru/spectrometer/internal/ports"
)

// SyncEventBus delivers events on the publishing goroutine, type-specific
// handlers first and wildcard handlers after, each group in subscription order.
//
// It is safe for concurrent use. Handlers run outside the lock, so a handler
// may publish or unsubscribe without deadlocking. A slow handler stalls the
// publisher; at 60 frames per second that is the source ticker.
type SyncEventBus struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[domain.EventType][]subscription
	wildcard    []subscription
	closed      bool

	nextID    atomic.Uint64
	published sync.Map // domain.EventType -> *atomic.Uint64
	panics    atomic.Uint64
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// quiet event types are published every frame and are not traced per handler.
var quiet = map[domain.EventType]bool{
	domain.EventFrameReceived:   true,
	domain.EventRedrawRequested: true,
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus() *SyncEventBus {
	return &SyncEventBus{
		subscribers: make(map[domain.EventType][]subscription),
	}
}

// SetLogger sets the logger for this event bus.
// This should be called after construction before using the event bus.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish delivers event to its subscribers. Publishing a nil event or on a
// closed bus does nothing. A panicking handler is recovered and logged, and
// the remaining handlers still run.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	eventType := event.Type()

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := make([]subscription, 0, len(bus.subscribers[eventType])+len(bus.wildcard))
	targets = append(targets, bus.subscribers[eventType]...)
	targets = append(targets, bus.wildcard...)
	logger := bus.logger
	bus.mu.RUnlock()

	bus.counter(eventType).Add(1)

	for _, sub := range targets {
		bus.callHandler(logger, sub.handler, event)
	}
}

func (bus *SyncEventBus) callHandler(logger *slog.Logger, handler domain.EventHandler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			bus.panics.Add(1)
			if logger != nil {
				logger.Error("event handler panicked",
					slog.Any("panic", r),
					slog.String("event_type", string(event.Type())))
			}
		}
	}()

	if logger != nil && !quiet[event.Type()] {
		logger.Debug("event published",
			slog.String("event_type", string(event.Type())),
			slog.String("handler", handlerName(handler)))
	}
	handler(event)
}

func handlerName(handler domain.EventHandler) string {
	return runtime.FuncForPC(reflect.ValueOf(handler).Pointer()).Name()
}

// Subscribe registers a handler for events of the specified type.
// It panics on a nil handler or a closed bus.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	id := bus.newID(string(eventType))
	bus.subscribers[eventType] = append(bus.subscribers[eventType], subscription{id: id, handler: handler})
	return id
}

// SubscribeAll registers a handler that receives all events regardless of type.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	id := bus.newID("*")
	bus.wildcard = append(bus.wildcard, subscription{id: id, handler: handler})
	return id
}

func (bus *SyncEventBus) newID(scope string) domain.SubscriptionID {
	return domain.SubscriptionID(scope + "#" + strconv.FormatUint(bus.nextID.Add(1), 10))
}

// Unsubscribe removes a previously registered handler. Unknown IDs are a no-op.
// The relative order of the remaining handlers is preserved.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, subs := range bus.subscribers {
		if rest, ok := without(subs, id); ok {
			bus.subscribers[eventType] = rest
			return
		}
	}

	if rest, ok := without(bus.wildcard, id); ok {
		bus.wildcard = rest
	}
}

// without returns subs minus the subscription with the given id. The result
// is a fresh slice so snapshots taken by Publish stay intact.
func without(subs []subscription, id domain.SubscriptionID) ([]subscription, bool) {
	for i, sub := range subs {
		if sub.id != id {
			continue
		}
		rest := make([]subscription, 0, len(subs)-1)
		rest = append(rest, subs[:i]...)
		rest = append(rest, subs[i+1:]...)
		return rest, true
	}
	return subs, false
}

// HasSubscribers returns true if anyone receives events of the given type,
// including wildcard subscribers.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subscribers[eventType]) > 0 || len(bus.wildcard) > 0
}

// Close drops all subscriptions. Further publishes are ignored and further
// subscriptions panic. Closing twice returns domain.ErrBusClosed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return fmt.Errorf("close: %w", domain.ErrBusClosed)
	}

	bus.closed = true
	bus.subscribers = make(map[domain.EventType][]subscription)
	bus.wildcard = nil
	return nil
}

// SubscriberCount returns the number of active subscriptions, wildcard ones included.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.wildcard)
	for _, subs := range bus.subscribers {
		count += len(subs)
	}
	return count
}

// Published returns how many events of the given type have been delivered
// since the bus was created.
func (bus *SyncEventBus) Published(eventType domain.EventType) uint64 {
	if c, ok := bus.published.Load(eventType); ok {
		return c.(*atomic.Uint64).Load()
	}
	return 0
}

// Panics returns the number of recovered handler panics.
func (bus *SyncEventBus) Panics() uint64 {
	return bus.panics.Load()
}

func (bus *SyncEventBus) counter(eventType domain.EventType) *atomic.Uint64 {
	if c, ok := bus.published.Load(eventType); ok {
		return c.(*atomic.Uint64)
	}
	c, _ := bus.published.LoadOrStore(eventType, new(atomic.Uint64))
	return c.(*atomic.Uint64)
}

var _ ports.EventBus = (*SyncEventBus)(nil)
