// Package ports define the EventBus interface for event-driven communication.
// The event bus carries frames from sources to the visualizer service and
// redraw requests from the service to the UI.
package ports

import (
	"github.com/tejashwikalptaru/spectrometer/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
//
// Producers (frame sources, the visualizer service) do not know their consumers
// (the service, the presenter, logging). Multiple subscribers can listen to the
// same event type.
//
// Thread-safety: Implementations must be thread-safe. Frames are published from
// the source goroutine while the UI subscribes from the main goroutine.
//
// Example usage:
//
//	// In a frame source:
//	bus.Publish(domain.NewFrameReceivedEvent(frame, 44100, seq))
//
//	// In the presenter:
//	subID := bus.Subscribe(domain.EventRedrawRequested, func(domain.Event) {
//	    fyne.Do(widget.Refresh)
//	})
//
//	// Later:
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish delivers an event to all subscribers of its type.
	// Synchronous implementations call handlers in subscription order on the
	// publishing goroutine, so handlers must return quickly.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type and
	// returns an ID that can be used to unsubscribe later.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered handler.
	// Unknown or already removed IDs are a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives every event.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers reports whether anyone listens for the given event type.
	// Publishers use it to skip building events nobody consumes.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and drops all subscriptions.
	Close() error
}
