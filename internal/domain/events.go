// Package domain defines events for the event-driven architecture.
// Events decouple frame sources, the visualizer service and the UI.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Data events
	EventFrameReceived EventType = "frame.received"

	// Visualizer events
	EventRedrawRequested EventType = "visualizer.redraw"
	EventSettingsChanged EventType = "visualizer.settings_changed"

	// Source lifecycle events
	EventSourceStarted EventType = "source.started"
	EventSourceStopped EventType = "source.stopped"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// FrameReceivedEvent carries a new spectrum frame from a source.
type FrameReceivedEvent struct {
	baseEvent
	Frame      Frame
	SampleRate int
	Sequence   uint64
}

// Type returns the event type.
func (e FrameReceivedEvent) Type() EventType {
	return EventFrameReceived
}

// NewFrameReceivedEvent creates a new FrameReceivedEvent.
// The frame is copied so the publisher may reuse its buffer.
func NewFrameReceivedEvent(frame Frame, sampleRate int, sequence uint64) FrameReceivedEvent {
	return FrameReceivedEvent{
		baseEvent:  newBaseEvent(),
		Frame:      frame.Clone(),
		SampleRate: sampleRate,
		Sequence:   sequence,
	}
}

// RedrawRequestedEvent is published when the visualizer state changed and the
// host should schedule a repaint.
type RedrawRequestedEvent struct {
	baseEvent
	Reason string
}

// Type returns the event type.
func (e RedrawRequestedEvent) Type() EventType {
	return EventRedrawRequested
}

// NewRedrawRequestedEvent creates a new RedrawRequestedEvent.
func NewRedrawRequestedEvent(reason string) RedrawRequestedEvent {
	return RedrawRequestedEvent{
		baseEvent: newBaseEvent(),
		Reason:    reason,
	}
}

// SettingsChangedEvent is published after a visualizer setting was updated.
type SettingsChangedEvent struct {
	baseEvent
	Settings Settings
	Field    string
}

// Type returns the event type.
func (e SettingsChangedEvent) Type() EventType {
	return EventSettingsChanged
}

// NewSettingsChangedEvent creates a new SettingsChangedEvent.
func NewSettingsChangedEvent(settings Settings, field string) SettingsChangedEvent {
	return SettingsChangedEvent{
		baseEvent: newBaseEvent(),
		Settings:  settings,
		Field:     field,
	}
}

// SourceStartedEvent is published when a frame source begins producing frames.
type SourceStartedEvent struct {
	baseEvent
	Name       string
	SampleRate int
	BinCount   int
}

// Type returns the event type.
func (e SourceStartedEvent) Type() EventType {
	return EventSourceStarted
}

// NewSourceStartedEvent creates a new SourceStartedEvent.
func NewSourceStartedEvent(name string, sampleRate, binCount int) SourceStartedEvent {
	return SourceStartedEvent{
		baseEvent:  newBaseEvent(),
		Name:       name,
		SampleRate: sampleRate,
		BinCount:   binCount,
	}
}

// SourceStoppedEvent is published when a frame source stops.
type SourceStoppedEvent struct {
	baseEvent
	Name   string
	Frames uint64
}

// Type returns the event type.
func (e SourceStoppedEvent) Type() EventType {
	return EventSourceStopped
}

// NewSourceStoppedEvent creates a new SourceStoppedEvent.
func NewSourceStoppedEvent(name string, frames uint64) SourceStoppedEvent {
	return SourceStoppedEvent{
		baseEvent: newBaseEvent(),
		Name:      name,
		Frames:    frames,
	}
}
