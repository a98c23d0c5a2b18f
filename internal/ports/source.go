// Package ports define the FrameSource interface.
// Sources produce spectrum frames and publish them on the event bus.
package ports

import (
	"context"
)

// FrameSource produces domain.Frame updates on its own cadence and publishes
// them as domain.FrameReceivedEvent.
//
// Thread-safety: Implementations must be thread-safe; Start and Stop may be
// called from any goroutine.
type FrameSource interface {
	// Start begins producing frames until ctx is cancelled or Stop is called.
	// Returns domain.ErrSourceRunning if the source is already running.
	Start(ctx context.Context) error

	// Stop stops producing frames and waits for the producer to exit.
	// Returns domain.ErrSourceStopped if the source is not running.
	Stop() error

	// Running reports whether the source is producing frames.
	Running() bool
}
