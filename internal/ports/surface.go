// Package ports define the drawing surface abstraction.
// The visualizer core never touches pixels; it hands geometry to a Surface.
package ports

import (
	"github.com/tejashwikalptaru/spectrometer/internal/domain"
)

// Surface is the external canvas the visualizer draws on.
//
// Coordinates are device-independent pixels with the origin at the top-left
// corner. Implementations clip anything outside the viewport.
//
// Thread-safety: Surfaces are used from a single draw call at a time.
type Surface interface {
	// Size returns the current viewport width and height in the same units
	// used for path coordinates.
	Size() (width, height float64)

	// StrokePath strokes a path built from move-to/line-to commands with a
	// solid color and constant line width.
	StrokePath(path domain.Path, paint domain.Paint)

	// FillGradient fills rect with a horizontal linear gradient through the
	// ordered stops. Stop positions are x coordinates.
	FillGradient(rect domain.Rect, stops []domain.GradientStop)
}
