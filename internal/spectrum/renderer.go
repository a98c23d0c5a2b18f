package spectrum

import (
	"github.com/tejashwikalptaru/spectrometer/internal/domain"
	"github.com/tejashwikalptaru/spectrometer/internal/ports"
)

// Sample is one bin placed on screen: its x coordinate and linear amplitude.
type Sample struct {
	X         float64
	Amplitude float64
}

// Scene is the geometry of one draw call. It is a plain value; Paint hands it
// to a surface.
type Scene struct {
	Style  domain.Style
	Bounds domain.Rect

	// Spectrum style
	Line   domain.Path
	Stroke domain.Paint

	// Gradient style
	Stops []domain.GradientStop
}

// Empty reports whether painting the scene would draw nothing.
func (s Scene) Empty() bool {
	if s.Bounds.Empty() {
		return true
	}
	if s.Style == domain.StyleGradient {
		return len(s.Stops) == 0
	}
	return s.Line.Len() < 2
}

// Paint forwards the scene to the surface. Empty scenes make no surface calls.
func (s Scene) Paint(surface ports.Surface) {
	if s.Empty() {
		return
	}
	switch s.Style {
	case domain.StyleGradient:
		surface.FillGradient(s.Bounds, s.Stops)
	default:
		surface.StrokePath(s.Line, s.Stroke)
	}
}

// Renderer turns placed samples into a Scene.
type Renderer struct {
	Style    domain.Style
	Stroke   domain.Paint
	ColorMap ColorMap
}

// Build returns the scene for a viewport of the given size. Samples must be in
// increasing bin order. A zero-sized viewport yields an empty scene.
func (r Renderer) Build(samples []Sample, width, height float64) Scene {
	scene := Scene{
		Style:  r.Style,
		Bounds: domain.Rect{Width: width, Height: height},
	}
	if scene.Bounds.Empty() {
		return scene
	}

	switch r.Style {
	case domain.StyleGradient:
		scene.Stops = r.gradient(samples)
	default:
		scene.Line = r.line(samples, height)
		scene.Stroke = r.Stroke
	}
	return scene
}

// line starts at the bottom-left corner and visits every sample; amplitude 1
// is the top edge.
func (r Renderer) line(samples []Sample, height float64) domain.Path {
	path := domain.Path{Commands: make([]domain.PathCommand, 0, len(samples)+1)}
	path.MoveTo(0, height)
	for _, s := range samples {
		path.LineTo(s.X, (1-s.Amplitude)*height)
	}
	return path
}

func (r Renderer) gradient(samples []Sample) []domain.GradientStop {
	cm := r.ColorMap
	if cm == nil {
		cm = Grayscale
	}
	stops := make([]domain.GradientStop, 0, len(samples))
	for _, s := range samples {
		stops = append(stops, domain.GradientStop{Position: s.X, Color: cm(s.Amplitude)})
	}
	return stops
}
