// Package service provides the application logic around the spectrum core.
package service

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
	"github.com/tejashwikalptaru/spectrometer/internal/ports"
	"github.com/tejashwikalptaru/spectrometer/internal/spectrum"
)

const serviceName = "VisualizerService"

// DefaultRootExponent is the exponent NextScale uses for the root scale when
// the current settings carry none.
const DefaultRootExponent = 0.5

// VisualizerService owns a spectrum.Visualizer and serialises every access to
// it. Frames arrive from the event bus on the source goroutine, draws come
// from the UI render goroutine and setters from keyboard shortcuts.
//
// After every accepted frame it publishes a RedrawRequestedEvent; after every
// settings change a SettingsChangedEvent followed by a redraw request. Events
// are published with the lock released.
type VisualizerService struct {
	// Dependencies (injected)
	logger *slog.Logger
	bus    ports.EventBus

	// State
	vis          *spectrum.Visualizer
	rootExponent float64
	lastSequence uint64
	gaps         uint64
	closed       bool

	frameSub domain.SubscriptionID

	mu sync.Mutex
}

// Stats summarises what the service has processed.
type Stats struct {
	Frames uint64 // non-empty frames applied
	Gaps   uint64 // frames missing according to source sequence numbers
	Bins   int    // current bin count
}

// NewVisualizerService validates settings, creates the visualizer and
// subscribes to frame events.
func NewVisualizerService(logger *slog.Logger, bus ports.EventBus, settings domain.Settings) (*VisualizerService, error) {
	vis, err := spectrum.New(settings)
	if err != nil {
		return nil, domain.NewServiceError(serviceName, "New", "invalid settings", err)
	}

	s := &VisualizerService{
		logger:       logger,
		bus:          bus,
		vis:          vis,
		rootExponent: DefaultRootExponent,
	}
	if settings.Scale.Kind == domain.ScaleRoot {
		s.rootExponent = settings.Scale.Exponent
	}

	s.frameSub = bus.Subscribe(domain.EventFrameReceived, s.onFrameEvent)

	logger.Debug("visualizer service initialized",
		slog.String("scale", settings.Scale.String()),
		slog.String("style", settings.Style.String()),
		slog.Int("sample_rate", settings.SampleRate))

	return s, nil
}

func (s *VisualizerService) onFrameEvent(e domain.Event) {
	ev, ok := e.(domain.FrameReceivedEvent)
	if !ok {
		return
	}
	s.handleFrame(ev.Frame, ev.SampleRate, ev.Sequence)
}

// HandleFrame feeds one frame to the visualizer. A positive sampleRate that
// differs from the configured one replaces it before the frame is applied.
func (s *VisualizerService) HandleFrame(frame domain.Frame, sampleRate int) {
	s.handleFrame(frame, sampleRate, 0)
}

func (s *VisualizerService) handleFrame(frame domain.Frame, sampleRate int, sequence uint64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	var rateChanged bool
	if sampleRate > 0 && sampleRate != s.vis.Settings().SampleRate {
		if err := s.vis.SetSampleRate(sampleRate); err != nil {
			s.logger.Warn("ignoring frame sample rate", slog.Int("sample_rate", sampleRate), slog.Any("error", err))
		} else {
			rateChanged = true
		}
	}

	if sequence > 0 {
		if s.lastSequence > 0 && sequence > s.lastSequence+1 {
			s.gaps += sequence - s.lastSequence - 1
		}
		s.lastSequence = sequence
	}

	prevLen := s.vis.Len()
	redraw := s.vis.OnFrame(frame)
	bins := s.vis.Len()
	settings := s.vis.Settings()
	s.mu.Unlock()

	if rateChanged {
		s.logger.Info("sample rate changed",
			slog.Int("sample_rate", sampleRate),
			slog.String("nyquist", humanize.SIWithDigits(spectrum.Nyquist(sampleRate), 1, "Hz")))
		s.bus.Publish(domain.NewSettingsChangedEvent(settings, "sample_rate"))
	}

	if bins != prevLen && bins > 0 {
		s.logger.Info("spectrum layout changed",
			slog.Int("bins", bins),
			slog.String("resolution", humanize.SIWithDigits(spectrum.BinToFrequency(1, bins, settings.SampleRate), 2, "Hz")))
	}

	if redraw && s.bus.HasSubscribers(domain.EventRedrawRequested) {
		s.bus.Publish(domain.NewRedrawRequestedEvent("frame"))
	}
}

// Draw paints the current state onto surface.
func (s *VisualizerService) Draw(surface ports.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vis.Draw(surface)
}

// Scene returns the geometry for a viewport of the given size.
func (s *VisualizerService) Scene(width, height float64) spectrum.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vis.Scene(width, height)
}

// Values returns a copy of the smoothed spectrum in dB.
func (s *VisualizerService) Values() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vis.Values()
}

// Settings returns the current configuration.
func (s *VisualizerService) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vis.Settings()
}

// Stats returns processing counters.
func (s *VisualizerService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Frames: s.vis.Frames(), Gaps: s.gaps, Bins: s.vis.Len()}
}

// Reset discards the smoothed state; the next frame seeds it again.
func (s *VisualizerService) Reset() {
	s.mu.Lock()
	s.vis.Reset()
	s.lastSequence = 0
	s.gaps = 0
	s.mu.Unlock()

	s.bus.Publish(domain.NewRedrawRequestedEvent("reset"))
}

// UpdateSettings replaces the whole configuration.
func (s *VisualizerService) UpdateSettings(settings domain.Settings) error {
	return s.change("UpdateSettings", "all", func(v *spectrum.Visualizer) error {
		return v.Update(settings)
	})
}

// SetScale sets the frequency axis mapping.
func (s *VisualizerService) SetScale(scale domain.Scale) error {
	return s.change("SetScale", "scale", func(v *spectrum.Visualizer) error {
		return v.SetScale(scale)
	})
}

// SetStyle sets the rendering style.
func (s *VisualizerService) SetStyle(style domain.Style) error {
	return s.change("SetStyle", "style", func(v *spectrum.Visualizer) error {
		return v.SetStyle(style)
	})
}

// SetColor sets the stroke color.
func (s *VisualizerService) SetColor(c color.NRGBA) error {
	return s.change("SetColor", "color", func(v *spectrum.Visualizer) error {
		return v.SetColor(c)
	})
}

// SetLineWidth sets the stroke width.
func (s *VisualizerService) SetLineWidth(width float64) error {
	return s.change("SetLineWidth", "line_width", func(v *spectrum.Visualizer) error {
		return v.SetLineWidth(width)
	})
}

// SetSlope sets the spectral tilt in dB per octave.
func (s *VisualizerService) SetSlope(slope float64) error {
	return s.change("SetSlope", "slope", func(v *spectrum.Visualizer) error {
		return v.SetSlope(slope)
	})
}

// SetSampleRate sets the sample rate used to place bins.
func (s *VisualizerService) SetSampleRate(sampleRate int) error {
	return s.change("SetSampleRate", "sample_rate", func(v *spectrum.Visualizer) error {
		return v.SetSampleRate(sampleRate)
	})
}

// SetAttackRelease sets asymmetric smoothing coefficients.
func (s *VisualizerService) SetAttackRelease(attack, release float64) error {
	return s.change("SetAttackRelease", "smoothing", func(v *spectrum.Visualizer) error {
		return v.SetAttackRelease(attack, release)
	})
}

// SetSmoothingFactor sets symmetric smoothing.
func (s *VisualizerService) SetSmoothingFactor(factor float64) error {
	return s.change("SetSmoothingFactor", "smoothing", func(v *spectrum.Visualizer) error {
		return v.SetSmoothingFactor(factor)
	})
}

// SetColorMap selects the gradient color map by name.
func (s *VisualizerService) SetColorMap(name string) error {
	return s.change("SetColorMap", "color_map", func(v *spectrum.Visualizer) error {
		return v.SetColorMap(name)
	})
}

// NextStyle switches between the spectrum and gradient styles and returns the
// new style.
func (s *VisualizerService) NextStyle() domain.Style {
	next := domain.StyleSpectrum
	_ = s.change("NextStyle", "style", func(v *spectrum.Visualizer) error {
		if v.Settings().Style == domain.StyleSpectrum {
			next = domain.StyleGradient
		}
		return v.SetStyle(next)
	})
	return next
}

// NextScale cycles linear, root, logarithmic and returns the new scale.
func (s *VisualizerService) NextScale() domain.Scale {
	var next domain.Scale
	_ = s.change("NextScale", "scale", func(v *spectrum.Visualizer) error {
		switch v.Settings().Scale.Kind {
		case domain.ScaleLinear:
			next = domain.RootScale(s.rootExponent)
		case domain.ScaleRoot:
			next = domain.LogarithmicScale()
		default:
			next = domain.LinearScale()
		}
		return v.SetScale(next)
	})
	return next
}

// change applies fn under the lock and publishes the settings and redraw
// events once the lock is released. Nothing is published on error.
func (s *VisualizerService) change(op, field string, fn func(*spectrum.Visualizer) error) error {
	s.mu.Lock()
	if err := fn(s.vis); err != nil {
		s.mu.Unlock()
		s.logger.Debug("settings change rejected", slog.String("op", op), slog.Any("error", err))
		return domain.NewServiceError(serviceName, op, "invalid "+field, err)
	}
	settings := s.vis.Settings()
	if settings.Scale.Kind == domain.ScaleRoot {
		s.rootExponent = settings.Scale.Exponent
	}
	s.mu.Unlock()

	s.logger.Info("settings changed",
		slog.String("field", field),
		slog.String("scale", settings.Scale.String()),
		slog.String("style", settings.Style.String()))

	s.bus.Publish(domain.NewSettingsChangedEvent(settings, field))
	s.bus.Publish(domain.NewRedrawRequestedEvent(field))
	return nil
}

// Shutdown unsubscribes from frame events. Frames delivered afterwards are
// ignored. Calling it twice is a no-op.
func (s *VisualizerService) Shutdown() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	frames := s.vis.Frames()
	s.mu.Unlock()

	s.bus.Unsubscribe(s.frameSub)
	s.logger.Debug("visualizer service stopped", slog.Uint64("frames", frames))
	return nil
}
