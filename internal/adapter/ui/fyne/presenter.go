// Package fyne provides the Fyne UI adapter: the main window, the spectrum
// widget and the presenter that connects them to the visualizer service.
package fyne

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	fyneapp "fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
	"github.com/tejashwikalptaru/spectrometer/internal/ports"
	"github.com/tejashwikalptaru/spectrometer/internal/service"
)

// Presenter connects the visualizer service to the view (MVP).
//
// Redraw requests arrive on the frame source goroutine at the frame rate. At
// most one repaint is queued on the UI goroutine at any time; requests that
// arrive while one is pending are folded into it.
type Presenter struct {
	// Dependencies
	logger  *slog.Logger
	service *service.VisualizerService
	bus     ports.EventBus
	view    ports.SpectrumView

	// do runs fn on the UI goroutine
	do func(fn func())

	pending   atomic.Bool
	refreshes atomic.Uint64

	subs         []domain.SubscriptionID
	shutdownOnce sync.Once
}

// NewPresenter creates a presenter and subscribes it to redraw and settings
// events.
func NewPresenter(
	logger *slog.Logger,
	svc *service.VisualizerService,
	bus ports.EventBus,
	view ports.SpectrumView,
) *Presenter {
	p := &Presenter{
		logger:  logger,
		service: svc,
		bus:     bus,
		view:    view,
		do:      fyneapp.Do,
	}

	p.subs = append(p.subs,
		bus.Subscribe(domain.EventRedrawRequested, p.onRedrawRequested),
		bus.Subscribe(domain.EventSettingsChanged, p.onSettingsChanged),
		bus.Subscribe(domain.EventSourceStopped, p.onSourceStopped),
	)

	// Construction happens on the UI goroutine before the event loop starts.
	p.view.SetStatus(Status(svc.Settings()))
	return p
}

// Event handlers

func (p *Presenter) onRedrawRequested(domain.Event) {
	if !p.pending.CompareAndSwap(false, true) {
		return
	}
	p.do(func() {
		p.pending.Store(false)
		p.refreshes.Add(1)
		p.view.RefreshSpectrum()
	})
}

func (p *Presenter) onSettingsChanged(event domain.Event) {
	e, ok := event.(domain.SettingsChangedEvent)
	if !ok {
		return
	}
	status := Status(e.Settings)
	p.do(func() { p.view.SetStatus(status) })
}

func (p *Presenter) onSourceStopped(event domain.Event) {
	if e, ok := event.(domain.SourceStoppedEvent); ok {
		p.logger.Debug("frame source stopped", slog.String("source", e.Name), slog.Uint64("frames", e.Frames))
	}
}

// User commands

// OnToggleStyle switches between line and gradient rendering.
func (p *Presenter) OnToggleStyle() {
	style := p.service.NextStyle()
	p.logger.Debug("style toggled", slog.String("style", style.String()))
}

// OnCycleScale moves to the next frequency scale.
func (p *Presenter) OnCycleScale() {
	scale := p.service.NextScale()
	p.logger.Debug("scale cycled", slog.String("scale", scale.String()))
}

// OnSlopeStep changes the spectral tilt by delta dB per octave.
func (p *Presenter) OnSlopeStep(delta float64) {
	slope := p.service.Settings().Slope + delta
	if err := p.service.SetSlope(slope); err != nil {
		p.logger.Warn("failed to change slope", slog.Any("error", err))
	}
}

// OnReset discards the smoothed spectrum.
func (p *Presenter) OnReset() {
	p.service.Reset()
}

// Refreshes returns how many repaints the presenter has requested.
func (p *Presenter) Refreshes() uint64 {
	return p.refreshes.Load()
}

// Shutdown unsubscribes from the event bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		for _, id := range p.subs {
			p.bus.Unsubscribe(id)
		}
		p.subs = nil
	})
}

// Status formats settings for the window title.
func Status(s domain.Settings) string {
	status := fmt.Sprintf("%s | %s | %+.1f dB/oct", s.Style, s.Scale, s.Slope)
	if s.Style == domain.StyleGradient {
		status += " | " + s.ColorMap
	}
	return status
}
